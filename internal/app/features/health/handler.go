package health

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Handler serves the liveness endpoint. The service keeps no database
// and its upstreams are consulted per request, so there are no
// dependency checks to make here.
type Handler struct {
	Log *zap.Logger
}

// NewHandler constructs a health Handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status string `json:"status"`
}

// Serve handles GET /health with 200 and {"status":"ok"}.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok"})
}

package health_test

import (
	"net/http"
	"testing"

	"github.com/jbcpollak/strap-core/internal/app/features/health"
	"github.com/jbcpollak/strap-core/internal/testutil"
	"go.uber.org/zap"
)

func TestServe(t *testing.T) {
	h := health.NewHandler(zap.NewNop())

	rec := testutil.NewRecorder()
	health.Routes(h).ServeHTTP(rec.ResponseRecorder, testutil.NewRequest(http.MethodGet, "/"))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"status":"ok"`)
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
}

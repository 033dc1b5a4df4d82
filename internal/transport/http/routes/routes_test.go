package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhishek070702/Safe-Heaven/internal/infra/config"
	"github.com/abhishek070702/Safe-Heaven/internal/infra/security"
	httproutes "github.com/abhishek070702/Safe-Heaven/internal/transport/http/routes"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger, _ := zap.NewDevelopment()
	cfg := &config.AppConfig{App: config.AppSettings{Env: "test"}}

	tokens, err := security.NewTokenService("routes-test-secret", 0)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}

	return httproutes.Register(httproutes.Dependencies{
		Config: cfg,
		Logger: logger,
		Tokens: tokens,
	})
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t)

	paths := []string{
		"/api/donors/profile",
		"/api/volunteers/profile",
		"/api/operators/dashboard",
		"/api/admin/dashboard",
	}

	for _, path := range paths {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, nil)

		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s, got %d", path, w.Code)
		}
	}
}

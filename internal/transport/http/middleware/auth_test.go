package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhishek070702/Safe-Heaven/internal/core/domain"
	"github.com/abhishek070702/Safe-Heaven/internal/infra/security"
)

const operatorContextKey = "operator"

func newAuthTokens(t *testing.T) *security.TokenService {
	t.Helper()

	tokens, err := security.NewTokenService("middleware-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	return tokens
}

func operatorLoader(operator *domain.Operator, loadErr error, calls *int) PrincipalLoader {
	return func(ctx context.Context, id string) (domain.Principal, error) {
		*calls++
		if loadErr != nil {
			return nil, loadErr
		}
		if operator == nil || operator.ID != id {
			return nil, errors.New("not found")
		}
		return operator, nil
	}
}

func newGuardedRouter(tokens *security.TokenService, loader PrincipalLoader, requireApproved bool) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	group := router.Group("/api/operators")
	group.Use(RequireIdentity(tokens, loader, operatorContextKey))
	if requireApproved {
		group.Use(RequireApprovedOperator(operatorContextKey))
	}
	group.GET("/profile", func(c *gin.Context) {
		id, _ := GetAuthenticatedAccountID(c)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	return router
}

func doAuthRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/operators/profile", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRequireIdentityMissingHeader(t *testing.T) {
	var calls int
	router := newGuardedRouter(newAuthTokens(t), operatorLoader(nil, nil, &calls), false)

	rr := doAuthRequest(router, "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if calls != 0 {
		t.Fatalf("loader must not run without a token, got %d calls", calls)
	}
}

func TestRequireIdentityRejectsForeignToken(t *testing.T) {
	tokens := newAuthTokens(t)
	other, err := security.NewTokenService("different-secret", time.Hour)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	foreign, err := other.Issue("op-1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	var calls int
	router := newGuardedRouter(tokens, operatorLoader(nil, nil, &calls), false)

	rr := doAuthRequest(router, "Bearer "+foreign)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if calls != 0 {
		t.Fatalf("loader must not run on signature failure, got %d calls", calls)
	}
}

func TestRequireIdentityBlocksAccount(t *testing.T) {
	tokens := newAuthTokens(t)
	token, err := tokens.Issue("op-1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	operator := &domain.Operator{
		ID:             "op-1",
		ApprovalStatus: domain.ApprovalApproved,
		IsBlocked:      true,
	}
	var calls int
	router := newGuardedRouter(tokens, operatorLoader(operator, nil, &calls), false)

	rr := doAuthRequest(router, "Bearer "+token)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Message != msgBlocked {
		t.Fatalf("unexpected error message: %q", resp.Message)
	}
}

func TestRequireIdentityLoadsAccountOnce(t *testing.T) {
	tokens := newAuthTokens(t)
	token, err := tokens.Issue("op-1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	operator := &domain.Operator{
		ID:             "op-1",
		ApprovalStatus: domain.ApprovalApproved,
	}
	var calls int
	router := newGuardedRouter(tokens, operatorLoader(operator, nil, &calls), true)

	rr := doAuthRequest(router, "Bearer "+token)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	// The approval guard reuses the principal loaded by the identity guard.
	if calls != 1 {
		t.Fatalf("expected exactly one store read, got %d", calls)
	}
}

func TestRequireApprovedOperatorDeniesPending(t *testing.T) {
	tokens := newAuthTokens(t)
	token, err := tokens.Issue("op-1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	operator := &domain.Operator{
		ID:             "op-1",
		ApprovalStatus: domain.ApprovalPending,
	}
	var calls int
	router := newGuardedRouter(tokens, operatorLoader(operator, nil, &calls), true)

	rr := doAuthRequest(router, "Bearer "+token)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Message != msgPending {
		t.Fatalf("unexpected error message: %q", resp.Message)
	}
}

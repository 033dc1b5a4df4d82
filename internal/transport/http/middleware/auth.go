package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abhishek070702/Safe-Heaven/internal/core/domain"
	"github.com/abhishek070702/Safe-Heaven/internal/infra/security"
)

// msgBlocked is returned whenever a blocked account presents an
// otherwise valid token.
const msgBlocked = "Your account has been blocked. Please contact admin."

// msgPending and msgRejected are returned when an unapproved operator
// reaches a route that requires approval.
const (
	msgPending  = "Your account is pending approval from admin."
	msgRejected = "Your account application was rejected."
)

// ErrorResponse matches the handlers.ErrorResponse structure.
type ErrorResponse struct {
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// newErrorResponse creates an error response with trace ID.
func newErrorResponse(c *gin.Context, message string) ErrorResponse {
	return ErrorResponse{
		Message: message,
		TraceID: GetTraceID(c),
	}
}

// PrincipalLoader resolves a token subject to a stored account. Each
// account kind supplies its own loader over its repository.
type PrincipalLoader func(ctx context.Context, id string) (domain.Principal, error)

// RequireIdentity validates the Authorization header, verifies the
// bearer token, and loads the account it names. The loaded principal is
// stored under contextKey for the handlers. Every guarded route pays
// exactly one store read, and blocked accounts are turned away here so
// no handler needs its own check.
func RequireIdentity(tokens *security.TokenService, load PrincipalLoader, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "missing authorization header"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "invalid authorization format: expected 'Bearer <token>'"))
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "missing access token"))
			return
		}

		subject, err := tokens.Verify(token)
		if err != nil {
			switch {
			case errors.Is(err, security.ErrTokenExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, "access token expired"))
			default:
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, "invalid access token"))
			}
			return
		}

		principal, err := load(c.Request.Context(), subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "invalid access token"))
			return
		}

		if principal.Blocked() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, msgBlocked))
			return
		}

		c.Set(contextKey, principal)
		c.Set(AccountIDKey, principal.PrincipalID())

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.AccountID = principal.PrincipalID()
		}

		c.Next()
	}
}

// RequireApprovedOperator denies operators that are not yet approved.
// It must run after RequireIdentity with the operator loader.
func RequireApprovedOperator(contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		val, exists := c.Get(contextKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}

		operator, ok := val.(*domain.Operator)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}

		if operator.ApprovalStatus == domain.ApprovalRejected {
			reason := operator.RejectionReason
			if reason == "" {
				reason = domain.DefaultRejectionReason
			}
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, msgRejected+" Reason: "+reason))
			return
		}

		if !operator.Approved() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, msgPending))
			return
		}

		c.Next()
	}
}

// GetAuthenticatedAccountID retrieves the account ID from context.
func GetAuthenticatedAccountID(c *gin.Context) (string, bool) {
	accountID, exists := c.Get(AccountIDKey)
	if !exists {
		return "", false
	}

	if id, ok := accountID.(string); ok {
		return id, true
	}

	return "", false
}

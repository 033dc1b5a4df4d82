package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhishek070702/Safe-Heaven/internal/usecase"
)

// respondServiceError translates usecase failures into the API's error
// taxonomy. Validation and conflict errors carry a user-facing message;
// anything unrecognized becomes an opaque 500.
func respondServiceError(c *gin.Context, err error) {
	var vErr *usecase.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, vErr.Message))
		return
	}

	var cErr *usecase.ConflictError
	if errors.As(err, &cErr) {
		c.JSON(http.StatusConflict, NewErrorResponse(c, cErr.Message))
		return
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "Invalid username or password"))
	case errors.Is(err, usecase.ErrAccountBlocked):
		c.JSON(http.StatusForbidden, NewErrorResponse(c, "Your account has been blocked. Please contact admin."))
	case errors.Is(err, usecase.ErrOperatorNotApproved):
		c.JSON(http.StatusForbidden, NewErrorResponse(c, "Only approved elder homes can receive donations"))
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, NewErrorResponse(c, "Resource not found"))
	default:
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "Something went wrong"))
	}
}

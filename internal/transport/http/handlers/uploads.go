package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// checkUploadFields verifies the parsed multipart form carries no file
// fields outside the allowed set. Unknown fields are rejected outright
// rather than silently dropped. Returns false after writing the error
// response.
func checkUploadFields(c *gin.Context, allowed ...string) bool {
	form := c.Request.MultipartForm
	if form == nil {
		return true
	}

	for field := range form.File {
		known := false
		for _, name := range allowed {
			if field == name {
				known = true
				break
			}
		}
		if !known {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "Unexpected upload field"))
			return false
		}
	}

	return true
}

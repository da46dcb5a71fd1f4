// Package httpx holds the gin helpers shared by the api packages.
package httpx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paleteria/paleteria-pos/internal/platform/apperr"
	"github.com/paleteria/paleteria-pos/internal/platform/logger"
)

// StatusFor maps the error taxonomy onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrStoreIO):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as JSON. Client errors carry one detail per failure;
// server errors are logged and answered with fallback instead of the cause.
func RespondError(c *gin.Context, op string, err error, fallback string) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(op+": service error", err, "path", c.FullPath())
		body := gin.H{"error": fallback}
		if status == http.StatusServiceUnavailable {
			body["error"] = fallback + ": storage unavailable"
		}
		c.JSON(status, body)
		return
	}

	body := gin.H{"error": err.Error()}
	if details := apperr.Details(err); len(details) > 1 {
		body["details"] = details
	}
	c.JSON(status, body)
}

func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
}

// Attachment sends data as a file download.
func Attachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

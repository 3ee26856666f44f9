package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"io.winapps.pushrelay/internal/apperrors"
)

// respondSuccess writes the uniform success envelope.
func respondSuccess(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{
		"status":  "success",
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// respondError translates an error into the envelope and the status code the
// contract assigns its kind. Unclassified errors become a generic 500 so no
// internal detail leaks.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Internal server error",
		})
		return
	}

	body := gin.H{
		"status":  "error",
		"message": appErr.Message,
	}
	switch appErr.Kind {
	case apperrors.KindDeliveryFailed:
		body["message"] = "Failed to send notification: " + appErr.Message
		if appErr.ProviderCode != "" {
			body["data"] = gin.H{"errorCode": appErr.ProviderCode}
		}
	case apperrors.KindUnavailable:
		body["message"] = "Internal server error"
	}

	c.JSON(apperrors.HTTPStatus(appErr), body)
}

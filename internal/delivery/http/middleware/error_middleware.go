package middleware

import (
	"errors"
	"net/http"

	"kohi-api/internal/delivery/http/response"
	"kohi-api/internal/domain"
	"kohi-api/pkg/apperror"
	"kohi-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

const genericErrorMessage = "An unexpected error occurred. Please try again later."

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		reqID := c.GetString(string(domain.KeyRequestID))

		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			// Never expose internal error details to clients.
			logger.Log.Error("Unhandled error", "error", err, "path", c.Request.URL.Path, "request_id", reqID)
			response.Error(c, http.StatusInternalServerError, genericErrorMessage, nil)
			return
		}

		if appErr.Code >= http.StatusInternalServerError {
			logger.Log.Error("Request failed",
				"status", appErr.Code,
				"error", appErr.Err,
				"path", c.Request.URL.Path,
				"request_id", reqID,
			)
		}
		if len(appErr.Issues) > 0 {
			response.ValidationError(c, appErr.Code, appErr.Message, appErr.Issues)
			return
		}
		response.Error(c, appErr.Code, appErr.Message, nil)
	}
}

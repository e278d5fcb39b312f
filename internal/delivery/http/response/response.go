package response

import (
	"kohi-api/internal/domain"

	"github.com/gin-gonic/gin"
)

// Response standardizes the API JSON response
type Response struct {
	OK        bool              `json:"ok"`
	Message   string            `json:"message,omitempty"`
	Data      interface{}       `json:"data,omitempty"`
	Error     interface{}       `json:"error,omitempty"`
	Issues    map[string]string `json:"issues,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// Page wraps a slice with its total row count.
type Page struct {
	Items  interface{} `json:"items"`
	Total  int64       `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

func requestID(c *gin.Context) string {
	return c.GetString(string(domain.KeyRequestID))
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		OK:        true,
		Message:   message,
		Data:      data,
		RequestID: requestID(c),
	})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string, err interface{}) {
	c.JSON(code, Response{
		OK:        false,
		Message:   message,
		Error:     err,
		RequestID: requestID(c),
	})
}

// ValidationError sends a 400 with per-field issues.
func ValidationError(c *gin.Context, code int, message string, issues map[string]string) {
	c.JSON(code, Response{
		OK:        false,
		Message:   message,
		Issues:    issues,
		RequestID: requestID(c),
	})
}

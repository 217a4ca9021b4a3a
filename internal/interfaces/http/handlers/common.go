// Package handlers implements the gin handlers of the annotation service.
package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/GeneHighlighter/pkg/errors"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(c *gin.Context, statusCode int, data interface{}) {
	if data == nil {
		c.Status(statusCode)
		return
	}
	c.JSON(statusCode, data)
}

// writeError writes a structured error response and stops the handler chain.
func writeError(c *gin.Context, statusCode int, code errors.ErrorCode, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{Code: code.String(), Message: message})
}

// writeAppError maps application errors to HTTP status codes. Internal
// failures are masked.
func writeAppError(c *gin.Context, err error) {
	_ = c.Error(err)

	var maxBytes *http.MaxBytesError
	if stderrors.As(err, &maxBytes) {
		writeError(c, http.StatusRequestEntityTooLarge, errors.CodeInvalidParam, "request body too large")
		return
	}

	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	if status >= http.StatusInternalServerError && code != errors.ErrCodeRecognition && code != errors.ErrCodeRecognitionTimeout {
		writeError(c, http.StatusInternalServerError, errors.ErrCodeInternal, "internal server error")
		return
	}

	resp := ErrorResponse{Code: code.String(), Message: errors.DefaultMessageForCode(code)}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		resp.Message = appErr.Message
		resp.Detail = appErr.Detail
	}
	c.AbortWithStatusJSON(status, resp)
}

//Personal.AI order the ending

package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// StatusFor maps an error to the HTTP status the API answers with.
// Untyped errors are treated as infrastructure failures.
func StatusFor(err error) int {
	be, ok := AsBusiness(err)
	if !ok {
		return http.StatusServiceUnavailable
	}
	switch be.Kind {
	case KindValidation, KindOutOfHours:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindInvalidTransition:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// FromError writes the response for an error returned by a use case.
func FromError(c *gin.Context, err error) {
	status := StatusFor(err)
	if be, ok := AsBusiness(err); ok {
		msg := be.Message
		if msg == "" {
			msg = be.Kind.String()
		}
		Write(c, status, be.Code, msg)
		return
	}
	_ = c.Error(err)
	Write(c, status, "system_unavailable", "Service temporarily unavailable.")
}

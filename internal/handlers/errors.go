package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string            `json:"message"`
	Status  int               `json:"status"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func abortWithMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message, Status: status})
}

func validationFailed(c *gin.Context, err error) {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		abortWithMessage(c, http.StatusBadRequest, "could not read request body")
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Message: verr.Error(),
		Status:  http.StatusBadRequest,
		Errors:  verr.Fields(),
	})
}

// InternalError writes the generic 500 body.
func InternalError(c *gin.Context) {
	abortWithMessage(c, http.StatusInternalServerError, "internal server error")
}

// NotFound answers requests that match no route.
func NotFound(c *gin.Context) {
	abortWithMessage(c, http.StatusNotFound, "resource not found")
}

// MethodNotAllowed answers requests for a known path with an unsupported method.
func MethodNotAllowed(c *gin.Context) {
	abortWithMessage(c, http.StatusMethodNotAllowed, "method not allowed")
}

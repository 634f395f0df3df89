package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ashabalin/go-taskboard/internal/models"
)

var errInvalidRequestBody = errors.New("invalid request body")

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

// abortDomainError maps the domain error kinds onto status codes:
// validation failures become client errors, missing entities become
// not-found responses, everything else is internal.
func abortDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		abort(c, newBadRequestError(err.Error()))
	case errors.Is(err, models.ErrNotFound):
		abort(c, newNotFoundError(err.Error()))
	default:
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// Codes shared across use-cases so handlers can map them uniformly.
const (
	CodeNotFound     = "not_found"
	CodeAccessDenied = "access_denied"
	CodeInvalidState = "invalid_state"
	CodeConflict     = "conflict"
)

var businessStatus = map[string]int{
	CodeNotFound:     http.StatusNotFound,
	CodeAccessDenied: http.StatusForbidden,
	CodeInvalidState: http.StatusBadRequest,
	CodeConflict:     http.StatusConflict,
}

// FromBusiness writes a business error with its mapped status; anything
// that is not a BusinessError becomes a 500.
func FromBusiness(c *gin.Context, err error, message string) {
	var be BusinessError
	if errors.As(err, &be) {
		status, ok := businessStatus[be.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		Write(c, status, be.Code, message)
		return
	}
	Internal(c, "internal_error", message)
}

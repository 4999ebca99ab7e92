package rest

import (
	"errors"
	"net/http"

	"github.com/crownworks/kingdoms-server/errs"
	"github.com/gin-gonic/gin"
)

// statusFor maps application error codes to HTTP statuses.
func statusFor(code errs.Code) int {
	switch code {
	case errs.CodeValidation, errs.CodeInvalidSelection, errs.CodeInvalidTarget:
		return http.StatusBadRequest
	case errs.CodeAuth:
		return http.StatusUnauthorized
	case errs.CodeNotFound:
		return http.StatusNotFound
	case errs.CodeConflict:
		return http.StatusConflict
	case errs.CodeInsufficient:
		return http.StatusPaymentRequired
	case errs.CodeStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the structured error response for err.
func fail(c *gin.Context, err error) {
	var e *errs.Error
	if !errors.As(err, &e) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(statusFor(e.Code()), gin.H{"code": string(e.Code()), "error": e.Msg()})
}

// badRequest writes a validation error response for binding failures.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":  string(errs.CodeValidation),
		"error": err.Error(),
	})
}

package server

import (
	"github.com/gin-gonic/gin"
)

// Error codes returned in APIError.Code.
const (
	ErrorCodeBadRequest     = "BAD_REQUEST"
	ErrorCodeValidation     = "VALIDATION_ERROR"
	ErrorCodeInvalidFile    = "INVALID_FILE"
	ErrorCodeFileTooLarge   = "FILE_TOO_LARGE"
	ErrorCodeInternalServer = "INTERNAL_SERVER_ERROR"
)

// APIError is the body of every error response.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// respondWithError sends a standardized JSON error response and stops the
// handler chain.
func respondWithError(c *gin.Context, httpStatus int, code, message string, details interface{}) {
	c.AbortWithStatusJSON(httpStatus, APIError{Code: code, Message: message, Details: details})
}

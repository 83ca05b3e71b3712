package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/jwalitptl/smartplan-api/pkg/errors"
)

type Response struct {
	Status  string         `json:"status"`
	Code    apperrors.Code `json:"code,omitempty"`
	Message string         `json:"message,omitempty"`
	Data    interface{}    `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(code apperrors.Code, message string) *Response {
	return &Response{
		Status:  "error",
		Code:    code,
		Message: message,
	}
}

// Error writes err through the taxonomy: the response carries the stable
// code and human message, internal details stay in the log.
func Error(c *gin.Context, err error) {
	appErr := apperrors.As(err)
	if appErr.Code == apperrors.CodeInternal {
		log.Error().Err(appErr.Err).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("internal error")
	}
	c.JSON(appErr.StatusCode(), NewErrorResponse(appErr.Code, appErr.Message))
}

// BindError wraps a request-binding failure as a validation error.
func BindError(c *gin.Context, err error) {
	Error(c, apperrors.Validation(err.Error()))
}

package http

import (
	"errors"
	"log"

	"resume-builder/internal/adapter/backend"
	"resume-builder/internal/domain"
	"resume-builder/internal/session"
	"resume-builder/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data interface{}, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

type SemanticResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func Success(c *fiber.Ctx, status int, message string, data interface{}) error {
	if message == "" {
		message = "ok"
	}
	return c.Status(status).JSON(SemanticResponse{Status: status, Message: message, Data: data})
}

// ErrorHandler renders every handler error as a SemanticResponse.
func ErrorHandler(logger *log.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, msg, data := normalizeError(err)
		if status >= fiber.StatusInternalServerError && logger != nil {
			logger.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
		}
		return c.Status(status).JSON(SemanticResponse{Status: status, Message: msg, Data: data})
	}
}

func normalizeError(err error) (int, string, interface{}) {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.StatusCode > 0 {
		msg := appErr.Message
		if msg == "" {
			msg = defaultMessageForStatus(appErr.StatusCode)
		}
		return appErr.StatusCode, msg, appErr.Data
	}

	var vErr *usecase.ValidationError
	var apiErr *backend.APIError
	var fiberErr *fiber.Error
	switch {
	case errors.Is(err, session.ErrNotFound):
		return fiber.StatusNotFound, "session not found", nil
	case errors.Is(err, domain.ErrIndexOutOfRange),
		errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrInvalidValue):
		return fiber.StatusBadRequest, err.Error(), nil
	case errors.As(err, &vErr):
		return fiber.StatusBadRequest, err.Error(), fiber.Map{"missing_fields": vErr.Fields}
	case backend.IsNotFound(err):
		return fiber.StatusNotFound, "resume not found", nil
	case errors.Is(err, usecase.ErrProfileWrite), errors.As(err, &apiErr):
		return fiber.StatusBadGateway, "backend request failed", nil
	case errors.As(err, &fiberErr):
		msg := fiberErr.Message
		if fiberErr.Code >= fiber.StatusInternalServerError {
			msg = defaultMessageForStatus(fiberErr.Code)
		}
		return fiberErr.Code, msg, nil
	}
	return fiber.StatusInternalServerError, defaultMessageForStatus(fiber.StatusInternalServerError), nil
}

func defaultMessageForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "bad request"
	case fiber.StatusNotFound:
		return "not found"
	case fiber.StatusBadGateway:
		return "backend request failed"
	case fiber.StatusServiceUnavailable:
		return "service unavailable"
	default:
		if status >= 500 {
			return "internal server error"
		}
		return "error"
	}
}

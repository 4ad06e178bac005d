package server

import (
	"errors"

	"vocab-manager/core/logger"
	"vocab-manager/core/reconcile"
	"vocab-manager/core/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Codes for errors that do not come from the reconciliation engine.
const (
	CodeValidation = "validation_error"
	CodeInternal   = "internal_error"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	ExceptionCode       string                  `json:"exception_code"`
	Detail              string                  `json:"detail"`
	AmountLimit         *int                    `json:"amount_limit,omitempty"`
	ExistingObject      any                     `json:"existing_object,omitempty"`
	NewObject           any                     `json:"new_object,omitempty"`
	ConflictObjectIndex *int                    `json:"conflict_object_index,omitempty"`
	ConflictField       string                  `json:"conflict_field,omitempty"`
	Fields              []validation.FieldError `json:"fields,omitempty"`
}

// ErrorHandler renders errors returned by handlers.
// Reconciliation and validation errors become client errors with a structured
// body; anything else is logged and reported as a 500.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := Render(err)
		l := logger.WithRayID(log, c)
		if status >= fiber.StatusInternalServerError {
			l.Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
		} else {
			l.Info("Request rejected",
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.String("exception_code", body.ExceptionCode),
			)
		}
		return c.Status(status).JSON(body)
	}
}

// Render maps err to a status code and response body.
func Render(err error) (int, ErrorResponse) {
	var (
		limitErr *reconcile.AmountLimitExceeded
		existErr *reconcile.ObjectAlreadyExist
		validErr *validation.Error
		fiberErr *fiber.Error
	)

	switch {
	case errors.As(err, &limitErr):
		limit := limitErr.Limit
		return reconcile.Status(err), ErrorResponse{
			ExceptionCode: reconcile.CodeAmountLimitExceeded,
			Detail:        limitErr.Error(),
			AmountLimit:   &limit,
			ConflictField: limitErr.Field,
		}
	case errors.As(err, &existErr):
		body := ErrorResponse{
			ExceptionCode:  reconcile.CodeAlreadyExist,
			Detail:         existErr.Error(),
			ExistingObject: existErr.Existing,
			NewObject:      existErr.Attempted,
			ConflictField:  existErr.Field,
		}
		if existErr.Index >= 0 {
			idx := existErr.Index
			body.ConflictObjectIndex = &idx
		}
		return reconcile.Status(err), body
	case reconcile.IsClientError(err):
		return reconcile.Status(err), ErrorResponse{ExceptionCode: reconcile.Code(err), Detail: err.Error()}
	case errors.As(err, &validErr):
		return fiber.StatusBadRequest, ErrorResponse{
			ExceptionCode: CodeValidation,
			Detail:        validErr.Error(),
			Fields:        validErr.Fields,
		}
	case errors.As(err, &fiberErr):
		return fiberErr.Code, ErrorResponse{ExceptionCode: codeForStatus(fiberErr.Code), Detail: fiberErr.Message}
	}
	return fiber.StatusInternalServerError, ErrorResponse{ExceptionCode: CodeInternal, Detail: "internal server error"}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "bad_request"
	case fiber.StatusUnauthorized:
		return "not_authenticated"
	case fiber.StatusForbidden:
		return "permission_denied"
	case fiber.StatusNotFound:
		return "not_found"
	case fiber.StatusMethodNotAllowed:
		return "method_not_allowed"
	case fiber.StatusRequestEntityTooLarge:
		return "request_too_large"
	}
	if status >= fiber.StatusInternalServerError {
		return CodeInternal
	}
	return "error"
}

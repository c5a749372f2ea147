package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/BasheerRaj/cliniva-backend-sub008/pkg/apperror"
)

// All responses share one envelope:
//
//	{success, data?, message?{ar,en}, error?{code, message{ar,en}, details?}}
//
// Messages are resolved from the bilingual catalog at render time.

type errorBody struct {
	Code    apperror.Code             `json:"code"`
	Message apperror.BilingualMessage `json:"message"`
	Details any                       `json:"details,omitempty"`
}

func ok(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func created(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": data})
}

func noContent(c fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func unauthorized(c fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"error": errorBody{
			Code:    "UNAUTHORIZED",
			Message: apperror.BilingualMessage{AR: "غير مصرح", EN: "Unauthorized"},
		},
	})
}

func badRequest(c fiber.Ctx, details any) error {
	return failCode(c, fiber.StatusBadRequest, apperror.CodeValidationFailed, details)
}

func failCode(c fiber.Ctx, status int, code apperror.Code, details any) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error": errorBody{
			Code:    code,
			Message: apperror.Message(code),
			Details: details,
		},
	})
}

// fail renders any service error. Domain errors keep their code, status and
// details; everything else becomes a 500 and is logged, not leaked.
func fail(c fiber.Ctx, err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return failCode(c, appErr.Status, appErr.Code, appErr.Details)
	}

	slog.Error("unhandled request error", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error": errorBody{
			Code:    "INTERNAL_ERROR",
			Message: apperror.Message("INTERNAL_ERROR"),
		},
	})
}

package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/BasheerRaj/cliniva-backend-sub008/internal/store"
)

// ClinicContext derives the clinic scope from the :id path parameter on
// nested clinic routes. The clinic must exist; permission checks against its
// domain happen downstream in RequirePermission.
func ClinicContext(db *store.Store) fiber.Handler {
	return func(c fiber.Ctx) error {
		clinicID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid clinic id")
		}

		if _, err := db.Clinics.GetByID(c.Context(), clinicID); err != nil {
			if errors.Is(err, store.ErrClinicNotFound) {
				return fiber.ErrNotFound
			}
			return err
		}

		c.Locals(LocalsClinicID, clinicID.String())
		return c.Next()
	}
}

// ClinicHeader reads the clinic scope from the X-Clinic-ID header, used on
// clinic-scoped routes that are not nested under /clinics/:id. The clinic
// must exist and be active. It sets the same Locals key as ClinicContext so
// RequirePermission works identically for both entry paths.
func ClinicHeader(db *store.Store) fiber.Handler {
	return func(c fiber.Ctx) error {
		idStr := c.Get("X-Clinic-ID")
		if idStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "X-Clinic-ID header is required")
		}

		clinicID, err := uuid.Parse(idStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid X-Clinic-ID value")
		}

		clinic, err := db.Clinics.GetByID(c.Context(), clinicID)
		if err != nil {
			if errors.Is(err, store.ErrClinicNotFound) {
				return fiber.ErrNotFound
			}
			return err
		}
		if clinic.Status != store.ClinicActive {
			return fiber.NewError(fiber.StatusConflict, "clinic is not active")
		}

		c.Locals(LocalsClinicID, clinicID.String())
		return c.Next()
	}
}

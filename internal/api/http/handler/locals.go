package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/BasheerRaj/cliniva-backend-sub008/internal/api/http/middleware"
)

// clinicIDFromLocals reads the clinic scope set by the clinic-context
// middleware.
func clinicIDFromLocals(c fiber.Ctx) (uuid.UUID, bool) {
	v, ok := c.Locals(middleware.LocalsClinicID).(string)
	if !ok || v == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

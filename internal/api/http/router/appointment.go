package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/BasheerRaj/cliniva-backend-sub008/internal/api/http/handler"
	"github.com/BasheerRaj/cliniva-backend-sub008/pkg/authorize"
)

func (r *Router) registerAppointmentRoutes(
	api fiber.Router,
	h *handler.AppointmentHandler,
	authRequired, clinicHeader fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	appointments := api.Group("/appointments", authRequired, clinicHeader)

	appointments.Get("/", requirePerm(authorize.ResourceAppointment, authorize.ActionRead), h.List)
	appointments.Post("/", requirePerm(authorize.ResourceAppointment, authorize.ActionBook), h.Book)
	appointments.Post("/batch-sessions", requirePerm(authorize.ResourceAppointmentSession, authorize.ActionBook), h.BatchBookSessions)
	appointments.Get("/progress", requirePerm(authorize.ResourceAppointmentSession, authorize.ActionRead), h.SessionProgress)

	a := appointments.Group("/:id")
	a.Get("/", requirePerm(authorize.ResourceAppointment, authorize.ActionRead), h.GetByID)
	a.Patch("/status", requirePerm(authorize.ResourceAppointment, authorize.ActionTransition), h.ChangeStatus)
}

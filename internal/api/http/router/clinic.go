package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/BasheerRaj/cliniva-backend-sub008/internal/api/http/handler"
	"github.com/BasheerRaj/cliniva-backend-sub008/pkg/authorize"
)

func (r *Router) registerClinicRoutes(
	api fiber.Router,
	h *handler.ClinicHandler,
	uh *handler.UserHandler,
	authRequired, clinicCtx fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	clinics := api.Group("/clinics", authRequired)

	// Create and list run without a clinic scope, so permissions resolve in the sys domain.
	clinics.Get("/", requirePerm(authorize.ResourceClinic, authorize.ActionList), h.List)
	clinics.Post("/", requirePerm(authorize.ResourceClinic, authorize.ActionCreate), h.Create)

	cl := clinics.Group("/:id", clinicCtx)
	cl.Get("/", requirePerm(authorize.ResourceClinic, authorize.ActionRead), h.GetByID)
	cl.Patch("/", requirePerm(authorize.ResourceClinic, authorize.ActionUpdate), h.Update)
	cl.Patch("/status", requirePerm(authorize.ResourceClinicStatus, authorize.ActionTransition), h.ChangeStatus)
	cl.Get("/capacity", requirePerm(authorize.ResourceCapacity, authorize.ActionRead), h.Capacity)
	cl.Get("/members", requirePerm(authorize.ResourceUser, authorize.ActionList), uh.ListClinicMembers)
}

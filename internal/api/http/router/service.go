package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/BasheerRaj/cliniva-backend-sub008/internal/api/http/handler"
	"github.com/BasheerRaj/cliniva-backend-sub008/pkg/authorize"
)

func (r *Router) registerServiceRoutes(
	api fiber.Router,
	h *handler.ServiceHandler,
	authRequired, clinicHeader fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	services := api.Group("/services", authRequired, clinicHeader)

	services.Get("/", requirePerm(authorize.ResourceService, authorize.ActionRead), h.List)
	services.Post("/", requirePerm(authorize.ResourceService, authorize.ActionCreate), h.Create)

	s := services.Group("/:id")
	s.Get("/", requirePerm(authorize.ResourceService, authorize.ActionRead), h.GetByID)
	s.Patch("/", requirePerm(authorize.ResourceService, authorize.ActionUpdate), h.Update)
	s.Delete("/", requirePerm(authorize.ResourceService, authorize.ActionDelete), h.Delete)
}

package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/BasheerRaj/cliniva-backend-sub008/internal/api/http/handler"
	"github.com/BasheerRaj/cliniva-backend-sub008/pkg/authorize"
)

func (r *Router) registerUserRoutes(
	api fiber.Router,
	h *handler.UserHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	users := api.Group("/users", authRequired)

	users.Get("/me", h.Me)

	u := users.Group("/:id")
	u.Get("/", requirePerm(authorize.ResourceUser, authorize.ActionRead), h.GetByID)
	u.Patch("/", requirePerm(authorize.ResourceUser, authorize.ActionUpdate), h.Update)
	u.Post("/clinic", requirePerm(authorize.ResourceUser, authorize.ActionManage), h.AssignToClinic)
	u.Delete("/clinic", requirePerm(authorize.ResourceUser, authorize.ActionManage), h.RemoveFromClinic)
}

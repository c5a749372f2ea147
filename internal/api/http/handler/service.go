package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/BasheerRaj/cliniva-backend-sub008/internal/service/catalog"
	pasetotoken "github.com/BasheerRaj/cliniva-backend-sub008/pkg/paseto"
)

type ServiceHandler struct {
	svc catalog.Service
}

func NewServiceHandler(svc catalog.Service) *ServiceHandler {
	return &ServiceHandler{svc: svc}
}

type sessionInputBody struct {
	Name     *string `json:"name"`
	Duration *int    `json:"duration"`
	Order    int     `json:"order" validate:"required"`
}

func toSessionInputs(in []sessionInputBody) []catalog.SessionInput {
	if in == nil {
		return nil
	}
	out := make([]catalog.SessionInput, 0, len(in))
	for _, s := range in {
		out = append(out, catalog.SessionInput{Name: s.Name, Duration: s.Duration, Order: s.Order})
	}
	return out
}

// POST /api/v1/services
func (h *ServiceHandler) Create(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	var body struct {
		Name            string             `json:"name" validate:"required"`
		Description     *string            `json:"description"`
		DurationMinutes int                `json:"duration_minutes" validate:"omitempty,min=0"`
		Price           int64              `json:"price" validate:"omitempty,min=0"`
		Sessions        []sessionInputBody `json:"sessions" validate:"omitempty,dive"`
	}
	if ok, resp := bindJSON(c, &body); !ok {
		return resp
	}

	svc, err := h.svc.CreateService(c.Context(), catalog.CreateServiceRequest{
		ClinicID:        clinicID,
		Name:            body.Name,
		Description:     body.Description,
		DurationMinutes: body.DurationMinutes,
		Price:           body.Price,
		Sessions:        toSessionInputs(body.Sessions),
	})
	if err != nil {
		return fail(c, err)
	}
	return created(c, svc)
}

// GET /api/v1/services
func (h *ServiceHandler) List(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	var q struct {
		IncludeInactive bool `query:"include_inactive"`
	}
	_ = c.Bind().Query(&q)

	services, err := h.svc.ListServices(c.Context(), clinicID, q.IncludeInactive)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, services)
}

// GET /api/v1/services/:id
func (h *ServiceHandler) GetByID(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid service id")
	}

	svc, err := h.svc.GetService(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, svc)
}

// PATCH /api/v1/services/:id
func (h *ServiceHandler) Update(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid service id")
	}

	var body struct {
		Name              *string            `json:"name"`
		Description       *string            `json:"description"`
		DurationMinutes   *int               `json:"duration_minutes" validate:"omitempty,min=1"`
		Price             *int64             `json:"price" validate:"omitempty,min=0"`
		IsActive          *bool              `json:"is_active"`
		Sessions          []sessionInputBody `json:"sessions" validate:"omitempty,dive"`
		RemovedSessionIDs []string           `json:"removed_session_ids"`
	}
	if ok, resp := bindJSON(c, &body); !ok {
		return resp
	}

	svc, err := h.svc.UpdateService(c.Context(), id, catalog.UpdateServiceRequest{
		Name:              body.Name,
		Description:       body.Description,
		DurationMinutes:   body.DurationMinutes,
		Price:             body.Price,
		IsActive:          body.IsActive,
		Sessions:          toSessionInputs(body.Sessions),
		RemovedSessionIDs: body.RemovedSessionIDs,
	})
	if err != nil {
		return fail(c, err)
	}
	return ok(c, svc)
}

// DELETE /api/v1/services/:id
func (h *ServiceHandler) Delete(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid service id")
	}

	claims, okClaims := pasetotoken.ClaimsFromFiber(c)
	if !okClaims {
		return unauthorized(c)
	}

	if err := h.svc.DeleteService(c.Context(), id, claims.UserID); err != nil {
		return fail(c, err)
	}
	return noContent(c)
}

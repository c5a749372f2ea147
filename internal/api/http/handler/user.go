package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/BasheerRaj/cliniva-backend-sub008/internal/service/user"
	"github.com/BasheerRaj/cliniva-backend-sub008/internal/store"
	"github.com/BasheerRaj/cliniva-backend-sub008/pkg/apperror"
	pasetotoken "github.com/BasheerRaj/cliniva-backend-sub008/pkg/paseto"
)

type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

func mapUserError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		return failCode(c, fiber.StatusNotFound, apperror.CodeUserNotFound, nil)
	case errors.Is(err, user.ErrClinicNotActive),
		errors.Is(err, user.ErrUnknownRole),
		errors.Is(err, user.ErrCapacityExceeded):
		return badRequest(c, err.Error())
	default:
		return fail(c, err)
	}
}

// userView strips the password hash from API responses.
type userView struct {
	ID        uuid.UUID      `json:"id"`
	Email     string         `json:"email"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Role      store.UserRole `json:"role"`
	ClinicID  *uuid.UUID     `json:"clinicId,omitempty"`
	IsActive  bool           `json:"isActive"`
}

func toUserView(u *store.User) userView {
	return userView{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		ClinicID:  u.ClinicID,
		IsActive:  u.IsActive,
	}
}

// GET /api/v1/users/me
func (h *UserHandler) Me(c fiber.Ctx) error {
	claims, okClaims := pasetotoken.ClaimsFromFiber(c)
	if !okClaims {
		return unauthorized(c)
	}

	u, err := h.svc.GetByID(c.Context(), claims.UserID)
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, toUserView(u))
}

// GET /api/v1/users/:id
func (h *UserHandler) GetByID(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	u, err := h.svc.GetByID(c.Context(), id)
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, toUserView(u))
}

// GET /api/v1/clinics/:id/members?role=
func (h *UserHandler) ListClinicMembers(c fiber.Ctx) error {
	clinicID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid clinic id")
	}

	var q struct {
		Role string `query:"role"`
	}
	_ = c.Bind().Query(&q)
	if q.Role == "" {
		return badRequest(c, "role query parameter is required")
	}

	users, err := h.svc.ListByClinic(c.Context(), clinicID, store.UserRole(q.Role))
	if err != nil {
		return mapUserError(c, err)
	}

	views := make([]userView, 0, len(users))
	for i := range users {
		views = append(views, toUserView(&users[i]))
	}
	return ok(c, views)
}

// PATCH /api/v1/users/:id
func (h *UserHandler) Update(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	var body struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		IsActive  *bool   `json:"is_active"`
	}
	if ok, resp := bindJSON(c, &body); !ok {
		return resp
	}

	u, err := h.svc.Update(c.Context(), id, user.UpdateUserRequest{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		IsActive:  body.IsActive,
	})
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, toUserView(u))
}

// POST /api/v1/users/:id/clinic
func (h *UserHandler) AssignToClinic(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	var body struct {
		ClinicID string `json:"clinic_id" validate:"required,uuid"`
		Role     string `json:"role" validate:"required,oneof=admin doctor staff patient"`
	}
	if ok, resp := bindJSON(c, &body); !ok {
		return resp
	}

	u, err := h.svc.AssignToClinic(c.Context(), id, uuid.MustParse(body.ClinicID), store.UserRole(body.Role))
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, toUserView(u))
}

// DELETE /api/v1/users/:id/clinic
func (h *UserHandler) RemoveFromClinic(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	u, err := h.svc.RemoveFromClinic(c.Context(), id)
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, toUserView(u))
}

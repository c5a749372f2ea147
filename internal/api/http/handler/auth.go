package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/BasheerRaj/cliniva-backend-sub008/internal/service/auth"
	"github.com/BasheerRaj/cliniva-backend-sub008/internal/store"
	pasetotoken "github.com/BasheerRaj/cliniva-backend-sub008/pkg/paseto"
)

type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func mapAuthError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrEmailAlreadyExists),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrPasswordTooShort):
		return badRequest(c, err.Error())
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrSessionNotFound),
		errors.Is(err, auth.ErrAccountDisabled):
		return unauthorized(c)
	default:
		return fail(c, err)
	}
}

// POST /api/v1/auth/register
func (h *AuthHandler) Register(c fiber.Ctx) error {
	var body struct {
		Email     string  `json:"email" validate:"required,email"`
		Password  string  `json:"password" validate:"required,min=8"`
		FirstName string  `json:"first_name"`
		LastName  string  `json:"last_name"`
		Role      string  `json:"role" validate:"omitempty,oneof=doctor staff admin patient"`
		ClinicID  *string `json:"clinic_id" validate:"omitempty,uuid"`
	}
	if ok, resp := bindJSON(c, &body); !ok {
		return resp
	}

	req := auth.RegisterRequest{
		Email:     body.Email,
		Password:  body.Password,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Role:      store.UserRole(body.Role),
	}
	if body.ClinicID != nil {
		id, err := uuid.Parse(*body.ClinicID)
		if err != nil {
			return badRequest(c, "invalid clinic_id")
		}
		req.ClinicID = &id
	}

	u, err := h.svc.Register(c.Context(), req)
	if err != nil {
		return mapAuthError(c, err)
	}

	return created(c, fiber.Map{
		"id":    u.ID,
		"email": u.Email,
		"role":  u.Role,
	})
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var body struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if ok, resp := bindJSON(c, &body); !ok {
		return resp
	}

	tokens, err := h.svc.Login(c.Context(), auth.LoginRequest{
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		return mapAuthError(c, err)
	}

	return ok(c, fiber.Map{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
	})
}

// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	var body struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if ok, resp := bindJSON(c, &body); !ok {
		return resp
	}

	tokens, err := h.svc.RefreshTokens(c.Context(), body.RefreshToken)
	if err != nil {
		return mapAuthError(c, err)
	}

	return ok(c, fiber.Map{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
	})
}

// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	claims, okClaims := pasetotoken.ClaimsFromFiber(c)
	if !okClaims || claims.SessionID == nil {
		return unauthorized(c)
	}

	if err := h.svc.Logout(c.Context(), *claims.SessionID); err != nil {
		return mapAuthError(c, err)
	}
	return noContent(c)
}

package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/BasheerRaj/cliniva-backend-sub008/internal/service/capacity"
	"github.com/BasheerRaj/cliniva-backend-sub008/internal/service/clinic"
	"github.com/BasheerRaj/cliniva-backend-sub008/internal/store"
	pasetotoken "github.com/BasheerRaj/cliniva-backend-sub008/pkg/paseto"
)

type ClinicHandler struct {
	svc      clinic.Service
	capacity capacity.Service
}

func NewClinicHandler(svc clinic.Service, cap capacity.Service) *ClinicHandler {
	return &ClinicHandler{svc: svc, capacity: cap}
}

// POST /api/v1/clinics
func (h *ClinicHandler) Create(c fiber.Ctx) error {
	claims, okClaims := pasetotoken.ClaimsFromFiber(c)
	if !okClaims {
		return unauthorized(c)
	}

	var body struct {
		Name        string  `json:"name" validate:"required"`
		Description *string `json:"description"`
		Phone       *string `json:"phone"`
		Address     *string `json:"address"`
		MaxDoctors  int     `json:"max_doctors" validate:"omitempty,min=0"`
		MaxStaff    int     `json:"max_staff" validate:"omitempty,min=0"`
		MaxPatients int     `json:"max_patients" validate:"omitempty,min=0"`
	}
	if ok, resp := bindJSON(c, &body); !ok {
		return resp
	}

	cl, err := h.svc.CreateClinic(c.Context(), clinic.CreateClinicRequest{
		OwnerID:     claims.UserID,
		Name:        body.Name,
		Description: body.Description,
		Phone:       body.Phone,
		Address:     body.Address,
		MaxDoctors:  body.MaxDoctors,
		MaxStaff:    body.MaxStaff,
		MaxPatients: body.MaxPatients,
	})
	if err != nil {
		return fail(c, err)
	}
	return created(c, cl)
}

// GET /api/v1/clinics
func (h *ClinicHandler) List(c fiber.Ctx) error {
	var q struct {
		Status string `query:"status"`
		Limit  int    `query:"limit"`
		Offset int    `query:"offset"`
	}
	_ = c.Bind().Query(&q)

	clinics, err := h.svc.ListClinics(c.Context(), store.ClinicStatus(q.Status), q.Limit, q.Offset)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, clinics)
}

// GET /api/v1/clinics/:id
func (h *ClinicHandler) GetByID(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid clinic id")
	}

	cl, err := h.svc.GetClinic(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, cl)
}

// PATCH /api/v1/clinics/:id
func (h *ClinicHandler) Update(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid clinic id")
	}

	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Phone       *string `json:"phone"`
		Address     *string `json:"address"`
		MaxDoctors  *int    `json:"max_doctors" validate:"omitempty,min=0"`
		MaxStaff    *int    `json:"max_staff" validate:"omitempty,min=0"`
		MaxPatients *int    `json:"max_patients" validate:"omitempty,min=0"`
	}
	if ok, resp := bindJSON(c, &body); !ok {
		return resp
	}

	cl, err := h.svc.UpdateClinic(c.Context(), id, clinic.UpdateClinicRequest{
		Name:        body.Name,
		Description: body.Description,
		Phone:       body.Phone,
		Address:     body.Address,
		MaxDoctors:  body.MaxDoctors,
		MaxStaff:    body.MaxStaff,
		MaxPatients: body.MaxPatients,
	})
	if err != nil {
		return fail(c, err)
	}
	return ok(c, cl)
}

// PATCH /api/v1/clinics/:id/status
func (h *ClinicHandler) ChangeStatus(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid clinic id")
	}
	claims, okClaims := pasetotoken.ClaimsFromFiber(c)
	if !okClaims {
		return unauthorized(c)
	}

	var body struct {
		Status          string  `json:"status" validate:"required"`
		Reason          *string `json:"reason"`
		TransferDoctors bool    `json:"transfer_doctors"`
		TransferStaff   bool    `json:"transfer_staff"`
		TargetClinicID  *string `json:"target_clinic_id" validate:"omitempty,uuid"`
	}
	if ok, resp := bindJSON(c, &body); !ok {
		return resp
	}

	req := clinic.ChangeStatusRequest{
		NewStatus:       store.ClinicStatus(body.Status),
		Reason:          body.Reason,
		TransferDoctors: body.TransferDoctors,
		TransferStaff:   body.TransferStaff,
	}
	if body.TargetClinicID != nil {
		target := uuid.MustParse(*body.TargetClinicID)
		req.TargetClinicID = &target
	}

	cl, err := h.svc.ChangeStatus(c.Context(), id, req, claims.UserID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, cl)
}

// GET /api/v1/clinics/:id/capacity
func (h *ClinicHandler) Capacity(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid clinic id")
	}

	snap, err := h.capacity.Snapshot(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, snap)
}

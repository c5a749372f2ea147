package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/BasheerRaj/cliniva-backend-sub008/internal/service/appointment"
	"github.com/BasheerRaj/cliniva-backend-sub008/internal/store"
	pasetotoken "github.com/BasheerRaj/cliniva-backend-sub008/pkg/paseto"
)

type AppointmentHandler struct {
	svc appointment.Service
}

func NewAppointmentHandler(svc appointment.Service) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

type bookItemBody struct {
	SessionID       string  `json:"session_id" validate:"required"`
	AppointmentDate string  `json:"appointment_date" validate:"required,datetime=2006-01-02"`
	AppointmentTime string  `json:"appointment_time" validate:"required,datetime=15:04"`
	Notes           *string `json:"notes"`
}

// GET /api/v1/appointments
func (h *AppointmentHandler) List(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}

	var q struct {
		PatientID string `query:"patient_id"`
		DoctorID  string `query:"doctor_id"`
		ServiceID string `query:"service_id"`
		Status    string `query:"status"`
		Limit     int    `query:"limit"`
		Offset    int    `query:"offset"`
	}
	_ = c.Bind().Query(&q)

	filter := store.AppointmentFilter{
		ClinicID: clinicID,
		Status:   store.AppointmentStatus(q.Status),
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	if q.PatientID != "" {
		id, err := uuid.Parse(q.PatientID)
		if err != nil {
			return badRequest(c, "invalid patient_id")
		}
		filter.PatientID = id
	}
	if q.DoctorID != "" {
		id, err := uuid.Parse(q.DoctorID)
		if err != nil {
			return badRequest(c, "invalid doctor_id")
		}
		filter.DoctorID = id
	}
	if q.ServiceID != "" {
		id, err := uuid.Parse(q.ServiceID)
		if err != nil {
			return badRequest(c, "invalid service_id")
		}
		filter.ServiceID = id
	}

	appts, err := h.svc.ListAppointments(c.Context(), filter)
	if err != nil {
		return fail(c, err)
	}

	enriched, err := h.svc.PopulateSessionInfo(c.Context(), appts)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, enriched)
}

// GET /api/v1/appointments/:id
func (h *AppointmentHandler) GetByID(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}

	appt, err := h.svc.GetAppointment(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}

	enriched, err := h.svc.EnrichAppointmentWithSession(c.Context(), appt)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, enriched)
}

// POST /api/v1/appointments
func (h *AppointmentHandler) Book(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}
	claims, okClaims := pasetotoken.ClaimsFromFiber(c)
	if !okClaims {
		return unauthorized(c)
	}

	var body struct {
		PatientID       string  `json:"patient_id" validate:"required,uuid"`
		DoctorID        *string `json:"doctor_id" validate:"omitempty,uuid"`
		ServiceID       string  `json:"service_id" validate:"required,uuid"`
		SessionID       *string `json:"session_id"`
		AppointmentDate string  `json:"appointment_date" validate:"required,datetime=2006-01-02"`
		AppointmentTime string  `json:"appointment_time" validate:"required,datetime=15:04"`
		Notes           *string `json:"notes"`
	}
	if ok, resp := bindJSON(c, &body); !ok {
		return resp
	}

	date, err := time.Parse("2006-01-02", body.AppointmentDate)
	if err != nil {
		return badRequest(c, "invalid appointment_date")
	}

	req := appointment.BookRequest{
		PatientID:       uuid.MustParse(body.PatientID),
		ClinicID:        clinicID,
		ServiceID:       uuid.MustParse(body.ServiceID),
		SessionID:       body.SessionID,
		AppointmentDate: date,
		AppointmentTime: body.AppointmentTime,
		Notes:           body.Notes,
	}
	if body.DoctorID != nil {
		id := uuid.MustParse(*body.DoctorID)
		req.DoctorID = &id
	}

	appt, err := h.svc.Book(c.Context(), req, claims.UserID)
	if err != nil {
		return fail(c, err)
	}
	return created(c, appt)
}

// POST /api/v1/appointments/batch-sessions
func (h *AppointmentHandler) BatchBookSessions(c fiber.Ctx) error {
	clinicID, valid := clinicIDFromLocals(c)
	if !valid {
		return badRequest(c, "missing clinic context")
	}
	claims, okClaims := pasetotoken.ClaimsFromFiber(c)
	if !okClaims {
		return unauthorized(c)
	}

	var body struct {
		PatientID string         `json:"patient_id" validate:"required,uuid"`
		DoctorID  *string        `json:"doctor_id" validate:"omitempty,uuid"`
		ServiceID string         `json:"service_id" validate:"required,uuid"`
		Items     []bookItemBody `json:"items" validate:"required,min=1,dive"`
	}
	if ok, resp := bindJSON(c, &body); !ok {
		return resp
	}

	req := appointment.BatchBookRequest{
		PatientID: uuid.MustParse(body.PatientID),
		ClinicID:  clinicID,
		ServiceID: uuid.MustParse(body.ServiceID),
		Items:     make([]appointment.BookSessionItem, 0, len(body.Items)),
	}
	if body.DoctorID != nil {
		id := uuid.MustParse(*body.DoctorID)
		req.DoctorID = &id
	}

	for _, item := range body.Items {
		date, err := time.Parse("2006-01-02", item.AppointmentDate)
		if err != nil {
			return badRequest(c, "invalid appointment_date")
		}
		req.Items = append(req.Items, appointment.BookSessionItem{
			SessionID:       item.SessionID,
			AppointmentDate: date,
			AppointmentTime: item.AppointmentTime,
			Notes:           item.Notes,
		})
	}

	result, err := h.svc.BatchBookSessions(c.Context(), req, claims.UserID)
	if err != nil {
		return fail(c, err)
	}
	return created(c, result)
}

// GET /api/v1/appointments/progress?patient_id=&service_id=
func (h *AppointmentHandler) SessionProgress(c fiber.Ctx) error {
	var q struct {
		PatientID string `query:"patient_id"`
		ServiceID string `query:"service_id"`
	}
	_ = c.Bind().Query(&q)

	patientID, err := uuid.Parse(q.PatientID)
	if err != nil {
		return badRequest(c, "invalid patient_id")
	}
	serviceID, err := uuid.Parse(q.ServiceID)
	if err != nil {
		return badRequest(c, "invalid service_id")
	}

	report, err := h.svc.SessionProgress(c.Context(), patientID, serviceID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, report)
}

// PATCH /api/v1/appointments/:id/status
func (h *AppointmentHandler) ChangeStatus(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}
	claims, okClaims := pasetotoken.ClaimsFromFiber(c)
	if !okClaims {
		return unauthorized(c)
	}

	var body struct {
		Status string `json:"status" validate:"required"`
	}
	if ok, resp := bindJSON(c, &body); !ok {
		return resp
	}

	appt, err := h.svc.ChangeStatus(c.Context(), id, store.AppointmentStatus(body.Status), claims.UserID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, appt)
}

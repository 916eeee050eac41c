package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carepoint/portal-client/internal/core/domain"
	"github.com/carepoint/portal-client/internal/core/ports"
	"github.com/carepoint/portal-client/internal/metrics"
)

// ── Employees ────────────────────────────────────────────────────────────────

type EmployeeHandler struct {
	clinic ports.ClinicRepository
}

func NewEmployeeHandler(clinic ports.ClinicRepository) *EmployeeHandler {
	return &EmployeeHandler{clinic: clinic}
}

// List answers with a bare JSON array.
func (h *EmployeeHandler) List(c echo.Context) error {
	list, err := h.clinic.Employees(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *EmployeeHandler) Create(c echo.Context) error {
	var in domain.EmployeeInput
	if err := bind(c, &in); err != nil {
		return err
	}
	e, err := h.clinic.CreateEmployee(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Employee created", e)
}

func (h *EmployeeHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in domain.EmployeeInput
	if err := bind(c, &in); err != nil {
		return err
	}
	e, err := h.clinic.UpdateEmployee(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Employee updated", e)
}

func (h *EmployeeHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.clinic.DeleteEmployee(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Employee deleted", nil)
}

// ── Qualifications ───────────────────────────────────────────────────────────

type QualificationHandler struct {
	clinic ports.ClinicRepository
}

func NewQualificationHandler(clinic ports.ClinicRepository) *QualificationHandler {
	return &QualificationHandler{clinic: clinic}
}

// List answers with {"result": [...]}.
func (h *QualificationHandler) List(c echo.Context) error {
	list, err := h.clinic.Qualifications(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"result": list})
}

func (h *QualificationHandler) Create(c echo.Context) error {
	var in domain.QualificationInput
	if err := bind(c, &in); err != nil {
		return err
	}
	q, err := h.clinic.CreateQualification(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Qualification created", q)
}

func (h *QualificationHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in domain.QualificationInput
	if err := bind(c, &in); err != nil {
		return err
	}
	q, err := h.clinic.UpdateQualification(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Qualification updated", q)
}

func (h *QualificationHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.clinic.DeleteQualification(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Qualification deleted", nil)
}

// ── Service catalog ──────────────────────────────────────────────────────────

type CatalogHandler struct {
	clinic ports.ClinicRepository
}

func NewCatalogHandler(clinic ports.ClinicRepository) *CatalogHandler {
	return &CatalogHandler{clinic: clinic}
}

func (h *CatalogHandler) List(c echo.Context) error {
	list, err := h.clinic.Services(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", list)
}

func (h *CatalogHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	svc, err := h.clinic.Service(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", svc)
}

// ── Bookings ─────────────────────────────────────────────────────────────────

type BookingHandler struct {
	clinic ports.ClinicRepository
	log    zerolog.Logger
}

func NewBookingHandler(clinic ports.ClinicRepository, log zerolog.Logger) *BookingHandler {
	return &BookingHandler{clinic: clinic, log: log}
}

// Create books an appointment for the caller and answers with the raw
// booking object.
func (h *BookingHandler) Create(c echo.Context) error {
	who, err := ctxCaller(c)
	if err != nil {
		return err
	}
	var in domain.BookingInput
	if err := bind(c, &in); err != nil {
		return err
	}

	b, err := h.clinic.CreateBooking(c.Request().Context(), who.userID, in)
	if err != nil {
		return err
	}

	metrics.SandboxBookingsCreatedTotal.WithLabelValues(strconv.FormatInt(b.ServiceID, 10)).Inc()
	h.log.Info().
		Int64("booking_id", b.BookingID).
		Int64("user_id", who.userID).
		Int64("service_id", b.ServiceID).
		Msg("booking created")
	return c.JSON(http.StatusCreated, b)
}

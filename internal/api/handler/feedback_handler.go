package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carepoint/portal-client/internal/core/domain"
	"github.com/carepoint/portal-client/internal/core/ports"
)

type FeedbackHandler struct {
	clinic ports.ClinicRepository
}

func NewFeedbackHandler(clinic ports.ClinicRepository) *FeedbackHandler {
	return &FeedbackHandler{clinic: clinic}
}

func (h *FeedbackHandler) List(c echo.Context) error {
	return h.list(c, ports.FeedbackFilter{})
}

func (h *FeedbackHandler) ForService(c echo.Context) error {
	serviceID, err := pathID(c, "serviceId")
	if err != nil {
		return err
	}
	return h.list(c, ports.FeedbackFilter{ServiceID: serviceID})
}

func (h *FeedbackHandler) ForUserAndService(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	serviceID, err := pathID(c, "serviceId")
	if err != nil {
		return err
	}
	return h.list(c, ports.FeedbackFilter{UserID: userID, ServiceID: serviceID})
}

func (h *FeedbackHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	f, err := h.clinic.FeedbackEntry(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", f)
}

// Create records feedback for the caller. Only managers may submit on behalf
// of another user.
func (h *FeedbackHandler) Create(c echo.Context) error {
	who, err := ctxCaller(c)
	if err != nil {
		return err
	}
	var in domain.FeedbackInput
	if err := bind(c, &in); err != nil {
		return err
	}
	if in.UserID == 0 || !who.privileged() {
		in.UserID = who.userID
	}

	f, err := h.clinic.CreateFeedback(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Feedback submitted", f)
}

func (h *FeedbackHandler) Update(c echo.Context) error {
	id, err := h.owned(c)
	if err != nil {
		return err
	}
	var in domain.FeedbackInput
	if err := bind(c, &in); err != nil {
		return err
	}
	f, err := h.clinic.UpdateFeedback(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Feedback updated", f)
}

func (h *FeedbackHandler) Delete(c echo.Context) error {
	id, err := h.owned(c)
	if err != nil {
		return err
	}
	if err := h.clinic.DeleteFeedback(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Feedback deleted", nil)
}

// owned resolves the :id route parameter to an entry the caller may modify.
func (h *FeedbackHandler) owned(c echo.Context) (int64, error) {
	who, err := ctxCaller(c)
	if err != nil {
		return 0, err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return 0, err
	}
	f, err := h.clinic.FeedbackEntry(c.Request().Context(), id)
	if err != nil {
		return 0, err
	}
	if f.UserID != who.userID && !who.privileged() {
		return 0, domain.ErrForbidden
	}
	return id, nil
}

func (h *FeedbackHandler) list(c echo.Context, filter ports.FeedbackFilter) error {
	list, err := h.clinic.Feedback(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", list)
}

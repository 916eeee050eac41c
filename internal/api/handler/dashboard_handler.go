package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/carepoint/portal-client/internal/core/domain"
	"github.com/carepoint/portal-client/internal/core/ports"
)

const defaultPopularLimit = 5

// DashboardHandler serves the manager reporting routes from one report
// snapshot per request.
type DashboardHandler struct {
	clinic ports.ClinicRepository
}

func NewDashboardHandler(clinic ports.ClinicRepository) *DashboardHandler {
	return &DashboardHandler{clinic: clinic}
}

func (h *DashboardHandler) Stats(c echo.Context) error {
	return h.serve(c, func(r ports.ClinicReport) any { return r.Stats })
}

func (h *DashboardHandler) Revenue(c echo.Context) error {
	return h.serve(c, func(r ports.ClinicReport) any { return r.Revenue })
}

func (h *DashboardHandler) Users(c echo.Context) error {
	return h.serve(c, func(r ports.ClinicReport) any { return r.Users })
}

func (h *DashboardHandler) Bookings(c echo.Context) error {
	return h.serve(c, func(r ports.ClinicReport) any { return r.Bookings })
}

func (h *DashboardHandler) Services(c echo.Context) error {
	return h.serve(c, func(r ports.ClinicReport) any { return r.Services })
}

func (h *DashboardHandler) RevenueByService(c echo.Context) error {
	return h.serve(c, func(r ports.ClinicReport) any {
		if r.ByService == nil {
			return []domain.ServiceRevenue{}
		}
		return r.ByService
	})
}

func (h *DashboardHandler) MonthlyRevenue(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1900 || year > 9999 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid year")
	}
	return h.serve(c, func(r ports.ClinicReport) any {
		return r.MonthlyRevenue(year)
	})
}

func (h *DashboardHandler) PopularServices(c echo.Context) error {
	limit := defaultPopularLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = n
	}
	return h.serve(c, func(r ports.ClinicReport) any {
		return r.PopularServices(limit)
	})
}

func (h *DashboardHandler) serve(c echo.Context, pick func(ports.ClinicReport) any) error {
	report, err := h.clinic.Report(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", pick(report))
}

package handler

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/carepoint/portal-client/internal/api/middleware"
	"github.com/carepoint/portal-client/internal/core/domain"
)

// caller is the authenticated identity injected by the Auth middleware.
type caller struct {
	userID int64
	roles  []string
}

func (c caller) privileged() bool {
	return slices.ContainsFunc(c.roles, func(r string) bool {
		return strings.EqualFold(r, domain.RoleManager) || strings.EqualFold(r, domain.RoleAdmin)
	})
}

// ctxCaller extracts the claims set by the Auth middleware. A missing user
// id means the route was mounted without Auth.
func ctxCaller(c echo.Context) (caller, error) {
	id, _ := c.Get(middleware.CtxUserID).(int64)
	if id == 0 {
		return caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	roles, _ := c.Get(middleware.CtxRoles).([]string)
	return caller{userID: id, roles: roles}, nil
}

// pathID parses a positive integer route parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// bind decodes and validates the request body into req.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

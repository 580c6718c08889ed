// Package handler implements the storefront HTTP endpoints.
package handler

import (
	"net/http"
	"strings"

	deliverycontext "emart/internal/delivery/context"
	"emart/internal/domain/constants"
	"emart/internal/domain/entity"
	domainerrors "emart/internal/domain/errors"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports that the process is serving.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// guestCartPrefix keeps guest cart ids apart from customer ids.
const guestCartPrefix = "guest-"

// bindAndValidate decodes the request into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("request body could not be decoded")
	}

	return c.Validate(req)
}

// subject returns the caller id set by the auth middleware.
func subject(c echo.Context) (string, error) {
	p := deliverycontext.GetPrincipal(c)
	if p == nil || p.Subject == "" {
		return "", domainerrors.ErrUnauthorized
	}

	return p.Subject, nil
}

// cartID addresses the caller's cart: a logged-in customer's own id, or the X-Cart-Id header for guests.
func cartID(c echo.Context) (string, error) {
	if p := deliverycontext.GetPrincipal(c); p.Has(entity.RoleCustomer) {
		return p.Subject, nil
	}

	id := strings.TrimSpace(c.Request().Header.Get(constants.HeaderCartID))
	if id == "" {
		return "", domainerrors.ErrValidationFailed.WithDetails(constants.HeaderCartID + " header is required")
	}

	return guestCartPrefix + id, nil
}

type messageResponse struct {
	Message string `json:"message"`
}

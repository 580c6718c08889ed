package middleware

import (
	"emart/internal/domain/constants"
	domainerrors "emart/internal/domain/errors"
	"emart/internal/usecase"

	"github.com/labstack/echo/v4"
)

// OwnerPINMiddleware guards destructive owner actions with the PIN sent in X-Owner-Pin.
type OwnerPINMiddleware struct {
	ownerUC usecase.OwnerUsecase
}

// NewOwnerPINMiddleware creates the PIN guard.
func NewOwnerPINMiddleware(ownerUC usecase.OwnerUsecase) *OwnerPINMiddleware {
	return &OwnerPINMiddleware{ownerUC: ownerUC}
}

// RequirePIN verifies the PIN before the wrapped handler runs.
func (m *OwnerPINMiddleware) RequirePIN(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		pin := c.Request().Header.Get(constants.HeaderOwnerPIN)
		if pin == "" {
			return domainerrors.ErrInvalidPIN.WithDetails(constants.HeaderOwnerPIN + " header is required")
		}
		if err := m.ownerUC.VerifyPIN(c.Request().Context(), pin); err != nil {
			return err
		}

		return next(c)
	}
}

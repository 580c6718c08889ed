package middleware

import (
	"strings"

	deliverycontext "emart/internal/delivery/context"
	"emart/internal/domain/entity"
	domainerrors "emart/internal/domain/errors"
	"emart/internal/domain/service"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// AuthMiddleware validates access tokens and enforces roles.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate rejects requests without a valid access token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal, err := m.principal(c)
		if err != nil {
			return err
		}
		if principal == nil {
			return domainerrors.ErrUnauthorized.WithDetails("authorization header is missing")
		}

		deliverycontext.SetPrincipal(c, principal)

		return next(c)
	}
}

// OptionalAuth identifies the caller when a token is sent and lets anonymous requests through.
// A malformed or expired token is still rejected.
func (m *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal, err := m.principal(c)
		if err != nil {
			return err
		}
		if principal != nil {
			deliverycontext.SetPrincipal(c, principal)
		}

		return next(c)
	}
}

// RequireRole must run after Authenticate.
func (m *AuthMiddleware) RequireRole(role entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !deliverycontext.GetPrincipal(c).Has(role) {
				return domainerrors.ErrForbidden.WithDetails("requires role " + string(role))
			}

			return next(c)
		}
	}
}

func (m *AuthMiddleware) principal(c echo.Context) (*deliverycontext.Principal, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return nil, nil
	}

	tokenString, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok || tokenString == "" {
		return nil, domainerrors.ErrUnauthorized.WithDetails("invalid token format, must be Bearer token")
	}

	claims, err := m.tokenSvc.ValidateToken(tokenString)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized.WithDetails("invalid or expired token")
	}
	if claims.Subject == "" {
		return nil, domainerrors.ErrUnauthorized.WithDetails("subject missing from token")
	}

	return &deliverycontext.Principal{Subject: claims.Subject, Roles: claims.Roles}, nil
}

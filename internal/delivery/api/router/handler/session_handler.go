package handler

import (
	"emart/internal/delivery/api/response"
	deliverycontext "emart/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

// SessionHandler reports who the access token belongs to.
type SessionHandler struct{}

// NewSessionHandler creates a new SessionHandler instance
func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// SessionResponse describes the caller. Anonymous callers get an empty subject.
type SessionResponse struct {
	Authenticated bool     `json:"authenticated"`
	Subject       string   `json:"subject,omitempty"`
	Roles         []string `json:"roles"`
}

// WhoAmI lets the storefront restore its login state after a reload.
func (h *SessionHandler) WhoAmI(c echo.Context) error {
	p := deliverycontext.GetPrincipal(c)
	if p == nil {
		return response.OK(c, SessionResponse{Roles: []string{}})
	}

	return response.OK(c, SessionResponse{
		Authenticated: true,
		Subject:       p.Subject,
		Roles:         p.Roles,
	})
}

package staff

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires login onto the public group and the account routes
// onto the authenticated group.
func (h *Handler) RegisterRoutes(api *echo.Group, public *echo.Group) {
	public.POST("/auth/login", h.Login)

	api.GET("/auth/me", h.Me)
	api.POST("/auth/totp/setup", h.SetupTOTP)
	api.POST("/auth/totp/confirm", h.ConfirmTOTP)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.svc.Login(c.Request().Context(), req.Username, req.Password, req.TOTPCode)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) Me(c echo.Context) error {
	username := auth.ActorFromContext(c.Request().Context())
	a, err := h.svc.Me(c.Request().Context(), username)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) SetupTOTP(c echo.Context) error {
	username := auth.ActorFromContext(c.Request().Context())
	url, err := h.svc.BeginTOTP(c.Request().Context(), username)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"otpauth_url": url})
}

type confirmTOTPRequest struct {
	Code string `json:"code"`
}

func (h *Handler) ConfirmTOTP(c echo.Context) error {
	var req confirmTOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	username := auth.ActorFromContext(c.Request().Context())
	if err := h.svc.ConfirmTOTP(c.Request().Context(), username, req.Code); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"enabled": true})
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, ErrTOTPRequired):
		return echo.NewHTTPError(http.StatusUnauthorized, "totp code required")
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "account not found")
	case errors.Is(err, ErrUsernameTaken):
		return echo.NewHTTPError(http.StatusConflict, "username already taken")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong, please try again")
	}
}

package handler

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"clinops/internal/auth"
	"clinops/internal/errors"
	"clinops/internal/logger"
	"clinops/internal/metrics"
	"clinops/internal/model"
	"clinops/internal/service"
)

// AuthHandler handles authentication endpoints. Responses carry the user
// object directly rather than an envelope.
type AuthHandler struct {
	authService  service.AuthService
	guard        *auth.Guard
	metrics      *metrics.Metrics
	cookieMaxAge time.Duration
	secureCookie bool
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, guard *auth.Guard, m *metrics.Metrics, cookieMaxAge time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		guard:        guard,
		metrics:      m,
		cookieMaxAge: cookieMaxAge,
		secureCookie: secureCookie,
	}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Name     *string `json:"name" validate:"omitempty,max=255"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

// authError writes err as an ErrorResponse. Unexpected errors are logged and
// answered with fallback and code.
func authError(c echo.Context, err error, fallback, code string) error {
	httpErr := errors.MapErrorToHTTP(err, fallback)
	if httpErr.IsInternal() {
		httpErr.Code = code
		logger.L().Error(fallback, zap.Error(err), zap.String("route", c.Path()))
	}
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		h.metrics.AuthEvent("register", "invalid")
		return authError(c, err, "", "")
	}

	user, token, err := h.authService.Register(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if stderrors.Is(err, service.ErrUserAlreadyExists) {
			h.metrics.AuthEvent("register", "conflict")
		} else {
			h.metrics.AuthEvent("register", "error")
		}
		return authError(c, err, "Failed to register user", "REGISTRATION_FAILED")
	}

	h.metrics.AuthEvent("register", "success")
	auth.SetSessionCookie(c, token, h.cookieMaxAge, h.secureCookie)
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		h.metrics.AuthEvent("login", "invalid")
		return authError(c, err, "", "")
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if stderrors.Is(err, service.ErrInvalidCredentials) {
			h.metrics.AuthEvent("login", "failure")
		} else {
			h.metrics.AuthEvent("login", "error")
		}
		return authError(c, err, "Failed to login", "LOGIN_FAILED")
	}

	h.metrics.AuthEvent("login", "success")
	auth.SetSessionCookie(c, token, h.cookieMaxAge, h.secureCookie)
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Logout godoc
// @Summary Logout user
// @Description Clears the session cookie. Always succeeds.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if p := h.guard.Authenticate(c.Request()); p != nil {
		if err := h.authService.Logout(c.Request().Context(), p); err != nil {
			logger.L().Warn("revoke session", zap.Error(err), zap.String("user_id", p.UserID))
		}
	}

	h.metrics.AuthEvent("logout", "success")
	auth.ClearSessionCookie(c, h.secureCookie)
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	p := h.guard.Authenticate(c.Request())
	if p == nil {
		return authError(c, service.ErrSessionInvalid, "", "")
	}

	user, err := h.authService.Me(c.Request().Context(), p.UserID)
	if err != nil {
		return authError(c, err, "Failed to load user", "INTERNAL_ERROR")
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

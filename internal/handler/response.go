package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"clinops/internal/auth"
	"clinops/internal/errors"
	"clinops/internal/logger"
)

// respond writes a successful envelope.
func respond(c echo.Context, status int, data interface{}, message string) error {
	return c.JSON(status, errors.OK(data, message))
}

// respondError maps err onto a failed envelope. Unexpected errors are logged
// and answered with fallback.
func respondError(c echo.Context, err error, fallback string) error {
	httpErr := errors.MapErrorToHTTP(err, fallback)
	if httpErr.IsInternal() {
		logger.L().Error(fallback,
			zap.Error(err),
			zap.String("method", c.Request().Method),
			zap.String("route", c.Path()),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		)
	}
	return c.JSON(httpErr.StatusCode, errors.Fail(httpErr.Message))
}

// bind decodes and validates a request body.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.Validation("Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		var appErr *errors.Error
		if stderrors.As(err, &appErr) {
			return appErr
		}
		return errors.Validation(err.Error())
	}
	return nil
}

// principal returns the caller stored by the auth middleware.
func principal(c echo.Context) (*auth.Principal, error) {
	p, ok := auth.FromContext(c)
	if !ok {
		return nil, errors.ErrUnauthorized
	}
	return p, nil
}

// Unauthorized is the auth middleware's rejection response.
func Unauthorized(c echo.Context, _ error) error {
	return c.JSON(http.StatusUnauthorized, errors.Fail("Unauthorized"))
}

package router

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"clinops/internal/errors"
	"clinops/internal/logger"
)

// errorHandler renders errors that escape handlers (unknown routes, wrong
// methods, oversized bodies, panics) as failed envelopes.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"

	var he *echo.HTTPError
	if stderrors.As(err, &he) {
		status = he.Code
		if he.Internal != nil {
			if inner, ok := he.Internal.(*echo.HTTPError); ok {
				he = inner
				status = he.Code
			}
		}
		message = fmt.Sprint(he.Message)
	} else {
		httpErr := errors.MapErrorToHTTP(err, "")
		status = httpErr.StatusCode
		message = httpErr.Message
	}

	if status >= http.StatusInternalServerError {
		logger.L().Error("unhandled error",
			zap.Error(err),
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, errors.Fail(message))
	}
	if err != nil {
		logger.L().Warn("write error response", zap.Error(err))
	}
}

package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"clinops/internal/auth"
	"clinops/internal/config"
	"clinops/internal/handler"
	"clinops/internal/logger"
	"clinops/internal/metrics"
)

const bodyLimit = "5M"

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	guard *auth.Guard,
	m *metrics.Metrics,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	projectHandler *handler.ProjectHandler,
	diagramHandler *handler.DiagramHandler,
	feedbackHandler *handler.FeedbackHandler,
	reviewHandler *handler.ReviewHandler,
	aiCacheHandler *handler.AiCacheHandler,
) {
	e.HideBanner = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.RequestID())
	e.Use(requestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(bodyLimit))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))
	if m != nil {
		e.Use(m.Middleware())
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}

	e.GET("/health", healthHandler.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Session routes resolve the cookie themselves
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth/me", authHandler.Me)

	// Anonymous feedback is allowed; a valid cookie attributes it to the user
	api.POST("/feedback", feedbackHandler.SubmitFeedback, guard.Optional())

	secured := api.Group("", guard.Middleware(handler.Unauthorized))

	secured.GET("/projects", projectHandler.ListProjects)
	secured.POST("/projects", projectHandler.CreateProject)
	secured.POST("/projects/ensure", projectHandler.EnsureProject)
	secured.GET("/projects/:projectId", projectHandler.GetProject)
	secured.PATCH("/projects/:projectId", projectHandler.UpdateProject)
	secured.DELETE("/projects/:projectId", projectHandler.DeleteProject)

	secured.GET("/projects/:projectId/reviews", reviewHandler.ListReviews)
	secured.POST("/projects/:projectId/reviews", reviewHandler.CreateReview)

	secured.GET("/diagrams", diagramHandler.ListDiagrams)
	secured.POST("/diagrams", diagramHandler.SaveDiagram)
	secured.DELETE("/diagrams", diagramHandler.DeleteDiagram)

	secured.GET("/feedback", feedbackHandler.ListFeedback)

	secured.GET("/ai-cache", aiCacheHandler.GetAiCache)
	secured.PUT("/ai-cache", aiCacheHandler.PutAiCache)
	secured.DELETE("/ai-cache", aiCacheHandler.ClearAiCache)
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				logger.L().Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.L().Info("request", fields...)
			return nil
		},
	})
}

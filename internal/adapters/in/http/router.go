package http

import (
	"context"
	"net/http"

	"tracking/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.uber.org/zap"
)

// RouterConfig holds the router options that come from configuration.
type RouterConfig struct {
	// AllowedOrigin feeds the CORS middleware; empty allows any origin.
	AllowedOrigin string
	// LiveTracking serves GET /ws. Nil leaves the route out.
	LiveTracking http.Handler
}

// NewRouter builds the echo instance with middleware, the contract
// validator, health and tracking endpoints and every REST operation.
func NewRouter(
	ctx context.Context,
	server *Server,
	verifier ports.TokenVerifier,
	cfg RouterConfig,
	logger *zap.Logger,
) (*echo.Echo, error) {
	doc, err := LoadContract(ctx)
	if err != nil {
		return nil, err
	}
	validator, err := ContractValidator(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.ERROR)
	e.HTTPErrorHandler = errorHandler(logger)

	origins := []string{"*"}
	if cfg.AllowedOrigin != "" {
		origins = []string{cfg.AllowedOrigin}
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	if cfg.LiveTracking != nil {
		e.GET("/ws", echo.WrapHandler(cfg.LiveTracking))
	}

	RegisterHandlers(e.Group("/api"), server, authenticate(verifier), validator)
	return e, nil
}

// RegisterHandlers binds every operation of the contract to s. Requests are
// authenticated before they are validated; register and login are public.
func RegisterHandlers(g *echo.Group, s *Server, authn, validate echo.MiddlewareFunc) {
	g.POST("/auth/register", s.RegisterUser, validate)
	g.POST("/auth/login", s.Login, validate)

	g.POST("/orders", s.CreateOrder, authn, validate)
	g.GET("/orders", s.ListOrders, authn, validate)
	g.GET("/orders/:orderId", s.GetOrder, authn, validate)
	g.PATCH("/orders/:orderId/assign", s.AssignDeliveryPartner, authn, validate)
	g.PATCH("/orders/:orderId/status", s.UpdateOrderStatus, authn, validate)

	g.GET("/partners/available", s.ListAvailablePartners, authn, validate)

	g.POST("/location", s.ReportLocation, authn, validate)
	g.POST("/location/update", s.ReportLocation, authn, validate)
	g.GET("/location/:partnerId", s.GetPartnerLocation, authn, validate)
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	logger = logger.With(zap.String("component", "http"))
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("path", v.URIPath),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				logger.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}

package webserver

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/comandero/comandero/internal/app"
)

var server *WebServer

// WebServer wraps the echo instance and the application container.
type WebServer struct {
	app  *app.Application
	root *echo.Echo
}

type payloadValidator struct {
	validate *validator.Validate
}

func (v *payloadValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// Init creates the global web server bound to the application container.
func Init(application *app.Application) *WebServer {
	root := echo.New()
	root.HideBanner = true
	root.Debug = application.Config().System.Debug
	root.Validator = &payloadValidator{validate: validator.New()}

	root.Use(middleware.Recover())
	root.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				zap.L().Warn("request", fields...)
			} else {
				zap.L().Info("request", fields...)
			}
			return nil
		},
	}))

	// expose the application and database handle to handlers
	root.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("app", application)
			c.Set("db", application.DB())
			return next(c)
		}
	})

	server = &WebServer{app: application, root: root}
	return server
}

// Instance returns the initialized web server.
func Instance() *WebServer {
	return server
}

// Start runs the HTTP listener until it fails or is shut down.
func (s *WebServer) Start() error {
	zap.S().Infof("web server listening on %s", s.app.Config().WebListen())
	return s.root.Start(s.app.Config().WebListen())
}

// Shutdown stops the HTTP listener gracefully.
func (s *WebServer) Shutdown(ctx context.Context) error {
	return s.root.Shutdown(ctx)
}

// Echo exposes the underlying echo instance (used in tests).
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

func ApiGET(path string, h echo.HandlerFunc) {
	server.root.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.root.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.root.PUT(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.root.DELETE(path, h)
}

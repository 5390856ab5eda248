package restapi

import (
	"github.com/labstack/echo/v4"

	"github.com/comandero/comandero/internal/webserver"
)

// InitRouter registers all REST endpoints on the web server.
func InitRouter() {
	webserver.ApiGET("/", index)
	registerProductRoutes()
	registerOrderRoutes()
	registerReservationRoutes()
	registerPaymentRoutes()
}

func index(c echo.Context) error {
	return ok(c, map[string]interface{}{
		"message": "Welcome to the Restaurant API",
	})
}

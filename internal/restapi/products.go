package restapi

import (
	"github.com/labstack/echo/v4"

	"github.com/comandero/comandero/internal/webserver"
)

// registerProductRoutes registers catalog browsing endpoints. The catalog is
// a fixed process-wide table, so there are no mutation routes.
func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
}

func listProducts(c echo.Context) error {
	return ok(c, GetApp(c).Catalog().List())
}

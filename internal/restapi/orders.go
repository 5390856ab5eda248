package restapi

import (
	"net/http"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/comandero/comandero/internal/catalog"
	"github.com/comandero/comandero/internal/domain"
	"github.com/comandero/comandero/internal/orders"
	"github.com/comandero/comandero/internal/webserver"
)

type orderPayload struct {
	Client string             `json:"client" validate:"required,min=1,max=100"`
	Items  []orders.ItemInput `json:"items"`
}

// orderView is the wire representation of an order with its item list
// decoded from the persisted text column.
type orderView struct {
	ID        int64              `json:"id,string"`
	Date      time.Time          `json:"date"`
	Client    string             `json:"client"`
	Items     []domain.OrderItem `json:"items"`
	Total     decimal.Decimal    `json:"total"`
	Status    domain.OrderStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func toOrderView(order *domain.Order) (orderView, error) {
	items, err := order.GetItems()
	if err != nil {
		return orderView{}, err
	}
	return orderView{
		ID:        order.ID,
		Date:      order.Date,
		Client:    order.Client,
		Items:     items,
		Total:     order.Total,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}, nil
}

func toOrderViews(rows []domain.Order) ([]orderView, error) {
	views := make([]orderView, 0, len(rows))
	for i := range rows {
		view, err := toOrderView(&rows[i])
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// registerOrderRoutes registers the order lifecycle endpoints.
func registerOrderRoutes() {
	webserver.ApiPOST("/orders", createOrder)
	webserver.ApiGET("/orders", listOrders)
	webserver.ApiGET("/orders/summary", orderSummary)
	webserver.ApiGET("/orders/export", exportOrders)
	webserver.ApiGET("/orders/:id", getOrder)
	webserver.ApiPUT("/orders/:id/cancel", cancelOrder)
	webserver.ApiDELETE("/orders/:id", deleteOrder)
}

func createOrder(c echo.Context) error {
	var payload orderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order", err.Error())
	}

	order, err := GetApp(c).OrderService().CreateOrder(c.Request().Context(), payload.Client, payload.Items)
	if err != nil {
		var unknown *catalog.UnknownProductError
		switch {
		case errors.As(err, &unknown):
			return fail(c, http.StatusBadRequest, "INVALID_PRODUCT", "Unknown product in order", unknown.Product)
		case errors.Is(err, domain.ErrMissingClient),
			errors.Is(err, domain.ErrEmptyOrder),
			errors.Is(err, domain.ErrInvalidQuantity):
			return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order", err.Error())
		default:
			zap.L().Error("order creation failed", zap.Error(err))
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create order", nil)
		}
	}

	view, err := toOrderView(order)
	if err != nil {
		zap.L().Error("order decode failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create order", nil)
	}
	return created(c, view)
}

func orderFilterFromQuery(c echo.Context) (orders.Filter, error) {
	filter := orders.Filter{
		Status: domain.OrderStatus(c.QueryParam("status")),
		Client: c.QueryParam("client"),
	}
	from, err := parseDateParam(c, "date_from", false)
	if err != nil {
		return filter, err
	}
	to, err := parseDateParam(c, "date_to", true)
	if err != nil {
		return filter, err
	}
	filter.DateFrom = from
	filter.DateTo = to
	return filter, nil
}

func listOrders(c echo.Context) error {
	filter, err := orderFilterFromQuery(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse date filter", err.Error())
	}

	rows, err := GetApp(c).OrderService().ListOrders(c.Request().Context(), filter)
	if err != nil {
		zap.L().Error("order listing failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", nil)
	}
	views, err := toOrderViews(rows)
	if err != nil {
		zap.L().Error("order decode failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", nil)
	}
	return ok(c, views)
}

func orderSummary(c echo.Context) error {
	from, err := parseDateParam(c, "date_from", false)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse date filter", err.Error())
	}
	to, err := parseDateParam(c, "date_to", true)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse date filter", err.Error())
	}

	report, err := GetApp(c).OrderService().Summary(c.Request().Context(), from, to)
	if err != nil {
		zap.L().Error("order summary failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to build order summary", nil)
	}
	return ok(c, report)
}

type orderExportRow struct {
	ID     int64  `csv:"id"`
	Date   string `csv:"date"`
	Client string `csv:"client"`
	Items  string `csv:"items"`
	Total  string `csv:"total"`
	Status string `csv:"status"`
}

func exportOrders(c echo.Context) error {
	filter, err := orderFilterFromQuery(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse date filter", err.Error())
	}

	rows, err := GetApp(c).OrderService().ListOrders(c.Request().Context(), filter)
	if err != nil {
		zap.L().Error("order export failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to export orders", nil)
	}

	exports := make([]orderExportRow, 0, len(rows))
	for _, order := range rows {
		exports = append(exports, orderExportRow{
			ID:     order.ID,
			Date:   order.Date.Format(time.RFC3339),
			Client: order.Client,
			Items:  order.Items,
			Total:  order.Total.StringFixed(2),
			Status: string(order.Status),
		})
	}
	blob, err := gocsv.MarshalString(&exports)
	if err != nil {
		zap.L().Error("order export failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export orders", nil)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="orders.csv"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(blob))
}

func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	order, err := GetApp(c).OrderService().GetOrder(c.Request().Context(), id)
	if errors.Is(err, domain.ErrOrderNotFound) {
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		zap.L().Error("order fetch failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", nil)
	}
	view, err := toOrderView(order)
	if err != nil {
		zap.L().Error("order decode failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", nil)
	}
	return ok(c, view)
}

func cancelOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	order, err := GetApp(c).OrderService().CancelOrder(c.Request().Context(), id)
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	case errors.Is(err, domain.ErrAlreadyCancelled):
		return fail(c, http.StatusBadRequest, "ALREADY_CANCELLED", "Order is already cancelled", nil)
	case err != nil:
		zap.L().Error("order cancel failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to cancel order", nil)
	}
	view, err := toOrderView(order)
	if err != nil {
		zap.L().Error("order decode failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to cancel order", nil)
	}
	return ok(c, view)
}

func deleteOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	order, err := GetApp(c).OrderService().DeleteOrder(c.Request().Context(), id)
	if errors.Is(err, domain.ErrOrderNotFound) {
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		zap.L().Error("order delete failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete order", nil)
	}
	view, err := toOrderView(order)
	if err != nil {
		zap.L().Error("order decode failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete order", nil)
	}
	return ok(c, view)
}

package restapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/comandero/comandero/internal/domain"
	"github.com/comandero/comandero/internal/webserver"
	"github.com/comandero/comandero/pkg/common"
)

type paymentPayload struct {
	OrderID string  `json:"order_id" validate:"required"`
	Amount  float64 `json:"amount"`
}

// registerPaymentRoutes registers payment record endpoints
func registerPaymentRoutes() {
	webserver.ApiPOST("/payments", createPayment)
	webserver.ApiGET("/payments/today", listTodayPayments)
	webserver.ApiGET("/payments/:id", getPayment)
	webserver.ApiDELETE("/payments/:id", deletePayment)
}

func createPayment(c echo.Context) error {
	var payload paymentPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse payment", err.Error())
	}
	orderID, err := strconv.ParseInt(payload.OrderID, 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	if payload.Amount <= 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Amount must be positive", nil)
	}

	// payments must reference an existing order
	var order domain.Order
	if err := GetDB(c).Where("id = ?", orderID).First(&order).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", nil)
	}

	p := domain.Payment{
		ID:        common.UUIDint64(),
		OrderID:   orderID,
		Amount:    decimal.NewFromFloat(payload.Amount),
		Date:      time.Now(),
		Status:    domain.PaymentStatusCompleted,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create payment", nil)
	}
	GetApp(c).WriteOprLog("payment.created", "payment of "+p.Amount.StringFixed(2)+" for order "+payload.OrderID)
	return created(c, p)
}

func listTodayPayments(c echo.Context) error {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var rows []domain.Payment
	err := GetDB(c).
		Where("date >= ? AND date < ?", start, start.Add(24*time.Hour)).
		Order("date DESC").
		Find(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query payments", nil)
	}
	return ok(c, rows)
}

func getPayment(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid payment ID", nil)
	}
	var p domain.Payment
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PAYMENT_NOT_FOUND", "Payment not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query payment", nil)
	}
	return ok(c, p)
}

func deletePayment(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid payment ID", nil)
	}
	var p domain.Payment
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PAYMENT_NOT_FOUND", "Payment not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query payment", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Payment{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete payment", nil)
	}
	GetApp(c).WriteOprLog("payment.deleted", "payment "+strconv.FormatInt(id, 10))
	return ok(c, p)
}

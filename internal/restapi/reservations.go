package restapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/comandero/comandero/internal/domain"
	"github.com/comandero/comandero/internal/webserver"
	"github.com/comandero/comandero/pkg/common"
)

type reservationPayload struct {
	Client      string `json:"client" validate:"required,min=1,max=100"`
	Date        string `json:"date" validate:"required"`
	TableNumber int    `json:"table_number"`
}

// registerReservationRoutes registers table reservation CRUD endpoints
func registerReservationRoutes() {
	webserver.ApiPOST("/reservations", createReservation)
	webserver.ApiGET("/reservations", listReservations)
	webserver.ApiGET("/reservations/:id", getReservation)
	webserver.ApiDELETE("/reservations/:id", deleteReservation)
}

func createReservation(c echo.Context) error {
	var payload reservationPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse reservation", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid reservation", err.Error())
	}
	if strings.TrimSpace(payload.Client) == "" {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Client is required", nil)
	}
	if payload.TableNumber <= 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Table number must be positive", nil)
	}
	date, err := dateparse.ParseIn(payload.Date, time.Local)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse reservation date", err.Error())
	}

	r := domain.Reservation{
		ID:          common.UUIDint64(),
		Date:        date,
		Client:      strings.TrimSpace(payload.Client),
		TableNumber: payload.TableNumber,
		Status:      domain.ReservationStatusActive,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := GetDB(c).Create(&r).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create reservation", nil)
	}
	GetApp(c).WriteOprLog("reservation.created", "reservation for "+r.Client)
	return created(c, r)
}

func listReservations(c echo.Context) error {
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.Reservation{})
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		base = base.Where("status = ?", status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query reservations", nil)
	}

	var rows []domain.Reservation
	if err := base.Order("date ASC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query reservations", nil)
	}
	return paged(c, rows, total, page, pageSize)
}

func getReservation(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid reservation ID", nil)
	}
	var r domain.Reservation
	if err := GetDB(c).Where("id = ?", id).First(&r).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "RESERVATION_NOT_FOUND", "Reservation not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query reservation", nil)
	}
	return ok(c, r)
}

func deleteReservation(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid reservation ID", nil)
	}
	var r domain.Reservation
	if err := GetDB(c).Where("id = ?", id).First(&r).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "RESERVATION_NOT_FOUND", "Reservation not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query reservation", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Reservation{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete reservation", nil)
	}
	GetApp(c).WriteOprLog("reservation.deleted", "reservation for "+r.Client)
	return ok(c, r)
}

package restapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comandero/comandero/config"
	"github.com/comandero/comandero/internal/app"
	"github.com/comandero/comandero/internal/webserver"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	cfg := config.LoadConfig("")
	cfg.System.Debug = false
	cfg.Logger.Mode = "production"
	cfg.Database.Type = "sqlite"
	cfg.Database.Name = filepath.Join(t.TempDir(), "restapi.db")

	application := app.NewApplication(cfg)
	application.Init(cfg)
	t.Cleanup(application.Release)

	ws := webserver.Init(application)
	InitRouter()
	return ws.Echo()
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type orderResponse struct {
	ID     string `json:"id"`
	Client string `json:"client"`
	Items  []struct {
		Product  string `json:"product"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
	Total  json.Number `json:"total"`
	Status string      `json:"status"`
}

func createTestOrder(t *testing.T, e *echo.Echo, body string) orderResponse {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/orders", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateOrderEndpoint(t *testing.T) {
	e := newTestServer(t)

	resp := createTestOrder(t, e, `{"client":"Alice","items":[{"product":"Pizza","quantity":3}]}`)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Alice", resp.Client)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "32.97", resp.Total.String())
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Pizza", resp.Items[0].Product)
	assert.Equal(t, 3, resp.Items[0].Quantity)
}

func TestCreateOrderEndpoint_Validation(t *testing.T) {
	e := newTestServer(t)

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{
			name:     "unknown product",
			body:     `{"client":"Alice","items":[{"product":"Sushi","quantity":1}]}`,
			wantCode: "INVALID_PRODUCT",
		},
		{
			name:     "empty items",
			body:     `{"client":"Alice","items":[]}`,
			wantCode: "VALIDATION_ERROR",
		},
		{
			name:     "zero quantity",
			body:     `{"client":"Alice","items":[{"product":"Pizza","quantity":0}]}`,
			wantCode: "VALIDATION_ERROR",
		},
		{
			name:     "missing client",
			body:     `{"client":"","items":[{"product":"Pizza","quantity":1}]}`,
			wantCode: "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(e, http.MethodPost, "/orders", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body["code"])
		})
	}

	// nothing persisted
	rec := doJSON(e, http.MethodGet, "/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Empty(t, listed)
}

func TestGetOrderEndpoint(t *testing.T) {
	e := newTestServer(t)

	resp := createTestOrder(t, e, `{"client":"Bob","items":[{"product":"Burger","quantity":1}]}`)

	rec := doJSON(e, http.MethodGet, "/orders/"+resp.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/orders/424242", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelOrderEndpoint(t *testing.T) {
	e := newTestServer(t)

	resp := createTestOrder(t, e, `{"client":"Bob","items":[{"product":"Burger","quantity":1}]}`)

	rec := doJSON(e, http.MethodPut, "/orders/"+resp.ID+"/cancel", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cancelled orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cancelled))
	assert.Equal(t, "cancelled", cancelled.Status)

	rec = doJSON(e, http.MethodPut, "/orders/"+resp.ID+"/cancel", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPut, "/orders/424242/cancel", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteOrderEndpoint(t *testing.T) {
	e := newTestServer(t)

	resp := createTestOrder(t, e, `{"client":"Carol","items":[{"product":"Salad","quantity":2}]}`)

	rec := doJSON(e, http.MethodDelete, "/orders/"+resp.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var deleted orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deleted))
	assert.Equal(t, resp.ID, deleted.ID)

	rec = doJSON(e, http.MethodGet, "/orders/"+resp.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(e, http.MethodDelete, "/orders/"+resp.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListOrdersEndpoint_Filters(t *testing.T) {
	e := newTestServer(t)

	createTestOrder(t, e, `{"client":"Alice Smith","items":[{"product":"Pizza","quantity":1}]}`)
	createTestOrder(t, e, `{"client":"Bob Jones","items":[{"product":"Soda","quantity":2}]}`)

	rec := doJSON(e, http.MethodGet, "/orders?client=alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Alice Smith", listed[0].Client)

	rec = doJSON(e, http.MethodGet, "/orders?status=pending", "")
	require.Equal(t, http.StatusOK, rec.Code)
	listed = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed, 2)

	rec = doJSON(e, http.MethodGet, "/orders?date_from=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderSummaryEndpoint(t *testing.T) {
	e := newTestServer(t)

	createTestOrder(t, e, `{"client":"A","items":[{"product":"Pizza","quantity":3}]}`)
	cancelled := createTestOrder(t, e, `{"client":"B","items":[{"product":"Burger","quantity":2}]}`)
	rec := doJSON(e, http.MethodPut, "/orders/"+cancelled.ID+"/cancel", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/orders/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var report struct {
		TotalOrders    int            `json:"total_orders"`
		TotalRevenue   json.Number    `json:"total_revenue"`
		OrdersByStatus map[string]int `json:"orders_by_status"`
		TopProducts    []struct {
			Product  string `json:"product"`
			Quantity int    `json:"quantity"`
		} `json:"top_products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))

	assert.Equal(t, 1, report.TotalOrders)
	assert.Equal(t, "32.97", report.TotalRevenue.String())
	assert.Equal(t, map[string]int{"pending": 1}, report.OrdersByStatus)
	require.Len(t, report.TopProducts, 1)
	assert.Equal(t, "Pizza", report.TopProducts[0].Product)
	assert.Equal(t, 3, report.TopProducts[0].Quantity)
}

func TestExportOrdersEndpoint(t *testing.T) {
	e := newTestServer(t)

	createTestOrder(t, e, `{"client":"Alice","items":[{"product":"Pizza","quantity":1}]}`)

	rec := doJSON(e, http.MethodGet, "/orders/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "orders.csv")
	assert.Contains(t, rec.Body.String(), "Alice")
}

func TestListProductsEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []struct {
		Name  string      `json:"name"`
		Price json.Number `json:"price"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 5)
	assert.Equal(t, "Pizza", entries[0].Name)
	assert.Equal(t, "10.99", entries[0].Price.String())
}

func TestIndexEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Restaurant API")
}

func TestOrderIDRoundTripsThroughJSON(t *testing.T) {
	e := newTestServer(t)

	resp := createTestOrder(t, e, `{"client":"Eve","items":[{"product":"Fries","quantity":1}]}`)
	// snowflake ids exceed float64 precision, so they travel as strings
	_, err := fmt.Sscanf(resp.ID, "%d", new(int64))
	assert.NoError(t, err)
}

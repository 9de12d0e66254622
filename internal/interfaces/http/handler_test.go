package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/memory"
	httpapi "github.com/jhoicas/inventario-stock/internal/interfaces/http"
	"github.com/jhoicas/inventario-stock/pkg/logger"
)

var today = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return today }

type testAPI struct {
	app   *fiber.App
	store *memory.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memory.NewStore(2 * time.Second)
	repos := store.Repos()
	log := logger.Nop()

	app := fiber.New()
	httpapi.Router(app, httpapi.RouterDeps{
		Ledger:      inventory.NewLedger(repos.Balances),
		Checker:     inventory.NewAvailabilityChecker(repos.Balances),
		Lots:        inventory.NewLotRegistry(repos.Lots),
		Documents:   inventory.NewDocumentUseCase(store, repos.Documents, log, nil).WithClock(clock),
		Stocktaking: inventory.NewStocktakingUseCase(store, repos.Sessions, log, nil).WithClock(clock),
	})
	return &testAPI{app: app, store: store}
}

func (a *testAPI) seed(t *testing.T, product string, qty int64) {
	t.Helper()
	b := entity.NewZeroBalance(entity.BalanceKey{ProductUnitID: product, WarehouseID: "1", StockLocationID: "1"})
	b.Quantity = decimal.NewFromInt(qty)
	b.UpdatedAt = today
	require.NoError(t, a.store.Repos().Balances.Upsert(context.Background(), b))
}

// do ejecuta la petición y decodifica el cuerpo en out (si no es nil).
func (a *testAPI) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(httpapi.HeaderUserID, "u-7")
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (a *testAPI) createDocument(t *testing.T, docType string) dto.DocumentResponse {
	t.Helper()
	var doc dto.DocumentResponse
	status := a.do(t, "POST", "/api/stock-documents", fiber.Map{
		"type": docType, "warehouse_id": "1", "stock_location_id": "1",
	}, &doc)
	require.Equal(t, fiber.StatusCreated, status)
	return doc
}

func TestInbound_FlujoCompleto(t *testing.T) {
	api := newTestAPI(t)
	doc := api.createDocument(t, "INBOUND")
	assert.Equal(t, "PENDING", doc.Status)
	assert.Equal(t, "u-7", doc.CreatedBy)

	status := api.do(t, "POST", "/api/stock-documents/"+doc.ID+"/lines", fiber.Map{
		"product_unit_id": "42", "quantity": "50", "lot_number": "LOT-001",
		"manufacturing_date": "2024-01-01", "expiry_date": "2025-01-01",
	}, &doc)
	require.Equal(t, fiber.StatusCreated, status)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, "2025-01-01", doc.Lines[0].ExpiryDate)

	status = api.do(t, "POST", "/api/stock-documents/"+doc.ID+"/approve", nil, &doc)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "APPROVED", doc.Status)
	assert.Equal(t, "u-7", doc.DecidedBy)

	var bal dto.BalanceResponse
	status = api.do(t, "GET", "/api/inventory/balances?product_unit_id=42&warehouse_id=1&stock_location_id=1", nil, &bal)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, bal.Quantity.Equal(decimal.NewFromInt(50)))

	var lots []dto.LotResponse
	status = api.do(t, "GET", "/api/inventory/lots?product_unit_id=42&warehouse_id=1", nil, &lots)
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, lots, 1)
	assert.Equal(t, "LOT-001", lots[0].LotNumber)
	assert.Equal(t, doc.ID, lots[0].DocumentID)
}

func TestOutbound_StockInsuficienteDevuelveFaltantes(t *testing.T) {
	api := newTestAPI(t)
	api.seed(t, "42", 5)
	doc := api.createDocument(t, "OUTBOUND")
	status := api.do(t, "POST", "/api/stock-documents/"+doc.ID+"/lines", fiber.Map{"product_unit_id": "42", "quantity": "10"}, nil)
	require.Equal(t, fiber.StatusCreated, status)

	var errResp struct {
		Code    string `json:"code"`
		Details []struct {
			ProductUnitID string          `json:"product_unit_id"`
			Required      decimal.Decimal `json:"required"`
			Available     decimal.Decimal `json:"available"`
			Missing       decimal.Decimal `json:"missing"`
		} `json:"details"`
	}
	status = api.do(t, "POST", "/api/stock-documents/"+doc.ID+"/approve", nil, &errResp)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errResp.Code)
	require.Len(t, errResp.Details, 1)
	assert.Equal(t, "42", errResp.Details[0].ProductUnitID)
	assert.True(t, errResp.Details[0].Required.Equal(decimal.NewFromInt(10)))
	assert.True(t, errResp.Details[0].Available.Equal(decimal.NewFromInt(5)))
	assert.True(t, errResp.Details[0].Missing.Equal(decimal.NewFromInt(5)))

	var got dto.DocumentResponse
	require.Equal(t, fiber.StatusOK, api.do(t, "GET", "/api/stock-documents/"+doc.ID, nil, &got))
	assert.Equal(t, "PENDING", got.Status)
}

func TestAddLine_ErroresDeLote(t *testing.T) {
	api := newTestAPI(t)
	doc := api.createDocument(t, "INBOUND")
	path := "/api/stock-documents/" + doc.ID + "/lines"

	var errResp dto.ErrorResponse
	status := api.do(t, "POST", path, fiber.Map{"product_unit_id": "42", "quantity": "5"}, &errResp)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "MISSING_LOT_METADATA", errResp.Code)

	status = api.do(t, "POST", path, fiber.Map{
		"product_unit_id": "42", "quantity": "5", "lot_number": "L-1",
		"manufacturing_date": "2024-01-01", "expiry_date": "2024-05-01",
	}, &errResp)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "INVALID_LOT_DATES", errResp.Code)

	status = api.do(t, "POST", path, fiber.Map{
		"product_unit_id": "42", "quantity": "5", "lot_number": "L-1",
		"manufacturing_date": "01/01/2024", "expiry_date": "2025-01-01",
	}, &errResp)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errResp.Code)
}

func TestCreateDocument_ValidacionConCampos(t *testing.T) {
	api := newTestAPI(t)
	var errResp struct {
		Code    string           `json:"code"`
		Details []dto.FieldError `json:"details"`
	}
	status := api.do(t, "POST", "/api/stock-documents", fiber.Map{"type": "TRANSFER", "warehouse_id": "1"}, &errResp)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errResp.Code)
	assert.Contains(t, errResp.Details, dto.FieldError{Field: "type", Rule: "oneof"})
	assert.Contains(t, errResp.Details, dto.FieldError{Field: "stock_location_id", Rule: "required"})
}

func TestDocumento_NoEncontrado(t *testing.T) {
	api := newTestAPI(t)
	var errResp dto.ErrorResponse
	status := api.do(t, "POST", "/api/stock-documents/nope/approve", nil, &errResp)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errResp.Code)
}

func TestReject_SinMotivoYEstadoTerminal(t *testing.T) {
	api := newTestAPI(t)
	doc := api.createDocument(t, "OUTBOUND")
	path := "/api/stock-documents/" + doc.ID + "/reject"

	var errResp dto.ErrorResponse
	assert.Equal(t, fiber.StatusBadRequest, api.do(t, "POST", path, fiber.Map{}, &errResp))

	var got dto.DocumentResponse
	require.Equal(t, fiber.StatusOK, api.do(t, "POST", path, fiber.Map{"reason": "duplicado"}, &got))
	assert.Equal(t, "REJECTED", got.Status)
	assert.Equal(t, "duplicado", got.RejectionReason)

	status := api.do(t, "POST", "/api/stock-documents/"+doc.ID+"/approve", nil, &errResp)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "INVALID_STATE", errResp.Code)
}

func TestStocktaking_FlujoCompleto(t *testing.T) {
	api := newTestAPI(t)
	api.seed(t, "42", 100)

	var s dto.SessionResponse
	require.Equal(t, fiber.StatusCreated, api.do(t, "POST", "/api/stocktaking", fiber.Map{"warehouse_id": "1", "stock_location_id": "1"}, &s))
	assert.Equal(t, "PENDING", s.Status)

	var errResp dto.ErrorResponse
	status := api.do(t, "POST", "/api/stocktaking/"+s.ID+"/confirm", nil, &errResp)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "INVALID_STATE", errResp.Code)

	require.Equal(t, fiber.StatusOK, api.do(t, "POST", "/api/stocktaking/"+s.ID+"/start", nil, &s))
	assert.Equal(t, "IN_PROGRESS", s.Status)

	status = api.do(t, "POST", "/api/stocktaking/"+s.ID+"/confirm", nil, &errResp)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "EMPTY_SESSION", errResp.Code)

	require.Equal(t, fiber.StatusCreated, api.do(t, "POST", "/api/stocktaking/"+s.ID+"/items", fiber.Map{"product_unit_id": "42", "actual_quantity": "97"}, &s))
	require.Len(t, s.Items, 1)
	assert.Equal(t, "DISCREPANCY", s.Items[0].Status)
	assert.True(t, s.Items[0].Difference.Equal(decimal.NewFromInt(-3)))
	assert.Equal(t, 1, s.Discrepancies)

	require.Equal(t, fiber.StatusOK, api.do(t, "POST", "/api/stocktaking/"+s.ID+"/confirm", nil, &s))
	assert.Equal(t, "CONFIRMED", s.Status)
	assert.Equal(t, "u-7", s.ConfirmedBy)

	var bal dto.BalanceResponse
	require.Equal(t, fiber.StatusOK, api.do(t, "GET", "/api/inventory/balances?product_unit_id=42&warehouse_id=1", nil, &bal))
	assert.True(t, bal.Quantity.Equal(decimal.NewFromInt(97)))
}

func TestAvailability_FaltantesYValidacion(t *testing.T) {
	api := newTestAPI(t)
	api.seed(t, "42", 8)

	var res dto.AvailabilityResponse
	status := api.do(t, "POST", "/api/inventory/availability", fiber.Map{
		"warehouse_id": "1",
		"items":        []fiber.Map{{"product_unit_id": "42", "required_quantity": "10"}},
	}, &res)
	require.Equal(t, fiber.StatusOK, status)
	assert.False(t, res.AllAvailable)
	require.Len(t, res.Shortages, 1)
	assert.True(t, res.Shortages[0].Missing.Equal(decimal.NewFromInt(2)))

	var errResp dto.ErrorResponse
	status = api.do(t, "POST", "/api/inventory/availability", fiber.Map{
		"warehouse_id": "1",
		"items":        []fiber.Map{{"product_unit_id": "42", "required_quantity": "0.00005"}},
	}, &errResp)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errResp.Code)

	status = api.do(t, "POST", "/api/inventory/availability", fiber.Map{"warehouse_id": "1", "items": []fiber.Map{{}}}, &errResp)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

// El ledger solo cambia por documentos aprobados o tomas confirmadas: no hay ruta de ajuste directo.
func TestLedger_SinRutaDeAjusteDirecto(t *testing.T) {
	api := newTestAPI(t)
	api.seed(t, "42", 8)

	status := api.do(t, "POST", "/api/inventory/adjustments", fiber.Map{
		"product_unit_id": "42", "warehouse_id": "1", "stock_location_id": "1", "delta": "50",
	}, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	var bal dto.BalanceResponse
	require.Equal(t, fiber.StatusOK, api.do(t, "GET", "/api/inventory/balances?product_unit_id=42&warehouse_id=1&stock_location_id=1", nil, &bal))
	assert.True(t, bal.Quantity.Equal(decimal.NewFromInt(8)))
}

func TestAddLine_CantidadConMasDeCuatroDecimales(t *testing.T) {
	api := newTestAPI(t)
	doc := api.createDocument(t, "OUTBOUND")

	var errResp dto.ErrorResponse
	status := api.do(t, "POST", "/api/stock-documents/"+doc.ID+"/lines", fiber.Map{"product_unit_id": "42", "quantity": "0.00005"}, &errResp)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errResp.Code)

	var got dto.DocumentResponse
	require.Equal(t, fiber.StatusOK, api.do(t, "GET", "/api/stock-documents/"+doc.ID, nil, &got))
	assert.Empty(t, got.Lines)
}

func TestGetLot_PorNumero(t *testing.T) {
	api := newTestAPI(t)
	doc := api.createDocument(t, "INBOUND")
	require.Equal(t, fiber.StatusCreated, api.do(t, "POST", "/api/stock-documents/"+doc.ID+"/lines", fiber.Map{
		"product_unit_id": "42", "quantity": "12", "lot_number": "LOT-009",
		"manufacturing_date": "2024-01-01", "expiry_date": "2025-03-01",
	}, nil))
	require.Equal(t, fiber.StatusOK, api.do(t, "POST", "/api/stock-documents/"+doc.ID+"/approve", nil, nil))

	var lot dto.LotResponse
	status := api.do(t, "GET", "/api/inventory/lots/LOT-009?product_unit_id=42&warehouse_id=1", nil, &lot)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "LOT-009", lot.LotNumber)
	assert.Equal(t, doc.ID, lot.DocumentID)
	assert.Equal(t, "2025-03-01", lot.ExpiryDate)

	var errResp dto.ErrorResponse
	status = api.do(t, "GET", "/api/inventory/lots/LOT-404?product_unit_id=42&warehouse_id=1", nil, &errResp)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errResp.Code)

	status = api.do(t, "GET", "/api/inventory/lots/LOT-009?product_unit_id=42", nil, &errResp)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

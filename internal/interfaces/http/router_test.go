package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/stock-core/internal/application/dto"
	appstock "github.com/invorya/stock-core/internal/application/stock"
	"github.com/invorya/stock-core/internal/application/usecase"
	domstock "github.com/invorya/stock-core/internal/domain/stock"
	"github.com/invorya/stock-core/internal/infrastructure/memory"
	apphttp "github.com/invorya/stock-core/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de integración de la API sobre el store en memoria: el flujo completo
// crear artículo → registrar movimientos → consultar libro y estadísticas, con
// autenticación real de extremo a extremo.
// ──────────────────────────────────────────────────────────────────────────────

func buildAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()

	itemUC := usecase.NewItemUseCase(store.TxRunner(), store.ItemRepository(), store.AssignmentRepository())
	locationUC := usecase.NewLocationUseCase(store.TxRunner(), store.LocationRepository(), store.AssignmentRepository(), store.ItemRepository())
	recordUC := appstock.NewRecordMovementUseCase(store.TxRunner(), store.ItemRepository(), store.LocationRepository())
	queryUC := appstock.NewMovementQueryUseCase(store.ItemRepository(), store.MovementRepository())
	exportUC := appstock.NewExportMovementsUseCase(queryUC, store.LocationRepository())
	analyticsUC := appstock.NewAnalyticsUseCase(store.ItemRepository(), store.MovementRepository(),
		domstock.AnalysisParams{LeadTimeDays: 7, SafetyFactor: 1.65})
	statsUC := appstock.NewStatsUseCase(store.ItemRepository(), analyticsUC)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ItemUC:         itemUC,
		LocationUC:     locationUC,
		RecordMovement: recordUC,
		MovementQuery:  queryUC,
		ExportUC:       exportUC,
		StatsUC:        statsUC,
		AnalyticsUC:    analyticsUC,
		JWTSecret:      testJWTSecret,
	})
	return app
}

// call hace una petición autenticada con cuerpo JSON opcional y decodifica la
// respuesta en out (si out no es nil).
func call(t *testing.T, app *fiber.App, method, path string, body, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", validToken(t))

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out), "respuesta: %s", raw)
	}
	return resp.StatusCode
}

func createItemViaAPI(t *testing.T, app *fiber.App, reference string, initial int64) dto.ItemResponse {
	t.Helper()
	var item dto.ItemResponse
	status := call(t, app, http.MethodPost, "/api/items", fiber.Map{
		"reference":        reference,
		"name":             "Artículo " + reference,
		"unit":             "kg",
		"category":         "raw",
		"unit_price":       "2.50",
		"min_quantity":     20,
		"max_quantity":     200,
		"initial_quantity": initial,
	}, &item)
	require.Equal(t, http.StatusCreated, status)
	return item
}

func TestAPI_RutasProtegidasSinToken(t *testing.T) {
	app := buildAPI(t)

	for _, path := range []string{"/api/items", "/api/locations", "/api/items/statistics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestAPI_FlujoCompletoDeStock(t *testing.T) {
	app := buildAPI(t)

	item := createItemViaAPI(t, app, "MAT-001", 100)
	assert.Equal(t, "active", item.Status)

	// Registrar una salida.
	var mov dto.MovementResponse
	status := call(t, app, http.MethodPost, "/api/items/transactions", fiber.Map{
		"item_id":          item.ID,
		"transaction_type": "out",
		"quantity":         30,
	}, &mov)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, int64(-30), mov.SignedQuantity)
	assert.Equal(t, testUserID, mov.UserID, "la identidad sale del token, no del cuerpo")

	// La cantidad materializada refleja la salida.
	var current dto.ItemResponse
	status = call(t, app, http.MethodGet, "/api/items/"+item.ID, nil, &current)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(70), current.Quantity)

	// El libro tiene initial + out.
	var list dto.MovementListResponse
	status = call(t, app, http.MethodGet, "/api/items/transactions?itemId="+item.ID, nil, &list)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list.Movements, 2)
}

func TestAPI_SalidaInsuficienteDevuelve409(t *testing.T) {
	app := buildAPI(t)
	item := createItemViaAPI(t, app, "MAT-001", 10)

	var errResp dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/items/transactions", fiber.Map{
		"item_id":          item.ID,
		"transaction_type": "out",
		"quantity":         50,
	}, &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errResp.Code)
}

func TestAPI_EliminarConStockDevuelve409(t *testing.T) {
	app := buildAPI(t)
	item := createItemViaAPI(t, app, "MAT-001", 10)

	var errResp dto.ErrorResponse
	status := call(t, app, http.MethodDelete, "/api/items?id="+item.ID, nil, &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errResp.Code)

	status = call(t, app, http.MethodDelete, "/api/items?id="+item.ID+"&force=true", nil, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestAPI_AsignacionesDeUbicacion(t *testing.T) {
	app := buildAPI(t)
	item := createItemViaAPI(t, app, "MAT-001", 100)

	var loc dto.LocationResponse
	status := call(t, app, http.MethodPost, "/api/locations", fiber.Map{
		"name": "Bodega A", "type": "warehouse",
	}, &loc)
	require.Equal(t, http.StatusCreated, status)

	var assigned dto.AssignmentResponse
	status = call(t, app, http.MethodPost, "/api/items/locations", fiber.Map{
		"item_id":     item.ID,
		"location_id": loc.ID,
		"quantity":    40,
	}, &assigned)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, assigned.IsPrimary)

	var listed []dto.AssignmentResponse
	status = call(t, app, http.MethodGet, "/api/items/locations?itemId="+item.ID, nil, &listed)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, listed, 1)
	assert.Equal(t, "Bodega A", listed[0].LocationName)
}

func TestAPI_EstadisticasYAnalisis(t *testing.T) {
	app := buildAPI(t)
	item := createItemViaAPI(t, app, "MAT-001", 100)

	status := call(t, app, http.MethodPost, "/api/items/transactions", fiber.Map{
		"item_id":          item.ID,
		"transaction_type": "out",
		"quantity":         20,
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	var stats dto.StoreStatsResponse
	status = call(t, app, http.MethodGet, "/api/items/statistics", nil, &stats)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, stats.TotalItems)

	var analysis dto.ItemAnalysisResponse
	status = call(t, app, http.MethodPost, "/api/items/statistics/analyze", dto.AnalyzeRequest{ItemID: item.ID}, &analysis)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, item.ID, analysis.ItemID)
	assert.Equal(t, int64(80), analysis.CurrentQuantity)
	assert.Equal(t, 7, analysis.Predictions.LeadTimeDays)
}

func TestAPI_ExportCSV(t *testing.T) {
	app := buildAPI(t)
	item := createItemViaAPI(t, app, "MAT-001", 100)

	req := httptest.NewRequest(http.MethodGet, "/api/items/transactions/export?itemId="+item.ID, nil)
	req.Header.Set("Authorization", validToken(t))
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "date,type,reference,quantity")
}

func TestAPI_ValidacionDevuelve400(t *testing.T) {
	app := buildAPI(t)

	var errResp dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/items", fiber.Map{
		"reference": "MAT-X", "name": "Sin unidad", "category": "raw",
		"min_quantity": 0, "max_quantity": 10,
	}, &errResp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errResp.Code)
}

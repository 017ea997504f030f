package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroBoard/internal/domain/models"
	"MacroBoard/internal/domain/repository"
	"MacroBoard/internal/source"
	"MacroBoard/internal/usecase"
	"MacroBoard/pkg/cache"
	applogger "MacroBoard/pkg/logger"
)

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	mem := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })

	board := usecase.NewBoard(source.NewFixtureSource(), mem, nil, repository.NopMetrics{}, applogger.Nop())
	dash := usecase.NewDashboard(board, applogger.Nop())
	h := NewBoardHandler(board, dash, NewStreamHub(applogger.Nop()), applogger.Nop())

	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func doGET(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type apiBody struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) apiBody {
	t.Helper()
	var body apiBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthEndpoint(t *testing.T) {
	rec := doGET(newTestRouter(t), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestGlobalM2Endpoint(t *testing.T) {
	rec := doGET(newTestRouter(t), "/api/datasets/global-m2")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, http.StatusOK, body.Status)

	var env models.Envelope[[]models.M2Point]
	require.NoError(t, json.Unmarshal(body.Data, &env))
	require.False(t, env.Failed())
	points := env.Value()
	require.NotEmpty(t, points)
	assert.Equal(t, 2015, points[0].Year)
	assert.False(t, env.FetchedAt.IsZero())
}

func TestMarketCapsEndpointAddsDisplayStrings(t *testing.T) {
	rec := doGET(newTestRouter(t), "/api/datasets/market-caps")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	var view MarketCapsView
	require.NoError(t, json.Unmarshal(body.Data, &view))
	require.NotNil(t, view.Data)
	assert.Equal(t, "$64,000", view.BTCPriceDisplay)
	assert.Equal(t, "$1.26T", view.BTCCapDisplay)
	assert.NotEmpty(t, view.GoldCapDisplay)
}

func TestTreasuriesEndpointFormatsRows(t *testing.T) {
	rec := doGET(newTestRouter(t), "/api/datasets/treasuries/btc")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	var view TreasuryTableView
	require.NoError(t, json.Unmarshal(body.Data, &view))
	require.NotEmpty(t, view.Rows)

	top := view.Rows[0]
	assert.Equal(t, "Strategy", top.Company)
	assert.Equal(t, "331,200", top.HoldingsDisplay)
	assert.Equal(t, "-", top.ValueDisplay)
}

func TestTreasuriesEndpointHonorsTopParam(t *testing.T) {
	rec := doGET(newTestRouter(t), "/api/datasets/treasuries/btc?top=2")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	var view TreasuryTableView
	require.NoError(t, json.Unmarshal(body.Data, &view))
	assert.Len(t, view.Rows, 2)
}

func TestTreasuriesEndpointRejectsBadTop(t *testing.T) {
	for _, target := range []string{
		"/api/datasets/treasuries/btc?top=0",
		"/api/datasets/treasuries/btc?top=-3",
		"/api/datasets/treasuries/btc?top=9999",
	} {
		rec := doGET(newTestRouter(t), target)
		body := decodeBody(t, rec)
		assert.Equal(t, http.StatusBadRequest, body.Status, target)
	}
}

func TestTreasuriesEndpointDefaultsTopWhenAbsent(t *testing.T) {
	rec := doGET(newTestRouter(t), "/api/datasets/treasuries/btc")
	body := decodeBody(t, rec)
	require.Equal(t, http.StatusOK, body.Status)

	var view TreasuryTableView
	require.NoError(t, json.Unmarshal(body.Data, &view))
	assert.NotEmpty(t, view.Rows)
}

func TestTreasuriesEndpointRejectsUnknownAsset(t *testing.T) {
	rec := doGET(newTestRouter(t), "/api/datasets/treasuries/doge")
	body := decodeBody(t, rec)
	assert.Equal(t, http.StatusBadRequest, body.Status)
}

func TestETFFlowsEndpointPerAsset(t *testing.T) {
	rec := doGET(newTestRouter(t), "/api/datasets/etf-flows/btc")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	var env models.Envelope[[]models.ETFFlowPoint]
	require.NoError(t, json.Unmarshal(body.Data, &env))
	require.False(t, env.Failed())
	points := env.Value()
	require.NotEmpty(t, points)
	for i := 1; i < len(points); i++ {
		assert.True(t, points[i-1].Date.Before(points[i].Date))
	}
}

func TestETFFlowsEndpointRejectsSol(t *testing.T) {
	rec := doGET(newTestRouter(t), "/api/datasets/etf-flows/sol")
	body := decodeBody(t, rec)
	assert.Equal(t, http.StatusNotFound, body.Status)
}

func TestPanelsEndpointListsAllDatasets(t *testing.T) {
	mem := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })

	board := usecase.NewBoard(source.NewFixtureSource(), mem, nil, repository.NopMetrics{}, applogger.Nop())
	dash := usecase.NewDashboard(board, applogger.Nop())
	h := NewBoardHandler(board, dash, nil, applogger.Nop())

	e := echo.New()
	h.RegisterRoutes(e)

	dash.StartAll(context.Background())
	time.Sleep(100 * time.Millisecond)

	rec := doGET(e, "/api/panels")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	var snaps []usecase.PanelSnapshot
	require.NoError(t, json.Unmarshal(body.Data, &snaps))
	assert.Len(t, snaps, len(models.AllDatasets()))
}

func TestChartEndpointReturnsPNG(t *testing.T) {
	rec := doGET(newTestRouter(t), "/api/charts/global-m2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))

	png := rec.Body.Bytes()
	require.Greater(t, len(png), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

// singlePointSources shrinks the M2 series to one point, which the
// chart renderer cannot draw an axis range for.
type singlePointSources struct {
	*source.FixtureSource
}

func (s singlePointSources) GlobalM2(_ context.Context) ([]models.M2Point, error) {
	return []models.M2Point{{Year: 2024, ValueTrillion: 121.3}}, nil
}

func TestChartEndpointReportsRenderFailure(t *testing.T) {
	mem := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })

	board := usecase.NewBoard(singlePointSources{source.NewFixtureSource()}, mem, nil, repository.NopMetrics{}, applogger.Nop())
	dash := usecase.NewDashboard(board, applogger.Nop())
	h := NewBoardHandler(board, dash, nil, applogger.Nop())

	e := echo.New()
	h.RegisterRoutes(e)

	rec := doGET(e, "/api/charts/global-m2")
	assert.NotEqual(t, "image/png", rec.Header().Get(echo.HeaderContentType))

	body := decodeBody(t, rec)
	assert.Equal(t, http.StatusInternalServerError, body.Status)
}

func TestChartEndpointRejectsNonSeriesDataset(t *testing.T) {
	rec := doGET(newTestRouter(t), "/api/charts/treasuries-btc")
	body := decodeBody(t, rec)
	assert.Equal(t, http.StatusBadRequest, body.Status)

	rec = doGET(newTestRouter(t), "/api/charts/nope")
	body = decodeBody(t, rec)
	assert.Equal(t, http.StatusBadRequest, body.Status)
}

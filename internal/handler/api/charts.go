package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/wcharczuk/go-chart/v2"

	"MacroBoard/internal/domain/models"
	xhttp "MacroBoard/pkg/http"
)

// chart renders a dataset as a PNG line chart. Only series-shaped
// datasets are chartable; the snapshot and table datasets get a 400.
func (h *BoardHandler) chart(c echo.Context) error {
	ds := models.Dataset(c.Param("dataset"))
	if !ds.Valid() {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(fmt.Sprintf("unknown dataset %q", ds)))
	}

	graph, err := h.renderChart(c.Request().Context(), ds)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}

	// Render into a buffer first; go-chart rejects degenerate series
	// and a failure after writing headers would truncate the body.
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.InternalError(fmt.Sprintf("render chart: %v", err)))
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

func (h *BoardHandler) renderChart(ctx context.Context, ds models.Dataset) (*chart.Chart, error) {
	switch ds {
	case models.DatasetGlobalM2:
		env := h.board.GlobalM2(ctx)
		if env.Failed() {
			return nil, xhttp.InternalError(env.Error)
		}
		return m2Chart(*env.Data), nil
	case models.DatasetMVRV:
		env := h.board.MVRV(ctx)
		if env.Failed() {
			return nil, xhttp.InternalError(env.Error)
		}
		points := *env.Data
		dates := make([]time.Time, len(points))
		values := make([]float64, len(points))
		for i, p := range points {
			dates[i] = p.Date
			values[i] = p.MVRVRatio
		}
		return timeSeriesChart("MVRV", dates, values), nil
	case models.DatasetAHR999:
		env := h.board.AHR999(ctx)
		if env.Failed() {
			return nil, xhttp.InternalError(env.Error)
		}
		points := *env.Data
		dates := make([]time.Time, len(points))
		values := make([]float64, len(points))
		for i, p := range points {
			dates[i] = p.Date
			values[i] = p.AHR
		}
		return timeSeriesChart("AHR999", dates, values), nil
	case models.DatasetETFFlowsBTC, models.DatasetETFFlowsETH:
		asset := models.AssetBTC
		if ds == models.DatasetETFFlowsETH {
			asset = models.AssetETH
		}
		env := h.board.ETFFlows(ctx, asset)
		if env.Failed() {
			return nil, xhttp.InternalError(env.Error)
		}
		points := *env.Data
		dates := make([]time.Time, len(points))
		values := make([]float64, len(points))
		for i, p := range points {
			dates[i] = p.Date
			values[i] = p.TotalFlow
		}
		return timeSeriesChart("Daily Net Flow (USDm)", dates, values), nil
	default:
		return nil, xhttp.BadRequestError(fmt.Sprintf("dataset %q is not chartable", ds))
	}
}

func m2Chart(points []models.M2Point) *chart.Chart {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(p.Year)
		ys[i] = p.ValueTrillion
	}
	graph := &chart.Chart{
		Width:  1024,
		Height: 512,
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				return chart.FloatValueFormatterWithFormat(v, "%.0f")
			},
		},
		YAxis: chart.YAxis{Name: "USD Trillions"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Global M2",
				XValues: xs,
				YValues: ys,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(graph)}
	return graph
}

func timeSeriesChart(name string, dates []time.Time, values []float64) *chart.Chart {
	graph := &chart.Chart{
		Width:  1024,
		Height: 512,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    name,
				XValues: dates,
				YValues: values,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(graph)}
	return graph
}

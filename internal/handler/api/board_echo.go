package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"MacroBoard/internal/domain/models"
	"MacroBoard/internal/usecase"
	xhttp "MacroBoard/pkg/http"
	applogger "MacroBoard/pkg/logger"
	"MacroBoard/pkg/util"
)

// valuePlaceholder renders in place of a USD value the upstream table
// does not publish.
const valuePlaceholder = "-"

// BoardHandler serves the dashboard's dataset and panel endpoints.
type BoardHandler struct {
	board *usecase.Board
	dash  *usecase.Dashboard
	hub   *StreamHub
	lg    *applogger.Logger
}

// NewBoardHandler wires the HTTP layer over the board facade.
func NewBoardHandler(board *usecase.Board, dash *usecase.Dashboard, hub *StreamHub, lg *applogger.Logger) *BoardHandler {
	return &BoardHandler{
		board: board,
		dash:  dash,
		hub:   hub,
		lg:    lg.Component("api"),
	}
}

var _ xhttp.Handler = (*BoardHandler)(nil)

// RegisterRoutes mounts all API routes on the Echo instance.
func (h *BoardHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.health)

	api := e.Group("/api")
	api.GET("/datasets/global-m2", h.globalM2)
	api.GET("/datasets/market-caps", h.marketCaps)
	api.GET("/datasets/mvrv", h.mvrv)
	api.GET("/datasets/ahr999", h.ahr999)
	api.GET("/datasets/etf-flows/:asset", h.etfFlows)
	api.GET("/datasets/treasuries/:asset", h.treasuries)
	api.GET("/panels", h.panels)
	api.GET("/charts/:dataset", h.chart)

	if h.hub != nil {
		e.GET("/ws/refresh", h.hub.Serve)
	}
}

func (h *BoardHandler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Dataset endpoints always answer 200; upstream trouble is reported
// inside the envelope so clients render a panel error, not a transport
// error.
func (h *BoardHandler) globalM2(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.board.GlobalM2(c.Request().Context()))
}

func (h *BoardHandler) marketCaps(c echo.Context) error {
	env := h.board.MarketCaps(c.Request().Context())
	return xhttp.SuccessResponse(c, marketCapsView(env))
}

func (h *BoardHandler) mvrv(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.board.MVRV(c.Request().Context()))
}

func (h *BoardHandler) ahr999(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.board.AHR999(c.Request().Context()))
}

func (h *BoardHandler) etfFlows(c echo.Context) error {
	asset, err := models.ParseAsset(c.Param("asset"))
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	}
	if _, err := models.ETFFlowDataset(asset); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(err.Error()))
	}
	return xhttp.SuccessResponse(c, h.board.ETFFlows(c.Request().Context(), asset))
}

// Top is a pointer so an explicit ?top=0 is distinguishable from the
// parameter being absent; defaults only fill the nil case.
type treasuryQuery struct {
	Top *int `query:"top" default:"15" validate:"required,gte=1,lte=100"`
}

func (h *BoardHandler) treasuries(c echo.Context) error {
	asset, err := models.ParseAsset(c.Param("asset"))
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	}

	var q treasuryQuery
	if verrs := xhttp.ReadAndValidateRequest(c, &q); verrs != nil {
		return xhttp.BadRequestResponse(c, verrs)
	}

	env := h.board.TreasuryHoldings(c.Request().Context(), asset)
	return xhttp.SuccessResponse(c, treasuryTableView(env, *q.Top))
}

func (h *BoardHandler) panels(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.dash.Snapshots())
}

// MarketCapsView adds display strings to the raw snapshot.
type MarketCapsView struct {
	models.Envelope[models.MarketCapSnapshot]
	BTCPriceDisplay string `json:"btc_price_display,omitempty"`
	BTCCapDisplay   string `json:"btc_cap_display,omitempty"`
	GoldCapDisplay  string `json:"gold_cap_display,omitempty"`
}

func marketCapsView(env models.Envelope[models.MarketCapSnapshot]) MarketCapsView {
	view := MarketCapsView{Envelope: env}
	if env.Data != nil {
		view.BTCPriceDisplay = util.FormatUSD(env.Data.BTCPrice)
		view.BTCCapDisplay = util.FormatUSD(env.Data.BTCMarketCap)
		view.GoldCapDisplay = util.FormatUSD(env.Data.GoldMarketCap)
	}
	return view
}

// TreasuryRow is one formatted treasury table row.
type TreasuryRow struct {
	Company         string `json:"company"`
	Ticker          string `json:"ticker,omitempty"`
	Type            string `json:"type,omitempty"`
	Country         string `json:"country,omitempty"`
	HoldingsDisplay string `json:"holdings_display"`
	ValueDisplay    string `json:"value_display"`
}

// TreasuryTableView is the treasuries endpoint payload.
type TreasuryTableView struct {
	Rows      []TreasuryRow `json:"rows,omitempty"`
	Error     string        `json:"error,omitempty"`
	Stale     bool          `json:"stale,omitempty"`
	FetchedAt string        `json:"fetched_at,omitempty"`
}

func treasuryTableView(env models.Envelope[[]models.TreasuryHolding], top int) TreasuryTableView {
	view := TreasuryTableView{Error: env.Error, Stale: env.Stale}
	if !env.FetchedAt.IsZero() {
		view.FetchedAt = env.FetchedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	if env.Data == nil {
		return view
	}

	rows := models.TopTreasuryHoldings(*env.Data, top)
	view.Rows = make([]TreasuryRow, 0, len(rows))
	for _, r := range rows {
		row := TreasuryRow{
			Company:         r.Company,
			Ticker:          r.Ticker,
			Type:            r.Type,
			Country:         r.Country,
			HoldingsDisplay: util.FormatQuantity(r.Holdings),
			ValueDisplay:    r.ValueUSD,
		}
		if row.ValueDisplay == "" {
			row.ValueDisplay = valuePlaceholder
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}

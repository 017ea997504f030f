package usecase

import (
	"context"

	"github.com/robfig/cron/v3"

	"MacroBoard/internal/domain/models"
	applogger "MacroBoard/pkg/logger"
)

// Refresher keeps the cache warm by re-fetching each dataset on its
// TTL cadence, so interactive requests rarely pay upstream latency.
type Refresher struct {
	board *Board
	cron  *cron.Cron
	lg    *applogger.Logger
}

// NewRefresher creates a stopped refresher.
func NewRefresher(board *Board, lg *applogger.Logger) *Refresher {
	return &Refresher{
		board: board,
		cron:  cron.New(),
		lg:    lg.Component("refresher"),
	}
}

// Start schedules one job per dataset and begins running them.
func (r *Refresher) Start(ctx context.Context) {
	for _, ds := range models.AllDatasets() {
		ds := ds
		r.cron.Schedule(cron.Every(r.board.TTLFor(ds)), cron.FuncJob(func() {
			r.refresh(ctx, ds)
		}))
	}
	r.cron.Start()
	r.lg.Info("refresh scheduler started", applogger.Int("jobs", len(models.AllDatasets())))
}

func (r *Refresher) refresh(ctx context.Context, ds models.Dataset) {
	if err := r.board.Invalidate(ctx, ds); err != nil {
		r.lg.Warn("cache invalidation failed", applogger.String("dataset", ds.String()), applogger.Error(err))
	}
	out := r.board.FetchDataset(ctx, ds)
	if out.Err != nil {
		r.lg.Warn("scheduled refresh failed", applogger.String("dataset", ds.String()), applogger.Error(out.Err))
		return
	}
	r.lg.Debug("dataset refreshed", applogger.String("dataset", ds.String()), applogger.Bool("stale", out.Stale))
}

// Stop halts scheduling and waits for running jobs to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}

package usecase

import (
	"context"
	"sync"
	"time"

	"MacroBoard/internal/domain/models"
	applogger "MacroBoard/pkg/logger"
)

// PanelState is a panel's position in its lifecycle.
type PanelState string

const (
	PanelLoading PanelState = "loading"
	PanelSuccess PanelState = "success"
	PanelFailure PanelState = "failure"
)

// PanelSnapshot is the externally visible view of one panel.
type PanelSnapshot struct {
	Dataset   models.Dataset `json:"dataset"`
	State     PanelState     `json:"state"`
	Message   string         `json:"message,omitempty"`
	Stale     bool           `json:"stale,omitempty"`
	UpdatedAt time.Time      `json:"updated_at,omitzero"`
}

// Panel drives one dataset fetch through loading, success, or failure.
// A panel runs at most one fetch; remounting a dataset means cancelling
// the old panel and starting a fresh one.
type Panel struct {
	dataset models.Dataset
	fetch   func(context.Context, models.Dataset) Outcome

	mu        sync.Mutex
	state     PanelState
	message   string
	stale     bool
	updatedAt time.Time
	started   bool
	settled   bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewPanel creates a panel in the loading state.
func NewPanel(dataset models.Dataset, fetch func(context.Context, models.Dataset) Outcome) *Panel {
	return &Panel{
		dataset: dataset,
		fetch:   fetch,
		state:   PanelLoading,
		done:    make(chan struct{}),
	}
}

// Start launches the fetch. Calling Start more than once is a no-op.
func (p *Panel) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()

	go p.run(runCtx)
}

func (p *Panel) run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			p.settle(PanelFailure, "data fetch failed", false, time.Time{})
		}
	}()

	out := p.fetch(ctx, p.dataset)

	// A cancelled panel never delivers, even if the fetch finished.
	select {
	case <-ctx.Done():
		return
	default:
	}

	if out.Err != nil {
		p.settle(PanelFailure, out.Err.Error(), false, time.Time{})
		return
	}
	p.settle(PanelSuccess, "", out.Stale, out.FetchedAt)
}

func (p *Panel) settle(state PanelState, message string, stale bool, at time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.settled {
		return
	}
	p.settled = true
	p.state = state
	p.message = message
	p.stale = stale
	p.updatedAt = at
	close(p.done)
}

// Cancel stops an in-flight fetch and freezes the panel. After the
// panel has settled Cancel does nothing.
func (p *Panel) Cancel() {
	p.mu.Lock()
	cancel := p.cancel
	settled := p.settled
	if !settled {
		p.settled = true
		close(p.done)
	}
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Done closes when the panel has settled or been cancelled.
func (p *Panel) Done() <-chan struct{} {
	return p.done
}

// Snapshot returns the panel's current state.
func (p *Panel) Snapshot() PanelSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PanelSnapshot{
		Dataset:   p.dataset,
		State:     p.state,
		Message:   p.message,
		Stale:     p.stale,
		UpdatedAt: p.updatedAt,
	}
}

// Dashboard owns one panel per dataset and replaces panels on refresh.
type Dashboard struct {
	board *Board
	lg    *applogger.Logger

	mu           sync.Mutex
	panels       map[models.Dataset]*Panel
	onTransition func(PanelSnapshot)
}

// NewDashboard creates an empty dashboard over the board facade.
func NewDashboard(board *Board, lg *applogger.Logger) *Dashboard {
	return &Dashboard{
		board:  board,
		lg:     lg.Component("dashboard"),
		panels: make(map[models.Dataset]*Panel),
	}
}

// OnTransition registers a callback invoked whenever a panel settles.
// Must be set before StartAll.
func (d *Dashboard) OnTransition(fn func(PanelSnapshot)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onTransition = fn
}

// StartAll mounts a panel for every dataset and starts their fetches.
func (d *Dashboard) StartAll(ctx context.Context) {
	for _, ds := range models.AllDatasets() {
		d.Refresh(ctx, ds)
	}
}

// Refresh remounts the dataset's panel: the old panel, if any, is
// cancelled, and a new one starts loading.
func (d *Dashboard) Refresh(ctx context.Context, ds models.Dataset) *Panel {
	d.mu.Lock()
	if old, ok := d.panels[ds]; ok {
		old.Cancel()
	}
	panel := NewPanel(ds, d.board.FetchDataset)
	d.panels[ds] = panel
	notify := d.onTransition
	d.mu.Unlock()

	panel.Start(ctx)
	if notify != nil {
		go func() {
			<-panel.Done()
			notify(panel.Snapshot())
		}()
	}
	return panel
}

// CancelAll cancels every mounted panel.
func (d *Dashboard) CancelAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.panels {
		p.Cancel()
	}
}

// Snapshots returns the current view of every panel in dataset order.
func (d *Dashboard) Snapshots() []PanelSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	snaps := make([]PanelSnapshot, 0, len(d.panels))
	for _, ds := range models.AllDatasets() {
		if p, ok := d.panels[ds]; ok {
			snaps = append(snaps, p.Snapshot())
		}
	}
	return snaps
}

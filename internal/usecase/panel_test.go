package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroBoard/internal/domain/models"
	"MacroBoard/internal/domain/repository"
	"MacroBoard/pkg/cache"
	applogger "MacroBoard/pkg/logger"
)

func waitSettled(t *testing.T, p *Panel) {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("panel did not settle in time")
	}
}

func TestPanelTransitionsToSuccess(t *testing.T) {
	fetchedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	p := NewPanel(models.DatasetGlobalM2, func(context.Context, models.Dataset) Outcome {
		return Outcome{Dataset: models.DatasetGlobalM2, FetchedAt: fetchedAt}
	})

	assert.Equal(t, PanelLoading, p.Snapshot().State)

	p.Start(context.Background())
	waitSettled(t, p)

	snap := p.Snapshot()
	assert.Equal(t, PanelSuccess, snap.State)
	assert.Empty(t, snap.Message)
	assert.Equal(t, fetchedAt, snap.UpdatedAt)
}

func TestPanelFailureCarriesMessage(t *testing.T) {
	p := NewPanel(models.DatasetMVRV, func(context.Context, models.Dataset) Outcome {
		return Outcome{Dataset: models.DatasetMVRV, Err: errors.New("upstream unavailable")}
	})

	p.Start(context.Background())
	waitSettled(t, p)

	snap := p.Snapshot()
	assert.Equal(t, PanelFailure, snap.State)
	assert.NotEmpty(t, snap.Message)
}

func TestPanelCancelSuppressesDelivery(t *testing.T) {
	release := make(chan struct{})
	p := NewPanel(models.DatasetAHR999, func(ctx context.Context, _ models.Dataset) Outcome {
		<-release
		return Outcome{Dataset: models.DatasetAHR999}
	})

	p.Start(context.Background())
	p.Cancel()
	close(release)

	waitSettled(t, p)
	time.Sleep(20 * time.Millisecond)

	// The fetch finished after cancellation but must not change state.
	assert.Equal(t, PanelLoading, p.Snapshot().State)
}

func TestPanelCancelAfterSettleIsNoOp(t *testing.T) {
	p := NewPanel(models.DatasetGlobalM2, func(context.Context, models.Dataset) Outcome {
		return Outcome{Dataset: models.DatasetGlobalM2}
	})

	p.Start(context.Background())
	waitSettled(t, p)
	require.Equal(t, PanelSuccess, p.Snapshot().State)

	p.Cancel()
	assert.Equal(t, PanelSuccess, p.Snapshot().State)
}

func TestPanelStartTwiceRunsOnce(t *testing.T) {
	calls := 0
	p := NewPanel(models.DatasetGlobalM2, func(context.Context, models.Dataset) Outcome {
		calls++
		return Outcome{Dataset: models.DatasetGlobalM2}
	})

	p.Start(context.Background())
	waitSettled(t, p)
	p.Start(context.Background())
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, 1, calls)
}

func TestPanelAbsorbsPanickingFetch(t *testing.T) {
	p := NewPanel(models.DatasetMarketCaps, func(context.Context, models.Dataset) Outcome {
		panic("boom")
	})

	p.Start(context.Background())
	waitSettled(t, p)

	snap := p.Snapshot()
	assert.Equal(t, PanelFailure, snap.State)
	assert.NotEmpty(t, snap.Message)
}

func newTestDashboard(t *testing.T, src repository.Sources) *Dashboard {
	t.Helper()
	mem := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })
	board := NewBoard(src, mem, nil, repository.NopMetrics{}, applogger.Nop())
	return NewDashboard(board, applogger.Nop())
}

func TestDashboardStartAllMountsEveryDataset(t *testing.T) {
	d := newTestDashboard(t, &countingSources{})

	d.StartAll(context.Background())
	snaps := d.Snapshots()

	require.Len(t, snaps, len(models.AllDatasets()))
	for i, ds := range models.AllDatasets() {
		assert.Equal(t, ds, snaps[i].Dataset)
	}
}

func TestDashboardRefreshReplacesPanel(t *testing.T) {
	d := newTestDashboard(t, &countingSources{})
	ctx := context.Background()

	first := d.Refresh(ctx, models.DatasetGlobalM2)
	waitSettled(t, first)

	second := d.Refresh(ctx, models.DatasetGlobalM2)
	assert.NotSame(t, first, second)
	waitSettled(t, second)
	assert.Equal(t, PanelSuccess, second.Snapshot().State)
}

func TestDashboardNotifiesOnTransition(t *testing.T) {
	d := newTestDashboard(t, &countingSources{})

	settled := make(chan PanelSnapshot, 1)
	d.OnTransition(func(s PanelSnapshot) { settled <- s })

	d.Refresh(context.Background(), models.DatasetMarketCaps)

	select {
	case snap := <-settled:
		assert.Equal(t, models.DatasetMarketCaps, snap.Dataset)
		assert.Equal(t, PanelSuccess, snap.State)
	case <-time.After(2 * time.Second):
		t.Fatal("no transition notification")
	}
}

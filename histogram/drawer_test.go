package histogram

import (
	"context"
	"sync"

	"github.com/icodeforyou/histoplot-go/www/chartjs"
)

type drawCall struct {
	op      string
	surface string
	chart   chartjs.Chart
}

type fakeDrawer struct {
	mu    sync.Mutex
	calls []drawCall
	err   error
}

func (d *fakeDrawer) Draw(_ context.Context, surfaceID string, chart chartjs.Chart) error {
	return d.record("draw", surfaceID, chart)
}

func (d *fakeDrawer) Redraw(_ context.Context, surfaceID string, chart chartjs.Chart) error {
	return d.record("redraw", surfaceID, chart)
}

func (d *fakeDrawer) record(op, surfaceID string, chart chartjs.Chart) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.calls = append(d.calls, drawCall{op: op, surface: surfaceID, chart: chart})
	return nil
}

func (d *fakeDrawer) last() drawCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[len(d.calls)-1]
}

func (d *fakeDrawer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

// blockingDrawer holds every Draw until release is closed.
type blockingDrawer struct {
	started chan struct{}
	release chan struct{}
}

func (d *blockingDrawer) Draw(ctx context.Context, _ string, _ chartjs.Chart) error {
	d.started <- struct{}{}
	select {
	case <-d.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *blockingDrawer) Redraw(context.Context, string, chartjs.Chart) error {
	return nil
}

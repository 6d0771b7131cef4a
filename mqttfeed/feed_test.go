package mqttfeed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/icodeforyou/histoplot-go/config"
	"github.com/icodeforyou/histoplot-go/gradient"
	"github.com/icodeforyou/histoplot-go/histogram"
	"github.com/icodeforyou/histoplot-go/www/chartjs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingDrawer struct {
	draws, redraws int
}

func (d *countingDrawer) Draw(context.Context, string, chartjs.Chart) error {
	d.draws++
	return nil
}

func (d *countingDrawer) Redraw(context.Context, string, chartjs.Chart) error {
	d.redraws++
	return nil
}

func newTestFeed(t *testing.T) (*Feed, *histogram.Controller, *countingDrawer) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	drawer := &countingDrawer{}
	registry := histogram.NewRegistry(logger, drawer, gradient.NewMapper(nil))
	ctrl := histogram.NewController(registry, nil, gradient.Range{Min: 0, Max: 10})
	prefix := "plant/charts/"
	return New(logger, config.AppConfigMqtt{Host: "localhost", TopicPrefix: &prefix}, ctrl), ctrl, drawer
}

func TestParseTopic(t *testing.T) {
	f, _, _ := newTestFeed(t)

	tests := []struct {
		topic   string
		surface string
		op      string
		ok      bool
	}{
		{"plant/charts/c1/render", "c1", "render", true},
		{"plant/charts/c1/recolor", "c1", "recolor", true},
		{"plant/charts//render", "", "", false},
		{"plant/charts/c1", "", "", false},
		{"plant/charts/c1/render/x", "", "", false},
		{"other/c1/render", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			surface, op, ok := f.parseTopic(tt.topic)
			if surface != tt.surface || op != tt.op || ok != tt.ok {
				t.Errorf("got (%q, %q, %v), wanted (%q, %q, %v)", surface, op, ok, tt.surface, tt.op, tt.ok)
			}
		})
	}
}

func TestHandleRenderAndRecolor(t *testing.T) {
	f, ctrl, drawer := newTestFeed(t)

	status := f.handleMessage("plant/charts/c1/render",
		[]byte(`{"surface":"ignored","values":["1","2","3"],"labels":["a","b","c"],"intensities":[0,5,10]}`))
	require.True(t, status.Ok, status.Error)
	assert.Equal(t, Status{Op: "render", Surface: "c1", Ok: true, Bars: 3}, status)

	_, ok := ctrl.Registry().Get("ignored")
	assert.False(t, ok)

	status = f.handleMessage("plant/charts/c1/recolor", []byte(`{"min":0,"max":20}`))
	require.True(t, status.Ok, status.Error)

	p, ok := ctrl.Registry().Get("c1")
	require.True(t, ok)
	assert.Equal(t, gradient.Range{Min: 0, Max: 20}, p.Range())
	assert.Equal(t, 1, drawer.draws)
	assert.Equal(t, 1, drawer.redraws)
}

func TestHandleFailures(t *testing.T) {
	f, _, drawer := newTestFeed(t)

	status := f.handleMessage("plant/charts/c2/recolor", []byte(`{"min":0,"max":1}`))
	assert.False(t, status.Ok)
	assert.Contains(t, status.Error, histogram.ErrNotRendered.Error())

	status = f.handleMessage("plant/charts/c2/render", []byte(`not json`))
	assert.False(t, status.Ok)
	assert.Equal(t, "c2", status.Surface)

	status = f.handleMessage("plant/charts/c2/status", []byte(`{}`))
	assert.Equal(t, Status{}, status)

	assert.Equal(t, 0, drawer.draws+drawer.redraws)
}

package www

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/icodeforyou/histoplot-go/www/chartjs"
)

const (
	OpDraw   = "draw"
	OpRedraw = "redraw"
)

// DrawMessage is what the page receives on /ws. A "draw" replaces the chart
// on the canvas, a "redraw" only updates the bar colors of the existing one.
type DrawMessage struct {
	Op      string        `json:"op"`
	Surface string        `json:"surface"`
	Chart   chartjs.Chart `json:"chart"`
}

// HubDrawer draws charts by pushing them to the browsers through the Hub.
type HubDrawer struct {
	hub *Hub
}

func NewHubDrawer(hub *Hub) *HubDrawer {
	return &HubDrawer{hub: hub}
}

func (d *HubDrawer) Draw(ctx context.Context, surfaceID string, chart chartjs.Chart) error {
	return d.send(ctx, OpDraw, surfaceID, chart)
}

func (d *HubDrawer) Redraw(ctx context.Context, surfaceID string, chart chartjs.Chart) error {
	return d.send(ctx, OpRedraw, surfaceID, chart)
}

func (d *HubDrawer) send(ctx context.Context, op, surfaceID string, chart chartjs.Chart) error {
	buf, err := json.Marshal(DrawMessage{Op: op, Surface: surfaceID, Chart: chart})
	if err != nil {
		return fmt.Errorf("encoding %s message: %w", op, err)
	}

	select {
	case d.hub.Broadcast <- Message{Surface: surfaceID, Payload: buf}:
		return nil
	case <-d.hub.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

package histogram

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/icodeforyou/histoplot-go/gradient"
	"github.com/icodeforyou/histoplot-go/metrics"
)

// Registry holds the last drawn Plot of every surface.
type Registry struct {
	mu     sync.RWMutex
	logger *slog.Logger
	drawer Drawer
	mapper *gradient.Mapper
	plots  map[string]*Plot
}

func NewRegistry(logger *slog.Logger, drawer Drawer, mapper *gradient.Mapper) *Registry {
	return &Registry{
		logger: logger,
		drawer: drawer,
		mapper: mapper,
		plots:  make(map[string]*Plot),
	}
}

// Render draws a new chart on surfaceID and replaces any previous handle.
// On error the previous handle is kept. The drawer runs without the
// registry lock held.
func (r *Registry) Render(ctx context.Context, surfaceID string, in Input, cr gradient.Range) (*Plot, error) {
	p, err := Render(ctx, r.drawer, r.mapper, surfaceID, in, cr)
	metrics.Rendered(len(in.Values), err)
	if err != nil {
		r.logger.Warn("render failed", slog.String("surface", surfaceID), slog.Any("error", err))
		return nil, err
	}

	r.mu.Lock()
	r.plots[surfaceID] = p
	metrics.SetSurfaces(len(r.plots))
	r.mu.Unlock()

	r.logger.Debug("histogram rendered",
		slog.String("surface", surfaceID),
		slog.Int("bars", len(in.Values)),
		slog.String("range", cr.String()))
	return p, nil
}

// Recolor recolors the chart on surfaceID from the intensities it was
// rendered with. ErrNotRendered is returned for an unknown surface.
func (r *Registry) Recolor(ctx context.Context, surfaceID string, cr gradient.Range) (*Plot, error) {
	p, _ := r.Get(surfaceID)
	return r.recolored(p, surfaceID, cr, p.Recolor(ctx, cr))
}

// RecolorFrom recolors the chart on surfaceID from explicit intensities.
func (r *Registry) RecolorFrom(ctx context.Context, surfaceID string, intensities []float64, cr gradient.Range) (*Plot, error) {
	p, _ := r.Get(surfaceID)
	return r.recolored(p, surfaceID, cr, p.RecolorFrom(ctx, intensities, cr))
}

// p is nil for an unknown surface, its methods then report ErrNotRendered.
func (r *Registry) recolored(p *Plot, surfaceID string, cr gradient.Range, err error) (*Plot, error) {
	metrics.Recolored(err)
	if err != nil {
		r.logger.Warn("recolor failed", slog.String("surface", surfaceID), slog.Any("error", err))
		return nil, err
	}
	r.logger.Debug("histogram recolored", slog.String("surface", surfaceID), slog.String("range", cr.String()))
	return p, nil
}

func (r *Registry) Get(surfaceID string) (*Plot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plots[surfaceID]
	return p, ok
}

// Remove forgets the chart on surfaceID, the surface itself is not cleared.
func (r *Registry) Remove(surfaceID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.plots[surfaceID]
	delete(r.plots, surfaceID)
	metrics.SetSurfaces(len(r.plots))
	return ok
}

func (r *Registry) Surfaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.plots))
	for id := range r.plots {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

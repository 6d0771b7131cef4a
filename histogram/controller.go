package histogram

import (
	"context"
	"fmt"

	"github.com/icodeforyou/histoplot-go/database"
	"github.com/icodeforyou/histoplot-go/gradient"
	"github.com/icodeforyou/histoplot-go/types/maybe"
)

type DatasetSource interface {
	GetDataset(ctx context.Context, name string) (database.DatasetRow, error)
}

// RenderRequest carries either the series itself or the name of a stored
// dataset. A missing bound falls back to the configured default range.
type RenderRequest struct {
	Surface     string               `json:"surface"`
	Dataset     string               `json:"dataset,omitempty"`
	Title       string               `json:"title,omitempty"`
	Values      []string             `json:"values,omitempty"`
	Labels      []string             `json:"labels,omitempty"`
	Intensities []float64            `json:"intensities,omitempty"`
	Min         maybe.Maybe[float64] `json:"min"`
	Max         maybe.Maybe[float64] `json:"max"`
}

// RecolorRequest recolors a surface. Original, in the "[0,5,10]" form, or
// Intensities replace the intensities retained from the render. A missing
// bound keeps the bound currently in use.
type RecolorRequest struct {
	Surface     string               `json:"surface"`
	Original    string               `json:"original,omitempty"`
	Intensities []float64            `json:"intensities,omitempty"`
	Min         maybe.Maybe[float64] `json:"min"`
	Max         maybe.Maybe[float64] `json:"max"`
}

// Controller resolves requests coming from the web page or the MQTT feed
// against a Registry.
type Controller struct {
	registry     *Registry
	datasets     DatasetSource
	defaultRange gradient.Range
}

func NewController(registry *Registry, datasets DatasetSource, defaultRange gradient.Range) *Controller {
	return &Controller{
		registry:     registry,
		datasets:     datasets,
		defaultRange: defaultRange,
	}
}

func (c *Controller) Registry() *Registry {
	return c.registry
}

func (c *Controller) DefaultRange() gradient.Range {
	return c.defaultRange
}

func (c *Controller) Render(ctx context.Context, req RenderRequest) (*Plot, error) {
	if req.Surface == "" {
		return nil, &ConfigurationError{Field: "surface", Index: -1, Reason: "missing"}
	}

	in := Input{
		Title:       req.Title,
		Values:      req.Values,
		Labels:      req.Labels,
		Intensities: req.Intensities,
	}
	if req.Dataset != "" {
		if c.datasets == nil {
			return nil, fmt.Errorf("no dataset store, can't load %s", req.Dataset)
		}
		ds, err := c.datasets.GetDataset(ctx, req.Dataset)
		if err != nil {
			return nil, fmt.Errorf("loading dataset: %w", err)
		}
		in = Input{
			Title:       ds.Title,
			Values:      ds.Values,
			Labels:      ds.Labels,
			Intensities: ds.Intensities,
		}
		if req.Title != "" {
			in.Title = req.Title
		}
	}

	r := gradient.Range{
		Min: req.Min.ValueOrDefault(c.defaultRange.Min),
		Max: req.Max.ValueOrDefault(c.defaultRange.Max),
	}
	return c.registry.Render(ctx, req.Surface, in, r)
}

func (c *Controller) Recolor(ctx context.Context, req RecolorRequest) (*Plot, error) {
	current := c.defaultRange
	if p, ok := c.registry.Get(req.Surface); ok {
		current = p.Range()
	}
	r := gradient.Range{
		Min: req.Min.ValueOrDefault(current.Min),
		Max: req.Max.ValueOrDefault(current.Max),
	}

	switch {
	case req.Original != "":
		intensities, err := gradient.ParseIntensities(req.Original)
		if err != nil {
			return nil, &ConfigurationError{Field: "original", Index: -1, Reason: err.Error()}
		}
		return c.registry.RecolorFrom(ctx, req.Surface, intensities, r)
	case req.Intensities != nil:
		return c.registry.RecolorFrom(ctx, req.Surface, req.Intensities, r)
	default:
		return c.registry.Recolor(ctx, req.Surface, r)
	}
}

package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"vizsynth/internal/model"
	"vizsynth/internal/roles"
)

// Container is the visual container written to the report.
type Container struct {
	Config  string  `json:"config"`
	Filters string  `json:"filters"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// NewContainer serializes cfg as the container's config string.
func NewContainer(cfg map[string]any, pos model.Position) (Container, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return Container{}, fmt.Errorf("failed to encode calendar config: %w", err)
	}
	return Container{
		Config:  string(raw),
		Filters: "[]",
		X:       pos.X,
		Y:       pos.Y,
		Z:       pos.Z,
		Width:   pos.Width,
		Height:  pos.Height,
	}, nil
}

// Inputs gathers the artifacts one calendar generation needs.
type Inputs struct {
	Visuals   []model.Visual
	Schema    model.Schema
	Positions []model.Position
	Reference string
}

type Result struct {
	Visual     model.Visual
	Resolution *roles.Resolution
	Mappings   Mappings
	Position   model.Position
	Container  Container
}

type Generator struct {
	engine *roles.Engine
	logger *slog.Logger
}

func NewGenerator(engine *roles.Engine, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Generator{engine: engine, logger: logger}
}

// Request converts a detected visual into a role resolution request.
func Request(v model.Visual, schema model.Schema) roles.Request {
	refs := v.Fields()
	fields := make([]roles.Field, 0, len(refs))
	for _, f := range refs {
		fields = append(fields, roles.Field{Name: f.Name, Table: f.Table})
	}
	return roles.Request{
		Fields:         fields,
		Schema:         schema,
		HierarchyHints: v.Hierarchy,
	}
}

// Generate finds the calendar visual, resolves its roles and applies them to
// the reference prototype.
func (g *Generator) Generate(ctx context.Context, in Inputs) (*Result, error) {
	visual, _, err := FindVisual(in.Visuals)
	if err != nil {
		return nil, err
	}
	g.logger.Info("calendar visual found",
		slog.String("title", visual.Title),
		slog.String("source", visual.Source),
		slog.String("chart_type", visual.ChartType),
	)

	title := visual.Title
	if title == "" {
		title = "Calendário"
	}
	pos, found := FindPosition(title, in.Positions)
	if !found {
		g.logger.Warn("no position for calendar, using defaults", slog.String("chart", title))
	}

	prototype, err := ExtractPrototype(in.Reference)
	if err != nil {
		return nil, err
	}

	res := g.engine.Resolve(ctx, Request(visual, in.Schema))
	mappings := MappingsFrom(res.Projection)

	cfg := Apply(prototype, mappings, pos)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	if !IsCalendarType(cfg) {
		g.logger.Warn("reference visual type does not look like a calendar")
	}

	container, err := NewContainer(cfg, pos)
	if err != nil {
		return nil, err
	}
	return &Result{
		Visual:     visual,
		Resolution: res,
		Mappings:   mappings,
		Position:   pos,
		Container:  container,
	}, nil
}

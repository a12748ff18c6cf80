// Package loader reads the intermediate artifacts a synthesis run consumes.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"vizsynth/internal/config"
	"vizsynth/internal/model"
)

// ErrMissingInput is returned when an input file does not exist.
var ErrMissingInput = errors.New("input missing")

// Files names each artifact relative to the loader's directory.
type Files struct {
	Visuals       string
	ReportVisuals string
	Schema        string
	Actions       string
	Positions     string
	Reference     string
}

// Loader resolves artifact files inside one working directory.
type Loader struct {
	dir   string
	files Files
}

func NewLoader(dir string, files Files) *Loader {
	if dir == "" {
		dir = "."
	}
	return &Loader{dir: dir, files: files}
}

// FromConfig builds a loader from the inputs section. A non-empty dir
// overrides the configured directory.
func FromConfig(cfg *config.Config, dir string) *Loader {
	if dir == "" {
		dir = cfg.Inputs.Dir
	}
	return NewLoader(dir, Files{
		Visuals:       cfg.Inputs.Visuals,
		ReportVisuals: cfg.Inputs.ReportVisuals,
		Schema:        cfg.Inputs.Schema,
		Actions:       cfg.Inputs.Actions,
		Positions:     cfg.Inputs.Positions,
		Reference:     cfg.Inputs.Reference,
	})
}

func (l *Loader) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(l.dir, name)
}

func (l *Loader) Visuals() ([]model.Visual, error) {
	var out []model.Visual
	if err := l.readJSON(l.files.Visuals, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Loader) ReportVisuals() ([]model.ReportVisual, error) {
	var out []model.ReportVisual
	if err := l.readJSON(l.files.ReportVisuals, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Loader) Schema() (model.Schema, error) {
	out := model.Schema{}
	if err := l.readJSON(l.files.Schema, &out); err != nil {
		return model.Schema{}, err
	}
	return out, nil
}

func (l *Loader) Actions() ([]model.Action, error) {
	var out []model.Action
	if err := l.readJSON(l.files.Actions, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Loader) Positions() ([]model.Position, error) {
	var out []model.Position
	if err := l.readJSON(l.files.Positions, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Reference returns the raw reference configuration text.
func (l *Loader) Reference() (string, error) {
	raw, err := l.read(l.files.Reference)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (l *Loader) readJSON(name string, v any) error {
	raw, err := l.read(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid JSON in %s: %w", l.Path(name), err)
	}
	return nil
}

func (l *Loader) read(name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: no file configured", ErrMissingInput)
	}
	path := l.Path(name)
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingInput, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return raw, nil
}

// Optional turns a missing-input error into nil so callers can treat the
// artifact as empty.
func Optional(err error) error {
	if errors.Is(err, ErrMissingInput) {
		return nil
	}
	return err
}

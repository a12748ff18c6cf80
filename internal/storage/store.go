package storage

import (
	"context"
	"time"

	"vizsynth/internal/roles"
)

// Store combines run history and classifier cache capabilities.
type Store interface {
	RunStore
	ClassificationCache
	Close() error
}

// Run is one recorded role resolution.
type Run struct {
	ID               string
	Command          string
	Visual           string
	ClassifierStatus roles.ClassifierStatus
	Assignment       roles.Assignment
	Unresolved       []roles.RoleKind
	HierarchyLevel   string
	OutputPath       string
	CreatedAt        time.Time
}

// RunStore persists resolution history.
type RunStore interface {
	// SaveRun inserts the run, assigning an ID and timestamp when missing.
	SaveRun(ctx context.Context, run *Run) error

	GetRun(ctx context.Context, id string) (*Run, error)

	// ListRuns returns the most recent runs first.
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
}

// ClassificationCache stores classifier answers by request hash.
type ClassificationCache interface {
	GetClassification(ctx context.Context, key string) (roles.SignalMap, bool, error)
	PutClassification(ctx context.Context, key string, signals roles.SignalMap) error
}

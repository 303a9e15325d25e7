// Package domain defines the types and interfaces for the lint runner
package domain

import (
	"context"
	"time"

	"taglint/internal/core/dispatch"
	"taglint/internal/core/feature"
)

// Source yields features one at a time and io.EOF at the end
type Source interface {
	Next() (feature.Feature, error)
	// Err returns the sticky stream error; nil when only the last feature was unusable
	Err() error
}

// Writer receives every defect of a run
type Writer interface {
	dispatch.Sink
	Open(ctx context.Context, dsts []dispatch.Destination) error
	Close(ctx context.Context) error
}

// RunnerPort runs one lint pass over a source
type RunnerPort interface {
	Run(ctx context.Context, src Source) (Summary, error)
}

// Summary reports what a run did
type Summary struct {
	RunID    string        `json:"run_id" yaml:"run_id"`
	Features int64         `json:"features" yaml:"features"`
	Defects  int64         `json:"defects" yaml:"defects"`
	Skipped  int64         `json:"skipped" yaml:"skipped"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Package module implements the lint runner module
package module

import (
	"context"

	"taglint/internal/adapters/ingest/geojson"
	"taglint/internal/core/rulepack"
	"taglint/internal/platform/logger"
	"taglint/internal/platform/metrics"
	dom "taglint/internal/services/lint/domain"
	"taglint/internal/services/lint/service"
)

// Deps are the collaborators the lint module is built from
type Deps struct {
	Writer  dom.Writer
	Metrics *metrics.Metrics
	Log     logger.Logger
}

// Ports exposed by the lint module
type Ports struct {
	Runner dom.RunnerPort
}

// Module implements the lint runner module
type Module struct {
	deps  Deps
	opts  Options
	svc   *service.Service
	ports Ports
}

var openInput = func(path string) (source, error) { return geojson.Open(path) }

type source interface {
	dom.Source
	Stats() (records int, features int64)
	Close() error
}

// New loads the classes pack and constructs the runner
func New(deps Deps, opts Options) (*Module, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	classes, err := LoadClasses(opts.ClassesFile)
	if err != nil {
		return nil, err
	}
	svc := service.New(classes, deps.Writer, deps.Metrics, service.Config{
		Input:         opts.Input,
		ProgressEvery: opts.ProgressEvery,
		SkipInvalid:   opts.SkipInvalid,
	})
	return &Module{deps: deps, opts: opts, svc: svc, ports: Ports{Runner: svc}}, nil
}

// LoadClasses returns the classes from path, or the embedded ones when path is empty
func LoadClasses(path string) (rulepack.Classes, error) {
	if path == "" {
		return rulepack.Load()
	}
	return rulepack.LoadFile(path)
}

// Name returns the module name
func (m *Module) Name() string { return "lint" }

// Ports returns the module ports
func (m *Module) Ports() Ports { return m.ports }

// Service returns the runner service
func (m *Module) Service() *service.Service { return m.svc }

// Run opens the configured input, lints it and exports metrics when configured
func (m *Module) Run(ctx context.Context) (dom.Summary, error) {
	src, err := openInput(m.opts.Input)
	if err != nil {
		return dom.Summary{}, err
	}
	defer func() {
		if err := src.Close(); err != nil {
			m.deps.Log.Warn().Err(err).Str("input", m.opts.Input).Msg("closing input")
		}
	}()

	sum, runErr := m.ports.Runner.Run(ctx, src)
	records, features := src.Stats()
	m.deps.Log.Info().
		Str("input", m.opts.Input).
		Int("records", records).
		Int64("features_read", features).
		Msg("input finished")
	if err := m.deps.Metrics.WriteFile(m.opts.MetricsFile); err != nil {
		if runErr == nil {
			return sum, err
		}
		m.deps.Log.Error().Err(err).Msg("writing metrics after failed run")
	}
	return sum, runErr
}

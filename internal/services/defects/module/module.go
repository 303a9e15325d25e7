// Package module implements the defects service module
package module

import (
	"context"
	"io"
	"os"

	perr "taglint/internal/platform/errors"
	"taglint/internal/platform/logger"
	"taglint/internal/platform/store"
	"taglint/internal/services/defects/repo"
	"taglint/internal/services/defects/service"
)

// Deps are the collaborators the defects module is built from
type Deps struct {
	// Store provides the pg or ch seam for database outputs
	Store *store.Store
	// Stdout receives ndjson output when no file is configured
	Stdout io.Writer
	Log    logger.Logger
}

// Ports exposed by the defects module
type Ports struct {
	Writer *service.Service
}

// Module implements the defects service module
type Module struct {
	deps  Deps
	opts  Options
	ports Ports
}

var createOutput = func(path string) (io.WriteCloser, error) { return os.Create(path) }

// New constructs the defects module for the configured output backend
func New(deps Deps, opts Options) (*Module, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	storage, err := storageFor(deps, opts)
	if err != nil {
		return nil, perr.WithOp(err, "defects.new")
	}
	svc := service.New(storage, service.Config{Prefix: opts.Prefix})

	deps.Log.Debug().Str("output", opts.Output).Str("prefix", opts.Prefix).Msg("defects module ready")
	return &Module{deps: deps, opts: opts, ports: Ports{Writer: svc}}, nil
}

func storageFor(deps Deps, opts Options) (repo.Storage, error) {
	switch opts.Output {
	case OutputGeoJSON:
		return repo.NewGeoJSON(opts.Dir), nil
	case OutputPG:
		if deps.Store == nil || deps.Store.PG == nil {
			return nil, perr.New(perr.ErrorCodeUnavailable, "pg output requires a postgres store")
		}
		return repo.NewPG(deps.Store.PG, opts.BatchSize), nil
	case OutputCH:
		if deps.Store == nil || deps.Store.CH == nil {
			return nil, perr.New(perr.ErrorCodeUnavailable, "ch output requires a clickhouse store")
		}
		return repo.NewCH(deps.Store.CH, opts.BatchSize), nil
	default:
		if opts.File == "" || opts.File == "-" {
			w := deps.Stdout
			if w == nil {
				w = os.Stdout
			}
			// stdout is not ours to close
			return repo.NewNDJSON(struct{ io.Writer }{w}), nil
		}
		f, err := createOutput(opts.File)
		if err != nil {
			return nil, perr.WithField(perr.Wrapf(err, perr.ErrorCodeIO, "create %s", opts.File), "TAGLINT_OUTPUT_FILE")
		}
		return repo.NewNDJSON(f), nil
	}
}

// Name returns the module name
func (m *Module) Name() string { return "defects" }

// Ports returns the module ports
func (m *Module) Ports() Ports { return m.ports }

// Options returns the options the module was built with
func (m *Module) Options() Options { return m.opts }

// Close flushes and closes the writer
func (m *Module) Close(ctx context.Context) error { return m.ports.Writer.Close(ctx) }

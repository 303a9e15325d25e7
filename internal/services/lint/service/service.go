// Package service implements the lint runner
package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"taglint/internal/core/checker"
	"taglint/internal/core/dispatch"
	"taglint/internal/core/rulepack"
	perr "taglint/internal/platform/errors"
	"taglint/internal/platform/logger"
	"taglint/internal/platform/metrics"
	"taglint/internal/platform/store"
	dom "taglint/internal/services/lint/domain"
)

// Config for the lint runner
type Config struct {
	// Input labels the run in logs
	Input string
	// ProgressEvery logs a progress line every n features, 0 disables
	ProgressEvery int64
	// SkipInvalid skips features that cannot be checked instead of aborting
	SkipInvalid bool
}

// Service implements domain.RunnerPort; Run must not be called concurrently
type Service struct {
	Out     dom.Writer
	Metrics *metrics.Metrics
	Cfg     Config

	disp *dispatch.Dispatcher
	sum  dom.Summary
}

var newRunID = uuid.NewString

var _ dom.RunnerPort = (*Service)(nil)

// New constructs the runner over a classes pack and a defect writer
func New(classes rulepack.Classes, out dom.Writer, m *metrics.Metrics, cfg Config) *Service {
	if out == nil {
		panic("lint: nil writer")
	}
	if cfg.ProgressEvery < 0 {
		cfg.ProgressEvery = 0
	}
	s := &Service{Out: out, Metrics: m, Cfg: cfg}
	s.disp = dispatch.New(classes, dispatch.SinkFunc(s.write))
	return s
}

// Dispatcher exposes the dispatcher the runner feeds
func (s *Service) Dispatcher() *dispatch.Dispatcher { return s.disp }

func (s *Service) write(ctx context.Context, d checker.Defect) error {
	if err := s.Out.Write(ctx, d); err != nil {
		return err
	}
	s.sum.Defects++
	s.Metrics.IncDefect(d.Class, d.Category)
	return nil
}

// Run implements domain.RunnerPort
// pending output is flushed even when the run fails or ctx is canceled
func (s *Service) Run(ctx context.Context, src dom.Source) (dom.Summary, error) {
	id := newRunID()
	s.sum = dom.Summary{RunID: id}
	ctx = store.WithRunID(logger.WithRun(ctx, id, s.Cfg.Input), id)
	log := logger.C(ctx)
	start := time.Now()

	if err := s.Out.Open(ctx, s.disp.Destinations()); err != nil {
		return s.sum, perr.WithOp(err, "lint.open")
	}
	log.Info().Int("destinations", len(s.disp.Destinations())).Msg("lint run started")

	runErr := s.loop(ctx, src, log)
	closeErr := s.Out.Close(context.WithoutCancel(ctx))

	s.sum.Duration = time.Since(start)
	s.Metrics.ObserveRun(s.sum.Duration)

	ev := log.Info()
	if runErr != nil {
		ev = log.Error().Err(runErr)
	}
	ev.Int64("features", s.sum.Features).
		Int64("defects", s.sum.Defects).
		Int64("skipped", s.sum.Skipped).
		Dur("took", s.sum.Duration).
		Msg("lint run finished")

	if runErr != nil {
		if closeErr != nil {
			log.Error().Err(closeErr).Msg("closing output after failed run")
		}
		return s.sum, runErr
	}
	if closeErr != nil {
		return s.sum, perr.WithOp(closeErr, "lint.close")
	}
	return s.sum, nil
}

func (s *Service) loop(ctx context.Context, src dom.Source, log *logger.Logger) error {
	for {
		if err := ctx.Err(); err != nil {
			return perr.Context(err)
		}
		f, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if src.Err() != nil || !s.Cfg.SkipInvalid {
				return perr.WithOp(err, "lint.read")
			}
			s.skip(log, err)
			continue
		}

		s.sum.Features++
		s.Metrics.IncFeature(f.Kind.String())
		if err := s.disp.Dispatch(ctx, f); err != nil {
			if !s.Cfg.SkipInvalid || !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
				return err
			}
			s.skip(log, err)
			continue
		}

		if s.Cfg.ProgressEvery > 0 && s.sum.Features%s.Cfg.ProgressEvery == 0 {
			log.Info().Int64("features", s.sum.Features).Int64("defects", s.sum.Defects).Msg("progress")
		}
	}
}

func (s *Service) skip(log *logger.Logger, err error) {
	s.sum.Skipped++
	s.Metrics.IncSkipped(err)
	ev := log.Warn().Err(err).Str("code", perr.CodeOf(err).String())
	if e, ok := perr.As(err); ok && e.Field() != "" {
		ev = ev.Str("field", e.Field())
	}
	ev.Msg("feature skipped")
}

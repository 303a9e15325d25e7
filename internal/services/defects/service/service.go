// Package service turns checker defects into persisted records
package service

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"taglint/internal/core/checker"
	"taglint/internal/core/dispatch"
	"taglint/internal/core/normalize"
	"taglint/internal/platform/store"
	dom "taglint/internal/services/defects/domain"
	"taglint/internal/services/defects/repo"
)

// Config for the defects service
type Config struct {
	// Prefix is prepended to every destination name
	Prefix string
}

// Service implements dispatch.Sink over a repo.Storage
type Service struct {
	Storage repo.Storage
	Cfg     Config

	mu     sync.Mutex
	counts map[string]int
}

// New constructs a new defects service with a required storage backend
func New(storage repo.Storage, cfg Config) *Service {
	if storage == nil {
		panic("defects: nil storage")
	}
	return &Service{Storage: storage, Cfg: cfg, counts: map[string]int{}}
}

var _ dispatch.Sink = (*Service)(nil)

// Destination names the storage destination of a dispatch destination
func (s *Service) Destination(d dispatch.Destination) dom.Destination {
	return dom.Destination{Name: s.Cfg.Prefix + d.Name(), Column: column(d.FocusKey)}
}

// Open prepares every destination the dispatcher can produce
func (s *Service) Open(ctx context.Context, dsts []dispatch.Destination) error {
	out := make([]dom.Destination, 0, len(dsts))
	for _, d := range dsts {
		out = append(out, s.Destination(d))
	}
	return s.Storage.Open(ctx, out)
}

// Write implements dispatch.Sink
func (s *Service) Write(ctx context.Context, d checker.Defect) error {
	r := s.Record(ctx, d)
	if err := s.Storage.Write(ctx, r); err != nil {
		return err
	}
	s.mu.Lock()
	s.counts[r.Destination]++
	s.mu.Unlock()
	return nil
}

// Close flushes and closes the storage backend
func (s *Service) Close(ctx context.Context) error { return s.Storage.Close(ctx) }

// Counts returns the number of records written per destination
func (s *Service) Counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

// Record converts a defect into its persisted form
// tagging records carry the offending key=value pair in their focus column
func (s *Service) Record(ctx context.Context, d checker.Defect) dom.Record {
	dst := s.Destination(dispatch.DestinationOf(d))
	r := dom.Record{
		Destination: dst.Name,
		FeatureID:   strconv.FormatInt(d.FeatureID, 10),
		Kind:        d.Kind.String(),
		Column:      dst.Column,
		Tags:        normalize.Sanitize(d.OtherTags),
		Geometry:    d.Geometry,
	}
	if id, ok := store.RunID(ctx); ok {
		r.RunID = id
	}
	if d.FocusValue != nil {
		v := *d.FocusValue
		if d.Class == checker.TaggingClass {
			v = d.FocusKey + "=" + v
		}
		r.Focus = normalize.SanitizePtr(&v)
	}
	return r
}

// column maps a tag key onto a column name, e.g. addr:street becomes addr_street
func column(key string) string {
	if key == "" {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + 'a' - 'A')
		default:
			b.WriteByte('_')
		}
	}
	col := b.String()
	if dom.Reserved(col) || col[0] >= '0' && col[0] <= '9' {
		col = "v_" + col
	}
	return col
}

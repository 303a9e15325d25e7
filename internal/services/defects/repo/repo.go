// Package repo provides the defect record writers, one per output backend
package repo

import (
	"context"

	perr "taglint/internal/platform/errors"
	"taglint/internal/services/defects/domain"
)

// Storage defines the defects repository
type Storage interface {
	domain.WriterPort
}

var (
	_ Storage = (*NDJSON)(nil)
	_ Storage = (*GeoJSON)(nil)
	_ Storage = (*PG)(nil)
	_ Storage = (*CH)(nil)
)

// validate rejects names that cannot be used as file or table identifiers
func validate(dsts []domain.Destination) (map[string]domain.Destination, error) {
	out := make(map[string]domain.Destination, len(dsts))
	for _, d := range dsts {
		if !domain.ValidName(d.Name) {
			return nil, perr.WithField(perr.Validationf("invalid destination name %q", d.Name), "destination")
		}
		if d.Column != "" && (!domain.ValidName(d.Column) || domain.Reserved(d.Column)) {
			return nil, perr.WithField(perr.Validationf("invalid focus column %q for %s", d.Column, d.Name), "column")
		}
		if _, dup := out[d.Name]; dup {
			return nil, perr.WithField(perr.Validationf("duplicate destination %q", d.Name), "destination")
		}
		out[d.Name] = d
	}
	return out, nil
}

func unknown(name string) error {
	return perr.WithField(perr.NotFoundf("unknown destination %q", name), "destination")
}

// batcher buffers records per destination and hands full batches to flush
type batcher struct {
	size  int
	dsts  map[string]domain.Destination
	order []string
	buf   map[string][]domain.Record
	flush func(ctx context.Context, dst domain.Destination, rs []domain.Record) error
}

func newBatcher(size int, flush func(context.Context, domain.Destination, []domain.Record) error) *batcher {
	switch {
	case size <= 0:
		size = DefaultBatchSize
	case size > MaxBatchSize:
		size = MaxBatchSize
	}
	return &batcher{size: size, flush: flush, buf: map[string][]domain.Record{}}
}

// DefaultBatchSize is the number of rows per insert statement when none is configured
const DefaultBatchSize = 500

// MaxBatchSize keeps one multi row insert under the postgres limit of 65535 bind parameters
const MaxBatchSize = 10000

func (b *batcher) open(dsts []domain.Destination) error {
	m, err := validate(dsts)
	if err != nil {
		return err
	}
	b.dsts = m
	b.order = b.order[:0]
	for _, d := range dsts {
		b.order = append(b.order, d.Name)
	}
	return nil
}

func (b *batcher) add(ctx context.Context, r domain.Record) error {
	dst, ok := b.dsts[r.Destination]
	if !ok {
		return unknown(r.Destination)
	}
	rs := append(b.buf[r.Destination], r)
	if len(rs) < b.size {
		b.buf[r.Destination] = rs
		return nil
	}
	delete(b.buf, r.Destination)
	return b.flush(ctx, dst, rs)
}

// drain flushes every pending batch in destination order
func (b *batcher) drain(ctx context.Context) error {
	for _, name := range b.order {
		rs := b.buf[name]
		if len(rs) == 0 {
			continue
		}
		delete(b.buf, name)
		if err := b.flush(ctx, b.dsts[name], rs); err != nil {
			return err
		}
	}
	return nil
}

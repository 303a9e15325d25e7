package repo

import (
	"bufio"
	"context"
	"io"

	"github.com/paulmach/orb/geojson"

	perr "taglint/internal/platform/errors"
	"taglint/internal/platform/jsonx"
	"taglint/internal/services/defects/domain"
)

// NDJSON writes one JSON object per record
type NDJSON struct {
	bw   *bufio.Writer
	c    io.Closer
	enc  interface{ Encode(any) error }
	dsts map[string]domain.Destination
}

// NewNDJSON writes to w; w is closed on Close when it is an io.Closer
func NewNDJSON(w io.Writer) *NDJSON {
	bw := bufio.NewWriterSize(w, 64<<10)
	n := &NDJSON{bw: bw, enc: jsonx.NewEncoder(bw)}
	if c, ok := w.(io.Closer); ok {
		n.c = c
	}
	return n
}

// Open implements Storage
func (n *NDJSON) Open(_ context.Context, dsts []domain.Destination) error {
	m, err := validate(dsts)
	if err != nil {
		return err
	}
	n.dsts = m
	return nil
}

// Write implements Storage
func (n *NDJSON) Write(_ context.Context, r domain.Record) error {
	if _, ok := n.dsts[r.Destination]; !ok {
		return unknown(r.Destination)
	}
	line := properties(r)
	line["destination"] = r.Destination
	if r.Geometry != nil {
		line["geometry"] = geojson.NewGeometry(r.Geometry)
	}
	if err := n.enc.Encode(line); err != nil {
		return perr.Wrap(err, perr.ErrorCodeIO, "encode record")
	}
	return nil
}

// Close implements Storage
func (n *NDJSON) Close(context.Context) error {
	if err := n.bw.Flush(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeIO, "flush records")
	}
	if n.c != nil {
		return perr.WrapIf(n.c.Close(), perr.ErrorCodeIO, "close output")
	}
	return nil
}

// properties renders the record fields shared by the json backends
func properties(r domain.Record) map[string]any {
	p := map[string]any{
		domain.ColFeatureID: r.FeatureID,
		domain.ColKind:      r.Kind,
		domain.ColTags:      r.Tags,
	}
	if r.RunID != "" {
		p[domain.ColRunID] = r.RunID
	}
	if r.Column != "" {
		if r.Focus != nil {
			p[r.Column] = *r.Focus
		} else {
			p[r.Column] = nil
		}
	}
	return p
}

package repo

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/paulmach/orb/geojson"

	perr "taglint/internal/platform/errors"
	"taglint/internal/platform/jsonx"
	"taglint/internal/services/defects/domain"
)

const (
	fcHeader  = `{"type":"FeatureCollection","features":[` + "\n"
	fcTrailer = "\n]}\n"
)

// GeoJSON streams one FeatureCollection file per destination into a directory
type GeoJSON struct {
	dir   string
	files map[string]*collection
	order []string
}

type collection struct {
	f  io.WriteCloser
	bw *bufio.Writer
	n  int
}

var createFile = func(path string) (io.WriteCloser, error) { return os.Create(path) }

// NewGeoJSON writes <dir>/<destination>.geojson files
func NewGeoJSON(dir string) *GeoJSON {
	return &GeoJSON{dir: dir, files: map[string]*collection{}}
}

// Path returns the file a destination is written to
func (g *GeoJSON) Path(name string) string { return filepath.Join(g.dir, name+".geojson") }

// Open implements Storage; every destination gets a file, empty collections included
func (g *GeoJSON) Open(_ context.Context, dsts []domain.Destination) error {
	if _, err := validate(dsts); err != nil {
		return err
	}
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return perr.WithOp(perr.Wrap(err, perr.ErrorCodeIO, "create output dir"), "geojson.open")
	}
	for _, d := range dsts {
		f, err := createFile(g.Path(d.Name))
		if err != nil {
			_ = g.Close(context.Background())
			return perr.WithOp(perr.Wrapf(err, perr.ErrorCodeIO, "create %s", d.Name), "geojson.open")
		}
		c := &collection{f: f, bw: bufio.NewWriter(f)}
		if _, err := c.bw.WriteString(fcHeader); err != nil {
			_ = f.Close()
			_ = g.Close(context.Background())
			return perr.Wrapf(err, perr.ErrorCodeIO, "write %s", d.Name)
		}
		g.files[d.Name] = c
		g.order = append(g.order, d.Name)
	}
	return nil
}

// Write implements Storage
func (g *GeoJSON) Write(_ context.Context, r domain.Record) error {
	c, ok := g.files[r.Destination]
	if !ok {
		return unknown(r.Destination)
	}
	f := geojson.NewFeature(r.Geometry)
	f.ID = r.FeatureID
	f.Properties = properties(r)
	b, err := jsonx.Marshal(f)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode feature")
	}
	if c.n > 0 {
		if _, err := c.bw.WriteString(",\n"); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeIO, "write %s", r.Destination)
		}
	}
	if _, err := c.bw.Write(b); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "write %s", r.Destination)
	}
	c.n++
	return nil
}

// Close implements Storage; it terminates and closes every open collection
func (g *GeoJSON) Close(context.Context) error {
	var errs []error
	for _, name := range g.order {
		c := g.files[name]
		if _, err := c.bw.WriteString(fcTrailer); err != nil {
			errs = append(errs, err)
		} else if err := c.bw.Flush(); err != nil {
			errs = append(errs, err)
		}
		if err := c.f.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(g.files, name)
	}
	g.order = nil
	return perr.WrapIf(errors.Join(errs...), perr.ErrorCodeIO, "close geojson output")
}

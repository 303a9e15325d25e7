package geojson

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
	"os"

	"taglint/internal/core/feature"
	perr "taglint/internal/platform/errors"
	"taglint/internal/platform/jsonx"
	"taglint/internal/platform/logger"

	"github.com/goccy/go-json"
	ogeo "github.com/paulmach/orb/geojson"
)

const readBufferSize = 256 * 1024

// Stdin is the path naming standard input
const Stdin = "-"

// Reader yields features from a GeoJSON stream
type Reader struct {
	src   io.Closer
	gz    *gzip.Reader
	dec   *json.Decoder
	queue []*ogeo.Feature
	err   error

	records  int   // top-level JSON values decoded
	features int64 // features handed out, also the ordinal used for features without an id
}

var stdin io.ReadCloser = os.Stdin

// Open opens path ("-" or "" for stdin) for reading
func Open(path string) (*Reader, error) {
	if path == "" || path == Stdin {
		return NewReader(io.NopCloser(stdin))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeIO, "open %s", path), "geojson.open")
	}
	return NewReader(f)
}

// NewReader wraps r; r is closed by Close
func NewReader(r io.ReadCloser) (*Reader, error) {
	br := bufio.NewReaderSize(r, readBufferSize)
	rd := &Reader{src: r}

	magic, err := br.Peek(2)
	if err != nil && !errors.Is(err, io.EOF) {
		_ = r.Close()
		return nil, perr.Wrap(err, perr.ErrorCodeIO, "geojson: read header")
	}
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			_ = r.Close()
			return nil, perr.Wrap(err, perr.ErrorCodeIO, "geojson: gzip header")
		}
		rd.gz = gz
		rd.dec = jsonx.NewDecoder(gz)
	} else {
		rd.dec = jsonx.NewDecoder(br)
	}
	return rd, nil
}

// Next returns the next feature, or io.EOF when the stream is exhausted.
// Stream errors (bad JSON, I/O) are sticky; errors converting a single feature are not,
// so callers may skip that feature and keep reading
func (rd *Reader) Next() (feature.Feature, error) {
	if rd.err != nil {
		return feature.Feature{}, rd.err
	}
	for len(rd.queue) == 0 {
		if err := rd.fill(); err != nil {
			rd.err = err
			return feature.Feature{}, err
		}
	}
	gf := rd.queue[0]
	rd.queue[0] = nil
	rd.queue = rd.queue[1:]
	rd.features++
	return Convert(gf, rd.features)
}

// fill decodes the next top-level value into the queue
func (rd *Reader) fill() error {
	var raw jsonx.RawMessage
	if err := rd.dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return perr.Wrapf(err, perr.ErrorCodeJSON, "geojson: record %d", rd.records+1)
	}
	rd.records++

	var head struct {
		Type string `json:"type"`
	}
	if err := jsonx.Unmarshal(raw, &head); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "geojson: record %d is not an object", rd.records)
	}

	switch head.Type {
	case "FeatureCollection":
		fc, err := ogeo.UnmarshalFeatureCollection(raw)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeJSON, "geojson: record %d", rd.records)
		}
		rd.queue = fc.Features
		logger.Named("geojson").Debug().Int("features", len(fc.Features)).Msg("feature collection loaded")
	case "Feature":
		f, err := ogeo.UnmarshalFeature(raw)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeJSON, "geojson: record %d", rd.records)
		}
		rd.queue = append(rd.queue, f)
	default:
		return perr.Newf(perr.ErrorCodeInvalidArgument, "geojson: record %d has unsupported type %q", rd.records, head.Type)
	}
	return nil
}

// Err returns the sticky stream error, nil while the stream is still readable
// An io.EOF end of stream is not reported
func (rd *Reader) Err() error {
	if errors.Is(rd.err, io.EOF) {
		return nil
	}
	return rd.err
}

// Stats returns the number of top-level records decoded and features handed out
func (rd *Reader) Stats() (records int, features int64) {
	return rd.records, rd.features
}

// Close closes the gzip stream and the underlying reader
func (rd *Reader) Close() error {
	var first error
	if rd.gz != nil {
		if err := rd.gz.Close(); err != nil {
			first = err
		}
	}
	if rd.src != nil {
		if err := rd.src.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

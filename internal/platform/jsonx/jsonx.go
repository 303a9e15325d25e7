// Package jsonx is the project JSON codec; it wraps goccy/go-json and installs it as the
// codec behind orb's geojson types so features decode and encode through one library
package jsonx

import (
	"io"

	"github.com/goccy/go-json"
	"github.com/paulmach/orb/geojson"
)

// RawMessage is a raw encoded JSON value
type RawMessage = json.RawMessage

// Marshal encodes v
func Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes data into v
func Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// NewDecoder returns a streaming decoder over r
func NewDecoder(r io.Reader) *json.Decoder { return json.NewDecoder(r) }

// NewEncoder returns an encoder writing one value per line to w, HTML escaping off
func NewEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc
}

type codec struct{}

func (codec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (codec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func init() {
	geojson.CustomJSONMarshaler = codec{}
	geojson.CustomJSONUnmarshaler = codec{}
}

package geojson

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"taglint/internal/core/feature"
	perr "taglint/internal/platform/errors"
	"taglint/internal/platform/jsonx"

	"github.com/paulmach/orb"
	ogeo "github.com/paulmach/orb/geojson"
)

// idProperties carry the feature id in common exports (overpass, osm2pgsql) and are not tags
var idProperties = []string{"@id", "osm_id"}

// KindOf maps a geometry onto a feature kind
func KindOf(g orb.Geometry) (feature.Kind, bool) {
	switch g.(type) {
	case orb.Point, orb.MultiPoint:
		return feature.KindPoint, true
	case orb.LineString, orb.MultiLineString:
		return feature.KindLine, true
	case orb.Polygon, orb.MultiPolygon:
		return feature.KindArea, true
	}
	return 0, false
}

// Convert turns a decoded GeoJSON feature into a Feature; ordinal is used when it has no id
func Convert(gf *ogeo.Feature, ordinal int64) (feature.Feature, error) {
	kind, ok := KindOf(gf.Geometry)
	if !ok {
		return feature.Feature{}, perr.Newf(perr.ErrorCodeInvalidArgument,
			"geojson: feature %d has unsupported geometry %s", ordinal, geometryType(gf.Geometry))
	}

	id, ok := parseID(gf.ID)
	for _, p := range idProperties {
		if ok {
			break
		}
		id, ok = parseID(gf.Properties[p])
	}
	if !ok {
		id = ordinal
	}

	tags := make(feature.Tags, 0, len(gf.Properties))
	for k, v := range gf.Properties {
		if isIDProperty(k) {
			continue
		}
		s, ok := renderValue(v)
		if !ok {
			return feature.Feature{}, perr.WithField(perr.Newf(perr.ErrorCodeInvalidArgument,
				"geojson: feature %d has a null or unencodable property", id), k)
		}
		tags = append(tags, feature.Tag{Key: k, Value: s})
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Key < tags[j].Key })

	return feature.Feature{ID: id, Kind: kind, Tags: tags, Geometry: gf.Geometry}, nil
}

func isIDProperty(k string) bool {
	for _, p := range idProperties {
		if k == p {
			return true
		}
	}
	return false
}

// idPrefixes are the OSM type prefixes accepted in front of a numeric id
var idPrefixes = []string{"node/", "way/", "relation/", "area/", "n", "w", "r", "a"}

// parseID accepts integral numbers, numeric strings and OSM typed forms like n123 or way/123
func parseID(v any) (int64, bool) {
	switch x := v.(type) {
	case float64:
		if x != math.Trunc(x) || math.Abs(x) >= 1<<53 {
			return 0, false
		}
		return int64(x), true
	case int64:
		return x, true
	case string:
		s := strings.TrimSpace(x)
		for _, p := range idPrefixes {
			if rest, ok := strings.CutPrefix(s, p); ok && rest != "" && isDigits(rest) {
				s = rest
				break
			}
		}
		n, err := strconv.ParseInt(s, 10, 64)
		return n, err == nil
	}
	return 0, false
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// renderValue renders a property value as tag text; null has no tag form
func renderValue(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	default:
		b, err := jsonx.Marshal(x)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}

func geometryType(g orb.Geometry) string {
	if g == nil {
		return "null"
	}
	return g.GeoJSONType()
}

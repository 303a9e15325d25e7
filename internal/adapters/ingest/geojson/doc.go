// Package geojson streams features out of GeoJSON input
//
// Input is either one FeatureCollection, or a stream of Feature objects (newline-delimited or
// concatenated), optionally gzip-compressed. Gzip is sniffed from the magic bytes, not the name.
// Features of a FeatureCollection are held in memory; line-delimited input is read one record at
// a time. Property order is not preserved by GeoJSON, so tags come out sorted by key.
package geojson

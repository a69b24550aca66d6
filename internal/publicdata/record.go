// Package publicdata provides read access to the three externally hosted
// reference pools (restaurants, recipients, food banks). Each pool is a
// CSV object in a public bucket; every call fetches a fresh snapshot over
// HTTP and parses it in memory, so two calls may return equivalent but
// distinct values (no caching contract).
//
// Fetch or parse failures surface as ErrUpstreamUnavailable. The package
// never retries internally; the caller decides whether to abort or
// propagate.
package publicdata

import (
	"strconv"
	"strings"

	"github.com/foodbridge/go-donation-backend/internal/geo"
)

// Record is one row of a reference pool. The same shape serves all three
// pools: an opaque id plus name/address/contact and optional coordinates.
type Record struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Phone     string  `json:"phone_number"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	// HasCoords is false when the source row had blank or unparseable
	// coordinates; such records rank last in proximity queries.
	HasCoords bool `json:"-"`
}

// Coordinates implements geo.Located.
func (r Record) Coordinates() (geo.Point, bool) {
	if !r.HasCoords {
		return geo.Point{}, false
	}
	return geo.Point{Lat: r.Latitude, Lng: r.Longitude}, true
}

// recordFromRow builds a Record from a parsed CSV row keyed by header
// name. Quotes and surrounding whitespace are stripped from every field;
// coordinates are optional.
func recordFromRow(row map[string]string) Record {
	rec := Record{
		ID:      cleanField(row["id"]),
		Name:    cleanField(row["name"]),
		Address: cleanField(row["address"]),
		Phone:   cleanField(row["phone_number"]),
	}
	lat, okLat := parseCoord(row["latitude"])
	lng, okLng := parseCoord(row["longitude"])
	if okLat && okLng {
		rec.Latitude, rec.Longitude = lat, lng
		rec.HasCoords = true
	}
	return rec
}

// cleanField strips stray quotes and whitespace that show up in the
// upstream exports.
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

func parseCoord(s string) (float64, bool) {
	s = cleanField(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

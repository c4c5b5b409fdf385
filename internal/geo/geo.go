// Package geo converts coordinates into the opaque location code ("uule")
// that the Google Jobs search provider expects.
package geo

import (
	"encoding/base64"
	"fmt"
	"time"
)

// latLngTemplate is the textual proto accepted by the provider for
// coordinate-based location targeting. Coordinates are fixed-point with
// seven decimal places (the "e7" encoding).
const latLngTemplate = `role:1
producer:12
provenance:6
timestamp:%d
latlng{
latitude_e7:%d
longitude_e7:%d
}
radius:-1`

// Converter produces provider location codes from coordinates.
type Converter interface {
	Convert(lat, lon float64) string
}

// UULEConverter encodes coordinates into the "a+<base64>" uule form.
type UULEConverter struct {
	// now is swappable for deterministic tests.
	now func() time.Time
}

// NewUULEConverter returns a Converter using the wall clock.
func NewUULEConverter() *UULEConverter {
	return &UULEConverter{now: time.Now}
}

// Convert encodes (lat, lon) as a uule location code.
func (c *UULEConverter) Convert(lat, lon float64) string {
	ts := c.now().UnixMicro()
	payload := fmt.Sprintf(latLngTemplate, ts, int64(lat*1e7), int64(lon*1e7))
	return "a+" + base64.URLEncoding.EncodeToString([]byte(payload))
}

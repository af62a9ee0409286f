package domain

import (
	"fmt"
	"math"
)

// Immutable geographic coordinates (longitude, latitude) in degrees.
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Validate reports ErrInvalidCoordinate when latitude or longitude is outside
// its valid range or not a finite number.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]: %w", c.Lat, ErrInvalidCoordinate)
	}
	if math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) || c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]: %w", c.Lon, ErrInvalidCoordinate)
	}
	return nil
}

// Key is a stable textual form used for cache keys and canonical pair ordering.
// Six decimals is roughly 0.1 m of precision.
func (c Coordinates) Key() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}

// internal/domain/geo/model.go

package geo

// Venue is a named point with a detection radius. Venue lists are loaded
// once at startup and never mutated.
type Venue struct {
	Name         string  `toml:"name" json:"name"`
	Latitude     float64 `toml:"latitude" json:"latitude"`
	Longitude    float64 `toml:"longitude" json:"longitude"`
	RadiusMeters float64 `toml:"radius_meters" json:"radius_meters"`
}

// ProximityMode selects the feed filtering radius
type ProximityMode string

const (
	ModeGlobal ProximityMode = "global"
	ModeLocal  ProximityMode = "local"
)

const (
	// GlobalRadiusMeters is effectively unbounded
	GlobalRadiusMeters = 50_000_000.0
	// LocalRadiusMeters keeps only posts from the viewer's immediate spot
	LocalRadiusMeters = 25.0
)

// ParseProximityMode maps a token to a mode; anything but "local" is global
func ParseProximityMode(s string) ProximityMode {
	if ProximityMode(s) == ModeLocal {
		return ModeLocal
	}
	return ModeGlobal
}

// Radius returns the filtering radius in meters for the mode
func (m ProximityMode) Radius() float64 {
	if m == ModeLocal {
		return LocalRadiusMeters
	}
	return GlobalRadiusMeters
}

// Package model defines the domain types shared across the housing
// estimation service: county reference summaries, the model feature
// schema, and the map-rendering companions.
package model

// CountySummary is one row of the reference data store: per-county
// medians of the underlying housing records, the most frequent ocean
// proximity, precomputed density ratios, and the boundary geometry.
type CountySummary struct {
	Name                   string  `json:"name"`
	Longitude              float64 `json:"longitude"`
	Latitude               float64 `json:"latitude"`
	TotalRooms             float64 `json:"total_rooms"`
	TotalBedrooms          float64 `json:"total_bedrooms"`
	Population             float64 `json:"population"`
	Households             float64 `json:"households"`
	OceanProximity         string  `json:"ocean_proximity"`
	RoomsPerHousehold      float64 `json:"rooms_per_household"`
	BedroomsPerRooms       float64 `json:"bedrooms_per_rooms"`
	PopulationPerHousehold float64 `json:"population_per_household"`

	// Geometry holds the county boundary as EWKB (Polygon or
	// MultiPolygon, SRID 4326). Empty for counties loaded without
	// boundary data.
	Geometry []byte `json:"-"`
}

// Ring is one closed boundary ring as [x, y] coordinate pairs.
type Ring [][2]float64

// Boundary is the renderable form of a county geometry: one or more
// counter-clockwise exterior rings, MultiPolygons already exploded.
type Boundary struct {
	Name  string `json:"name"`
	Rings []Ring `json:"rings"`
}

// ViewState centers the map on the selected county. Zoom levels match
// the deployed map widget configuration.
type ViewState struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      int     `json:"zoom"`
	MinZoom   int     `json:"min_zoom"`
	MaxZoom   int     `json:"max_zoom"`
}

// DefaultViewState returns the view state for a county point location.
func DefaultViewState(lat, lng float64) ViewState {
	return ViewState{
		Latitude:  lat,
		Longitude: lng,
		Zoom:      5,
		MinZoom:   5,
		MaxZoom:   15,
	}
}

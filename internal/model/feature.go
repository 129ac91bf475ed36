package model

// FeatureRecord is the single-row, fixed-schema input the trained
// regressor consumes. Field order mirrors the columns the model was
// trained on; reordering or renaming a field is a schema break.
type FeatureRecord struct {
	Longitude              float64 `json:"longitude"`
	Latitude               float64 `json:"latitude"`
	HousingMedianAge       int     `json:"housing_median_age"`
	TotalRooms             float64 `json:"total_rooms"`
	TotalBedrooms          float64 `json:"total_bedrooms"`
	Population             float64 `json:"population"`
	Households             float64 `json:"households"`
	MedianIncome           float64 `json:"median_income"`
	OceanProximity         string  `json:"ocean_proximity"`
	MedianIncomeCat        int     `json:"median_income_cat"`
	RoomsPerHousehold      float64 `json:"rooms_per_household"`
	BedroomsPerRooms       float64 `json:"bedrooms_per_rooms"`
	PopulationPerHousehold float64 `json:"population_per_household"`
}

// featureColumns is the trained model's column order.
var featureColumns = []string{
	"longitude",
	"latitude",
	"housing_median_age",
	"total_rooms",
	"total_bedrooms",
	"population",
	"households",
	"median_income",
	"ocean_proximity",
	"median_income_cat",
	"rooms_per_household",
	"bedrooms_per_rooms",
	"population_per_household",
}

// FeatureColumns returns the model's expected column names in order.
func FeatureColumns() []string {
	out := make([]string, len(featureColumns))
	copy(out, featureColumns)
	return out
}

// CountyContext carries the presentation companions for a prediction:
// the county's representative point and its boundary rings. It is not
// part of the model schema.
type CountyContext struct {
	Name      string    `json:"name"`
	Longitude float64   `json:"longitude"`
	Latitude  float64   `json:"latitude"`
	Boundary  Boundary  `json:"boundary"`
	ViewState ViewState `json:"view_state"`
}

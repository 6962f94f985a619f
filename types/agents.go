package types

// Request fields are pointers so a missing field can be told apart from an empty one.

type NERRequest struct {
	Text *string `json:"text"`
}

type NERResponse struct {
	Locations []string `json:"locations"`
}

type ExifRequest struct {
	ImageURL *string `json:"image_url"`
}

// GPS is a coordinate pair in decimal degrees.
type GPS struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ExifResponse carries a nil GPS when the image has no usable location.
type ExifResponse struct {
	GPS   *GPS   `json:"gps"`
	Error string `json:"error,omitempty"`
}

type GISRequest struct {
	LocationName *string `json:"location_name"`
}

// Place is a single geocoding candidate.
type Place struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type GISResponse struct {
	Results []Place `json:"results"`
}

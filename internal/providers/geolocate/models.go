package geolocate

// PositionRequest is the lookup request body.
type PositionRequest struct {
	ConsiderIP bool `json:"considerIp"`
}

// PositionAPIResponse is the provider's success response.
type PositionAPIResponse struct {
	Location struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
	Accuracy float64 `json:"accuracy"`
}

// ErrorAPIResponse is the provider's failure response.
type ErrorAPIResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Domain  string `json:"domain"`
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}

// Position is a resolved coordinate fix with its accuracy radius in
// meters.
type Position struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
}

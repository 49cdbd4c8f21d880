package nominatim

// Address holds the address components Nominatim returns for a reverse
// lookup. Which components are present depends on the place: dense areas
// report a city, rural ones may only have a county, town, or village.
type Address struct {
	City          string `json:"city"`
	StateDistrict string `json:"state_district"`
	County        string `json:"county"`
	Town          string `json:"town"`
	Suburb        string `json:"suburb"`
	Village       string `json:"village"`
	State         string `json:"state"`
	Postcode      string `json:"postcode"`
	Country       string `json:"country"`
	CountryCode   string `json:"country_code"`
}

type ReverseAPIResponse struct {
	PlaceID     int      `json:"place_id"`
	Licence     string   `json:"licence"`
	OsmType     string   `json:"osm_type"`
	OsmID       int      `json:"osm_id"`
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	Class       string   `json:"class"`
	Type        string   `json:"type"`
	PlaceRank   int      `json:"place_rank"`
	Importance  float64  `json:"importance"`
	Addresstype string   `json:"addresstype"`
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Address     Address  `json:"address"`
	Boundingbox []string `json:"boundingbox"`
	Error       string   `json:"error"`
}

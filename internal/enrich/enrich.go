package enrich

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"center-onboard/internal/providers/geolocate"
	"center-onboard/internal/providers/nominatim"
)

// CountryName is written into every enriched address. The system targets
// a single country's addressing scheme; the provider's country field is
// ignored.
const CountryName = "India"

// Phase is the state of one async enrichment flow.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseInFlight  Phase = "inFlight"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
)

// PositionProvider defines the interface for device position providers.
type PositionProvider interface {
	CurrentPosition() (*geolocate.Position, error)
}

// ReverseGeocoder defines the interface for reverse-geocoding providers.
type ReverseGeocoder interface {
	Reverse(latitude, longitude float64) (*nominatim.ReverseAPIResponse, error)
}

// Fix is a resolved coordinate pair, formatted to six decimal places.
type Fix struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// AddressFill holds the values autofill offers for the address fields.
// Values are advisory: they only fill fields the user left empty.
type AddressFill struct {
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// Enricher runs the two location flows: coordinate acquisition and
// reverse-geocoded address autofill. The flows are independent; each
// tracks its own phase and allows at most one call in flight.
type Enricher struct {
	mu        sync.Mutex
	logger    *slog.Logger
	positions PositionProvider
	geocoder  ReverseGeocoder
	acquire   Phase
	autofill  Phase
}

// New creates an enricher with real provider clients.
func New(logger *slog.Logger, apiKey, userAgent string) *Enricher {
	return NewWithProviders(logger, geolocate.NewClient(apiKey), nominatim.NewClient(userAgent))
}

// NewWithProviders creates an enricher with custom providers.
// This is useful for testing with mock providers.
func NewWithProviders(logger *slog.Logger, positions PositionProvider, geocoder ReverseGeocoder) *Enricher {
	return &Enricher{
		logger:    logger,
		positions: positions,
		geocoder:  geocoder,
		acquire:   PhaseIdle,
		autofill:  PhaseIdle,
	}
}

// AcquirePhase returns the state of the coordinate acquisition flow.
func (e *Enricher) AcquirePhase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.acquire
}

// AutofillPhase returns the state of the address autofill flow.
func (e *Enricher) AutofillPhase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.autofill
}

// AcquireCoordinates requests one fresh fix from the position provider.
// A second trigger while one is pending returns ErrAcquireInFlight and
// leaves the pending acquisition untouched. A later successful fix
// always overwrites an earlier one.
func (e *Enricher) AcquireCoordinates() (Fix, error) {
	e.mu.Lock()
	if e.acquire == PhaseInFlight {
		e.mu.Unlock()
		return Fix{}, ErrAcquireInFlight
	}
	e.acquire = PhaseInFlight
	e.mu.Unlock()

	pos, err := e.positions.CurrentPosition()

	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		e.acquire = PhaseFailed
		e.logger.Warn("coordinate acquisition failed", "error", err)
		return Fix{}, &LocationError{Reason: locationReason(err), Err: err}
	}

	e.acquire = PhaseSucceeded
	return Fix{
		Latitude:  strconv.FormatFloat(pos.Latitude, 'f', 6, 64),
		Longitude: strconv.FormatFloat(pos.Longitude, 'f', 6, 64),
	}, nil
}

// AutofillAddress reverse-geocodes the given coordinates into address
// values. It requires both coordinates to be populated and never runs
// two lookups at once.
func (e *Enricher) AutofillAddress(latitude, longitude string) (AddressFill, error) {
	lat, lon, err := parseCoordinates(latitude, longitude)
	if err != nil {
		return AddressFill{}, err
	}

	e.mu.Lock()
	if e.autofill == PhaseInFlight {
		e.mu.Unlock()
		return AddressFill{}, ErrAutofillInFlight
	}
	e.autofill = PhaseInFlight
	e.mu.Unlock()

	resp, err := e.geocoder.Reverse(lat, lon)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		e.autofill = PhaseFailed
		e.logger.Warn("reverse geocode failed", "latitude", latitude, "longitude", longitude, "error", err)
		return AddressFill{}, &EnrichmentError{Reason: "Unable to look up the address for this location", Err: err}
	}

	fill, err := translateAddress(resp)
	if err != nil {
		e.autofill = PhaseFailed
		return AddressFill{}, &EnrichmentError{Reason: "Unable to look up the address for this location", Err: err}
	}

	e.autofill = PhaseSucceeded
	return fill, nil
}

func parseCoordinates(latitude, longitude string) (float64, float64, error) {
	if latitude == "" || longitude == "" {
		return 0, 0, ErrNoCoordinates
	}

	lat, err := strconv.ParseFloat(latitude, 64)
	if err != nil {
		return 0, 0, ErrNoCoordinates
	}

	lon, err := strconv.ParseFloat(longitude, 64)
	if err != nil {
		return 0, 0, ErrNoCoordinates
	}

	return lat, lon, nil
}

// translateAddress converts a Nominatim response to an AddressFill.
// The city value is the first populated component in the priority chain
// city > state_district > county > town > suburb > village.
func translateAddress(resp *nominatim.ReverseAPIResponse) (AddressFill, error) {
	if resp == nil {
		return AddressFill{}, fmt.Errorf("reverse lookup response is nil")
	}

	addr := resp.Address
	city := firstNonEmpty(
		addr.City,
		addr.StateDistrict,
		addr.County,
		addr.Town,
		addr.Suburb,
		addr.Village,
	)

	return AddressFill{
		City:    city,
		State:   addr.State,
		ZipCode: addr.Postcode,
		Country: CountryName,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

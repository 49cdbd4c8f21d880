package enrich

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"center-onboard/internal/providers/geolocate"
	"center-onboard/internal/providers/nominatim"
)

// Mock providers for testing

type mockPositionProvider struct {
	mu       sync.Mutex
	position *geolocate.Position
	err      error
	calls    int
	block    chan struct{} // when set, CurrentPosition waits on it
	started  chan struct{} // closed once a blocked call is underway
}

func (m *mockPositionProvider) CurrentPosition() (*geolocate.Position, error) {
	m.mu.Lock()
	m.calls++
	block, started := m.block, m.started
	m.mu.Unlock()

	if block != nil {
		if started != nil {
			close(started)
			m.mu.Lock()
			m.started = nil
			m.mu.Unlock()
		}
		<-block
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position, m.err
}

type mockGeocoder struct {
	response *nominatim.ReverseAPIResponse
	err      error
}

func (m *mockGeocoder) Reverse(latitude, longitude float64) (*nominatim.ReverseAPIResponse, error) {
	return m.response, m.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnricher_AcquireCoordinates(t *testing.T) {
	tests := []struct {
		name       string
		position   *geolocate.Position
		err        error
		wantFix    Fix
		wantErr    bool
		wantReason string
		wantPhase  Phase
	}{
		{
			name:      "six decimal formatting",
			position:  &geolocate.Position{Latitude: 18.52043, Longitude: 73.856744},
			wantFix:   Fix{Latitude: "18.520430", Longitude: "73.856744"},
			wantPhase: PhaseSucceeded,
		},
		{
			name:      "negative coordinates",
			position:  &geolocate.Position{Latitude: -33.8688, Longitude: -70.6693},
			wantFix:   Fix{Latitude: "-33.868800", Longitude: "-70.669300"},
			wantPhase: PhaseSucceeded,
		},
		{
			name:       "permission denied",
			err:        geolocate.ErrPermissionDenied,
			wantErr:    true,
			wantReason: "Location permission was denied",
			wantPhase:  PhaseFailed,
		},
		{
			name:       "timeout",
			err:        geolocate.ErrTimeout,
			wantErr:    true,
			wantReason: "Location request timed out",
			wantPhase:  PhaseFailed,
		},
		{
			name:       "unsupported",
			err:        geolocate.ErrUnsupported,
			wantErr:    true,
			wantReason: "Location is not supported on this device",
			wantPhase:  PhaseFailed,
		},
		{
			name:       "unknown provider failure",
			err:        errors.New("connection reset"),
			wantErr:    true,
			wantReason: "Unable to determine your location",
			wantPhase:  PhaseFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewWithProviders(testLogger(),
				&mockPositionProvider{position: tt.position, err: tt.err},
				&mockGeocoder{},
			)

			fix, err := e.AcquireCoordinates()

			if tt.wantErr {
				if err == nil {
					t.Fatal("AcquireCoordinates() expected error but got none")
				}
				var locErr *LocationError
				if !errors.As(err, &locErr) {
					t.Fatalf("AcquireCoordinates() error type = %T, want *LocationError", err)
				}
				if locErr.Reason != tt.wantReason {
					t.Errorf("Reason = %q, want %q", locErr.Reason, tt.wantReason)
				}
			} else {
				if err != nil {
					t.Fatalf("AcquireCoordinates() unexpected error = %v", err)
				}
				if fix != tt.wantFix {
					t.Errorf("fix = %+v, want %+v", fix, tt.wantFix)
				}
			}

			if got := e.AcquirePhase(); got != tt.wantPhase {
				t.Errorf("AcquirePhase() = %v, want %v", got, tt.wantPhase)
			}
		})
	}
}

func TestEnricher_AcquireCoordinates_rejectsConcurrent(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	provider := &mockPositionProvider{
		position: &geolocate.Position{Latitude: 18.52043, Longitude: 73.856744},
		block:    block,
		started:  started,
	}
	e := NewWithProviders(testLogger(), provider, &mockGeocoder{})

	done := make(chan error, 1)
	go func() {
		_, err := e.AcquireCoordinates()
		done <- err
	}()

	<-started // first acquisition is in flight

	if got := e.AcquirePhase(); got != PhaseInFlight {
		t.Errorf("AcquirePhase() = %v, want %v", got, PhaseInFlight)
	}

	// The second trigger is rejected; the first keeps running.
	if _, err := e.AcquireCoordinates(); !errors.Is(err, ErrAcquireInFlight) {
		t.Errorf("second trigger error = %v, want ErrAcquireInFlight", err)
	}

	close(block)
	if err := <-done; err != nil {
		t.Errorf("first acquisition failed: %v", err)
	}

	provider.mu.Lock()
	calls := provider.calls
	provider.mu.Unlock()
	if calls != 1 {
		t.Errorf("provider calls = %d, want 1 (rejected trigger must not reach the provider)", calls)
	}
}

func TestEnricher_AcquireCoordinates_freshFixEachCall(t *testing.T) {
	provider := &mockPositionProvider{position: &geolocate.Position{Latitude: 18.52043, Longitude: 73.856744}}
	e := NewWithProviders(testLogger(), provider, &mockGeocoder{})

	if _, err := e.AcquireCoordinates(); err != nil {
		t.Fatalf("first acquisition: %v", err)
	}

	provider.mu.Lock()
	provider.position = &geolocate.Position{Latitude: 19.07609, Longitude: 72.877426}
	provider.mu.Unlock()

	fix, err := e.AcquireCoordinates()
	if err != nil {
		t.Fatalf("second acquisition: %v", err)
	}
	if fix.Latitude != "19.076090" || fix.Longitude != "72.877426" {
		t.Errorf("fix = %+v, want the latest provider position", fix)
	}

	provider.mu.Lock()
	calls := provider.calls
	provider.mu.Unlock()
	if calls != 2 {
		t.Errorf("provider calls = %d, want 2 (no cached fix reuse)", calls)
	}
}

func TestEnricher_AutofillAddress_cityPriorityChain(t *testing.T) {
	tests := []struct {
		name     string
		address  nominatim.Address
		wantCity string
	}{
		{
			name:     "city wins over everything",
			address:  nominatim.Address{City: "Pune", StateDistrict: "Pune Division", County: "Haveli", Town: "Hinjewadi", Suburb: "Wakad", Village: "Marunji"},
			wantCity: "Pune",
		},
		{
			name:     "state district before county",
			address:  nominatim.Address{StateDistrict: "Pune Division", County: "Haveli", Town: "Hinjewadi"},
			wantCity: "Pune Division",
		},
		{
			name:     "county before town",
			address:  nominatim.Address{County: "Haveli", Town: "Hinjewadi", Suburb: "Wakad"},
			wantCity: "Haveli",
		},
		{
			name:     "town before suburb",
			address:  nominatim.Address{Town: "Hinjewadi", Suburb: "Wakad", Village: "Marunji"},
			wantCity: "Hinjewadi",
		},
		{
			name:     "suburb before village",
			address:  nominatim.Address{Suburb: "Wakad", Village: "Marunji"},
			wantCity: "Wakad",
		},
		{
			name:     "village as last resort",
			address:  nominatim.Address{Village: "Marunji"},
			wantCity: "Marunji",
		},
		{
			name:     "nothing available",
			address:  nominatim.Address{},
			wantCity: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geocoder := &mockGeocoder{
				response: &nominatim.ReverseAPIResponse{Address: tt.address},
			}
			e := NewWithProviders(testLogger(), &mockPositionProvider{}, geocoder)

			fill, err := e.AutofillAddress("18.520430", "73.856744")
			if err != nil {
				t.Fatalf("AutofillAddress() unexpected error = %v", err)
			}
			if fill.City != tt.wantCity {
				t.Errorf("City = %q, want %q", fill.City, tt.wantCity)
			}
		})
	}
}

func TestEnricher_AutofillAddress_countryIsConstant(t *testing.T) {
	geocoder := &mockGeocoder{
		response: &nominatim.ReverseAPIResponse{
			Address: nominatim.Address{City: "Kathmandu", State: "Bagmati", Postcode: "44600", Country: "Nepal"},
		},
	}
	e := NewWithProviders(testLogger(), &mockPositionProvider{}, geocoder)

	fill, err := e.AutofillAddress("27.717245", "85.323959")
	if err != nil {
		t.Fatalf("AutofillAddress() unexpected error = %v", err)
	}
	if fill.Country != CountryName {
		t.Errorf("Country = %q, want constant %q regardless of provider", fill.Country, CountryName)
	}
}

func TestEnricher_AutofillAddress_requiresCoordinates(t *testing.T) {
	tests := []struct {
		name string
		lat  string
		lon  string
	}{
		{"both empty", "", ""},
		{"latitude only", "18.520430", ""},
		{"longitude only", "", "73.856744"},
		{"malformed latitude", "north", "73.856744"},
		{"malformed longitude", "18.520430", "east"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewWithProviders(testLogger(), &mockPositionProvider{}, &mockGeocoder{})
			if _, err := e.AutofillAddress(tt.lat, tt.lon); !errors.Is(err, ErrNoCoordinates) {
				t.Errorf("AutofillAddress() error = %v, want ErrNoCoordinates", err)
			}
			if got := e.AutofillPhase(); got != PhaseIdle {
				t.Errorf("AutofillPhase() = %v, want idle after a rejected trigger", got)
			}
		})
	}
}

func TestEnricher_AutofillAddress_providerFailure(t *testing.T) {
	tests := []struct {
		name     string
		response *nominatim.ReverseAPIResponse
		err      error
	}{
		{name: "network error", err: errors.New("connection refused")},
		{name: "nil response", response: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewWithProviders(testLogger(), &mockPositionProvider{}, &mockGeocoder{response: tt.response, err: tt.err})

			_, err := e.AutofillAddress("18.520430", "73.856744")
			if err == nil {
				t.Fatal("AutofillAddress() expected error but got none")
			}

			var enrErr *EnrichmentError
			if !errors.As(err, &enrErr) {
				t.Fatalf("error type = %T, want *EnrichmentError", err)
			}
			if !strings.Contains(enrErr.Reason, "Unable to look up the address") {
				t.Errorf("Reason = %q", enrErr.Reason)
			}
			if got := e.AutofillPhase(); got != PhaseFailed {
				t.Errorf("AutofillPhase() = %v, want %v", got, PhaseFailed)
			}
		})
	}
}

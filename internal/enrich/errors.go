package enrich

import (
	"errors"
	"fmt"

	"center-onboard/internal/providers/geolocate"
)

// Sentinel errors returned before any provider call is made.
var (
	// ErrAcquireInFlight rejects a second acquisition trigger while one
	// is still pending. The pending acquisition is unaffected.
	ErrAcquireInFlight = errors.New("coordinate acquisition already in flight")

	// ErrAutofillInFlight rejects a second autofill trigger while one is
	// still pending.
	ErrAutofillInFlight = errors.New("address autofill already in flight")

	// ErrNoCoordinates means autofill was triggered before a coordinate
	// fix was acquired.
	ErrNoCoordinates = errors.New("coordinates are not populated")
)

// LocationError describes a failed coordinate acquisition. Reason is
// user-facing; the wrapped error keeps the provider cause.
type LocationError struct {
	Reason string
	Err    error
}

func (e *LocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *LocationError) Unwrap() error {
	return e.Err
}

// EnrichmentError describes a failed reverse-geocode lookup. The form
// stays fully editable; the failure is advisory only.
type EnrichmentError struct {
	Reason string
	Err    error
}

func (e *EnrichmentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *EnrichmentError) Unwrap() error {
	return e.Err
}

// locationReason maps a provider failure to the message shown to the
// user.
func locationReason(err error) string {
	switch {
	case errors.Is(err, geolocate.ErrPermissionDenied):
		return "Location permission was denied"
	case errors.Is(err, geolocate.ErrTimeout):
		return "Location request timed out"
	case errors.Is(err, geolocate.ErrUnsupported):
		return "Location is not supported on this device"
	default:
		return "Unable to determine your location"
	}
}

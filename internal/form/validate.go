package form

import (
	"regexp"
	"strings"
)

// Field names used as keys in the Errors map.
const (
	FieldCenterName = "centerName"
	FieldPhone      = "phone"
	FieldEmail      = "email"
	FieldCity       = "city"
	FieldState      = "state"
	FieldZipCode    = "zipCode"
	FieldCountry    = "country"
	FieldLatitude   = "latitude"
	FieldLongitude  = "longitude"
	FieldLocation   = "location"
	FieldCategories = "categories"
	FieldImages     = "images"
)

var (
	// Indian mobile numbers: 10 digits, leading digit 6-9.
	phonePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	// Indian PIN codes: exactly 6 digits.
	zipPattern   = regexp.MustCompile(`^[0-9]{6}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Validate runs every rule against the record and returns the full error
// map. Rules are evaluated independently, never short-circuited, so the
// result is complete on every call. An empty map means the record is
// acceptable for submission.
func Validate(r *Record) Errors {
	errs := make(Errors)

	if strings.TrimSpace(r.CenterName) == "" {
		errs[FieldCenterName] = "Center name is required"
	}

	switch {
	case strings.TrimSpace(r.Phone) == "":
		errs[FieldPhone] = "Phone number is required"
	case !phonePattern.MatchString(r.Phone):
		errs[FieldPhone] = "Enter a valid 10-digit phone number"
	}

	switch {
	case strings.TrimSpace(r.Email) == "":
		errs[FieldEmail] = "Email is required"
	case !emailPattern.MatchString(r.Email):
		errs[FieldEmail] = "Enter a valid email address"
	}

	if strings.TrimSpace(r.City) == "" {
		errs[FieldCity] = "City is required"
	}

	if strings.TrimSpace(r.State) == "" {
		errs[FieldState] = "State is required"
	}

	switch {
	case strings.TrimSpace(r.ZipCode) == "":
		errs[FieldZipCode] = "Zip code is required"
	case !zipPattern.MatchString(r.ZipCode):
		errs[FieldZipCode] = "Enter a valid 6-digit zip code"
	}

	if r.Latitude == "" || r.Longitude == "" {
		errs[FieldLocation] = "Location is required, use the locate step to set it"
	}

	if len(r.Categories) == 0 {
		errs[FieldCategories] = "Select at least one category"
	}

	if len(r.Images) == 0 {
		errs[FieldImages] = "Upload at least one image"
	}

	return errs
}

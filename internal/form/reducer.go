package form

// Event is one thing that can happen to a form during its lifetime.
// Events are applied through Apply, which is pure: it never mutates its
// input and always returns the resulting state.
type Event interface {
	isEvent()
}

// FieldEdited overwrites a single text field with a new value and clears
// any validation error recorded for that field. No re-validation happens
// until the next Submitted event.
type FieldEdited struct {
	Field string
	Value string
}

// CategoryToggled adds the tag if absent, removes it if present.
type CategoryToggled struct {
	Category Category
}

// ImagesAdded appends newly uploaded images, preserving prior order.
type ImagesAdded struct {
	Images []Image
}

// ImageRemoved deletes the image at Index, keeping the relative order of
// the rest. The caller owns releasing the removed image's preview.
type ImageRemoved struct {
	Index int
}

// LocationSucceeded records a fresh coordinate fix. A later fix always
// overwrites an earlier one.
type LocationSucceeded struct {
	Latitude  string
	Longitude string
}

// LocationFailed records why coordinate acquisition failed.
type LocationFailed struct {
	Reason string
}

// AddressEnriched carries reverse-geocoded address values. Each value is
// written only if the corresponding field is currently empty; a user's
// manual entry is never overwritten.
type AddressEnriched struct {
	City    string
	State   string
	ZipCode string
	Country string
}

// EnrichFailed surfaces a reverse-geocode failure as a one-shot notice
// without touching the record.
type EnrichFailed struct {
	Reason string
}

// Submitted runs full validation. The state is accepted iff the error
// map comes back empty.
type Submitted struct{}

func (FieldEdited) isEvent()       {}
func (CategoryToggled) isEvent()   {}
func (ImagesAdded) isEvent()       {}
func (ImageRemoved) isEvent()      {}
func (LocationSucceeded) isEvent() {}
func (LocationFailed) isEvent()    {}
func (AddressEnriched) isEvent()   {}
func (EnrichFailed) isEvent()      {}
func (Submitted) isEvent()         {}

// State is the full form state: the record under edit, the current
// validation errors, a one-shot notice from the last event, and whether
// the last submit was accepted.
type State struct {
	Record   Record `json:"record"`
	Errors   Errors `json:"errors"`
	Notice   string `json:"notice,omitempty"`
	Accepted bool   `json:"accepted"`
}

// NewState returns the empty state a form starts from.
func NewState() State {
	return State{Errors: make(Errors)}
}

// Apply applies one event and returns the resulting state. The input
// state is left untouched.
func Apply(s State, e Event) State {
	next := clone(s)
	next.Notice = ""

	switch ev := e.(type) {
	case FieldEdited:
		applyFieldEdit(&next, ev)

	case CategoryToggled:
		if !ValidCategory(ev.Category) {
			return next
		}
		if next.Record.HasCategory(ev.Category) {
			kept := next.Record.Categories[:0]
			for _, c := range next.Record.Categories {
				if c != ev.Category {
					kept = append(kept, c)
				}
			}
			next.Record.Categories = kept
		} else {
			next.Record.Categories = append(next.Record.Categories, ev.Category)
		}
		delete(next.Errors, FieldCategories)

	case ImagesAdded:
		next.Record.Images = append(next.Record.Images, ev.Images...)
		delete(next.Errors, FieldImages)

	case ImageRemoved:
		if ev.Index < 0 || ev.Index >= len(next.Record.Images) {
			return next
		}
		next.Record.Images = append(
			next.Record.Images[:ev.Index],
			next.Record.Images[ev.Index+1:]...,
		)

	case LocationSucceeded:
		next.Record.Latitude = ev.Latitude
		next.Record.Longitude = ev.Longitude
		delete(next.Errors, FieldLocation)

	case LocationFailed:
		next.Errors[FieldLocation] = ev.Reason

	case AddressEnriched:
		fillIfEmpty(&next.Record.City, ev.City)
		fillIfEmpty(&next.Record.State, ev.State)
		fillIfEmpty(&next.Record.ZipCode, ev.ZipCode)
		fillIfEmpty(&next.Record.Country, ev.Country)
		delete(next.Errors, FieldCity)
		delete(next.Errors, FieldState)
		delete(next.Errors, FieldZipCode)

	case EnrichFailed:
		next.Notice = ev.Reason

	case Submitted:
		next.Errors = Validate(&next.Record)
		next.Accepted = len(next.Errors) == 0
	}

	return next
}

func applyFieldEdit(s *State, ev FieldEdited) {
	switch ev.Field {
	case FieldCenterName:
		s.Record.CenterName = ev.Value
	case FieldPhone:
		s.Record.Phone = ev.Value
	case FieldEmail:
		s.Record.Email = ev.Value
	case FieldCity:
		s.Record.City = ev.Value
	case FieldState:
		s.Record.State = ev.Value
	case FieldZipCode:
		s.Record.ZipCode = ev.Value
	case FieldCountry:
		s.Record.Country = ev.Value
	default:
		return
	}
	delete(s.Errors, ev.Field)
}

func fillIfEmpty(dst *string, value string) {
	if *dst == "" && value != "" {
		*dst = value
	}
}

// clone deep-copies the parts of the state that Apply may modify.
func clone(s State) State {
	next := s

	next.Errors = make(Errors, len(s.Errors))
	for k, v := range s.Errors {
		next.Errors[k] = v
	}

	if s.Record.Categories != nil {
		next.Record.Categories = append([]Category(nil), s.Record.Categories...)
	}
	if s.Record.Images != nil {
		next.Record.Images = append([]Image(nil), s.Record.Images...)
	}

	return next
}

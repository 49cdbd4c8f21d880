package form

// Category is an enumerated service tag a center can offer.
type Category string

const (
	CategoryMechanic    Category = "Mechanic"
	CategoryAC          Category = "AC"
	CategoryElectrician Category = "Electrician"
)

// ValidCategory reports whether c is one of the known tags.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryMechanic, CategoryAC, CategoryElectrician:
		return true
	}
	return false
}

// Image is one uploaded image plus its derived preview handle.
// PreviewID references a resource owned by the image store; it must be
// released when the image is removed or the owning session ends.
type Image struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	PreviewID string `json:"previewId"`
}

// Record holds every user-entered and enrichment-derived field for one
// onboarding submission. Latitude and longitude are decimal strings with
// six-digit precision and are either both empty or both populated.
type Record struct {
	CenterName string     `json:"centerName"`
	Phone      string     `json:"phone"`
	Email      string     `json:"email"`
	City       string     `json:"city"`
	State      string     `json:"state"`
	ZipCode    string     `json:"zipCode"`
	Country    string     `json:"country"`
	Latitude   string     `json:"latitude"`
	Longitude  string     `json:"longitude"`
	Categories []Category `json:"categories"`
	Images     []Image    `json:"images"`
}

// HasCategory reports whether the tag is currently selected.
func (r *Record) HasCategory(c Category) bool {
	for _, have := range r.Categories {
		if have == c {
			return true
		}
	}
	return false
}

// Errors maps a field name to its current validation message. A field
// either carries its latest message or is absent; entries are cleared
// one at a time as the corresponding field is edited.
type Errors map[string]string

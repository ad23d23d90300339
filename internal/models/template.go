package models

import "time"

// DefaultTemplateName is the name given to a freshly synthesized template.
const DefaultTemplateName = "Default Template"

// Template is the reusable list of items that new periods are seeded from.
// Exactly one template is active at a time; it is replaced or edited,
// never deleted.
type Template struct {
	// ID is the unique identifier for the template (UUID format).
	ID string `json:"id"`

	// Name is the display name of the template.
	Name string `json:"name"`

	// Items are the template lines in display order.
	Items []Item `json:"items"`

	// CreatedAt is when the template was first created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is refreshed on every mutation (rename, item add/update/delete).
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewTemplate returns an empty template with the given id and timestamps
// set to now.
func NewTemplate(id string, now time.Time) Template {
	return Template{
		ID:        id,
		Name:      DefaultTemplateName,
		Items:     []Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy of the template.
func (t Template) Clone() Template {
	t.Items = CloneItems(t.Items)
	if t.Items == nil {
		t.Items = []Item{}
	}
	return t
}

package domain

import "time"

// Tag is a user-defined free-text label, many-to-many with items.
// The trimmed name is the natural identity: two tags with the same name are
// the same tag. A tag with no referencing items is reclaimed eagerly by the
// store on the write that orphans it.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ItemCount int       `json:"item_count"` // Denormalized count of items with this tag
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (t *Tag) Touch() {
	t.UpdatedAt = time.Now()
}

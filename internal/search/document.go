// Package search maintains a Bleve index over item titles and notes.
//
// Unlike a typical full-text setup, fields are indexed with a keyword
// tokenizer plus lowercasing, so each field is a single lowercased term and
// wildcard queries give exact case-insensitive substring semantics - the
// matching behavior a personal catalog search box promises.
package search

import "github.com/stashitapp/stashit-server/internal/domain"

// DocTypeItem is the only document type in the index today.
const DocTypeItem = "item"

// Document is the indexed representation of an item.
type Document struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Notes    string `json:"notes"`
	Category string `json:"category"`
}

// DocumentFromItem converts a domain item to its indexed form.
func DocumentFromItem(item *domain.Item) *Document {
	return &Document{
		ID:       item.ID,
		Type:     DocTypeItem,
		Title:    item.Title,
		Notes:    item.Notes,
		Category: item.Category.String(),
	}
}

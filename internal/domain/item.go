package domain

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Item is a single saved entry (a recipe, a book, a movie, ...).
//
// Flags holds the category-specific boolean status fields keyed by the schema
// flag keys. Metadata holds non-boolean flag data, currently rating values
// stored as the decimal string of an integer 1-5. Both maps are always
// non-nil on items produced by NewItem or loaded through the store.
type Item struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Category   Category          `json:"category"`
	SourceURL  string            `json:"source_url,omitempty"`
	ImageURL   string            `json:"image_url,omitempty"`
	Notes      string            `json:"notes"`
	IsFavorite bool              `json:"is_favorite"`
	DateAdded  time.Time         `json:"date_added"`
	UpdatedAt  time.Time         `json:"updated_at"`
	Seq        uint64            `json:"seq"` // Creation order, assigned once by the store
	Tags       []string          `json:"tags,omitempty"`
	Flags      map[string]bool   `json:"flags"`
	Metadata   map[string]string `json:"metadata"`
}

// NewItem creates an item with defaults: empty notes, not favorite,
// DateAdded set to now, empty (non-nil) flag and metadata maps.
// The caller assigns ID and Seq via the store.
func NewItem(title string, category Category, sourceURL string) *Item {
	now := time.Now()
	return &Item{
		Title:     title,
		Category:  category,
		SourceURL: sourceURL,
		DateAdded: now,
		UpdatedAt: now,
		Flags:     map[string]bool{},
		Metadata:  map[string]string{},
	}
}

// Touch updates the UpdatedAt timestamp.
func (i *Item) Touch() {
	i.UpdatedAt = time.Now()
}

// EnsureMaps replaces nil flag/metadata maps with empty ones.
// Items decoded from storage written by older versions may carry nil maps.
func (i *Item) EnsureMaps() {
	if i.Flags == nil {
		i.Flags = map[string]bool{}
	}
	if i.Metadata == nil {
		i.Metadata = map[string]string{}
	}
}

// SourceDomain returns the host of SourceURL with a leading "www." stripped.
// Returns "" when no source URL is set or it cannot be parsed.
func (i *Item) SourceDomain() string {
	if i.SourceURL == "" {
		return ""
	}
	u, err := url.Parse(i.SourceURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// Flag returns the boolean flag for key. Absent keys read as false.
func (i *Item) Flag(key string) bool {
	return i.Flags[key]
}

// ToggleFlag flips the flag at key. An absent key is treated as false,
// so the first toggle sets it to true.
func (i *Item) ToggleFlag(key string) {
	i.EnsureMaps()
	i.Flags[key] = !i.Flags[key]
	i.Touch()
}

// Rating parses the metadata value at key as an integer rating.
// Returns 0 (unrated) when the key is absent or the value is unparsable -
// malformed stored data degrades rather than erroring.
func (i *Item) Rating(key string) int {
	raw, ok := i.Metadata[key]
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// SetRating stores value as its decimal string in the metadata map.
func (i *Item) SetRating(key string, value int) {
	i.EnsureMaps()
	i.Metadata[key] = strconv.Itoa(value)
	i.Touch()
}

// HasTag reports whether the item references the given tag name.
func (i *Item) HasTag(name string) bool {
	return slices.Contains(i.Tags, name)
}

// SetTags replaces the item's tag list, preserving the input order and
// dropping duplicates (first occurrence wins).
func (i *Item) SetTags(names []string) {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	i.Tags = out
}

// Package domain contains the core business entities and domain logic for the StashIt collection manager.
package domain

import "fmt"

// Category classifies an item and determines which status flags apply to it.
// The set is closed: adding a category means adding a constant here and a
// schema entry in schema.go, never a storage change.
type Category string

// All supported categories.
const (
	CategoryRecipe   Category = "recipe"
	CategoryBook     Category = "book"
	CategoryMovie    Category = "movie"
	CategoryMusic    Category = "music"
	CategoryClothes  Category = "clothes"
	CategoryHome     Category = "home"
	CategoryArticle  Category = "article"
	CategoryPodcast  Category = "podcast"
	CategoryTrip     Category = "trip"
	CategoryBackpack Category = "backpack"
)

// allCategories is the canonical ordering, used for registry listings.
var allCategories = []Category{
	CategoryRecipe,
	CategoryBook,
	CategoryMovie,
	CategoryMusic,
	CategoryClothes,
	CategoryHome,
	CategoryArticle,
	CategoryPodcast,
	CategoryTrip,
	CategoryBackpack,
}

// Categories returns all categories in canonical order.
// The returned slice is a copy; callers may mutate it freely.
func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// Valid reports whether c is one of the closed set of categories.
func (c Category) Valid() bool {
	_, ok := categorySchemas[c]
	return ok
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// ParseCategory converts a string to a Category.
// Returns an error for anything outside the closed set.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Package query derives read-only views over the item store: category
// listings with filter, search, and sort, the six smart views, and global
// free-text search. No query mutates the store; callers re-run queries to
// observe updated state.
package query

import "fmt"

// Filter narrows a category listing by completion or favorite status.
type Filter string

// Category listing filters.
const (
	FilterAll        Filter = "all"
	FilterIncomplete Filter = "incomplete"
	FilterComplete   Filter = "complete"
	FilterFavorites  Filter = "favorites"
)

// ParseFilter converts a string to a Filter. Empty input means FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case "":
		return FilterAll, nil
	case FilterAll, FilterIncomplete, FilterComplete, FilterFavorites:
		return Filter(s), nil
	default:
		return "", fmt.Errorf("unknown filter %q", s)
	}
}

// SortOption orders query results.
type SortOption string

// Sort options. Sorting is always stable: equal keys keep store order
// (creation order), so results are reproducible.
const (
	// SortDateAdded orders newest first.
	SortDateAdded SortOption = "date_added"
	// SortTitle orders by title, ascending lexicographic.
	SortTitle SortOption = "title"
	// SortFavorite places favorites first, ties broken newest first.
	SortFavorite SortOption = "favorite"
)

// ParseSortOption converts a string to a SortOption. Empty input means
// SortDateAdded, the default ordering everywhere.
func ParseSortOption(s string) (SortOption, error) {
	switch SortOption(s) {
	case "":
		return SortDateAdded, nil
	case SortDateAdded, SortTitle, SortFavorite:
		return SortOption(s), nil
	default:
		return "", fmt.Errorf("unknown sort option %q", s)
	}
}

// SmartView names one of the fixed cross-category derived queries.
type SmartView string

// The six smart views.
const (
	ViewUncookedRecipes SmartView = "uncooked-recipes"
	ViewToRead          SmartView = "to-read"
	ViewBandcampQueue   SmartView = "bandcamp-queue"
	ViewUnwatched       SmartView = "unwatched"
	ViewFavorites       SmartView = "favorites"
	ViewRecentlyAdded   SmartView = "recently-added"
)

// SmartViews returns all smart views in display order.
func SmartViews() []SmartView {
	return []SmartView{
		ViewUncookedRecipes,
		ViewToRead,
		ViewBandcampQueue,
		ViewUnwatched,
		ViewFavorites,
		ViewRecentlyAdded,
	}
}

// ParseSmartView converts a string to a SmartView.
func ParseSmartView(s string) (SmartView, error) {
	switch SmartView(s) {
	case ViewUncookedRecipes, ViewToRead, ViewBandcampQueue, ViewUnwatched, ViewFavorites, ViewRecentlyAdded:
		return SmartView(s), nil
	default:
		return "", fmt.Errorf("unknown smart view %q", s)
	}
}

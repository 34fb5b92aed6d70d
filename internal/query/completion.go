package query

import "github.com/stashitapp/stashit-server/internal/domain"

// completionFlags maps each category to the single flag that decides whether
// an item counts as complete. Adding a category means adding a row here;
// there is no fallback.
var completionFlags = map[domain.Category]string{
	domain.CategoryRecipe:   domain.FlagHasBeenCooked,
	domain.CategoryBook:     domain.FlagHasRead,
	domain.CategoryMovie:    domain.FlagHasWatched,
	domain.CategoryMusic:    domain.FlagHasListened,
	domain.CategoryClothes:  domain.FlagHasBought,
	domain.CategoryHome:     domain.FlagHasBought,
	domain.CategoryArticle:  domain.FlagHasRead,
	domain.CategoryPodcast:  domain.FlagHasListened,
	domain.CategoryTrip:     domain.FlagHasVisited,
	domain.CategoryBackpack: domain.FlagHasReviewed,
}

// CompletionFlag returns the flag key that marks items of the given category
// as complete.
func CompletionFlag(c domain.Category) string {
	return completionFlags[c]
}

// isComplete reports whether the item's completion flag is set.
func isComplete(item *domain.Item) bool {
	return item.Flag(completionFlags[item.Category])
}

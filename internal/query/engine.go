package query

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/stashitapp/stashit-server/internal/domain"
	"github.com/stashitapp/stashit-server/internal/errors"
	"github.com/stashitapp/stashit-server/internal/search"
	"github.com/stashitapp/stashit-server/internal/store"
)

// Engine answers listing, smart view, and search queries against the store.
type Engine struct {
	store      *store.Store
	search     *search.Index
	recentDays int
	logger     *slog.Logger

	// now anchors the recently-added window at evaluation time.
	now func() time.Time
}

// Options configures an Engine.
type Options struct {
	Store  *store.Store
	Search *search.Index
	// RecentlyAddedDays is the window for the recently-added smart view.
	RecentlyAddedDays int
	Logger            *slog.Logger
}

// NewEngine creates a query engine over the given store and search index.
func NewEngine(opts Options) *Engine {
	days := opts.RecentlyAddedDays
	if days <= 0 {
		days = 7
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:      opts.Store,
		search:     opts.Search,
		recentDays: days,
		logger:     logger,
		now:        time.Now,
	}
}

// ListOptions shapes a category listing. Zero values mean "all items,
// no text narrowing, newest first".
type ListOptions struct {
	Filter     Filter
	SearchText string
	Sort       SortOption
}

// List returns the items of one category, narrowed by filter then search
// text, then sorted. The stages always compose in that order, so the search
// text only ever narrows what the filter admitted.
func (e *Engine) List(ctx context.Context, category domain.Category, opts ListOptions) ([]*domain.Item, error) {
	if !category.Valid() {
		return nil, errors.Validationf("unknown category %q", category)
	}
	items, err := e.store.ListItemsByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	items = applyFilter(items, opts.Filter)
	if text := strings.TrimSpace(opts.SearchText); text != "" {
		items = matchText(items, text)
	}
	sortItems(items, opts.Sort)
	return items, nil
}

// SmartView evaluates one of the fixed cross-category views.
func (e *Engine) SmartView(ctx context.Context, view SmartView, sortOpt SortOption) ([]*domain.Item, error) {
	match, err := e.viewPredicate(view)
	if err != nil {
		return nil, err
	}
	items, err := e.store.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	out := items[:0]
	for _, item := range items {
		if match(item) {
			out = append(out, item)
		}
	}
	sortItems(out, sortOpt)
	return out, nil
}

// viewPredicate returns the membership test for a smart view. Views are
// evaluated live against current item state, never cached.
func (e *Engine) viewPredicate(view SmartView) (func(*domain.Item) bool, error) {
	switch view {
	case ViewUncookedRecipes:
		return func(it *domain.Item) bool {
			return it.Category == domain.CategoryRecipe && !it.Flag(domain.FlagHasBeenCooked)
		}, nil
	case ViewToRead:
		return func(it *domain.Item) bool {
			if it.Category != domain.CategoryBook && it.Category != domain.CategoryArticle {
				return false
			}
			return !it.Flag(domain.FlagHasRead)
		}, nil
	case ViewBandcampQueue:
		return func(it *domain.Item) bool {
			return it.Category == domain.CategoryMusic &&
				it.Flag(domain.FlagWantToPurchase) &&
				!it.Flag(domain.FlagHasBought)
		}, nil
	case ViewUnwatched:
		return func(it *domain.Item) bool {
			return it.Category == domain.CategoryMovie && !it.Flag(domain.FlagHasWatched)
		}, nil
	case ViewFavorites:
		return func(it *domain.Item) bool {
			return it.IsFavorite
		}, nil
	case ViewRecentlyAdded:
		cutoff := e.now().AddDate(0, 0, -e.recentDays)
		return func(it *domain.Item) bool {
			return it.DateAdded.After(cutoff)
		}, nil
	default:
		return nil, errors.Validationf("unknown smart view %q", view)
	}
}

// Search runs a global free-text search over titles and notes and returns
// matching items in store order. A blank query matches nothing.
func (e *Engine) Search(ctx context.Context, text string) ([]*domain.Item, error) {
	ids, err := e.search.SearchIDs(ctx, text)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "search items")
	}
	if len(ids) == 0 {
		return []*domain.Item{}, nil
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	items, err := e.store.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Item, 0, len(ids))
	for _, item := range items {
		if _, ok := wanted[item.ID]; ok {
			out = append(out, item)
		}
	}
	e.logger.LogAttrs(ctx, slog.LevelDebug, "search completed",
		slog.Int("hits", len(out)))
	return out, nil
}

// applyFilter keeps the items admitted by the filter, preserving order.
func applyFilter(items []*domain.Item, filter Filter) []*domain.Item {
	if filter == FilterAll || filter == "" {
		return items
	}
	out := items[:0]
	for _, item := range items {
		keep := false
		switch filter {
		case FilterIncomplete:
			keep = !isComplete(item)
		case FilterComplete:
			keep = isComplete(item)
		case FilterFavorites:
			keep = item.IsFavorite
		}
		if keep {
			out = append(out, item)
		}
	}
	return out
}

var foldCaser = cases.Fold()

// matchText keeps items whose title or notes contain the text, compared
// case-insensitively, preserving order.
func matchText(items []*domain.Item, text string) []*domain.Item {
	needle := foldCaser.String(text)
	out := items[:0]
	for _, item := range items {
		if strings.Contains(foldCaser.String(item.Title), needle) ||
			strings.Contains(foldCaser.String(item.Notes), needle) {
			out = append(out, item)
		}
	}
	return out
}

// sortItems orders items in place. Sorts are stable over the incoming store
// order, so full ties keep creation order.
func sortItems(items []*domain.Item, opt SortOption) {
	switch opt {
	case SortTitle:
		slices.SortStableFunc(items, func(a, b *domain.Item) int {
			return strings.Compare(a.Title, b.Title)
		})
	case SortFavorite:
		slices.SortStableFunc(items, func(a, b *domain.Item) int {
			if a.IsFavorite != b.IsFavorite {
				if a.IsFavorite {
					return -1
				}
				return 1
			}
			return b.DateAdded.Compare(a.DateAdded)
		})
	default: // SortDateAdded
		slices.SortStableFunc(items, func(a, b *domain.Item) int {
			return b.DateAdded.Compare(a.DateAdded)
		})
	}
}

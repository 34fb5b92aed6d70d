package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stashitapp/stashit-server/internal/domain"
	"github.com/stashitapp/stashit-server/internal/id"
	"github.com/stashitapp/stashit-server/internal/store"
)

func setupTestStore(t *testing.T) (*store.Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "store-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := store.New(dbPath, nil)
	require.NoError(t, err)

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return s, cleanup
}

func newTestItem(t *testing.T, title string, category domain.Category) *domain.Item {
	t.Helper()
	item := domain.NewItem(title, category, "")
	item.ID = id.MustGenerate("item")
	return item
}

func TestCreateItem(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	item := newTestItem(t, "Chocolate Chip Cookies", domain.CategoryRecipe)

	err := s.CreateItem(ctx, item)
	require.NoError(t, err)

	retrieved, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, retrieved.ID)
	assert.Equal(t, "Chocolate Chip Cookies", retrieved.Title)
	assert.Equal(t, domain.CategoryRecipe, retrieved.Category)
	assert.NotNil(t, retrieved.Flags)
	assert.NotNil(t, retrieved.Metadata)
}

func TestCreateItem_Duplicate(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	item := newTestItem(t, "Dune", domain.CategoryBook)

	require.NoError(t, s.CreateItem(ctx, item))
	err := s.CreateItem(ctx, item)
	assert.ErrorIs(t, err, store.ErrItemExists)
}

func TestGetItem_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := s.GetItem(context.Background(), "item-nonexistent")
	assert.ErrorIs(t, err, store.ErrItemNotFound)
}

func TestListItemsByCategory_IncludesCreatedItemOnce(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	recipe := newTestItem(t, "Banana Bread", domain.CategoryRecipe)
	book := newTestItem(t, "Dune", domain.CategoryBook)
	require.NoError(t, s.CreateItem(ctx, recipe))
	require.NoError(t, s.CreateItem(ctx, book))

	recipes, err := s.ListItemsByCategory(ctx, domain.CategoryRecipe)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, recipe.ID, recipes[0].ID)

	// Empty category.
	trips, err := s.ListItemsByCategory(ctx, domain.CategoryTrip)
	require.NoError(t, err)
	assert.Empty(t, trips)
}

func TestListItems_StoreOrderIsCreationOrder(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	titles := []string{"zebra", "apple", "mango"}
	ids := make([]string, 0, len(titles))
	for _, title := range titles {
		item := newTestItem(t, title, domain.CategoryMovie)
		require.NoError(t, s.CreateItem(ctx, item))
		ids = append(ids, item.ID)
	}

	items, err := s.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i, item := range items {
		assert.Equal(t, ids[i], item.ID, "position %d", i)
	}
}

func TestUpdateItem(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	item := newTestItem(t, "Dune", domain.CategoryBook)
	require.NoError(t, s.CreateItem(ctx, item))

	item.Notes = "start with the first one"
	item.IsFavorite = true
	require.NoError(t, s.UpdateItem(ctx, item))

	retrieved, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "start with the first one", retrieved.Notes)
	assert.True(t, retrieved.IsFavorite)
}

func TestUpdateItem_PreservesDateAddedAndSeq(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	item := newTestItem(t, "Dune", domain.CategoryBook)
	require.NoError(t, s.CreateItem(ctx, item))

	created, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)

	// Attempt to tamper with immutable fields.
	item.DateAdded = created.DateAdded.AddDate(-1, 0, 0)
	item.Seq = created.Seq + 1000
	require.NoError(t, s.UpdateItem(ctx, item))

	retrieved, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, retrieved.DateAdded.Equal(created.DateAdded))
	assert.Equal(t, created.Seq, retrieved.Seq)
}

func TestUpdateItem_CategoryChangeMovesIndex(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	item := newTestItem(t, "Slow Horses", domain.CategoryBook)
	require.NoError(t, s.CreateItem(ctx, item))

	item.Category = domain.CategoryMovie
	require.NoError(t, s.UpdateItem(ctx, item))

	books, err := s.ListItemsByCategory(ctx, domain.CategoryBook)
	require.NoError(t, err)
	assert.Empty(t, books)

	movies, err := s.ListItemsByCategory(ctx, domain.CategoryMovie)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, item.ID, movies[0].ID)
}

func TestUpdateItem_MissingIsNoOp(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	item := newTestItem(t, "ghost", domain.CategoryHome)
	assert.NoError(t, s.UpdateItem(context.Background(), item))
}

func TestDeleteItem_Idempotent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	item := newTestItem(t, "Dune", domain.CategoryBook)
	require.NoError(t, s.CreateItem(ctx, item))

	require.NoError(t, s.DeleteItem(ctx, item.ID))
	_, err := s.GetItem(ctx, item.ID)
	assert.ErrorIs(t, err, store.ErrItemNotFound)

	// Second delete is a no-op, not an error.
	assert.NoError(t, s.DeleteItem(ctx, item.ID))

	books, err := s.ListItemsByCategory(ctx, domain.CategoryBook)
	require.NoError(t, err)
	assert.Empty(t, books)
}

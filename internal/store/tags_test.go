package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stashitapp/stashit-server/internal/domain"
	"github.com/stashitapp/stashit-server/internal/store"
)

func TestReconcileItemTags_Attach(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	item := newTestItem(t, "Banana Bread", domain.CategoryRecipe)
	require.NoError(t, s.CreateItem(ctx, item))

	require.NoError(t, s.ReconcileItemTags(ctx, item.ID, []string{"weekend", "baking"}))

	tags, err := s.GetTagsForItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "baking", tags[0].Name) // Ordered by name.
	assert.Equal(t, "weekend", tags[1].Name)
	assert.Equal(t, 1, tags[0].ItemCount)
}

func TestReconcileItemTags_DeduplicatesTagsByName(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	first := newTestItem(t, "Banana Bread", domain.CategoryRecipe)
	second := newTestItem(t, "Focaccia", domain.CategoryRecipe)
	require.NoError(t, s.CreateItem(ctx, first))
	require.NoError(t, s.CreateItem(ctx, second))

	require.NoError(t, s.ReconcileItemTags(ctx, first.ID, []string{"weekend"}))
	require.NoError(t, s.ReconcileItemTags(ctx, second.ID, []string{"weekend"}))

	// Exactly one tag named "weekend" referencing both items.
	all, err := s.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "weekend", all[0].Name)
	assert.Equal(t, 2, all[0].ItemCount)

	itemIDs, err := s.GetItemIDsForTag(ctx, "weekend")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{first.ID, second.ID}, itemIDs)
}

func TestReconcileItemTags_DetachReclaimsOrphan(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	item := newTestItem(t, "Banana Bread", domain.CategoryRecipe)
	require.NoError(t, s.CreateItem(ctx, item))

	require.NoError(t, s.ReconcileItemTags(ctx, item.ID, []string{"weekend", "baking"}))
	require.NoError(t, s.ReconcileItemTags(ctx, item.ID, []string{"baking"}))

	// "weekend" lost its only reference and is gone entirely.
	_, err := s.GetTagByName(ctx, "weekend")
	assert.ErrorIs(t, err, store.ErrTagNotFound)

	all, err := s.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "baking", all[0].Name)
}

func TestReconcileItemTags_SharedTagSurvivesDetach(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	first := newTestItem(t, "Banana Bread", domain.CategoryRecipe)
	second := newTestItem(t, "Focaccia", domain.CategoryRecipe)
	require.NoError(t, s.CreateItem(ctx, first))
	require.NoError(t, s.CreateItem(ctx, second))

	require.NoError(t, s.ReconcileItemTags(ctx, first.ID, []string{"weekend"}))
	require.NoError(t, s.ReconcileItemTags(ctx, second.ID, []string{"weekend"}))
	require.NoError(t, s.ReconcileItemTags(ctx, first.ID, nil))

	tag, err := s.GetTagByName(ctx, "weekend")
	require.NoError(t, err)
	assert.Equal(t, 1, tag.ItemCount)

	itemIDs, err := s.GetItemIDsForTag(ctx, "weekend")
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID}, itemIDs)
}

func TestReconcileItemTags_CaseSensitiveIdentity(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	item := newTestItem(t, "Banana Bread", domain.CategoryRecipe)
	require.NoError(t, s.CreateItem(ctx, item))

	require.NoError(t, s.ReconcileItemTags(ctx, item.ID, []string{"Weekend", "weekend"}))

	all, err := s.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteItem_ReclaimsTags(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	kept := newTestItem(t, "Focaccia", domain.CategoryRecipe)
	doomed := newTestItem(t, "Banana Bread", domain.CategoryRecipe)
	require.NoError(t, s.CreateItem(ctx, kept))
	require.NoError(t, s.CreateItem(ctx, doomed))

	require.NoError(t, s.ReconcileItemTags(ctx, kept.ID, []string{"baking"}))
	require.NoError(t, s.ReconcileItemTags(ctx, doomed.ID, []string{"baking", "weekend"}))

	require.NoError(t, s.DeleteItem(ctx, doomed.ID))

	// "weekend" was referenced only by the deleted item.
	_, err := s.GetTagByName(ctx, "weekend")
	assert.ErrorIs(t, err, store.ErrTagNotFound)

	// "baking" survives with corrected count.
	tag, err := s.GetTagByName(ctx, "baking")
	require.NoError(t, err)
	assert.Equal(t, 1, tag.ItemCount)
}

func TestGetItemIDsForTag_UnknownTag(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := s.GetItemIDsForTag(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrTagNotFound)
}

package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stashitapp/stashit-server/internal/domain"
	"github.com/stashitapp/stashit-server/internal/service"
	"github.com/stashitapp/stashit-server/internal/store"
)

func TestItemsForTagInStoreOrder(t *testing.T) {
	items, tags, _, _ := setupServices(t)
	ctx := context.Background()

	first, err := items.CreateItem(ctx, service.CreateItemInput{
		Title: "First", Category: domain.CategoryBook, Tags: []string{"weekend"},
	})
	require.NoError(t, err)
	second, err := items.CreateItem(ctx, service.CreateItemInput{
		Title: "Second", Category: domain.CategoryRecipe, Tags: []string{"weekend"},
	})
	require.NoError(t, err)

	got, err := tags.ItemsForTag(ctx, "weekend")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)
}

func TestItemsForTagUnknownName(t *testing.T) {
	_, tags, _, _ := setupServices(t)

	_, err := tags.ItemsForTag(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrTagNotFound)
}

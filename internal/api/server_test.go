package api

import (
	"encoding/json/jsontext"
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stashitapp/stashit-server/internal/config"
	"github.com/stashitapp/stashit-server/internal/query"
	"github.com/stashitapp/stashit-server/internal/search"
	"github.com/stashitapp/stashit-server/internal/service"
	"github.com/stashitapp/stashit-server/internal/store"
)

type testServer struct {
	*Server
	api humatest.TestAPI
}

// testEnvelope mirrors the wire envelope with raw data for per-test decoding.
type testEnvelope struct {
	Success bool           `json:"success"`
	Data    jsontext.Value `json:"data"`
	Error   string         `json:"error"`
	Code    string         `json:"code"`
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "api-test-*")
	require.NoError(t, err)

	st, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	idx, err := search.NewIndex(search.Options{DataPath: tmpDir})
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)

	services := &Services{
		Items: service.NewItemService(st, idx, logger),
		Tags:  service.NewTagService(st, logger),
		Query: query.NewEngine(query.Options{
			Store:             st,
			Search:            idx,
			RecentlyAddedDays: 7,
			Logger:            logger,
		}),
		Store:  st,
		Search: idx,
	}

	cfg := &config.Config{
		Server: config.ServerConfig{
			Name: "StashIt Test",
			// Generous limits so tests never trip the mutation limiter.
			MutationRPS:   1000,
			MutationBurst: 1000,
		},
	}

	s := NewServer(cfg, services, logger)

	t.Cleanup(func() {
		s.Close()
		_ = idx.Close()
		_ = st.Close()
		_ = os.RemoveAll(tmpDir)
	})

	return &testServer{Server: s, api: humatest.Wrap(t, s.api)}
}

func (ts *testServer) decode(t *testing.T, body []byte, out any) {
	t.Helper()

	var env testEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	require.True(t, env.Success, "expected success envelope, got error: %s", env.Error)
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func (ts *testServer) createItem(t *testing.T, body map[string]any) ItemResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/items", body)
	require.Equal(t, http.StatusOK, resp.Code, "create failed: %s", resp.Body.String())

	var item ItemResponse
	ts.decode(t, resp.Body.Bytes(), &item)
	return item
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var health HealthResponse
	ts.decode(t, resp.Body.Bytes(), &health)
	assert.Equal(t, "healthy", health.Status)
	assert.Contains(t, health.Components, "database")
	assert.Contains(t, health.Components, "search")
}

func TestListCategories(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/categories")
	require.Equal(t, http.StatusOK, resp.Code)

	var categories ListCategoriesResponse
	ts.decode(t, resp.Body.Bytes(), &categories)
	require.Len(t, categories.Categories, 10)
	assert.Equal(t, "recipe", categories.Categories[0].Key)
	assert.Equal(t, "hasBeenCooked", categories.Categories[0].CompletionFlag)
	assert.NotEmpty(t, categories.Categories[0].Flags)
}

func TestCreateAndGetItem(t *testing.T) {
	ts := setupTestServer(t)

	created := ts.createItem(t, map[string]any{
		"title":      "Chocolate Cake",
		"category":   "recipe",
		"source_url": "https://www.seriouseats.com/cake",
		"tags":       []string{"weekend"},
	})
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "seriouseats.com", created.SourceDomain)
	assert.Equal(t, []string{"weekend"}, created.Tags)

	resp := ts.api.Get("/api/v1/items/" + created.ID)
	require.Equal(t, http.StatusOK, resp.Code)

	var fetched ItemResponse
	ts.decode(t, resp.Body.Bytes(), &fetched)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Chocolate Cake", fetched.Title)
}

func TestCreateItemRejectsUnknownCategory(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/items", map[string]any{
		"title":    "Widget",
		"category": "gadgets",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var env testEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION", env.Code)
}

func TestGetMissingItemReturns404(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/items/item-missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUpdateItem(t *testing.T) {
	ts := setupTestServer(t)

	created := ts.createItem(t, map[string]any{
		"title":    "Dune",
		"category": "book",
	})

	resp := ts.api.Patch("/api/v1/items/"+created.ID, map[string]any{
		"notes": "start with the appendix",
		"tags":  []string{"sci-fi"},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var updated ItemResponse
	ts.decode(t, resp.Body.Bytes(), &updated)
	assert.Equal(t, "start with the appendix", updated.Notes)
	assert.Equal(t, []string{"sci-fi"}, updated.Tags)
}

func TestUpdateMissingItemIsNoOp(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Patch("/api/v1/items/item-missing", map[string]any{
		"notes": "whatever",
	})
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestDeleteItemIdempotent(t *testing.T) {
	ts := setupTestServer(t)

	created := ts.createItem(t, map[string]any{
		"title":    "Stalker",
		"category": "movie",
	})

	resp := ts.api.Delete("/api/v1/items/" + created.ID)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Delete("/api/v1/items/" + created.ID)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get("/api/v1/items/" + created.ID)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestToggleFlagAndFavorite(t *testing.T) {
	ts := setupTestServer(t)

	created := ts.createItem(t, map[string]any{
		"title":    "Shakshuka",
		"category": "recipe",
	})

	resp := ts.api.Post("/api/v1/items/" + created.ID + "/flags/hasBeenCooked/toggle")
	require.Equal(t, http.StatusOK, resp.Code)

	var item ItemResponse
	ts.decode(t, resp.Body.Bytes(), &item)
	assert.True(t, item.Flags["hasBeenCooked"])

	resp = ts.api.Post("/api/v1/items/" + created.ID + "/favorite/toggle")
	require.Equal(t, http.StatusOK, resp.Code)
	ts.decode(t, resp.Body.Bytes(), &item)
	assert.True(t, item.IsFavorite)
}

func TestSetRating(t *testing.T) {
	ts := setupTestServer(t)

	created := ts.createItem(t, map[string]any{
		"title":    "Dune",
		"category": "book",
	})

	resp := ts.api.Put("/api/v1/items/"+created.ID+"/rating", map[string]any{
		"value": 5,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var item ItemResponse
	ts.decode(t, resp.Body.Bytes(), &item)
	assert.Equal(t, "5", item.Metadata["rating"])

	resp = ts.api.Put("/api/v1/items/"+created.ID+"/rating", map[string]any{
		"value": 9,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestListCategoryItemsFilterAndSort(t *testing.T) {
	ts := setupTestServer(t)

	cooked := ts.createItem(t, map[string]any{"title": "Carbonara", "category": "recipe"})
	ts.createItem(t, map[string]any{"title": "Ramen", "category": "recipe"})

	resp := ts.api.Post("/api/v1/items/" + cooked.ID + "/flags/hasBeenCooked/toggle")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/categories/recipe/items?filter=incomplete&sort=title")
	require.Equal(t, http.StatusOK, resp.Code)

	var list ListItemsResponse
	ts.decode(t, resp.Body.Bytes(), &list)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Ramen", list.Items[0].Title)

	resp = ts.api.Get("/api/v1/categories/recipe/items?q=carb")
	require.Equal(t, http.StatusOK, resp.Code)
	ts.decode(t, resp.Body.Bytes(), &list)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Carbonara", list.Items[0].Title)

	resp = ts.api.Get("/api/v1/categories/gadgets/items")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestSmartViewEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	ts.createItem(t, map[string]any{"title": "Shakshuka", "category": "recipe"})
	ts.createItem(t, map[string]any{"title": "Dune", "category": "book"})

	resp := ts.api.Get("/api/v1/views/uncooked-recipes")
	require.Equal(t, http.StatusOK, resp.Code)

	var list ListItemsResponse
	ts.decode(t, resp.Body.Bytes(), &list)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Shakshuka", list.Items[0].Title)

	resp = ts.api.Get("/api/v1/views/nonsense")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestSearchEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	ts.createItem(t, map[string]any{"title": "Chocolate Cake", "category": "recipe"})
	ts.createItem(t, map[string]any{"title": "Lemon Tart", "category": "recipe"})

	resp := ts.api.Get("/api/v1/search?q=choc")
	require.Equal(t, http.StatusOK, resp.Code)

	var list ListItemsResponse
	ts.decode(t, resp.Body.Bytes(), &list)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Chocolate Cake", list.Items[0].Title)

	// Blank query matches nothing.
	resp = ts.api.Get("/api/v1/search?q=")
	require.Equal(t, http.StatusOK, resp.Code)
	ts.decode(t, resp.Body.Bytes(), &list)
	assert.Equal(t, 0, list.Total)
}

func TestTagEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	ts.createItem(t, map[string]any{"title": "First", "category": "book", "tags": []string{"weekend"}})
	ts.createItem(t, map[string]any{"title": "Second", "category": "recipe", "tags": []string{"weekend", "quick"}})

	resp := ts.api.Get("/api/v1/tags")
	require.Equal(t, http.StatusOK, resp.Code)

	var tags ListTagsResponse
	ts.decode(t, resp.Body.Bytes(), &tags)
	require.Len(t, tags.Tags, 2)
	// Sorted by name.
	assert.Equal(t, "quick", tags.Tags[0].Name)
	assert.Equal(t, "weekend", tags.Tags[1].Name)
	assert.Equal(t, 2, tags.Tags[1].ItemCount)

	resp = ts.api.Get("/api/v1/tags/weekend/items")
	require.Equal(t, http.StatusOK, resp.Code)

	var list ListItemsResponse
	ts.decode(t, resp.Body.Bytes(), &list)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "First", list.Items[0].Title)

	resp = ts.api.Get("/api/v1/tags/nope/items")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

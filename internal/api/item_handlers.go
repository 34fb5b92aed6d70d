package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/stashitapp/stashit-server/internal/domain"
	"github.com/stashitapp/stashit-server/internal/service"
)

func (s *Server) registerItemRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createItem",
		Method:      http.MethodPost,
		Path:        "/api/v1/items",
		Summary:     "Create item",
		Description: "Saves a new item into its category",
		Tags:        []string{"Items"},
	}, s.handleCreateItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "listItems",
		Method:      http.MethodGet,
		Path:        "/api/v1/items",
		Summary:     "List items",
		Description: "Returns all items in the order they were saved",
		Tags:        []string{"Items"},
	}, s.handleListItems)

	huma.Register(s.api, huma.Operation{
		OperationID: "getItem",
		Method:      http.MethodGet,
		Path:        "/api/v1/items/{id}",
		Summary:     "Get item",
		Tags:        []string{"Items"},
	}, s.handleGetItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateItem",
		Method:      http.MethodPatch,
		Path:        "/api/v1/items/{id}",
		Summary:     "Update item",
		Description: "Edits item fields; updating a missing item is a no-op",
		Tags:        []string{"Items"},
	}, s.handleUpdateItem)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteItem",
		Method:        http.MethodDelete,
		Path:          "/api/v1/items/{id}",
		Summary:       "Delete item",
		Description:   "Removes an item; deleting a missing item is a no-op",
		Tags:          []string{"Items"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleItemFlag",
		Method:      http.MethodPost,
		Path:        "/api/v1/items/{id}/flags/{key}/toggle",
		Summary:     "Toggle item flag",
		Description: "Flips a status flag; an absent flag toggles to true",
		Tags:        []string{"Items"},
	}, s.handleToggleFlag)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleItemFavorite",
		Method:      http.MethodPost,
		Path:        "/api/v1/items/{id}/favorite/toggle",
		Summary:     "Toggle favorite",
		Tags:        []string{"Items"},
	}, s.handleToggleFavorite)

	huma.Register(s.api, huma.Operation{
		OperationID: "setItemRating",
		Method:      http.MethodPut,
		Path:        "/api/v1/items/{id}/rating",
		Summary:     "Set rating",
		Description: "Stores a 0-5 rating on the item",
		Tags:        []string{"Items"},
	}, s.handleSetRating)
}

// ItemResponse is the wire representation of an item.
type ItemResponse struct {
	ID           string            `json:"id" doc:"Item ID"`
	Title        string            `json:"title" doc:"Item title"`
	Category     string            `json:"category" doc:"Category key"`
	SourceURL    string            `json:"source_url,omitempty" doc:"Where the item was found"`
	SourceDomain string            `json:"source_domain,omitempty" doc:"Host of the source URL"`
	ImageURL     string            `json:"image_url,omitempty" doc:"Preview image URL"`
	Notes        string            `json:"notes,omitempty" doc:"Free-form notes"`
	IsFavorite   bool              `json:"is_favorite" doc:"Favorite marker"`
	Tags         []string          `json:"tags" doc:"Tag names in insertion order"`
	Flags        map[string]bool   `json:"flags" doc:"Status flags"`
	Metadata     map[string]string `json:"metadata" doc:"String metadata, including ratings"`
	DateAdded    time.Time         `json:"date_added" doc:"When the item was saved"`
	UpdatedAt    time.Time         `json:"updated_at" doc:"Last modification time"`
}

type CreateItemRequest struct {
	Title     string   `json:"title" minLength:"1" maxLength:"500" doc:"Item title"`
	Category  string   `json:"category" doc:"Category key"`
	SourceURL string   `json:"source_url,omitempty" doc:"Where the item was found"`
	ImageURL  string   `json:"image_url,omitempty" doc:"Preview image URL"`
	Notes     string   `json:"notes,omitempty" doc:"Free-form notes"`
	Tags      []string `json:"tags,omitempty" doc:"Tag names"`
}

type CreateItemInput struct {
	Body CreateItemRequest
}

type ItemOutput struct {
	Body ItemResponse
}

type ListItemsResponse struct {
	Items []ItemResponse `json:"items" doc:"Items in store order"`
	Total int            `json:"total" doc:"Item count"`
}

type ListItemsOutput struct {
	Body ListItemsResponse
}

type GetItemInput struct {
	ID string `path:"id" doc:"Item ID"`
}

type UpdateItemRequest struct {
	Title     *string  `json:"title,omitempty" doc:"Item title"`
	Category  *string  `json:"category,omitempty" doc:"Category key"`
	SourceURL *string  `json:"source_url,omitempty" doc:"Where the item was found"`
	ImageURL  *string  `json:"image_url,omitempty" doc:"Preview image URL"`
	Notes     *string  `json:"notes,omitempty" doc:"Free-form notes"`
	Tags      []string `json:"tags,omitempty" doc:"Replacement tag set; omit to keep current tags"`
}

type UpdateItemInput struct {
	ID   string `path:"id" doc:"Item ID"`
	Body UpdateItemRequest
}

type UpdateItemOutput struct {
	Body *ItemResponse
}

type DeleteItemInput struct {
	ID string `path:"id" doc:"Item ID"`
}

type ToggleFlagInput struct {
	ID  string `path:"id" doc:"Item ID"`
	Key string `path:"key" doc:"Flag key"`
}

type SetRatingRequest struct {
	Key   string `json:"key,omitempty" doc:"Metadata key, defaults to \"rating\""`
	Value int    `json:"value" minimum:"0" maximum:"5" doc:"Rating value"`
}

type SetRatingInput struct {
	ID   string `path:"id" doc:"Item ID"`
	Body SetRatingRequest
}

// === Handlers ===

func (s *Server) handleCreateItem(ctx context.Context, input *CreateItemInput) (*ItemOutput, error) {
	item, err := s.services.Items.CreateItem(ctx, service.CreateItemInput{
		Title:     input.Body.Title,
		Category:  domain.Category(input.Body.Category),
		SourceURL: input.Body.SourceURL,
		ImageURL:  input.Body.ImageURL,
		Notes:     input.Body.Notes,
		Tags:      input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	return &ItemOutput{Body: mapItemResponse(item)}, nil
}

func (s *Server) handleListItems(ctx context.Context, _ *struct{}) (*ListItemsOutput, error) {
	items, err := s.services.Items.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	return &ListItemsOutput{Body: mapItemsResponse(items)}, nil
}

func (s *Server) handleGetItem(ctx context.Context, input *GetItemInput) (*ItemOutput, error) {
	item, err := s.services.Items.GetItem(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ItemOutput{Body: mapItemResponse(item)}, nil
}

func (s *Server) handleUpdateItem(ctx context.Context, input *UpdateItemInput) (*UpdateItemOutput, error) {
	var category *domain.Category
	if input.Body.Category != nil {
		c := domain.Category(*input.Body.Category)
		category = &c
	}

	item, err := s.services.Items.UpdateItem(ctx, input.ID, service.UpdateItemInput{
		Title:     input.Body.Title,
		Category:  category,
		SourceURL: input.Body.SourceURL,
		ImageURL:  input.Body.ImageURL,
		Notes:     input.Body.Notes,
		Tags:      input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}
	if item == nil {
		// The item is gone; the update had nothing to do.
		return &UpdateItemOutput{}, nil
	}

	resp := mapItemResponse(item)
	return &UpdateItemOutput{Body: &resp}, nil
}

func (s *Server) handleDeleteItem(ctx context.Context, input *DeleteItemInput) (*struct{}, error) {
	if err := s.services.Items.DeleteItem(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleToggleFlag(ctx context.Context, input *ToggleFlagInput) (*ItemOutput, error) {
	item, err := s.services.Items.ToggleFlag(ctx, input.ID, input.Key)
	if err != nil {
		return nil, err
	}

	return &ItemOutput{Body: mapItemResponse(item)}, nil
}

func (s *Server) handleToggleFavorite(ctx context.Context, input *GetItemInput) (*ItemOutput, error) {
	item, err := s.services.Items.ToggleFavorite(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ItemOutput{Body: mapItemResponse(item)}, nil
}

func (s *Server) handleSetRating(ctx context.Context, input *SetRatingInput) (*ItemOutput, error) {
	item, err := s.services.Items.SetRating(ctx, input.ID, input.Body.Key, input.Body.Value)
	if err != nil {
		return nil, err
	}

	return &ItemOutput{Body: mapItemResponse(item)}, nil
}

func mapItemResponse(item *domain.Item) ItemResponse {
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}
	return ItemResponse{
		ID:           item.ID,
		Title:        item.Title,
		Category:     string(item.Category),
		SourceURL:    item.SourceURL,
		SourceDomain: item.SourceDomain(),
		ImageURL:     item.ImageURL,
		Notes:        item.Notes,
		IsFavorite:   item.IsFavorite,
		Tags:         tags,
		Flags:        item.Flags,
		Metadata:     item.Metadata,
		DateAdded:    item.DateAdded,
		UpdatedAt:    item.UpdatedAt,
	}
}

func mapItemsResponse(items []*domain.Item) ListItemsResponse {
	resp := make([]ItemResponse, len(items))
	for i, item := range items {
		resp[i] = mapItemResponse(item)
	}
	return ListItemsResponse{Items: resp, Total: len(resp)}
}

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/stashitapp/stashit-server/internal/domain"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns all tags sorted by name",
		Tags:        []string{"Tags"},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTagItems",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{name}/items",
		Summary:     "Get tag items",
		Description: "Returns the items carrying the named tag in store order",
		Tags:        []string{"Tags"},
	}, s.handleGetTagItems)
}

// TagResponse is the wire representation of a tag.
type TagResponse struct {
	ID        string    `json:"id" doc:"Tag ID"`
	Name      string    `json:"name" doc:"Tag name"`
	ItemCount int       `json:"item_count" doc:"Number of items carrying the tag"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

type ListTagsResponse struct {
	Tags []TagResponse `json:"tags" doc:"Tags sorted by name"`
}

type ListTagsOutput struct {
	Body ListTagsResponse
}

type GetTagItemsInput struct {
	Name string `path:"name" doc:"Tag name (case-sensitive)"`
}

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*ListTagsOutput, error) {
	tags, err := s.services.Tags.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]TagResponse, len(tags))
	for i, t := range tags {
		resp[i] = mapTagResponse(t)
	}
	return &ListTagsOutput{Body: ListTagsResponse{Tags: resp}}, nil
}

func (s *Server) handleGetTagItems(ctx context.Context, input *GetTagItemsInput) (*ListItemsOutput, error) {
	items, err := s.services.Tags.ItemsForTag(ctx, input.Name)
	if err != nil {
		return nil, err
	}

	return &ListItemsOutput{Body: mapItemsResponse(items)}, nil
}

func mapTagResponse(t *domain.Tag) TagResponse {
	return TagResponse{
		ID:        t.ID,
		Name:      t.Name,
		ItemCount: t.ItemCount,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

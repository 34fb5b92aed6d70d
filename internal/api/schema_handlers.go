package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/stashitapp/stashit-server/internal/domain"
	"github.com/stashitapp/stashit-server/internal/query"
)

func (s *Server) registerSchemaRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Description: "Returns the category registry: display info and flag definitions",
		Tags:        []string{"Categories"},
	}, s.handleListCategories)
}

// CategoryResponse describes one category's schema.
type CategoryResponse struct {
	Key            string                  `json:"key" doc:"Category key"`
	Icon           string                  `json:"icon" doc:"Display icon"`
	Color          string                  `json:"color" doc:"Display color token"`
	Flags          []domain.FlagDefinition `json:"flags" doc:"Flag definitions in display order"`
	CompletionFlag string                  `json:"completion_flag" doc:"Flag that marks items complete"`
}

type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories" doc:"Categories in display order"`
}

type ListCategoriesOutput struct {
	Body ListCategoriesResponse
}

func (s *Server) handleListCategories(_ context.Context, _ *struct{}) (*ListCategoriesOutput, error) {
	categories := domain.Categories()
	resp := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		display := domain.DisplayInfoFor(c)
		resp[i] = CategoryResponse{
			Key:            string(c),
			Icon:           display.Icon,
			Color:          display.Color,
			Flags:          domain.FlagsFor(c),
			CompletionFlag: query.CompletionFlag(c),
		}
	}

	return &ListCategoriesOutput{Body: ListCategoriesResponse{Categories: resp}}, nil
}

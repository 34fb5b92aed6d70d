package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/stashitapp/stashit-server/internal/domain"
	apperrors "github.com/stashitapp/stashit-server/internal/errors"
	"github.com/stashitapp/stashit-server/internal/query"
)

func (s *Server) registerQueryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCategoryItems",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories/{category}/items",
		Summary:     "List category items",
		Description: "Returns one category's items, narrowed by filter and search text, then sorted",
		Tags:        []string{"Queries"},
	}, s.handleListCategoryItems)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSmartView",
		Method:      http.MethodGet,
		Path:        "/api/v1/views/{view}",
		Summary:     "Evaluate smart view",
		Description: "Returns the items currently matching one of the fixed smart views",
		Tags:        []string{"Queries"},
	}, s.handleSmartView)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchItems",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search items",
		Description: "Case-insensitive substring search over titles and notes; blank query matches nothing",
		Tags:        []string{"Queries"},
	}, s.handleSearch)
}

type ListCategoryItemsInput struct {
	Category string `path:"category" doc:"Category key"`
	Filter   string `query:"filter" enum:"all,incomplete,complete,favorites" required:"false" doc:"Status filter, defaults to all"`
	Q        string `query:"q" doc:"Search text narrowing the filtered set"`
	Sort     string `query:"sort" enum:"date_added,title,favorite" required:"false" doc:"Sort order, defaults to date_added"`
}

type SmartViewInput struct {
	View string `path:"view" doc:"Smart view key"`
	Sort string `query:"sort" enum:"date_added,title,favorite" required:"false" doc:"Sort order, defaults to date_added"`
}

type SearchInput struct {
	Q string `query:"q" doc:"Search text"`
}

func (s *Server) handleListCategoryItems(ctx context.Context, input *ListCategoryItemsInput) (*ListItemsOutput, error) {
	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return nil, apperrors.Validationf("unknown category %q", input.Category)
	}
	filter, err := query.ParseFilter(input.Filter)
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	sortOpt, err := query.ParseSortOption(input.Sort)
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	items, err := s.services.Query.List(ctx, category, query.ListOptions{
		Filter:     filter,
		SearchText: input.Q,
		Sort:       sortOpt,
	})
	if err != nil {
		return nil, err
	}

	return &ListItemsOutput{Body: mapItemsResponse(items)}, nil
}

func (s *Server) handleSmartView(ctx context.Context, input *SmartViewInput) (*ListItemsOutput, error) {
	view, err := query.ParseSmartView(input.View)
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	sortOpt, err := query.ParseSortOption(input.Sort)
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	items, err := s.services.Query.SmartView(ctx, view, sortOpt)
	if err != nil {
		return nil, err
	}

	return &ListItemsOutput{Body: mapItemsResponse(items)}, nil
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*ListItemsOutput, error) {
	items, err := s.services.Query.Search(ctx, input.Q)
	if err != nil {
		return nil, err
	}

	return &ListItemsOutput{Body: mapItemsResponse(items)}, nil
}

package resources

import (
	"context"

	"github.com/chino-io/chino-go/internal/api"
)

// FilterClause is one field comparison in a search query.
type FilterClause struct {
	Field string `json:"field"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// SortClause orders search results by one field.
type SortClause struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

// SearchQuery is a filter set evaluated against one schema.
type SearchQuery struct {
	SchemaID   string
	ResultType string
	FilterType string
	Filters    []FilterClause
	Sort       []SortClause
}

// APIPayload shapes the query for the search endpoint. Result and
// filter types default to FULL_CONTENT and "and".
func (q SearchQuery) APIPayload() any {
	resultType := q.ResultType
	if resultType == "" {
		resultType = "FULL_CONTENT"
	}
	filterType := q.FilterType
	if filterType == "" {
		filterType = "and"
	}
	sort := q.Sort
	if sort == nil {
		sort = []SortClause{}
	}
	return map[string]any{
		"schema_id":   q.SchemaID,
		"result_type": resultType,
		"filter_type": filterType,
		"filters":     q.Filters,
		"sort":        sort,
	}
}

// Search exposes the document search endpoint.
type Search struct {
	client *api.Client
}

// NewSearch creates the search module.
func NewSearch(client *api.Client) *Search {
	return &Search{client: client}
}

// Documents runs a query and returns one page of matching documents.
func (s *Search) Documents(ctx context.Context, query SearchQuery, opts ListOptions) ([]Document, *api.Page, error) {
	spec := api.Spec{
		Verb:   api.VerbPost,
		Path:   "search",
		Params: opts.values(),
		Body:   query,
	}
	data, err := s.client.Call(ctx, spec)
	if err != nil {
		return nil, nil, err
	}
	var items []Document
	page, err := listPage(data, "documents", &items)
	if err != nil {
		return nil, nil, err
	}
	return items, page, nil
}

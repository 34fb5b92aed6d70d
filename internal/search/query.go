package search

import (
	"context"
	"strings"

	"github.com/blevesearch/bleve/v2"
)

// searchPageSize bounds a single request to the index; SearchIDs pages
// through results so callers always see the full match set.
const searchPageSize = 500

// SearchIDs returns the IDs of all items whose title or notes contain the
// given text, case-insensitively. An empty or whitespace-only query returns
// no results: search never means "show everything".
func (s *Index) SearchIDs(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	pattern := "*" + escapeWildcard(strings.ToLower(text)) + "*"

	titleQuery := bleve.NewWildcardQuery(pattern)
	titleQuery.SetField("title")
	notesQuery := bleve.NewWildcardQuery(pattern)
	notesQuery.SetField("notes")

	searchQuery := bleve.NewDisjunctionQuery(titleQuery, notesQuery)

	var ids []string
	for from := 0; ; from += searchPageSize {
		req := bleve.NewSearchRequestOptions(searchQuery, searchPageSize, from, false)
		result, err := s.index.SearchInContext(ctx, req)
		if err != nil {
			return nil, err
		}
		for _, hit := range result.Hits {
			ids = append(ids, hit.ID)
		}
		if from+len(result.Hits) >= int(result.Total) || len(result.Hits) == 0 {
			break
		}
	}
	return ids, nil
}

// escapeWildcard escapes Bleve wildcard metacharacters in user input so the
// query matches them literally.
func escapeWildcard(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)
	return replacer.Replace(s)
}

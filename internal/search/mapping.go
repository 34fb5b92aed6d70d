package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/single"
	"github.com/blevesearch/bleve/v2/mapping"
)

// substringAnalyzer treats a whole field as one lowercased term so wildcard
// queries behave as case-insensitive substring matches.
const substringAnalyzer = "substring"

// buildIndexMapping creates the Bleve index mapping for item documents.
func buildIndexMapping() (mapping.IndexMapping, error) {
	indexMapping := bleve.NewIndexMapping()

	err := indexMapping.AddCustomAnalyzer(substringAnalyzer, map[string]any{
		"type":          custom.Name,
		"tokenizer":     single.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, err
	}

	docMapping := bleve.NewDocumentMapping()

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = substringAnalyzer
	titleFieldMapping.Store = false
	titleFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	notesFieldMapping := bleve.NewTextFieldMapping()
	notesFieldMapping.Analyzer = substringAnalyzer
	notesFieldMapping.Store = false
	notesFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt("notes", notesFieldMapping)

	// Exact keyword fields for type and category filters.
	typeFieldMapping := bleve.NewTextFieldMapping()
	typeFieldMapping.Analyzer = keyword.Name
	typeFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt("type", typeFieldMapping)

	categoryFieldMapping := bleve.NewTextFieldMapping()
	categoryFieldMapping.Analyzer = keyword.Name
	categoryFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt("category", categoryFieldMapping)

	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = substringAnalyzer

	return indexMapping, nil
}

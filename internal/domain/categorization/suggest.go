package categorization

import (
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

// merchantDocument is the indexed shape of one canonical merchant.
type merchantDocument struct {
	Name   string `json:"name"`
	Source string `json:"source"` // "static" or "learned"
}

// SuggestIndex ranks merchant names for correction UIs using an
// in-memory Bleve index, with a pure fuzzy ranking as fallback when the
// index returns nothing.
type SuggestIndex struct {
	index      bleve.Index
	indexMu    sync.RWMutex
	candidates []Suggestion
}

// NewSuggestIndex builds an in-memory index over the given canonical
// merchant names: the static normalizer table plus learned mapping
// targets.
func NewSuggestIndex(static, learned []string) (*SuggestIndex, error) {
	index, err := bleve.NewMemOnly(buildSuggestMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create suggestion index: %w", err)
	}

	si := &SuggestIndex{index: index}

	batch := index.NewBatch()
	for _, name := range static {
		doc := merchantDocument{Name: name, Source: "static"}
		si.candidates = append(si.candidates, Suggestion{Name: name, Source: "static"})
		if err := batch.Index("static_"+name, doc); err != nil {
			return nil, fmt.Errorf("failed to index merchant %q: %w", name, err)
		}
	}
	for _, name := range learned {
		doc := merchantDocument{Name: name, Source: "learned"}
		si.candidates = append(si.candidates, Suggestion{Name: name, Source: "learned"})
		if err := batch.Index("learned_"+name, doc); err != nil {
			return nil, fmt.Errorf("failed to index merchant %q: %w", name, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		return nil, fmt.Errorf("failed to execute batch index: %w", err)
	}

	return si, nil
}

func buildSuggestMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = simple.Name

	keywordFieldMapping := bleve.NewTextFieldMapping()
	keywordFieldMapping.Analyzer = keyword.Name

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("name", textFieldMapping)
	docMapping.AddFieldMappingsAt("source", keywordFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = simple.Name
	return indexMapping
}

// AddLearned indexes a newly learned canonical name so suggestions pick
// it up without a rebuild.
func (si *SuggestIndex) AddLearned(name string) error {
	si.indexMu.Lock()
	defer si.indexMu.Unlock()

	si.candidates = append(si.candidates, Suggestion{Name: name, Source: "learned"})
	return si.index.Index("learned_"+name, merchantDocument{Name: name, Source: "learned"})
}

// Suggest returns up to limit merchant candidates for a query, ranked by
// index score. A match query with typo tolerance runs first, then a
// prefix query for autocomplete-style input; when neither hits, the
// fuzzy ranker scores the full candidate list.
func (si *SuggestIndex) Suggest(query string, limit int) ([]Suggestion, error) {
	si.indexMu.RLock()
	defer si.indexMu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	matchQuery := bleve.NewMatchQuery(query)
	matchQuery.SetFuzziness(1)
	results, err := si.runQuery(matchQuery, limit)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		return results, nil
	}

	results, err = si.runQuery(bleve.NewPrefixQuery(query), limit)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		return results, nil
	}

	return rankFuzzy(query, si.candidates, limit), nil
}

func (si *SuggestIndex) runQuery(q query.Query, limit int) ([]Suggestion, error) {
	searchRequest := bleve.NewSearchRequest(q)
	searchRequest.Size = limit
	searchRequest.Fields = []string{"name", "source"}

	searchResults, err := si.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("suggestion search failed: %w", err)
	}

	results := make([]Suggestion, 0, len(searchResults.Hits))
	for _, hit := range searchResults.Hits {
		s := Suggestion{Score: hit.Score}
		if name, ok := hit.Fields["name"].(string); ok {
			s.Name = name
		}
		if source, ok := hit.Fields["source"].(string); ok {
			s.Source = source
		}
		results = append(results, s)
	}
	return results, nil
}

// Close releases the index.
func (si *SuggestIndex) Close() error {
	si.indexMu.Lock()
	defer si.indexMu.Unlock()
	return si.index.Close()
}

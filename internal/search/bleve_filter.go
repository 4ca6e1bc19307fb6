package search

import (
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/mymeals/internal/mealdb"
)

// BleveFilter matches meals through an in-memory bleve index that is
// rebuilt on every Reset.
type BleveFilter struct {
	mu    sync.RWMutex
	idx   bleve.Index
	meals []mealdb.Meal
}

func NewBleveFilter() (*BleveFilter, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, err
	}
	return &BleveFilter{idx: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()
	for name := range fieldWeights {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = standard.Name
		fm.Store = false
		fm.IncludeTermVectors = name == "name"
		dm.AddFieldMappingsAt(name, fm)
	}

	im.DefaultMapping = dm
	return im
}

// Reset indexes meals into a fresh index. Documents are keyed by corpus
// position so blank or repeated meal IDs still index.
func (b *BleveFilter) Reset(meals []mealdb.Meal) error {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return err
	}

	batch := idx.NewBatch()
	for i := range meals {
		doc := make(map[string]any, len(fieldWeights))
		for name, text := range mealFields(&meals[i]) {
			doc[name] = text
		}
		if err := batch.Index(strconv.Itoa(i), doc); err != nil {
			_ = idx.Close()
			return err
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return err
	}

	b.mu.Lock()
	old := b.idx
	b.idx = idx
	b.meals = meals
	b.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return nil
}

// Match requires every term to match some field, either as an analysed
// word or as a prefix.
func (b *BleveFilter) Match(query string) ([]int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	terms := tokenize(query)
	if len(terms) == 0 || b.idx == nil {
		return all(len(b.meals)), nil
	}
	if len(b.meals) == 0 {
		return []int{}, nil
	}

	perTerm := make([]bleveQuery.Query, 0, len(terms))
	for _, term := range terms {
		var qs []bleveQuery.Query
		for name, weight := range fieldWeights {
			qm := bleve.NewMatchQuery(term)
			qm.SetField(name)
			qm.SetBoost(weight)
			qs = append(qs, qm)

			qp := bleve.NewPrefixQuery(strings.ToLower(term))
			qp.SetField(name)
			qp.SetBoost(weight * 0.9)
			qs = append(qs, qp)
		}
		perTerm = append(perTerm, bleve.NewDisjunctionQuery(qs...))
	}

	req := bleve.NewSearchRequestOptions(bleve.NewConjunctionQuery(perTerm...), len(b.meals), 0, false)
	res, err := b.idx.Search(req)
	if err != nil {
		return nil, err
	}

	matched := make([]bool, len(b.meals))
	for _, h := range res.Hits {
		if i, err := strconv.Atoi(h.ID); err == nil && i >= 0 && i < len(matched) {
			matched[i] = true
		}
	}

	out := []int{}
	for i, ok := range matched {
		if ok {
			out = append(out, i)
		}
	}
	return out, nil
}

// DocCount reports total documents in the index.
func (b *BleveFilter) DocCount() (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.idx == nil {
		return 0, nil
	}
	n, err := b.idx.DocCount()
	return int(n), err
}

func (b *BleveFilter) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.idx == nil {
		return nil
	}
	err := b.idx.Close()
	b.idx = nil
	b.meals = nil
	return err
}

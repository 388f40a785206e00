package knowledge

import (
	"fmt"

	"github.com/typesense/typesense-go/v4/typesense"
)

// Registry maps category names to their index. It is built once at startup
// and read-only afterwards.
type Registry struct {
	indexes map[string]Index
}

// NewRegistry requires an index for GeneralCategory. Category names are
// matched case-insensitively.
func NewRegistry(indexes map[string]Index) (*Registry, error) {
	normalized := make(map[string]Index, len(indexes))
	for category, idx := range indexes {
		normalized[normalizeCategory(category)] = idx
	}
	if normalized[GeneralCategory] == nil {
		return nil, ErrNoGeneralIndex
	}
	return &Registry{indexes: normalized}, nil
}

// NewMemoryRegistry builds in-process indexes from kb.
func NewMemoryRegistry(kb *KnowledgeBase) (*Registry, error) {
	indexes := make(map[string]Index, len(kb.Categories))
	for category, docs := range kb.Categories {
		indexes[category] = NewMemoryIndex(docs)
	}
	return NewRegistry(indexes)
}

// NewTypesenseRegistry points every category at its Typesense collection.
// Collections are expected to exist; see Seed.
func NewTypesenseRegistry(client *typesense.Client, prefix, queryBy string, categories []string) (*Registry, error) {
	indexes := make(map[string]Index, len(categories))
	for _, category := range categories {
		indexes[category] = NewTypesenseIndex(client, CollectionName(prefix, category), queryBy)
	}
	reg, err := NewRegistry(indexes)
	if err != nil {
		return nil, fmt.Errorf("building typesense registry: %w", err)
	}
	return reg, nil
}

func (r *Registry) Lookup(category string) (Index, bool) {
	idx, ok := r.indexes[normalizeCategory(category)]
	return idx, ok
}

func (r *Registry) General() Index {
	return r.indexes[GeneralCategory]
}

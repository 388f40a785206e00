package knowledge

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	DefaultSpecificK = 3
	DefaultGeneralK  = 1
)

type Options struct {
	SpecificK int // results from the ticket's category index
	GeneralK  int // general results appended after them
}

// Retriever blends category-specific snippets with general ones.
type Retriever struct {
	registry  *Registry
	specificK int
	generalK  int
}

func NewRetriever(registry *Registry, opts Options) *Retriever {
	if opts.SpecificK <= 0 {
		opts.SpecificK = DefaultSpecificK
	}
	if opts.GeneralK <= 0 {
		opts.GeneralK = DefaultGeneralK
	}
	return &Retriever{registry: registry, specificK: opts.SpecificK, generalK: opts.GeneralK}
}

// Retrieve returns the top SpecificK snippets of the category's index followed
// by the top GeneralK general snippets. Duplicates are kept. A category with
// no index is answered by the general index alone, with SpecificK results.
func (r *Retriever) Retrieve(ctx context.Context, category, query string) ([]string, error) {
	key := normalizeCategory(category)

	idx, ok := r.registry.Lookup(key)
	if !ok {
		slog.WarnContext(ctx, "no index for category, using general", "category", category)
		results, err := r.registry.General().Search(ctx, query, r.specificK)
		if err != nil {
			return nil, fmt.Errorf("searching general index: %w", err)
		}
		return results, nil
	}

	results, err := idx.Search(ctx, query, r.specificK)
	if err != nil {
		return nil, fmt.Errorf("searching %s index: %w", key, err)
	}
	if key == GeneralCategory {
		return results, nil
	}

	general, err := r.registry.General().Search(ctx, query, r.generalK)
	if err != nil {
		return nil, fmt.Errorf("searching general index: %w", err)
	}

	slog.DebugContext(ctx, "context blended",
		"category", key,
		"specific", len(results),
		"general", len(general))
	return append(results, general...), nil
}

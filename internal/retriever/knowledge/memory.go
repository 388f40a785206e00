package knowledge

import (
	"context"
	"sort"
	"strings"
	"unicode"
)

// MemoryIndex ranks documents by how many distinct query terms they share.
// Ties keep document order, so an unrelated query returns the first k
// documents.
type MemoryIndex struct {
	docs  []string
	terms []map[string]struct{}
}

func NewMemoryIndex(docs []string) *MemoryIndex {
	idx := &MemoryIndex{
		docs:  append([]string(nil), docs...),
		terms: make([]map[string]struct{}, len(docs)),
	}
	for i, doc := range docs {
		idx.terms[i] = termSet(doc)
	}
	return idx
}

func (m *MemoryIndex) Search(ctx context.Context, query string, k int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 || len(m.docs) == 0 {
		return nil, nil
	}

	queryTerms := termSet(query)
	type scored struct {
		pos   int
		score int
	}
	ranked := make([]scored, len(m.docs))
	for i, terms := range m.terms {
		score := 0
		for term := range queryTerms {
			if _, ok := terms[term]; ok {
				score++
			}
		}
		ranked[i] = scored{pos: i, score: score}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	k = min(k, len(ranked))
	results := make([]string, k)
	for i := range k {
		results[i] = m.docs[ranked[i].pos]
	}
	return results, nil
}

func (m *MemoryIndex) Len() int {
	return len(m.docs)
}

func termSet(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if len(f) < 3 || stopWords[f] {
			continue
		}
		set[f] = struct{}{}
	}
	return set
}

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "you": true, "your": true,
	"with": true, "can": true, "not": true, "this": true, "that": true, "from": true,
	"have": true, "has": true, "was": true, "but": true, "all": true, "our": true,
	"get": true, "any": true, "how": true, "what": true, "when": true, "will": true,
}

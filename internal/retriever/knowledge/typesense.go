package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/typesense/typesense-go/v4/typesense"
	"github.com/typesense/typesense-go/v4/typesense/api"
	"github.com/typesense/typesense-go/v4/typesense/api/pointer"

	"basegraph.app/helpdesk/core/config"
)

const contentField = "content"

func NewTypesenseClient(cfg config.TypesenseConfig) *typesense.Client {
	return typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(cfg.Timeout),
	)
}

// CollectionName is the Typesense collection holding one category.
func CollectionName(prefix, category string) string {
	return prefix + "_" + normalizeCategory(category)
}

// TypesenseIndex searches one Typesense collection.
type TypesenseIndex struct {
	client     *typesense.Client
	collection string
	queryBy    string
}

func NewTypesenseIndex(client *typesense.Client, collection, queryBy string) *TypesenseIndex {
	if queryBy == "" {
		queryBy = contentField
	}
	return &TypesenseIndex{client: client, collection: collection, queryBy: queryBy}
}

func (t *TypesenseIndex) Search(ctx context.Context, query string, k int) ([]string, error) {
	if k <= 0 {
		return nil, nil
	}

	result, err := t.client.Collection(t.collection).Documents().Search(ctx, &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String(t.queryBy),
		PerPage: pointer.Int(k),
	})
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", t.collection, err)
	}
	if result.Hits == nil {
		return nil, nil
	}

	snippets := make([]string, 0, len(*result.Hits))
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		if content, ok := (*hit.Document)[t.queryBy].(string); ok && content != "" {
			snippets = append(snippets, content)
		}
	}
	return snippets, nil
}

// Seed creates one collection per knowledge base category when missing and
// upserts its documents. Document ids are stable, so seeding twice is a no-op.
func Seed(ctx context.Context, client *typesense.Client, prefix string, kb *KnowledgeBase) (int, error) {
	total := 0
	for _, category := range kb.CategoryNames() {
		name := CollectionName(prefix, category)
		if err := ensureCollection(ctx, client, name); err != nil {
			return total, err
		}

		docs := client.Collection(name).Documents()
		for i, content := range kb.Categories[category] {
			doc := map[string]any{
				"id":         fmt.Sprintf("%s-%03d", category, i),
				"category":   category,
				contentField: content,
			}
			if _, err := docs.Upsert(ctx, doc, &api.DocumentIndexParameters{}); err != nil {
				return total, fmt.Errorf("upserting %s document %d: %w", name, i, err)
			}
			total++
		}

		slog.InfoContext(ctx, "knowledge collection seeded",
			"collection", name,
			"documents", len(kb.Categories[category]))
	}
	return total, nil
}

func ensureCollection(ctx context.Context, client *typesense.Client, name string) error {
	_, err := client.Collections().Create(ctx, &api.CollectionSchema{
		Name: name,
		Fields: []api.Field{
			{Name: "category", Type: "string"},
			{Name: contentField, Type: "string"},
		},
	})
	if err == nil {
		slog.InfoContext(ctx, "knowledge collection created", "collection", name)
		return nil
	}

	var httpErr *typesense.HTTPError
	if errors.As(err, &httpErr) && httpErr.Status == http.StatusConflict {
		return nil
	}
	return fmt.Errorf("creating collection %s: %w", name, err)
}

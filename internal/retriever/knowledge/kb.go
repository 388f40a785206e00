package knowledge

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed kb.yaml
var defaultKnowledgeBase []byte

// KnowledgeBase holds the reference snippets of every category.
type KnowledgeBase struct {
	Categories map[string][]string `yaml:"categories"`
}

// LoadKnowledgeBase reads the YAML file at path, or the built-in knowledge
// base when path is empty.
func LoadKnowledgeBase(path string) (*KnowledgeBase, error) {
	if path == "" {
		return ParseKnowledgeBase(defaultKnowledgeBase)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading knowledge base: %w", err)
	}
	return ParseKnowledgeBase(data)
}

func ParseKnowledgeBase(data []byte) (*KnowledgeBase, error) {
	var kb KnowledgeBase
	if err := yaml.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("parsing knowledge base: %w", err)
	}

	normalized := make(map[string][]string, len(kb.Categories))
	for category, docs := range kb.Categories {
		key := normalizeCategory(category)
		normalized[key] = append(normalized[key], docs...)
	}
	kb.Categories = normalized

	if len(kb.Categories[GeneralCategory]) == 0 {
		return nil, fmt.Errorf("parsing knowledge base: %w", ErrNoGeneralIndex)
	}
	return &kb, nil
}

// CategoryNames returns the categories in sorted order.
func (kb *KnowledgeBase) CategoryNames() []string {
	names := make([]string, 0, len(kb.Categories))
	for name := range kb.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

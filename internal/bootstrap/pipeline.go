package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"basegraph.app/helpdesk/common/llm"
	"basegraph.app/helpdesk/core/config"
	"basegraph.app/helpdesk/core/db"
	"basegraph.app/helpdesk/internal/brain"
	"basegraph.app/helpdesk/internal/retriever/knowledge"
	"basegraph.app/helpdesk/internal/store"
)

// Pipeline bundles the orchestrator with the resources it owns.
type Pipeline struct {
	Orchestrator *brain.Orchestrator
	Escalations  store.EscalationStore

	database *db.DB
}

// NewPipeline wires LLM clients, the knowledge registry and the escalation
// sink from cfg. Close releases what it opened.
func NewPipeline(ctx context.Context, cfg config.Config) (*Pipeline, error) {
	classifierLLM, err := newStageClient("classifier", cfg.ClassifierLLM)
	if err != nil {
		return nil, err
	}
	drafterLLM, err := newStageClient("drafter", cfg.DrafterLLM)
	if err != nil {
		return nil, err
	}
	reviewerLLM, err := newStageClient("reviewer", cfg.ReviewerLLM)
	if err != nil {
		return nil, err
	}

	registry, err := NewKnowledgeRegistry(cfg)
	if err != nil {
		return nil, err
	}

	var database *db.DB
	if cfg.Escalation.Sink == config.SinkPostgres {
		database, err = db.New(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		slog.InfoContext(ctx, "database connected")
	}

	escalations, err := store.NewEscalationStore(ctx, cfg.Escalation, database)
	if err != nil {
		if database != nil {
			database.Close()
		}
		return nil, fmt.Errorf("opening escalation sink: %w", err)
	}
	slog.InfoContext(ctx, "escalation sink ready", "sink", cfg.Escalation.Sink)

	orchestrator := brain.NewOrchestrator(
		brain.NewLLMClassifier(classifierLLM, stageOptions(cfg.ClassifierLLM)),
		knowledge.NewRetriever(registry, knowledge.Options{
			SpecificK: cfg.Knowledge.SpecificK,
			GeneralK:  cfg.Knowledge.GeneralK,
		}),
		brain.NewLLMDrafter(drafterLLM, stageOptions(cfg.DrafterLLM)),
		brain.NewLLMReviewer(reviewerLLM, stageOptions(cfg.ReviewerLLM)),
		escalations,
	)

	return &Pipeline{
		Orchestrator: orchestrator,
		Escalations:  escalations,
		database:     database,
	}, nil
}

func (p *Pipeline) Close() {
	if err := p.Escalations.Close(); err != nil {
		slog.Error("failed to close escalation sink", "error", err)
	}
	if p.database != nil {
		p.database.Close()
	}
}

// NewKnowledgeRegistry uses Typesense when configured and the in-process
// index otherwise. Both are built from the same category list.
func NewKnowledgeRegistry(cfg config.Config) (*knowledge.Registry, error) {
	kb, err := knowledge.LoadKnowledgeBase(cfg.Knowledge.Path)
	if err != nil {
		return nil, err
	}

	if cfg.Typesense.Enabled() {
		slog.Info("using typesense knowledge index", "url", cfg.Typesense.URL, "prefix", cfg.Typesense.CollectionPrefix)
		return knowledge.NewTypesenseRegistry(
			knowledge.NewTypesenseClient(cfg.Typesense),
			cfg.Typesense.CollectionPrefix,
			cfg.Typesense.QueryBy,
			kb.CategoryNames(),
		)
	}

	slog.Info("using in-memory knowledge index", "categories", kb.CategoryNames())
	return knowledge.NewMemoryRegistry(kb)
}

func newStageClient(stage string, cfg config.LLMConfig) (llm.Client, error) {
	client, err := llm.New(llm.Config{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Model:    cfg.Model,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s llm client: %w", stage, err)
	}
	return client, nil
}

func stageOptions(cfg config.LLMConfig) brain.LLMOptions {
	return brain.LLMOptions{
		MaxTokens:   cfg.MaxTokens,
		Temperature: llm.Temp(cfg.Temperature),
	}
}

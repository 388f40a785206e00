package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"basegraph.app/helpdesk/common/logger"
	"basegraph.app/helpdesk/core/config"
	"basegraph.app/helpdesk/internal/retriever/knowledge"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		kbPath  string
		prefix  string
		timeout time.Duration
	)

	flagSet := pflag.NewFlagSet("kbseed", pflag.ContinueOnError)
	flagSet.StringVar(&kbPath, "kb", "", "knowledge base YAML (default: built-in)")
	flagSet.StringVar(&prefix, "prefix", "", "collection prefix (overrides TYPESENSE_COLLECTION_PREFIX)")
	flagSet.DurationVar(&timeout, "timeout", 2*time.Minute, "overall seeding timeout")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(config.ServiceTypeSeed)
	if err != nil {
		return err
	}
	logger.Setup(cfg)

	if kbPath == "" {
		kbPath = cfg.Knowledge.Path
	}
	if prefix == "" {
		prefix = cfg.Typesense.CollectionPrefix
	}

	kb, err := knowledge.LoadKnowledgeBase(kbPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client := knowledge.NewTypesenseClient(cfg.Typesense)
	n, err := knowledge.Seed(ctx, client, prefix, kb)
	if err != nil {
		return fmt.Errorf("seeding typesense: %w", err)
	}

	slog.InfoContext(ctx, "knowledge base seeded",
		"documents", n,
		"categories", kb.CategoryNames(),
		"prefix", prefix)
	return nil
}

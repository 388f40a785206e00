package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"basegraph.app/helpdesk/common/logger"
	"basegraph.app/helpdesk/core/config"
	"basegraph.app/helpdesk/internal/bootstrap"
	"basegraph.app/helpdesk/internal/brain"
	"basegraph.app/helpdesk/internal/model"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	var (
		subject       string
		description   string
		kbPath        string
		escalationLog string
		asJSON        bool
	)

	flagSet := pflag.NewFlagSet("triage", pflag.ContinueOnError)
	flagSet.StringVarP(&subject, "subject", "s", "", "ticket subject")
	flagSet.StringVarP(&description, "description", "d", "", "ticket description")
	flagSet.StringVar(&kbPath, "kb", "", "knowledge base YAML (default: built-in)")
	flagSet.StringVar(&escalationLog, "escalation-log", "", "CSV escalation log path (overrides ESCALATION_CSV_PATH)")
	flagSet.BoolVar(&asJSON, "json", false, "print the final ticket state as JSON")
	flagSet.Usage = func() { printHelp(flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}
	if strings.TrimSpace(subject) == "" && strings.TrimSpace(description) == "" {
		return fmt.Errorf("--subject or --description is required")
	}

	cfg, err := config.Load(config.ServiceTypeCLI)
	if err != nil {
		return err
	}
	if kbPath != "" {
		cfg.Knowledge.Path = kbPath
	}
	if escalationLog != "" {
		cfg.Escalation.Sink = config.SinkCSV
		cfg.Escalation.CSVPath = escalationLog
	}

	// stdout carries the result.
	slog.SetDefault(slog.New(logger.NewHandler(cfg, os.Stderr)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline, err := bootstrap.NewPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	ticket, err := pipeline.Orchestrator.Process(ctx, subject, description)
	if err != nil {
		var sf *brain.StageFailure
		if errors.As(err, &sf) {
			return fmt.Errorf("ticket not processed, %s stage failed: %w", sf.Stage, sf.Cause)
		}
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(ticket)
	}
	printTicket(out, ticket)
	return nil
}

func printTicket(out io.Writer, t model.TicketState) {
	fmt.Fprintf(out, "Ticket:    %d\n", t.ID)
	fmt.Fprintf(out, "Category:  %s\n", t.Category)
	fmt.Fprintf(out, "Attempts:  %d\n", t.Attempt)
	fmt.Fprintf(out, "Status:    %s\n", t.Status)
	if t.FinalResponse != nil {
		fmt.Fprintf(out, "\n%s\n", *t.FinalResponse)
	}
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `triage runs one support ticket through classification, retrieval,
drafting and review, and prints the final response.

Escalated tickets are appended to the configured escalation sink.

Usage:
  triage --subject <text> --description <text> [flags]

Flags:
%s`, flagSet.FlagUsages())
}

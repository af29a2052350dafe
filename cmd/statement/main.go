// Command statement is the operator CLI for the statement parsing
// engine: parse documents, scrape account summaries, teach the engine
// corrections and inspect its stats.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/FACorreiaa/statement-engine/internal/domain/statement/export"
	"github.com/FACorreiaa/statement-engine/pkg/config"
	"github.com/FACorreiaa/statement-engine/pkg/money"
)

const usage = `Usage: statement <command> [flags]

Commands:
  parse <file>            parse a statement document into transactions
  summary <file>          extract account summary fields
  stats                   show parsing and learning stats
  learn-category <merchant> <category>
  learn-merchant <raw-description> <canonical-name>
  add-pattern <keyword> <category>
  suggest <query>         suggest canonical merchants
`

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]
	args := os.Args[2:]

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(),
	}))

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()
	deps, err := InitDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Cleanup()

	if cfg.Observability.MetricsEnabled {
		go serveMetrics(deps, logger)
	}

	switch command {
	case "parse":
		return runParse(ctx, deps, args)
	case "summary":
		return runSummary(ctx, deps, args)
	case "stats":
		return runStats(deps)
	case "learn-category":
		return runLearnCategory(ctx, deps, args)
	case "learn-merchant":
		return runLearnMerchant(ctx, deps, args)
	case "add-pattern":
		return runAddPattern(ctx, deps, args)
	case "suggest":
		return runSuggest(deps, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func logLevel() slog.Level {
	if os.Getenv("LOG_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func serveMetrics(deps *Dependencies, logger *slog.Logger) {
	addr := fmt.Sprintf(":%d", deps.Config.Observability.MetricsPort)
	mux := http.NewServeMux()
	mux.Handle("/metrics", deps.Metrics.Handler())
	logger.Info("metrics listener started", slog.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics listener failed", slog.Any("error", err))
	}
}

func runParse(ctx context.Context, deps *Dependencies, args []string) error {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	csvPath := fs.String("csv", "", "write parsed transactions to a CSV file")
	jsonOut := fs.Bool("json", false, "print the full result as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("parse requires exactly one file argument")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	outcome := deps.StatementService.ParseStatement(ctx, data)

	if *jsonOut {
		return json.NewEncoder(os.Stdout).Encode(outcome)
	}

	if !outcome.Success {
		fmt.Printf("parse failed: %s\n", outcome.Error)
		for _, s := range outcome.Suggestions {
			fmt.Printf("  - %s\n", s)
		}
		return nil
	}

	bank := outcome.Bank
	if bank == "" {
		bank = "unknown"
	}
	fmt.Printf("bank: %s, transactions: %d\n", bank, outcome.Count)
	for _, tx := range outcome.Parsed {
		fmt.Printf("%s  %-28s %12s  %s\n",
			tx.Date, tx.Merchant, money.FromDecimal(tx.Amount).Display(), tx.Category)
	}
	if len(outcome.Categories) > 0 {
		fmt.Println("\nby category:")
		for category, total := range outcome.Categories {
			fmt.Printf("  %-16s %s\n", category, money.FromDecimal(total).Display())
		}
	}
	for _, w := range outcome.Warnings {
		fmt.Printf("warning: %s\n", w)
	}

	if *csvPath != "" {
		f, err := os.Create(*csvPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WriteCSV(f, outcome.Parsed); err != nil {
			return err
		}
		fmt.Printf("wrote %d transactions to %s\n", outcome.Count, *csvPath)
	}
	return nil
}

func runSummary(ctx context.Context, deps *Dependencies, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("summary requires exactly one file argument")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	summary, err := deps.StatementService.ExtractAccountSummary(ctx, data)
	if err != nil {
		return fmt.Errorf("text extraction failed: %w", err)
	}
	return json.NewEncoder(os.Stdout).Encode(summary)
}

func runStats(deps *Dependencies) error {
	stats := deps.StatementService.GetParsingStats()
	return json.NewEncoder(os.Stdout).Encode(stats)
}

func runLearnCategory(ctx context.Context, deps *Dependencies, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("learn-category requires <merchant> <category>")
	}
	deps.StatementService.LearnCategoryCorrection(ctx, args[0], args[1])
	fmt.Printf("learned: %s -> %s\n", args[0], args[1])
	return nil
}

func runLearnMerchant(ctx context.Context, deps *Dependencies, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("learn-merchant requires <raw-description> <canonical-name>")
	}
	deps.StatementService.LearnMerchantMapping(ctx, args[0], args[1])
	fmt.Printf("learned: %q -> %s\n", args[0], args[1])
	return nil
}

func runAddPattern(ctx context.Context, deps *Dependencies, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("add-pattern requires <keyword> <category>")
	}
	deps.StatementService.AddCustomPattern(ctx, args[0], args[1])
	fmt.Printf("added pattern: %q -> %s\n", args[0], args[1])
	return nil
}

func runSuggest(deps *Dependencies, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("suggest requires a query argument")
	}
	suggestions, err := deps.StatementService.SuggestMerchants(args[0], 10)
	if err != nil {
		return err
	}
	for _, s := range suggestions {
		fmt.Printf("%-28s %-8s %.2f\n", s.Name, s.Source, s.Score)
	}
	return nil
}

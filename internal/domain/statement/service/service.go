// Package service orchestrates statement parsing: text extraction,
// bank detection, transaction extraction, classification and the learning
// operations, with the learned store flushed after every mutation.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/statement-engine/internal/domain/categorization"
	"github.com/FACorreiaa/statement-engine/internal/domain/learning"
	"github.com/FACorreiaa/statement-engine/internal/domain/statement"
	"github.com/FACorreiaa/statement-engine/internal/domain/statement/normalizer"
	"github.com/FACorreiaa/statement-engine/internal/domain/statement/parser"
	"github.com/FACorreiaa/statement-engine/pkg/metrics"
)

// TextExtractor is the upstream document-to-text collaborator. The
// engine only ever sees the flattened text it returns.
type TextExtractor interface {
	Extract(data []byte) (string, error)
}

// failureSuggestions is the fixed remediation advice attached to every
// failed parse.
var failureSuggestions = []string{
	"Check that the uploaded file is a valid bank statement",
	"If the statement was scanned, download a digital copy from your bank instead of rescanning",
	"Password-protected PDFs must be unlocked before upload",
}

// Service exposes the engine's public operations.
type Service struct {
	text        TextExtractor
	store       *learning.Store
	normalizer  *normalizer.Normalizer
	classifier  *categorization.Classifier
	extractor   *parser.Extractor
	suggest     *categorization.SuggestIndex
	metrics     *metrics.Metrics
	logger      *slog.Logger
	tracer      trace.Tracer
	maxTextSize int
}

// storeOverrides adapts the learned store to the classifier's Overrides
// interface.
type storeOverrides struct {
	store *learning.Store
}

func (a storeOverrides) CategoryFor(merchant string) (string, bool) {
	return a.store.LookupCorrection(merchant)
}

func (a storeOverrides) KeywordPatterns() []categorization.KeywordPattern {
	patterns := a.store.CustomPatterns()
	out := make([]categorization.KeywordPattern, len(patterns))
	for i, p := range patterns {
		out[i] = categorization.KeywordPattern{Keyword: p.Keyword, Category: p.Category}
	}
	return out
}

// NewService wires the engine together around a text extractor and the
// learned store.
func NewService(text TextExtractor, store *learning.Store, logger *slog.Logger) *Service {
	merchantNormalizer := normalizer.New(store)
	classifier := categorization.NewClassifier(storeOverrides{store: store})

	return &Service{
		text:       text,
		store:      store,
		normalizer: merchantNormalizer,
		classifier: classifier,
		extractor:  parser.NewExtractor(merchantNormalizer, classifier, logger),
		logger:     logger,
		tracer:     otel.Tracer("statement-engine/service"),
	}
}

// WithMetrics adds Prometheus instrumentation.
func (s *Service) WithMetrics(m *metrics.Metrics) *Service {
	s.metrics = m
	s.store.OnFlush(func(err error) {
		if err != nil {
			m.StoreFlushFailures.Inc()
		}
	})
	return s
}

// WithSuggestions adds the merchant suggestion index.
func (s *Service) WithSuggestions(idx *categorization.SuggestIndex) *Service {
	s.suggest = idx
	return s
}

// WithMaxTextBytes caps the extracted text size. Zero keeps the literal
// unbounded behavior; every line is scanned by every strategy regardless
// of document size.
func (s *Service) WithMaxTextBytes(n int) *Service {
	s.maxTextSize = n
	return s
}

// ParseStatement converts a document into normalized transactions. A bad
// document yields a structured failure outcome with remediation
// suggestions; it never panics past this boundary.
func (s *Service) ParseStatement(ctx context.Context, data []byte) *statement.ParseOutcome {
	ctx, span := s.tracer.Start(ctx, "ParseStatement")
	defer span.End()
	start := time.Now()

	text, err := s.text.Extract(data)
	if err != nil {
		s.logger.Warn("text extraction failed", slog.Any("error", err))
		return s.failure(err.Error())
	}
	if strings.TrimSpace(text) == "" {
		return s.failure("no text could be extracted from the document")
	}
	if s.maxTextSize > 0 && len(text) > s.maxTextSize {
		return s.failure("statement text exceeds the configured size cap")
	}

	result := s.extractor.Extract(text)
	span.SetAttributes(
		attribute.String("bank", result.Bank),
		attribute.Int("transactions", len(result.Transactions)),
		attribute.Bool("generic_used", result.GenericUsed),
	)

	outcome := &statement.ParseOutcome{
		Success:       true,
		Bank:          result.Bank,
		Parsed:        result.Transactions,
		Count:         len(result.Transactions),
		RawTextLength: len(text),
		Warnings:      result.Warnings,
		Categories:    sumByCategory(result.Transactions),
		DateRange:     dateRangeOf(result.Transactions),
	}

	// One flush per parse call: totalParsed grows by the returned
	// count, and bank attempt/success counters advance when a bank pass
	// ran.
	s.store.RecordParse(ctx, result.Bank, result.BankAttempted, result.BankSucceeded, outcome.Count)

	if s.metrics != nil {
		bankLabel := result.Bank
		if bankLabel == "" {
			bankLabel = "unknown"
		}
		s.metrics.ParsesTotal.WithLabelValues(bankLabel, "success").Inc()
		pass := "bank"
		if result.GenericUsed {
			pass = "generic"
		}
		s.metrics.TransactionsTotal.WithLabelValues(pass).Add(float64(outcome.Count))
		s.metrics.ParseDuration.Observe(time.Since(start).Seconds())
	}

	s.logger.Info("statement parsed",
		slog.String("bank", result.Bank),
		slog.Int("count", outcome.Count),
		slog.Int("raw_text_length", outcome.RawTextLength),
		slog.Bool("generic_used", result.GenericUsed),
	)
	return outcome
}

func (s *Service) failure(cause string) *statement.ParseOutcome {
	if s.metrics != nil {
		s.metrics.ParsesTotal.WithLabelValues("unknown", "failure").Inc()
	}
	return &statement.ParseOutcome{
		Success:     false,
		Parsed:      []statement.Transaction{},
		Error:       cause,
		Suggestions: failureSuggestions,
	}
}

// ExtractAccountSummary scrapes header/footer fields from the same text
// stream. It returns nil only when the upstream text extraction itself
// failed; a statement with no recognizable fields still yields an empty
// summary.
func (s *Service) ExtractAccountSummary(ctx context.Context, data []byte) (*statement.AccountSummary, error) {
	_, span := s.tracer.Start(ctx, "ExtractAccountSummary")
	defer span.End()

	text, err := s.text.Extract(data)
	if err != nil {
		return nil, err
	}
	return parser.ExtractSummary(text), nil
}

// LearnCategoryCorrection stores a category correction keyed by the
// normalized, lowercased merchant. Arbitrary category strings are
// accepted and returned verbatim on later lookups.
func (s *Service) LearnCategoryCorrection(ctx context.Context, merchant, category string) {
	s.store.RecordCorrection(ctx, merchant, category)
	if s.metrics != nil {
		s.metrics.LearningEvents.WithLabelValues("correction").Inc()
	}
}

// LearnMerchantMapping stores a raw-description→canonical-name mapping
// keyed by the uppercased raw text.
func (s *Service) LearnMerchantMapping(ctx context.Context, raw, canonical string) {
	s.store.RecordMerchantMapping(ctx, raw, canonical)
	if s.suggest != nil {
		if err := s.suggest.AddLearned(canonical); err != nil {
			s.logger.Warn("failed to index learned merchant", slog.Any("error", err))
		}
	}
	if s.metrics != nil {
		s.metrics.LearningEvents.WithLabelValues("mapping").Inc()
	}
}

// AddCustomPattern appends a keyword→category rule checked before the
// static table.
func (s *Service) AddCustomPattern(ctx context.Context, keyword, category string) {
	s.store.RecordCustomPattern(ctx, keyword, category)
	if s.metrics != nil {
		s.metrics.LearningEvents.WithLabelValues("pattern").Inc()
	}
}

// RecategorizeTransaction records a correction under the transaction's
// normalized merchant (raw description when absent) and returns a copy
// with the category replaced and the recategorized flag set.
func (s *Service) RecategorizeTransaction(ctx context.Context, tx statement.Transaction, category string) statement.Transaction {
	key := tx.Merchant
	if key == "" {
		key = tx.Description
	}
	s.LearnCategoryCorrection(ctx, key, category)

	tx.Category = category
	tx.Recategorized = true
	return tx
}

// GetParsingStats returns the persisted counters plus learned-entry
// counts.
func (s *Service) GetParsingStats() statement.ParsingStats {
	return s.store.Snapshot()
}

// SuggestMerchants ranks canonical merchants for a correction UI.
func (s *Service) SuggestMerchants(query string, limit int) ([]categorization.Suggestion, error) {
	if s.suggest == nil {
		return nil, nil
	}
	return s.suggest.Suggest(query, limit)
}

func sumByCategory(txs []statement.Transaction) map[string]decimal.Decimal {
	if len(txs) == 0 {
		return nil
	}
	sums := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		sums[tx.Category] = sums[tx.Category].Add(tx.Amount)
	}
	return sums
}

// dateRangeOf finds the span of ISO dates; lexicographic order matches
// chronological order for YYYY-MM-DD.
func dateRangeOf(txs []statement.Transaction) *statement.DateRange {
	if len(txs) == 0 {
		return nil
	}
	from, to := txs[0].Date, txs[0].Date
	for _, tx := range txs[1:] {
		if tx.Date < from {
			from = tx.Date
		}
		if tx.Date > to {
			to = tx.Date
		}
	}
	return &statement.DateRange{From: from, To: to}
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/statement-engine/internal/domain/categorization"
	"github.com/FACorreiaa/statement-engine/internal/domain/learning"
	"github.com/FACorreiaa/statement-engine/internal/domain/statement"
	"github.com/FACorreiaa/statement-engine/internal/domain/statement/normalizer"
)

// passthroughExtractor hands the raw bytes back as text, or fails with a
// fixed error.
type passthroughExtractor struct {
	err error
}

func (p passthroughExtractor) Extract(data []byte) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return string(data), nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return newTestServiceWith(t, passthroughExtractor{})
}

func newTestServiceWith(t *testing.T, text TextExtractor) *Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "learned_patterns.json")
	store := learning.NewStore(context.Background(), learning.NewFileBackend(path), testLogger())
	return NewService(text, store, testLogger())
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func sampleStatement() []byte {
	return []byte(strings.Join([]string{
		"HDFC BANK Statement of Account",
		"01/01/2024  SWIGGY*BANGALORE  450.00",
		"02/01/2024  AMAZON PAY INDIA  1,250.00",
		"03/01/2024  UBER TRIP HSR  320.00",
		"04/01/2024  APOLLO PHARMACY  240.00",
	}, "\n"))
}

func TestParseStatement(t *testing.T) {
	svc := newTestService(t)

	outcome := svc.ParseStatement(context.Background(), sampleStatement())

	require.True(t, outcome.Success)
	assert.Empty(t, outcome.Error)
	assert.Equal(t, "HDFC", outcome.Bank)
	assert.Equal(t, 4, outcome.Count)
	assert.Len(t, outcome.Parsed, 4)
	assert.Positive(t, outcome.RawTextLength)

	require.NotNil(t, outcome.DateRange)
	assert.Equal(t, "2024-01-01", outcome.DateRange.From)
	assert.Equal(t, "2024-01-04", outcome.DateRange.To)

	require.Contains(t, outcome.Categories, "Food")
	assert.Equal(t, "450", outcome.Categories["Food"].String())
	require.Contains(t, outcome.Categories, "Transport")
	assert.Equal(t, "320", outcome.Categories["Transport"].String())
}

func TestParseStatementExtractionFailure(t *testing.T) {
	svc := newTestServiceWith(t, passthroughExtractor{err: errors.New("encrypted document")})

	outcome := svc.ParseStatement(context.Background(), []byte("whatever"))

	assert.False(t, outcome.Success)
	assert.Equal(t, "encrypted document", outcome.Error)
	assert.NotNil(t, outcome.Parsed)
	assert.Empty(t, outcome.Parsed)
	assert.NotEmpty(t, outcome.Suggestions)
}

func TestParseStatementEmptyText(t *testing.T) {
	svc := newTestService(t)

	outcome := svc.ParseStatement(context.Background(), []byte("   \n\t "))

	assert.False(t, outcome.Success)
	assert.NotEmpty(t, outcome.Error)
	assert.NotEmpty(t, outcome.Suggestions)
}

func TestParseStatementZeroTransactionsIsSuccess(t *testing.T) {
	svc := newTestService(t)

	// Real text, nothing transaction-shaped: a successful parse of an
	// empty statement, not a failure.
	outcome := svc.ParseStatement(context.Background(), []byte("Dear customer, no transactions this cycle."))

	assert.True(t, outcome.Success)
	assert.Zero(t, outcome.Count)
	assert.Nil(t, outcome.DateRange)
	assert.Empty(t, outcome.Categories)
}

func TestParseStatementSizeCap(t *testing.T) {
	svc := newTestService(t).WithMaxTextBytes(64)

	outcome := svc.ParseStatement(context.Background(), sampleStatement())

	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Error, "size cap")
}

func TestParseStatementUpdatesStats(t *testing.T) {
	svc := newTestService(t)

	svc.ParseStatement(context.Background(), sampleStatement())

	stats := svc.GetParsingStats()
	assert.Equal(t, 4, stats.TotalParsed)
	require.Contains(t, stats.BankStats, "HDFC")
	assert.Equal(t, 1, stats.BankStats["HDFC"].Attempts)
	assert.Equal(t, 1, stats.BankStats["HDFC"].Success)
}

func TestLearnMerchantMappingAffectsNextParse(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	doc := []byte(strings.Join([]string{
		"01/01/2024 NEW KIRANA CORNER 250.00",
		"02/01/2024 LOCAL VENDOR 100.00",
		"03/01/2024 ANOTHER VENDOR 150.00",
	}, "\n"))

	before := svc.ParseStatement(ctx, doc)
	require.True(t, before.Success)

	svc.LearnMerchantMapping(ctx, "NEW KIRANA CORNER", "Corner Kirana")
	svc.AddCustomPattern(ctx, "kirana", "Local Shopping")

	after := svc.ParseStatement(ctx, doc)
	require.True(t, after.Success)

	var found bool
	for _, tx := range after.Parsed {
		if tx.Merchant == "Corner Kirana" {
			found = true
			assert.Equal(t, "Local Shopping", tx.Category)
		}
	}
	assert.True(t, found, "learned mapping not applied on reparse")
}

func TestRecategorizeTransaction(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	tx := statement.Transaction{
		Description: "SWIGGY*BANGALORE",
		Merchant:    "Swiggy",
		Category:    "Food",
	}

	updated := svc.RecategorizeTransaction(ctx, tx, "Dining")

	assert.Equal(t, "Dining", updated.Category)
	assert.True(t, updated.Recategorized)
	// The original is untouched.
	assert.Equal(t, "Food", tx.Category)
	assert.False(t, tx.Recategorized)

	// The correction sticks for future parses of the same merchant.
	outcome := svc.ParseStatement(ctx, sampleStatement())
	for _, parsed := range outcome.Parsed {
		if parsed.Merchant == "Swiggy" {
			assert.Equal(t, "Dining", parsed.Category)
		}
	}
	assert.Equal(t, 1, svc.GetParsingStats().CorrectionsMade)
}

func TestExtractAccountSummary(t *testing.T) {
	svc := newTestService(t)

	doc := []byte(strings.Join([]string{
		"HDFC BANK",
		"A/C No: XXXX1234",
		"Opening Balance: 25,000.00",
	}, "\n"))

	summary, err := svc.ExtractAccountSummary(context.Background(), doc)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, "HDFC", summary.Bank)
	require.NotNil(t, summary.AccountNumber)
	assert.Equal(t, "XXXX1234", *summary.AccountNumber)
}

func TestExtractAccountSummaryExtractionFailure(t *testing.T) {
	svc := newTestServiceWith(t, passthroughExtractor{err: errors.New("unreadable")})

	summary, err := svc.ExtractAccountSummary(context.Background(), []byte("x"))
	assert.Error(t, err)
	assert.Nil(t, summary)
}

func TestExtractAccountSummaryNoFields(t *testing.T) {
	svc := newTestService(t)

	summary, err := svc.ExtractAccountSummary(context.Background(), []byte("nothing recognizable here"))
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Nil(t, summary.AccountNumber)
}

func TestSuggestMerchants(t *testing.T) {
	svc := newTestService(t)

	idx, err := categorization.NewSuggestIndex(normalizer.CanonicalNames(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	svc.WithSuggestions(idx)

	svc.LearnMerchantMapping(context.Background(), "BURGER PALACE HSR", "Burger Palace")

	results, err := svc.SuggestMerchants("burger", 5)
	require.NoError(t, err)

	var names []string
	for _, s := range results {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "Burger Palace")
}

func TestSuggestMerchantsWithoutIndex(t *testing.T) {
	svc := newTestService(t)

	results, err := svc.SuggestMerchants("swiggy", 5)
	assert.NoError(t, err)
	assert.Nil(t, results)
}

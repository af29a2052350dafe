// Package parser implements the statement text parsing engine: bank
// detection, bank-specific and generic multi-strategy extraction, lexical
// normalization and deduplication.
package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/FACorreiaa/statement-engine/internal/domain/statement"
)

// MerchantNormalizer resolves a raw description to a canonical merchant
// name.
type MerchantNormalizer interface {
	Normalize(raw string) string
}

// Categorizer assigns a spending category from the raw description and
// the normalized merchant.
type Categorizer interface {
	Categorize(rawDescription, merchant string) string
}

// bankPassMinimum is the acceptance gate: a bank-specific pass producing
// fewer transactions is treated as likely failure and the generic
// fallback runs.
const bankPassMinimum = 3

// Extractor turns flattened statement text into transactions.
type Extractor struct {
	normalizer  MerchantNormalizer
	categorizer Categorizer
	logger      *slog.Logger
}

// Result carries the winning pass plus the bookkeeping the service needs
// for stats and labels.
type Result struct {
	Bank          string
	Transactions  []statement.Transaction
	Warnings      []string
	BankAttempted bool
	BankSucceeded bool
	GenericUsed   bool
}

// NewExtractor creates an extractor wired to a merchant normalizer and a
// categorizer.
func NewExtractor(normalizer MerchantNormalizer, categorizer Categorizer, logger *slog.Logger) *Extractor {
	return &Extractor{
		normalizer:  normalizer,
		categorizer: categorizer,
		logger:      logger,
	}
}

// Extract runs the bank-specific pass (when a bank is identified) and the
// generic fallback, and picks a winner. The generic pass supersedes the
// bank pass iff its raw, pre-dedup yield is strictly greater than the
// deduplicated bank yield; the returned transactions are always
// deduplicated.
func (e *Extractor) Extract(text string) Result {
	result := Result{}

	bank := DetectBank(text)
	if bank != nil {
		result.Bank = bank.Name
		result.BankAttempted = true
	}

	var bankTxs []statement.Transaction
	var bankWarnings []string
	if bank != nil {
		bankTxs, bankWarnings = e.bankPass(text, bank)
		bankTxs = Deduplicate(bankTxs)
		result.BankSucceeded = len(bankTxs) >= bankPassMinimum
	}

	// A bank pass under the gate is treated as likely failure and the
	// generic fallback runs; detection then only improves the label, it
	// never blocks the fallback from winning on yield.
	var genericTxs []statement.Transaction
	var genericWarnings []string
	if bank == nil || !result.BankSucceeded {
		genericTxs, genericWarnings = e.genericPass(text, result.Bank)
	}
	rawGenericCount := len(genericTxs)

	if rawGenericCount > len(bankTxs) {
		result.Transactions = Deduplicate(genericTxs)
		result.Warnings = genericWarnings
		result.GenericUsed = true
	} else {
		result.Transactions = bankTxs
		result.Warnings = bankWarnings
	}

	e.logger.Debug("extraction complete",
		slog.String("bank", result.Bank),
		slog.Int("bank_pass", len(bankTxs)),
		slog.Int("generic_pass_raw", rawGenericCount),
		slog.Bool("generic_used", result.GenericUsed),
	)
	return result
}

// bankPass scans the full text with each of the bank's ordered extraction
// patterns, collecting every non-overlapping match.
func (e *Extractor) bankPass(text string, bank *BankProfile) ([]statement.Transaction, []string) {
	source := fmt.Sprintf("PDF (%s)", bank.Name)

	var txs []statement.Transaction
	var warnings []string
	for _, pattern := range bank.Patterns {
		dateIdx := pattern.SubexpIndex("date")
		descIdx := pattern.SubexpIndex("desc")
		amountIdx := pattern.SubexpIndex("amount")
		typeIdx := pattern.SubexpIndex("type")

		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			rm := RawMatch{
				Date:        m[dateIdx],
				Description: strings.TrimSpace(m[descIdx]),
				Amount:      m[amountIdx],
				DateHint:    bank.DateHint,
			}
			if typeIdx >= 0 {
				rm.TypeFlag = m[typeIdx]
			}

			tx, warning, ok := e.assemble(rm, source)
			if !ok {
				continue
			}
			if warning != "" {
				warnings = append(warnings, warning)
			}
			txs = append(txs, tx)
		}
	}
	return txs, warnings
}

// genericPass applies all five heuristic strategies to every line. No
// strategy short-circuits another, so a line can contribute the same
// transaction several times; the caller deduplicates after the yield
// comparison.
func (e *Extractor) genericPass(text, bankName string) ([]statement.Transaction, []string) {
	source := "PDF (Generic)"
	if bankName != "" {
		source = fmt.Sprintf("PDF (%s)", bankName)
	}

	var txs []statement.Transaction
	var warnings []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, strat := range genericStrategies {
			rm, ok := strat.extract(line)
			if !ok {
				continue
			}
			tx, warning, ok := e.assemble(rm, source)
			if !ok {
				continue
			}
			if warning != "" {
				warnings = append(warnings, warning)
			}
			txs = append(txs, tx)
		}
	}
	return txs, warnings
}

// assemble normalizes a raw match into a Transaction. Credit-flagged
// matches and unparseable amounts reject just that match; a bad date is
// substituted with today and surfaced as a warning.
func (e *Extractor) assemble(rm RawMatch, source string) (statement.Transaction, string, bool) {
	if isCreditFlag(rm.TypeFlag) {
		return statement.Transaction{}, "", false
	}

	amount, confidence, ok := ParseAmount(rm.Amount)
	if !ok {
		return statement.Transaction{}, "", false
	}

	warning := ""
	date, dateOK := NormalizeDate(rm.Date, rm.DateHint)
	if !dateOK {
		warning = fmt.Sprintf("could not parse date %q; substituted today", rm.Date)
	}

	merchant := e.normalizer.Normalize(rm.Description)
	category := e.categorizer.Categorize(rm.Description, merchant)

	return statement.Transaction{
		Date:        date,
		Description: rm.Description,
		Merchant:    merchant,
		Amount:      amount,
		Category:    category,
		Confidence:  confidence,
		Source:      source,
	}, warning, true
}

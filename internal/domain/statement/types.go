// Package statement defines the core types produced by the statement
// parsing engine: transactions, account summaries and parse outcomes.
package statement

import (
	"github.com/shopspring/decimal"
)

// Confidence is an advisory quality hint on an extracted amount.
// It never filters output.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
)

// Transaction is the normalized output unit of a statement parse.
type Transaction struct {
	Date          string          `json:"date"` // YYYY-MM-DD
	Description   string          `json:"description"`
	Merchant      string          `json:"normalized_merchant"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Confidence    Confidence      `json:"confidence"`
	Source        string          `json:"source"`
	Recategorized bool            `json:"recategorized,omitempty"`
}

// DateRange is the inclusive span of transaction dates in a parse result.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ParseOutcome is the full result of a ParseStatement call. A failed
// outcome carries Error and Suggestions instead of transactions; nothing
// about a bad document is fatal to the process.
type ParseOutcome struct {
	Success       bool                       `json:"success"`
	Bank          string                     `json:"bank,omitempty"`
	Parsed        []Transaction              `json:"parsed"`
	Count         int                        `json:"count"`
	RawTextLength int                        `json:"raw_text_length"`
	Warnings      []string                   `json:"warnings,omitempty"`
	Categories    map[string]decimal.Decimal `json:"categories,omitempty"`
	DateRange     *DateRange                 `json:"date_range,omitempty"`
	Error         string                     `json:"error,omitempty"`
	Suggestions   []string                   `json:"suggestions,omitempty"`
}

// StatementPeriod is the from/to span printed in a statement header.
type StatementPeriod struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// AccountSummary holds header/footer fields scraped from statement text.
// Every field is independently optional; absence means "not found", never
// an error.
type AccountSummary struct {
	AccountNumber  *string          `json:"account_number,omitempty"`
	AccountHolder  *string          `json:"account_holder,omitempty"`
	Period         *StatementPeriod `json:"statement_period,omitempty"`
	OpeningBalance *decimal.Decimal `json:"opening_balance,omitempty"`
	ClosingBalance *decimal.Decimal `json:"closing_balance,omitempty"`
	TotalDebits    *decimal.Decimal `json:"total_debits,omitempty"`
	TotalCredits   *decimal.Decimal `json:"total_credits,omitempty"`
	Bank           string           `json:"bank,omitempty"`
}

// ParsingStats is the snapshot returned by GetParsingStats.
type ParsingStats struct {
	TotalParsed         int                  `json:"total_parsed"`
	CorrectionsMade     int                  `json:"corrections_made"`
	BankStats           map[string]BankStats `json:"bank_stats"`
	LearnedMerchants    int                  `json:"learned_merchants"`
	CategoryCorrections int                  `json:"category_corrections"`
	CustomPatterns      int                  `json:"custom_patterns"`
}

// BankStats tracks how often a bank's patterns were tried and succeeded.
type BankStats struct {
	Attempts int `json:"attempts"`
	Success  int `json:"success"`
}

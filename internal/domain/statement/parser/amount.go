package parser

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/statement-engine/internal/domain/statement"
)

// MaxAmount is the exclusive upper bound on a plausible transaction
// amount; anything at or above it is treated as a parsing artifact.
var MaxAmount = decimal.NewFromInt(10_000_000)

// confidenceThreshold splits high from medium confidence amounts.
var confidenceThreshold = decimal.NewFromInt(100_000)

// currencyTokens are stripped before numeric parsing, longest first so
// "Rs." wins over "Rs".
var currencyTokens = []string{
	"₹", "Rs.", "Rs", "INR", "USD", "EUR", "GBP", "$", "€", "£",
}

// ParseAmount strips currency symbols/codes and thousands separators and
// parses the remainder as a decimal. Non-positive values and values at or
// above MaxAmount are rejected with ok=false ("no amount", not an error).
// The confidence is advisory metadata only.
func ParseAmount(raw string) (decimal.Decimal, statement.Confidence, bool) {
	s := strings.TrimSpace(raw)
	for _, tok := range currencyTokens {
		s = strings.ReplaceAll(s, tok, "")
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, "", false
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, "", false
	}
	if amount.LessThanOrEqual(decimal.Zero) || amount.GreaterThanOrEqual(MaxAmount) {
		return decimal.Zero, "", false
	}

	confidence := statement.ConfidenceHigh
	if amount.GreaterThanOrEqual(confidenceThreshold) {
		confidence = statement.ConfidenceMedium
	}
	return amount, confidence, true
}

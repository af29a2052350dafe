package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/statement-engine/internal/domain/statement"
)

// Account-summary field patterns. Each field is scraped independently and
// independently optional; a label that never appears simply leaves its
// field nil.
var (
	labeledAccountRe = regexp.MustCompile(`(?im)a/?c(?:count)?\s*(?:no\.?|number)?\s*[:.]?\s*((?:[Xx*]{2,}\s*)?\d{4,18})`)
	plainAccountRe   = regexp.MustCompile(`\b(\d{10,18})\b`)
	maskedAccountRe  = regexp.MustCompile(`([Xx*]{2,}\d{4})\b`)

	// Holder names stay within one line; \s would let a greedy capture
	// swallow a capitalized following line.
	holderLabelRe = regexp.MustCompile(`(?im)(?:account holder|customer name|name)[ \t]*[:.]?[ \t]*((?:[A-Z][A-Za-z]+[ \t]+)+[A-Z][A-Za-z]+)`)
	holderMrRe    = regexp.MustCompile(`(?m)\b(?:MR|MRS|MS|SHRI|SMT)\.?[ \t]+((?:[A-Z][A-Za-z]+[ \t]+)+[A-Z][A-Za-z]+)`)

	periodRe = regexp.MustCompile(`(?im)(?:statement\s+(?:period|for)|period|from)\s*[:.]?\s*(\d{1,2}[/\-. ](?:\d{1,2}|[A-Za-z]{3})[/\-. ]\d{2,4})\s*(?:to|-)\s*(\d{1,2}[/\-. ](?:\d{1,2}|[A-Za-z]{3})[/\-. ]\d{2,4})`)

	openingBalanceRe = regexp.MustCompile(`(?im)opening\s+balance\s*[:.]?\s*(?:₹|Rs\.?|INR)?\s*([\d,]+\.?\d*)`)
	closingBalanceRe = regexp.MustCompile(`(?im)closing\s+balance\s*[:.]?\s*(?:₹|Rs\.?|INR)?\s*([\d,]+\.?\d*)`)
	totalDebitsRe    = regexp.MustCompile(`(?im)total\s+(?:debits?|withdrawals?)\s*[:.]?\s*(?:₹|Rs\.?|INR)?\s*([\d,]+\.?\d*)`)
	totalCreditsRe   = regexp.MustCompile(`(?im)total\s+(?:credits?|deposits?)\s*[:.]?\s*(?:₹|Rs\.?|INR)?\s*([\d,]+\.?\d*)`)
)

// ExtractSummary scrapes header/footer fields from the same flattened
// text the transaction extractor sees. It is best effort: every field is
// optional and a missing field is nil, never an error.
func ExtractSummary(text string) *statement.AccountSummary {
	summary := &statement.AccountSummary{}

	if bank := DetectBank(text); bank != nil {
		summary.Bank = bank.Name
	}

	if number := findAccountNumber(text); number != "" {
		summary.AccountNumber = &number
	}
	if holder := findAccountHolder(text); holder != "" {
		summary.AccountHolder = &holder
	}
	if period := findPeriod(text); period != nil {
		summary.Period = period
	}

	summary.OpeningBalance = findLabeledAmount(text, openingBalanceRe)
	summary.ClosingBalance = findLabeledAmount(text, closingBalanceRe)
	summary.TotalDebits = findLabeledAmount(text, totalDebitsRe)
	summary.TotalCredits = findLabeledAmount(text, totalCreditsRe)

	return summary
}

func findAccountNumber(text string) string {
	if m := labeledAccountRe.FindStringSubmatch(text); m != nil {
		return strings.ReplaceAll(m[1], " ", "")
	}
	if m := maskedAccountRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := plainAccountRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func findAccountHolder(text string) string {
	if m := holderLabelRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := holderMrRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// findPeriod resolves both dates through the date normalizer; a span
// whose ends do not parse cleanly is dropped rather than silently
// pinned to today.
func findPeriod(text string) *statement.StatementPeriod {
	m := periodRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	from, fromOK := NormalizeDate(m[1], DateHintDMY)
	to, toOK := NormalizeDate(m[2], DateHintDMY)
	if !fromOK || !toOK {
		return nil
	}
	return &statement.StatementPeriod{From: from, To: to}
}

// findLabeledAmount parses a labeled currency field. Balances can
// legitimately exceed the per-transaction amount cap, so this parses the
// numeral directly instead of going through ParseAmount.
func findLabeledAmount(text string, re *regexp.Regexp) *decimal.Decimal {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return nil
	}
	return &amount
}

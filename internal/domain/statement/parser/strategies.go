package parser

import (
	"regexp"
	"strings"
)

// RawMatch is the intermediate shape produced per pattern match. It is
// never persisted; lexical normalization happens when a Transaction is
// assembled.
type RawMatch struct {
	Date        string
	Description string
	Amount      string
	TypeFlag    string
	DateHint    string
}

// strategy is one generic line-level heuristic: a name for the source
// label plus an extraction function. Strategies are data, iterated in
// order; every strategy runs on every line with no short-circuit, so the
// same transaction can surface more than once and deduplication is
// mandatory.
type strategy struct {
	name    string
	extract func(line string) (RawMatch, bool)
}

var (
	dateFirstRe = regexp.MustCompile(`^(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})\s+(.+?)\s+((?:₹|Rs\.?|INR)?\s*[\d,]+\.?\d*)\s*(?i:(Dr|Cr|Debit|Credit))?$`)

	amountFirstRe = regexp.MustCompile(`^((?:₹|Rs\.?|INR)?\s*[\d,]+\.\d{2})\s+(.+?)\s+(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})$`)

	monthNameRe = regexp.MustCompile(`^(\d{1,2}[-\s][A-Za-z]{3}[-\s]\d{2,4})\s+(.+?)\s+((?:₹|Rs\.?|INR)?\s*[\d,]+\.?\d*)\s*(?i:(Dr|Cr|Debit|Credit))?$`)

	upiRe = regexp.MustCompile(`^(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})\s.*?UPI[/\-]([A-Za-z0-9 .&_@]+?)[/\-][A-Za-z0-9]+.*?([\d,]+\.?\d{0,2})\s*(?i:(Dr|Cr))?$`)

	columnSplitRe = regexp.MustCompile(`\t|\s{2,}`)
	dateLikeRe    = regexp.MustCompile(`^\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}$|^\d{1,2}[-\s][A-Za-z]{3}[-\s]\d{2,4}$`)
	amountLikeRe  = regexp.MustCompile(`^(?:₹|Rs\.?|INR)?\s*[\d,]+\.?\d*$`)
	typeFlagRe    = regexp.MustCompile(`(?i)^(Dr|Cr|Debit|Credit)$`)
)

// genericStrategies are the five ordered fallback heuristics applied when
// bank-specific patterns under-perform.
var genericStrategies = []strategy{
	{name: "date-first", extract: extractDateFirst},
	{name: "amount-first", extract: extractAmountFirst},
	{name: "month-name", extract: extractMonthName},
	{name: "delimited", extract: extractDelimited},
	{name: "upi", extract: extractUPI},
}

func extractDateFirst(line string) (RawMatch, bool) {
	m := dateFirstRe.FindStringSubmatch(line)
	if m == nil {
		return RawMatch{}, false
	}
	return RawMatch{
		Date:        m[1],
		Description: strings.TrimSpace(m[2]),
		Amount:      m[3],
		TypeFlag:    m[4],
		DateHint:    DateHintDMY,
	}, true
}

func extractAmountFirst(line string) (RawMatch, bool) {
	m := amountFirstRe.FindStringSubmatch(line)
	if m == nil {
		return RawMatch{}, false
	}
	return RawMatch{
		Date:        m[3],
		Description: strings.TrimSpace(m[2]),
		Amount:      m[1],
		DateHint:    DateHintDMY,
	}, true
}

func extractMonthName(line string) (RawMatch, bool) {
	m := monthNameRe.FindStringSubmatch(line)
	if m == nil {
		return RawMatch{}, false
	}
	return RawMatch{
		Date:        m[1],
		Description: strings.TrimSpace(m[2]),
		Amount:      m[3],
		TypeFlag:    m[4],
		DateHint:    DateHintDMY,
	}, true
}

// extractDelimited handles wide-whitespace/tab column layouts: a date
// column, description columns and a trailing amount column, with an
// optional flag column after the amount.
func extractDelimited(line string) (RawMatch, bool) {
	cols := columnSplitRe.Split(strings.TrimSpace(line), -1)
	if len(cols) < 3 {
		return RawMatch{}, false
	}

	if !dateLikeRe.MatchString(cols[0]) {
		return RawMatch{}, false
	}

	flag := ""
	last := len(cols) - 1
	if typeFlagRe.MatchString(cols[last]) {
		flag = cols[last]
		last--
	}
	if last < 2 || !amountLikeRe.MatchString(cols[last]) {
		return RawMatch{}, false
	}

	desc := strings.TrimSpace(strings.Join(cols[1:last], " "))
	if desc == "" {
		return RawMatch{}, false
	}
	return RawMatch{
		Date:        cols[0],
		Description: desc,
		Amount:      cols[last],
		TypeFlag:    flag,
		DateHint:    DateHintDMY,
	}, true
}

// extractUPI handles date + UPI/<payee>/<ref> + amount layouts. The
// description is prefixed with "UPI " so the payee stays attributable to
// the rail it came through.
func extractUPI(line string) (RawMatch, bool) {
	m := upiRe.FindStringSubmatch(line)
	if m == nil {
		return RawMatch{}, false
	}
	return RawMatch{
		Date:        m[1],
		Description: "UPI " + strings.TrimSpace(m[2]),
		Amount:      m[3],
		TypeFlag:    m[4],
		DateHint:    DateHintDMY,
	}, true
}

// isCreditFlag reports whether a tolerated trailing flag marks an
// incoming credit/deposit. The engine models outgoing spend only, so
// credit matches are discarded.
func isCreditFlag(flag string) bool {
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "cr", "credit":
		return true
	}
	return false
}

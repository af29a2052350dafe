package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateHintDMY is the default field order for numeric dates on Indian
// statements.
const DateHintDMY = "DD/MM/YYYY"

var monthAbbrevs = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

var (
	textualDateRe = regexp.MustCompile(`^(\d{1,2})[-\s]([A-Za-z]{3})[-\s](\d{2,4})$`)
	numericSepRe  = regexp.MustCompile(`[/\-.\s]+`)
)

// NormalizeDate converts a raw date into a zero-padded YYYY-MM-DD string.
// It accepts a day/month-name textual form (15-JAN-2024, 15 Jan 24) or a
// numeric form whose field order follows the hint (DD…, MM… or YYYY…
// leading). Two-digit years above 50 expand to the 1900s, the rest to the
// 2000s. Unparseable input substitutes the current date and reports
// ok=false so the caller can surface a warning.
func NormalizeDate(raw, hint string) (string, bool) {
	s := strings.TrimSpace(raw)

	if m := textualDateRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, okMonth := monthAbbrevs[strings.ToUpper(m[2])]
		year := expandYear(m[3])
		if okMonth {
			if iso, ok := buildDate(year, month, day); ok {
				return iso, true
			}
		}
	}

	if iso, ok := parseNumericDate(s, hint); ok {
		return iso, true
	}

	return time.Now().Format("2006-01-02"), false
}

func parseNumericDate(s, hint string) (string, bool) {
	parts := numericSepRe.Split(s, -1)
	if len(parts) != 3 {
		return "", false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", false
		}
		nums[i] = n
	}

	var day, month, year int
	switch {
	case strings.HasPrefix(hint, "YYYY"):
		year, month, day = nums[0], nums[1], nums[2]
	case strings.HasPrefix(hint, "MM"):
		month, day = nums[0], nums[1]
		year = expandYear(parts[2])
	default: // DD… leading, the common Indian layout
		day, month = nums[0], nums[1]
		year = expandYear(parts[2])
	}

	return buildDate(year, month, day)
}

// expandYear resolves two-digit years: above 50 → 1900s, otherwise 2000s.
func expandYear(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	if len(s) <= 2 {
		if n > 50 {
			return 1900 + n
		}
		return 2000 + n
	}
	return n
}

// buildDate validates the fields against the real calendar before
// formatting. time.Date normalizes overflow (Feb 30 → Mar 2), so the
// round-trip check rejects impossible dates.
func buildDate(year, month, day int) (string, bool) {
	if year < 1900 || year > 2200 || month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

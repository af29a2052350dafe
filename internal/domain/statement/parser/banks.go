package parser

import "regexp"

// BankProfile bundles a bank's identification pattern with its known
// transaction-line layouts. Extraction patterns carry named capture
// groups (date, desc, amount and an optional type flag) so they can be
// iterated generically instead of hand-written per-bank branches.
type BankProfile struct {
	Name       string
	Identifier *regexp.Regexp
	Patterns   []*regexp.Regexp
	DateHint   string
}

// profiles is the static bank registry, scanned in declared order by
// DetectBank. Profiles are immutable for the process lifetime.
var profiles = []BankProfile{
	{
		Name:       "HDFC",
		Identifier: regexp.MustCompile(`(?i)HDFC\s*BANK|HDFC`),
		Patterns: []*regexp.Regexp{
			// 12/01/2024  SWIGGY*BANGALORE  REF123  450.00 Dr
			regexp.MustCompile(`(?m)^(?P<date>\d{2}/\d{2}/\d{2,4})\s+(?P<desc>.+?)\s+(?P<amount>[\d,]+\.\d{2})\s*(?P<type>Cr|Dr|Credit|Debit)?\s*$`),
			// SWIGGY*BANGALORE 450.00 Dr 12/01/2024
			regexp.MustCompile(`(?m)(?P<desc>[A-Z][A-Z0-9 *./&\-@]+?)\s+(?P<amount>[\d,]+\.\d{2})\s+(?P<type>Cr|Dr|Credit|Debit)\s+(?P<date>\d{2}/\d{2}/\d{2,4})`),
		},
		DateHint: "DD/MM/YYYY",
	},
	{
		Name:       "ICICI",
		Identifier: regexp.MustCompile(`(?i)ICICI\s*BANK|ICICI`),
		Patterns: []*regexp.Regexp{
			// 15-01-2024 UPI/SWIGGY/400512345678 450.00
			regexp.MustCompile(`(?m)^(?P<date>\d{2}-\d{2}-\d{4})\s+(?P<desc>.+?)\s+(?P<amount>[\d,]+\.\d{2})\s*(?P<type>CR|DR)?\s*$`),
			// 15-Jan-2024 AMAZON PAY INDIA 1,250.00 Dr
			regexp.MustCompile(`(?m)^(?P<date>\d{1,2}-[A-Za-z]{3}-\d{2,4})\s+(?P<desc>.+?)\s+(?P<amount>[\d,]+\.\d{2})\s*(?P<type>Cr|Dr)?\s*$`),
		},
		DateHint: "DD-MM-YYYY",
	},
	{
		Name:       "SBI",
		Identifier: regexp.MustCompile(`(?i)STATE\s*BANK\s*OF\s*INDIA|SBI`),
		Patterns: []*regexp.Regexp{
			// 15 Jan 2024  TO TRANSFER UPI/DR/4005...  450.00
			regexp.MustCompile(`(?m)^(?P<date>\d{1,2}\s+[A-Za-z]{3}\s+\d{4})\s+(?P<desc>.+?)\s+(?P<amount>[\d,]+\.\d{2})\s*(?P<type>Cr|Dr)?\s*$`),
			regexp.MustCompile(`(?m)^(?P<date>\d{2}/\d{2}/\d{2})\s+(?P<desc>.+?)\s+(?P<amount>[\d,]+\.\d{2})\s*$`),
		},
		DateHint: "DD/MM/YY",
	},
	{
		Name:       "Axis",
		Identifier: regexp.MustCompile(`(?i)AXIS\s*BANK`),
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^(?P<date>\d{2}-\d{2}-\d{4})\s+(?P<desc>.+?)\s+(?P<amount>[\d,]+\.\d{2})\s+(?P<type>CR|DR)\s*$`),
			regexp.MustCompile(`(?m)^(?P<date>\d{2}/\d{2}/\d{4})\s+(?P<desc>.+?)\s+(?P<amount>[\d,]+\.\d{2})\s*$`),
		},
		DateHint: "DD-MM-YYYY",
	},
	{
		Name:       "Kotak",
		Identifier: regexp.MustCompile(`(?i)KOTAK\s*MAHINDRA|KOTAK`),
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^(?P<date>\d{2}-[A-Za-z]{3}-\d{2,4})\s+(?P<desc>.+?)\s+(?P<amount>[\d,]+\.\d{2})\s*\((?P<type>Cr|Dr)\)\s*$`),
			regexp.MustCompile(`(?m)^(?P<date>\d{2}/\d{2}/\d{4})\s+(?P<desc>.+?)\s+(?P<amount>[\d,]+\.\d{2})\s*(?P<type>Cr|Dr)?\s*$`),
		},
		DateHint: "DD/MM/YYYY",
	},
}

// Profiles returns the static registry in its declared order.
func Profiles() []BankProfile {
	return profiles
}

// DetectBank scans the registry in order and returns the first profile
// whose identifier matches anywhere in the text. Nil means unknown bank,
// which is not an error: the extractor proceeds with generic strategies.
// One bank is assumed per document.
func DetectBank(text string) *BankProfile {
	for i := range profiles {
		if profiles[i].Identifier.MatchString(text) {
			return &profiles[i]
		}
	}
	return nil
}

// Package normalizer resolves raw, processor-mangled transaction
// descriptions to canonical merchant names.
package normalizer

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MappingSource supplies learned raw-description→canonical-name
// overrides, keyed by the uppercased raw text. The learned store
// satisfies it.
type MappingSource interface {
	LookupMerchant(raw string) (string, bool)
}

// merchantRule maps known raw substrings (including asterisk-delimited
// payment-processor tokens) to one canonical merchant name.
type merchantRule struct {
	Name       string
	Substrings []string
}

// staticRules is checked in declared order after learned mappings; the
// first rule with a contained substring wins.
var staticRules = []merchantRule{
	{Name: "Swiggy", Substrings: []string{"SWIGGY"}},
	{Name: "Zomato", Substrings: []string{"ZOMATO"}},
	{Name: "Amazon", Substrings: []string{"AMAZON", "AMZN"}},
	{Name: "Flipkart", Substrings: []string{"FLIPKART", "FKRT"}},
	{Name: "Myntra", Substrings: []string{"MYNTRA"}},
	{Name: "BigBasket", Substrings: []string{"BIGBASKET", "BB DAILY"}},
	{Name: "Blinkit", Substrings: []string{"BLINKIT", "GROFERS"}},
	{Name: "Zepto", Substrings: []string{"ZEPTO"}},
	{Name: "DMart", Substrings: []string{"DMART", "AVENUE SUPERMARTS"}},
	{Name: "Uber", Substrings: []string{"UBER"}},
	{Name: "Ola", Substrings: []string{"OLACABS", "OLA CABS", "OLAMONEY"}},
	{Name: "Rapido", Substrings: []string{"RAPIDO"}},
	{Name: "IRCTC", Substrings: []string{"IRCTC"}},
	{Name: "Netflix", Substrings: []string{"NETFLIX"}},
	{Name: "Spotify", Substrings: []string{"SPOTIFY"}},
	{Name: "Hotstar", Substrings: []string{"HOTSTAR", "DISNEY+"}},
	{Name: "BookMyShow", Substrings: []string{"BOOKMYSHOW", "BIGTREE"}},
	{Name: "Airtel", Substrings: []string{"AIRTEL", "BHARTI AIRTEL"}},
	{Name: "Jio", Substrings: []string{"JIO RECHARGE", "RELIANCE JIO", "JIO PREPAID"}},
	{Name: "Apollo Pharmacy", Substrings: []string{"APOLLO PHARMACY", "APOLLO247"}},
	{Name: "PharmEasy", Substrings: []string{"PHARMEASY"}},
	{Name: "Paytm", Substrings: []string{"PAYTM*", "PAYTM-"}},
	{Name: "PhonePe", Substrings: []string{"PHONEPE"}},
}

// Cleanup patterns for descriptions no rule recognizes: long digit runs
// (phone/account numbers), alphanumeric reference codes and rail-prefixed
// reference numbers.
var (
	digitRunRe = regexp.MustCompile(`\b\d{6,}\b`)
	refCodeRe  = regexp.MustCompile(`\b(?:[A-Za-z]+\d|\d+[A-Za-z])[A-Za-z0-9]{4,}\b`)
	railRefRe  = regexp.MustCompile(`(?i)\b(?:UPI|IMPS|NEFT)-\S+`)
	spacesRe   = regexp.MustCompile(`\s+`)
)

// Normalizer resolves raw descriptions. Resolution order: learned
// mapping, static rule table, generic cleanup.
type Normalizer struct {
	overrides MappingSource
}

// New creates a normalizer. overrides may be nil, in which case only the
// static table and cleanup apply.
func New(overrides MappingSource) *Normalizer {
	return &Normalizer{overrides: overrides}
}

// Normalize returns the canonical merchant name for a raw description. A
// learned mapping on the exact uppercased raw text overrides everything;
// then the static table matches by substring containment in declared
// order; otherwise the description is cleaned and title-cased. When
// cleanup leaves three characters or fewer the raw description is
// returned unchanged.
func (n *Normalizer) Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return raw
	}

	if n.overrides != nil {
		if name, ok := n.overrides.LookupMerchant(trimmed); ok {
			return name
		}
	}

	upper := strings.ToUpper(trimmed)
	for _, rule := range staticRules {
		for _, sub := range rule.Substrings {
			if strings.Contains(upper, sub) {
				return rule.Name
			}
		}
	}

	cleaned := cleanup(trimmed)
	if len(cleaned) <= 3 {
		return trimmed
	}
	return cleaned
}

// CanonicalNames returns the canonical merchant names of the static
// table in declared order. The suggestion index seeds itself from these.
func CanonicalNames() []string {
	out := make([]string, 0, len(staticRules))
	for _, rule := range staticRules {
		out = append(out, rule.Name)
	}
	return out
}

func cleanup(raw string) string {
	s := strings.ReplaceAll(raw, "*", " ")
	s = railRefRe.ReplaceAllString(s, " ")
	s = refCodeRe.ReplaceAllString(s, " ")
	s = digitRunRe.ReplaceAllString(s, " ")
	s = spacesRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ToLower(s))
}

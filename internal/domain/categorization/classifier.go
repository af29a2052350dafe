// Package categorization assigns spending categories to transactions and
// suggests merchants for correction UIs.
package categorization

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// CategoryOther is the fallback when nothing else matches. The category
// set is otherwise open: learned corrections may introduce arbitrary
// strings and they are returned verbatim.
const CategoryOther = "Other"

// KeywordPattern is a user-added keyword→category rule, checked in the
// order it was added.
type KeywordPattern struct {
	Keyword  string
	Category string
}

// Overrides supplies learned category corrections (keyed by the
// lowercased normalized merchant) and user custom patterns. The learned
// store satisfies it through an adapter.
type Overrides interface {
	CategoryFor(merchant string) (string, bool)
	KeywordPatterns() []KeywordPattern
}

// categoryRule is one entry of the static table. Table order is priority
// order: the earliest rule with a matching keyword wins.
type categoryRule struct {
	Category string
	Keywords []string
}

var staticTable = []categoryRule{
	{"Food", []string{"swiggy", "zomato", "restaurant", "cafe", "dominos", "pizza", "mcdonald", "kfc", "burger", "biryani", "eatfit", "dining", "dhaba"}},
	{"Groceries", []string{"bigbasket", "blinkit", "grofers", "zepto", "dmart", "grocery", "supermarket", "kirana", "reliance fresh", "more retail", "nature's basket"}},
	{"Utilities", []string{"electricity", "bescom", "tata power", "airtel", "jio", "vodafone", "broadband", "water bill", "gas bill", "recharge", "dth", "postpaid"}},
	{"Rent", []string{"rent", "nobroker", "nestaway", "landlord", "lease"}},
	{"Entertainment", []string{"bookmyshow", "pvr", "inox", "movie", "theatre", "gaming", "playstation", "steam"}},
	{"Transport", []string{"uber", "ola", "rapido", "metro", "irctc", "redbus", "fuel", "petrol", "diesel", "fastag", "parking", "cab"}},
	{"Shopping", []string{"amazon", "flipkart", "myntra", "ajio", "nykaa", "meesho", "mall", "store", "mart"}},
	{"Household", []string{"urban company", "furniture", "ikea", "homecentre", "hardware", "cleaning", "pepperfry"}},
	{"Health", []string{"pharmacy", "apollo", "medplus", "pharmeasy", "netmeds", "1mg", "hospital", "clinic", "practo", "diagnostic", "lab test"}},
	{"Education", []string{"udemy", "coursera", "byju", "unacademy", "school", "college", "tuition", "course", "exam fee"}},
	{"Transfer", []string{"upi", "imps", "neft", "rtgs", "transfer", "withdrawal", "atm", "self"}},
	{"Subscription", []string{"netflix", "prime video", "hotstar", "spotify", "youtube premium", "subscription", "membership", "renewal"}},
}

// Classifier resolves categories. Resolution order: learned correction,
// custom keyword patterns in added order, static table in declaration
// order, then CategoryOther. The static table is compiled into a single
// Aho-Corasick matcher so one pass over the description checks every
// keyword.
type Classifier struct {
	overrides Overrides
	matcher   *ahocorasick.Matcher
	// categoryByKeyword maps the matcher's pattern index back to its
	// table entry; lower index means earlier declaration.
	categoryByKeyword []string
}

// NewClassifier compiles the static table. overrides may be nil.
func NewClassifier(overrides Overrides) *Classifier {
	var keywords []string
	var categories []string
	for _, rule := range staticTable {
		for _, kw := range rule.Keywords {
			keywords = append(keywords, kw)
			categories = append(categories, rule.Category)
		}
	}

	return &Classifier{
		overrides:         overrides,
		matcher:           ahocorasick.NewStringMatcher(keywords),
		categoryByKeyword: categories,
	}
}

// Categorize returns the category for a transaction given its raw
// description and normalized merchant.
func (c *Classifier) Categorize(rawDescription, merchant string) string {
	if c.overrides != nil {
		if category, ok := c.overrides.CategoryFor(strings.ToLower(strings.TrimSpace(merchant))); ok {
			return category
		}
	}

	lowered := strings.ToLower(rawDescription)

	if c.overrides != nil {
		for _, p := range c.overrides.KeywordPatterns() {
			if strings.Contains(lowered, strings.ToLower(p.Keyword)) {
				return p.Category
			}
		}
	}

	hits := c.matcher.Match([]byte(lowered))
	if len(hits) > 0 {
		best := hits[0]
		for _, h := range hits[1:] {
			if h < best {
				best = h
			}
		}
		return c.categoryByKeyword[best]
	}

	return CategoryOther
}

// Categories returns the static category names in table order, with the
// fallback appended. Useful for CLIs and docs; the live set is open to
// learned additions.
func Categories() []string {
	out := make([]string, 0, len(staticTable)+1)
	for _, rule := range staticTable {
		out = append(out, rule.Category)
	}
	return append(out, CategoryOther)
}

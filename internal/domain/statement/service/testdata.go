package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// TestDataGenerator produces synthetic statement text using gofakeit.
// Useful for tests and load experiments; never used on the parse path.
type TestDataGenerator struct {
	faker *gofakeit.Faker
}

// NewTestDataGenerator creates a generator with a random seed.
func NewTestDataGenerator() *TestDataGenerator {
	return &TestDataGenerator{faker: gofakeit.New(0)}
}

// NewTestDataGeneratorWithSeed creates a generator with a fixed seed for
// reproducibility.
func NewTestDataGeneratorWithSeed(seed int64) *TestDataGenerator {
	return &TestDataGenerator{faker: gofakeit.New(seed)}
}

// knownMerchants are raw descriptions the normalizer's static table
// recognizes, the way a processor would mangle them.
var knownMerchants = []string{
	"SWIGGY*BANGALORE",
	"ZOMATO ORDER",
	"AMAZON PAY INDIA",
	"FLIPKART INTERNET",
	"UBER TRIP",
	"BIGBASKET BLR",
	"NETFLIX.COM",
	"APOLLO PHARMACY",
	"IRCTC RAIL TICKET",
	"AIRTEL PREPAID RECHARGE",
}

// merchantDescription returns a raw description: mostly recognizable
// merchants, the rest generated noise the cleanup path has to handle.
func (g *TestDataGenerator) merchantDescription() string {
	if g.faker.Number(0, 9) < 7 {
		return g.faker.RandomString(knownMerchants)
	}
	return strings.ToUpper(fmt.Sprintf("%s %d", g.faker.Company(), g.faker.Number(100000, 999999)))
}

func (g *TestDataGenerator) amount() string {
	return fmt.Sprintf("%.2f", g.faker.Float64Range(10, 9999))
}

// HDFCStatement renders count transaction lines in the HDFC layout under
// an identifying header.
func (g *TestDataGenerator) HDFCStatement(count int) string {
	var b strings.Builder
	b.WriteString("HDFC BANK Statement of Account\n")

	day := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		fmt.Fprintf(&b, "%s  %s  %s\n", day.Format("02/01/2006"), g.merchantDescription(), g.amount())
		if g.faker.Bool() {
			day = day.AddDate(0, 0, 1)
		}
	}
	return b.String()
}

// GenericStatement renders count lines with no bank identifier so only
// the fallback strategies apply.
func (g *TestDataGenerator) GenericStatement(count int) string {
	var b strings.Builder
	day := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		fmt.Fprintf(&b, "%s %s %s\n", day.Format("02/01/2006"), g.merchantDescription(), g.amount())
		if g.faker.Bool() {
			day = day.AddDate(0, 0, 1)
		}
	}
	return b.String()
}

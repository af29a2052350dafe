package parser

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/statement-engine/internal/domain/categorization"
	"github.com/FACorreiaa/statement-engine/internal/domain/statement/normalizer"
)

func newTestExtractor() *Extractor {
	return NewExtractor(
		normalizer.New(nil),
		categorization.NewClassifier(nil),
		slog.New(slog.DiscardHandler),
	)
}

func TestExtractHDFCStatement(t *testing.T) {
	text := strings.Join([]string{
		"HDFC BANK Statement of Account",
		"SWIGGY*BANGALORE 450.00 Dr 12/01/2024",
	}, "\n")

	result := newTestExtractor().Extract(text)

	assert.Equal(t, "HDFC", result.Bank)
	assert.True(t, result.BankAttempted)
	require.Len(t, result.Transactions, 1)

	tx := result.Transactions[0]
	assert.Equal(t, "2024-01-12", tx.Date)
	assert.Equal(t, "Swiggy", tx.Merchant)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("450.00")))
	assert.Equal(t, "Food", tx.Category)
	assert.Equal(t, "PDF (HDFC)", tx.Source)
}

func TestExtractCreditFlagsDiscarded(t *testing.T) {
	text := strings.Join([]string{
		"HDFC BANK Statement",
		"SWIGGY*BANGALORE 450.00 Dr 12/01/2024",
		"SALARY JANUARY CREDIT 50000.00 Cr 01/01/2024",
		"REFUND AMAZON ORDER 500.00 Credit 05/01/2024",
	}, "\n")

	result := newTestExtractor().Extract(text)

	for _, tx := range result.Transactions {
		assert.NotContains(t, tx.Description, "SALARY")
		assert.NotContains(t, tx.Description, "REFUND")
	}
}

func TestExtractGenericStrategies(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		merchant string
		amount   string
		date     string
	}{
		{
			name:     "date first",
			line:     "12/01/2024 BIG BAZAAR MUMBAI 1,500.00",
			merchant: "Big Bazaar Mumbai",
			amount:   "1500",
			date:     "2024-01-12",
		},
		{
			name:     "date first with debit marker",
			line:     "13/01/2024 CAFE COFFEE DAY 320.50 Dr",
			merchant: "Cafe Coffee Day",
			amount:   "320.5",
			date:     "2024-01-13",
		},
		{
			name:     "amount first",
			line:     "450.00 SWIGGY BANGALORE 14/01/2024",
			merchant: "Swiggy",
			amount:   "450",
			date:     "2024-01-14",
		},
		{
			name:     "month name date",
			line:     "15 Jan 2024 APOLLO PHARMACY 240.00",
			merchant: "Apollo Pharmacy",
			amount:   "240",
			date:     "2024-01-15",
		},
		{
			name:     "delimiter separated",
			line:     "16/01/2024\tRELIANCE FRESH\t899.00",
			merchant: "Reliance Fresh",
			amount:   "899",
			date:     "2024-01-16",
		},
		{
			name:     "upi reference",
			line:     "17/01/2024 UPI/RAHUL KUMAR/405912345678 500.00",
			merchant: "Upi Rahul Kumar",
			amount:   "500",
			date:     "2024-01-17",
		},
	}

	e := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.Extract(tt.line)
			require.NotEmpty(t, result.Transactions, "no transaction extracted from %q", tt.line)

			var found bool
			for _, tx := range result.Transactions {
				if tx.Merchant == tt.merchant {
					found = true
					assert.Equal(t, tt.date, tx.Date)
					assert.Equal(t, tt.amount, tx.Amount.String())
					assert.Equal(t, "PDF (Generic)", tx.Source)
				}
			}
			assert.True(t, found, "merchant %q not found in %v", tt.merchant, result.Transactions)
		})
	}
}

func TestExtractUPIDescriptionPrefix(t *testing.T) {
	result := newTestExtractor().Extract("17/01/2024 UPI/RAHUL KUMAR/405912345678 500.00")

	var upiDesc bool
	for _, tx := range result.Transactions {
		if strings.HasPrefix(tx.Description, "UPI ") {
			upiDesc = true
		}
	}
	assert.True(t, upiDesc, "expected a transaction with a UPI-prefixed description")
}

func TestExtractFallbackSupersession(t *testing.T) {
	// One line in the HDFC layout, five in a month-name layout the bank
	// patterns do not know: the generic pass out-yields the bank pass
	// and its output replaces it entirely.
	text := strings.Join([]string{
		"HDFC BANK Statement",
		"SWIGGY*BANGALORE 450.00 Dr 12/01/2024",
		"15 Jan 2024 BIG BAZAAR 999.00",
		"16 Jan 2024 CAFE COFFEE DAY 240.00",
		"17 Jan 2024 APOLLO PHARMACY 510.00",
		"18 Jan 2024 RELIANCE FRESH 1200.00",
		"19 Jan 2024 URBAN COMPANY 650.00",
	}, "\n")

	result := newTestExtractor().Extract(text)

	assert.Equal(t, "HDFC", result.Bank)
	assert.True(t, result.GenericUsed)
	assert.Len(t, result.Transactions, 5)
	for _, tx := range result.Transactions {
		// Bank detection still improves the label on the generic pass.
		assert.Equal(t, "PDF (HDFC)", tx.Source)
		assert.NotEqual(t, "2024-01-12", tx.Date)
	}
}

func TestExtractBankPassWinsOnYield(t *testing.T) {
	text := strings.Join([]string{
		"HDFC BANK Statement",
		"01/01/2024  GROCERY MART  500.00",
		"02/01/2024  FUEL STATION  2000.00",
		"03/01/2024  BOOK STORE  350.00",
		"04/01/2024  PHARMACY PLUS  120.00",
	}, "\n")

	result := newTestExtractor().Extract(text)

	assert.True(t, result.BankSucceeded)
	assert.False(t, result.GenericUsed)
	assert.Len(t, result.Transactions, 4)
	for _, tx := range result.Transactions {
		assert.Equal(t, "PDF (HDFC)", tx.Source)
	}
}

func TestExtractIdempotent(t *testing.T) {
	text := strings.Join([]string{
		"12/01/2024 BIG BAZAAR 1,500.00",
		"13/01/2024 CAFE COFFEE DAY 320.50 Dr",
	}, "\n")

	e := newTestExtractor()
	first := e.Extract(text)
	second := e.Extract(text)
	assert.Equal(t, first.Transactions, second.Transactions)
}

func TestExtractAmountBounds(t *testing.T) {
	text := strings.Join([]string{
		"12/01/2024 LEGIT PURCHASE 4,500.00",
		"13/01/2024 BROKEN ROW 99999999.00",
		"14/01/2024 ZERO ROW 0.00",
	}, "\n")

	result := newTestExtractor().Extract(text)

	require.Len(t, result.Transactions, 1)
	for _, tx := range result.Transactions {
		assert.True(t, tx.Amount.IsPositive())
		assert.True(t, tx.Amount.LessThan(MaxAmount))
	}
}

func TestExtractBadDateSubstitutedWithWarning(t *testing.T) {
	result := newTestExtractor().Extract("30/02/2024 GHOST STORE 450.00")

	require.Len(t, result.Transactions, 1)
	assert.NotEmpty(t, result.Warnings)
	assert.NotEmpty(t, result.Transactions[0].Date)
}

func TestExtractEmptyText(t *testing.T) {
	result := newTestExtractor().Extract("")
	assert.Empty(t, result.Transactions)
	assert.Empty(t, result.Bank)
}

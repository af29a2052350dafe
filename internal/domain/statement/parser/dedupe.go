package parser

import (
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/statement-engine/internal/domain/statement"
)

// duplicateEpsilon is the amount tolerance below which two otherwise
// identical transactions are considered the same.
var duplicateEpsilon = decimal.NewFromFloat(0.01)

// Deduplicate removes transactions that share a normalized date, a
// normalized merchant and an amount within 0.01 of an earlier one. First
// occurrence wins. It runs after each extraction pass and again whenever
// passes are merged; the generic strategies deliberately re-scan every
// line, so duplicates are expected, not exceptional.
func Deduplicate(txs []statement.Transaction) []statement.Transaction {
	type seenKey struct {
		date     string
		merchant string
	}

	seen := make(map[seenKey][]decimal.Decimal)
	out := make([]statement.Transaction, 0, len(txs))

	for _, tx := range txs {
		key := seenKey{date: tx.Date, merchant: tx.Merchant}
		dup := false
		for _, amount := range seen[key] {
			if tx.Amount.Sub(amount).Abs().LessThan(duplicateEpsilon) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		seen[key] = append(seen[key], tx.Amount)
		out = append(out, tx)
	}
	return out
}

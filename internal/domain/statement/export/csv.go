// Package export writes parsed transactions to CSV.
package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/FACorreiaa/statement-engine/internal/domain/statement"
)

// csvRow is the CSV projection of a transaction. Keeping the tags on a
// dedicated row type leaves the domain type free of export concerns.
type csvRow struct {
	Date       string `csv:"date"`
	Merchant   string `csv:"merchant"`
	Amount     string `csv:"amount"`
	Category   string `csv:"category"`
	Confidence string `csv:"confidence"`
	Source     string `csv:"source"`
	Raw        string `csv:"raw_description"`
}

// WriteCSV writes the transactions to w with a header row.
func WriteCSV(w io.Writer, txs []statement.Transaction) error {
	rows := make([]csvRow, len(txs))
	for i, tx := range txs {
		rows[i] = csvRow{
			Date:       tx.Date,
			Merchant:   tx.Merchant,
			Amount:     tx.Amount.StringFixed(2),
			Category:   tx.Category,
			Confidence: string(tx.Confidence),
			Source:     tx.Source,
			Raw:        tx.Description,
		}
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

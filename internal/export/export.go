// Package export writes extracted transactions to CSV for downstream
// spreadsheet work.
package export

import (
	"encoding/csv"
	"fmt"

	"github.com/gocarina/gocsv"

	"cardsight/statement-core/internal/fileutils"
	"cardsight/statement-core/internal/logging"
	"cardsight/statement-core/internal/models"
)

// Row is the CSV shape of one transaction. Dates are ISO so the output sorts
// lexically; amounts are fixed to two decimals.
type Row struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Category    string `csv:"Category"`
	Verified    bool   `csv:"Verified"`
	StatementID string `csv:"StatementID"`
}

const dateLayout = "2006-01-02"

// Writer exports transactions to CSV files.
type Writer struct {
	Delimiter rune
	logger    logging.Logger
}

// NewWriter creates a Writer with the comma delimiter.
func NewWriter(logger logging.Logger) *Writer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Writer{Delimiter: ',', logger: logger}
}

// WriteTransactions writes the transactions to csvFile, creating parent
// directories as needed. A nil slice is an error; an empty one writes just
// the header.
func (w *Writer) WriteTransactions(transactions []models.Transaction, csvFile string) error {
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}

	w.logger.Info("Writing transactions to CSV",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)})

	file, err := fileutils.CreateFile(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			w.logger.WithError(err).Warn("Failed to close CSV file")
		}
	}()

	rows := make([]Row, 0, len(transactions))
	for _, tx := range transactions {
		rows = append(rows, Row{
			Date:        tx.Date.Format(dateLayout),
			Description: tx.Description,
			Amount:      tx.Amount.StringFixed(2),
			Category:    tx.Category,
			Verified:    tx.Verified,
			StatementID: tx.StatementID,
		})
	}

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = w.Delimiter
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// Package process handles the statement processing command
package process

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"cardsight/statement-core/cmd/root"
	"cardsight/statement-core/internal/fileutils"
	"cardsight/statement-core/internal/logging"
	"cardsight/statement-core/internal/models"
)

// Cmd represents the process command
var Cmd = &cobra.Command{
	Use:   "process",
	Short: "Run the extraction pipeline for one statement",
	Long: `Process a statement document through extraction, reconciliation,
classification and account reconciliation. Either point at an already
registered statement with --id, or register a new PDF with --file.`,
	Run: processFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.StatementID, "id", "s", "", "ID of a registered statement to process")
	Cmd.Flags().StringVarP(&root.FilePath, "file", "f", "", "Statement PDF to register and process")
	Cmd.Flags().StringVarP(&root.Holder, "holder", "H", "", "Account holder name (with --file)")
	Cmd.Flags().StringVarP(&root.AccountName, "account-name", "n", "", "Card product name (with --file)")
	Cmd.Flags().StringVarP(&root.LastFour, "last-four", "l", "", "Last four digits of the card (with --file)")
}

func processFunc(cmd *cobra.Command, args []string) {
	if root.StatementID == "" && root.FilePath == "" {
		root.Log.Error("Either --id or --file is required")
		return
	}

	app := root.NewApp()

	id := root.StatementID
	if id == "" {
		registered, err := registerDocument(app)
		if err != nil {
			root.Log.WithError(err).Error("Failed to register statement document")
			return
		}
		id = registered
	}

	if err := app.Engine.Process(context.Background(), id); err != nil {
		root.Log.WithError(err).Error("Statement processing failed",
			logging.Field{Key: logging.FieldStatement, Value: id})
		return
	}

	root.Log.Info("Statement processed successfully",
		logging.Field{Key: logging.FieldStatement, Value: id})
	app.ExportIfRequested(id)
}

// registerDocument stores the PDF under the data directory and creates the
// statement record in the uploaded state.
func registerDocument(app *root.App) (string, error) {
	data, err := fileutils.ReadFile(root.FilePath)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	docRef := id + ".pdf"
	if err := app.Documents.Save(docRef, data); err != nil {
		return "", err
	}

	st := models.Statement{
		ID:             id,
		AccountHolder:  root.Holder,
		AccountName:    root.AccountName,
		LastFourDigits: root.LastFour,
		DocumentRef:    docRef,
		Status:         models.StatusUploaded,
		UploadedAt:     time.Now().UTC(),
	}
	if err := app.Statements.Save(st); err != nil {
		return "", err
	}

	root.Log.Info("Statement registered",
		logging.Field{Key: logging.FieldStatement, Value: id},
		logging.Field{Key: logging.FieldFile, Value: root.FilePath})
	return id, nil
}

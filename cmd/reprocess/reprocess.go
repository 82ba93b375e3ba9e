// Package reprocess handles re-running settled statements
package reprocess

import (
	"context"

	"github.com/spf13/cobra"

	"cardsight/statement-core/cmd/root"
	"cardsight/statement-core/internal/logging"
)

// Cmd represents the reprocess command
var Cmd = &cobra.Command{
	Use:   "reprocess",
	Short: "Purge a statement's transactions and run the pipeline again",
	Long: `Reprocess deletes the transactions previously derived from a statement
and runs the full pipeline again from the stored document. The resulting
transaction set reflects only the current document content.`,
	Run: reprocessFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.StatementID, "id", "s", "", "ID of the statement to reprocess")
	_ = Cmd.MarkFlagRequired("id")
}

func reprocessFunc(cmd *cobra.Command, args []string) {
	app := root.NewApp()

	if err := app.Engine.Reprocess(context.Background(), root.StatementID); err != nil {
		root.Log.WithError(err).Error("Statement reprocessing failed",
			logging.Field{Key: logging.FieldStatement, Value: root.StatementID})
		return
	}

	root.Log.Info("Statement reprocessed successfully",
		logging.Field{Key: logging.FieldStatement, Value: root.StatementID})
	app.ExportIfRequested(root.StatementID)
}

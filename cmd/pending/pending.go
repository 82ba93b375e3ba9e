// Package pending handles batch processing of unprocessed statements
package pending

import (
	"context"

	"github.com/spf13/cobra"

	"cardsight/statement-core/cmd/root"
	"cardsight/statement-core/internal/logging"
)

// Cmd represents the pending command
var Cmd = &cobra.Command{
	Use:   "pending",
	Short: "Process every uploaded or pending statement",
	Long: `Pending runs the pipeline for each statement still waiting to be
processed. Statements are handled sequentially and one failure never aborts
the batch.`,
	Run: pendingFunc,
}

func pendingFunc(cmd *cobra.Command, args []string) {
	app := root.NewApp()

	outcomes, err := app.Engine.ProcessAllPending(context.Background())
	if err != nil {
		root.Log.WithError(err).Error("Failed to list pending statements")
		return
	}
	if len(outcomes) == 0 {
		root.Log.Info("No pending statements")
		return
	}

	succeeded := 0
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			root.Log.WithError(outcome.Err).Error("Statement failed",
				logging.Field{Key: logging.FieldStatement, Value: outcome.StatementID})
			continue
		}
		succeeded++
		root.Log.Info("Statement processed",
			logging.Field{Key: logging.FieldStatement, Value: outcome.StatementID},
			logging.Field{Key: logging.FieldCount, Value: outcome.Transactions})
	}

	root.Log.Info("Batch finished",
		logging.Field{Key: "succeeded", Value: succeeded},
		logging.Field{Key: "failed", Value: len(outcomes) - succeeded})
}

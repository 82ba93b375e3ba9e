// Package categorize handles transaction categorization commands
package categorize

import (
	"github.com/spf13/cobra"

	"cardsight/statement-core/cmd/root"
	"cardsight/statement-core/internal/logging"
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Classify a transaction description",
	Long: `Categorize runs the keyword classifier over a single transaction
description and prints the category it lands in, using the same keyword sets
(built-in or overridden via the categories file) as statement processing.`,
	Run: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.Description, "description", "D", "", "Transaction description to classify")
	_ = Cmd.MarkFlagRequired("description")
}

func categorizeFunc(cmd *cobra.Command, args []string) {
	app := root.NewApp()

	category := app.Classifier.Classify(root.Description)
	root.Log.Info("Description classified",
		logging.Field{Key: logging.FieldCategory, Value: category})
}

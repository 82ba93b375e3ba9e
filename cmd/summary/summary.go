// Package summary handles the account summary command
package summary

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cardsight/statement-core/cmd/root"
	"cardsight/statement-core/internal/logging"
	"cardsight/statement-core/internal/models"
)

// Cmd represents the summary command
var Cmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the spending summary for one account",
	Long: `Summary recomputes an account's aggregation from its persisted
transactions: per-category totals, verification progress, credit utilization
and monthly trends.`,
	Run: summaryFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.AccountID, "account", "a", "", "ID of the account to summarize")
	_ = Cmd.MarkFlagRequired("account")
}

func summaryFunc(cmd *cobra.Command, args []string) {
	app := root.NewApp()

	result, err := app.Aggregator.AccountSummary(context.Background(), root.AccountID)
	if err != nil {
		root.Log.WithError(err).Error("Failed to compute account summary",
			logging.Field{Key: logging.FieldAccount, Value: root.AccountID})
		return
	}

	fmt.Printf("Account %s\n", result.AccountID)
	fmt.Printf("  Transactions:       %d (%d verified, %d unverified)\n",
		result.TotalTransactions, result.VerifiedCount, result.UnverifiedCount)
	fmt.Printf("  Total amount:       %s\n", result.TotalAmount.StringFixed(2))
	fmt.Printf("  Average amount:     %s\n", result.AverageAmount.StringFixed(2))
	fmt.Printf("  Verification rate:  %.2f%%\n", result.VerificationRate)
	fmt.Printf("  Card limit:         %s\n", result.CardLimit.StringFixed(2))
	fmt.Printf("  Outstanding:        %s\n", result.OutstandingAmount.StringFixed(2))
	fmt.Printf("  Credit utilization: %.2f%%\n", result.CreditUtilization)

	fmt.Println("  Categories:")
	for _, category := range models.AllCategories {
		total := result.CategoryTotals[category]
		if total.Count == 0 {
			continue
		}
		fmt.Printf("    %-14s %4d  %12s\n", category, total.Count, total.Amount.StringFixed(2))
	}

	if len(result.MonthlyTrends) > 0 {
		fmt.Println("  Monthly trends:")
		for _, trend := range result.MonthlyTrends {
			fmt.Printf("    %04d-%02d  %4d  %12s\n",
				trend.Year, int(trend.Month), trend.Count, trend.Amount.StringFixed(2))
		}
	}
}

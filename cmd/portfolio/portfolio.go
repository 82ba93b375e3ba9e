// Package portfolio handles the portfolio roll-up command
package portfolio

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cardsight/statement-core/cmd/root"
)

// Cmd represents the portfolio command
var Cmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show the roll-up across a holder's accounts",
	Long: `Portfolio sums limits, outstanding amounts and transaction activity
across every account of a holder, or across all accounts when no holder is
given. Accounts whose detail summary fails still contribute their last-known
outstanding amount.`,
	Run: portfolioFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.Holder, "holder", "H", "", "Account holder to roll up (default: all accounts)")
}

func portfolioFunc(cmd *cobra.Command, args []string) {
	app := root.NewApp()

	result, err := app.Aggregator.PortfolioSummary(context.Background(), root.Holder)
	if err != nil {
		root.Log.WithError(err).Error("Failed to compute portfolio summary")
		return
	}

	scope := root.Holder
	if scope == "" {
		scope = "all holders"
	}
	fmt.Printf("Portfolio (%s)\n", scope)
	fmt.Printf("  Accounts:           %d", result.Accounts)
	if result.FailedAccounts > 0 {
		fmt.Printf(" (+%d failed)", result.FailedAccounts)
	}
	fmt.Println()
	fmt.Printf("  Card limit:         %s\n", result.CardLimit.StringFixed(2))
	fmt.Printf("  Available limit:    %s\n", result.AvailableLimit.StringFixed(2))
	fmt.Printf("  Outstanding:        %s\n", result.OutstandingAmount.StringFixed(2))
	fmt.Printf("  Transactions:       %d\n", result.TotalTransactions)
	fmt.Printf("  Total amount:       %s\n", result.TotalAmount.StringFixed(2))
	fmt.Printf("  Credit utilization: %.2f%%\n", result.CreditUtilization)
	fmt.Printf("  Verification rate:  %.2f%%\n", result.VerificationRate)
}

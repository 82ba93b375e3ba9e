// Package aggregator computes spending summaries from persisted transactions.
// Summaries are recomputed on every request, never persisted.
package aggregator

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"cardsight/statement-core/internal/dateutils"
	"cardsight/statement-core/internal/logging"
	"cardsight/statement-core/internal/models"
	"cardsight/statement-core/internal/store"
)

var oneHundred = decimal.NewFromInt(100)

// Aggregator derives account and portfolio summaries.
type Aggregator struct {
	transactions store.TransactionStore
	accounts     store.AccountStore
	logger       logging.Logger
}

// New creates an Aggregator.
func New(transactions store.TransactionStore, accounts store.AccountStore, logger logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Aggregator{transactions: transactions, accounts: accounts, logger: logger}
}

// AccountSummary aggregates one account's transactions: per-category totals
// zero-filled over the whole taxonomy, verification splits, financial ratios
// and monthly trends (most recent first).
func (a *Aggregator) AccountSummary(ctx context.Context, accountID string) (*models.AccountSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	account, err := a.accounts.Get(accountID)
	if err != nil {
		return nil, err
	}
	transactions, err := a.transactions.ListByAccount(accountID)
	if err != nil {
		return nil, err
	}

	summary := &models.AccountSummary{
		AccountID:         accountID,
		CategoryTotals:    make(map[string]models.CategoryTotal, len(models.AllCategories)),
		CategoryRates:     make(map[string]float64, len(models.AllCategories)),
		TotalAmount:       decimal.Zero,
		VerifiedAmount:    decimal.Zero,
		UnverifiedAmount:  decimal.Zero,
		CardLimit:         account.CardLimit,
		AvailableLimit:    account.AvailableLimit,
		OutstandingAmount: account.OutstandingAmount,
	}
	for _, category := range models.AllCategories {
		summary.CategoryTotals[category] = models.CategoryTotal{Amount: decimal.Zero}
	}

	type trendKey struct {
		year  int
		month int
	}
	trends := make(map[trendKey]models.MonthlyTrend)

	for _, tx := range transactions {
		category := tx.Category
		if _, known := summary.CategoryTotals[category]; !known {
			category = models.CategoryUnclassified
		}

		total := summary.CategoryTotals[category]
		total.Count++
		total.Amount = total.Amount.Add(tx.Amount)
		if tx.Verified {
			total.VerifiedCount++
		}
		summary.CategoryTotals[category] = total

		summary.TotalTransactions++
		summary.TotalAmount = summary.TotalAmount.Add(tx.Amount)
		if tx.Verified {
			summary.VerifiedCount++
			summary.VerifiedAmount = summary.VerifiedAmount.Add(tx.Amount)
		} else {
			summary.UnverifiedCount++
			summary.UnverifiedAmount = summary.UnverifiedAmount.Add(tx.Amount)
		}

		year, month := dateutils.YearMonth(tx.Date)
		key := trendKey{year: year, month: int(month)}
		trend := trends[key]
		trend.Year = year
		trend.Month = month
		trend.Count++
		trend.Amount = trend.Amount.Add(tx.Amount)
		trends[key] = trend
	}

	// TotalSpent is defined as the sum of category amounts; with every
	// transaction bucketed exactly once it equals TotalAmount.
	summary.TotalSpent = decimal.Zero
	for _, total := range summary.CategoryTotals {
		summary.TotalSpent = summary.TotalSpent.Add(total.Amount)
	}

	if summary.TotalTransactions > 0 {
		summary.AverageAmount = summary.TotalAmount.DivRound(
			decimal.NewFromInt(int64(summary.TotalTransactions)), 2)
		summary.VerificationRate = rate(summary.VerifiedCount, summary.TotalTransactions)
	}
	for _, category := range models.AllCategories {
		total := summary.CategoryTotals[category]
		summary.CategoryRates[category] = rate(total.VerifiedCount, total.Count)
	}

	summary.CreditUtilization = utilization(account.OutstandingAmount, account.CardLimit)

	summary.MonthlyTrends = make([]models.MonthlyTrend, 0, len(trends))
	for _, trend := range trends {
		summary.MonthlyTrends = append(summary.MonthlyTrends, trend)
	}
	sort.Slice(summary.MonthlyTrends, func(i, j int) bool {
		left, right := summary.MonthlyTrends[i], summary.MonthlyTrends[j]
		if left.Year != right.Year {
			return left.Year > right.Year
		}
		return left.Month > right.Month
	})

	return summary, nil
}

// PortfolioSummary rolls up every account of a holder, or all accounts when
// holder is empty. An account whose detail summary fails still contributes
// its last-known outstanding amount: a known liability is never zeroed by an
// aggregation failure.
func (a *Aggregator) PortfolioSummary(ctx context.Context, holder string) (*models.PortfolioSummary, error) {
	var accounts []models.Account
	var err error
	if holder == "" {
		accounts, err = a.accounts.List()
	} else {
		accounts, err = a.accounts.ListByHolder(holder)
	}
	if err != nil {
		return nil, err
	}

	portfolio := &models.PortfolioSummary{
		CardLimit:         decimal.Zero,
		AvailableLimit:    decimal.Zero,
		OutstandingAmount: decimal.Zero,
		TotalAmount:       decimal.Zero,
	}

	for _, account := range accounts {
		summary, err := a.AccountSummary(ctx, account.ID)
		if err != nil {
			a.logger.WithError(err).Warn("Account summary failed, degrading to last-known outstanding",
				logging.Field{Key: logging.FieldAccount, Value: account.ID})
			portfolio.FailedAccounts++
			portfolio.OutstandingAmount = portfolio.OutstandingAmount.Add(account.OutstandingAmount)
			continue
		}

		portfolio.Accounts++
		portfolio.CardLimit = portfolio.CardLimit.Add(summary.CardLimit)
		portfolio.AvailableLimit = portfolio.AvailableLimit.Add(summary.AvailableLimit)
		portfolio.OutstandingAmount = portfolio.OutstandingAmount.Add(summary.OutstandingAmount)
		portfolio.TotalTransactions += summary.TotalTransactions
		portfolio.TotalAmount = portfolio.TotalAmount.Add(summary.TotalAmount)
		portfolio.VerifiedCount += summary.VerifiedCount
	}

	portfolio.CreditUtilization = utilization(portfolio.OutstandingAmount, portfolio.CardLimit)
	portfolio.VerificationRate = rate(portfolio.VerifiedCount, portfolio.TotalTransactions)
	return portfolio, nil
}

func rate(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func utilization(outstanding, limit decimal.Decimal) float64 {
	if limit.IsZero() {
		return 0
	}
	value, _ := outstanding.Div(limit).Mul(oneHundred).Round(2).Float64()
	return value
}

package aggregator

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardsight/statement-core/internal/logging"
	"cardsight/statement-core/internal/models"
	"cardsight/statement-core/internal/procerror"
	"cardsight/statement-core/internal/store"
)

func seedTransactions(t *testing.T, txs *store.MemoryTransactionStore) {
	t.Helper()
	entries := []models.Transaction{
		{ID: "t-1", AccountID: "a-1", Category: models.CategoryOrders, Verified: true,
			Amount: decimal.RequireFromString("125.50"),
			Date:   time.Date(2025, time.May, 11, 0, 0, 0, 0, time.UTC)},
		{ID: "t-2", AccountID: "a-1", Category: models.CategoryOrders,
			Amount: decimal.RequireFromString("450.00"),
			Date:   time.Date(2025, time.May, 14, 0, 0, 0, 0, time.UTC)},
		{ID: "t-3", AccountID: "a-1", Category: models.CategoryWithdrawals,
			Amount: decimal.RequireFromString("200.00"),
			Date:   time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)},
		{ID: "t-4", AccountID: "a-1", Category: "mystery",
			Amount: decimal.RequireFromString("24.50"),
			Date:   time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC)},
	}
	for _, tx := range entries {
		require.NoError(t, txs.Save(tx))
	}
}

func TestAccountSummaryTotalsAndRates(t *testing.T) {
	accounts := store.NewMemoryAccountStore()
	txs := store.NewMemoryTransactionStore()
	require.NoError(t, accounts.Save(models.Account{
		ID:                "a-1",
		Holder:            "Priya",
		CardLimit:         decimal.RequireFromString("40000.00"),
		OutstandingAmount: decimal.RequireFromString("10000.00"),
	}))
	seedTransactions(t, txs)

	a := New(txs, accounts, logging.NewMockLogger())
	summary, err := a.AccountSummary(context.Background(), "a-1")
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalTransactions)
	assert.Equal(t, "800.00", summary.TotalAmount.StringFixed(2))
	assert.Equal(t, "200.00", summary.AverageAmount.StringFixed(2))
	assert.Equal(t, 1, summary.VerifiedCount)
	assert.Equal(t, 3, summary.UnverifiedCount)
	assert.InDelta(t, 25.0, summary.VerificationRate, 0.001)
	assert.InDelta(t, 25.0, summary.CreditUtilization, 0.001)

	// Every category is present even with zero activity.
	require.Len(t, summary.CategoryTotals, len(models.AllCategories))
	assert.Equal(t, 2, summary.CategoryTotals[models.CategoryOrders].Count)
	assert.Equal(t, "575.50", summary.CategoryTotals[models.CategoryOrders].Amount.StringFixed(2))
	assert.Equal(t, 0, summary.CategoryTotals[models.CategoryBills].Count)

	// Unknown categories fall into the unclassified bucket.
	assert.Equal(t, 1, summary.CategoryTotals[models.CategoryUnclassified].Count)

	assert.InDelta(t, 50.0, summary.CategoryRates[models.CategoryOrders], 0.001)
	assert.InDelta(t, 0.0, summary.CategoryRates[models.CategoryBills], 0.001)
}

func TestAccountSummaryInvariants(t *testing.T) {
	accounts := store.NewMemoryAccountStore()
	txs := store.NewMemoryTransactionStore()
	require.NoError(t, accounts.Save(models.Account{ID: "a-1"}))
	seedTransactions(t, txs)

	a := New(txs, accounts, logging.NewMockLogger())
	summary, err := a.AccountSummary(context.Background(), "a-1")
	require.NoError(t, err)

	// Sum of category amounts equals total spent equals total amount.
	categorySum := decimal.Zero
	for _, total := range summary.CategoryTotals {
		categorySum = categorySum.Add(total.Amount)
	}
	assert.True(t, categorySum.Equal(summary.TotalSpent))
	assert.True(t, summary.TotalSpent.Equal(summary.TotalAmount))

	assert.Equal(t, summary.TotalTransactions, summary.VerifiedCount+summary.UnverifiedCount)

	// Zero limit never divides.
	assert.Equal(t, 0.0, summary.CreditUtilization)
}

func TestAccountSummaryMonthlyTrendsMostRecentFirst(t *testing.T) {
	accounts := store.NewMemoryAccountStore()
	txs := store.NewMemoryTransactionStore()
	require.NoError(t, accounts.Save(models.Account{ID: "a-1"}))
	seedTransactions(t, txs)

	a := New(txs, accounts, logging.NewMockLogger())
	summary, err := a.AccountSummary(context.Background(), "a-1")
	require.NoError(t, err)

	require.Len(t, summary.MonthlyTrends, 2)
	assert.Equal(t, time.June, summary.MonthlyTrends[0].Month)
	assert.Equal(t, 2, summary.MonthlyTrends[0].Count)
	assert.Equal(t, "224.50", summary.MonthlyTrends[0].Amount.StringFixed(2))
	assert.Equal(t, time.May, summary.MonthlyTrends[1].Month)
	assert.Equal(t, "575.50", summary.MonthlyTrends[1].Amount.StringFixed(2))
}

func TestAccountSummaryUnknownAccount(t *testing.T) {
	a := New(store.NewMemoryTransactionStore(), store.NewMemoryAccountStore(), logging.NewMockLogger())

	_, err := a.AccountSummary(context.Background(), "missing")

	var notFound *procerror.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestPortfolioSummaryRollsUpHolderAccounts(t *testing.T) {
	accounts := store.NewMemoryAccountStore()
	txs := store.NewMemoryTransactionStore()
	require.NoError(t, accounts.Save(models.Account{
		ID: "a-1", Holder: "Priya",
		CardLimit:         decimal.RequireFromString("40000.00"),
		AvailableLimit:    decimal.RequireFromString("30000.00"),
		OutstandingAmount: decimal.RequireFromString("10000.00"),
	}))
	require.NoError(t, accounts.Save(models.Account{
		ID: "a-2", Holder: "Priya",
		CardLimit:         decimal.RequireFromString("10000.00"),
		OutstandingAmount: decimal.RequireFromString("2500.00"),
	}))
	require.NoError(t, accounts.Save(models.Account{ID: "a-3", Holder: "Rahul"}))
	seedTransactions(t, txs)

	a := New(txs, accounts, logging.NewMockLogger())
	portfolio, err := a.PortfolioSummary(context.Background(), "Priya")
	require.NoError(t, err)

	assert.Equal(t, 2, portfolio.Accounts)
	assert.Equal(t, 0, portfolio.FailedAccounts)
	assert.Equal(t, "50000.00", portfolio.CardLimit.StringFixed(2))
	assert.Equal(t, "12500.00", portfolio.OutstandingAmount.StringFixed(2))
	assert.Equal(t, 4, portfolio.TotalTransactions)
	assert.InDelta(t, 25.0, portfolio.CreditUtilization, 0.001)
	assert.InDelta(t, 25.0, portfolio.VerificationRate, 0.001)
}

// failingTransactionStore fails listing for one account to exercise the
// degradation path.
type failingTransactionStore struct {
	*store.MemoryTransactionStore
	failFor string
}

func (s *failingTransactionStore) ListByAccount(accountID string) ([]models.Transaction, error) {
	if accountID == s.failFor {
		return nil, assert.AnError
	}
	return s.MemoryTransactionStore.ListByAccount(accountID)
}

func TestPortfolioSummaryDegradesPerAccount(t *testing.T) {
	accounts := store.NewMemoryAccountStore()
	txs := &failingTransactionStore{
		MemoryTransactionStore: store.NewMemoryTransactionStore(),
		failFor:                "a-2",
	}
	require.NoError(t, accounts.Save(models.Account{
		ID: "a-1", Holder: "Priya",
		CardLimit:         decimal.RequireFromString("40000.00"),
		OutstandingAmount: decimal.RequireFromString("10000.00"),
	}))
	require.NoError(t, accounts.Save(models.Account{
		ID: "a-2", Holder: "Priya",
		OutstandingAmount: decimal.RequireFromString("2500.00"),
	}))
	seedTransactions(t, txs.MemoryTransactionStore)

	a := New(txs, accounts, logging.NewMockLogger())
	portfolio, err := a.PortfolioSummary(context.Background(), "Priya")
	require.NoError(t, err)

	assert.Equal(t, 1, portfolio.Accounts)
	assert.Equal(t, 1, portfolio.FailedAccounts)
	// The failed account still contributes its last-known outstanding.
	assert.Equal(t, "12500.00", portfolio.OutstandingAmount.StringFixed(2))
	// But its limit is not summed, so utilization reflects known limits only.
	assert.InDelta(t, 31.25, portfolio.CreditUtilization, 0.001)
}

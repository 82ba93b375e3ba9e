package reconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileCompleteLinePassesThrough(t *testing.T) {
	lines := []string{"11/05/2025 AMAZON.COM PURCHASE $125.50"}

	candidates := Reconcile(lines)

	require.Len(t, candidates, 1)
	assert.Equal(t, "11/05/2025 AMAZON.COM PURCHASE $125.50", candidates[0].Text)
	assert.Equal(t, 1, candidates[0].SourceLines)
}

func TestReconcileAmountOnNextLine(t *testing.T) {
	lines := []string{
		"11/05/2025 AMAZON.COM PURCHASE",
		"$125.50",
	}

	candidates := Reconcile(lines)

	require.Len(t, candidates, 1)
	assert.Equal(t, "11/05/2025 AMAZON.COM PURCHASE $125.50", candidates[0].Text)
	assert.Equal(t, 2, candidates[0].SourceLines)
}

func TestReconcileThreeLineFragment(t *testing.T) {
	lines := []string{
		"11/05/2025",
		"AMAZON.COM PURCHASE",
		"$125.50",
	}

	candidates := Reconcile(lines)

	require.Len(t, candidates, 1)
	assert.Equal(t, "11/05/2025 AMAZON.COM PURCHASE $125.50", candidates[0].Text)
	assert.Equal(t, 3, candidates[0].SourceLines)
}

func TestReconcileLookaheadStopsAtNextDateAnchor(t *testing.T) {
	lines := []string{
		"11/05/2025 PENDING SETTLEMENT",
		"12/05/2025 SWIGGY ORDER Rs.450.00",
	}

	candidates := Reconcile(lines)

	// The first line finds no amount before the next date anchor and is kept
	// unmerged; the second is complete.
	require.Len(t, candidates, 2)
	assert.Equal(t, "11/05/2025 PENDING SETTLEMENT", candidates[0].Text)
	assert.Equal(t, 1, candidates[0].SourceLines)
	assert.Equal(t, "12/05/2025 SWIGGY ORDER Rs.450.00", candidates[1].Text)
}

func TestReconcileLookaheadFindsAmountWithinThreeLines(t *testing.T) {
	lines := []string{
		"11/05/2025 INDIGO AIRLINES",
		"TICKET 6E-1234 DEL-BOM",
		"Rs.5,430.00",
	}

	candidates := Reconcile(lines)

	require.Len(t, candidates, 1)
	assert.Equal(t, "11/05/2025 INDIGO AIRLINES TICKET 6E-1234 DEL-BOM Rs.5,430.00", candidates[0].Text)
	assert.Equal(t, 3, candidates[0].SourceLines)
}

func TestReconcileDropsEmptyLinesAndPreservesOrder(t *testing.T) {
	lines := []string{
		"  ",
		"Account Summary",
		"11/05/2025 AMAZON.COM PURCHASE $125.50",
		"",
		"12/05/2025 ATM WITHDRAWAL $200.00",
	}

	candidates := Reconcile(lines)

	require.Len(t, candidates, 3)
	assert.Equal(t, "Account Summary", candidates[0].Text)
	assert.Equal(t, "11/05/2025 AMAZON.COM PURCHASE $125.50", candidates[1].Text)
	assert.Equal(t, "12/05/2025 ATM WITHDRAWAL $200.00", candidates[2].Text)
}

func TestReconcileEveryLineConsumedOnce(t *testing.T) {
	lines := []string{
		"11/05/2025",
		"AMAZON.COM PURCHASE",
		"$125.50",
		"12/05/2025 UBER TRIP $18.20",
		"some trailing noise",
	}

	candidates := Reconcile(lines)

	total := 0
	for _, c := range candidates {
		total += c.SourceLines
	}
	assert.Equal(t, len(lines), total)
}

func TestReconcileIntegerAmountLineMerges(t *testing.T) {
	lines := []string{
		"11/05/2025",
		"ATM WITHDRAWAL",
		"1500",
	}

	candidates := Reconcile(lines)

	require.Len(t, candidates, 1)
	assert.Equal(t, "11/05/2025 ATM WITHDRAWAL 1500", candidates[0].Text)
	assert.Equal(t, 3, candidates[0].SourceLines)
}

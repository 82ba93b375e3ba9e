package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardsight/statement-core/internal/logging"
	"cardsight/statement-core/internal/reconciler"
)

func candidates(lines ...string) []reconciler.CandidateLine {
	out := make([]reconciler.CandidateLine, len(lines))
	for i, l := range lines {
		out[i] = reconciler.CandidateLine{Text: l, SourceLines: 1}
	}
	return out
}

func TestMatchLineShapes(t *testing.T) {
	tests := []struct {
		name            string
		line            string
		expectedDate    string
		expectedDesc    string
		expectedAmount  string
		expectedBalance string
	}{
		{
			name:         "dollar prefixed table line",
			line:         "11/05/2025 AMAZON.COM PURCHASE $125.50",
			expectedDate: "11/05/2025", expectedDesc: "AMAZON.COM PURCHASE", expectedAmount: "$125.50",
		},
		{
			name:         "dash separated",
			line:         "11/05/2025 - SWIGGY ORDER - 450.00",
			expectedDate: "11/05/2025", expectedDesc: "SWIGGY ORDER", expectedAmount: "450.00",
		},
		{
			name:         "colon separated",
			line:         "11/05/2025 : UBER TRIP : $18.20",
			expectedDate: "11/05/2025", expectedDesc: "UBER TRIP", expectedAmount: "$18.20",
		},
		{
			name:         "rupee prefixed",
			line:         "12/05/2025 BIGBASKET GROCERIES Rs.1,178.82",
			expectedDate: "12/05/2025", expectedDesc: "BIGBASKET GROCERIES", expectedAmount: "Rs.1,178.82",
		},
		{
			name:         "credit suffix",
			line:         "12/05/2025 PAYMENT RECEIVED 1,178.82Cr",
			expectedDate: "12/05/2025", expectedDesc: "PAYMENT RECEIVED", expectedAmount: "1,178.82Cr",
		},
		{
			name:         "description before date",
			line:         "NETFLIX SUBSCRIPTION 15/05/2025 $15.99",
			expectedDate: "15/05/2025", expectedDesc: "NETFLIX SUBSCRIPTION", expectedAmount: "$15.99",
		},
		{
			name:         "glued alphanumeric form",
			line:         "11/05/2025AMAZON PURCHASE125.50",
			expectedDate: "11/05/2025", expectedDesc: "AMAZON PURCHASE", expectedAmount: "125.50",
		},
		{
			name:         "comma thousands plain",
			line:         "18/05/2025 FLIGHT BOOKING 5,430.00",
			expectedDate: "18/05/2025", expectedDesc: "FLIGHT BOOKING", expectedAmount: "5,430.00",
		},
		{
			name:            "table with balance",
			line:            "18/05/2025 FUEL STATION $40.00 $1,250.00",
			expectedDate:    "18/05/2025",
			expectedDesc:    "FUEL STATION",
			expectedAmount:  "40.00",
			expectedBalance: "1,250.00",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			match, ok := matchLine(tc.line)
			require.True(t, ok, "expected line to match: %s", tc.line)
			assert.Equal(t, tc.expectedDate, match.DateText)
			assert.Equal(t, tc.expectedDesc, match.DescriptionText)
			assert.Equal(t, tc.expectedAmount, match.AmountText)
			if tc.expectedBalance != "" {
				assert.Equal(t, tc.expectedBalance, match.BalanceText)
			}
		})
	}
}

func TestMatchPriorityDashBeatsFallback(t *testing.T) {
	// This line is accepted by both the dash-separated shape and the
	// permissive fallback shapes; the dash mapping must win so the dashes do
	// not leak into the description.
	match, ok := matchLine("11/05/2025 - SWIGGY ORDER - 450.00")
	require.True(t, ok)
	assert.Equal(t, "dash_separated", match.Pattern)
	assert.Equal(t, "SWIGGY ORDER", match.DescriptionText)
}

func TestMatchFiltersNoise(t *testing.T) {
	m := New(logging.NewMockLogger())

	matches := m.Match(candidates(
		"Account Summary",
		"Credit Limit Rs.40,000.00",
		"Statement Period 01/05/2025 to 31/05/2025",
		"1,178.82",
		"short",
		"11/05/2025 AMAZON.COM PURCHASE $125.50",
	))

	require.Len(t, matches, 1)
	assert.Equal(t, "AMAZON.COM PURCHASE", matches[0].DescriptionText)
}

func TestMatchDropsUnmatchableLinesSilently(t *testing.T) {
	m := New(logging.NewMockLogger())

	matches := m.Match(candidates(
		"11/05/2025 AMAZON.COM PURCHASE $125.50",
		"11/05/2025 ???",
	))

	require.Len(t, matches, 1)
}

func TestMatchPreservesInputOrder(t *testing.T) {
	m := New(logging.NewMockLogger())

	matches := m.Match(candidates(
		"11/05/2025 FIRST MERCHANT $10.00",
		"12/05/2025 SECOND MERCHANT $20.00",
		"13/05/2025 THIRD MERCHANT $30.00",
	))

	require.Len(t, matches, 3)
	assert.Equal(t, "FIRST MERCHANT", matches[0].DescriptionText)
	assert.Equal(t, "SECOND MERCHANT", matches[1].DescriptionText)
	assert.Equal(t, "THIRD MERCHANT", matches[2].DescriptionText)
}

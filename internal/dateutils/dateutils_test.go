package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatementDate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expectOk  bool
		expectedY int
		expectedM time.Month
		expectedD int
	}{
		{"Day-first slash date", "11/05/2025", true, 2025, time.May, 11},
		{"Two-digit year", "11/05/25", true, 2025, time.May, 11},
		{"Day thirteen falls through to day-first", "13/05/2025", true, 2025, time.May, 13},
		{"Month-first only interpretation", "05/25/2025", true, 2025, time.May, 25},
		{"ISO date", "2025-05-11", true, 2025, time.May, 11},
		{"Single digit components", "5/7/2025", true, 2025, time.July, 5},
		{"Empty string", "", false, 0, 0, 0},
		{"Not a date", "AMAZON.COM", false, 0, 0, 0},
		{"Month out of range both ways", "45/45/2025", false, 0, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			date, err := ParseStatementDate(tc.input)

			if !tc.expectOk {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedY, date.Year())
			assert.Equal(t, tc.expectedM, date.Month())
			assert.Equal(t, tc.expectedD, date.Day())
		})
	}
}

func TestParseStatementDateIsDeterministic(t *testing.T) {
	// Ambiguous dates must resolve the same way on every call.
	first, err := ParseStatementDate("05/11/2025")
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := ParseStatementDate("05/11/2025")
		require.NoError(t, err)
		assert.True(t, first.Equal(again))
	}

	// Day-first policy: 05/11 is 5 November, not 11 May.
	assert.Equal(t, time.November, first.Month())
	assert.Equal(t, 5, first.Day())
}

func TestParseMonthNameDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expectOk bool
		expected time.Time
	}{
		{"Abbreviated month", "15-Aug-2025", true, time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC)},
		{"Full month name", "3-September-2024", true, time.Date(2024, time.September, 3, 0, 0, 0, 0, time.UTC)},
		{"Lower case month", "15-aug-2025", true, time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC)},
		{"Unknown month", "15-Foo-2025", false, time.Time{}},
		{"Slash form rejected", "15/08/2025", false, time.Time{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			date, err := ParseMonthNameDate(tc.input)

			if !tc.expectOk {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(date), "expected %s got %s", tc.expected, date)
		})
	}
}

func TestDateAnchorPattern(t *testing.T) {
	assert.True(t, DateAnchorPattern.MatchString("11/05/2025 AMAZON"))
	assert.True(t, DateAnchorPattern.MatchString("1/5/25"))
	assert.False(t, DateAnchorPattern.MatchString("AMAZON 11/05/2025"))
	assert.False(t, DateAnchorPattern.MatchString("Statement Period"))
}

package categorizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardsight/statement-core/internal/logging"
	"cardsight/statement-core/internal/models"
)

type stubStore struct {
	categories []models.CategoryConfig
	err        error
}

func (s *stubStore) LoadCategories() ([]models.CategoryConfig, error) {
	return s.categories, s.err
}

func TestClassifyDefaults(t *testing.T) {
	c := New(nil, logging.NewMockLogger())

	tests := []struct {
		description string
		expected    string
	}{
		{"AMAZON.COM PURCHASE", models.CategoryOrders},
		{"ATM WITHDRAWAL MUMBAI", models.CategoryWithdrawals},
		{"NETFLIX SUBSCRIPTION", models.CategoryBills},
		{"ANNUAL FEE WAIVER REVERSAL", models.CategoryFees},
		{"UBER TRIP 4821", models.CategoryPersonalUse},
		{"PAYMENT RECEIVED", models.CategoryUnclassified},
		{"", models.CategoryUnclassified},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, c.Classify(tc.description))
		})
	}
}

func TestClassifyCategoryPriorityOrder(t *testing.T) {
	c := New(nil, logging.NewMockLogger())

	// Matches both the bills keyword "subscription" and the orders keyword
	// "amazon"; bills is evaluated first.
	assert.Equal(t, models.CategoryBills, c.Classify("AMAZON PRIME SUBSCRIPTION"))
}

func TestClassifyIsIdempotent(t *testing.T) {
	c := New(nil, logging.NewMockLogger())

	first := c.Classify("SWIGGY INSTAMART ORDER")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Classify("SWIGGY INSTAMART ORDER"))
	}
}

func TestClassifyWithOverrides(t *testing.T) {
	c := New(&stubStore{categories: []models.CategoryConfig{
		{Name: models.CategoryOrders, Keywords: []string{"localmart"}},
		{Name: models.CategoryBills, Keywords: []string{"localmart power"}},
	}}, logging.NewMockLogger())

	// Bills is still evaluated before orders regardless of override file
	// order.
	assert.Equal(t, models.CategoryBills, c.Classify("LOCALMART POWER BILL"))
	assert.Equal(t, models.CategoryOrders, c.Classify("LOCALMART STORE 22"))

	// Overrides replace the defaults entirely.
	assert.Equal(t, models.CategoryUnclassified, c.Classify("AMAZON.COM PURCHASE"))
}

func TestClassifyOverrideLoadFailureFallsBack(t *testing.T) {
	logger := logging.NewMockLogger()
	c := New(&stubStore{err: assert.AnError}, logger)

	assert.Equal(t, models.CategoryOrders, c.Classify("AMAZON.COM PURCHASE"))
	require.True(t, logger.HasEntry("WARN", "Failed to load category overrides, using built-in keywords"))
}

func TestClassifyIgnoresUnknownOverrideCategories(t *testing.T) {
	c := New(&stubStore{categories: []models.CategoryConfig{
		{Name: "gambling", Keywords: []string{"casino"}},
		{Name: models.CategoryFees, Keywords: []string{"casino"}},
	}}, logging.NewMockLogger())

	assert.Equal(t, models.CategoryFees, c.Classify("CASINO ROYALE"))
}

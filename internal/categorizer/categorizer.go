// Package categorizer assigns extracted transactions to a fixed category
// taxonomy by keyword containment. The rule list is deliberately transparent:
// an operator can read it, predict it, and override it from a YAML file.
package categorizer

import (
	"strings"

	"cardsight/statement-core/internal/logging"
	"cardsight/statement-core/internal/models"
)

// CategoryStore loads keyword overrides. *store.CategoryStore satisfies it.
type CategoryStore interface {
	LoadCategories() ([]models.CategoryConfig, error)
}

// Classifier matches descriptions against ordered category keyword sets.
// Evaluation order is fixed (bills, withdrawals, orders, fees, personal_use);
// the first category with a matching keyword wins and no match falls through
// to unclassified.
type Classifier struct {
	categories []models.CategoryConfig
	logger     logging.Logger
}

// New creates a Classifier with the built-in keyword sets, replaced by the
// store's categories when an override file is present. A nil store skips
// override loading.
func New(store CategoryStore, logger logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	c := &Classifier{categories: defaultCategories(), logger: logger}

	if store == nil {
		return c
	}
	loaded, err := store.LoadCategories()
	if err != nil {
		logger.WithError(err).Warn("Failed to load category overrides, using built-in keywords")
		return c
	}
	if len(loaded) > 0 {
		c.categories = orderCategories(loaded, logger)
	}
	return c
}

// Classify returns the category for a transaction description. Deterministic:
// the same description always yields the same category.
func (c *Classifier) Classify(description string) string {
	lower := strings.ToLower(description)

	for _, category := range c.categories {
		for _, keyword := range category.Keywords {
			keyword = strings.ToLower(strings.TrimSpace(keyword))
			if keyword == "" {
				continue
			}
			if strings.Contains(lower, keyword) {
				c.logger.Debug("Transaction classified",
					logging.Field{Key: logging.FieldCategory, Value: category.Name},
					logging.Field{Key: "keyword", Value: keyword})
				return category.Name
			}
		}
	}
	return models.CategoryUnclassified
}

// orderCategories arranges loaded overrides into the fixed evaluation order,
// dropping entries whose name is outside the taxonomy.
func orderCategories(loaded []models.CategoryConfig, logger logging.Logger) []models.CategoryConfig {
	byName := make(map[string]models.CategoryConfig, len(loaded))
	for _, category := range loaded {
		name := strings.ToLower(strings.TrimSpace(category.Name))
		if !knownCategory(name) {
			logger.Warn("Ignoring unknown category in overrides",
				logging.Field{Key: logging.FieldCategory, Value: category.Name})
			continue
		}
		category.Name = name
		byName[name] = category
	}

	var ordered []models.CategoryConfig
	for _, name := range models.AllCategories {
		if name == models.CategoryUnclassified {
			continue
		}
		if category, ok := byName[name]; ok {
			ordered = append(ordered, category)
		}
	}
	return ordered
}

func knownCategory(name string) bool {
	for _, known := range models.AllCategories {
		if name == known && name != models.CategoryUnclassified {
			return true
		}
	}
	return false
}

// defaultCategories is the built-in rule list, in evaluation order.
func defaultCategories() []models.CategoryConfig {
	return []models.CategoryConfig{
		{
			Name: models.CategoryBills,
			Keywords: []string{
				"electricity", "utility", "broadband", "recharge", "postpaid",
				"dth", "insurance", "premium", "subscription", "netflix",
				"spotify", "water bill", "gas bill", "phone bill",
			},
		},
		{
			Name: models.CategoryWithdrawals,
			Keywords: []string{
				"atm", "withdrawal", "cash advance",
			},
		},
		{
			Name: models.CategoryOrders,
			Keywords: []string{
				"amazon", "flipkart", "myntra", "bigbasket", "swiggy",
				"zomato", "ebay", "order", "purchase",
			},
		},
		{
			Name: models.CategoryFees,
			Keywords: []string{
				"annual fee", "late fee", "joining fee", "processing fee",
				"finance charge", "service charge", "interest", "gst",
				"penalty",
			},
		},
		{
			Name: models.CategoryPersonalUse,
			Keywords: []string{
				"restaurant", "cafe", "uber", "ola", "fuel", "petrol",
				"cinema", "movie", "salon", "pharmacy", "hotel", "airlines",
				"flight", "grocery", "groceries",
			},
		},
	}
}

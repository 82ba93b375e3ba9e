// Package summary scans extracted statement lines for labeled account-level
// metrics: credit limit, available limit, outstanding balance, minimum
// payment and payment due date.
package summary

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cardsight/statement-core/internal/currencyutils"
	"cardsight/statement-core/internal/dateutils"
	"cardsight/statement-core/internal/logging"
	"cardsight/statement-core/internal/models"
)

// fieldSpec holds the ordered label patterns for one summary field. The
// first pattern that matches on the first line where it matches wins; the
// field is skipped on all later lines.
type fieldSpec struct {
	name     string
	labels   []*regexp.Regexp
	excludes []string
}

var (
	cardLimitSpec = fieldSpec{
		name: "card_limit",
		labels: []*regexp.Regexp{
			regexp.MustCompile(`(?i)total\s*credit\s*limit`),
			regexp.MustCompile(`(?i)card\s*limit`),
			regexp.MustCompile(`(?i)credit\s*limit`),
		},
		// "available credit limit" belongs to the available-limit field.
		excludes: []string{"available"},
	}

	availableLimitSpec = fieldSpec{
		name: "available_limit",
		labels: []*regexp.Regexp{
			regexp.MustCompile(`(?i)available\s*credit\s*limit`),
			regexp.MustCompile(`(?i)available\s*limit`),
			regexp.MustCompile(`(?i)available\s*credit`),
		},
	}

	outstandingSpec = fieldSpec{
		name: "outstanding",
		labels: []*regexp.Regexp{
			regexp.MustCompile(`(?i)total\s*amount\s*due`),
			regexp.MustCompile(`(?i)total\s*outstanding`),
			regexp.MustCompile(`(?i)outstanding\s*(?:amount|balance)`),
			regexp.MustCompile(`(?i)closing\s*balance`),
			regexp.MustCompile(`(?i)balance\s*due`),
		},
		excludes: []string{"minimum"},
	}

	minimumPaymentSpec = fieldSpec{
		name: "minimum_payment",
		labels: []*regexp.Regexp{
			regexp.MustCompile(`(?i)minimum\s*amount\s*due`),
			regexp.MustCompile(`(?i)minimum\s*payment(?:\s*due)?`),
			regexp.MustCompile(`(?i)min\.?\s*(?:amt|amount)\s*due`),
		},
	}

	dueDateLabels = []*regexp.Regexp{
		regexp.MustCompile(`(?i)payment\s*due\s*date`),
		regexp.MustCompile(`(?i)due\s*date`),
		regexp.MustCompile(`(?i)due\s*by`),
	}

	monthNameDateToken = regexp.MustCompile(`\d{1,2}-[A-Za-z]+-\d{4}`)
	slashDateToken     = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`)
)

// Extractor extracts the statement summary from the full line set.
type Extractor struct {
	logger logging.Logger
}

// New creates an Extractor. A nil logger falls back to a default adapter.
func New(logger logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Extractor{logger: logger}
}

// Extract scans every line for the five summary fields. Numeric fields
// default to zero, the due date to nil. Transaction totals are filled in
// later by the orchestrator from the actually-normalized rows.
func (e *Extractor) Extract(lines []string) models.ExtractedSummary {
	result := models.ExtractedSummary{
		Currency: currencyutils.DetectCurrency(strings.Join(lines, "\n")),
	}

	var foundCard, foundAvailable, foundOutstanding, foundMinimum bool

	for i, line := range lines {
		next := ""
		if i+1 < len(lines) {
			next = lines[i+1]
		}

		if !foundCard {
			if amount, ok := e.amountForField(cardLimitSpec, line, next, 1); ok {
				result.CardLimit = amount
				foundCard = true
			}
		}

		if !foundAvailable {
			// Documents sometimes print limit / self-set limit / available as
			// three glued amounts on the line after the label row; the
			// available limit is the third of them.
			if amount, ok := e.amountForField(availableLimitSpec, line, next, 3); ok {
				result.AvailableLimit = amount
				foundAvailable = true
			}
		}

		if !foundOutstanding {
			if amount, ok := e.amountForField(outstandingSpec, line, next, 1); ok {
				result.OutstandingAmount = amount
				foundOutstanding = true
			}
		}

		if !foundMinimum {
			if amount, ok := e.amountForField(minimumPaymentSpec, line, next, 1); ok {
				result.MinimumPayment = amount
				foundMinimum = true
			}
		}

		if result.DueDate == nil {
			if due, ok := e.dueDateFrom(line); ok {
				result.DueDate = &due
			}
		}
	}

	// Derived fallback: when the available limit was never printed but both
	// the card limit and the outstanding balance were, it is their difference.
	if !foundAvailable && foundCard && foundOutstanding {
		result.AvailableLimit = result.CardLimit.Sub(result.OutstandingAmount)
	}

	e.logger.Debug("Extracted statement summary",
		logging.Field{Key: "card_limit", Value: result.CardLimit.String()},
		logging.Field{Key: "available_limit", Value: result.AvailableLimit.String()},
		logging.Field{Key: "outstanding", Value: result.OutstandingAmount.String()})

	return result
}

// amountForField matches one field's label patterns against a line and pulls
// the value from the line itself, or from the following line when the label
// stands alone. nextIndex selects which amount of the following line to take
// (1-based) for the multi-line correlation cases.
func (e *Extractor) amountForField(spec fieldSpec, line, next string, nextIndex int) (decimal.Decimal, bool) {
	for _, label := range spec.labels {
		for _, loc := range label.FindAllStringIndex(line, -1) {
			if excludedOccurrence(spec, line, loc[0]) {
				continue
			}

			rest := line[loc[1]:]
			if raw := currencyutils.FindFirstAmount(rest); raw != "" {
				if amount, err := currencyutils.ParseAmount(raw); err == nil {
					return amount, true
				}
			}

			// Label with no value on its own line: correlate with the
			// following line.
			amounts := currencyutils.FindSymbolAmounts(next)
			idx := nextIndex - 1
			if idx >= len(amounts) {
				idx = 0
			}
			if len(amounts) > idx {
				if amount, err := currencyutils.ParseAmount(amounts[idx]); err == nil {
					e.logger.Debug("Summary field resolved from following line",
						logging.Field{Key: logging.FieldReason, Value: spec.name})
					return amount, true
				}
			}

			// No currency-marked amounts at all: the value line may print the
			// bare number ("40,000.00").
			if len(amounts) == 0 {
				if raw := currencyutils.FindFirstAmount(next); raw != "" {
					if amount, err := currencyutils.ParseAmount(raw); err == nil {
						e.logger.Debug("Summary field resolved from unmarked following line",
							logging.Field{Key: logging.FieldReason, Value: spec.name})
						return amount, true
					}
				}
			}
			return decimal.Zero, false
		}
	}

	return decimal.Zero, false
}

// excludedOccurrence reports whether the label occurrence at position pos is
// really part of a longer label owned by another field ("available credit
// limit" must not resolve the plain credit-limit field).
func excludedOccurrence(spec fieldSpec, line string, pos int) bool {
	prefix := strings.TrimSpace(strings.ToLower(line[:pos]))
	for _, excluded := range spec.excludes {
		if strings.HasSuffix(prefix, excluded) {
			return true
		}
	}
	return false
}

// dueDateFrom pulls a payment due date from a labeled line. Month-name
// forms ("15-Aug-2025") are converted via the month lookup before slash
// forms are tried.
func (e *Extractor) dueDateFrom(line string) (due time.Time, ok bool) {
	for _, label := range dueDateLabels {
		loc := label.FindStringIndex(line)
		if loc == nil {
			continue
		}

		rest := line[loc[1]:]
		if token := monthNameDateToken.FindString(rest); token != "" {
			if parsed, err := dateutils.ParseMonthNameDate(token); err == nil {
				return parsed, true
			}
		}
		if token := slashDateToken.FindString(rest); token != "" {
			if parsed, err := dateutils.ParseStatementDate(token); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	}
	return time.Time{}, false
}

// Package currencyutils normalizes amount substrings found in statement text
// and detects the statement's currency.
package currencyutils

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"cardsight/statement-core/internal/models"
	"cardsight/statement-core/internal/procerror"
)

var (
	currencyPrefixPattern = regexp.MustCompile(`(?i)^(rs\.?|\$)\s*`)
	currencySuffixPattern = regexp.MustCompile(`(?i)\s*(cr|rs)\.?$`)

	// symbolAmountPattern matches amounts carrying an explicit currency
	// marker. Used for run-on lines that glue several amounts together.
	symbolAmountPattern = regexp.MustCompile(`(?:Rs\.?|\$)\s*[\d,]+(?:\.\d+)?`)

	// bareAmountPattern matches a decimal amount with or without thousands
	// separators, used as a "this line carries money" signal.
	bareAmountPattern = regexp.MustCompile(`\d{1,3}(?:,\d{3})*\.\d{1,2}|\d+\.\d{1,2}`)
)

// ParseAmount normalizes an amount substring to a positive decimal.
// Currency prefixes ($, Rs.), suffix indicators (Cr, Rs) and thousands
// separators are stripped; the decimal point is preserved. Results that are
// zero, negative, or non-numeric fail with InvalidAmountError.
func ParseAmount(text string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = currencyPrefixPattern.ReplaceAllString(cleaned, "")
	cleaned = currencySuffixPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, &procerror.InvalidAmountError{Value: text, Err: err}
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, &procerror.InvalidAmountError{
			Value: text,
			Err:   errNotPositive,
		}
	}

	return amount, nil
}

var errNotPositive = notPositiveError{}

type notPositiveError struct{}

func (notPositiveError) Error() string { return "amount must be greater than zero" }

// DetectCurrency counts Rs. markers against $ markers across the whole
// document text. Rupee markers must strictly outnumber dollar markers to
// flip the default.
func DetectCurrency(fullText string) string {
	rupees := strings.Count(fullText, "Rs.")
	dollars := strings.Count(fullText, "$")

	if rupees > dollars && rupees > 0 {
		return models.CurrencyINR
	}
	return models.CurrencyUSD
}

// FindSymbolAmounts returns every currency-marked amount substring on a line,
// in order of appearance. Run-on summary lines print several in a row.
func FindSymbolAmounts(line string) []string {
	return symbolAmountPattern.FindAllString(line, -1)
}

// ContainsAmount reports whether a line carries a recognizable amount.
func ContainsAmount(line string) bool {
	return symbolAmountPattern.MatchString(line) || bareAmountPattern.MatchString(line)
}

// FindFirstAmount returns the first amount-looking substring on a line,
// preferring currency-marked amounts, or "" when none is present.
func FindFirstAmount(line string) string {
	if m := symbolAmountPattern.FindString(line); m != "" {
		return m
	}
	return bareAmountPattern.FindString(line)
}

// Package matcher applies an ordered list of line-shape patterns to
// candidate lines and pulls out the raw date/description/amount substrings.
// The contract is best-effort: lines that match no shape are statement noise
// and are dropped without error.
package matcher

import (
	"regexp"
	"strings"

	"cardsight/statement-core/internal/currencyutils"
	"cardsight/statement-core/internal/logging"
	"cardsight/statement-core/internal/reconciler"
)

// RawMatch holds the untyped field substrings captured from one candidate
// line, plus the name of the pattern that matched (for logging and tests).
type RawMatch struct {
	DateText        string
	DescriptionText string
	AmountText      string
	BalanceText     string
	Pattern         string
}

// minLineLength is the shortest line that could plausibly hold a date, a
// description and an amount.
const minLineLength = 8

// nonTransactionMarkers flag header and summary lines that must not be
// parsed as transactions even when they happen to contain numbers.
var nonTransactionMarkers = []string{
	"statement",
	"credit limit",
	"account summary",
	"account number",
	"payment due",
	"minimum amount",
	"minimum payment",
	"opening balance",
	"closing balance",
	"total amount due",
	"available credit",
	"reward points",
	"page ",
	"gst registration",
}

var (
	dateAnywherePattern = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`)
	pureNumberPattern   = regexp.MustCompile(`^[\d,.\s$]+(?:Cr|Rs)?\.?$`)
)

// Matcher matches candidate lines against the ordered pattern table.
type Matcher struct {
	logger logging.Logger
}

// New creates a Matcher. A nil logger falls back to a default adapter.
func New(logger logging.Logger) *Matcher {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Matcher{logger: logger}
}

// Match filters the candidate lines and applies the pattern table to each
// survivor. The first pattern that matches a line wins; later patterns are
// not consulted for that line.
func (m *Matcher) Match(candidates []reconciler.CandidateLine) []RawMatch {
	var matches []RawMatch

	for _, candidate := range candidates {
		line := strings.TrimSpace(candidate.Text)
		if !m.accept(line) {
			continue
		}

		match, ok := matchLine(line)
		if !ok {
			m.logger.Debug("Candidate line matched no pattern",
				logging.Field{Key: logging.FieldLine, Value: line})
			continue
		}
		matches = append(matches, match)
	}

	m.logger.Info("Matched transaction candidates",
		logging.Field{Key: logging.FieldCount, Value: len(matches)})
	return matches
}

// accept applies the pre-filters: marker rejection, minimum length, date
// presence, and pure-number rejection.
func (m *Matcher) accept(line string) bool {
	if len(line) < minLineLength {
		return false
	}

	if !dateAnywherePattern.MatchString(line) {
		return false
	}

	if pureNumberPattern.MatchString(line) {
		return false
	}

	lower := strings.ToLower(line)
	for _, marker := range nonTransactionMarkers {
		if strings.Contains(lower, marker) {
			// A marker line is only kept when it still looks like a
			// transaction: date anchor plus a concrete amount.
			if currencyutils.ContainsAmount(line) && dateAnywherePattern.MatchString(line) &&
				hasMerchantText(line) {
				break
			}
			return false
		}
	}

	return true
}

var merchantRunPattern = regexp.MustCompile(`[A-Za-z][A-Za-z.&'-]{2,}`)

// hasMerchantText reports whether the line carries a word that could be a
// merchant name.
func hasMerchantText(line string) bool {
	return merchantRunPattern.MatchString(line)
}

// matchLine runs the ordered pattern table against one line.
func matchLine(line string) (RawMatch, bool) {
	for _, p := range linePatterns {
		groups := p.re.FindStringSubmatch(line)
		if groups == nil {
			continue
		}

		match := RawMatch{Pattern: p.name}
		if p.date > 0 {
			match.DateText = strings.TrimSpace(groups[p.date])
		}
		if p.desc > 0 {
			match.DescriptionText = strings.TrimSpace(groups[p.desc])
		}
		if p.amount > 0 {
			match.AmountText = strings.TrimSpace(groups[p.amount])
		}
		if p.balance > 0 {
			match.BalanceText = strings.TrimSpace(groups[p.balance])
		}

		if match.DescriptionText == "" || match.AmountText == "" {
			continue
		}
		return match, true
	}
	return RawMatch{}, false
}

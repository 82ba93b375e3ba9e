// Package dateutils provides date parsing for statement text, where the
// day/month order of slash-separated dates is genuinely ambiguous.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"cardsight/statement-core/internal/procerror"
)

// Date layouts tried in order when normalizing a transaction date.
// Day-first layouts come before month-first layouts: statements from
// day-first locales dominate the corpus, so "05/11/2025" resolves to
// 5 November. The order is policy, not certainty - do not reorder.
var statementLayouts = []string{
	"2/1/2006", // day/month/year
	"1/2/2006", // month/day/year
	"2006-01-02",
}

var slashDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})$`)

// DateAnchorPattern matches the date prefix that marks a transaction line.
var DateAnchorPattern = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}`)

// ParseStatementDate normalizes a date substring captured from a statement
// line. Two-digit years are expanded by prefixing "20" before parsing. The
// first layout that yields a calendar-valid date wins.
func ParseStatementDate(text string) (time.Time, error) {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return time.Time{}, &procerror.InvalidDateError{Value: text}
	}

	cleaned = expandTwoDigitYear(cleaned)

	for _, layout := range statementLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &procerror.InvalidDateError{Value: text}
}

// expandTwoDigitYear rewrites D/M/YY into D/M/20YY. Years are always
// expanded into the 2000s; these are credit-card statements, not archives.
func expandTwoDigitYear(s string) string {
	m := slashDatePattern.FindStringSubmatch(s)
	if m == nil || len(m[3]) != 2 {
		return s
	}
	return fmt.Sprintf("%s/%s/20%s", m[1], m[2], m[3])
}

// monthNames maps lower-cased month names and abbreviations to time.Month.
var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

var monthNameDatePattern = regexp.MustCompile(`^(\d{1,2})-([A-Za-z]+)-(\d{4})$`)

// ParseMonthNameDate parses "DD-MonName-YYYY" forms such as "15-Aug-2025",
// used by payment due date fields.
func ParseMonthNameDate(text string) (time.Time, error) {
	m := monthNameDatePattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return time.Time{}, &procerror.InvalidDateError{Value: text}
	}

	month, ok := monthNames[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, &procerror.InvalidDateError{Value: text}
	}

	rewritten := fmt.Sprintf("%s/%d/%s", m[1], int(month), m[3])
	t, err := time.Parse("2/1/2006", rewritten)
	if err != nil {
		return time.Time{}, &procerror.InvalidDateError{Value: text}
	}
	return t, nil
}

// YearMonth returns the (year, month) bucket a transaction date belongs to.
func YearMonth(t time.Time) (int, time.Month) {
	return t.Year(), t.Month()
}

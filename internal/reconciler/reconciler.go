// Package reconciler repairs line fragmentation left behind by text
// extraction. PDF extraction frequently splits one transaction across a date
// line, a description line and an amount line; this package stitches those
// fragments back into single candidate lines.
//
// The stitching is purely textual. A bad merge is harmless: the matcher and
// the normalizer will fail to produce a valid transaction from it.
package reconciler

import (
	"regexp"
	"strings"

	"cardsight/statement-core/internal/currencyutils"
	"cardsight/statement-core/internal/dateutils"
)

// CandidateLine is a line of text believed to represent one transaction,
// possibly merged from several consecutive extracted lines. Never mutated
// after creation.
type CandidateLine struct {
	Text        string
	SourceLines int
}

// Lookahead limit for rule 4: a date-anchored line with no amount absorbs at
// most this many following lines.
const maxLookahead = 3

var (
	amountOnlyPattern = regexp.MustCompile(`^(?:Rs\.?|\$)?\s*[\d,]+(?:\.\d+)?\s*(?:Cr|Rs)?\.?$`)
	letterRunPattern  = regexp.MustCompile(`[A-Za-z]{2,}`)
)

// Reconcile walks the extracted lines and applies the merge rules in priority
// order. Every input line is consumed exactly once and output order equals
// input order.
func Reconcile(lines []string) []CandidateLine {
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	var candidates []CandidateLine
	i := 0
	for i < len(cleaned) {
		line := cleaned[i]

		if !isDateAnchored(line) {
			candidates = append(candidates, CandidateLine{Text: line, SourceLines: 1})
			i++
			continue
		}

		// Rule 1: the line already carries both a description and an amount.
		if hasDescription(line) && currencyutils.ContainsAmount(line) {
			candidates = append(candidates, CandidateLine{Text: line, SourceLines: 1})
			i++
			continue
		}

		// Rule 2: date+description line whose amount spilled onto the next line.
		if hasDescription(line) && i+1 < len(cleaned) && isAmountOnly(cleaned[i+1]) {
			candidates = append(candidates, merge(cleaned[i:i+2]))
			i += 2
			continue
		}

		// Rule 3: bare date line followed by description and amount lines.
		if isDateOnly(line) {
			if i+2 < len(cleaned) && hasDescription(cleaned[i+1]) && carriesAmount(cleaned[i+2]) {
				candidates = append(candidates, merge(cleaned[i:i+3]))
				i += 3
				continue
			}
			if i+1 < len(cleaned) && hasDescription(cleaned[i+1]) && currencyutils.ContainsAmount(cleaned[i+1]) {
				candidates = append(candidates, merge(cleaned[i:i+2]))
				i += 2
				continue
			}
		}

		// Rule 4: date-anchored line without an amount; absorb following lines
		// until an amount appears or another date anchor is hit.
		if !currencyutils.ContainsAmount(line) {
			end := -1
			limit := i + maxLookahead
			for j := i + 1; j <= limit && j < len(cleaned); j++ {
				if isDateAnchored(cleaned[j]) {
					break
				}
				if carriesAmount(cleaned[j]) {
					end = j
					break
				}
			}
			if end > i {
				candidates = append(candidates, merge(cleaned[i:end+1]))
				i = end + 1
				continue
			}
		}

		candidates = append(candidates, CandidateLine{Text: line, SourceLines: 1})
		i++
	}

	return candidates
}

func merge(parts []string) CandidateLine {
	return CandidateLine{
		Text:        strings.Join(parts, " "),
		SourceLines: len(parts),
	}
}

func isDateAnchored(line string) bool {
	return dateutils.DateAnchorPattern.MatchString(line)
}

// isDateOnly reports whether the line is nothing but a date anchor.
func isDateOnly(line string) bool {
	anchor := dateutils.DateAnchorPattern.FindString(line)
	return anchor != "" && strings.TrimSpace(line) == anchor
}

// hasDescription reports whether descriptive text remains once the date
// anchor and any amounts are removed.
func hasDescription(line string) bool {
	rest := dateutils.DateAnchorPattern.ReplaceAllString(line, "")
	return letterRunPattern.MatchString(rest)
}

// carriesAmount reports whether a fragment line supplies the transaction
// amount. Bare integer lines ("1500") count here: statements that omit the
// decimal point still print the amount on its own line, and the matcher
// accepts the merged integer form.
func carriesAmount(line string) bool {
	return currencyutils.ContainsAmount(line) || isAmountOnly(line)
}

// isAmountOnly reports whether the line consists of a single amount, with at
// most a currency marker around it.
func isAmountOnly(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed != "" && amountOnlyPattern.MatchString(trimmed) && strings.ContainsAny(trimmed, "0123456789")
}

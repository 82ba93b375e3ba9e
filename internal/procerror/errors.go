// Package procerror defines the typed errors produced by the statement
// processing pipeline. Document-level errors abort a statement; row-level
// errors cause the offending row to be skipped.
package procerror

import (
	"fmt"
	"strings"
)

// InvalidFormatError reports a document that is empty or does not carry the
// expected binary signature. Fatal for the statement, no retry.
type InvalidFormatError struct {
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid document format: %s (expected %s)", e.Msg, e.ExpectedFormat)
}

// StrategyError records one failed extraction attempt.
type StrategyError struct {
	Strategy string
	Err      error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Strategy, e.Err)
}

func (e *StrategyError) Unwrap() error {
	return e.Err
}

// ExtractionFailedError reports that every extraction strategy was tried and
// none produced text. The statement may be re-uploaded and reprocessed.
type ExtractionFailedError struct {
	Attempts []StrategyError
}

func (e *ExtractionFailedError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = a.Error()
	}
	return fmt.Sprintf("text extraction failed after %d strategies: %s",
		len(e.Attempts), strings.Join(parts, "; "))
}

// CorruptedDocumentError is the sub-case of extraction failure where the
// primary error points at a damaged cross-reference table. It carries
// actionable guidance for the uploader.
type CorruptedDocumentError struct {
	Cause error
}

func (e *CorruptedDocumentError) Error() string {
	return fmt.Sprintf("document appears corrupted (damaged cross-reference structure): %v. "+
		"Re-export the statement from your bank portal or re-save it with a PDF viewer and upload again", e.Cause)
}

func (e *CorruptedDocumentError) Unwrap() error {
	return e.Cause
}

// InvalidAmountError reports a candidate row whose amount text could not be
// normalized to a positive decimal. Row-level: the row is skipped.
type InvalidAmountError struct {
	Value string
	Err   error
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount '%s': %v", e.Value, e.Err)
}

func (e *InvalidAmountError) Unwrap() error {
	return e.Err
}

// InvalidDateError reports a date text that matched no supported layout.
// Row-level: the row is skipped.
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date '%s': no supported layout produced a calendar-valid date", e.Value)
}

// NotFoundError reports a record id that does not exist in a store.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// StatusConflictError reports a guarded status transition whose precondition
// did not hold. Used as the mutual-exclusion signal for statement processing.
type StatusConflictError struct {
	ID        string
	Current   string
	Requested string
}

func (e *StatusConflictError) Error() string {
	return fmt.Sprintf("statement %s is %s, cannot transition to %s",
		e.ID, e.Current, e.Requested)
}

// AccountNotFoundError reports that no account matched any of the correlation
// lookups for a processed statement. Best-effort: logged, never fatal.
type AccountNotFoundError struct {
	Holder      string
	AccountName string
	LastFour    string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("no account found for holder=%s name=%s last4=%s",
		e.Holder, e.AccountName, e.LastFour)
}

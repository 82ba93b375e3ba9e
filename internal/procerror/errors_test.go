package procerror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidFormatErrorMessage(t *testing.T) {
	err := &InvalidFormatError{ExpectedFormat: "PDF", Msg: "missing %PDF- signature"}

	assert.Contains(t, err.Error(), "invalid document format")
	assert.Contains(t, err.Error(), "expected PDF")
}

func TestExtractionFailedErrorListsAttempts(t *testing.T) {
	err := &ExtractionFailedError{Attempts: []StrategyError{
		{Strategy: "library_rows", Err: errors.New("no pages")},
		{Strategy: "pdftotext", Err: errors.New("binary not found")},
	}}

	assert.Contains(t, err.Error(), "after 2 strategies")
	assert.Contains(t, err.Error(), "library_rows: no pages")
	assert.Contains(t, err.Error(), "pdftotext: binary not found")
}

func TestCorruptedDocumentErrorUnwraps(t *testing.T) {
	cause := errors.New("xref table damaged")
	err := &CorruptedDocumentError{Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "Re-export")
}

func TestStrategyErrorUnwraps(t *testing.T) {
	cause := errors.New("timeout")
	err := &StrategyError{Strategy: "raw_streams", Err: cause}

	assert.ErrorIs(t, err, cause)
}

func TestInvalidAmountErrorUnwraps(t *testing.T) {
	cause := errors.New("not a number")
	err := &InvalidAmountError{Value: "abc", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "invalid amount 'abc'")
}

func TestStatusConflictErrorMessage(t *testing.T) {
	err := &StatusConflictError{ID: "st-1", Current: "processing", Requested: "processing"}

	assert.Equal(t, "statement st-1 is processing, cannot transition to processing", err.Error())
}

func TestNotFoundErrorMessage(t *testing.T) {
	err := &NotFoundError{Kind: "account", ID: "a-1"}

	assert.Equal(t, "account not found: a-1", err.Error())
}

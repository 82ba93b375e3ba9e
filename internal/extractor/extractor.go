// Package extractor turns uploaded statement documents into text. Documents
// vary wildly in how they encode text, so extraction runs an ordered chain of
// strategies and takes the first one that produces anything.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"cardsight/statement-core/internal/logging"
	"cardsight/statement-core/internal/procerror"
)

// Result is a successful extraction: the raw text, the trimmed non-empty
// lines in document order, and the strategy that produced them.
type Result struct {
	Text     string
	Lines    []string
	Strategy string
}

// pdfSignature is the magic prefix every parseable document must carry.
var pdfSignature = []byte("%PDF-")

type strategy struct {
	name string
	run  func(ctx context.Context, data []byte) (string, error)
}

// Extractor runs the strategy chain. MaxPages bounds the per-page strategies;
// Timeout bounds each individual strategy attempt.
type Extractor struct {
	maxPages   int
	timeout    time.Duration
	logger     logging.Logger
	strategies []strategy
}

// New creates an Extractor with the default strategy chain. Zero maxPages or
// timeout fall back to 25 pages and 30 seconds.
func New(maxPages int, timeout time.Duration, logger logging.Logger) *Extractor {
	if maxPages <= 0 {
		maxPages = 25
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	e := &Extractor{maxPages: maxPages, timeout: timeout, logger: logger}
	e.strategies = []strategy{
		{name: "library_rows", run: e.extractByRows},
		{name: "library_plain", run: e.extractPlainText},
		{name: "raw_streams", run: e.extractRawStreams},
		{name: "pdftotext", run: e.extractWithPdftotext},
	}
	return e
}

// Extract validates the document and runs the strategy chain. The first
// strategy returning non-empty text wins. When every strategy fails, the
// primary failure decides the error class: a damaged cross-reference table
// yields a CorruptedDocumentError with re-export guidance, anything else an
// ExtractionFailedError listing every attempt.
func (e *Extractor) Extract(ctx context.Context, data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, &procerror.InvalidFormatError{ExpectedFormat: "PDF", Msg: "document is empty"}
	}
	if !bytes.HasPrefix(data, pdfSignature) {
		return nil, &procerror.InvalidFormatError{ExpectedFormat: "PDF", Msg: "missing %PDF- signature"}
	}

	var attempts []procerror.StrategyError

	for _, s := range e.strategies {
		text, err := e.attempt(ctx, s, data)
		if err != nil {
			e.logger.WithError(err).Debug("Extraction strategy failed",
				logging.Field{Key: logging.FieldStrategy, Value: s.name})
			attempts = append(attempts, procerror.StrategyError{Strategy: s.name, Err: err})
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			attempts = append(attempts, procerror.StrategyError{
				Strategy: s.name,
				Err:      errNoText,
			})
			continue
		}

		e.logger.Info("Document text extracted",
			logging.Field{Key: logging.FieldStrategy, Value: s.name})
		return &Result{Text: text, Lines: splitLines(text), Strategy: s.name}, nil
	}

	if primary := primaryError(attempts); primary != nil && mentionsCorruptXref(primary) {
		return nil, &procerror.CorruptedDocumentError{Cause: primary}
	}
	return nil, &procerror.ExtractionFailedError{Attempts: attempts}
}

var errNoText = noTextError{}

type noTextError struct{}

func (noTextError) Error() string { return "strategy produced no text" }

// attempt runs one strategy under the per-strategy timeout, recovering from
// panics inside third-party parsing code.
func (e *Extractor) attempt(ctx context.Context, s strategy, data []byte) (string, error) {
	sctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("strategy panicked: %v", r)}
			}
		}()
		text, err := s.run(sctx, data)
		done <- outcome{text: text, err: err}
	}()

	select {
	case out := <-done:
		return out.text, out.err
	case <-sctx.Done():
		return "", sctx.Err()
	}
}

func primaryError(attempts []procerror.StrategyError) error {
	for _, a := range attempts {
		if a.Err != nil && a.Err != errNoText {
			return a.Err
		}
	}
	return nil
}

func mentionsCorruptXref(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "xref") || strings.Contains(msg, "cross-reference")
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

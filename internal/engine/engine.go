// Package engine drives one statement document through extraction,
// reconciliation, matching, normalization, classification and persistence,
// and manages the statement's processing state machine.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cardsight/statement-core/internal/categorizer"
	"cardsight/statement-core/internal/currencyutils"
	"cardsight/statement-core/internal/dateutils"
	"cardsight/statement-core/internal/extractor"
	"cardsight/statement-core/internal/logging"
	"cardsight/statement-core/internal/matcher"
	"cardsight/statement-core/internal/models"
	"cardsight/statement-core/internal/reconciler"
	"cardsight/statement-core/internal/store"
	"cardsight/statement-core/internal/summary"
)

// TextExtractor is the extraction dependency. *extractor.Extractor satisfies
// it; tests substitute a stub.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (*extractor.Result, error)
}

// Deps wires the engine's collaborators. Documents, Statements, Transactions,
// Accounts and Extractor are required; the rest default.
type Deps struct {
	Documents    store.DocumentStore
	Statements   store.StatementStore
	Transactions store.TransactionStore
	Accounts     store.AccountStore
	Notifier     store.Notifier
	Extractor    TextExtractor
	Matcher      *matcher.Matcher
	Summarizer   *summary.Extractor
	Classifier   *categorizer.Classifier
	Logger       logging.Logger
}

// Engine is the statement orchestrator.
type Engine struct {
	deps Deps
}

// New creates an Engine, filling in default collaborators where Deps leaves
// them nil.
func New(deps Deps) *Engine {
	if deps.Logger == nil {
		deps.Logger = logging.NewLogrusAdapter("info", "text")
	}
	if deps.Notifier == nil {
		deps.Notifier = store.NoopNotifier{}
	}
	if deps.Matcher == nil {
		deps.Matcher = matcher.New(deps.Logger)
	}
	if deps.Summarizer == nil {
		deps.Summarizer = summary.New(deps.Logger)
	}
	if deps.Classifier == nil {
		deps.Classifier = categorizer.New(nil, deps.Logger)
	}
	return &Engine{deps: deps}
}

// processableStates are the origins from which processing may be entered. A
// statement already processing is excluded: the guarded transition is the
// mutual-exclusion token, so two concurrent Process calls cannot both enter.
var processableStates = []string{
	models.StatusUploaded,
	models.StatusPending,
	models.StatusFailed,
}

// Process runs the full pipeline for one statement. Already-processed
// statements are not re-entered; use Reprocess for that.
func (e *Engine) Process(ctx context.Context, statementID string) error {
	if err := e.deps.Statements.Transition(statementID, models.StatusProcessing, processableStates...); err != nil {
		return err
	}
	return e.run(ctx, statementID)
}

// Reprocess purges the statement's prior transactions and re-runs the
// pipeline. Unlike Process it forces processing from any state, so a
// statement wedged in processing by a crash can be recovered. The purge
// happens only after the transition succeeds: a refused call must not
// destroy the existing transaction set. Re-derivation, not merge: the set
// afterwards reflects only the current document content.
func (e *Engine) Reprocess(ctx context.Context, statementID string) error {
	if err := e.deps.Statements.Transition(statementID, models.StatusProcessing); err != nil {
		return err
	}

	if err := e.deps.Transactions.DeleteByStatement(statementID); err != nil {
		if st, getErr := e.deps.Statements.Get(statementID); getErr == nil {
			return e.fail(st, err, e.deps.Logger.WithField(logging.FieldStatement, statementID))
		}
		return err
	}
	return e.run(ctx, statementID)
}

// Outcome is the per-statement result of a batch run.
type Outcome struct {
	StatementID  string
	Transactions int
	Err          error
}

// ProcessAllPending processes every uploaded or pending statement
// sequentially, capturing each statement's error instead of aborting the
// batch.
func (e *Engine) ProcessAllPending(ctx context.Context) ([]Outcome, error) {
	var candidates []models.Statement
	for _, status := range []string{models.StatusUploaded, models.StatusPending} {
		batch, err := e.deps.Statements.ListByStatus(status)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, batch...)
	}

	outcomes := make([]Outcome, 0, len(candidates))
	for _, st := range candidates {
		err := e.Process(ctx, st.ID)
		outcome := Outcome{StatementID: st.ID, Err: err}
		if err == nil {
			if txs, listErr := e.deps.Transactions.ListByStatement(st.ID); listErr == nil {
				outcome.Transactions = len(txs)
			}
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// run executes the pipeline body. The statement is already in processing.
func (e *Engine) run(ctx context.Context, statementID string) error {
	logger := e.deps.Logger.WithField(logging.FieldStatement, statementID)

	st, err := e.deps.Statements.Get(statementID)
	if err != nil {
		// The statement is already in processing; settle it to failed via
		// the status-only transition so it does not stay wedged. Saving a
		// stub record here would clobber fields we never loaded.
		if terr := e.deps.Statements.Transition(statementID, models.StatusFailed); terr != nil {
			logger.WithError(terr).Error("Failed to settle statement after load failure")
		}
		return err
	}
	st.Status = models.StatusProcessing

	data, err := e.deps.Documents.Load(st.DocumentRef)
	if err != nil {
		return e.fail(st, err, logger)
	}

	result, err := e.deps.Extractor.Extract(ctx, data)
	if err != nil {
		return e.fail(st, err, logger)
	}
	logger.Info("Document extracted",
		logging.Field{Key: logging.FieldStrategy, Value: result.Strategy},
		logging.Field{Key: logging.FieldCount, Value: len(result.Lines)})

	candidates := reconciler.Reconcile(result.Lines)
	raws := e.deps.Matcher.Match(candidates)
	transactions := e.normalize(raws, st.ID, logger)

	for i := range transactions {
		transactions[i].Category = e.deps.Classifier.Classify(transactions[i].Description)
	}

	extracted := e.deps.Summarizer.Extract(result.Lines)
	extracted.TotalTransactions = len(transactions)
	extracted.TotalAmount = sumAmounts(transactions)
	st.Summary = &extracted

	if account, ok := e.correlateAccount(st, extracted, logger); ok {
		for i := range transactions {
			transactions[i].AccountID = account.ID
		}
	}

	persisted := 0
	for _, tx := range transactions {
		if err := e.deps.Transactions.Save(tx); err != nil {
			logger.WithError(err).Warn("Failed to persist transaction, skipping",
				logging.Field{Key: "transaction", Value: tx.ID})
			continue
		}
		persisted++
	}

	now := time.Now().UTC()
	st.Status = models.StatusProcessed
	st.ProcessedAt = &now
	st.ProcessingError = ""
	if err := e.deps.Statements.Save(st); err != nil {
		return err
	}

	logger.Info("Statement processed",
		logging.Field{Key: logging.FieldCount, Value: persisted},
		logging.Field{Key: logging.FieldStatus, Value: st.Status})
	e.deps.Notifier.StatementProcessed(st, persisted)
	return nil
}

// fail settles the statement into the failed state with the error message and
// emits the failure notification. The original error is returned to the
// caller.
func (e *Engine) fail(st models.Statement, cause error, logger logging.Logger) error {
	st.Status = models.StatusFailed
	st.ProcessingError = cause.Error()
	if err := e.deps.Statements.Save(st); err != nil {
		logger.WithError(err).Error("Failed to persist failure state")
	}

	logger.WithError(cause).Error("Statement processing failed")
	e.deps.Notifier.StatementFailed(st, cause.Error())
	return cause
}

// normalize converts raw matches into validated transactions. Rows that fail
// normalization or validation are skipped with a log entry; they never abort
// the statement.
func (e *Engine) normalize(raws []matcher.RawMatch, statementID string, logger logging.Logger) []models.Transaction {
	var out []models.Transaction
	for _, raw := range raws {
		date, err := dateutils.ParseStatementDate(raw.DateText)
		if err != nil {
			logger.WithError(err).Debug("Skipping row with unparseable date",
				logging.Field{Key: logging.FieldLine, Value: raw.DateText})
			continue
		}

		amount, err := currencyutils.ParseAmount(raw.AmountText)
		if err != nil {
			logger.WithError(err).Debug("Skipping row with unparseable amount",
				logging.Field{Key: logging.FieldAmount, Value: raw.AmountText})
			continue
		}

		tx := models.Transaction{
			ID:          uuid.NewString(),
			StatementID: statementID,
			Date:        date,
			Description: raw.DescriptionText,
			Amount:      amount,
		}

		if raw.BalanceText != "" {
			if balance, err := currencyutils.ParseAmount(raw.BalanceText); err == nil {
				tx.Balance = &balance
			}
		}

		if !tx.Valid() {
			logger.Debug("Skipping row failing validation",
				logging.Field{Key: logging.FieldLine, Value: raw.DescriptionText})
			continue
		}
		out = append(out, tx)
	}
	return out
}

// correlateAccount tries the ordered lookup predicates and, on a unique hit,
// overwrites the account's limit fields from the extracted summary. A miss is
// logged and never fatal.
func (e *Engine) correlateAccount(st models.Statement, extracted models.ExtractedSummary, logger logging.Logger) (models.Account, bool) {
	if st.AccountHolder == "" {
		return models.Account{}, false
	}

	type predicate struct {
		name string
		find func() (models.Account, error)
	}
	var predicates []predicate
	if st.AccountName != "" && st.LastFourDigits != "" {
		predicates = append(predicates, predicate{"holder+name+digits", func() (models.Account, error) {
			return e.deps.Accounts.FindByHolderNameDigits(st.AccountHolder, st.AccountName, st.LastFourDigits)
		}})
	}
	if st.AccountName != "" {
		predicates = append(predicates, predicate{"holder+name", func() (models.Account, error) {
			return e.deps.Accounts.FindByHolderName(st.AccountHolder, st.AccountName)
		}})
	}
	if st.LastFourDigits != "" {
		predicates = append(predicates, predicate{"holder+digits", func() (models.Account, error) {
			return e.deps.Accounts.FindByHolderDigits(st.AccountHolder, st.LastFourDigits)
		}})
	}

	for _, p := range predicates {
		account, err := p.find()
		if err != nil {
			continue
		}

		// Only overwrite with values the summary actually found; a statement
		// without a limit line must not zero a known limit.
		if !extracted.CardLimit.IsZero() {
			account.CardLimit = extracted.CardLimit
		}
		if !extracted.AvailableLimit.IsZero() {
			account.AvailableLimit = extracted.AvailableLimit
		}
		if !extracted.OutstandingAmount.IsZero() {
			account.OutstandingAmount = extracted.OutstandingAmount
		}
		if err := e.deps.Accounts.Save(account); err != nil {
			logger.WithError(err).Warn("Failed to update correlated account",
				logging.Field{Key: logging.FieldAccount, Value: account.ID})
			return models.Account{}, false
		}

		logger.Info("Account correlated",
			logging.Field{Key: logging.FieldAccount, Value: account.ID},
			logging.Field{Key: logging.FieldReason, Value: p.name})
		return account, true
	}

	logger.Warn("No account matched statement, skipping reconciliation",
		logging.Field{Key: "holder", Value: st.AccountHolder})
	return models.Account{}, false
}

func sumAmounts(transactions []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		total = total.Add(tx.Amount)
	}
	return total
}

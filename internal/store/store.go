// Package store defines the persistence collaborators consumed by the
// processing engine, plus file-backed reference implementations so the CLI
// works end to end against a plain data directory.
package store

import "cardsight/statement-core/internal/models"

// DocumentStore persists uploaded statement documents as opaque byte blobs
// addressed by reference.
type DocumentStore interface {
	Save(ref string, data []byte) error
	Load(ref string) ([]byte, error)
	Delete(ref string) error
}

// StatementStore persists statement records. Transition is a guarded
// compare-and-set on the status field: it fails with a StatusConflictError
// when the current status is not one of the allowed origins. The engine
// relies on this as its mutual-exclusion token, so implementations must make
// the check-and-set atomic.
type StatementStore interface {
	Save(st models.Statement) error
	Get(id string) (models.Statement, error)
	List() ([]models.Statement, error)
	ListByStatus(status string) ([]models.Statement, error)
	Transition(id, to string, allowedFrom ...string) error
}

// TransactionStore persists extracted transactions.
type TransactionStore interface {
	Save(tx models.Transaction) error
	ListByStatement(statementID string) ([]models.Transaction, error)
	ListByAccount(accountID string) ([]models.Transaction, error)
	DeleteByStatement(statementID string) error
}

// AccountStore persists card accounts. The Find methods are the ordered
// correlation predicates the engine tries after processing a statement; each
// returns a NotFoundError when no account matches.
type AccountStore interface {
	Save(acct models.Account) error
	Get(id string) (models.Account, error)
	List() ([]models.Account, error)
	ListByHolder(holder string) ([]models.Account, error)
	FindByHolderNameDigits(holder, name, lastFour string) (models.Account, error)
	FindByHolderName(holder, name string) (models.Account, error)
	FindByHolderDigits(holder, lastFour string) (models.Account, error)
}

// Notifier receives processing lifecycle events. Implementations must not
// block the pipeline; errors are logged and ignored by callers.
type Notifier interface {
	StatementProcessed(st models.Statement, transactionCount int)
	StatementFailed(st models.Statement, reason string)
}

// NoopNotifier is the default Notifier.
type NoopNotifier struct{}

func (NoopNotifier) StatementProcessed(models.Statement, int) {}

func (NoopNotifier) StatementFailed(models.Statement, string) {}

package store

import (
	"sort"
	"strings"
	"sync"

	"cardsight/statement-core/internal/models"
	"cardsight/statement-core/internal/procerror"
)

// MemoryDocumentStore keeps documents in a map. Used by tests and as the
// backing for piped single-shot runs.
type MemoryDocumentStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{docs: make(map[string][]byte)}
}

func (s *MemoryDocumentStore) Save(ref string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	s.docs[ref] = copied
	return nil
}

func (s *MemoryDocumentStore) Load(ref string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.docs[ref]
	if !ok {
		return nil, &procerror.NotFoundError{Kind: "document", ID: ref}
	}
	return data, nil
}

func (s *MemoryDocumentStore) Delete(ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, ref)
	return nil
}

// MemoryStatementStore keeps statement records in a map with a locked
// compare-and-set transition.
type MemoryStatementStore struct {
	mu         sync.Mutex
	statements map[string]models.Statement
}

func NewMemoryStatementStore() *MemoryStatementStore {
	return &MemoryStatementStore{statements: make(map[string]models.Statement)}
}

func (s *MemoryStatementStore) Save(st models.Statement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statements[st.ID] = st
	return nil
}

func (s *MemoryStatementStore) Get(id string) (models.Statement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.statements[id]
	if !ok {
		return models.Statement{}, &procerror.NotFoundError{Kind: "statement", ID: id}
	}
	return st, nil
}

func (s *MemoryStatementStore) List() ([]models.Statement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Statement, 0, len(s.statements))
	for _, st := range s.statements {
		out = append(out, st)
	}
	sortStatements(out)
	return out, nil
}

func (s *MemoryStatementStore) ListByStatus(status string) ([]models.Statement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Statement
	for _, st := range s.statements {
		if st.Status == status {
			out = append(out, st)
		}
	}
	sortStatements(out)
	return out, nil
}

func (s *MemoryStatementStore) Transition(id, to string, allowedFrom ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.statements[id]
	if !ok {
		return &procerror.NotFoundError{Kind: "statement", ID: id}
	}
	if !statusAllowed(st.Status, allowedFrom) {
		return &procerror.StatusConflictError{ID: id, Current: st.Status, Requested: to}
	}
	st.Status = to
	s.statements[id] = st
	return nil
}

// MemoryTransactionStore keeps transactions in insertion order.
type MemoryTransactionStore struct {
	mu  sync.Mutex
	txs []models.Transaction
}

func NewMemoryTransactionStore() *MemoryTransactionStore {
	return &MemoryTransactionStore{}
}

func (s *MemoryTransactionStore) Save(tx models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.txs {
		if existing.ID == tx.ID {
			s.txs[i] = tx
			return nil
		}
	}
	s.txs = append(s.txs, tx)
	return nil
}

func (s *MemoryTransactionStore) ListByStatement(statementID string) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Transaction
	for _, tx := range s.txs {
		if tx.StatementID == statementID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *MemoryTransactionStore) ListByAccount(accountID string) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Transaction
	for _, tx := range s.txs {
		if tx.AccountID == accountID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *MemoryTransactionStore) DeleteByStatement(statementID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.txs[:0]
	for _, tx := range s.txs {
		if tx.StatementID != statementID {
			kept = append(kept, tx)
		}
	}
	s.txs = kept
	return nil
}

// MemoryAccountStore keeps accounts in a map.
type MemoryAccountStore struct {
	mu       sync.Mutex
	accounts map[string]models.Account
}

func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{accounts: make(map[string]models.Account)}
}

func (s *MemoryAccountStore) Save(acct models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[acct.ID] = acct
	return nil
}

func (s *MemoryAccountStore) Get(id string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok {
		return models.Account{}, &procerror.NotFoundError{Kind: "account", ID: id}
	}
	return acct, nil
}

func (s *MemoryAccountStore) List() ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Account, 0, len(s.accounts))
	for _, acct := range s.accounts {
		out = append(out, acct)
	}
	sortAccounts(out)
	return out, nil
}

func (s *MemoryAccountStore) ListByHolder(holder string) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Account
	for _, acct := range s.accounts {
		if strings.EqualFold(acct.Holder, holder) {
			out = append(out, acct)
		}
	}
	sortAccounts(out)
	return out, nil
}

func (s *MemoryAccountStore) FindByHolderNameDigits(holder, name, lastFour string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return findUniqueAccount(s.snapshot(), holder, name, lastFour)
}

func (s *MemoryAccountStore) FindByHolderName(holder, name string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return findUniqueAccount(s.snapshot(), holder, name, "")
}

func (s *MemoryAccountStore) FindByHolderDigits(holder, lastFour string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return findUniqueAccount(s.snapshot(), holder, "", lastFour)
}

func (s *MemoryAccountStore) snapshot() []models.Account {
	out := make([]models.Account, 0, len(s.accounts))
	for _, acct := range s.accounts {
		out = append(out, acct)
	}
	return out
}

func sortStatements(statements []models.Statement) {
	sort.Slice(statements, func(i, j int) bool {
		if !statements[i].UploadedAt.Equal(statements[j].UploadedAt) {
			return statements[i].UploadedAt.Before(statements[j].UploadedAt)
		}
		return statements[i].ID < statements[j].ID
	})
}

func sortAccounts(accounts []models.Account) {
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].ID < accounts[j].ID
	})
}

func statusAllowed(current string, allowedFrom []string) bool {
	if len(allowedFrom) == 0 {
		return true
	}
	for _, allowed := range allowedFrom {
		if current == allowed {
			return true
		}
	}
	return false
}

// findUniqueAccount applies one correlation predicate. Empty predicate parts
// are wildcards. Zero or multiple matches both count as a miss: the engine
// only overwrites an account it can identify unambiguously.
func findUniqueAccount(accounts []models.Account, holder, name, lastFour string) (models.Account, error) {
	var matches []models.Account
	for _, acct := range accounts {
		if holder != "" && !strings.EqualFold(acct.Holder, holder) {
			continue
		}
		if name != "" && !strings.EqualFold(acct.Name, name) {
			continue
		}
		if lastFour != "" && acct.LastFourDigits != lastFour {
			continue
		}
		matches = append(matches, acct)
	}
	if len(matches) != 1 {
		return models.Account{}, &procerror.AccountNotFoundError{
			Holder: holder, AccountName: name, LastFour: lastFour,
		}
	}
	return matches[0], nil
}

package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"cardsight/statement-core/internal/models"
	"cardsight/statement-core/internal/procerror"
)

// FileDocumentStore keeps uploaded documents as plain files under
// <dir>/documents. References are flattened to base names so a ref can never
// escape the directory.
type FileDocumentStore struct {
	dir string
}

func NewFileDocumentStore(dataDir string) *FileDocumentStore {
	return &FileDocumentStore{dir: filepath.Join(dataDir, "documents")}
}

func (s *FileDocumentStore) path(ref string) string {
	return filepath.Join(s.dir, filepath.Base(ref))
}

func (s *FileDocumentStore) Save(ref string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("error creating document directory: %w", err)
	}
	if err := os.WriteFile(s.path(ref), data, 0o644); err != nil {
		return fmt.Errorf("error writing document %s: %w", ref, err)
	}
	return nil
}

func (s *FileDocumentStore) Load(ref string) ([]byte, error) {
	data, err := os.ReadFile(s.path(ref))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &procerror.NotFoundError{Kind: "document", ID: ref}
		}
		return nil, fmt.Errorf("error reading document %s: %w", ref, err)
	}
	return data, nil
}

func (s *FileDocumentStore) Delete(ref string) error {
	if err := os.Remove(s.path(ref)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error deleting document %s: %w", ref, err)
	}
	return nil
}

// yamlFile serializes whole-collection load/save cycles against one YAML
// file. The statement, transaction and account stores all follow the same
// read-modify-write pattern under its lock.
type yamlFile struct {
	mu   sync.Mutex
	path string
}

func (f *yamlFile) load(out interface{}) error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("error reading %s: %w", f.path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("error parsing %s: %w", f.path, err)
	}
	return nil
}

func (f *yamlFile) save(in interface{}) error {
	data, err := yaml.Marshal(in)
	if err != nil {
		return fmt.Errorf("error marshaling %s: %w", f.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("error creating data directory: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", f.path, err)
	}
	return nil
}

// FileStatementStore persists statement records in <dataDir>/statements.yaml.
type FileStatementStore struct {
	file yamlFile
}

func NewFileStatementStore(dataDir string) *FileStatementStore {
	return &FileStatementStore{file: yamlFile{path: filepath.Join(dataDir, "statements.yaml")}}
}

func (s *FileStatementStore) Save(st models.Statement) error {
	s.file.mu.Lock()
	defer s.file.mu.Unlock()

	var statements []models.Statement
	if err := s.file.load(&statements); err != nil {
		return err
	}

	replaced := false
	for i, existing := range statements {
		if existing.ID == st.ID {
			statements[i] = st
			replaced = true
			break
		}
	}
	if !replaced {
		statements = append(statements, st)
	}
	return s.file.save(statements)
}

func (s *FileStatementStore) Get(id string) (models.Statement, error) {
	s.file.mu.Lock()
	defer s.file.mu.Unlock()

	var statements []models.Statement
	if err := s.file.load(&statements); err != nil {
		return models.Statement{}, err
	}
	for _, st := range statements {
		if st.ID == id {
			return st, nil
		}
	}
	return models.Statement{}, &procerror.NotFoundError{Kind: "statement", ID: id}
}

func (s *FileStatementStore) List() ([]models.Statement, error) {
	s.file.mu.Lock()
	defer s.file.mu.Unlock()

	var statements []models.Statement
	if err := s.file.load(&statements); err != nil {
		return nil, err
	}
	sortStatements(statements)
	return statements, nil
}

func (s *FileStatementStore) ListByStatus(status string) ([]models.Statement, error) {
	s.file.mu.Lock()
	defer s.file.mu.Unlock()

	var statements []models.Statement
	if err := s.file.load(&statements); err != nil {
		return nil, err
	}
	var out []models.Statement
	for _, st := range statements {
		if st.Status == status {
			out = append(out, st)
		}
	}
	sortStatements(out)
	return out, nil
}

func (s *FileStatementStore) Transition(id, to string, allowedFrom ...string) error {
	s.file.mu.Lock()
	defer s.file.mu.Unlock()

	var statements []models.Statement
	if err := s.file.load(&statements); err != nil {
		return err
	}
	for i, st := range statements {
		if st.ID != id {
			continue
		}
		if !statusAllowed(st.Status, allowedFrom) {
			return &procerror.StatusConflictError{ID: id, Current: st.Status, Requested: to}
		}
		statements[i].Status = to
		return s.file.save(statements)
	}
	return &procerror.NotFoundError{Kind: "statement", ID: id}
}

// FileTransactionStore persists transactions in <dataDir>/transactions.yaml.
type FileTransactionStore struct {
	file yamlFile
}

func NewFileTransactionStore(dataDir string) *FileTransactionStore {
	return &FileTransactionStore{file: yamlFile{path: filepath.Join(dataDir, "transactions.yaml")}}
}

func (s *FileTransactionStore) Save(tx models.Transaction) error {
	s.file.mu.Lock()
	defer s.file.mu.Unlock()

	var txs []models.Transaction
	if err := s.file.load(&txs); err != nil {
		return err
	}

	replaced := false
	for i, existing := range txs {
		if existing.ID == tx.ID {
			txs[i] = tx
			replaced = true
			break
		}
	}
	if !replaced {
		txs = append(txs, tx)
	}
	return s.file.save(txs)
}

func (s *FileTransactionStore) ListByStatement(statementID string) ([]models.Transaction, error) {
	return s.filter(func(tx models.Transaction) bool { return tx.StatementID == statementID })
}

func (s *FileTransactionStore) ListByAccount(accountID string) ([]models.Transaction, error) {
	return s.filter(func(tx models.Transaction) bool { return tx.AccountID == accountID })
}

func (s *FileTransactionStore) filter(keep func(models.Transaction) bool) ([]models.Transaction, error) {
	s.file.mu.Lock()
	defer s.file.mu.Unlock()

	var txs []models.Transaction
	if err := s.file.load(&txs); err != nil {
		return nil, err
	}
	var out []models.Transaction
	for _, tx := range txs {
		if keep(tx) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *FileTransactionStore) DeleteByStatement(statementID string) error {
	s.file.mu.Lock()
	defer s.file.mu.Unlock()

	var txs []models.Transaction
	if err := s.file.load(&txs); err != nil {
		return err
	}
	kept := txs[:0]
	for _, tx := range txs {
		if tx.StatementID != statementID {
			kept = append(kept, tx)
		}
	}
	return s.file.save(kept)
}

// FileAccountStore persists accounts in <dataDir>/accounts.yaml.
type FileAccountStore struct {
	file yamlFile
}

func NewFileAccountStore(dataDir string) *FileAccountStore {
	return &FileAccountStore{file: yamlFile{path: filepath.Join(dataDir, "accounts.yaml")}}
}

func (s *FileAccountStore) Save(acct models.Account) error {
	s.file.mu.Lock()
	defer s.file.mu.Unlock()

	var accounts []models.Account
	if err := s.file.load(&accounts); err != nil {
		return err
	}

	replaced := false
	for i, existing := range accounts {
		if existing.ID == acct.ID {
			accounts[i] = acct
			replaced = true
			break
		}
	}
	if !replaced {
		accounts = append(accounts, acct)
	}
	return s.file.save(accounts)
}

func (s *FileAccountStore) Get(id string) (models.Account, error) {
	accounts, err := s.loadAll()
	if err != nil {
		return models.Account{}, err
	}
	for _, acct := range accounts {
		if acct.ID == id {
			return acct, nil
		}
	}
	return models.Account{}, &procerror.NotFoundError{Kind: "account", ID: id}
}

func (s *FileAccountStore) List() ([]models.Account, error) {
	accounts, err := s.loadAll()
	if err != nil {
		return nil, err
	}
	sortAccounts(accounts)
	return accounts, nil
}

func (s *FileAccountStore) ListByHolder(holder string) ([]models.Account, error) {
	accounts, err := s.loadAll()
	if err != nil {
		return nil, err
	}
	var out []models.Account
	for _, acct := range accounts {
		if strings.EqualFold(acct.Holder, holder) {
			out = append(out, acct)
		}
	}
	sortAccounts(out)
	return out, nil
}

func (s *FileAccountStore) FindByHolderNameDigits(holder, name, lastFour string) (models.Account, error) {
	accounts, err := s.loadAll()
	if err != nil {
		return models.Account{}, err
	}
	return findUniqueAccount(accounts, holder, name, lastFour)
}

func (s *FileAccountStore) FindByHolderName(holder, name string) (models.Account, error) {
	accounts, err := s.loadAll()
	if err != nil {
		return models.Account{}, err
	}
	return findUniqueAccount(accounts, holder, name, "")
}

func (s *FileAccountStore) FindByHolderDigits(holder, lastFour string) (models.Account, error) {
	accounts, err := s.loadAll()
	if err != nil {
		return models.Account{}, err
	}
	return findUniqueAccount(accounts, holder, "", lastFour)
}

func (s *FileAccountStore) loadAll() ([]models.Account, error) {
	s.file.mu.Lock()
	defer s.file.mu.Unlock()

	var accounts []models.Account
	if err := s.file.load(&accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

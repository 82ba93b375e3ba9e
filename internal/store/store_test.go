package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardsight/statement-core/internal/logging"
	"cardsight/statement-core/internal/models"
	"cardsight/statement-core/internal/procerror"
)

func TestMemoryStatementTransitionGuard(t *testing.T) {
	s := NewMemoryStatementStore()
	require.NoError(t, s.Save(models.Statement{ID: "st-1", Status: models.StatusUploaded}))

	require.NoError(t, s.Transition("st-1", models.StatusProcessing,
		models.StatusUploaded, models.StatusFailed, models.StatusProcessed))

	// A second processing attempt must be refused while the first holds the
	// status.
	err := s.Transition("st-1", models.StatusProcessing,
		models.StatusUploaded, models.StatusFailed, models.StatusProcessed)
	var conflict *procerror.StatusConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, models.StatusProcessing, conflict.Current)

	st, err := s.Get("st-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, st.Status)
}

func TestMemoryTransactionDeleteByStatement(t *testing.T) {
	s := NewMemoryTransactionStore()
	require.NoError(t, s.Save(models.Transaction{ID: "t-1", StatementID: "st-1"}))
	require.NoError(t, s.Save(models.Transaction{ID: "t-2", StatementID: "st-1"}))
	require.NoError(t, s.Save(models.Transaction{ID: "t-3", StatementID: "st-2"}))

	require.NoError(t, s.DeleteByStatement("st-1"))

	remaining, err := s.ListByStatement("st-1")
	require.NoError(t, err)
	assert.Empty(t, remaining)

	others, err := s.ListByStatement("st-2")
	require.NoError(t, err)
	assert.Len(t, others, 1)
}

func TestAccountCorrelationPredicates(t *testing.T) {
	s := NewMemoryAccountStore()
	require.NoError(t, s.Save(models.Account{ID: "a-1", Holder: "Priya", Name: "Platinum", LastFourDigits: "1234"}))
	require.NoError(t, s.Save(models.Account{ID: "a-2", Holder: "Priya", Name: "Gold", LastFourDigits: "9876"}))

	acct, err := s.FindByHolderNameDigits("priya", "platinum", "1234")
	require.NoError(t, err)
	assert.Equal(t, "a-1", acct.ID)

	acct, err = s.FindByHolderName("Priya", "Gold")
	require.NoError(t, err)
	assert.Equal(t, "a-2", acct.ID)

	acct, err = s.FindByHolderDigits("Priya", "9876")
	require.NoError(t, err)
	assert.Equal(t, "a-2", acct.ID)

	_, err = s.FindByHolderDigits("Priya", "0000")
	var notFound *procerror.AccountNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestAccountAmbiguousMatchIsAMiss(t *testing.T) {
	s := NewMemoryAccountStore()
	require.NoError(t, s.Save(models.Account{ID: "a-1", Holder: "Priya", Name: "Platinum", LastFourDigits: "1234"}))
	require.NoError(t, s.Save(models.Account{ID: "a-2", Holder: "Priya", Name: "Platinum", LastFourDigits: "5678"}))

	_, err := s.FindByHolderName("Priya", "Platinum")
	var notFound *procerror.AccountNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestFileStatementStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStatementStore(dir)

	uploaded := time.Date(2025, time.May, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(models.Statement{
		ID:            "st-1",
		AccountHolder: "Priya",
		Status:        models.StatusUploaded,
		UploadedAt:    uploaded,
	}))

	reopened := NewFileStatementStore(dir)
	st, err := reopened.Get("st-1")
	require.NoError(t, err)
	assert.Equal(t, "Priya", st.AccountHolder)
	assert.True(t, st.UploadedAt.Equal(uploaded))

	require.NoError(t, reopened.Transition("st-1", models.StatusProcessing, models.StatusUploaded))
	err = reopened.Transition("st-1", models.StatusProcessing, models.StatusUploaded)
	var conflict *procerror.StatusConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestFileTransactionStorePersistsDecimals(t *testing.T) {
	dir := t.TempDir()
	s := NewFileTransactionStore(dir)

	require.NoError(t, s.Save(models.Transaction{
		ID:          "t-1",
		StatementID: "st-1",
		Date:        time.Date(2025, time.May, 11, 0, 0, 0, 0, time.UTC),
		Description: "AMAZON.COM PURCHASE",
		Amount:      decimal.RequireFromString("125.50"),
		Category:    models.CategoryOrders,
	}))

	reopened := NewFileTransactionStore(dir)
	txs, err := reopened.ListByStatement("st-1")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "125.50", txs[0].Amount.StringFixed(2))
	assert.Equal(t, models.CategoryOrders, txs[0].Category)
}

func TestFileDocumentStoreFlattensRefs(t *testing.T) {
	dir := t.TempDir()
	s := NewFileDocumentStore(dir)

	require.NoError(t, s.Save("../../escape.pdf", []byte("%PDF-1.4")))

	data, err := s.Load("escape.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)

	_, err = os.Stat(filepath.Join(dir, "documents", "escape.pdf"))
	assert.NoError(t, err)
}

func TestCategoryStoreLoadsWrappedAndBareForms(t *testing.T) {
	dir := t.TempDir()

	wrapped := filepath.Join(dir, "wrapped.yaml")
	require.NoError(t, os.WriteFile(wrapped, []byte(
		"categories:\n  - name: orders\n    keywords: [amazon, flipkart]\n"), 0o644))

	s := NewCategoryStore(wrapped, logging.NewMockLogger())
	categories, err := s.LoadCategories()
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, models.CategoryOrders, categories[0].Name)
	assert.Equal(t, []string{"amazon", "flipkart"}, categories[0].Keywords)

	bare := filepath.Join(dir, "bare.yaml")
	require.NoError(t, os.WriteFile(bare, []byte(
		"- name: fees\n  keywords: [interest]\n"), 0o644))

	s = NewCategoryStore(bare, logging.NewMockLogger())
	categories, err = s.LoadCategories()
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, models.CategoryFees, categories[0].Name)
}

func TestCategoryStoreMissingFileIsNotAnError(t *testing.T) {
	s := NewCategoryStore(filepath.Join(t.TempDir(), "absent.yaml"), logging.NewMockLogger())
	categories, err := s.LoadCategories()
	require.NoError(t, err)
	assert.Nil(t, categories)
}

func TestNotFoundErrors(t *testing.T) {
	docs := NewMemoryDocumentStore()
	_, err := docs.Load("missing")
	var notFound *procerror.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "document", notFound.Kind)
}

func TestMemoryStatementTransitionWithoutOriginsIsUnconditional(t *testing.T) {
	s := NewMemoryStatementStore()
	require.NoError(t, s.Save(models.Statement{ID: "st-1", Status: models.StatusProcessing}))

	// No allowed origins means the transition applies from any state; forced
	// reprocessing relies on this to recover wedged statements.
	require.NoError(t, s.Transition("st-1", models.StatusProcessing))
	require.NoError(t, s.Transition("st-1", models.StatusFailed))

	st, err := s.Get("st-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, st.Status)
}

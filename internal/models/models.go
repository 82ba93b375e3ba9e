// Package models provides the data structures shared across the statement
// processing engine.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one extracted credit-card transaction. Amount is always a
// positive magnitude; direction is not encoded here.
type Transaction struct {
	ID          string           `yaml:"id" csv:"ID"`
	StatementID string           `yaml:"statement_id" csv:"StatementID"`
	AccountID   string           `yaml:"account_id" csv:"AccountID"`
	Date        time.Time        `yaml:"date" csv:"-"`
	Description string           `yaml:"description" csv:"Description"`
	Amount      decimal.Decimal  `yaml:"amount" csv:"Amount"`
	Balance     *decimal.Decimal `yaml:"balance,omitempty" csv:"-"`
	Category    string           `yaml:"category" csv:"Category"`
	Verified    bool             `yaml:"verified" csv:"Verified"`
}

// Valid reports whether the transaction satisfies the minimal persistence
// contract: a date, a description of at least two characters, and a positive
// amount.
func (t *Transaction) Valid() bool {
	return !t.Date.IsZero() &&
		len(strings.TrimSpace(t.Description)) >= 2 &&
		t.Amount.GreaterThan(decimal.Zero)
}

// ExtractedSummary holds the account-level metrics pulled from a statement.
// Numeric fields are zero when the label was not found; DueDate is nil.
type ExtractedSummary struct {
	Currency          string          `yaml:"currency"`
	CardLimit         decimal.Decimal `yaml:"card_limit"`
	AvailableLimit    decimal.Decimal `yaml:"available_limit"`
	OutstandingAmount decimal.Decimal `yaml:"outstanding_amount"`
	MinimumPayment    decimal.Decimal `yaml:"minimum_payment"`
	DueDate           *time.Time      `yaml:"due_date,omitempty"`
	TotalTransactions int             `yaml:"total_transactions"`
	TotalAmount       decimal.Decimal `yaml:"total_amount"`
}

// Statement is the persisted record of one uploaded statement document and
// its processing lifecycle.
type Statement struct {
	ID              string            `yaml:"id"`
	AccountHolder   string            `yaml:"account_holder"`
	AccountName     string            `yaml:"account_name"`
	LastFourDigits  string            `yaml:"last_four_digits"`
	DocumentRef     string            `yaml:"document_ref"`
	Status          string            `yaml:"status"`
	ProcessingError string            `yaml:"processing_error,omitempty"`
	Summary         *ExtractedSummary `yaml:"summary,omitempty"`
	UploadedAt      time.Time         `yaml:"uploaded_at"`
	ProcessedAt     *time.Time        `yaml:"processed_at,omitempty"`
}

// Account is the persisted aggregate whose limit fields are reconciled from
// successfully processed statements.
type Account struct {
	ID                string          `yaml:"id"`
	Holder            string          `yaml:"holder"`
	Name              string          `yaml:"name"`
	LastFourDigits    string          `yaml:"last_four_digits"`
	CardLimit         decimal.Decimal `yaml:"card_limit"`
	AvailableLimit    decimal.Decimal `yaml:"available_limit"`
	OutstandingAmount decimal.Decimal `yaml:"outstanding_amount"`
}

// CategoryTotal is the per-category slice of an account summary.
type CategoryTotal struct {
	Count         int             `yaml:"count"`
	Amount        decimal.Decimal `yaml:"amount"`
	VerifiedCount int             `yaml:"verified_count"`
}

// MonthlyTrend is one (year, month) bucket of transaction activity.
type MonthlyTrend struct {
	Year   int             `yaml:"year"`
	Month  time.Month      `yaml:"month"`
	Count  int             `yaml:"count"`
	Amount decimal.Decimal `yaml:"amount"`
}

// AccountSummary is the ephemeral aggregation result for one account.
// It is recomputed from persisted transactions on every request.
type AccountSummary struct {
	AccountID         string
	CategoryTotals    map[string]CategoryTotal
	TotalTransactions int
	TotalAmount       decimal.Decimal
	AverageAmount     decimal.Decimal
	VerifiedCount     int
	UnverifiedCount   int
	VerifiedAmount    decimal.Decimal
	UnverifiedAmount  decimal.Decimal
	TotalSpent        decimal.Decimal
	CardLimit         decimal.Decimal
	AvailableLimit    decimal.Decimal
	OutstandingAmount decimal.Decimal
	CreditUtilization float64
	VerificationRate  float64
	CategoryRates     map[string]float64
	MonthlyTrends     []MonthlyTrend
}

// CategoryConfig is one category's keyword set, loadable from a YAML file to
// override the built-in classification keywords.
type CategoryConfig struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// CategoriesConfig is the top-level shape of the categories YAML file.
type CategoriesConfig struct {
	Categories []CategoryConfig `yaml:"categories"`
}

// PortfolioSummary is the roll-up of every account of a holder (or all
// accounts). Accounts whose detail summary failed still contribute their
// last-known outstanding amount.
type PortfolioSummary struct {
	Accounts          int
	FailedAccounts    int
	CardLimit         decimal.Decimal
	AvailableLimit    decimal.Decimal
	OutstandingAmount decimal.Decimal
	TotalTransactions int
	TotalAmount       decimal.Decimal
	VerifiedCount     int
	CreditUtilization float64
	VerificationRate  float64
}

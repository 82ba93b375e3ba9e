// Package root contains the root command for the application
package root

import (
	"time"

	"github.com/spf13/cobra"

	"cardsight/statement-core/internal/aggregator"
	"cardsight/statement-core/internal/categorizer"
	"cardsight/statement-core/internal/config"
	"cardsight/statement-core/internal/engine"
	"cardsight/statement-core/internal/export"
	"cardsight/statement-core/internal/extractor"
	"cardsight/statement-core/internal/logging"
	"cardsight/statement-core/internal/store"
)

// CommonFlags represents the flags that are shared by multiple commands.
type CommonFlags struct {
	DataDir        string
	CategoriesFile string
	Output         string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Cfg is the loaded application configuration
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "statement-core",
		Short: "A CLI tool to extract, classify and reconcile credit-card statement transactions.",
		Long: `statement-core processes credit-card statement PDFs: it extracts the text,
reconstructs transaction lines, classifies them into spending categories and
reconciles the results against stored accounts.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to statement-core!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			Cfg = config.GetGlobalConfig()
			Log = logging.NewLogrusAdapterFromLogger(config.Logger)

			if SharedFlags.DataDir == "" {
				SharedFlags.DataDir = Cfg.Data.Directory
			}
			if SharedFlags.CategoriesFile == "" {
				SharedFlags.CategoriesFile = Cfg.Categories.File
			}
		},
	}

	// SharedFlags are the common flags accessible to all commands
	SharedFlags = CommonFlags{}

	// Specific process/reprocess command flags
	StatementID string
	FilePath    string
	Holder      string
	AccountName string
	LastFour    string

	// Specific summary command flags
	AccountID string

	// Specific categorize command flags
	Description string
)

// Init initializes the root command and all persistent flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.DataDir, "data-dir", "d", "", "Directory holding documents and YAML stores")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.CategoriesFile, "categories", "c", "", "Category keywords YAML file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "CSV file to export extracted transactions to")
}

// App bundles the wired collaborators the subcommands work with.
type App struct {
	Documents    *store.FileDocumentStore
	Statements   *store.FileStatementStore
	Transactions *store.FileTransactionStore
	Accounts     *store.FileAccountStore
	Classifier   *categorizer.Classifier
	Engine       *engine.Engine
	Aggregator   *aggregator.Aggregator
	Exporter     *export.Writer
}

// NewApp constructs the file-backed stores and the processing engine from the
// loaded configuration and the shared flags.
func NewApp() *App {
	dataDir := SharedFlags.DataDir
	documents := store.NewFileDocumentStore(dataDir)
	statements := store.NewFileStatementStore(dataDir)
	transactions := store.NewFileTransactionStore(dataDir)
	accounts := store.NewFileAccountStore(dataDir)

	classifier := categorizer.New(store.NewCategoryStore(SharedFlags.CategoriesFile, Log), Log)
	textExtractor := extractor.New(Cfg.Extraction.MaxPages,
		time.Duration(Cfg.Extraction.StrategyTimeout)*time.Second, Log)

	eng := engine.New(engine.Deps{
		Documents:    documents,
		Statements:   statements,
		Transactions: transactions,
		Accounts:     accounts,
		Extractor:    textExtractor,
		Classifier:   classifier,
		Logger:       Log,
	})

	return &App{
		Documents:    documents,
		Statements:   statements,
		Transactions: transactions,
		Accounts:     accounts,
		Classifier:   classifier,
		Engine:       eng,
		Aggregator:   aggregator.New(transactions, accounts, Log),
		Exporter:     export.NewWriter(Log),
	}
}

// ExportIfRequested writes the statement's transactions to the CSV path given
// by the --output flag, when one is set.
func (a *App) ExportIfRequested(statementID string) {
	if SharedFlags.Output == "" {
		return
	}
	transactions, err := a.Transactions.ListByStatement(statementID)
	if err != nil {
		Log.WithError(err).Error("Failed to load transactions for export")
		return
	}
	if err := a.Exporter.WriteTransactions(transactions, SharedFlags.Output); err != nil {
		Log.WithError(err).Error("Failed to export transactions")
		return
	}
	Log.Info("Transactions exported",
		logging.Field{Key: logging.FieldFile, Value: SharedFlags.Output},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)})
}

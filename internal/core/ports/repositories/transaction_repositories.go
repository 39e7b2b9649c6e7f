package repositories

import (
	"context"
	"time"

	"github.com/bankcore/ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TransactionSearchCriteria narrows a transaction search. Nil or zero fields
// are ignored.
type TransactionSearchCriteria struct {
	UserID        string
	AccountNumber string
	Status        domain.TransactionStatus
	Type          domain.TransactionType
	DateFrom      *time.Time
	DateTo        *time.Time
	MinAmount     *decimal.Decimal
	MaxAmount     *decimal.Decimal
	Limit         int
	Offset        int
}

// TransactionReader defines read operations for financial transactions
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.FinancialTransaction, error)

	// FindTransactionByReference retrieves a transaction by its reference number.
	FindTransactionByReference(ctx context.Context, referenceNumber string) (*domain.FinancialTransaction, error)

	// ExistsByReferenceNumber reports whether a transaction with the reference already exists.
	ExistsByReferenceNumber(ctx context.Context, referenceNumber string) (bool, error)

	// ListTransactionsByAccount retrieves a paginated list of transactions touching the account.
	ListTransactionsByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.FinancialTransaction, error)

	// SearchTransactions retrieves transactions matching the criteria, newest first.
	SearchTransactions(ctx context.Context, criteria TransactionSearchCriteria) ([]domain.FinancialTransaction, error)

	// SumCompletedAmountByType totals completed transaction amounts per type for a user.
	SumCompletedAmountByType(ctx context.Context, userID string) (map[domain.TransactionType]decimal.Decimal, error)
}

// TransactionWriter defines write operations for financial transactions
type TransactionWriter interface {
	// SaveTransaction persists a new transaction.
	SaveTransaction(ctx context.Context, txn domain.FinancialTransaction) error

	// UpdateTransaction updates the mutable fields of an existing transaction.
	UpdateTransaction(ctx context.Context, txn domain.FinancialTransaction) error

	// UpdateTransactionInTx updates a transaction within an open database transaction.
	UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.FinancialTransaction) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

// TransactionRepositoryWithTx extends TransactionRepositoryFacade with transaction capabilities
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}

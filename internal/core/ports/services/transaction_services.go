package services

import (
	"context"

	"github.com/bankcore/ledger/internal/core/domain"
	"github.com/bankcore/ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// TransactionReaderSvc defines read operations for financial transactions
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a transaction by its unique identifier.
	GetTransactionByID(ctx context.Context, transactionID string, userID string) (*domain.FinancialTransaction, error)

	// GetTransactionByReference retrieves a transaction by its reference number.
	GetTransactionByReference(ctx context.Context, referenceNumber string, userID string) (*domain.FinancialTransaction, error)

	// ListTransactionsByAccount retrieves a paginated list of transactions touching the account.
	ListTransactionsByAccount(ctx context.Context, accountID string, userID string, limit int, offset int) ([]domain.FinancialTransaction, error)

	// SearchTransactions retrieves transactions matching the request's criteria.
	SearchTransactions(ctx context.Context, req dto.SearchTransactionsRequest, userID string) ([]domain.FinancialTransaction, error)

	// GetTransactionStatistics totals completed transaction amounts per type for the user.
	GetTransactionStatistics(ctx context.Context, userID string) (map[domain.TransactionType]decimal.Decimal, error)
}

// TransactionWriterSvc defines the money-moving operations of the ledger engine
type TransactionWriterSvc interface {
	// Deposit credits an account and records a completed DEPOSIT transaction.
	Deposit(ctx context.Context, req dto.DepositRequest, userID string) (*domain.FinancialTransaction, error)

	// Withdraw debits an account and records a completed WITHDRAWAL transaction.
	Withdraw(ctx context.Context, req dto.WithdrawRequest, userID string) (*domain.FinancialTransaction, error)

	// CreateTransaction creates and processes a transaction of the requested type.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.FinancialTransaction, error)

	// Transfer moves funds between two accounts atomically.
	Transfer(ctx context.Context, req dto.TransferRequest, userID string) (*domain.FinancialTransaction, error)

	// CancelTransaction cancels a still-pending transaction.
	CancelTransaction(ctx context.Context, transactionID string, userID string) (*domain.FinancialTransaction, error)

	// ReverseTransaction reverses a completed transfer or payment with
	// compensating balance movements.
	ReverseTransaction(ctx context.Context, transactionID string, userID string) (*domain.FinancialTransaction, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}

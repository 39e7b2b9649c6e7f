package services

import (
	"context"

	"github.com/bankcore/ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AuditSvc appends entries to the financial audit trail. Write methods return
// an explicit error so callers can decide how a failed append is surfaced;
// the ledger treats audit writes as best-effort and never rolls back a
// committed mutation because of one.
type AuditSvc interface {
	// RecordAccountChange appends an entry with JSON snapshots of the account
	// before and after the change. oldState may be nil for creation.
	RecordAccountChange(ctx context.Context, action domain.AuditAction, oldState *domain.Account, newState *domain.Account, userID string, description string) error

	// RecordBalanceChange appends an entry for a deposit or withdrawal with the
	// old and new balances.
	RecordBalanceChange(ctx context.Context, action domain.AuditAction, account *domain.Account, oldBalance decimal.Decimal, newBalance decimal.Decimal, transactionID string, userID string, description string) error

	// RecordTransactionEvent appends an entry for a transaction status change.
	RecordTransactionEvent(ctx context.Context, txn *domain.FinancialTransaction, oldStatus domain.TransactionStatus, userID string, description string) error

	// ListAccountAudit retrieves audit entries for an account, newest first.
	ListAccountAudit(ctx context.Context, accountID string, limit int, offset int) ([]domain.FinancialAuditLog, error)

	// ListTransactionAudit retrieves audit entries for a transaction.
	ListTransactionAudit(ctx context.Context, transactionID string) ([]domain.FinancialAuditLog, error)
}

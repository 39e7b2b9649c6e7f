package repositories

import (
	"context"

	"github.com/bankcore/ledger/internal/core/domain"
)

// AuditReader defines read operations for the financial audit trail
type AuditReader interface {
	// ListAuditLogsByAccount retrieves audit entries for an account, newest first.
	ListAuditLogsByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.FinancialAuditLog, error)

	// ListAuditLogsByTransaction retrieves audit entries for a transaction, newest first.
	ListAuditLogsByTransaction(ctx context.Context, transactionID string) ([]domain.FinancialAuditLog, error)
}

// AuditWriter defines write operations for the financial audit trail
type AuditWriter interface {
	// SaveAuditLog appends an audit entry. Entries are never updated or deleted.
	SaveAuditLog(ctx context.Context, entry domain.FinancialAuditLog) error
}

// AuditRepositoryFacade combines all audit-related repository interfaces
type AuditRepositoryFacade interface {
	AuditReader
	AuditWriter
}

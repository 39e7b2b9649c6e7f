package pgsql

import (
	"context"
	"fmt"

	"github.com/bankcore/ledger/internal/core/domain"
	portsrepo "github.com/bankcore/ledger/internal/core/ports/repositories"
	"github.com/bankcore/ledger/internal/models"
	"github.com/bankcore/ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const auditColumns = `audit_id, account_id, account_number, transaction_id, action, old_values, new_values, amount, user_id, ip_address, user_agent, description, correlation_id, created_at`

type PgxAuditRepository struct {
	pool *pgxpool.Pool
}

// newPgxAuditRepository creates a new repository for the financial audit trail.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{pool: pool}
}

// Ensure PgxAuditRepository implements portsrepo.AuditRepositoryFacade
var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

// SaveAuditLog appends an audit entry. The table has no update or delete path.
func (r *PgxAuditRepository) SaveAuditLog(ctx context.Context, entry domain.FinancialAuditLog) error {
	m := mapping.ToModelAuditLog(entry)

	query := `
		INSERT INTO financial_audit_logs (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.pool.Exec(ctx, query,
		m.AuditID,
		m.AccountID,
		m.AccountNumber,
		m.TransactionID,
		m.Action,
		m.OldValues,
		m.NewValues,
		m.Amount,
		m.UserID,
		m.IPAddress,
		m.UserAgent,
		m.Description,
		m.CorrelationID,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save audit log %s: %w", m.AuditID, err)
	}
	return nil
}

// ListAuditLogsByAccount retrieves audit entries for an account, newest first.
func (r *PgxAuditRepository) ListAuditLogsByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.FinancialAuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + auditColumns + `
		FROM financial_audit_logs
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3;
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs for account %s: %w", accountID, err)
	}
	defer rows.Close()

	return collectAuditLogs(rows)
}

// ListAuditLogsByTransaction retrieves audit entries for a transaction.
func (r *PgxAuditRepository) ListAuditLogsByTransaction(ctx context.Context, transactionID string) ([]domain.FinancialAuditLog, error) {
	query := `
		SELECT ` + auditColumns + `
		FROM financial_audit_logs
		WHERE transaction_id = $1
		ORDER BY created_at DESC;
	`

	rows, err := r.pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	return collectAuditLogs(rows)
}

func collectAuditLogs(rows pgx.Rows) ([]domain.FinancialAuditLog, error) {
	entries := []domain.FinancialAuditLog{}
	for rows.Next() {
		var m models.FinancialAuditLog
		err := rows.Scan(
			&m.AuditID,
			&m.AccountID,
			&m.AccountNumber,
			&m.TransactionID,
			&m.Action,
			&m.OldValues,
			&m.NewValues,
			&m.Amount,
			&m.UserID,
			&m.IPAddress,
			&m.UserAgent,
			&m.Description,
			&m.CorrelationID,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log row: %w", err)
		}
		entries = append(entries, mapping.ToDomainAuditLog(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating audit log rows: %w", rows.Err())
	}
	return entries, nil
}

package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bankcore/ledger/internal/apperrors"
	"github.com/bankcore/ledger/internal/core/domain"
	portsrepo "github.com/bankcore/ledger/internal/core/ports/repositories"
	"github.com/bankcore/ledger/internal/models"
	"github.com/bankcore/ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionColumns = `transaction_id, reference_number, transaction_type, status, amount, currency_code, from_account_id, to_account_id, description, failure_reason, processed_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for financial transactions.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryWithTx
var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (models.FinancialTransaction, error) {
	var m models.FinancialTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.ReferenceNumber,
		&m.TransactionType,
		&m.Status,
		&m.Amount,
		&m.CurrencyCode,
		&m.FromAccountID,
		&m.ToAccountID,
		&m.Description,
		&m.FailureReason,
		&m.ProcessedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

const insertTransactionQuery = `
	INSERT INTO financial_transactions (` + transactionColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
`

// SaveTransaction inserts a new transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.FinancialTransaction) error {
	m := mapping.ToModelTransaction(txn)

	_, err := r.Pool.Exec(ctx, insertTransactionQuery,
		m.TransactionID,
		m.ReferenceNumber,
		m.TransactionType,
		m.Status,
		m.Amount,
		m.CurrencyCode,
		m.FromAccountID,
		m.ToAccountID,
		m.Description,
		m.FailureReason,
		m.ProcessedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation on reference_number
				return fmt.Errorf("%w: transaction with reference %s already exists", apperrors.ErrDuplicate, m.ReferenceNumber)
			}
		}
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

const updateTransactionQuery = `
	UPDATE financial_transactions
	SET status = $2, failure_reason = $3, processed_at = $4, last_updated_at = $5, last_updated_by = $6
	WHERE transaction_id = $1;
`

// UpdateTransaction updates the mutable fields of a transaction.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.FinancialTransaction) error {
	m := mapping.ToModelTransaction(txn)

	cmdTag, err := r.Pool.Exec(ctx, updateTransactionQuery,
		m.TransactionID, m.Status, m.FailureReason, m.ProcessedAt, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", m.TransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateTransactionInTx updates a transaction within an open database transaction.
func (r *PgxTransactionRepository) UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.FinancialTransaction) error {
	m := mapping.ToModelTransaction(txn)

	cmdTag, err := tx.Exec(ctx, updateTransactionQuery,
		m.TransactionID, m.Status, m.FailureReason, m.ProcessedAt, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s in tx: %w", m.TransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.FinancialTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM financial_transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}

	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// FindTransactionByReference retrieves a transaction by its reference number.
func (r *PgxTransactionRepository) FindTransactionByReference(ctx context.Context, referenceNumber string) (*domain.FinancialTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM financial_transactions WHERE reference_number = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, referenceNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by reference %s: %w", referenceNumber, err)
	}

	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// ExistsByReferenceNumber reports whether a transaction with the reference exists.
func (r *PgxTransactionRepository) ExistsByReferenceNumber(ctx context.Context, referenceNumber string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM financial_transactions WHERE reference_number = $1);`, referenceNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check reference number %s: %w", referenceNumber, err)
	}
	return exists, nil
}

// ListTransactionsByAccount retrieves a paginated list of transactions touching the account.
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.FinancialTransaction, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM financial_transactions
		WHERE from_account_id = $1 OR to_account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3;
	`

	rows, err := r.Pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for account %s: %w", accountID, err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// SearchTransactions retrieves transactions matching the criteria, newest first.
// The WHERE clause is assembled from the non-zero criteria fields.
func (r *PgxTransactionRepository) SearchTransactions(ctx context.Context, criteria portsrepo.TransactionSearchCriteria) ([]domain.FinancialTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM financial_transactions WHERE 1=1`
	args := []any{}

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if criteria.UserID != "" {
		p := arg(criteria.UserID)
		query += ` AND (from_account_id IN (SELECT account_id FROM accounts WHERE user_id = ` + p + `)
			OR to_account_id IN (SELECT account_id FROM accounts WHERE user_id = ` + p + `))`
	}
	if criteria.AccountNumber != "" {
		p := arg(criteria.AccountNumber)
		query += ` AND (from_account_id = (SELECT account_id FROM accounts WHERE account_number = ` + p + `)
			OR to_account_id = (SELECT account_id FROM accounts WHERE account_number = ` + p + `))`
	}
	if criteria.Status != "" {
		query += ` AND status = ` + arg(string(criteria.Status))
	}
	if criteria.Type != "" {
		query += ` AND transaction_type = ` + arg(string(criteria.Type))
	}
	if criteria.DateFrom != nil {
		query += ` AND created_at >= ` + arg(*criteria.DateFrom)
	}
	if criteria.DateTo != nil {
		query += ` AND created_at <= ` + arg(*criteria.DateTo)
	}
	if criteria.MinAmount != nil {
		query += ` AND amount >= ` + arg(*criteria.MinAmount)
	}
	if criteria.MaxAmount != nil {
		query += ` AND amount <= ` + arg(*criteria.MaxAmount)
	}

	limit := criteria.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := criteria.Offset
	if offset < 0 {
		offset = 0
	}
	query += ` ORDER BY created_at DESC LIMIT ` + arg(limit) + ` OFFSET ` + arg(offset) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// SumCompletedAmountByType totals completed transaction amounts per type for a user.
func (r *PgxTransactionRepository) SumCompletedAmountByType(ctx context.Context, userID string) (map[domain.TransactionType]decimal.Decimal, error) {
	query := `
		SELECT transaction_type, COALESCE(SUM(amount), 0)
		FROM financial_transactions
		WHERE status = 'COMPLETED'
		  AND (from_account_id IN (SELECT account_id FROM accounts WHERE user_id = $1)
		    OR to_account_id IN (SELECT account_id FROM accounts WHERE user_id = $1))
		GROUP BY transaction_type;
	`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions for user %s: %w", userID, err)
	}
	defer rows.Close()

	totals := make(map[domain.TransactionType]decimal.Decimal)
	for rows.Next() {
		var txnType string
		var total decimal.Decimal
		if err := rows.Scan(&txnType, &total); err != nil {
			return nil, fmt.Errorf("failed to scan transaction totals row: %w", err)
		}
		totals[domain.TransactionType(txnType)] = total
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating transaction totals: %w", rows.Err())
	}

	return totals, nil
}

func collectTransactions(rows pgx.Rows) ([]domain.FinancialTransaction, error) {
	txns := []domain.FinancialTransaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, mapping.ToDomainTransaction(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", rows.Err())
	}
	return txns, nil
}

package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// FinancialAuditLog represents one append-only audit trail row.
type FinancialAuditLog struct {
	AuditID       string          `db:"audit_id"`
	AccountID     sql.NullString  `db:"account_id"`
	AccountNumber sql.NullString  `db:"account_number"`
	TransactionID sql.NullString  `db:"transaction_id"`
	Action        string          `db:"action"`
	OldValues     sql.NullString  `db:"old_values"`
	NewValues     sql.NullString  `db:"new_values"`
	Amount        decimal.Decimal `db:"amount"`
	UserID        string          `db:"user_id"`
	IPAddress     sql.NullString  `db:"ip_address"`
	UserAgent     sql.NullString  `db:"user_agent"`
	Description   sql.NullString  `db:"description"`
	CorrelationID sql.NullString  `db:"correlation_id"`
	CreatedAt     time.Time       `db:"created_at"`
}

package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// FinancialTransaction represents a financial transaction row. From/to account
// references are nullable because deposits have no source and withdrawals no
// destination.
type FinancialTransaction struct {
	TransactionID   string          `db:"transaction_id"`
	ReferenceNumber string          `db:"reference_number"`
	TransactionType string          `db:"transaction_type"`
	Status          string          `db:"status"`
	Amount          decimal.Decimal `db:"amount"`
	CurrencyCode    string          `db:"currency_code"`
	FromAccountID   sql.NullString  `db:"from_account_id"`
	ToAccountID     sql.NullString  `db:"to_account_id"`
	Description     string          `db:"description"`
	FailureReason   string          `db:"failure_reason"`
	ProcessedAt     *time.Time      `db:"processed_at"`
	AuditFields
}

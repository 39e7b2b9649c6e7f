package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditAction tags an entry in the financial audit trail.
type AuditAction string

const (
	AuditCreateAccount     AuditAction = "CREATE_ACCOUNT"
	AuditActivateAccount   AuditAction = "ACTIVATE_ACCOUNT"
	AuditDeactivateAccount AuditAction = "DEACTIVATE_ACCOUNT"
	AuditFreezeAccount     AuditAction = "FREEZE_ACCOUNT"
	AuditUnfreezeAccount   AuditAction = "UNFREEZE_ACCOUNT"
	AuditDeposit           AuditAction = "DEPOSIT"
	AuditWithdrawal        AuditAction = "WITHDRAWAL"
	AuditTransfer          AuditAction = "TRANSFER"
	AuditTransaction       AuditAction = "TRANSACTION"
	AuditStatusChange      AuditAction = "STATUS_CHANGE"
)

// FinancialAuditLog is an append-only record of a state change in the ledger.
// OldValues and NewValues hold JSON snapshots of the affected entity.
type FinancialAuditLog struct {
	AuditID       string          `json:"auditID"` // Primary Key (UUID)
	AccountID     string          `json:"accountID,omitempty"`
	AccountNumber string          `json:"accountNumber,omitempty"`
	TransactionID string          `json:"transactionID,omitempty"`
	Action        AuditAction     `json:"action"`
	OldValues     string          `json:"oldValues,omitempty"`
	NewValues     string          `json:"newValues,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	UserID        string          `json:"userID"`
	IPAddress     string          `json:"ipAddress,omitempty"`
	UserAgent     string          `json:"userAgent,omitempty"`
	Description   string          `json:"description,omitempty"`
	CorrelationID string          `json:"correlationID,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

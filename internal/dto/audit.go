package dto

import (
	"time"

	"github.com/bankcore/ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AuditLogResponse defines the data returned for an audit trail entry.
type AuditLogResponse struct {
	AuditID       string             `json:"auditID"`
	AccountID     string             `json:"accountID,omitempty"`
	AccountNumber string             `json:"accountNumber,omitempty"`
	TransactionID string             `json:"transactionID,omitempty"`
	Action        domain.AuditAction `json:"action"`
	OldValues     string             `json:"oldValues,omitempty"`
	NewValues     string             `json:"newValues,omitempty"`
	Amount        decimal.Decimal    `json:"amount"`
	UserID        string             `json:"userID"`
	Description   string             `json:"description,omitempty"`
	CorrelationID string             `json:"correlationID,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// ToAuditLogResponse converts a domain.FinancialAuditLog to AuditLogResponse DTO
func ToAuditLogResponse(entry *domain.FinancialAuditLog) AuditLogResponse {
	return AuditLogResponse{
		AuditID:       entry.AuditID,
		AccountID:     entry.AccountID,
		AccountNumber: entry.AccountNumber,
		TransactionID: entry.TransactionID,
		Action:        entry.Action,
		OldValues:     entry.OldValues,
		NewValues:     entry.NewValues,
		Amount:        entry.Amount,
		UserID:        entry.UserID,
		Description:   entry.Description,
		CorrelationID: entry.CorrelationID,
		CreatedAt:     entry.CreatedAt,
	}
}

// ToListAuditLogResponse converts a slice of audit entries to response DTOs
func ToListAuditLogResponse(entries []domain.FinancialAuditLog) []AuditLogResponse {
	res := make([]AuditLogResponse, len(entries))
	for i, entry := range entries {
		res[i] = ToAuditLogResponse(&entry)
	}
	return res
}

// ListAuditParams defines query parameters for listing audit entries.
type ListAuditParams struct {
	Limit  int `form:"limit,default=50"`
	Offset int `form:"offset,default=0"`
}

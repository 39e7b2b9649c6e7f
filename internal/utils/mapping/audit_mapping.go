package mapping

import (
	"github.com/bankcore/ledger/internal/core/domain"
	"github.com/bankcore/ledger/internal/models"
)

// ToModelAuditLog converts a domain FinancialAuditLog to a model FinancialAuditLog
func ToModelAuditLog(d domain.FinancialAuditLog) models.FinancialAuditLog {
	return models.FinancialAuditLog{
		AuditID:       d.AuditID,
		AccountID:     nullString(d.AccountID),
		AccountNumber: nullString(d.AccountNumber),
		TransactionID: nullString(d.TransactionID),
		Action:        string(d.Action),
		OldValues:     nullString(d.OldValues),
		NewValues:     nullString(d.NewValues),
		Amount:        d.Amount,
		UserID:        d.UserID,
		IPAddress:     nullString(d.IPAddress),
		UserAgent:     nullString(d.UserAgent),
		Description:   nullString(d.Description),
		CorrelationID: nullString(d.CorrelationID),
		CreatedAt:     d.CreatedAt,
	}
}

// ToDomainAuditLog converts a model FinancialAuditLog to a domain FinancialAuditLog
func ToDomainAuditLog(m models.FinancialAuditLog) domain.FinancialAuditLog {
	return domain.FinancialAuditLog{
		AuditID:       m.AuditID,
		AccountID:     m.AccountID.String,
		AccountNumber: m.AccountNumber.String,
		TransactionID: m.TransactionID.String,
		Action:        domain.AuditAction(m.Action),
		OldValues:     m.OldValues.String,
		NewValues:     m.NewValues.String,
		Amount:        m.Amount,
		UserID:        m.UserID,
		IPAddress:     m.IPAddress.String,
		UserAgent:     m.UserAgent.String,
		Description:   m.Description.String,
		CorrelationID: m.CorrelationID.String,
		CreatedAt:     m.CreatedAt,
	}
}

// ToDomainAuditLogSlice converts a slice of model audit rows to domain entries
func ToDomainAuditLogSlice(ms []models.FinancialAuditLog) []domain.FinancialAuditLog {
	ds := make([]domain.FinancialAuditLog, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAuditLog(m)
	}
	return ds
}

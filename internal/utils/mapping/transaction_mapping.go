package mapping

import (
	"database/sql"

	"github.com/bankcore/ledger/internal/core/domain"
	"github.com/bankcore/ledger/internal/models"
)

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// ToModelTransaction converts a domain FinancialTransaction to a model FinancialTransaction
func ToModelTransaction(d domain.FinancialTransaction) models.FinancialTransaction {
	return models.FinancialTransaction{
		TransactionID:   d.TransactionID,
		ReferenceNumber: d.ReferenceNumber,
		TransactionType: string(d.TransactionType),
		Status:          string(d.Status),
		Amount:          d.Amount,
		CurrencyCode:    d.CurrencyCode,
		FromAccountID:   nullString(d.FromAccountID),
		ToAccountID:     nullString(d.ToAccountID),
		Description:     d.Description,
		FailureReason:   d.FailureReason,
		ProcessedAt:     d.ProcessedAt,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model FinancialTransaction to a domain FinancialTransaction
func ToDomainTransaction(m models.FinancialTransaction) domain.FinancialTransaction {
	return domain.FinancialTransaction{
		TransactionID:   m.TransactionID,
		ReferenceNumber: m.ReferenceNumber,
		TransactionType: domain.TransactionType(m.TransactionType),
		Status:          domain.TransactionStatus(m.Status),
		Amount:          m.Amount,
		CurrencyCode:    m.CurrencyCode,
		FromAccountID:   m.FromAccountID.String,
		ToAccountID:     m.ToAccountID.String,
		Description:     m.Description,
		FailureReason:   m.FailureReason,
		ProcessedAt:     m.ProcessedAt,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model transactions to domain transactions
func ToDomainTransactionSlice(ms []models.FinancialTransaction) []domain.FinancialTransaction {
	ds := make([]domain.FinancialTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}

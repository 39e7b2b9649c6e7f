package mapping

import (
	"github.com/bankcore/ledger/internal/core/domain"
	"github.com/bankcore/ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:     d.AccountID,
		AccountNumber: d.AccountNumber,
		UserID:        d.UserID,
		AccountType:   models.AccountType(d.AccountType),
		CurrencyCode:  d.CurrencyCode,
		Balance:       d.Balance,
		CreditLimit:   d.CreditLimit,
		IsActive:      d.IsActive,
		IsFrozen:      d.IsFrozen,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:     m.AccountID,
		AccountNumber: m.AccountNumber,
		UserID:        m.UserID,
		AccountType:   domain.AccountType(m.AccountType),
		CurrencyCode:  m.CurrencyCode,
		Balance:       m.Balance,
		CreditLimit:   m.CreditLimit,
		IsActive:      m.IsActive,
		IsFrozen:      m.IsFrozen,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}

package domain

import (
	"fmt"

	"github.com/bankcore/ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AccountType defines the product type of an account.
type AccountType string

const (
	Checking   AccountType = "CHECKING"
	Savings    AccountType = "SAVINGS"
	Credit     AccountType = "CREDIT"
	Investment AccountType = "INVESTMENT"
	Business   AccountType = "BUSINESS"
)

// IsValid reports whether the value is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Checking, Savings, Credit, Investment, Business:
		return true
	}
	return false
}

// Account represents a financial account within the core domain.
// This is the primary representation used by services.
type Account struct {
	AccountID     string          `json:"accountID"`     // Primary Key (UUID)
	AccountNumber string          `json:"accountNumber"` // Unique generated business identifier
	UserID        string          `json:"userID"`        // Owning user
	AccountType   AccountType     `json:"accountType"`
	CurrencyCode  string          `json:"currencyCode"`
	Balance       decimal.Decimal `json:"balance"`
	CreditLimit   decimal.Decimal `json:"creditLimit"` // Extends availability only when positive
	IsActive      bool            `json:"isActive"`
	IsFrozen      bool            `json:"isFrozen"`
	AuditFields
}

// AvailableBalance returns the funds a debit may draw on. A positive credit
// limit extends the balance; a zero or negative limit does not.
func (a *Account) AvailableBalance() decimal.Decimal {
	if a.CreditLimit.IsPositive() {
		return a.Balance.Add(a.CreditLimit)
	}
	return a.Balance
}

// CanDebit reports whether the account can be debited by amount.
func (a *Account) CanDebit(amount decimal.Decimal) bool {
	return amount.IsPositive() &&
		a.IsActive &&
		!a.IsFrozen &&
		a.AvailableBalance().GreaterThanOrEqual(amount)
}

// Debit subtracts amount from the balance after a CanDebit check.
func (a *Account) Debit(amount decimal.Decimal) error {
	if !a.CanDebit(amount) {
		return fmt.Errorf("%w: account %s is inactive, frozen, or lacks available funds", apperrors.ErrInsufficientFunds, a.AccountNumber)
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// Credit adds amount to the balance. Frozen accounts may still receive funds;
// inactive accounts may not.
func (a *Account) Credit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: credit amount must be positive", apperrors.ErrValidation)
	}
	if !a.IsActive {
		return fmt.Errorf("%w: cannot credit inactive account %s", apperrors.ErrValidation, a.AccountNumber)
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}

// Freeze blocks debits while leaving credits possible.
func (a *Account) Freeze() {
	a.IsFrozen = true
}

// Unfreeze lifts a freeze.
func (a *Account) Unfreeze() {
	a.IsFrozen = false
}

// Activate re-enables a deactivated account.
func (a *Account) Activate() {
	a.IsActive = true
}

// Deactivate soft-disables the account. Balances are preserved.
func (a *Account) Deactivate() {
	a.IsActive = false
}

// IsOverdrawn reports whether the balance is negative.
func (a *Account) IsOverdrawn() bool {
	return a.Balance.IsNegative()
}

// IsWithinCreditLimit reports whether a negative balance stays inside the
// positive credit limit.
func (a *Account) IsWithinCreditLimit() bool {
	if !a.Balance.IsNegative() {
		return true
	}
	if !a.CreditLimit.IsPositive() {
		return false
	}
	return a.Balance.Abs().LessThanOrEqual(a.CreditLimit)
}

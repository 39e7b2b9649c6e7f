package models

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the product type of an account.
type AccountType string

// Account represents a financial account row.
type Account struct {
	AccountID     string          `db:"account_id"`
	AccountNumber string          `db:"account_number"`
	UserID        string          `db:"user_id"`
	AccountType   AccountType     `db:"account_type"`
	CurrencyCode  string          `db:"currency_code"`
	Balance       decimal.Decimal `db:"balance"`
	CreditLimit   decimal.Decimal `db:"credit_limit"`
	IsActive      bool            `db:"is_active"`
	IsFrozen      bool            `db:"is_frozen"`
	AuditFields
}

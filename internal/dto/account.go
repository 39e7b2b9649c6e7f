package dto

import (
	"time"

	"github.com/bankcore/ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to open a new account.
type CreateAccountRequest struct {
	AccountType    domain.AccountType `json:"accountType" binding:"required,oneof=CHECKING SAVINGS CREDIT INVESTMENT BUSINESS"`
	CurrencyCode   string             `json:"currencyCode" binding:"required,currencycode"`
	InitialDeposit decimal.Decimal    `json:"initialDeposit"` // Optional, must not be negative
	CreditLimit    decimal.Decimal    `json:"creditLimit"`    // Optional, must not be negative
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID        string             `json:"accountID"`
	AccountNumber    string             `json:"accountNumber"`
	UserID           string             `json:"userID"`
	AccountType      domain.AccountType `json:"accountType"`
	CurrencyCode     string             `json:"currencyCode"`
	Balance          decimal.Decimal    `json:"balance"`
	AvailableBalance decimal.Decimal    `json:"availableBalance"`
	CreditLimit      decimal.Decimal    `json:"creditLimit"`
	IsActive         bool               `json:"isActive"`
	IsFrozen         bool               `json:"isFrozen"`
	CreatedAt        time.Time          `json:"createdAt"`
	LastUpdatedAt    time.Time          `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:        acc.AccountID,
		AccountNumber:    acc.AccountNumber,
		UserID:           acc.UserID,
		AccountType:      acc.AccountType,
		CurrencyCode:     acc.CurrencyCode,
		Balance:          acc.Balance,
		AvailableBalance: acc.AvailableBalance(),
		CreditLimit:      acc.CreditLimit,
		IsActive:         acc.IsActive,
		IsFrozen:         acc.IsFrozen,
		CreatedAt:        acc.CreatedAt,
		LastUpdatedAt:    acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

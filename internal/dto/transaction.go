package dto

import (
	"time"

	"github.com/bankcore/ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DepositRequest defines the data needed to deposit into an account.
type DepositRequest struct {
	AccountNumber string          `json:"accountNumber" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description"`
}

// WithdrawRequest defines the data needed to withdraw from an account.
type WithdrawRequest struct {
	AccountNumber string          `json:"accountNumber" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description"`
}

// TransferRequest defines the data needed to transfer funds between accounts.
// ReferenceNumber is optional; when supplied it must be unused, which lets
// callers retry safely.
type TransferRequest struct {
	FromAccountNumber string          `json:"fromAccountNumber" binding:"required"`
	ToAccountNumber   string          `json:"toAccountNumber" binding:"required"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	Description       string          `json:"description"`
	ReferenceNumber   string          `json:"referenceNumber"`
}

// CreateTransactionRequest defines the data for the generic transaction entry point.
type CreateTransactionRequest struct {
	TransactionType   domain.TransactionType `json:"transactionType" binding:"required,oneof=DEPOSIT WITHDRAWAL TRANSFER PAYMENT REFUND FEE INTEREST"`
	FromAccountNumber string                 `json:"fromAccountNumber"`
	ToAccountNumber   string                 `json:"toAccountNumber"`
	Amount            decimal.Decimal        `json:"amount" binding:"required"`
	Description       string                 `json:"description"`
	ReferenceNumber   string                 `json:"referenceNumber"`
}

// SearchTransactionsRequest defines query parameters for the transaction search.
type SearchTransactionsRequest struct {
	AccountNumber string           `form:"accountNumber"`
	Status        string           `form:"status"`
	Type          string           `form:"type"`
	DateFrom      *time.Time       `form:"dateFrom" time_format:"2006-01-02T15:04:05Z07:00"`
	DateTo        *time.Time       `form:"dateTo" time_format:"2006-01-02T15:04:05Z07:00"`
	MinAmount     *decimal.Decimal `form:"minAmount"`
	MaxAmount     *decimal.Decimal `form:"maxAmount"`
	Limit         int              `form:"limit,default=20"`
	Offset        int              `form:"offset,default=0"`
}

// TransactionResponse defines the data returned for a financial transaction.
type TransactionResponse struct {
	TransactionID   string                   `json:"transactionID"`
	ReferenceNumber string                   `json:"referenceNumber"`
	TransactionType domain.TransactionType   `json:"transactionType"`
	Status          domain.TransactionStatus `json:"status"`
	Amount          decimal.Decimal          `json:"amount"`
	CurrencyCode    string                   `json:"currencyCode"`
	FromAccountID   string                   `json:"fromAccountID,omitempty"`
	ToAccountID     string                   `json:"toAccountID,omitempty"`
	Description     string                   `json:"description,omitempty"`
	FailureReason   string                   `json:"failureReason,omitempty"`
	ProcessedAt     *time.Time               `json:"processedAt,omitempty"`
	CreatedAt       time.Time                `json:"createdAt"`
}

// ToTransactionResponse converts a domain.FinancialTransaction to TransactionResponse DTO
func ToTransactionResponse(txn *domain.FinancialTransaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		ReferenceNumber: txn.ReferenceNumber,
		TransactionType: txn.TransactionType,
		Status:          txn.Status,
		Amount:          txn.Amount,
		CurrencyCode:    txn.CurrencyCode,
		FromAccountID:   txn.FromAccountID,
		ToAccountID:     txn.ToAccountID,
		Description:     txn.Description,
		FailureReason:   txn.FailureReason,
		ProcessedAt:     txn.ProcessedAt,
		CreatedAt:       txn.CreatedAt,
	}
}

// ToListTransactionResponse converts a slice of transactions to response DTOs
func ToListTransactionResponse(txns []domain.FinancialTransaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		res[i] = ToTransactionResponse(&txn)
	}
	return res
}

// TransactionStatisticsResponse maps transaction types to completed totals.
type TransactionStatisticsResponse struct {
	Totals map[domain.TransactionType]decimal.Decimal `json:"totals"`
}

package domain

import (
	"fmt"
	"time"

	"github.com/bankcore/ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// TransactionType classifies the business intent of a financial transaction.
type TransactionType string

const (
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
	Transfer   TransactionType = "TRANSFER"
	Payment    TransactionType = "PAYMENT"
	Refund     TransactionType = "REFUND"
	Fee        TransactionType = "FEE"
	Interest   TransactionType = "INTEREST"
)

// IsValid reports whether the value is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case Deposit, Withdrawal, Transfer, Payment, Refund, Fee, Interest:
		return true
	}
	return false
}

// TransactionStatus is the lifecycle state of a financial transaction.
type TransactionStatus string

const (
	StatusPending    TransactionStatus = "PENDING"
	StatusProcessing TransactionStatus = "PROCESSING"
	StatusCompleted  TransactionStatus = "COMPLETED"
	StatusFailed     TransactionStatus = "FAILED"
	StatusCancelled  TransactionStatus = "CANCELLED"
	StatusReversed   TransactionStatus = "REVERSED"
)

// IsTerminal reports whether no further transition is allowed from the status,
// with the single exception of COMPLETED -> REVERSED.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled, StatusReversed:
		return true
	}
	return false
}

// FinancialTransaction records one movement of money. Deposits carry only a
// destination account, withdrawals only a source, transfers and payments both.
type FinancialTransaction struct {
	TransactionID   string            `json:"transactionID"`   // Primary Key (UUID)
	ReferenceNumber string            `json:"referenceNumber"` // Unique business identifier
	TransactionType TransactionType   `json:"transactionType"`
	Status          TransactionStatus `json:"status"`
	Amount          decimal.Decimal   `json:"amount"` // Always positive
	CurrencyCode    string            `json:"currencyCode"`
	FromAccountID   string            `json:"fromAccountID,omitempty"`
	ToAccountID     string            `json:"toAccountID,omitempty"`
	Description     string            `json:"description,omitempty"`
	FailureReason   string            `json:"failureReason,omitempty"`
	ProcessedAt     *time.Time        `json:"processedAt,omitempty"`
	AuditFields
}

// CanBeReversed reports whether the transaction may transition to REVERSED.
// Only completed transfers and payments qualify.
func (t *FinancialTransaction) CanBeReversed() bool {
	return t.Status == StatusCompleted &&
		(t.TransactionType == Transfer || t.TransactionType == Payment)
}

// MarkProcessing moves PENDING to PROCESSING.
func (t *FinancialTransaction) MarkProcessing() error {
	if t.Status != StatusPending {
		return fmt.Errorf("%w: cannot process transaction %s in status %s", apperrors.ErrInvalidState, t.ReferenceNumber, t.Status)
	}
	t.Status = StatusProcessing
	return nil
}

// MarkCompleted moves PENDING or PROCESSING to COMPLETED and stamps the
// processing time.
func (t *FinancialTransaction) MarkCompleted() error {
	if t.Status != StatusPending && t.Status != StatusProcessing {
		return fmt.Errorf("%w: cannot complete transaction %s in status %s", apperrors.ErrInvalidState, t.ReferenceNumber, t.Status)
	}
	t.Status = StatusCompleted
	now := time.Now()
	t.ProcessedAt = &now
	return nil
}

// MarkFailed moves a non-terminal transaction to FAILED and records why.
func (t *FinancialTransaction) MarkFailed(reason string) error {
	if t.Status.IsTerminal() {
		return fmt.Errorf("%w: cannot fail transaction %s in status %s", apperrors.ErrInvalidState, t.ReferenceNumber, t.Status)
	}
	t.Status = StatusFailed
	t.FailureReason = reason
	now := time.Now()
	t.ProcessedAt = &now
	return nil
}

// Cancel moves PENDING to CANCELLED. Any other status is rejected.
func (t *FinancialTransaction) Cancel() error {
	if t.Status != StatusPending {
		return fmt.Errorf("%w: only pending transactions can be cancelled, %s is %s", apperrors.ErrInvalidState, t.ReferenceNumber, t.Status)
	}
	t.Status = StatusCancelled
	now := time.Now()
	t.ProcessedAt = &now
	return nil
}

// Reverse moves COMPLETED to REVERSED for transfers and payments. The caller
// is responsible for the compensating balance movements.
func (t *FinancialTransaction) Reverse() error {
	if !t.CanBeReversed() {
		return fmt.Errorf("%w: transaction %s (%s, %s) cannot be reversed", apperrors.ErrInvalidState, t.ReferenceNumber, t.TransactionType, t.Status)
	}
	t.Status = StatusReversed
	return nil
}

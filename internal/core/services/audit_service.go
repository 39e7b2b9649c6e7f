package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bankcore/ledger/internal/core/domain"
	portsrepo "github.com/bankcore/ledger/internal/core/ports/repositories"
	portssvc "github.com/bankcore/ledger/internal/core/ports/services"
	"github.com/bankcore/ledger/internal/middleware"
	"github.com/bankcore/ledger/internal/platform/metrics"
	"github.com/shopspring/decimal"
)

// auditService appends entries to the financial audit trail.
type auditService struct {
	auditRepo portsrepo.AuditRepositoryFacade
}

// NewAuditService creates a new AuditSvc backed by the given repository.
func NewAuditService(auditRepo portsrepo.AuditRepositoryFacade) portssvc.AuditSvc {
	return &auditService{auditRepo: auditRepo}
}

// Ensure auditService implements the portssvc.AuditSvc interface
var _ portssvc.AuditSvc = (*auditService)(nil)

// accountSnapshot is the JSON shape stored in old_values/new_values for
// account changes.
type accountSnapshot struct {
	AccountNumber string `json:"accountNumber"`
	AccountType   string `json:"accountType"`
	Balance       string `json:"balance"`
	CreditLimit   string `json:"creditLimit"`
	IsActive      bool   `json:"isActive"`
	IsFrozen      bool   `json:"isFrozen"`
}

func snapshotAccount(acc *domain.Account) accountSnapshot {
	return accountSnapshot{
		AccountNumber: acc.AccountNumber,
		AccountType:   string(acc.AccountType),
		Balance:       acc.Balance.String(),
		CreditLimit:   acc.CreditLimit.String(),
		IsActive:      acc.IsActive,
		IsFrozen:      acc.IsFrozen,
	}
}

func marshalSnapshot(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to serialize audit snapshot: %w", err)
	}
	return string(b), nil
}

func (s *auditService) newEntry(ctx context.Context, action domain.AuditAction, userID string) domain.FinancialAuditLog {
	meta := middleware.GetRequestMetaFromCtx(ctx)
	return domain.FinancialAuditLog{
		AuditID:       uuid.NewString(),
		Action:        action,
		UserID:        userID,
		IPAddress:     meta.ClientIP,
		UserAgent:     meta.UserAgent,
		CorrelationID: meta.RequestID,
		CreatedAt:     time.Now().UTC(),
	}
}

// RecordAccountChange appends an entry with JSON snapshots of the account
// before and after the change.
func (s *auditService) RecordAccountChange(ctx context.Context, action domain.AuditAction, oldState *domain.Account, newState *domain.Account, userID string, description string) error {
	entry := s.newEntry(ctx, action, userID)
	entry.AccountID = newState.AccountID
	entry.AccountNumber = newState.AccountNumber
	entry.Description = description

	if oldState != nil {
		oldJSON, err := marshalSnapshot(snapshotAccount(oldState))
		if err != nil {
			return err
		}
		entry.OldValues = oldJSON
	}

	newJSON, err := marshalSnapshot(snapshotAccount(newState))
	if err != nil {
		return err
	}
	entry.NewValues = newJSON

	if err := s.auditRepo.SaveAuditLog(ctx, entry); err != nil {
		return fmt.Errorf("failed to record account change for %s: %w", newState.AccountNumber, err)
	}
	return nil
}

// balanceState is the JSON shape stored for deposits and withdrawals.
type balanceState struct {
	AccountNumber string `json:"accountNumber"`
	Balance       string `json:"balance"`
}

// RecordBalanceChange appends an entry for a deposit or withdrawal.
func (s *auditService) RecordBalanceChange(ctx context.Context, action domain.AuditAction, account *domain.Account, oldBalance decimal.Decimal, newBalance decimal.Decimal, transactionID string, userID string, description string) error {
	entry := s.newEntry(ctx, action, userID)
	entry.AccountID = account.AccountID
	entry.AccountNumber = account.AccountNumber
	entry.TransactionID = transactionID
	entry.Amount = newBalance.Sub(oldBalance).Abs()
	entry.Description = description

	oldJSON, err := marshalSnapshot(balanceState{AccountNumber: account.AccountNumber, Balance: oldBalance.String()})
	if err != nil {
		return err
	}
	newJSON, err := marshalSnapshot(balanceState{AccountNumber: account.AccountNumber, Balance: newBalance.String()})
	if err != nil {
		return err
	}
	entry.OldValues = oldJSON
	entry.NewValues = newJSON

	if err := s.auditRepo.SaveAuditLog(ctx, entry); err != nil {
		return fmt.Errorf("failed to record balance change for %s: %w", account.AccountNumber, err)
	}
	return nil
}

// statusChangeData is the JSON shape stored for transaction status changes.
type statusChangeData struct {
	ReferenceNumber string `json:"referenceNumber"`
	TransactionType string `json:"transactionType"`
	Status          string `json:"status"`
	Amount          string `json:"amount"`
	FailureReason   string `json:"failureReason,omitempty"`
}

// RecordTransactionEvent appends an entry for a transaction status change.
func (s *auditService) RecordTransactionEvent(ctx context.Context, txn *domain.FinancialTransaction, oldStatus domain.TransactionStatus, userID string, description string) error {
	entry := s.newEntry(ctx, domain.AuditStatusChange, userID)
	entry.TransactionID = txn.TransactionID
	entry.Amount = txn.Amount
	entry.Description = description

	oldJSON, err := marshalSnapshot(statusChangeData{
		ReferenceNumber: txn.ReferenceNumber,
		TransactionType: string(txn.TransactionType),
		Status:          string(oldStatus),
		Amount:          txn.Amount.String(),
	})
	if err != nil {
		return err
	}
	newJSON, err := marshalSnapshot(statusChangeData{
		ReferenceNumber: txn.ReferenceNumber,
		TransactionType: string(txn.TransactionType),
		Status:          string(txn.Status),
		Amount:          txn.Amount.String(),
		FailureReason:   txn.FailureReason,
	})
	if err != nil {
		return err
	}
	entry.OldValues = oldJSON
	entry.NewValues = newJSON

	if err := s.auditRepo.SaveAuditLog(ctx, entry); err != nil {
		return fmt.Errorf("failed to record transaction event for %s: %w", txn.ReferenceNumber, err)
	}
	return nil
}

// logAuditFailure surfaces a failed audit append to the log and metrics.
// Audit writes are best-effort; committed ledger mutations are never undone
// because the trail could not be written.
func logAuditFailure(ctx context.Context, err error) {
	if err == nil {
		return
	}
	middleware.GetLoggerFromCtx(ctx).Error("audit write failed", slog.String("error", err.Error()))
	metrics.AuditWriteFailures.Inc()
}

// ListAccountAudit retrieves audit entries for an account, newest first.
func (s *auditService) ListAccountAudit(ctx context.Context, accountID string, limit int, offset int) ([]domain.FinancialAuditLog, error) {
	return s.auditRepo.ListAuditLogsByAccount(ctx, accountID, limit, offset)
}

// ListTransactionAudit retrieves audit entries for a transaction.
func (s *auditService) ListTransactionAudit(ctx context.Context, transactionID string) ([]domain.FinancialAuditLog, error) {
	return s.auditRepo.ListAuditLogsByTransaction(ctx, transactionID)
}

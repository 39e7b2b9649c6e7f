package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bankcore/ledger/internal/apperrors"
	"github.com/bankcore/ledger/internal/core/domain"
	portsrepo "github.com/bankcore/ledger/internal/core/ports/repositories"
	portssvc "github.com/bankcore/ledger/internal/core/ports/services"
	"github.com/bankcore/ledger/internal/dto"
	"github.com/bankcore/ledger/internal/middleware"
	"github.com/bankcore/ledger/internal/platform/metrics"
	"github.com/bankcore/ledger/internal/utils/numbering"
	"github.com/shopspring/decimal"
)

var (
	ErrSameAccountTransfer = errors.New("source and destination accounts must differ")
	ErrCurrencyMismatch    = errors.New("accounts do not share a currency")
	ErrReferenceExhausted  = errors.New("could not generate a unique reference number")
	ErrMissingAccount      = errors.New("transaction type requires an account number")
)

// transactionService is the ledger engine: it creates transaction records and
// moves balances under per-account row locks.
type transactionService struct {
	txnRepo        portsrepo.TransactionRepositoryWithTx
	accountRepo    portsrepo.AccountRepositoryWithTx
	auditSvc       portssvc.AuditSvc
	depositCeiling decimal.Decimal
}

// NewTransactionService creates a new TransactionSvcFacade.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryWithTx, accountRepo portsrepo.AccountRepositoryWithTx, auditSvc portssvc.AuditSvc, depositCeiling decimal.Decimal) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:        txnRepo,
		accountRepo:    accountRepo,
		auditSvc:       auditSvc,
		depositCeiling: depositCeiling,
	}
}

// Ensure transactionService implements the portssvc.TransactionSvcFacade interface
var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// balanceOp computes per-account-number balance deltas against row-locked
// account state. Returning an error aborts the transaction.
type balanceOp func(locked map[string]domain.Account) (map[string]decimal.Decimal, error)

// process runs the atomic part of a transaction: it locks the involved
// accounts in ascending number order, applies the balance deltas, and flips
// the transaction to COMPLETED, all inside one database transaction. On any
// failure everything rolls back and the transaction record is marked FAILED
// in a separate follow-up write.
func (s *transactionService) process(ctx context.Context, txn *domain.FinancialTransaction, lockNumbers []string, op balanceOp, userID string) error {
	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		return s.failTransaction(ctx, txn, err, userID)
	}
	defer s.accountRepo.Rollback(ctx, tx)

	locked, err := s.accountRepo.FindAccountsByNumbersForUpdate(ctx, tx, lockNumbers)
	if err != nil {
		return s.failTransaction(ctx, txn, err, userID)
	}

	deltas, err := op(locked)
	if err != nil {
		return s.failTransaction(ctx, txn, err, userID)
	}

	if err := txn.MarkProcessing(); err != nil {
		return s.failTransaction(ctx, txn, err, userID)
	}

	now := time.Now().UTC()
	if err := s.accountRepo.UpdateAccountBalancesInTx(ctx, tx, deltas, userID, now); err != nil {
		return s.failTransaction(ctx, txn, err, userID)
	}

	if err := txn.MarkCompleted(); err != nil {
		return s.failTransaction(ctx, txn, err, userID)
	}
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = userID

	if err := s.txnRepo.UpdateTransactionInTx(ctx, tx, *txn); err != nil {
		return s.failTransaction(ctx, txn, err, userID)
	}

	if err := s.accountRepo.Commit(ctx, tx); err != nil {
		return s.failTransaction(ctx, txn, err, userID)
	}

	metrics.TransactionsProcessed.WithLabelValues(string(txn.TransactionType), string(domain.StatusCompleted)).Inc()
	return nil
}

// failTransaction marks the record FAILED after the database transaction has
// rolled back. The FAILED status is persisted in its own write so the record
// survives even though the balance movements did not.
func (s *transactionService) failTransaction(ctx context.Context, txn *domain.FinancialTransaction, cause error, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	oldStatus := txn.Status
	if err := txn.MarkFailed(cause.Error()); err != nil {
		logger.Error("Could not mark transaction failed", slog.String("error", err.Error()), slog.String("reference", txn.ReferenceNumber))
		return cause
	}
	txn.LastUpdatedAt = time.Now().UTC()
	txn.LastUpdatedBy = userID

	if err := s.txnRepo.UpdateTransaction(ctx, *txn); err != nil {
		logger.Error("Failed to persist FAILED status", slog.String("error", err.Error()), slog.String("reference", txn.ReferenceNumber))
	}

	metrics.TransactionsProcessed.WithLabelValues(string(txn.TransactionType), string(domain.StatusFailed)).Inc()
	logAuditFailure(ctx, s.auditSvc.RecordTransactionEvent(ctx, txn, oldStatus, userID, "transaction failed"))

	logger.Warn("Transaction failed", slog.String("reference", txn.ReferenceNumber), slog.String("reason", cause.Error()))
	return cause
}

// resolveReference validates a caller-supplied reference number or generates a
// fresh unique one.
func (s *transactionService) resolveReference(ctx context.Context, supplied string, txnType domain.TransactionType) (string, error) {
	if supplied != "" {
		exists, err := s.txnRepo.ExistsByReferenceNumber(ctx, supplied)
		if err != nil {
			return "", fmt.Errorf("failed to check reference uniqueness: %w", err)
		}
		if exists {
			return "", fmt.Errorf("%w: reference number %s already used", apperrors.ErrConflict, supplied)
		}
		return supplied, nil
	}

	prefix := numbering.TransactionPrefix(txnType)
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		ref := numbering.Generate(prefix)
		exists, err := s.txnRepo.ExistsByReferenceNumber(ctx, ref)
		if err != nil {
			return "", fmt.Errorf("failed to check reference uniqueness: %w", err)
		}
		if !exists {
			return ref, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrReferenceExhausted, maxNumberAttempts)
}

func newPendingTransaction(txnType domain.TransactionType, reference string, amount decimal.Decimal, currencyCode string, fromAccountID string, toAccountID string, description string, userID string) domain.FinancialTransaction {
	now := time.Now().UTC()
	return domain.FinancialTransaction{
		TransactionID:   uuid.NewString(),
		ReferenceNumber: reference,
		TransactionType: txnType,
		Status:          domain.StatusPending,
		Amount:          amount,
		CurrencyCode:    currencyCode,
		FromAccountID:   fromAccountID,
		ToAccountID:     toAccountID,
		Description:     description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
}

// saveNewTransaction persists the PENDING record, mapping duplicate reference
// races to a conflict.
func (s *transactionService) saveNewTransaction(ctx context.Context, txn domain.FinancialTransaction) error {
	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return fmt.Errorf("%w: %v", apperrors.ErrConflict, err)
		}
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// Deposit credits an account and records a completed DEPOSIT transaction.
func (s *transactionService) Deposit(ctx context.Context, req dto.DepositRequest, userID string) (*domain.FinancialTransaction, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: deposit amount must be positive", apperrors.ErrValidation)
	}
	if req.Amount.GreaterThan(s.depositCeiling) {
		return nil, fmt.Errorf("%w: deposit amount exceeds the limit of %s", apperrors.ErrValidation, s.depositCeiling)
	}
	return s.creditAccount(ctx, domain.Deposit, req.AccountNumber, req.Amount, req.Description, "", userID)
}

// Withdraw debits an account and records a completed WITHDRAWAL transaction.
func (s *transactionService) Withdraw(ctx context.Context, req dto.WithdrawRequest, userID string) (*domain.FinancialTransaction, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: withdrawal amount must be positive", apperrors.ErrValidation)
	}
	return s.debitAccount(ctx, domain.Withdrawal, req.AccountNumber, req.Amount, req.Description, "", userID)
}

// creditAccount is the single-account credit engine behind DEPOSIT, REFUND and
// INTEREST transactions.
func (s *transactionService) creditAccount(ctx context.Context, txnType domain.TransactionType, accountNumber string, amount decimal.Decimal, description string, suppliedRef string, userID string) (*domain.FinancialTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.ownedAccountByNumber(ctx, accountNumber, userID)
	if err != nil {
		return nil, err
	}
	if err := canReceiveFunds(account); err != nil {
		return nil, err
	}

	reference, err := s.resolveReference(ctx, suppliedRef, txnType)
	if err != nil {
		return nil, err
	}

	txn := newPendingTransaction(txnType, reference, amount, account.CurrencyCode, "", account.AccountID, description, userID)
	if err := s.saveNewTransaction(ctx, txn); err != nil {
		return nil, err
	}

	var oldBalance, newBalance decimal.Decimal
	err = s.process(ctx, &txn, []string{account.AccountNumber}, func(locked map[string]domain.Account) (map[string]decimal.Decimal, error) {
		acc := locked[account.AccountNumber]
		// Re-check against the row-locked state; the flags may have changed
		// since the pre-flight read.
		if err := canReceiveFunds(&acc); err != nil {
			return nil, err
		}
		oldBalance = acc.Balance
		if err := acc.Credit(amount); err != nil {
			return nil, err
		}
		newBalance = acc.Balance
		return map[string]decimal.Decimal{account.AccountNumber: amount}, nil
	}, userID)
	if err != nil {
		return nil, err
	}

	if txnType == domain.Deposit {
		logAuditFailure(ctx, s.auditSvc.RecordBalanceChange(ctx, domain.AuditDeposit, account, oldBalance, newBalance, txn.TransactionID, userID, description))
	} else {
		logAuditFailure(ctx, s.auditSvc.RecordTransactionEvent(ctx, &txn, domain.StatusPending, userID, description))
	}

	logger.Info("Transaction completed", slog.String("reference", txn.ReferenceNumber), slog.String("type", string(txnType)))
	return &txn, nil
}

// debitAccount is the single-account debit engine behind WITHDRAWAL and FEE
// transactions.
func (s *transactionService) debitAccount(ctx context.Context, txnType domain.TransactionType, accountNumber string, amount decimal.Decimal, description string, suppliedRef string, userID string) (*domain.FinancialTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.ownedAccountByNumber(ctx, accountNumber, userID)
	if err != nil {
		return nil, err
	}

	reference, err := s.resolveReference(ctx, suppliedRef, txnType)
	if err != nil {
		return nil, err
	}

	txn := newPendingTransaction(txnType, reference, amount, account.CurrencyCode, account.AccountID, "", description, userID)
	if err := s.saveNewTransaction(ctx, txn); err != nil {
		return nil, err
	}

	var oldBalance, newBalance decimal.Decimal
	err = s.process(ctx, &txn, []string{account.AccountNumber}, func(locked map[string]domain.Account) (map[string]decimal.Decimal, error) {
		acc := locked[account.AccountNumber]
		oldBalance = acc.Balance
		if err := acc.Debit(amount); err != nil {
			return nil, err
		}
		newBalance = acc.Balance
		return map[string]decimal.Decimal{account.AccountNumber: amount.Neg()}, nil
	}, userID)
	if err != nil {
		return nil, err
	}

	if txnType == domain.Withdrawal {
		logAuditFailure(ctx, s.auditSvc.RecordBalanceChange(ctx, domain.AuditWithdrawal, account, oldBalance, newBalance, txn.TransactionID, userID, description))
	} else {
		logAuditFailure(ctx, s.auditSvc.RecordTransactionEvent(ctx, &txn, domain.StatusPending, userID, description))
	}

	logger.Info("Transaction completed", slog.String("reference", txn.ReferenceNumber), slog.String("type", string(txnType)))
	return &txn, nil
}

// Transfer moves funds between two accounts atomically.
func (s *transactionService) Transfer(ctx context.Context, req dto.TransferRequest, userID string) (*domain.FinancialTransaction, error) {
	return s.transferBetween(ctx, domain.Transfer, req.FromAccountNumber, req.ToAccountNumber, req.Amount, req.Description, req.ReferenceNumber, userID)
}

// transferBetween is the two-account engine behind TRANSFER and PAYMENT
// transactions. The caller must own the source account; the destination may
// belong to anyone.
func (s *transactionService) transferBetween(ctx context.Context, txnType domain.TransactionType, fromNumber string, toNumber string, amount decimal.Decimal, description string, suppliedRef string, userID string) (*domain.FinancialTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrValidation)
	}
	if fromNumber == toNumber {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrSameAccountTransfer)
	}

	from, err := s.ownedAccountByNumber(ctx, fromNumber, userID)
	if err != nil {
		return nil, err
	}
	to, err := s.accountRepo.FindAccountByNumber(ctx, toNumber)
	if err != nil {
		return nil, err
	}
	if err := canReceiveFunds(to); err != nil {
		return nil, err
	}
	if from.CurrencyCode != to.CurrencyCode {
		return nil, fmt.Errorf("%w: %v (%s vs %s)", apperrors.ErrValidation, ErrCurrencyMismatch, from.CurrencyCode, to.CurrencyCode)
	}

	reference, err := s.resolveReference(ctx, suppliedRef, txnType)
	if err != nil {
		return nil, err
	}

	txn := newPendingTransaction(txnType, reference, amount, from.CurrencyCode, from.AccountID, to.AccountID, description, userID)
	if err := s.saveNewTransaction(ctx, txn); err != nil {
		return nil, err
	}

	var fromOld, fromNew, toOld, toNew decimal.Decimal
	err = s.process(ctx, &txn, []string{from.AccountNumber, to.AccountNumber}, func(locked map[string]domain.Account) (map[string]decimal.Decimal, error) {
		src := locked[from.AccountNumber]
		dst := locked[to.AccountNumber]
		if err := canReceiveFunds(&dst); err != nil {
			return nil, err
		}
		fromOld, toOld = src.Balance, dst.Balance
		if err := src.Debit(amount); err != nil {
			return nil, err
		}
		if err := dst.Credit(amount); err != nil {
			return nil, err
		}
		fromNew, toNew = src.Balance, dst.Balance
		return map[string]decimal.Decimal{
			from.AccountNumber: amount.Neg(),
			to.AccountNumber:   amount,
		}, nil
	}, userID)
	if err != nil {
		return nil, err
	}

	logAuditFailure(ctx, s.auditSvc.RecordBalanceChange(ctx, domain.AuditTransfer, from, fromOld, fromNew, txn.TransactionID, userID, description))
	logAuditFailure(ctx, s.auditSvc.RecordBalanceChange(ctx, domain.AuditTransfer, to, toOld, toNew, txn.TransactionID, userID, description))

	logger.Info("Transfer completed", slog.String("reference", txn.ReferenceNumber), slog.String("type", string(txnType)))
	return &txn, nil
}

// CreateTransaction dispatches to the engine appropriate for the requested type.
func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.FinancialTransaction, error) {
	if !req.TransactionType.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %s", apperrors.ErrValidation, req.TransactionType)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: transaction amount must be positive", apperrors.ErrValidation)
	}

	switch req.TransactionType {
	case domain.Transfer, domain.Payment:
		if req.FromAccountNumber == "" || req.ToAccountNumber == "" {
			return nil, fmt.Errorf("%w: %v (source and destination)", apperrors.ErrValidation, ErrMissingAccount)
		}
		return s.transferBetween(ctx, req.TransactionType, req.FromAccountNumber, req.ToAccountNumber, req.Amount, req.Description, req.ReferenceNumber, userID)
	case domain.Deposit:
		if req.ToAccountNumber == "" {
			return nil, fmt.Errorf("%w: %v (destination)", apperrors.ErrValidation, ErrMissingAccount)
		}
		if req.Amount.GreaterThan(s.depositCeiling) {
			return nil, fmt.Errorf("%w: deposit amount exceeds the limit of %s", apperrors.ErrValidation, s.depositCeiling)
		}
		return s.creditAccount(ctx, req.TransactionType, req.ToAccountNumber, req.Amount, req.Description, req.ReferenceNumber, userID)
	case domain.Refund, domain.Interest:
		if req.ToAccountNumber == "" {
			return nil, fmt.Errorf("%w: %v (destination)", apperrors.ErrValidation, ErrMissingAccount)
		}
		return s.creditAccount(ctx, req.TransactionType, req.ToAccountNumber, req.Amount, req.Description, req.ReferenceNumber, userID)
	case domain.Withdrawal, domain.Fee:
		if req.FromAccountNumber == "" {
			return nil, fmt.Errorf("%w: %v (source)", apperrors.ErrValidation, ErrMissingAccount)
		}
		return s.debitAccount(ctx, req.TransactionType, req.FromAccountNumber, req.Amount, req.Description, req.ReferenceNumber, userID)
	default:
		return nil, fmt.Errorf("%w: unsupported transaction type %s", apperrors.ErrValidation, req.TransactionType)
	}
}

// CancelTransaction cancels a still-pending transaction.
func (s *transactionService) CancelTransaction(ctx context.Context, transactionID string, userID string) (*domain.FinancialTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.requireTransactionOwner(ctx, txn, userID); err != nil {
		return nil, err
	}

	oldStatus := txn.Status
	if err := txn.Cancel(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = userID

	if err := s.txnRepo.UpdateTransaction(ctx, *txn); err != nil {
		return nil, fmt.Errorf("failed to persist cancellation of %s: %w", txn.ReferenceNumber, err)
	}

	logAuditFailure(ctx, s.auditSvc.RecordTransactionEvent(ctx, txn, oldStatus, userID, "transaction cancelled"))

	logger.Info("Transaction cancelled", slog.String("reference", txn.ReferenceNumber))
	return txn, nil
}

// ReverseTransaction reverses a completed transfer or payment. The
// compensating balance movements and the status flip commit atomically.
func (s *transactionService) ReverseTransaction(ctx context.Context, transactionID string, userID string) (*domain.FinancialTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.requireTransactionOwner(ctx, txn, userID); err != nil {
		return nil, err
	}
	if !txn.CanBeReversed() {
		return nil, fmt.Errorf("%w: transaction %s (%s, %s) cannot be reversed", apperrors.ErrInvalidState, txn.ReferenceNumber, txn.TransactionType, txn.Status)
	}

	from, err := s.accountRepo.FindAccountByID(ctx, txn.FromAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load source account for reversal: %w", err)
	}
	to, err := s.accountRepo.FindAccountByID(ctx, txn.ToAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load destination account for reversal: %w", err)
	}

	oldStatus := txn.Status

	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.accountRepo.Rollback(ctx, tx)

	locked, err := s.accountRepo.FindAccountsByNumbersForUpdate(ctx, tx, []string{from.AccountNumber, to.AccountNumber})
	if err != nil {
		return nil, err
	}

	// The compensation debits the original destination, so it must be able to
	// cover the amount.
	src := locked[to.AccountNumber]
	dst := locked[from.AccountNumber]
	if err := src.Debit(txn.Amount); err != nil {
		return nil, fmt.Errorf("cannot reverse %s: %w", txn.ReferenceNumber, err)
	}
	if err := dst.Credit(txn.Amount); err != nil {
		return nil, fmt.Errorf("cannot reverse %s: %w", txn.ReferenceNumber, err)
	}

	now := time.Now().UTC()
	deltas := map[string]decimal.Decimal{
		to.AccountNumber:   txn.Amount.Neg(),
		from.AccountNumber: txn.Amount,
	}
	if err := s.accountRepo.UpdateAccountBalancesInTx(ctx, tx, deltas, userID, now); err != nil {
		return nil, fmt.Errorf("failed to apply reversal balances: %w", err)
	}

	if err := txn.Reverse(); err != nil {
		return nil, err
	}
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = userID

	if err := s.txnRepo.UpdateTransactionInTx(ctx, tx, *txn); err != nil {
		return nil, fmt.Errorf("failed to persist reversal of %s: %w", txn.ReferenceNumber, err)
	}

	if err := s.accountRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	metrics.TransactionsProcessed.WithLabelValues(string(txn.TransactionType), string(domain.StatusReversed)).Inc()
	logAuditFailure(ctx, s.auditSvc.RecordTransactionEvent(ctx, txn, oldStatus, userID, "transaction reversed"))

	logger.Info("Transaction reversed", slog.String("reference", txn.ReferenceNumber))
	return txn, nil
}

// GetTransactionByID retrieves a transaction, enforcing that the caller owns
// one of the involved accounts.
func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string, userID string) (*domain.FinancialTransaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.requireTransactionOwner(ctx, txn, userID); err != nil {
		return nil, err
	}
	return txn, nil
}

// GetTransactionByReference retrieves a transaction by its reference number.
func (s *transactionService) GetTransactionByReference(ctx context.Context, referenceNumber string, userID string) (*domain.FinancialTransaction, error) {
	txn, err := s.txnRepo.FindTransactionByReference(ctx, referenceNumber)
	if err != nil {
		return nil, err
	}
	if err := s.requireTransactionOwner(ctx, txn, userID); err != nil {
		return nil, err
	}
	return txn, nil
}

// ListTransactionsByAccount retrieves transactions touching an account the
// caller owns.
func (s *transactionService) ListTransactionsByAccount(ctx context.Context, accountID string, userID string, limit int, offset int) ([]domain.FinancialTransaction, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, fmt.Errorf("%w: account %s does not belong to the requesting user", apperrors.ErrForbidden, accountID)
	}
	return s.txnRepo.ListTransactionsByAccount(ctx, accountID, limit, offset)
}

// SearchTransactions retrieves the caller's transactions matching the request.
func (s *transactionService) SearchTransactions(ctx context.Context, req dto.SearchTransactionsRequest, userID string) ([]domain.FinancialTransaction, error) {
	criteria := portsrepo.TransactionSearchCriteria{
		UserID:        userID,
		AccountNumber: req.AccountNumber,
		DateFrom:      req.DateFrom,
		DateTo:        req.DateTo,
		MinAmount:     req.MinAmount,
		MaxAmount:     req.MaxAmount,
		Limit:         req.Limit,
		Offset:        req.Offset,
	}
	if req.Status != "" {
		criteria.Status = domain.TransactionStatus(req.Status)
	}
	if req.Type != "" {
		t := domain.TransactionType(req.Type)
		if !t.IsValid() {
			return nil, fmt.Errorf("%w: unknown transaction type %s", apperrors.ErrValidation, req.Type)
		}
		criteria.Type = t
	}
	return s.txnRepo.SearchTransactions(ctx, criteria)
}

// GetTransactionStatistics totals completed transaction amounts per type.
func (s *transactionService) GetTransactionStatistics(ctx context.Context, userID string) (map[domain.TransactionType]decimal.Decimal, error) {
	return s.txnRepo.SumCompletedAmountByType(ctx, userID)
}

// canReceiveFunds rejects credits into inactive or frozen accounts. The
// domain Credit call only guards against inactive accounts, because reversal
// compensation must still land on a frozen account; ordinary deposits and
// transfer destinations are held to the stricter rule here.
func canReceiveFunds(account *domain.Account) error {
	if !account.IsActive {
		return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, account.AccountNumber)
	}
	if account.IsFrozen {
		return fmt.Errorf("%w: account %s is frozen", apperrors.ErrValidation, account.AccountNumber)
	}
	return nil
}

// ownedAccountByNumber loads an account and enforces ownership.
func (s *transactionService) ownedAccountByNumber(ctx context.Context, accountNumber string, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, fmt.Errorf("%w: account %s does not belong to the requesting user", apperrors.ErrForbidden, accountNumber)
	}
	return account, nil
}

// requireTransactionOwner checks that the caller owns at least one account
// involved in the transaction.
func (s *transactionService) requireTransactionOwner(ctx context.Context, txn *domain.FinancialTransaction, userID string) error {
	for _, accountID := range []string{txn.FromAccountID, txn.ToAccountID} {
		if accountID == "" {
			continue
		}
		account, err := s.accountRepo.FindAccountByID(ctx, accountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return err
		}
		if account.UserID == userID {
			return nil
		}
	}
	return fmt.Errorf("%w: transaction %s does not involve the requesting user", apperrors.ErrForbidden, txn.ReferenceNumber)
}

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
)

// maxNumberAttempts bounds the retry loop when a freshly generated account
// number collides with an existing one.
const maxNumberAttempts = 5

var (
	ErrAccountTypeTaken       = errors.New("user already has an account of this type")
	ErrAccountNumberExhausted = errors.New("could not generate a unique account number")
)

// accountService provides account lifecycle operations.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryWithTx
	auditSvc    portssvc.AuditSvc
}

// NewAccountService creates a new AccountSvcFacade.
func NewAccountService(accountRepo portsrepo.AccountRepositoryWithTx, auditSvc portssvc.AuditSvc) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		auditSvc:    auditSvc,
	}
}

// Ensure accountService implements the portssvc.AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount opens a new account after validating the one-account-per-type
// rule and generating a unique account number.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %s", apperrors.ErrValidation, req.AccountType)
	}
	if req.InitialDeposit.IsNegative() {
		return nil, fmt.Errorf("%w: initial deposit cannot be negative", apperrors.ErrValidation)
	}
	if req.CreditLimit.IsNegative() {
		return nil, fmt.Errorf("%w: credit limit cannot be negative", apperrors.ErrValidation)
	}

	// One account per type per user.
	existing, err := s.accountRepo.FindAccountByUserIDAndType(ctx, userID, req.AccountType)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing accounts: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %v (%s)", apperrors.ErrConflict, ErrAccountTypeTaken, req.AccountType)
	}

	accountNumber, err := s.generateAccountNumber(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		AccountNumber: accountNumber,
		UserID:        userID,
		AccountType:   req.AccountType,
		CurrencyCode:  req.CurrencyCode,
		Balance:       req.InitialDeposit,
		CreditLimit:   req.CreditLimit,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// A concurrent request won the number or the type slot.
			return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, err)
		}
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("account_number", accountNumber))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logAuditFailure(ctx, s.auditSvc.RecordAccountChange(ctx, domain.AuditCreateAccount, nil, &account, userID,
		fmt.Sprintf("opened %s account %s", account.AccountType, account.AccountNumber)))
	metrics.AccountsCreated.WithLabelValues(string(account.AccountType)).Inc()

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("account_number", account.AccountNumber))
	return &account, nil
}

// generateAccountNumber produces an unused account number, retrying on collision.
func (s *accountService) generateAccountNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		number := numbering.GenerateAccountNumber()
		exists, err := s.accountRepo.ExistsByAccountNumber(ctx, number)
		if err != nil {
			return "", fmt.Errorf("failed to check account number uniqueness: %w", err)
		}
		if !exists {
			return number, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrAccountNumberExhausted, maxNumberAttempts)
}

// GetAccountByID retrieves an account, enforcing ownership.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, fmt.Errorf("%w: account %s does not belong to the requesting user", apperrors.ErrForbidden, accountID)
	}
	return account, nil
}

// GetAccountByNumber retrieves an account by its number, enforcing ownership.
func (s *accountService) GetAccountByNumber(ctx context.Context, accountNumber string, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, fmt.Errorf("%w: account %s does not belong to the requesting user", apperrors.ErrForbidden, accountNumber)
	}
	return account, nil
}

// ListAccounts retrieves a paginated list of the user's active accounts.
func (s *accountService) ListAccounts(ctx context.Context, userID string, limit int, offset int) ([]domain.Account, error) {
	return s.accountRepo.ListAccountsByUserID(ctx, userID, limit, offset)
}

// IsAccountOwner reports whether the user owns the account with the given
// account number.
func (s *accountService) IsAccountOwner(ctx context.Context, accountNumber string, userID string) (bool, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return false, err
	}
	return account.UserID == userID, nil
}

// ActivateAccount re-enables a deactivated account.
func (s *accountService) ActivateAccount(ctx context.Context, accountID string, userID string) (*domain.Account, error) {
	return s.changeFlags(ctx, accountID, userID, domain.AuditActivateAccount, func(a *domain.Account) { a.Activate() })
}

// DeactivateAccount soft-disables an account. The balance and history remain.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, userID string) (*domain.Account, error) {
	return s.changeFlags(ctx, accountID, userID, domain.AuditDeactivateAccount, func(a *domain.Account) { a.Deactivate() })
}

// FreezeAccount blocks debits on an account. Credits still land.
func (s *accountService) FreezeAccount(ctx context.Context, accountID string, userID string) (*domain.Account, error) {
	return s.changeFlags(ctx, accountID, userID, domain.AuditFreezeAccount, func(a *domain.Account) { a.Freeze() })
}

// UnfreezeAccount lifts a freeze.
func (s *accountService) UnfreezeAccount(ctx context.Context, accountID string, userID string) (*domain.Account, error) {
	return s.changeFlags(ctx, accountID, userID, domain.AuditUnfreezeAccount, func(a *domain.Account) { a.Unfreeze() })
}

// changeFlags applies a flag mutation with ownership check and audit.
func (s *accountService) changeFlags(ctx context.Context, accountID string, userID string, action domain.AuditAction, mutate func(*domain.Account)) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.GetAccountByID(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}

	oldState := *account
	mutate(account)

	now := time.Now().UTC()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccountFlags(ctx, *account); err != nil {
		logger.Error("Failed to update account flags", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account %s: %w", accountID, err)
	}

	logAuditFailure(ctx, s.auditSvc.RecordAccountChange(ctx, action, &oldState, account, userID,
		fmt.Sprintf("%s on account %s", action, account.AccountNumber)))

	logger.Info("Account flags updated", slog.String("account_id", accountID), slog.String("action", string(action)))
	return account, nil
}

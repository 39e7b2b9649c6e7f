package services

import (
	"context"

	"github.com/bankcore/ledger/internal/core/domain"
	"github.com/bankcore/ledger/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string, userID string) (*domain.Account, error)

	// GetAccountByNumber retrieves an account by its business account number.
	GetAccountByNumber(ctx context.Context, accountNumber string, userID string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of the user's active accounts.
	ListAccounts(ctx context.Context, userID string, limit int, offset int) ([]domain.Account, error)

	// IsAccountOwner reports whether the user owns the account with the
	// given account number.
	IsAccountOwner(ctx context.Context, accountNumber string, userID string) (bool, error)
}

// AccountWriterSvc defines lifecycle operations for account data
type AccountWriterSvc interface {
	// CreateAccount opens a new account with a generated account number.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// ActivateAccount re-enables a deactivated account.
	ActivateAccount(ctx context.Context, accountID string, userID string) (*domain.Account, error)

	// DeactivateAccount soft-disables an account, preserving its balance and history.
	DeactivateAccount(ctx context.Context, accountID string, userID string) (*domain.Account, error)

	// FreezeAccount blocks debits on an account.
	FreezeAccount(ctx context.Context, accountID string, userID string) (*domain.Account, error)

	// UnfreezeAccount lifts a freeze.
	UnfreezeAccount(ctx context.Context, accountID string, userID string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}

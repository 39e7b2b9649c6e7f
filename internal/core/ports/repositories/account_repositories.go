package repositories

import (
	"context"
	"time"

	"github.com/bankcore/ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByNumber retrieves an account by its business account number.
	FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// FindAccountByUserIDAndType retrieves the user's account of the given type, if any.
	FindAccountByUserIDAndType(ctx context.Context, userID string, accountType domain.AccountType) (*domain.Account, error)

	// ExistsByAccountNumber reports whether an account with the number already exists.
	ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error)

	// ListAccountsByUserID retrieves a paginated list of the user's active accounts.
	ListAccountsByUserID(ctx context.Context, userID string, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountFlags updates the active/frozen flags of an account.
	UpdateAccountFlags(ctx context.Context, account domain.Account) error
}

// AccountTransactionSupport defines operations that support balance-moving transactions
type AccountTransactionSupport interface {
	// FindAccountsByNumbersForUpdate selects accounts and row-locks them within a
	// transaction. Callers must pass account numbers in ascending order so that
	// concurrent transactions acquire locks in the same global order.
	FindAccountsByNumbersForUpdate(ctx context.Context, tx pgx.Tx, accountNumbers []string) (map[string]domain.Account, error)

	// UpdateAccountBalancesInTx applies balance deltas keyed by account number within a given transaction.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}

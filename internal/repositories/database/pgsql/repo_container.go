package pgsql

import (
	portsrepo "github.com/bankcore/ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		AuditRepo:       newPgxAuditRepository(dbPool),
		UserRepo:        newPgxUserRepository(dbPool),
	}
}

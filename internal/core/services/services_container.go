package services

import (
	portsrepo "github.com/bankcore/ledger/internal/core/ports/repositories"
	portssvc "github.com/bankcore/ledger/internal/core/ports/services"
	"github.com/bankcore/ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Audit first since the account and transaction services append to it
	container.Audit = NewAuditService(repos.AuditRepo)

	container.Account = NewAccountService(repos.AccountRepo, container.Audit)
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.AccountRepo, container.Audit, cfg.DepositCeiling)
	container.User = NewUserService(repos.UserRepo)
	container.TokenService = NewTokenService(cfg)

	return container
}

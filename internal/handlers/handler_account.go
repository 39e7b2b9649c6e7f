package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bankcore/ledger/internal/core/domain"
	portssvc "github.com/bankcore/ledger/internal/core/ports/services"
	"github.com/bankcore/ledger/internal/dto"
	"github.com/bankcore/ledger/internal/middleware"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	auditService   portssvc.AuditSvc
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, audit portssvc.AuditSvc) *accountHandler {
	return &accountHandler{
		accountService: as,
		auditService:   audit,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, auditService portssvc.AuditSvc) {
	h := newAccountHandler(accountService, auditService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.GET("/number/:accountNumber", h.getAccountByNumber)
		accounts.POST("/:id/activate", h.activateAccount)
		accounts.POST("/:id/deactivate", h.deactivateAccount)
		accounts.POST("/:id/freeze", h.freezeAccount)
		accounts.POST("/:id/unfreeze", h.unfreezeAccount)
		accounts.GET("/:id/audit", h.listAccountAudit)
	}
}

// createAccount opens a new account for the logged-in user.
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount retrieves one of the user's accounts by ID.
func (h *accountHandler) getAccount(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getAccountByNumber retrieves one of the user's accounts by account number.
func (h *accountHandler) getAccountByNumber(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	account, err := h.accountService.GetAccountByNumber(c.Request.Context(), c.Param("accountNumber"), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts retrieves the user's active accounts.
func (h *accountHandler) listAccounts(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), userID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

func (h *accountHandler) activateAccount(c *gin.Context) {
	h.changeFlags(c, h.accountService.ActivateAccount)
}

func (h *accountHandler) deactivateAccount(c *gin.Context) {
	h.changeFlags(c, h.accountService.DeactivateAccount)
}

func (h *accountHandler) freezeAccount(c *gin.Context) {
	h.changeFlags(c, h.accountService.FreezeAccount)
}

func (h *accountHandler) unfreezeAccount(c *gin.Context) {
	h.changeFlags(c, h.accountService.UnfreezeAccount)
}

// changeFlags is the shared body of the four flag-change endpoints.
func (h *accountHandler) changeFlags(c *gin.Context, op func(ctx context.Context, accountID string, userID string) (*domain.Account, error)) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	account, err := op(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to update account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccountAudit retrieves the audit trail for one of the user's accounts.
func (h *accountHandler) listAccountAudit(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	accountID := c.Param("id")

	// Ownership gate before exposing the trail.
	if _, err := h.accountService.GetAccountByID(c.Request.Context(), accountID, userID); err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}

	var params dto.ListAuditParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	entries, err := h.auditService.ListAccountAudit(c.Request.Context(), accountID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list audit entries")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAuditLogResponse(entries))
}

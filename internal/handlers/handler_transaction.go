package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/bankcore/ledger/internal/core/ports/services"
	"github.com/bankcore/ledger/internal/dto"
	"github.com/bankcore/ledger/internal/middleware"
)

// transactionHandler handles HTTP requests related to financial transactions.
type transactionHandler struct {
	txnService   portssvc.TransactionSvcFacade
	auditService portssvc.AuditSvc
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ts portssvc.TransactionSvcFacade, audit portssvc.AuditSvc) *transactionHandler {
	return &transactionHandler{
		txnService:   ts,
		auditService: audit,
	}
}

// registerTransactionRoutes registers routes related to transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, txnService portssvc.TransactionSvcFacade, auditService portssvc.AuditSvc) {
	h := newTransactionHandler(txnService, auditService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.POST("/deposit", h.deposit)
		transactions.POST("/withdraw", h.withdraw)
		transactions.POST("/transfer", h.transfer)
		transactions.GET("/search", h.searchTransactions)
		transactions.GET("/statistics", h.getStatistics)
		transactions.GET("/reference/:referenceNumber", h.getTransactionByReference)
		transactions.GET("/:id", h.getTransaction)
		transactions.POST("/:id/cancel", h.cancelTransaction)
		transactions.POST("/:id/reverse", h.reverseTransaction)
		transactions.GET("/:id/audit", h.listTransactionAudit)
	}

	rg.GET("/accounts/:id/transactions", h.listAccountTransactions)
}

// deposit credits an account of the logged-in user.
func (h *transactionHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	txn, err := h.txnService.Deposit(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to process deposit")
		return
	}

	logger.Info("Deposit completed", slog.String("reference", txn.ReferenceNumber))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// withdraw debits an account of the logged-in user.
func (h *transactionHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	txn, err := h.txnService.Withdraw(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to process withdrawal")
		return
	}

	logger.Info("Withdrawal completed", slog.String("reference", txn.ReferenceNumber))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// transfer moves funds between two accounts.
func (h *transactionHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	txn, err := h.txnService.Transfer(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to process transfer")
		return
	}

	logger.Info("Transfer completed", slog.String("reference", txn.ReferenceNumber))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// createTransaction is the generic entry point taking an explicit type.
func (h *transactionHandler) createTransaction(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	txn, err := h.txnService.CreateTransaction(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to process transaction")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// getTransaction retrieves a transaction the user is involved in.
func (h *transactionHandler) getTransaction(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	txn, err := h.txnService.GetTransactionByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// getTransactionByReference retrieves a transaction by its reference number.
func (h *transactionHandler) getTransactionByReference(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	txn, err := h.txnService.GetTransactionByReference(c.Request.Context(), c.Param("referenceNumber"), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listAccountTransactions retrieves transactions touching one of the user's accounts.
func (h *transactionHandler) listAccountTransactions(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	txns, err := h.txnService.ListTransactionsByAccount(c.Request.Context(), c.Param("id"), userID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}

// searchTransactions retrieves the user's transactions matching the filters.
func (h *transactionHandler) searchTransactions(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.SearchTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	txns, err := h.txnService.SearchTransactions(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to search transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}

// getStatistics totals completed transaction amounts per type for the user.
func (h *transactionHandler) getStatistics(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	totals, err := h.txnService.GetTransactionStatistics(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to compute statistics")
		return
	}

	c.JSON(http.StatusOK, dto.TransactionStatisticsResponse{Totals: totals})
}

// cancelTransaction cancels a still-pending transaction.
func (h *transactionHandler) cancelTransaction(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	txn, err := h.txnService.CancelTransaction(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to cancel transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// reverseTransaction reverses a completed transfer or payment.
func (h *transactionHandler) reverseTransaction(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	txn, err := h.txnService.ReverseTransaction(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to reverse transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactionAudit retrieves the audit trail for a transaction.
func (h *transactionHandler) listTransactionAudit(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	transactionID := c.Param("id")

	// Ownership gate before exposing the trail.
	if _, err := h.txnService.GetTransactionByID(c.Request.Context(), transactionID, userID); err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return
	}

	entries, err := h.auditService.ListTransactionAudit(c.Request.Context(), transactionID)
	if err != nil {
		respondError(c, err, "Failed to list audit entries")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAuditLogResponse(entries))
}

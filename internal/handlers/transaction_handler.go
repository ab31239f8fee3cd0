package handlers

import (
	"github.com/gin-gonic/gin"

	"ggmarket/internal/services"
	"ggmarket/internal/utils"
	"ggmarket/pkg/logger"
)

type TransactionHandler struct {
	transactionService services.TransactionService
	logger             *logger.Logger
}

func NewTransactionHandler(transactionService services.TransactionService, logger *logger.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// Purchase handles POST /transactions
func (h *TransactionHandler) Purchase(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request services.PurchaseRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	transaction, err := h.transactionService.Purchase(c.Request.Context(), buyerID, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Purchase placed in escrow", transaction)
}

// Complete handles POST /transactions/:id/complete
func (h *TransactionHandler) Complete(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	transactionID, ok := pathObjectID(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid transaction ID")
		return
	}

	transaction, err := h.transactionService.Complete(c.Request.Context(), transactionID, buyerID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Transaction completed", transaction)
}

// Dispute handles POST /transactions/:id/dispute
func (h *TransactionHandler) Dispute(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	transactionID, ok := pathObjectID(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid transaction ID")
		return
	}

	var request struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Dispute reason is required")
		return
	}

	transaction, err := h.transactionService.Dispute(c.Request.Context(), transactionID, userID, request.Reason)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Transaction disputed", transaction)
}

// Refund handles POST /admin/transactions/:id/refund
func (h *TransactionHandler) Refund(c *gin.Context) {
	transactionID, ok := pathObjectID(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid transaction ID")
		return
	}

	transaction, err := h.transactionService.Refund(c.Request.Context(), transactionID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Transaction refunded", transaction)
}

// GetTransaction handles GET /transactions/:id
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	transactionID, ok := pathObjectID(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid transaction ID")
		return
	}

	transaction, err := h.transactionService.GetTransaction(c.Request.Context(), transactionID, userID, isStaff(c))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Transaction retrieved", transaction)
}

// ListMyTransactions handles GET /transactions
func (h *TransactionHandler) ListMyTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)

	transactions, total, err := h.transactionService.ListUserTransactions(c.Request.Context(), userID, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Transactions retrieved", transactions, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Total:      total,
		Count:      len(transactions),
	})
}

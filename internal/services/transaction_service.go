package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ggmarket/internal/models"
	"ggmarket/internal/repositories/interfaces"
	"ggmarket/internal/utils"
	"ggmarket/pkg/logger"
	"ggmarket/pkg/notify"
	"ggmarket/pkg/payment"
)

type TransactionService interface {
	// Purchase charges the buyer and places the funds in escrow. The seller
	// is credited only when the buyer confirms delivery via Complete.
	Purchase(ctx context.Context, buyerID primitive.ObjectID, request *PurchaseRequest) (*models.Transaction, error)
	Complete(ctx context.Context, transactionID, buyerID primitive.ObjectID) (*models.Transaction, error)
	Dispute(ctx context.Context, transactionID, userID primitive.ObjectID, reason string) (*models.Transaction, error)
	Refund(ctx context.Context, transactionID primitive.ObjectID) (*models.Transaction, error)
	GetTransaction(ctx context.Context, transactionID, requesterID primitive.ObjectID, requesterIsAdmin bool) (*models.Transaction, error)
	ListUserTransactions(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Transaction, int64, error)
}

type PurchaseRequest struct {
	ProductID       primitive.ObjectID `json:"product_id" validate:"required"`
	PaymentMethodID string             `json:"payment_method_id" validate:"required"`
}

type transactionService struct {
	transactionRepo interfaces.TransactionRepository
	productRepo     interfaces.ProductRepository
	userRepo        interfaces.UserRepository
	payments        payment.PaymentProvider
	publisher       notify.Publisher
	logger          *logger.Logger
}

func NewTransactionService(
	transactionRepo interfaces.TransactionRepository,
	productRepo interfaces.ProductRepository,
	userRepo interfaces.UserRepository,
	payments payment.PaymentProvider,
	publisher notify.Publisher,
	logger *logger.Logger,
) TransactionService {
	return &transactionService{
		transactionRepo: transactionRepo,
		productRepo:     productRepo,
		userRepo:        userRepo,
		payments:        payments,
		publisher:       publisher,
		logger:          logger,
	}
}

func (s *transactionService) Purchase(ctx context.Context, buyerID primitive.ObjectID, request *PurchaseRequest) (*models.Transaction, error) {
	if request.PaymentMethodID == "" {
		return nil, utils.NewValidationError("MISSING_PAYMENT_METHOD", "payment method is required")
	}

	product, err := s.productRepo.GetByID(ctx, request.ProductID)
	if err != nil {
		return nil, err
	}

	if product.Status != models.ProductStatusActive {
		return nil, utils.NewValidationError("PRODUCT_NOT_AVAILABLE", "product is not available for purchase")
	}

	if product.SellerID == buyerID {
		return nil, utils.NewValidationError("SELF_PURCHASE", "sellers cannot buy their own listings")
	}

	charge, err := s.payments.ProcessPayment(ctx, &payment.PaymentRequest{
		Amount:          product.Price,
		Currency:        utils.DefaultCurrency,
		PaymentMethodID: request.PaymentMethodID,
		Description:     "ggmarket purchase: " + product.Title,
		Metadata: map[string]interface{}{
			"product_id": product.ID.Hex(),
			"buyer_id":   buyerID.Hex(),
		},
	})
	if err != nil {
		return nil, utils.NewValidationError("PAYMENT_FAILED", "payment could not be processed")
	}

	transaction := &models.Transaction{
		BuyerID:    buyerID,
		SellerID:   product.SellerID,
		ProductID:  product.ID,
		Amount:     product.Price,
		Currency:   utils.DefaultCurrency,
		Status:     models.TransactionStatusEscrow,
		PaymentRef: charge.TransactionID,
	}

	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		// Funds are captured but the trade record is missing. This needs a
		// manual refund, so log loudly with the payment reference.
		s.logger.WithError(err).WithField("payment_ref", charge.TransactionID).Error("Payment captured but transaction insert failed")
		return nil, utils.NewPartialFailureError(
			"TRANSACTION_RECORD_FAILED",
			"payment "+charge.TransactionID+" was captured but the transaction could not be recorded",
			err,
		)
	}

	s.notifyEvent(ctx, notify.EventTransactionCreated, product.SellerID, transaction)

	return transaction, nil
}

func (s *transactionService) Complete(ctx context.Context, transactionID, buyerID primitive.ObjectID) (*models.Transaction, error) {
	transaction, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if transaction.BuyerID != buyerID {
		return nil, utils.NewForbiddenError("TRANSACTION_ACCESS_DENIED", "only the buyer can confirm delivery")
	}

	if transaction.Status != models.TransactionStatusEscrow {
		return nil, utils.NewConflictError("INVALID_TRANSITION", "only escrowed transactions can be completed")
	}

	product, err := s.productRepo.GetByID(ctx, transaction.ProductID)
	if err != nil {
		return nil, err
	}

	commission := product.CommissionRate
	if commission <= 0 {
		commission = utils.DefaultCommissionRate
	}
	payout := transaction.Amount * (1 - commission)

	now := time.Now()
	updates := map[string]interface{}{
		"status":       models.TransactionStatusCompleted,
		"completed_at": now,
	}
	if err := s.transactionRepo.Update(ctx, transactionID, updates); err != nil {
		return nil, err
	}

	if err := s.userRepo.CreditBalance(ctx, transaction.SellerID, payout); err != nil {
		s.logger.WithError(err).WithField("transaction_id", transactionID.Hex()).Error("Seller payout failed after completion")
		return nil, utils.NewPartialFailureError(
			"PAYOUT_FAILED",
			"transaction completed but the seller payout could not be credited",
			err,
		)
	}

	transaction.Status = models.TransactionStatusCompleted
	transaction.CompletedAt = &now

	s.notifyEvent(ctx, notify.EventTransactionCompleted, transaction.SellerID, transaction)

	return transaction, nil
}

func (s *transactionService) Dispute(ctx context.Context, transactionID, userID primitive.ObjectID, reason string) (*models.Transaction, error) {
	if reason == "" {
		return nil, utils.NewValidationError("MISSING_REASON", "dispute reason is required")
	}

	transaction, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if !transaction.Participant(userID) {
		return nil, utils.NewForbiddenError("TRANSACTION_ACCESS_DENIED", "only participants may dispute a transaction")
	}

	if transaction.Status != models.TransactionStatusEscrow {
		return nil, utils.NewConflictError("INVALID_TRANSITION", "only escrowed transactions can be disputed")
	}

	updates := map[string]interface{}{
		"status":         models.TransactionStatusDisputed,
		"dispute_reason": reason,
	}
	if err := s.transactionRepo.Update(ctx, transactionID, updates); err != nil {
		return nil, err
	}

	transaction.Status = models.TransactionStatusDisputed
	transaction.DisputeReason = reason

	s.notifyEvent(ctx, notify.EventTransactionDisputed, transaction.SellerID, transaction)

	return transaction, nil
}

func (s *transactionService) Refund(ctx context.Context, transactionID primitive.ObjectID) (*models.Transaction, error) {
	transaction, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if transaction.Status != models.TransactionStatusEscrow && transaction.Status != models.TransactionStatusDisputed {
		return nil, utils.NewConflictError("INVALID_TRANSITION", "only escrowed or disputed transactions can be refunded")
	}

	if _, err := s.payments.RefundPayment(ctx, &payment.RefundRequest{
		TransactionID: transaction.PaymentRef,
		Amount:        transaction.Amount,
		Reason:        "requested_by_customer",
	}); err != nil {
		return nil, utils.NewInternalError(err)
	}

	updates := map[string]interface{}{
		"status":            models.TransactionStatusRefunded,
		"resolved_by_admin": true,
	}
	if err := s.transactionRepo.Update(ctx, transactionID, updates); err != nil {
		s.logger.WithError(err).WithField("transaction_id", transactionID.Hex()).Error("Refund issued but status update failed")
		return nil, utils.NewPartialFailureError(
			"REFUND_RECORD_FAILED",
			"refund was issued but the transaction status could not be updated",
			err,
		)
	}

	transaction.Status = models.TransactionStatusRefunded
	transaction.ResolvedByAdmin = true

	s.notifyEvent(ctx, notify.EventTransactionRefunded, transaction.BuyerID, transaction)

	return transaction, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, transactionID, requesterID primitive.ObjectID, requesterIsAdmin bool) (*models.Transaction, error) {
	transaction, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if !requesterIsAdmin && !transaction.Participant(requesterID) {
		return nil, utils.NewForbiddenError("TRANSACTION_ACCESS_DENIED", "transaction belongs to other users")
	}

	s.attachParties(ctx, []*models.Transaction{transaction})

	return transaction, nil
}

func (s *transactionService) ListUserTransactions(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Transaction, int64, error) {
	transactions, total, err := s.transactionRepo.GetByUser(ctx, userID, params)
	if err != nil {
		return nil, 0, err
	}

	s.attachParties(ctx, transactions)

	return transactions, total, nil
}

func (s *transactionService) attachParties(ctx context.Context, transactions []*models.Transaction) {
	if len(transactions) == 0 {
		return
	}

	seen := make(map[primitive.ObjectID]bool)
	var ids []primitive.ObjectID
	for _, transaction := range transactions {
		for _, id := range []primitive.ObjectID{transaction.BuyerID, transaction.SellerID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load transaction party identities")
		return
	}

	for _, transaction := range transactions {
		if user, ok := users[transaction.BuyerID]; ok {
			transaction.Buyer = user.Identity()
		}
		if user, ok := users[transaction.SellerID]; ok {
			transaction.Seller = user.Identity()
		}
	}
}

func (s *transactionService) notifyEvent(ctx context.Context, eventType string, userID primitive.ObjectID, transaction *models.Transaction) {
	if s.publisher == nil {
		return
	}

	event := &notify.Event{
		Type:   eventType,
		UserID: userID.Hex(),
		Data: map[string]interface{}{
			"transaction_id": transaction.ID.Hex(),
			"status":         string(transaction.Status),
			"amount":         transaction.Amount,
		},
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithField("event_type", eventType).Warn("Event publish failed")
	}
}

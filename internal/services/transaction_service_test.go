package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ggmarket/internal/models"
	"ggmarket/internal/utils"
	"ggmarket/pkg/payment"
)

type mockPaymentProvider struct {
	mock.Mock
}

func (m *mockPaymentProvider) ProcessPayment(ctx context.Context, request *payment.PaymentRequest) (*payment.PaymentResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentResponse), args.Error(1)
}

func (m *mockPaymentProvider) RefundPayment(ctx context.Context, request *payment.RefundRequest) (*payment.RefundResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.RefundResponse), args.Error(1)
}

func newTransactionTestService(
	transactionRepo *mockTransactionRepository,
	productRepo *mockProductRepository,
	userRepo *mockUserRepository,
	payments *mockPaymentProvider,
) TransactionService {
	return NewTransactionService(transactionRepo, productRepo, userRepo, payments, nil, newTestLogger())
}

func activeProduct(sellerID primitive.ObjectID, price float64) *models.Product {
	return &models.Product{
		ID:             primitive.NewObjectID(),
		SellerID:       sellerID,
		Title:          "AK-47 Redline",
		Price:          price,
		Status:         models.ProductStatusActive,
		CommissionRate: 0.05,
	}
}

func TestPurchasePlacesFundsInEscrow(t *testing.T) {
	transactionRepo := new(mockTransactionRepository)
	productRepo := new(mockProductRepository)
	payments := new(mockPaymentProvider)

	buyerID := primitive.NewObjectID()
	product := activeProduct(primitive.NewObjectID(), 40)

	productRepo.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	payments.On("ProcessPayment", mock.Anything, mock.AnythingOfType("*payment.PaymentRequest")).
		Return(&payment.PaymentResponse{TransactionID: "pi_123", Status: "succeeded", Amount: 40}, nil)
	transactionRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Transaction")).Return(nil)

	service := newTransactionTestService(transactionRepo, productRepo, new(mockUserRepository), payments)

	transaction, err := service.Purchase(context.Background(), buyerID, &PurchaseRequest{
		ProductID:       product.ID,
		PaymentMethodID: "pm_card",
	})

	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusEscrow, transaction.Status)
	assert.Equal(t, "pi_123", transaction.PaymentRef)
	assert.Equal(t, product.SellerID, transaction.SellerID)
}

func TestPurchaseRejectsOwnListing(t *testing.T) {
	productRepo := new(mockProductRepository)
	payments := new(mockPaymentProvider)

	sellerID := primitive.NewObjectID()
	product := activeProduct(sellerID, 10)

	productRepo.On("GetByID", mock.Anything, product.ID).Return(product, nil)

	service := newTransactionTestService(new(mockTransactionRepository), productRepo, new(mockUserRepository), payments)

	_, err := service.Purchase(context.Background(), sellerID, &PurchaseRequest{
		ProductID:       product.ID,
		PaymentMethodID: "pm_card",
	})

	require.Error(t, err)
	assert.Equal(t, "SELF_PURCHASE", utils.CodeOf(err))
	payments.AssertNotCalled(t, "ProcessPayment", mock.Anything, mock.Anything)
}

func TestPurchaseRejectsInactiveProduct(t *testing.T) {
	productRepo := new(mockProductRepository)

	product := activeProduct(primitive.NewObjectID(), 10)
	product.Status = models.ProductStatusPendingApproval

	productRepo.On("GetByID", mock.Anything, product.ID).Return(product, nil)

	service := newTransactionTestService(new(mockTransactionRepository), productRepo, new(mockUserRepository), new(mockPaymentProvider))

	_, err := service.Purchase(context.Background(), primitive.NewObjectID(), &PurchaseRequest{
		ProductID:       product.ID,
		PaymentMethodID: "pm_card",
	})

	require.Error(t, err)
	assert.Equal(t, "PRODUCT_NOT_AVAILABLE", utils.CodeOf(err))
}

func TestCompleteCreditsSellerMinusCommission(t *testing.T) {
	transactionRepo := new(mockTransactionRepository)
	productRepo := new(mockProductRepository)
	userRepo := new(mockUserRepository)

	buyerID := primitive.NewObjectID()
	sellerID := primitive.NewObjectID()
	product := activeProduct(sellerID, 100)

	transaction := &models.Transaction{
		ID:        primitive.NewObjectID(),
		BuyerID:   buyerID,
		SellerID:  sellerID,
		ProductID: product.ID,
		Amount:    100,
		Status:    models.TransactionStatusEscrow,
	}

	transactionRepo.On("GetByID", mock.Anything, transaction.ID).Return(transaction, nil)
	productRepo.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	transactionRepo.On("Update", mock.Anything, transaction.ID, mock.Anything).Return(nil)
	userRepo.On("CreditBalance", mock.Anything, sellerID, 95.0).Return(nil)

	service := newTransactionTestService(transactionRepo, productRepo, userRepo, new(mockPaymentProvider))

	result, err := service.Complete(context.Background(), transaction.ID, buyerID)

	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, result.Status)
	require.NotNil(t, result.CompletedAt)
	userRepo.AssertCalled(t, "CreditBalance", mock.Anything, sellerID, 95.0)
}

func TestCompleteOnlyFromEscrow(t *testing.T) {
	transactionRepo := new(mockTransactionRepository)

	buyerID := primitive.NewObjectID()
	transaction := &models.Transaction{
		ID:      primitive.NewObjectID(),
		BuyerID: buyerID,
		Status:  models.TransactionStatusCompleted,
	}

	transactionRepo.On("GetByID", mock.Anything, transaction.ID).Return(transaction, nil)

	service := newTransactionTestService(transactionRepo, new(mockProductRepository), new(mockUserRepository), new(mockPaymentProvider))

	_, err := service.Complete(context.Background(), transaction.ID, buyerID)

	require.Error(t, err)
	assert.Equal(t, utils.ErrKindConflict, utils.KindOf(err))
}

func TestCompleteOnlyByBuyer(t *testing.T) {
	transactionRepo := new(mockTransactionRepository)

	transaction := &models.Transaction{
		ID:       primitive.NewObjectID(),
		BuyerID:  primitive.NewObjectID(),
		SellerID: primitive.NewObjectID(),
		Status:   models.TransactionStatusEscrow,
	}

	transactionRepo.On("GetByID", mock.Anything, transaction.ID).Return(transaction, nil)

	service := newTransactionTestService(transactionRepo, new(mockProductRepository), new(mockUserRepository), new(mockPaymentProvider))

	_, err := service.Complete(context.Background(), transaction.ID, transaction.SellerID)

	require.Error(t, err)
	assert.Equal(t, utils.ErrKindForbidden, utils.KindOf(err))
}

func TestRefundFromDispute(t *testing.T) {
	transactionRepo := new(mockTransactionRepository)
	payments := new(mockPaymentProvider)

	transaction := &models.Transaction{
		ID:         primitive.NewObjectID(),
		BuyerID:    primitive.NewObjectID(),
		SellerID:   primitive.NewObjectID(),
		Amount:     60,
		Status:     models.TransactionStatusDisputed,
		PaymentRef: "pi_456",
	}

	transactionRepo.On("GetByID", mock.Anything, transaction.ID).Return(transaction, nil)
	payments.On("RefundPayment", mock.Anything, mock.MatchedBy(func(req *payment.RefundRequest) bool {
		return req.TransactionID == "pi_456" && req.Amount == 60
	})).Return(&payment.RefundResponse{RefundID: "re_1", Status: "succeeded"}, nil)
	transactionRepo.On("Update", mock.Anything, transaction.ID, mock.Anything).Return(nil)

	service := newTransactionTestService(transactionRepo, new(mockProductRepository), new(mockUserRepository), payments)

	result, err := service.Refund(context.Background(), transaction.ID)

	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusRefunded, result.Status)
	assert.True(t, result.ResolvedByAdmin)
}

func TestPurchasePartialFailureWhenRecordInsertFails(t *testing.T) {
	transactionRepo := new(mockTransactionRepository)
	productRepo := new(mockProductRepository)
	payments := new(mockPaymentProvider)

	buyerID := primitive.NewObjectID()
	product := activeProduct(primitive.NewObjectID(), 15)

	productRepo.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	payments.On("ProcessPayment", mock.Anything, mock.Anything).
		Return(&payment.PaymentResponse{TransactionID: "pi_789", Status: "succeeded"}, nil)
	transactionRepo.On("Create", mock.Anything, mock.Anything).
		Return(utils.NewInternalError(errors.New("insert failed")))

	service := newTransactionTestService(transactionRepo, productRepo, new(mockUserRepository), payments)

	_, err := service.Purchase(context.Background(), buyerID, &PurchaseRequest{
		ProductID:       product.ID,
		PaymentMethodID: "pm_card",
	})

	require.Error(t, err)
	assert.Equal(t, utils.ErrKindPartial, utils.KindOf(err))

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Message, "pi_789")
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"chargehub/internal/metrics"
	"chargehub/internal/models"
	"chargehub/internal/repository"
)

// Default instrument provisioned when a user reaches billing with no payment
// method on file.
const (
	defaultMethodType = "Credit Card"
	defaultCardNumber = "****-****-****-0000"
	defaultCardHolder = "Default Card"
)

var defaultCardExpiry = time.Date(2027, 12, 31, 0, 0, 0, 0, time.UTC)

type billingStore interface {
	FirstMethodID(ctx context.Context, q repository.Querier, userID int64) (int64, error)
	CreateMethod(ctx context.Context, q repository.Querier, userID int64, methodType string) (int64, error)
	CreateCreditCard(ctx context.Context, q repository.Querier, methodID int64, cardNumber string, expiry time.Time, holder string) error
	ListInvoicesByUser(ctx context.Context, q repository.Querier, userID int64) ([]models.InvoiceListing, error)
	ListMethodsByUser(ctx context.Context, q repository.Querier, userID int64) ([]models.PaymentMethod, error)
	CompletePayment(ctx context.Context, q repository.Querier, paymentID int64, when time.Time) (*models.Payment, error)
	ReservationForPayment(ctx context.Context, q repository.Querier, paymentID int64) (int64, error)
}

type reservationCompleter interface {
	MarkCompleted(ctx context.Context, q repository.Querier, id int64) error
}

// PaymentService resolves payment instruments and settles invoices. Gateway
// interaction is simulated: completing a payment just flips its status.
type PaymentService struct {
	db           repository.Querier
	tx           repository.TxRunner
	billing      billingStore
	reservations reservationCompleter
	logger       *zap.Logger
	now          func() time.Time
}

// NewPaymentService builds service.
func NewPaymentService(db repository.Querier, tx repository.TxRunner, billing billingStore, reservations reservationCompleter, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		db:           db,
		tx:           tx,
		billing:      billing,
		reservations: reservations,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// ResolveMethod returns the user's first payment method by id, provisioning a
// default credit card with a synthetic masked number when none exists.
// Presence is checked first, so repeated calls never create a second default.
func (s *PaymentService) ResolveMethod(ctx context.Context, q repository.Querier, userID int64) (int64, error) {
	methodID, err := s.billing.FirstMethodID(ctx, q, userID)
	if err == nil {
		return methodID, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}

	methodID, err = s.billing.CreateMethod(ctx, q, userID, defaultMethodType)
	if err != nil {
		return 0, err
	}
	if err := s.billing.CreateCreditCard(ctx, q, methodID, defaultCardNumber, defaultCardExpiry, defaultCardHolder); err != nil {
		return 0, err
	}

	s.logger.Info("provisioned default payment method",
		zap.Int64("user_id", userID),
		zap.Int64("payment_method_id", methodID),
	)
	return methodID, nil
}

// Complete settles a Pending payment and marks the linked Confirmed
// reservation Completed, in one transaction. Returns the settled payment.
func (s *PaymentService) Complete(ctx context.Context, paymentID int64) (*models.Payment, error) {
	var payment *models.Payment

	err := s.tx.RunInTx(ctx, func(q repository.Querier) error {
		var err error
		payment, err = s.billing.CompletePayment(ctx, q, paymentID, s.now())
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("pending payment %d: %w", paymentID, ErrNotFound)
			}
			return err
		}

		reservationID, err := s.billing.ReservationForPayment(ctx, q, paymentID)
		if err != nil {
			// A session can outlive its reservation; nothing left to close.
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return err
		}
		return s.reservations.MarkCompleted(ctx, q, reservationID)
	})
	if err != nil {
		return nil, err
	}

	metrics.IncPaymentCompleted()
	s.logger.Info("payment completed", zap.Int64("payment_id", paymentID), zap.Float64("amount", payment.Amount))
	return payment, nil
}

// InvoicesForUser returns billing history.
func (s *PaymentService) InvoicesForUser(ctx context.Context, userID int64) ([]models.InvoiceListing, error) {
	return s.billing.ListInvoicesByUser(ctx, s.db, userID)
}

// MethodsForUser returns the user's payment methods with masked display info.
func (s *PaymentService) MethodsForUser(ctx context.Context, userID int64) ([]models.PaymentMethod, error) {
	return s.billing.ListMethodsByUser(ctx, s.db, userID)
}

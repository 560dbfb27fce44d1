package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"chargehub/internal/models"
	"chargehub/internal/repository"
)

type createdCard struct {
	methodID   int64
	cardNumber string
	holder     string
}

type fakeBillingStore struct {
	methodID       int64
	nextMethodID   int64
	methods        []string
	cards          []createdCard
	completeTotal  float64
	completeErr    error
	completed      []int64
	reservationID  int64
	reservationErr error
}

func (f *fakeBillingStore) FirstMethodID(_ context.Context, _ repository.Querier, _ int64) (int64, error) {
	if f.methodID == 0 {
		return 0, repository.ErrNotFound
	}
	return f.methodID, nil
}

func (f *fakeBillingStore) CreateMethod(_ context.Context, _ repository.Querier, _ int64, methodType string) (int64, error) {
	f.methods = append(f.methods, methodType)
	f.methodID = f.nextMethodID
	return f.nextMethodID, nil
}

func (f *fakeBillingStore) CreateCreditCard(_ context.Context, _ repository.Querier, methodID int64, cardNumber string, _ time.Time, holder string) error {
	f.cards = append(f.cards, createdCard{methodID: methodID, cardNumber: cardNumber, holder: holder})
	return nil
}

func (f *fakeBillingStore) ListInvoicesByUser(_ context.Context, _ repository.Querier, _ int64) ([]models.InvoiceListing, error) {
	return nil, nil
}

func (f *fakeBillingStore) ListMethodsByUser(_ context.Context, _ repository.Querier, _ int64) ([]models.PaymentMethod, error) {
	return nil, nil
}

func (f *fakeBillingStore) CompletePayment(_ context.Context, _ repository.Querier, paymentID int64, when time.Time) (*models.Payment, error) {
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	f.completed = append(f.completed, paymentID)
	return &models.Payment{
		ID:          paymentID,
		Amount:      f.completeTotal,
		Status:      models.PaymentCompleted,
		PaymentDate: &when,
	}, nil
}

func (f *fakeBillingStore) ReservationForPayment(_ context.Context, _ repository.Querier, _ int64) (int64, error) {
	if f.reservationErr != nil {
		return 0, f.reservationErr
	}
	return f.reservationID, nil
}

type fakeReservationCompleter struct {
	completed []int64
}

func (f *fakeReservationCompleter) MarkCompleted(_ context.Context, _ repository.Querier, id int64) error {
	f.completed = append(f.completed, id)
	return nil
}

func TestResolveMethodReturnsExisting(t *testing.T) {
	billing := &fakeBillingStore{methodID: 12}
	svc := NewPaymentService(nil, &fakeTxRunner{}, billing, &fakeReservationCompleter{}, zap.NewNop())

	id, err := svc.ResolveMethod(context.Background(), nil, 7)
	if err != nil {
		t.Fatalf("ResolveMethod returned error: %v", err)
	}
	if id != 12 {
		t.Errorf("method id = %d, want 12", id)
	}
	if len(billing.methods) != 0 {
		t.Errorf("created %d methods, want 0", len(billing.methods))
	}
}

func TestResolveMethodProvisionsDefaultOnce(t *testing.T) {
	billing := &fakeBillingStore{nextMethodID: 40}
	svc := NewPaymentService(nil, &fakeTxRunner{}, billing, &fakeReservationCompleter{}, zap.NewNop())

	id, err := svc.ResolveMethod(context.Background(), nil, 7)
	if err != nil {
		t.Fatalf("ResolveMethod returned error: %v", err)
	}
	if id != 40 {
		t.Errorf("method id = %d, want 40", id)
	}
	if len(billing.methods) != 1 || billing.methods[0] != "Credit Card" {
		t.Errorf("created methods = %v, want one Credit Card", billing.methods)
	}
	if len(billing.cards) != 1 || billing.cards[0].methodID != 40 {
		t.Fatalf("created cards = %+v", billing.cards)
	}
	if billing.cards[0].cardNumber != "****-****-****-0000" {
		t.Errorf("card number = %q", billing.cards[0].cardNumber)
	}

	// A second resolve must reuse the provisioned method.
	again, err := svc.ResolveMethod(context.Background(), nil, 7)
	if err != nil {
		t.Fatalf("second ResolveMethod returned error: %v", err)
	}
	if again != 40 {
		t.Errorf("second method id = %d, want 40", again)
	}
	if len(billing.methods) != 1 {
		t.Errorf("created %d methods after second resolve, want 1", len(billing.methods))
	}
}

func TestCompleteSettlesPaymentAndReservation(t *testing.T) {
	billing := &fakeBillingStore{methodID: 12, completeTotal: 10.8, reservationID: 42}
	reservations := &fakeReservationCompleter{}
	svc := NewPaymentService(nil, &fakeTxRunner{}, billing, reservations, zap.NewNop())

	payment, err := svc.Complete(context.Background(), 901)
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if !almostEqual(payment.Amount, 10.8) {
		t.Errorf("amount = %v, want 10.8", payment.Amount)
	}
	if payment.Status != models.PaymentCompleted {
		t.Errorf("status = %q, want %q", payment.Status, models.PaymentCompleted)
	}
	if payment.PaymentDate == nil {
		t.Error("payment date not stamped")
	}
	if len(billing.completed) != 1 || billing.completed[0] != 901 {
		t.Errorf("completed payments = %v, want [901]", billing.completed)
	}
	if len(reservations.completed) != 1 || reservations.completed[0] != 42 {
		t.Errorf("completed reservations = %v, want [42]", reservations.completed)
	}
}

func TestCompleteToleratesMissingReservation(t *testing.T) {
	billing := &fakeBillingStore{methodID: 12, completeTotal: 5, reservationErr: repository.ErrNotFound}
	reservations := &fakeReservationCompleter{}
	svc := NewPaymentService(nil, &fakeTxRunner{}, billing, reservations, zap.NewNop())

	if _, err := svc.Complete(context.Background(), 901); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if len(reservations.completed) != 0 {
		t.Errorf("completed reservations = %v, want none", reservations.completed)
	}
}

func TestCompleteRejectsNonPendingPayment(t *testing.T) {
	billing := &fakeBillingStore{completeErr: repository.ErrNotFound}
	svc := NewPaymentService(nil, &fakeTxRunner{}, billing, &fakeReservationCompleter{}, zap.NewNop())

	_, err := svc.Complete(context.Background(), 901)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Complete error = %v, want ErrNotFound", err)
	}
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"chargehub/internal/models"
	"chargehub/internal/repository"
)

type fakeTxRunner struct {
	runs int
}

func (f *fakeTxRunner) RunInTx(ctx context.Context, fn func(q repository.Querier) error) error {
	f.runs++
	return fn(nil)
}

type closedReservation struct {
	userID        int64
	chargePointID int64
	end           time.Time
}

type fakeReservationStore struct {
	forStart    *repository.ReservationForStart
	forStartErr error
	confirmed   []int64
	closed      []closedReservation
}

func (f *fakeReservationStore) GetForStart(_ context.Context, _ repository.Querier, id int64) (*repository.ReservationForStart, error) {
	if f.forStartErr != nil {
		return nil, f.forStartErr
	}
	return f.forStart, nil
}

func (f *fakeReservationStore) MarkConfirmed(_ context.Context, _ repository.Querier, id int64) error {
	f.confirmed = append(f.confirmed, id)
	return nil
}

func (f *fakeReservationStore) CloseConfirmed(_ context.Context, _ repository.Querier, userID, chargePointID int64, end time.Time) error {
	f.closed = append(f.closed, closedReservation{userID: userID, chargePointID: chargePointID, end: end})
	return nil
}

type finalizedSession struct {
	id     int64
	end    time.Time
	energy float64
	cost   float64
}

type fakeSessionStore struct {
	nextID     int64
	created    []*models.ChargingSession
	forStop    *repository.SessionForStop
	forStopErr error
	finalized  []finalizedSession
}

func (f *fakeSessionStore) Create(_ context.Context, _ repository.Querier, s *models.ChargingSession) (int64, error) {
	f.created = append(f.created, s)
	return f.nextID, nil
}

func (f *fakeSessionStore) GetForStop(_ context.Context, _ repository.Querier, id int64) (*repository.SessionForStop, error) {
	if f.forStopErr != nil {
		return nil, f.forStopErr
	}
	return f.forStop, nil
}

func (f *fakeSessionStore) Finalize(_ context.Context, _ repository.Querier, id int64, end time.Time, energy, totalCost float64) error {
	f.finalized = append(f.finalized, finalizedSession{id: id, end: end, energy: energy, cost: totalCost})
	return nil
}

func (f *fakeSessionStore) ListByUser(_ context.Context, _ repository.Querier, _ int64) ([]models.SessionListing, error) {
	return nil, nil
}

func (f *fakeSessionStore) ActiveByUser(_ context.Context, _ repository.Querier, _ int64) (*models.SessionListing, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeSessionStore) GetByID(_ context.Context, _ repository.Querier, _, _ int64) (*models.SessionListing, error) {
	return nil, repository.ErrNotFound
}

type statusChange struct {
	id     int64
	status string
}

type fakeChargePointStore struct {
	changes []statusChange
}

func (f *fakeChargePointStore) SetChargePointStatus(_ context.Context, _ repository.Querier, id int64, status string) error {
	f.changes = append(f.changes, statusChange{id: id, status: status})
	return nil
}

type fakeSubscriptionProvider struct {
	id    int64
	calls int
}

func (f *fakeSubscriptionProvider) EnsureActive(_ context.Context, _ repository.Querier, _ int64, _ time.Time) (int64, error) {
	f.calls++
	return f.id, nil
}

type pendingPayment struct {
	invoiceID int64
	methodID  int64
	amount    float64
}

type fakeInvoiceStore struct {
	invoiceID  int64
	paymentID  int64
	paymentErr error
	invoices   []*models.Invoice
	payments   []pendingPayment
}

func (f *fakeInvoiceStore) CreateInvoice(_ context.Context, _ repository.Querier, inv *models.Invoice) (int64, error) {
	f.invoices = append(f.invoices, inv)
	return f.invoiceID, nil
}

func (f *fakeInvoiceStore) CreatePendingPayment(_ context.Context, _ repository.Querier, invoiceID, methodID int64, amount float64) (int64, error) {
	if f.paymentErr != nil {
		return 0, f.paymentErr
	}
	f.payments = append(f.payments, pendingPayment{invoiceID: invoiceID, methodID: methodID, amount: amount})
	return f.paymentID, nil
}

type fakeMethodResolver struct {
	methodID int64
	calls    int
}

func (f *fakeMethodResolver) ResolveMethod(_ context.Context, _ repository.Querier, _ int64) (int64, error) {
	f.calls++
	return f.methodID, nil
}

type chargingFixture struct {
	svc          *ChargingService
	tx           *fakeTxRunner
	reservations *fakeReservationStore
	sessions     *fakeSessionStore
	chargePoints *fakeChargePointStore
	subs         *fakeSubscriptionProvider
	billing      *fakeInvoiceStore
	resolver     *fakeMethodResolver
}

func newChargingFixture(now time.Time) *chargingFixture {
	f := &chargingFixture{
		tx:           &fakeTxRunner{},
		reservations: &fakeReservationStore{},
		sessions:     &fakeSessionStore{nextID: 501},
		chargePoints: &fakeChargePointStore{},
		subs:         &fakeSubscriptionProvider{id: 77},
		billing:      &fakeInvoiceStore{invoiceID: 900, paymentID: 901},
		resolver:     &fakeMethodResolver{methodID: 33},
	}
	f.svc = NewChargingService(
		nil,
		f.tx,
		f.reservations,
		f.sessions,
		f.chargePoints,
		f.subs,
		f.billing,
		f.resolver,
		nil,
		zap.NewNop(),
	)
	f.svc.now = func() time.Time { return now }
	return f
}

func TestStartSessionWithExistingSubscription(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	f := newChargingFixture(now)
	f.reservations.forStart = &repository.ReservationForStart{
		Reservation: models.Reservation{
			ID:            42,
			UserID:        7,
			ChargePointID: 3,
			Status:        models.ReservationPending,
		},
		SubscriptionID: sql.NullInt64{Int64: 15, Valid: true},
	}

	result, err := f.svc.StartSession(context.Background(), 42, 9)
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}

	if result.SessionID != 501 || result.ReservationID != 42 {
		t.Errorf("result = %+v, want session 501 reservation 42", result)
	}
	if f.subs.calls != 0 {
		t.Errorf("subscription provisioned %d times, want 0", f.subs.calls)
	}
	if len(f.sessions.created) != 1 {
		t.Fatalf("created %d sessions, want 1", len(f.sessions.created))
	}
	created := f.sessions.created[0]
	if created.SubscriptionID != 15 || created.VehicleID != 9 || created.ChargePointID != 3 {
		t.Errorf("created session = %+v", created)
	}
	if created.Status != models.SessionActive {
		t.Errorf("created session status = %q, want %q", created.Status, models.SessionActive)
	}
	if !created.StartTime.Equal(now) {
		t.Errorf("created session start = %v, want %v", created.StartTime, now)
	}
	if len(f.reservations.confirmed) != 1 || f.reservations.confirmed[0] != 42 {
		t.Errorf("confirmed = %v, want [42]", f.reservations.confirmed)
	}
	if len(f.chargePoints.changes) != 1 || f.chargePoints.changes[0] != (statusChange{id: 3, status: models.ChargePointInUse}) {
		t.Errorf("charge point changes = %v", f.chargePoints.changes)
	}
}

func TestStartSessionProvisionsDefaultSubscription(t *testing.T) {
	f := newChargingFixture(time.Now().UTC())
	f.reservations.forStart = &repository.ReservationForStart{
		Reservation: models.Reservation{ID: 42, UserID: 7, ChargePointID: 3, Status: models.ReservationPending},
	}

	if _, err := f.svc.StartSession(context.Background(), 42, 9); err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}

	if f.subs.calls != 1 {
		t.Fatalf("subscription provisioned %d times, want 1", f.subs.calls)
	}
	if got := f.sessions.created[0].SubscriptionID; got != 77 {
		t.Errorf("session subscription id = %d, want 77", got)
	}
}

func TestStartSessionRejectsTerminalReservations(t *testing.T) {
	for _, status := range []string{models.ReservationCancelled, models.ReservationCompleted} {
		t.Run(status, func(t *testing.T) {
			f := newChargingFixture(time.Now().UTC())
			f.reservations.forStart = &repository.ReservationForStart{
				Reservation: models.Reservation{ID: 42, UserID: 7, ChargePointID: 3, Status: status},
			}

			_, err := f.svc.StartSession(context.Background(), 42, 9)
			if !errors.Is(err, ErrInvalidState) {
				t.Fatalf("StartSession error = %v, want ErrInvalidState", err)
			}
			if len(f.sessions.created) != 0 || len(f.reservations.confirmed) != 0 || len(f.chargePoints.changes) != 0 {
				t.Error("terminal reservation must not produce writes")
			}
		})
	}
}

func TestStartSessionMissingReservation(t *testing.T) {
	f := newChargingFixture(time.Now().UTC())
	f.reservations.forStartErr = repository.ErrNotFound

	_, err := f.svc.StartSession(context.Background(), 42, 9)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("StartSession error = %v, want ErrNotFound", err)
	}
}

func TestStopSessionBillsMeteredUsage(t *testing.T) {
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	now := start.Add(time.Hour)
	f := newChargingFixture(now)
	f.sessions.forStop = &repository.SessionForStop{
		ChargingSession: models.ChargingSession{
			ID:             501,
			SubscriptionID: 15,
			VehicleID:      9,
			ChargePointID:  3,
			Status:         models.SessionActive,
			StartTime:      start,
		},
		UserID:       7,
		DiscountRate: sql.NullFloat64{Float64: 10, Valid: true},
	}

	result, err := f.svc.StopSession(context.Background(), 501, 20)
	if err != nil {
		t.Fatalf("StopSession returned error: %v", err)
	}

	// (20 kWh * 0.50 + 1 h * 2.00) * 0.9
	if !almostEqual(result.TotalAmount, 10.8) {
		t.Errorf("total = %v, want 10.8", result.TotalAmount)
	}
	if result.InvoiceID != 900 || result.PaymentID != 901 {
		t.Errorf("result ids = %d/%d, want 900/901", result.InvoiceID, result.PaymentID)
	}
	if !almostEqual(result.DurationHours, 1) {
		t.Errorf("duration = %v, want 1", result.DurationHours)
	}

	if len(f.sessions.finalized) != 1 {
		t.Fatalf("finalized %d sessions, want 1", len(f.sessions.finalized))
	}
	fin := f.sessions.finalized[0]
	if fin.id != 501 || !fin.end.Equal(now) || !almostEqual(fin.energy, 20) || !almostEqual(fin.cost, 10.8) {
		t.Errorf("finalized = %+v", fin)
	}

	if len(f.chargePoints.changes) != 1 || f.chargePoints.changes[0] != (statusChange{id: 3, status: models.ChargePointAvailable}) {
		t.Errorf("charge point changes = %v", f.chargePoints.changes)
	}
	if len(f.reservations.closed) != 1 || f.reservations.closed[0].userID != 7 || f.reservations.closed[0].chargePointID != 3 {
		t.Errorf("closed reservations = %+v", f.reservations.closed)
	}

	if len(f.billing.invoices) != 1 {
		t.Fatalf("created %d invoices, want 1", len(f.billing.invoices))
	}
	inv := f.billing.invoices[0]
	if inv.UserID != 7 || inv.SubscriptionID != 15 || inv.SessionID != 501 || !almostEqual(inv.TotalAmount, 10.8) {
		t.Errorf("invoice = %+v", inv)
	}

	if f.resolver.calls != 1 {
		t.Errorf("resolved payment method %d times, want 1", f.resolver.calls)
	}
	if len(f.billing.payments) != 1 {
		t.Fatalf("created %d payments, want 1", len(f.billing.payments))
	}
	pay := f.billing.payments[0]
	if pay.invoiceID != 900 || pay.methodID != 33 || !almostEqual(pay.amount, 10.8) {
		t.Errorf("payment = %+v", pay)
	}
}

func TestStopSessionZeroEnergyBillsTimeOnly(t *testing.T) {
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	f := newChargingFixture(start.Add(30 * time.Minute))
	f.sessions.forStop = &repository.SessionForStop{
		ChargingSession: models.ChargingSession{
			ID:            501,
			ChargePointID: 3,
			Status:        models.SessionActive,
			StartTime:     start,
		},
		UserID: 7,
	}

	result, err := f.svc.StopSession(context.Background(), 501, 0)
	if err != nil {
		t.Fatalf("StopSession returned error: %v", err)
	}
	if !almostEqual(result.TotalAmount, 1) {
		t.Errorf("total = %v, want 1 (half an hour at 2.00/h)", result.TotalAmount)
	}
}

func TestStopSessionPaymentFailureAbortsTransaction(t *testing.T) {
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	f := newChargingFixture(start.Add(time.Hour))
	f.sessions.forStop = &repository.SessionForStop{
		ChargingSession: models.ChargingSession{
			ID:            501,
			ChargePointID: 3,
			Status:        models.SessionActive,
			StartTime:     start,
		},
		UserID: 7,
	}
	paymentErr := errors.New("payment insert failed")
	f.billing.paymentErr = paymentErr

	result, err := f.svc.StopSession(context.Background(), 501, 20)
	if !errors.Is(err, paymentErr) {
		t.Fatalf("StopSession error = %v, want the payment failure", err)
	}
	if result != nil {
		t.Errorf("result = %+v, want nil", result)
	}
	if f.tx.runs != 1 {
		t.Errorf("transaction ran %d times, want 1 (no retry)", f.tx.runs)
	}
	if len(f.billing.payments) != 0 {
		t.Errorf("payments = %+v, want none", f.billing.payments)
	}
}

func TestStopSessionRejectsCompletedSession(t *testing.T) {
	f := newChargingFixture(time.Now().UTC())
	f.sessions.forStop = &repository.SessionForStop{
		ChargingSession: models.ChargingSession{
			ID:            501,
			ChargePointID: 3,
			Status:        models.SessionCompleted,
			StartTime:     time.Now().UTC().Add(-time.Hour),
		},
		UserID: 7,
	}

	_, err := f.svc.StopSession(context.Background(), 501, 5)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("StopSession error = %v, want ErrInvalidState", err)
	}
	if len(f.sessions.finalized) != 0 || len(f.billing.invoices) != 0 {
		t.Error("completed session must not produce writes")
	}
}

func TestStopSessionMissing(t *testing.T) {
	f := newChargingFixture(time.Now().UTC())
	f.sessions.forStopErr = repository.ErrNotFound

	_, err := f.svc.StopSession(context.Background(), 501, 5)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("StopSession error = %v, want ErrNotFound", err)
	}
}

func TestStopSessionRejectsNegativeEnergy(t *testing.T) {
	f := newChargingFixture(time.Now().UTC())
	f.sessions.forStop = &repository.SessionForStop{
		ChargingSession: models.ChargingSession{
			ID:            501,
			ChargePointID: 3,
			Status:        models.SessionActive,
			StartTime:     time.Now().UTC().Add(-time.Hour),
		},
		UserID: 7,
	}

	_, err := f.svc.StopSession(context.Background(), 501, -2)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("StopSession error = %v, want ErrInvalidInput", err)
	}
	if len(f.sessions.finalized) != 0 {
		t.Error("invalid energy must not finalize the session")
	}
}

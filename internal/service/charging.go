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

// Storage contracts the charging workflow needs. Satisfied by the concrete
// repositories; tests substitute fakes.
type reservationStore interface {
	GetForStart(ctx context.Context, q repository.Querier, id int64) (*repository.ReservationForStart, error)
	MarkConfirmed(ctx context.Context, q repository.Querier, id int64) error
	CloseConfirmed(ctx context.Context, q repository.Querier, userID, chargePointID int64, end time.Time) error
}

type sessionStore interface {
	Create(ctx context.Context, q repository.Querier, s *models.ChargingSession) (int64, error)
	GetForStop(ctx context.Context, q repository.Querier, id int64) (*repository.SessionForStop, error)
	Finalize(ctx context.Context, q repository.Querier, id int64, end time.Time, energy, totalCost float64) error
	ListByUser(ctx context.Context, q repository.Querier, userID int64) ([]models.SessionListing, error)
	ActiveByUser(ctx context.Context, q repository.Querier, userID int64) (*models.SessionListing, error)
	GetByID(ctx context.Context, q repository.Querier, id, userID int64) (*models.SessionListing, error)
}

type chargePointStore interface {
	SetChargePointStatus(ctx context.Context, q repository.Querier, id int64, status string) error
}

type subscriptionProvider interface {
	EnsureActive(ctx context.Context, q repository.Querier, userID int64, now time.Time) (int64, error)
}

type invoiceStore interface {
	CreateInvoice(ctx context.Context, q repository.Querier, inv *models.Invoice) (int64, error)
	CreatePendingPayment(ctx context.Context, q repository.Querier, invoiceID, methodID int64, amount float64) (int64, error)
}

type methodResolver interface {
	ResolveMethod(ctx context.Context, q repository.Querier, userID int64) (int64, error)
}

// StatusPublisher pushes charge point status changes to live subscribers.
type StatusPublisher interface {
	PublishChargePointStatus(chargePointID int64, status string)
}

// ChargingService owns the session lifecycle: starting a session from a
// reservation and stopping it with usage-based billing. Both operations run
// as one database transaction; any failed step rolls back every prior write
// and the error propagates unmodified.
type ChargingService struct {
	db            repository.Querier
	tx            repository.TxRunner
	reservations  reservationStore
	sessions      sessionStore
	chargePoints  chargePointStore
	subscriptions subscriptionProvider
	billing       invoiceStore
	payments      methodResolver
	events        StatusPublisher
	logger        *zap.Logger
	now           func() time.Time
}

// NewChargingService builds the workflow service.
func NewChargingService(
	db repository.Querier,
	tx repository.TxRunner,
	reservations reservationStore,
	sessions sessionStore,
	chargePoints chargePointStore,
	subscriptions subscriptionProvider,
	billing invoiceStore,
	payments methodResolver,
	events StatusPublisher,
	logger *zap.Logger,
) *ChargingService {
	return &ChargingService{
		db:            db,
		tx:            tx,
		reservations:  reservations,
		sessions:      sessions,
		chargePoints:  chargePoints,
		subscriptions: subscriptions,
		billing:       billing,
		payments:      payments,
		events:        events,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// StartResult identifies the session created from a reservation.
type StartResult struct {
	SessionID     int64 `json:"session_id"`
	ReservationID int64 `json:"reservation_id"`

	chargePointID int64
}

// StopResult summarizes the invoice produced by stopping a session.
type StopResult struct {
	InvoiceID      int64   `json:"invoice_id"`
	PaymentID      int64   `json:"payment_id"`
	TotalAmount    float64 `json:"total_amount"`
	EnergyConsumed float64 `json:"energy_consumed"`
	DurationHours  float64 `json:"duration_hours"`

	chargePointID int64
}

// StartSession creates a charging session from a reservation. In one
// transaction it provisions a default subscription when the user has none,
// inserts the session anchored to now, confirms the reservation and marks
// the charge point In Use.
func (s *ChargingService) StartSession(ctx context.Context, reservationID, vehicleID int64) (*StartResult, error) {
	var result StartResult

	err := s.tx.RunInTx(ctx, func(q repository.Querier) error {
		res, err := s.reservations.GetForStart(ctx, q, reservationID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("reservation %d: %w", reservationID, ErrNotFound)
			}
			return err
		}

		switch res.Status {
		case models.ReservationCancelled:
			return fmt.Errorf("reservation %d is cancelled: %w", reservationID, ErrInvalidState)
		case models.ReservationCompleted:
			return fmt.Errorf("reservation %d is already completed: %w", reservationID, ErrInvalidState)
		}

		now := s.now()

		subscriptionID := res.SubscriptionID.Int64
		if !res.SubscriptionID.Valid {
			subscriptionID, err = s.subscriptions.EnsureActive(ctx, q, res.UserID, now)
			if err != nil {
				return fmt.Errorf("provision subscription: %w", err)
			}
		}

		sessionID, err := s.sessions.Create(ctx, q, &models.ChargingSession{
			SubscriptionID: subscriptionID,
			VehicleID:      vehicleID,
			ChargePointID:  res.ChargePointID,
			Status:         models.SessionActive,
			StartTime:      now,
		})
		if err != nil {
			return fmt.Errorf("create session: %w", err)
		}

		if err := s.reservations.MarkConfirmed(ctx, q, reservationID); err != nil {
			return fmt.Errorf("confirm reservation: %w", err)
		}

		if err := s.chargePoints.SetChargePointStatus(ctx, q, res.ChargePointID, models.ChargePointInUse); err != nil {
			return fmt.Errorf("mark charge point in use: %w", err)
		}

		result = StartResult{
			SessionID:     sessionID,
			ReservationID: reservationID,
			chargePointID: res.ChargePointID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncSessionStarted()
	if s.events != nil {
		s.events.PublishChargePointStatus(result.chargePointID, models.ChargePointInUse)
	}
	s.logger.Info("charging session started",
		zap.Int64("session_id", result.SessionID),
		zap.Int64("reservation_id", reservationID),
		zap.Int64("vehicle_id", vehicleID),
	)
	return &result, nil
}

// StopSession finalizes an active session. In one transaction it prices the
// session, stamps end time/energy/cost, releases the charge point, closes the
// matching Confirmed reservation, creates the invoice and a Pending payment
// backed by the user's (possibly just provisioned) payment method.
func (s *ChargingService) StopSession(ctx context.Context, sessionID int64, energyKWh float64) (*StopResult, error) {
	var result StopResult

	err := s.tx.RunInTx(ctx, func(q repository.Querier) error {
		session, err := s.sessions.GetForStop(ctx, q, sessionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("session %d: %w", sessionID, ErrNotFound)
			}
			return err
		}
		if session.Status != models.SessionActive {
			return fmt.Errorf("session %d is already completed: %w", sessionID, ErrInvalidState)
		}

		now := s.now()
		durationHours := now.Sub(session.StartTime).Hours()

		var discount float64
		if session.DiscountRate.Valid {
			discount = session.DiscountRate.Float64
		}

		cost, err := CalculateCost(energyKWh, durationHours, discount)
		if err != nil {
			return err
		}

		if err := s.sessions.Finalize(ctx, q, sessionID, now, energyKWh, cost.TotalCost); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("session %d is already completed: %w", sessionID, ErrInvalidState)
			}
			return fmt.Errorf("finalize session: %w", err)
		}

		if err := s.chargePoints.SetChargePointStatus(ctx, q, session.ChargePointID, models.ChargePointAvailable); err != nil {
			return fmt.Errorf("release charge point: %w", err)
		}

		if err := s.reservations.CloseConfirmed(ctx, q, session.UserID, session.ChargePointID, now); err != nil {
			return fmt.Errorf("close reservation: %w", err)
		}

		invoiceID, err := s.billing.CreateInvoice(ctx, q, &models.Invoice{
			UserID:         session.UserID,
			IssueDate:      now,
			TotalAmount:    cost.TotalCost,
			SubscriptionID: session.SubscriptionID,
			SessionID:      sessionID,
		})
		if err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}

		methodID, err := s.payments.ResolveMethod(ctx, q, session.UserID)
		if err != nil {
			return fmt.Errorf("resolve payment method: %w", err)
		}

		paymentID, err := s.billing.CreatePendingPayment(ctx, q, invoiceID, methodID, cost.TotalCost)
		if err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		result = StopResult{
			InvoiceID:      invoiceID,
			PaymentID:      paymentID,
			TotalAmount:    cost.TotalCost,
			EnergyConsumed: energyKWh,
			DurationHours:  Round2(durationHours),
			chargePointID:  session.ChargePointID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncSessionStopped()
	metrics.AddRevenue(result.TotalAmount)
	if s.events != nil {
		s.events.PublishChargePointStatus(result.chargePointID, models.ChargePointAvailable)
	}
	s.logger.Info("charging session stopped",
		zap.Int64("session_id", sessionID),
		zap.Int64("invoice_id", result.InvoiceID),
		zap.Float64("energy_kwh", energyKWh),
		zap.Float64("total_cost", result.TotalAmount),
	)
	return &result, nil
}

// SessionsForUser returns the user's session history.
func (s *ChargingService) SessionsForUser(ctx context.Context, userID int64) ([]models.SessionListing, error) {
	return s.sessions.ListByUser(ctx, s.db, userID)
}

// ActiveSessionForUser returns the user's in-progress session, or ErrNotFound.
func (s *ChargingService) ActiveSessionForUser(ctx context.Context, userID int64) (*models.SessionListing, error) {
	session, err := s.sessions.ActiveByUser(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("active session for user %d: %w", userID, ErrNotFound)
		}
		return nil, err
	}
	return session, nil
}

// SessionByID returns one of the user's sessions with full context.
func (s *ChargingService) SessionByID(ctx context.Context, id, userID int64) (*models.SessionListing, error) {
	session, err := s.sessions.GetByID(ctx, s.db, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("session %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return session, nil
}

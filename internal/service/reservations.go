package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"chargehub/internal/models"
	"chargehub/internal/repository"
)

// ReservationService handles booking and cancelling charge point reservations.
// The start/stop lifecycle transitions belong to ChargingService.
type ReservationService struct {
	db           repository.Querier
	reservations *repository.ReservationRepository
	stations     *repository.StationRepository
	logger       *zap.Logger
}

// NewReservationService builds service.
func NewReservationService(
	db repository.Querier,
	reservations *repository.ReservationRepository,
	stations *repository.StationRepository,
	logger *zap.Logger,
) *ReservationService {
	return &ReservationService{
		db:           db,
		reservations: reservations,
		stations:     stations,
		logger:       logger,
	}
}

// ForUser returns the user's reservation history.
func (s *ReservationService) ForUser(ctx context.Context, userID int64) ([]models.ReservationListing, error) {
	return s.reservations.ListByUser(ctx, s.db, userID)
}

// Book creates a Pending reservation after checking the charge point is
// serviceable and the window is free.
func (s *ReservationService) Book(ctx context.Context, userID, chargePointID int64, start, end time.Time) (int64, error) {
	if !end.After(start) {
		return 0, fmt.Errorf("end time must be after start time: %w", ErrInvalidInput)
	}

	point, err := s.stations.GetChargePoint(ctx, s.db, chargePointID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("charge point %d: %w", chargePointID, ErrNotFound)
		}
		return 0, err
	}
	if point.Status == models.ChargePointOutOfService {
		return 0, fmt.Errorf("charge point %d is out of service: %w", chargePointID, ErrInvalidState)
	}

	overlap, err := s.reservations.HasOverlap(ctx, s.db, chargePointID, start, end)
	if err != nil {
		return 0, err
	}
	if overlap {
		return 0, fmt.Errorf("charge point %d already reserved in that window: %w", chargePointID, ErrConflict)
	}

	id, err := s.reservations.Create(ctx, s.db, userID, chargePointID, start, end)
	if err != nil {
		return 0, err
	}
	s.logger.Info("reservation created",
		zap.Int64("reservation_id", id),
		zap.Int64("user_id", userID),
		zap.Int64("charge_point_id", chargePointID),
	)
	return id, nil
}

// Cancel marks one of the user's Pending or Confirmed reservations
// Cancelled. Terminal reservations cannot be cancelled.
func (s *ReservationService) Cancel(ctx context.Context, userID, id int64) error {
	if err := s.reservations.Cancel(ctx, s.db, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("reservation %d not found or not cancellable: %w", id, ErrNotFound)
		}
		return err
	}
	s.logger.Info("reservation cancelled", zap.Int64("reservation_id", id))
	return nil
}

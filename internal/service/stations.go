package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"chargehub/internal/models"
	"chargehub/internal/repository"
)

// StationService serves station listings and operator charge point control.
type StationService struct {
	db          repository.Querier
	stations    *repository.StationRepository
	maintenance *repository.MaintenanceRepository
	events      StatusPublisher
	logger      *zap.Logger
}

// NewStationService builds service.
func NewStationService(
	db repository.Querier,
	stations *repository.StationRepository,
	maintenance *repository.MaintenanceRepository,
	events StatusPublisher,
	logger *zap.Logger,
) *StationService {
	return &StationService{
		db:          db,
		stations:    stations,
		maintenance: maintenance,
		events:      events,
		logger:      logger,
	}
}

// List returns all stations with charge point availability counts.
func (s *StationService) List(ctx context.Context) ([]models.StationOverview, error) {
	return s.stations.ListWithAvailability(ctx, s.db)
}

// Detail returns a station with its charge points.
func (s *StationService) Detail(ctx context.Context, id int64) (*models.StationDetail, error) {
	station, err := s.stations.GetByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("station %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	points, err := s.stations.ListChargePoints(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	return &models.StationDetail{Station: *station, ChargePoints: points}, nil
}

// ChargePoints returns charge points for a station.
func (s *StationService) ChargePoints(ctx context.Context, stationID int64) ([]models.ChargePoint, error) {
	return s.stations.ListChargePoints(ctx, s.db, stationID)
}

// SetChargePointStatus is the operator control path. Only Available and
// Out of Service are accepted; In Use is owned by the session lifecycle.
func (s *StationService) SetChargePointStatus(ctx context.Context, chargePointID int64, status string) (*models.ChargePoint, error) {
	if status != models.ChargePointAvailable && status != models.ChargePointOutOfService {
		return nil, fmt.Errorf("status %q not operator-settable: %w", status, ErrInvalidInput)
	}

	if _, err := s.stations.GetChargePoint(ctx, s.db, chargePointID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("charge point %d: %w", chargePointID, ErrNotFound)
		}
		return nil, err
	}

	if err := s.stations.SetChargePointStatus(ctx, s.db, chargePointID, status); err != nil {
		return nil, err
	}

	updated, err := s.stations.GetChargePoint(ctx, s.db, chargePointID)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.PublishChargePointStatus(chargePointID, status)
	}
	s.logger.Info("charge point status changed by operator",
		zap.Int64("charge_point_id", chargePointID),
		zap.String("status", status),
	)
	return updated, nil
}

// MaintenanceForStation returns maintenance history for a station.
func (s *StationService) MaintenanceForStation(ctx context.Context, stationID int64) ([]models.MaintenanceRecord, error) {
	return s.maintenance.ListByStation(ctx, s.db, stationID)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"chargehub/internal/models"
	"chargehub/internal/repository"
)

// VehicleService handles vehicle CRUD for users.
type VehicleService struct {
	db       repository.Querier
	vehicles *repository.VehicleRepository
	logger   *zap.Logger
}

// NewVehicleService builds service.
func NewVehicleService(db repository.Querier, vehicles *repository.VehicleRepository, logger *zap.Logger) *VehicleService {
	return &VehicleService{db: db, vehicles: vehicles, logger: logger}
}

// ForUser returns the user's vehicles.
func (s *VehicleService) ForUser(ctx context.Context, userID int64) ([]models.Vehicle, error) {
	return s.vehicles.ListByUser(ctx, s.db, userID)
}

// ByID returns one vehicle.
func (s *VehicleService) ByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	v, err := s.vehicles.GetByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("vehicle %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return v, nil
}

// Owned returns one of the user's vehicles. Vehicles belonging to other
// users come back as not found.
func (s *VehicleService) Owned(ctx context.Context, userID, vehicleID int64) (*models.Vehicle, error) {
	v, err := s.ByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if v.UserID != userID {
		return nil, fmt.Errorf("vehicle %d: %w", vehicleID, ErrNotFound)
	}
	return v, nil
}

// Add registers a new vehicle after checking the plate is free.
func (s *VehicleService) Add(ctx context.Context, v *models.Vehicle) (int64, error) {
	v.LicensePlate = strings.ToUpper(strings.TrimSpace(v.LicensePlate))
	if v.LicensePlate == "" {
		return 0, fmt.Errorf("license plate required: %w", ErrInvalidInput)
	}

	taken, err := s.vehicles.PlateExists(ctx, s.db, v.LicensePlate)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, fmt.Errorf("license plate %s already registered: %w", v.LicensePlate, ErrConflict)
	}

	id, err := s.vehicles.Create(ctx, s.db, v)
	if err != nil {
		return 0, err
	}
	s.logger.Info("vehicle added", zap.Int64("vehicle_id", id), zap.Int64("user_id", v.UserID))
	return id, nil
}

// Update rewrites vehicle attributes. The vehicle must belong to the user.
func (s *VehicleService) Update(ctx context.Context, userID int64, v *models.Vehicle) error {
	existing, err := s.ByID(ctx, v.ID)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return fmt.Errorf("vehicle %d: %w", v.ID, ErrNotFound)
	}

	v.LicensePlate = strings.ToUpper(strings.TrimSpace(v.LicensePlate))
	if err := s.vehicles.Update(ctx, s.db, v); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("vehicle %d: %w", v.ID, ErrNotFound)
		}
		return err
	}
	return nil
}

// Remove deletes a vehicle owned by the user.
func (s *VehicleService) Remove(ctx context.Context, userID, vehicleID int64) error {
	existing, err := s.ByID(ctx, vehicleID)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return fmt.Errorf("vehicle %d: %w", vehicleID, ErrNotFound)
	}

	if err := s.vehicles.Delete(ctx, s.db, vehicleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("vehicle %d: %w", vehicleID, ErrNotFound)
		}
		return err
	}
	s.logger.Info("vehicle removed", zap.Int64("vehicle_id", vehicleID), zap.Int64("user_id", userID))
	return nil
}

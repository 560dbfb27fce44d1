package repository

import (
	"context"
	"database/sql"
	"errors"

	"chargehub/internal/models"
)

// VehicleRepository handles CRUD for vehicles.
type VehicleRepository struct{}

// NewVehicleRepository returns repository.
func NewVehicleRepository() *VehicleRepository {
	return &VehicleRepository{}
}

// ListByUser returns the user's vehicles ordered by id.
func (r *VehicleRepository) ListByUser(ctx context.Context, q Querier, userID int64) ([]models.Vehicle, error) {
	const query = `
		SELECT vehicle_id, user_id, license_plate, brand, model, battery_capacity, connector_type
		FROM vehicle
		WHERE user_id = $1
		ORDER BY vehicle_id
	`
	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.UserID, &v.LicensePlate, &v.Brand, &v.Model, &v.BatteryCapacity, &v.ConnectorType); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// GetByID returns one vehicle.
func (r *VehicleRepository) GetByID(ctx context.Context, q Querier, id int64) (*models.Vehicle, error) {
	const query = `
		SELECT vehicle_id, user_id, license_plate, brand, model, battery_capacity, connector_type
		FROM vehicle
		WHERE vehicle_id = $1
	`
	var v models.Vehicle
	err := q.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.UserID, &v.LicensePlate, &v.Brand, &v.Model, &v.BatteryCapacity, &v.ConnectorType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// Create inserts a vehicle and returns its id.
func (r *VehicleRepository) Create(ctx context.Context, q Querier, v *models.Vehicle) (int64, error) {
	const query = `
		INSERT INTO vehicle (user_id, license_plate, brand, model, battery_capacity, connector_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING vehicle_id
	`
	var id int64
	err := q.QueryRowContext(ctx, query, v.UserID, v.LicensePlate, v.Brand, v.Model, v.BatteryCapacity, v.ConnectorType).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update rewrites vehicle attributes.
func (r *VehicleRepository) Update(ctx context.Context, q Querier, v *models.Vehicle) error {
	const query = `
		UPDATE vehicle
		SET license_plate = $2, brand = $3, model = $4, battery_capacity = $5, connector_type = $6
		WHERE vehicle_id = $1
	`
	result, err := q.ExecContext(ctx, query, v.ID, v.LicensePlate, v.Brand, v.Model, v.BatteryCapacity, v.ConnectorType)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a vehicle.
func (r *VehicleRepository) Delete(ctx context.Context, q Querier, id int64) error {
	const query = `DELETE FROM vehicle WHERE vehicle_id = $1`
	result, err := q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// PlateExists reports whether a license plate is already registered.
func (r *VehicleRepository) PlateExists(ctx context.Context, q Querier, plate string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM vehicle WHERE license_plate = $1)`
	var exists bool
	if err := q.QueryRowContext(ctx, query, plate).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

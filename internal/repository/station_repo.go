package repository

import (
	"context"
	"database/sql"
	"errors"

	"chargehub/internal/models"
)

// StationRepository handles stations and their charge points.
type StationRepository struct{}

// NewStationRepository returns repository.
func NewStationRepository() *StationRepository {
	return &StationRepository{}
}

const stationOverviewQuery = `
	SELECT s.station_id, s.station_name, s.gps_coordinates, s.opening_time, s.closing_time,
	       a.street, a.city, a.state, a.postal_code, a.country,
	       COUNT(cp.charge_point_id) AS total_charge_points,
	       COUNT(*) FILTER (WHERE cp.status = 'Available') AS available_points,
	       COUNT(*) FILTER (WHERE cp.status = 'In Use') AS in_use_points,
	       COUNT(*) FILTER (WHERE cp.status = 'Out of Service') AS out_of_service_points
	FROM station s
	JOIN address a ON s.address_id = a.address_id
	LEFT JOIN charge_point cp ON s.station_id = cp.station_id
	GROUP BY s.station_id, s.station_name, s.gps_coordinates, s.opening_time, s.closing_time,
	         a.street, a.city, a.state, a.postal_code, a.country
	ORDER BY s.station_name
`

// ListWithAvailability returns all stations with charge point status counts.
func (r *StationRepository) ListWithAvailability(ctx context.Context, q Querier) ([]models.StationOverview, error) {
	rows, err := q.QueryContext(ctx, stationOverviewQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []models.StationOverview
	for rows.Next() {
		var s models.StationOverview
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.GPSCoordinates,
			&s.OpeningTime,
			&s.ClosingTime,
			&s.Street,
			&s.City,
			&s.State,
			&s.PostalCode,
			&s.Country,
			&s.TotalChargePoints,
			&s.AvailablePoints,
			&s.InUsePoints,
			&s.OutOfServicePts,
		); err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stations, nil
}

// GetByID returns one station without charge points.
func (r *StationRepository) GetByID(ctx context.Context, q Querier, id int64) (*models.Station, error) {
	const query = `
		SELECT s.station_id, s.station_name, s.gps_coordinates, s.opening_time, s.closing_time,
		       a.street, a.city, a.state, a.postal_code, a.country
		FROM station s
		JOIN address a ON s.address_id = a.address_id
		WHERE s.station_id = $1
	`
	var s models.Station
	err := q.QueryRowContext(ctx, query, id).Scan(
		&s.ID,
		&s.Name,
		&s.GPSCoordinates,
		&s.OpeningTime,
		&s.ClosingTime,
		&s.Street,
		&s.City,
		&s.State,
		&s.PostalCode,
		&s.Country,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListChargePoints returns charge points for a station ordered by id.
func (r *StationRepository) ListChargePoints(ctx context.Context, q Querier, stationID int64) ([]models.ChargePoint, error) {
	const query = `
		SELECT charge_point_id, station_id, charger_type, power_rating, status
		FROM charge_point
		WHERE station_id = $1
		ORDER BY charge_point_id
	`
	rows, err := q.QueryContext(ctx, query, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []models.ChargePoint
	for rows.Next() {
		var cp models.ChargePoint
		if err := rows.Scan(&cp.ID, &cp.StationID, &cp.ChargerType, &cp.PowerRating, &cp.Status); err != nil {
			return nil, err
		}
		points = append(points, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

// GetChargePoint returns one charge point.
func (r *StationRepository) GetChargePoint(ctx context.Context, q Querier, id int64) (*models.ChargePoint, error) {
	const query = `
		SELECT charge_point_id, station_id, charger_type, power_rating, status
		FROM charge_point
		WHERE charge_point_id = $1
	`
	var cp models.ChargePoint
	err := q.QueryRowContext(ctx, query, id).Scan(&cp.ID, &cp.StationID, &cp.ChargerType, &cp.PowerRating, &cp.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cp, nil
}

// SetChargePointStatus updates charge point status.
func (r *StationRepository) SetChargePointStatus(ctx context.Context, q Querier, id int64, status string) error {
	const query = `UPDATE charge_point SET status = $2 WHERE charge_point_id = $1`
	result, err := q.ExecContext(ctx, query, id, status)
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

package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"chargehub/internal/models"
)

// SessionRepository handles persistence of charging sessions.
type SessionRepository struct{}

// NewSessionRepository returns repository.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

// Create inserts an active session with zeroed energy and cost.
func (r *SessionRepository) Create(ctx context.Context, q Querier, s *models.ChargingSession) (int64, error) {
	const query = `
		INSERT INTO charging_session
			(user_subscription_id, vehicle_id, charge_point_id, status, start_time, end_time, energy_consumed, total_cost)
		VALUES ($1, $2, $3, $4, $5, $5, 0, 0)
		RETURNING session_id
	`
	var id int64
	err := q.QueryRowContext(ctx, query,
		s.SubscriptionID,
		s.VehicleID,
		s.ChargePointID,
		s.Status,
		s.StartTime,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// SessionForStop carries the session plus billing context for the stop workflow.
type SessionForStop struct {
	models.ChargingSession
	UserID       int64
	PlanID       sql.NullInt64
	DiscountRate sql.NullFloat64
}

// GetForStop loads the session joined with its subscription and plan discount.
func (r *SessionRepository) GetForStop(ctx context.Context, q Querier, id int64) (*SessionForStop, error) {
	const query = `
		SELECT cs.session_id, cs.user_subscription_id, cs.vehicle_id, cs.charge_point_id,
		       cs.status, cs.start_time, cs.end_time, cs.energy_consumed, cs.total_cost,
		       us.user_id, us.plan_id, sp.discount_rate
		FROM charging_session cs
		JOIN user_subscription us ON cs.user_subscription_id = us.user_subscription_id
		LEFT JOIN subscription_plan sp ON us.plan_id = sp.plan_id
		WHERE cs.session_id = $1
	`
	var s SessionForStop
	err := q.QueryRowContext(ctx, query, id).Scan(
		&s.ID,
		&s.SubscriptionID,
		&s.VehicleID,
		&s.ChargePointID,
		&s.Status,
		&s.StartTime,
		&s.EndTime,
		&s.EnergyConsumed,
		&s.TotalCost,
		&s.UserID,
		&s.PlanID,
		&s.DiscountRate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Finalize stamps end time, energy and cost on an active session and marks it
// completed. The status guard makes a second stop on the same session a no-op
// update, surfaced as ErrNotFound to the workflow.
func (r *SessionRepository) Finalize(ctx context.Context, q Querier, id int64, end time.Time, energy, totalCost float64) error {
	const query = `
		UPDATE charging_session
		SET end_time = $2,
		    energy_consumed = $3,
		    total_cost = $4,
		    status = $5
		WHERE session_id = $1 AND status = $6
	`
	result, err := q.ExecContext(ctx, query, id, end, energy, totalCost, models.SessionCompleted, models.SessionActive)
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

const sessionListingColumns = `
	cs.session_id, cs.user_subscription_id, cs.vehicle_id, cs.charge_point_id,
	cs.status, cs.start_time, cs.end_time, cs.energy_consumed, cs.total_cost,
	v.license_plate, v.brand, v.model,
	cp.charger_type, cp.power_rating,
	s.station_name, a.city, a.state
`

// ListByUser returns the user's session history, newest first.
func (r *SessionRepository) ListByUser(ctx context.Context, q Querier, userID int64) ([]models.SessionListing, error) {
	const query = `
		SELECT ` + sessionListingColumns + `
		FROM charging_session cs
		JOIN user_subscription us ON cs.user_subscription_id = us.user_subscription_id
		JOIN vehicle v ON cs.vehicle_id = v.vehicle_id
		JOIN charge_point cp ON cs.charge_point_id = cp.charge_point_id
		JOIN station s ON cp.station_id = s.station_id
		JOIN address a ON s.address_id = a.address_id
		WHERE us.user_id = $1
		ORDER BY cs.start_time DESC
	`
	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessionListings(rows)
}

// ActiveByUser returns the user's in-progress session, if any.
func (r *SessionRepository) ActiveByUser(ctx context.Context, q Querier, userID int64) (*models.SessionListing, error) {
	const query = `
		SELECT ` + sessionListingColumns + `
		FROM charging_session cs
		JOIN user_subscription us ON cs.user_subscription_id = us.user_subscription_id
		JOIN vehicle v ON cs.vehicle_id = v.vehicle_id
		JOIN charge_point cp ON cs.charge_point_id = cp.charge_point_id
		JOIN station s ON cp.station_id = s.station_id
		JOIN address a ON s.address_id = a.address_id
		WHERE us.user_id = $1 AND cs.status = $2
		ORDER BY cs.start_time DESC
		LIMIT 1
	`
	rows, err := q.QueryContext(ctx, query, userID, models.SessionActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings, err := scanSessionListings(rows)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, ErrNotFound
	}
	return &listings[0], nil
}

// GetByID returns one of the user's sessions with full context.
func (r *SessionRepository) GetByID(ctx context.Context, q Querier, id, userID int64) (*models.SessionListing, error) {
	const query = `
		SELECT ` + sessionListingColumns + `
		FROM charging_session cs
		JOIN user_subscription us ON cs.user_subscription_id = us.user_subscription_id
		JOIN vehicle v ON cs.vehicle_id = v.vehicle_id
		JOIN charge_point cp ON cs.charge_point_id = cp.charge_point_id
		JOIN station s ON cp.station_id = s.station_id
		JOIN address a ON s.address_id = a.address_id
		WHERE cs.session_id = $1 AND us.user_id = $2
	`
	rows, err := q.QueryContext(ctx, query, id, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings, err := scanSessionListings(rows)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, ErrNotFound
	}
	return &listings[0], nil
}

func scanSessionListings(rows *sql.Rows) ([]models.SessionListing, error) {
	var listings []models.SessionListing
	for rows.Next() {
		var l models.SessionListing
		if err := rows.Scan(
			&l.ID,
			&l.SubscriptionID,
			&l.VehicleID,
			&l.ChargePointID,
			&l.Status,
			&l.StartTime,
			&l.EndTime,
			&l.EnergyConsumed,
			&l.TotalCost,
			&l.LicensePlate,
			&l.Brand,
			&l.VehicleModel,
			&l.ChargerType,
			&l.PowerRating,
			&l.StationName,
			&l.City,
			&l.State,
		); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return listings, nil
}

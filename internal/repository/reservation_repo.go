package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"chargehub/internal/models"
)

// ReservationRepository handles persistence of reservations. Methods take a
// Querier so they compose into workflow transactions.
type ReservationRepository struct{}

// NewReservationRepository returns repository.
func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{}
}

// ReservationForStart carries the reservation plus the user's current active
// subscription, if any.
type ReservationForStart struct {
	models.Reservation
	SubscriptionID sql.NullInt64
}

// GetForStart loads the reservation and the owner's active subscription id.
func (r *ReservationRepository) GetForStart(ctx context.Context, q Querier, id int64) (*ReservationForStart, error) {
	const query = `
		SELECT r.reservation_id, r.user_id, r.charge_point_id, r.start_time, r.end_time, r.status,
		       us.user_subscription_id
		FROM reservation r
		LEFT JOIN user_subscription us ON us.user_id = r.user_id
			AND (us.end_date IS NULL OR us.end_date >= CURRENT_DATE)
		WHERE r.reservation_id = $1
		ORDER BY us.start_date DESC
		LIMIT 1
	`
	var res ReservationForStart
	err := q.QueryRowContext(ctx, query, id).Scan(
		&res.ID,
		&res.UserID,
		&res.ChargePointID,
		&res.StartTime,
		&res.EndTime,
		&res.Status,
		&res.SubscriptionID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

// MarkConfirmed transitions the reservation to Confirmed.
func (r *ReservationRepository) MarkConfirmed(ctx context.Context, q Querier, id int64) error {
	const query = `UPDATE reservation SET status = $2 WHERE reservation_id = $1`
	result, err := q.ExecContext(ctx, query, id, models.ReservationConfirmed)
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

// CloseConfirmed stamps the actual end time on the most recent Confirmed
// reservation for this user and charge point. Latest start_time wins;
// reservation_id breaks ties between reservations sharing a start_time.
func (r *ReservationRepository) CloseConfirmed(ctx context.Context, q Querier, userID, chargePointID int64, end time.Time) error {
	const query = `
		UPDATE reservation
		SET end_time = $3
		WHERE reservation_id = (
			SELECT reservation_id
			FROM reservation
			WHERE user_id = $1
			  AND charge_point_id = $2
			  AND status = 'Confirmed'
			ORDER BY start_time DESC, reservation_id DESC
			LIMIT 1
		)
	`
	_, err := q.ExecContext(ctx, query, userID, chargePointID, end)
	return err
}

// MarkCompleted transitions a Confirmed reservation to Completed.
func (r *ReservationRepository) MarkCompleted(ctx context.Context, q Querier, id int64) error {
	const query = `UPDATE reservation SET status = $2 WHERE reservation_id = $1 AND status = $3`
	_, err := q.ExecContext(ctx, query, id, models.ReservationCompleted, models.ReservationConfirmed)
	return err
}

// Create inserts a Pending reservation.
func (r *ReservationRepository) Create(ctx context.Context, q Querier, userID, chargePointID int64, start, end time.Time) (int64, error) {
	const query = `
		INSERT INTO reservation (user_id, charge_point_id, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING reservation_id
	`
	var id int64
	err := q.QueryRowContext(ctx, query, userID, chargePointID, start, end, models.ReservationPending).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// HasOverlap reports whether a Pending or Confirmed reservation already holds
// the charge point during the window.
func (r *ReservationRepository) HasOverlap(ctx context.Context, q Querier, chargePointID int64, start, end time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1
			FROM reservation
			WHERE charge_point_id = $1
			  AND status IN ('Pending', 'Confirmed')
			  AND start_time < $3
			  AND end_time > $2
		)
	`
	var overlap bool
	if err := q.QueryRowContext(ctx, query, chargePointID, start, end).Scan(&overlap); err != nil {
		return false, err
	}
	return overlap, nil
}

// Cancel marks one of the user's Pending or Confirmed reservations Cancelled.
func (r *ReservationRepository) Cancel(ctx context.Context, q Querier, id, userID int64) error {
	const query = `
		UPDATE reservation
		SET status = 'Cancelled'
		WHERE reservation_id = $1 AND user_id = $2 AND status IN ('Pending', 'Confirmed')
	`
	result, err := q.ExecContext(ctx, query, id, userID)
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

// ListByUser returns reservation history joined with charge point and station.
func (r *ReservationRepository) ListByUser(ctx context.Context, q Querier, userID int64) ([]models.ReservationListing, error) {
	const query = `
		SELECT r.reservation_id, r.user_id, r.charge_point_id, r.start_time, r.end_time, r.status,
		       cp.charger_type, cp.power_rating, cp.status AS charge_point_status,
		       s.station_id, s.station_name, a.street, a.city, a.state
		FROM reservation r
		JOIN charge_point cp ON r.charge_point_id = cp.charge_point_id
		JOIN station s ON cp.station_id = s.station_id
		JOIN address a ON s.address_id = a.address_id
		WHERE r.user_id = $1
		ORDER BY r.start_time DESC
	`
	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []models.ReservationListing
	for rows.Next() {
		var l models.ReservationListing
		if err := rows.Scan(
			&l.ID,
			&l.UserID,
			&l.ChargePointID,
			&l.StartTime,
			&l.EndTime,
			&l.Status,
			&l.ChargerType,
			&l.PowerRating,
			&l.ChargePointStatus,
			&l.StationID,
			&l.StationName,
			&l.Street,
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

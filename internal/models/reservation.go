package models

import "time"

// Reservation statuses.
const (
	ReservationPending   = "Pending"
	ReservationConfirmed = "Confirmed"
	ReservationCancelled = "Cancelled"
	ReservationCompleted = "Completed"
)

// Reservation holds a charge point for a user over a time window.
type Reservation struct {
	ID            int64     `db:"reservation_id" json:"reservation_id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	ChargePointID int64     `db:"charge_point_id" json:"charge_point_id"`
	StartTime     time.Time `db:"start_time" json:"start_time"`
	EndTime       time.Time `db:"end_time" json:"end_time"`
	Status        string    `db:"status" json:"status"`
}

// ReservationListing joins charge point and station context for history views.
type ReservationListing struct {
	Reservation
	ChargerType       string  `db:"charger_type" json:"charger_type"`
	PowerRating       float64 `db:"power_rating" json:"power_rating"`
	ChargePointStatus string  `db:"charge_point_status" json:"charge_point_status"`
	StationID         int64   `db:"station_id" json:"station_id"`
	StationName       string  `db:"station_name" json:"station_name"`
	Street            string  `db:"street" json:"street"`
	City              string  `db:"city" json:"city"`
	State             string  `db:"state" json:"state"`
}

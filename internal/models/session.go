package models

import "time"

// Charging session statuses. An explicit status column replaces the old
// "energy == 0 and cost == 0 means in progress" convention, which would
// misclassify a completed zero-energy session.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
)

// ChargingSession is one instance of a vehicle drawing energy at a charge
// point, bounded by start and stop.
type ChargingSession struct {
	ID             int64     `db:"session_id" json:"session_id"`
	SubscriptionID int64     `db:"user_subscription_id" json:"user_subscription_id"`
	VehicleID      int64     `db:"vehicle_id" json:"vehicle_id"`
	ChargePointID  int64     `db:"charge_point_id" json:"charge_point_id"`
	Status         string    `db:"status" json:"status"`
	StartTime      time.Time `db:"start_time" json:"start_time"`
	EndTime        time.Time `db:"end_time" json:"end_time"`
	EnergyConsumed float64   `db:"energy_consumed" json:"energy_consumed"`
	TotalCost      float64   `db:"total_cost" json:"total_cost"`
}

// SessionListing joins vehicle, charge point and station context.
type SessionListing struct {
	ChargingSession
	LicensePlate string  `db:"license_plate" json:"license_plate"`
	Brand        string  `db:"brand" json:"brand"`
	VehicleModel string  `db:"model" json:"model"`
	ChargerType  string  `db:"charger_type" json:"charger_type"`
	PowerRating  float64 `db:"power_rating" json:"power_rating"`
	StationName  string  `db:"station_name" json:"station_name"`
	City         string  `db:"city" json:"city"`
	State        string  `db:"state" json:"state"`
}

package models

// Charge point statuses. Out of Service is operator-controlled and never set
// by the session lifecycle.
const (
	ChargePointAvailable    = "Available"
	ChargePointInUse        = "In Use"
	ChargePointOutOfService = "Out of Service"
)

// Station groups charge points at one address.
type Station struct {
	ID             int64  `db:"station_id" json:"station_id"`
	Name           string `db:"station_name" json:"station_name"`
	GPSCoordinates string `db:"gps_coordinates" json:"gps_coordinates"`
	OpeningTime    string `db:"opening_time" json:"opening_time"`
	ClosingTime    string `db:"closing_time" json:"closing_time"`
	Street         string `db:"street" json:"street"`
	City           string `db:"city" json:"city"`
	State          string `db:"state" json:"state"`
	PostalCode     string `db:"postal_code" json:"postal_code"`
	Country        string `db:"country" json:"country"`
}

// StationOverview adds aggregate charge point counts for listings.
type StationOverview struct {
	Station
	TotalChargePoints int `db:"total_charge_points" json:"total_charge_points"`
	AvailablePoints   int `db:"available_points" json:"available_points"`
	InUsePoints       int `db:"in_use_points" json:"in_use_points"`
	OutOfServicePts   int `db:"out_of_service_points" json:"out_of_service_points"`
}

// ChargePoint is a single connector at a station, independently stateful.
type ChargePoint struct {
	ID          int64   `db:"charge_point_id" json:"charge_point_id"`
	StationID   int64   `db:"station_id" json:"station_id"`
	ChargerType string  `db:"charger_type" json:"charger_type"`
	PowerRating float64 `db:"power_rating" json:"power_rating"`
	Status      string  `db:"status" json:"status"`
}

// StationDetail is a station with its charge points expanded.
type StationDetail struct {
	Station
	ChargePoints []ChargePoint `json:"charge_points"`
}

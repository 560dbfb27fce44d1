package models

// Vehicle belongs to a user and plugs into charge points.
type Vehicle struct {
	ID              int64   `db:"vehicle_id" json:"vehicle_id"`
	UserID          int64   `db:"user_id" json:"user_id"`
	LicensePlate    string  `db:"license_plate" json:"license_plate"`
	Brand           string  `db:"brand" json:"brand"`
	Model           string  `db:"model" json:"model"`
	BatteryCapacity float64 `db:"battery_capacity" json:"battery_capacity"`
	ConnectorType   string  `db:"connector_type" json:"connector_type"`
}

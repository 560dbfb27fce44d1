package models

import "time"

// MaintenanceRecord tracks technician work on a charge point.
type MaintenanceRecord struct {
	ID             int64     `db:"record_id" json:"record_id"`
	ChargePointID  int64     `db:"charge_point_id" json:"charge_point_id"`
	Date           time.Time `db:"maintenance_date" json:"maintenance_date"`
	Description    string    `db:"description" json:"description"`
	Status         string    `db:"status" json:"status"`
	ChargerType    string    `db:"charger_type" json:"charger_type"`
	PowerRating    float64   `db:"power_rating" json:"power_rating"`
	TechnicianName string    `db:"technician_name" json:"technician_name"`
}

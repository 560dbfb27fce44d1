package repository

import (
	"context"

	"chargehub/internal/models"
)

// MaintenanceRepository reads maintenance history for operator views.
type MaintenanceRepository struct{}

// NewMaintenanceRepository returns repository.
func NewMaintenanceRepository() *MaintenanceRepository {
	return &MaintenanceRepository{}
}

// ListByStation returns maintenance records for all charge points of a station.
func (r *MaintenanceRepository) ListByStation(ctx context.Context, q Querier, stationID int64) ([]models.MaintenanceRecord, error) {
	const query = `
		SELECT mr.record_id, mr.charge_point_id, mr.maintenance_date, mr.description, mr.status,
		       cp.charger_type, cp.power_rating,
		       p.first_name || ' ' || p.last_name AS technician_name
		FROM maintenance_record mr
		JOIN charge_point cp ON mr.charge_point_id = cp.charge_point_id
		JOIN technician t ON mr.technician_id = t.technician_id
		JOIN person p ON t.technician_id = p.person_id
		WHERE cp.station_id = $1
		ORDER BY mr.maintenance_date DESC
	`
	rows, err := q.QueryContext(ctx, query, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.MaintenanceRecord
	for rows.Next() {
		var m models.MaintenanceRecord
		if err := rows.Scan(
			&m.ID,
			&m.ChargePointID,
			&m.Date,
			&m.Description,
			&m.Status,
			&m.ChargerType,
			&m.PowerRating,
			&m.TechnicianName,
		); err != nil {
			return nil, err
		}
		records = append(records, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

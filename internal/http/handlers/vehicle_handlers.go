package handlers

import (
	"net/http"

	"chargehub/internal/models"
	"chargehub/internal/service"
)

type vehicleRequest struct {
	LicensePlate    string  `json:"license_plate"`
	Brand           string  `json:"brand"`
	Model           string  `json:"model"`
	BatteryCapacity float64 `json:"battery_capacity"`
	ConnectorType   string  `json:"connector_type"`
}

// NewVehiclesMeHandler returns GET /api/vehicles handler.
func NewVehiclesMeHandler(svc *service.VehicleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		vehicles, err := svc.ForUser(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"vehicles": vehicles})
	}
}

// NewVehicleDetailHandler returns GET /api/vehicles/{id} handler.
func NewVehicleDetailHandler(svc *service.VehicleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid vehicle id")
			return
		}

		vehicle, err := svc.Owned(r.Context(), userID, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"vehicle": vehicle})
	}
}

// NewVehicleCreateHandler returns POST /api/vehicles handler.
func NewVehicleCreateHandler(svc *service.VehicleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		var req vehicleRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		id, err := svc.Add(r.Context(), &models.Vehicle{
			UserID:          userID,
			LicensePlate:    req.LicensePlate,
			Brand:           req.Brand,
			Model:           req.Model,
			BatteryCapacity: req.BatteryCapacity,
			ConnectorType:   req.ConnectorType,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]int64{"vehicle_id": id})
	}
}

// NewVehicleUpdateHandler returns PUT /api/vehicles/{id} handler.
func NewVehicleUpdateHandler(svc *service.VehicleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid vehicle id")
			return
		}

		var req vehicleRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		err = svc.Update(r.Context(), userID, &models.Vehicle{
			ID:              id,
			LicensePlate:    req.LicensePlate,
			Brand:           req.Brand,
			Model:           req.Model,
			BatteryCapacity: req.BatteryCapacity,
			ConnectorType:   req.ConnectorType,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

// NewVehicleDeleteHandler returns DELETE /api/vehicles/{id} handler.
func NewVehicleDeleteHandler(svc *service.VehicleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid vehicle id")
			return
		}

		if err := svc.Remove(r.Context(), userID, id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

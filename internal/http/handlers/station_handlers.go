package handlers

import (
	"net/http"

	"chargehub/internal/service"
)

// NewStationsHandler returns GET /api/stations handler with per-station
// charge point availability counts.
func NewStationsHandler(svc *service.StationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stations, err := svc.List(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"stations": stations})
	}
}

// NewStationDetailHandler returns GET /api/stations/{id} handler.
func NewStationDetailHandler(svc *service.StationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid station id")
			return
		}

		station, err := svc.Detail(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, station)
	}
}

// NewStationChargePointsHandler returns GET /api/stations/{id}/charge-points handler.
func NewStationChargePointsHandler(svc *service.StationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid station id")
			return
		}

		points, err := svc.ChargePoints(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"charge_points": points})
	}
}

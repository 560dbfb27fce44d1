package handlers

import (
	"net/http"

	"chargehub/internal/service"
	"chargehub/internal/ws"
)

type chargePointStatusRequest struct {
	Status string `json:"status"`
}

// NewChargePointStatusHandler returns PATCH /api/operator/charge-points/{id}/status
// handler for taking charge points in and out of service.
func NewChargePointStatusHandler(svc *service.StationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid charge point id")
			return
		}

		var req chargePointStatusRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		point, err := svc.SetChargePointStatus(r.Context(), id, req.Status)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, point)
	}
}

// NewStationMaintenanceHandler returns GET /api/operator/stations/{id}/maintenance handler.
func NewStationMaintenanceHandler(svc *service.StationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid station id")
			return
		}

		records, err := svc.MaintenanceForStation(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"maintenance": records})
	}
}

// NewStatusFeedHandler returns GET /api/operator/feed handler: a websocket
// stream of charge point status changes.
func NewStatusFeedHandler(hub *ws.Hub) http.HandlerFunc {
	return hub.HandleWS
}

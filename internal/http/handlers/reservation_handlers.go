package handlers

import (
	"net/http"
	"time"

	"chargehub/internal/service"
)

type bookReservationRequest struct {
	ChargePointID int64     `json:"charge_point_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}

// NewReservationsMeHandler returns GET /api/reservations handler.
func NewReservationsMeHandler(svc *service.ReservationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		reservations, err := svc.ForUser(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"reservations": reservations})
	}
}

// NewReservationBookHandler returns POST /api/reservations handler.
func NewReservationBookHandler(svc *service.ReservationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		var req bookReservationRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		id, err := svc.Book(r.Context(), userID, req.ChargePointID, req.StartTime, req.EndTime)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]int64{"reservation_id": id})
	}
}

// NewReservationCancelHandler returns POST /api/reservations/{id}/cancel handler.
func NewReservationCancelHandler(svc *service.ReservationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid reservation id")
			return
		}

		if err := svc.Cancel(r.Context(), userID, id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
	}
}

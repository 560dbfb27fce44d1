package handlers

import (
	"net/http"

	"chargehub/internal/service"
)

type startSessionRequest struct {
	ReservationID int64 `json:"reservation_id"`
	VehicleID     int64 `json:"vehicle_id"`
}

type stopSessionRequest struct {
	SessionID      int64   `json:"session_id"`
	EnergyConsumed float64 `json:"energy_consumed"`
}

// NewSessionStartHandler returns POST /api/sessions/start handler.
func NewSessionStartHandler(svc *service.ChargingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := callerID(w, r); !ok {
			return
		}

		var req startSessionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if req.ReservationID == 0 || req.VehicleID == 0 {
			writeError(w, http.StatusBadRequest, "reservation_id and vehicle_id are required")
			return
		}

		result, err := svc.StartSession(r.Context(), req.ReservationID, req.VehicleID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, result)
	}
}

// NewSessionStopHandler returns POST /api/sessions/stop handler. The response
// carries the invoice produced from metered usage.
func NewSessionStopHandler(svc *service.ChargingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := callerID(w, r); !ok {
			return
		}

		var req stopSessionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if req.SessionID == 0 {
			writeError(w, http.StatusBadRequest, "session_id is required")
			return
		}

		result, err := svc.StopSession(r.Context(), req.SessionID, req.EnergyConsumed)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"invoice": result})
	}
}

// NewSessionsMeHandler returns GET /api/sessions handler.
func NewSessionsMeHandler(svc *service.ChargingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		sessions, err := svc.SessionsForUser(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
	}
}

// NewActiveSessionHandler returns GET /api/sessions/active handler.
func NewActiveSessionHandler(svc *service.ChargingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		session, err := svc.ActiveSessionForUser(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}

// NewSessionDetailHandler returns GET /api/sessions/{id} handler.
func NewSessionDetailHandler(svc *service.ChargingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid session id")
			return
		}

		session, err := svc.SessionByID(r.Context(), id, userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}

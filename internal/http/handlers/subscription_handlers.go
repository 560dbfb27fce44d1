package handlers

import (
	"net/http"

	"chargehub/internal/service"
)

// NewPlansHandler returns GET /api/subscriptions/plans handler.
func NewPlansHandler(svc *service.SubscriptionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plans, err := svc.Plans(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"plans": plans})
	}
}

// NewSubscriptionMeHandler returns GET /api/subscriptions/me handler.
func NewSubscriptionMeHandler(svc *service.SubscriptionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		sub, err := svc.ActiveForUser(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sub)
	}
}

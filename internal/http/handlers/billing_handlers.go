package handlers

import (
	"net/http"

	"chargehub/internal/service"
)

type completePaymentRequest struct {
	PaymentID int64 `json:"payment_id"`
}

// NewInvoicesMeHandler returns GET /api/billing/invoices handler.
func NewInvoicesMeHandler(svc *service.PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		invoices, err := svc.InvoicesForUser(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"invoices": invoices})
	}
}

// NewPaymentMethodsMeHandler returns GET /api/billing/methods handler.
func NewPaymentMethodsMeHandler(svc *service.PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		methods, err := svc.MethodsForUser(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"payment_methods": methods})
	}
}

// NewPaymentCompleteHandler returns POST /api/billing/payments/complete
// handler. Settling the payment also closes the reservation behind the
// invoiced session.
func NewPaymentCompleteHandler(svc *service.PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := callerID(w, r); !ok {
			return
		}

		var req completePaymentRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if req.PaymentID == 0 {
			writeError(w, http.StatusBadRequest, "payment_id is required")
			return
		}

		payment, err := svc.Complete(r.Context(), req.PaymentID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "completed",
			"payment": payment,
		})
	}
}

package httpserver

import (
	"net/http"

	"chargehub/internal/http/middleware"
	"chargehub/internal/metrics"
	"chargehub/internal/service"
)

// Routes groups handlers.
type Routes struct {
	// public
	LoginRequest http.HandlerFunc
	LoginVerify  http.HandlerFunc
	Signup       http.HandlerFunc
	SignupVerify http.HandlerFunc
	ResendCode   http.HandlerFunc
	Stations     http.HandlerFunc
	StationByID  http.HandlerFunc
	StationCPs   http.HandlerFunc
	Health       http.HandlerFunc

	// authenticated
	Profile           http.HandlerFunc
	VehiclesMe        http.HandlerFunc
	VehicleByID       http.HandlerFunc
	VehicleCreate     http.HandlerFunc
	VehicleUpdate     http.HandlerFunc
	VehicleDelete     http.HandlerFunc
	ReservationsMe    http.HandlerFunc
	ReservationBook   http.HandlerFunc
	ReservationCancel http.HandlerFunc
	SessionStart      http.HandlerFunc
	SessionStop       http.HandlerFunc
	SessionsMe        http.HandlerFunc
	ActiveSession     http.HandlerFunc
	SessionByID       http.HandlerFunc
	InvoicesMe        http.HandlerFunc
	PaymentMethodsMe  http.HandlerFunc
	PaymentComplete   http.HandlerFunc
	Plans             http.HandlerFunc
	SubscriptionMe    http.HandlerFunc

	// operator
	ChargePointStatus  http.HandlerFunc
	StationMaintenance http.HandlerFunc
	StatusFeed         http.HandlerFunc
}

// NewRouter registers endpoints. Authenticated routes sit behind the bearer
// token middleware; operator routes additionally require an operator account.
func NewRouter(routes Routes, tokens *service.TokenService) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /api/auth/login", routes.LoginRequest)
	mux.Handle("POST /api/auth/login/verify", routes.LoginVerify)
	mux.Handle("POST /api/auth/signup", routes.Signup)
	mux.Handle("POST /api/auth/signup/verify", routes.SignupVerify)
	mux.Handle("POST /api/auth/resend", routes.ResendCode)

	mux.Handle("GET /api/stations", routes.Stations)
	mux.Handle("GET /api/stations/{id}", routes.StationByID)
	mux.Handle("GET /api/stations/{id}/charge-points", routes.StationCPs)

	mux.Handle("GET /health", routes.Health)
	mux.Handle("GET /metrics", metrics.Handler())

	auth := middleware.Auth(tokens)

	mux.Handle("GET /api/users/me", auth(routes.Profile))

	mux.Handle("GET /api/vehicles", auth(routes.VehiclesMe))
	mux.Handle("GET /api/vehicles/{id}", auth(routes.VehicleByID))
	mux.Handle("POST /api/vehicles", auth(routes.VehicleCreate))
	mux.Handle("PUT /api/vehicles/{id}", auth(routes.VehicleUpdate))
	mux.Handle("DELETE /api/vehicles/{id}", auth(routes.VehicleDelete))

	mux.Handle("GET /api/reservations", auth(routes.ReservationsMe))
	mux.Handle("POST /api/reservations", auth(routes.ReservationBook))
	mux.Handle("POST /api/reservations/{id}/cancel", auth(routes.ReservationCancel))

	mux.Handle("POST /api/sessions/start", auth(routes.SessionStart))
	mux.Handle("POST /api/sessions/stop", auth(routes.SessionStop))
	mux.Handle("GET /api/sessions", auth(routes.SessionsMe))
	mux.Handle("GET /api/sessions/active", auth(routes.ActiveSession))
	mux.Handle("GET /api/sessions/{id}", auth(routes.SessionByID))

	mux.Handle("GET /api/billing/invoices", auth(routes.InvoicesMe))
	mux.Handle("GET /api/billing/methods", auth(routes.PaymentMethodsMe))
	mux.Handle("POST /api/billing/payments/complete", auth(routes.PaymentComplete))

	mux.Handle("GET /api/subscriptions/plans", routes.Plans)
	mux.Handle("GET /api/subscriptions/me", auth(routes.SubscriptionMe))

	operator := func(h http.HandlerFunc) http.Handler {
		return auth(middleware.RequireOperator(h))
	}
	mux.Handle("GET /api/operator/stations", operator(routes.Stations))
	mux.Handle("GET /api/operator/stations/{id}/charge-points", operator(routes.StationCPs))
	mux.Handle("PATCH /api/operator/charge-points/{id}/status", operator(routes.ChargePointStatus))
	mux.Handle("GET /api/operator/stations/{id}/maintenance", operator(routes.StationMaintenance))
	mux.Handle("GET /api/operator/feed", operator(routes.StatusFeed))

	return middleware.Metrics(mux)
}

package handlers

import (
	"net/http"

	"chargehub/internal/models"
	"chargehub/internal/otp"
	"chargehub/internal/service"
)

type emailRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// NewLoginRequestHandler returns POST /api/auth/login handler. It emails a
// one-time code to an existing account.
func NewLoginRequestHandler(svc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req emailRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		if err := svc.RequestLoginCode(r.Context(), req.Email); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "code sent"})
	}
}

// NewLoginVerifyHandler returns POST /api/auth/login/verify handler.
func NewLoginVerifyHandler(svc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		token, user, err := svc.VerifyLogin(r.Context(), req.Email, req.Code)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
	}
}

// NewSignupHandler returns POST /api/auth/signup handler. The registration is
// parked until the emailed code is verified.
func NewSignupHandler(svc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req otp.PendingRegistration
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		if err := svc.InitiateSignup(r.Context(), req); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "verification code sent"})
	}
}

// NewSignupVerifyHandler returns POST /api/auth/signup/verify handler.
func NewSignupVerifyHandler(svc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		token, user, err := svc.CompleteSignup(r.Context(), req.Email, req.Code)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
	}
}

// NewResendCodeHandler returns POST /api/auth/resend handler.
func NewResendCodeHandler(svc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req emailRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		if err := svc.ResendCode(r.Context(), req.Email); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "code sent"})
	}
}

// NewProfileHandler returns GET /api/users/me handler.
func NewProfileHandler(svc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		user, err := svc.Profile(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/phrazzld/servo"
)

// signupRequest is the payload for the signup endpoint. The servo tags feed
// the decoded fields straight into the unit's attributes.
type signupRequest struct {
	Email    string `json:"email"    servo:"email"`
	Password string `json:"password" servo:"password"`
}

// loginRequest is the payload for the login endpoint.
type loginRequest struct {
	Email    string `json:"email"    servo:"email"`
	Password string `json:"password" servo:"password"`
}

// authResponse is the successful response for both endpoints.
type authResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
}

// errorResponse is the standard error response structure.
type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// decodeJSON decodes the request body into the given struct.
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// respondWithJSON writes a JSON response with the given status code and data.
func respondWithJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// handleSignup handles POST /api/signup. Invalid input maps to 400, a failed
// signup (the email is taken) to 422.
func (app *application) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request format"})
		return
	}

	u, err := app.signup.NewFrom(req)
	if err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	v, err := u.CallE(r.Context(), nil)
	if err != nil {
		var ie *servo.InvalidError
		if errors.As(err, &ie) {
			respondWithJSON(w, http.StatusBadRequest, errorResponse{
				Error:   "validation failed",
				Details: ie.Messages,
			})
			return
		}
		var fe *servo.FailureError
		if errors.As(err, &fe) {
			respondWithJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:   "signup failed",
				Details: fe.Messages,
			})
			return
		}
		app.logger.Error("signup failed unexpectedly", "error", err)
		respondWithJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	result := v.(authResult)
	respondWithJSON(w, http.StatusCreated, authResponse{UserID: result.UserID, Token: result.Token})
}

// handleLogin handles POST /api/login. Invalid input maps to 400; a failed
// login means bad credentials and maps to 401.
func (app *application) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request format"})
		return
	}

	u, err := app.login.NewFrom(req)
	if err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	v, err := u.CallE(r.Context(), nil)
	if err != nil {
		var ie *servo.InvalidError
		if errors.As(err, &ie) {
			respondWithJSON(w, http.StatusBadRequest, errorResponse{
				Error:   "validation failed",
				Details: ie.Messages,
			})
			return
		}
		var fe *servo.FailureError
		if errors.As(err, &fe) {
			respondWithJSON(w, http.StatusUnauthorized, errorResponse{
				Error:   "authentication failed",
				Details: fe.Messages,
			})
			return
		}
		app.logger.Error("login failed unexpectedly", "error", err)
		respondWithJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	result := v.(authResult)
	respondWithJSON(w, http.StatusOK, authResponse{UserID: result.UserID, Token: result.Token})
}

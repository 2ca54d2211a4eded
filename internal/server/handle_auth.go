package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/playperu/monopoly/internal/auth"
)

// CredentialsRequest is the body of register and login.
type CredentialsRequest struct {
	Username string `json:"username" required:"true" minLength:"3" maxLength:"32"`
	Password string `json:"password" required:"true" minLength:"8" maxLength:"72"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type TicketResponse struct {
	Ticket string `json:"ticket"`
}

func handleRegister(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CredentialsRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		user, err := svc.Register(r.Context(), auth.Credentials(req))
		var verrs validator.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			writeError(w, http.StatusBadRequest, "username must be 3-32 letters or digits and password 8-72 characters")
			return
		case errors.Is(err, auth.ErrUserExists):
			writeError(w, http.StatusConflict, "username already taken")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeToken(w, svc, user, http.StatusCreated)
	}
}

func handleLogin(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CredentialsRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		user, err := svc.Login(r.Context(), auth.Credentials(req))
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeToken(w, svc, user, http.StatusOK)
	}
}

func writeToken(w http.ResponseWriter, svc *auth.Service, user auth.User, status int) {
	token, err := svc.IssueAccess(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, status, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func handleTicket(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ticket, err := svc.IssueTicket(userFrom(r))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, TicketResponse{Ticket: ticket})
	}
}

package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/monopoly/internal/monopoly"
	"github.com/playperu/monopoly/internal/session"
)

type GameListResponse struct {
	Games []string `json:"games"`
}

func handleListGames(games *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := games.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, GameListResponse{Games: ids})
	}
}

func handleCreateGame(games *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := games.Create(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, g)
	}
}

func handleGetGame(games *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := games.Get(r.Context(), chi.URLParam(r, "gameID"))
		if errors.Is(err, monopoly.ErrGameNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

func handleDeleteGame(games *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := games.Delete(r.Context(), chi.URLParam(r, "gameID"))
		if errors.Is(err, monopoly.ErrGameNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/monopoly/internal/handler/health"
)

func addRoutes(r chi.Router, d Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Monopoly API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(d.Logger, d.Checks).Routes())
	r.Get("/ws/games", handleGamesWS(d.Logger, d.Auth, d.Games, d.Hub, newPacketRouter(), d.wsConfig()))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", handleRegister(d.Auth))
		r.Post("/auth/login", handleLogin(d.Auth))

		r.Group(func(r chi.Router) {
			r.Use(bearerAuth(d.Auth))
			r.Post("/auth/ticket", handleTicket(d.Auth))
			r.Get("/games", handleListGames(d.Games))
			r.Post("/games", handleCreateGame(d.Games))
			r.Get("/games/{gameID}", handleGetGame(d.Games))
			r.Delete("/games/{gameID}", handleDeleteGame(d.Games))
		})
	})
}

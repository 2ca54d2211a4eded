package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/monopoly/internal/monopoly"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse maps each dependency to its status.
type HealthResponse map[string]struct {
	Status string `json:"status" enum:"ok,error"`
}

type gameIDPath struct {
	GameID string `path:"gameID" format:"uuid"`
}

type bearerHeader struct {
	Authorization string `header:"Authorization" description:"Bearer access token"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Monopoly API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Accounts and game lobby management for the Monopoly game server. Gameplay runs over the /ws/games websocket.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of the storage backend.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /ws/games
	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws/games")
	getWS.SetSummary("Game websocket")
	getWS.SetDescription("Upgrades to a websocket carrying JSON packets. The first packet must be client_auth with a ticket from POST /api/v1/auth/ticket.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// POST /api/v1/auth/register
	register, _ := r.NewOperationContext(http.MethodPost, "/api/v1/auth/register")
	register.SetSummary("Register")
	register.SetDescription("Creates an account and returns an access token.")
	register.AddReqStructure(CredentialsRequest{})
	register.AddRespStructure(TokenResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	register.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	register.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(register)

	// POST /api/v1/auth/login
	login, _ := r.NewOperationContext(http.MethodPost, "/api/v1/auth/login")
	login.SetSummary("Log in")
	login.SetDescription("Exchanges a username and password for an access token.")
	login.AddReqStructure(CredentialsRequest{})
	login.AddRespStructure(TokenResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	login.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(login)

	// POST /api/v1/auth/ticket
	ticket, _ := r.NewOperationContext(http.MethodPost, "/api/v1/auth/ticket")
	ticket.SetSummary("Websocket ticket")
	ticket.SetDescription("Issues a short-lived ticket for the websocket handshake. Requires Bearer token.")
	ticket.AddReqStructure(bearerHeader{})
	ticket.AddRespStructure(TicketResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	ticket.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(ticket)

	// GET /api/v1/games
	listGames, _ := r.NewOperationContext(http.MethodGet, "/api/v1/games")
	listGames.SetSummary("List games")
	listGames.SetDescription("Returns the ids of all stored games. Requires Bearer token.")
	listGames.AddReqStructure(bearerHeader{})
	listGames.AddRespStructure(GameListResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	listGames.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listGames)

	// POST /api/v1/games
	createGame, _ := r.NewOperationContext(http.MethodPost, "/api/v1/games")
	createGame.SetSummary("Create game")
	createGame.SetDescription("Opens an empty lobby with the server's game settings. Requires Bearer token.")
	createGame.AddReqStructure(bearerHeader{})
	createGame.AddRespStructure(monopoly.Snapshot{}, openapi.WithHTTPStatus(http.StatusCreated))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(createGame)

	// GET /api/v1/games/{gameID}
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/v1/games/{gameID}")
	getGame.SetSummary("Get game")
	getGame.SetDescription("Returns the full game state. Requires Bearer token.")
	getGame.AddReqStructure(struct {
		gameIDPath
		bearerHeader
	}{})
	getGame.AddRespStructure(monopoly.Snapshot{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getGame)

	// DELETE /api/v1/games/{gameID}
	deleteGame, _ := r.NewOperationContext(http.MethodDelete, "/api/v1/games/{gameID}")
	deleteGame.SetSummary("Delete game")
	deleteGame.SetDescription("Deletes a game and cancels its start countdown. Requires Bearer token.")
	deleteGame.AddReqStructure(struct {
		gameIDPath
		bearerHeader
	}{})
	deleteGame.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteGame)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

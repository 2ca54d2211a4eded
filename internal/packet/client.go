package packet

import (
	"fmt"

	"github.com/google/uuid"
)

type clientPacket struct{}

func (clientPacket) Class() Class { return ClassClient }
func (clientPacket) client()      {}

// GameRef is embedded by client packets that address a game.
type GameRef struct {
	GameID string `json:"game_id"`
}

func (g GameRef) Game() string { return g.GameID }

func (g GameRef) validate() error {
	if _, err := uuid.Parse(g.GameID); err != nil {
		return fmt.Errorf("game_id: %w", err)
	}
	return nil
}

type ClientAuth struct {
	clientPacket
	Ticket string `json:"ticket"`
}

func (*ClientAuth) Tag() string  { return "client_auth" }
func (*ClientAuth) Keys() []Key { return Keys("ticket") }

type ClientPing struct {
	clientPacket
	Request string `json:"request"`
}

func (*ClientPing) Tag() string  { return "client_ping" }
func (*ClientPing) Keys() []Key { return Keys("request") }

type ClientJoinGame struct {
	clientPacket
	GameRef
}

func (*ClientJoinGame) Tag() string  { return "client_player_join_game" }
func (*ClientJoinGame) Keys() []Key { return Keys("game_id") }

type ClientLeaveGame struct {
	clientPacket
	GameRef
}

func (*ClientLeaveGame) Tag() string  { return "client_player_leave_game" }
func (*ClientLeaveGame) Keys() []Key { return Keys("game_id") }

type ClientReady struct {
	clientPacket
	GameRef
	IsReady bool `json:"is_ready"`
}

func (*ClientReady) Tag() string  { return "player_ready" }
func (*ClientReady) Keys() []Key { return Keys("game_id", "is_ready") }

type ClientMove struct {
	clientPacket
	GameRef
}

func (*ClientMove) Tag() string  { return "player_move" }
func (*ClientMove) Keys() []Key { return Keys("game_id") }

type ClientBuyField struct {
	clientPacket
	GameRef
	Field int `json:"field"`
}

func (*ClientBuyField) Tag() string  { return "player_buy_field" }
func (*ClientBuyField) Keys() []Key { return Keys("game_id", "field") }

type ClientPayRent struct {
	clientPacket
	GameRef
	Field int `json:"field"`
}

func (*ClientPayRent) Tag() string  { return "player_pay_rent" }
func (*ClientPayRent) Keys() []Key { return Keys("game_id", "field") }

type ClientPayTax struct {
	clientPacket
	GameRef
	Field int `json:"field"`
}

func (*ClientPayTax) Tag() string  { return "player_pay_tax" }
func (*ClientPayTax) Keys() []Key { return Keys("game_id", "field") }

// ClientEndTurn declines a pending field offer.
type ClientEndTurn struct {
	clientPacket
	GameRef
}

func (*ClientEndTurn) Tag() string  { return "player_end_turn" }
func (*ClientEndTurn) Keys() []Key { return Keys("game_id") }

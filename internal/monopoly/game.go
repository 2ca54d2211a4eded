// Package monopoly holds the rules of a single game: lobby, turn order,
// dice movement, field effects and the buy/rent/tax actions. A Game is not
// safe for concurrent use; callers serialize access per game.
package monopoly

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"

	"github.com/playperu/monopoly/internal/packet"
)

// Notifier delivers server packets to a player's connections.
type Notifier interface {
	Notify(playerID string, p packet.Server)
}

type Game struct {
	ID         string
	Settings   Settings
	IsStarted  bool
	IsFinished bool
	Round      int
	// Move indexes Players and points at the player whose turn it is.
	Move int
	// Action is the pending decision; nil while nothing is expected.
	Action   Action
	Players  []*Player
	Fields   []Field
	LastRoll Dice

	notifier Notifier
}

func NewGame(id string, s Settings) *Game {
	return &Game{ID: id, Settings: s}
}

// SetNotifier attaches the packet sink. Restored games have none until set.
func (g *Game) SetNotifier(n Notifier) { g.notifier = n }

func (g *Game) Notify(playerID string, p packet.Server) {
	if g.notifier != nil {
		g.notifier.Notify(playerID, p)
	}
}

// Broadcast sends p to every player still listed in the game.
func (g *Game) Broadcast(p packet.Server) {
	for _, pl := range g.Players {
		g.Notify(pl.ID, p)
	}
}

func (g *Game) Player(id string) (*Player, bool) {
	return lo.Find(g.Players, func(p *Player) bool { return p.ID == id })
}

// CurrentPlayer returns nil outside of a running game.
func (g *Game) CurrentPlayer() *Player {
	if !g.IsStarted || g.Move < 0 || g.Move >= len(g.Players) {
		return nil
	}
	return g.Players[g.Move]
}

func (g *Game) Field(i int) (Field, error) {
	if i < 0 || i >= len(g.Fields) {
		return nil, ErrFieldNotFound
	}
	return g.Fields[i], nil
}

// PrisonField is the index of the first prison on the board.
func (g *Game) PrisonField() (int, bool) {
	_, i, ok := lo.FindIndexOf(g.Fields, func(f Field) bool { return f.Type() == FieldPrison })
	return i, ok
}

func (g *Game) PlayerStates() []packet.PlayerState {
	return lo.Map(g.Players, func(p *Player, _ int) packet.PlayerState { return p.State() })
}

func (g *Game) FieldStates() []packet.FieldState {
	return lo.Map(g.Fields, func(f Field, _ int) packet.FieldState { return f.State() })
}

func (g *Game) Join(id, username string) (*Player, error) {
	if g.IsStarted {
		return nil, ErrGameAlreadyStarted
	}
	if _, ok := g.Player(id); ok {
		return nil, ErrAlreadyJoined
	}
	if len(g.Players) >= g.Settings.MaxPlayers {
		return nil, ErrMaxPlayers
	}

	p := &Player{
		ID:        id,
		Username:  username,
		Balance:   g.Settings.PlayerBalance,
		IsPlaying: true,
	}
	g.Players = append(g.Players, p)
	g.Broadcast(&packet.ServerJoinGame{GameID: g.ID, PlayerID: id, Username: username})
	return p, nil
}

// Leave removes a lobby player. In a running game the player forfeits and
// stays listed with IsPlaying unset; the last active player wins.
func (g *Game) Leave(id string) error {
	p, ok := g.Player(id)
	if !ok {
		return ErrPlayerNotFound
	}
	if g.IsFinished {
		return ErrGameFinished
	}

	if !g.IsStarted {
		g.Broadcast(&packet.ServerLeaveGame{GameID: g.ID, PlayerID: id})
		g.Players = lo.Filter(g.Players, func(p *Player, _ int) bool { return p.ID != id })
		return nil
	}
	if !p.IsPlaying {
		return ErrPlayerNotFound
	}

	current := g.CurrentPlayer()
	p.IsPlaying = false
	p.IsReady = false
	g.Broadcast(&packet.ServerLeaveGame{GameID: g.ID, PlayerID: id})

	active := lo.Filter(g.Players, func(p *Player, _ int) bool { return p.IsPlaying })
	if len(active) <= 1 {
		var winner string
		if len(active) == 1 {
			winner = active[0].ID
		}
		g.finish(winner)
		return nil
	}
	if current == p || g.owesRentTo(current, id) {
		g.NextMove()
	}
	return nil
}

// owesRentTo reports whether the pending action is rent p owes to ownerID.
func (g *Game) owesRentTo(p *Player, ownerID string) bool {
	if _, ok := g.Action.(PayRentAction); !ok || p == nil {
		return false
	}
	c, ok := g.Fields[p.Field].(*Company)
	return ok && c.OwnerID == ownerID
}

func (g *Game) finish(winnerID string) {
	g.IsFinished = true
	g.Action = nil
	g.Broadcast(&packet.ServerGameEnd{GameID: g.ID, WinnerID: winnerID})
}

func (g *Game) SetReady(id string, ready bool) error {
	if g.IsStarted {
		return ErrGameAlreadyStarted
	}
	p, ok := g.Player(id)
	if !ok {
		return ErrPlayerNotFound
	}
	p.IsReady = ready
	g.Broadcast(&packet.ServerReady{GameID: g.ID, PlayerID: id, IsReady: ready})
	return nil
}

// CanStart reports whether the lobby has enough players and all are ready.
func (g *Game) CanStart() bool {
	if g.IsStarted || len(g.Players) < g.Settings.MinPlayers || len(g.Players) == 0 {
		return false
	}
	return lo.EveryBy(g.Players, func(p *Player) bool { return p.IsReady })
}

// Start lays out a fresh board, shuffles the turn order and opens the first
// move.
func (g *Game) Start(b Board) error {
	if g.IsStarted {
		return ErrGameAlreadyStarted
	}
	fields, err := b.Fields()
	if err != nil {
		return fmt.Errorf("building board: %w", err)
	}

	g.IsStarted = true
	g.Fields = fields
	g.Round = 0
	g.Move = 0
	g.Action = MoveAction{}
	lo.Shuffle(g.Players)
	for _, p := range g.Players {
		p.Field = 0
		p.IsPlaying = true
	}

	g.Broadcast(&packet.ServerGameStart{
		GameID: g.ID,
		Settings: packet.SettingsState{
			MinPlayers: g.Settings.MinPlayers,
			MaxPlayers: g.Settings.MaxPlayers,
			StartDelay: g.Settings.DelaySeconds(),
		},
		Players: g.PlayerStates(),
		Fields:  g.FieldStates(),
	})
	g.Broadcast(&packet.ServerGameMove{GameID: g.ID, Round: g.Round, Move: g.Move})
	return nil
}

// turn resolves the acting player and checks it is their move.
func (g *Game) turn(id string) (*Player, error) {
	if g.IsFinished {
		return nil, ErrGameFinished
	}
	if !g.IsStarted {
		return nil, ErrGameNotStarted
	}
	p, ok := g.Player(id)
	if !ok || !p.IsPlaying {
		return nil, ErrPlayerNotFound
	}
	if g.CurrentPlayer() != p {
		return nil, ErrNotYourTurn
	}
	return p, nil
}

func (g *Game) expect(t ActionType) error {
	if g.Action == nil || g.Action.Type() != t {
		return ErrGameInvalidAction
	}
	return nil
}

// MakeMove rolls for the current player. Prisoners only move on a double
// and are released after MaxPrisonTurns failed rolls.
func (g *Game) MakeMove(id string, r Roller) error {
	p, err := g.turn(id)
	if err != nil {
		return err
	}
	if err := g.expect(ActionMove); err != nil {
		return err
	}

	d := r.Roll()
	g.LastRoll = d
	g.Action = nil
	if d.IsDouble() {
		p.DoubleAmount++
	} else {
		p.DoubleAmount = 0
	}

	if p.IsImprisoned {
		if !d.IsDouble() {
			p.PrisonTurns++
			g.Broadcast(&packet.ServerPlayerMove{GameID: g.ID, PlayerID: p.ID, Dices: d, Field: p.Field})
			if p.PrisonTurns >= MaxPrisonTurns {
				p.release(g)
			}
			g.NextMove()
			return nil
		}
		p.release(g)
	}

	p.Move(g, d)
	if g.Action == nil {
		g.NextMove()
	}
	return nil
}

// standing checks field against the player's position after the generic
// field lookups so unknown indexes still report ErrFieldNotFound.
func (g *Game) standing(p *Player, field int) error {
	if _, err := g.Field(field); err != nil {
		return err
	}
	if p.Field != field {
		return ErrGameInvalidAction
	}
	return nil
}

func (g *Game) BuyField(id string, field int) error {
	p, err := g.turn(id)
	if err != nil {
		return err
	}
	if err := g.standing(p, field); err != nil {
		return err
	}
	if _, err := p.canBuy(g, field); err != nil {
		return err
	}
	if err := g.expect(ActionBuyField); err != nil {
		return err
	}
	if err := p.BuyField(g, field); err != nil {
		return err
	}
	g.NextMove()
	return nil
}

func (g *Game) PayRent(id string, field int) error {
	p, err := g.turn(id)
	if err != nil {
		return err
	}
	if err := g.standing(p, field); err != nil {
		return err
	}
	if err := p.PayRent(g, field); err != nil {
		return err
	}
	g.NextMove()
	return nil
}

func (g *Game) PayTax(id string, field int) error {
	p, err := g.turn(id)
	if err != nil {
		return err
	}
	if err := g.standing(p, field); err != nil {
		return err
	}
	if err := p.PayTax(g, field); err != nil {
		return err
	}
	g.NextMove()
	return nil
}

// EndTurn declines a pending purchase offer.
func (g *Game) EndTurn(id string) error {
	if _, err := g.turn(id); err != nil {
		return err
	}
	if err := g.expect(ActionBuyField); err != nil {
		return err
	}
	g.NextMove()
	return nil
}

// NextMove hands the turn to the next active player, bumping Round each
// time the order wraps, and opens a fresh move.
func (g *Game) NextMove() {
	n := len(g.Players)
	for range n {
		g.Move++
		if g.Move >= n {
			g.Move = 0
			g.Round++
		}
		if g.Players[g.Move].IsPlaying {
			break
		}
	}
	g.Action = MoveAction{}
	g.Broadcast(&packet.ServerGameMove{GameID: g.ID, Round: g.Round, Move: g.Move})
}

// Snapshot is the stored and served form of a game.
type Snapshot struct {
	GameID     string              `json:"game_id"`
	Settings   SettingsSnapshot    `json:"settings"`
	IsStarted  bool                `json:"is_started"`
	IsFinished bool                `json:"is_finished"`
	Round      int                 `json:"round"`
	Move       int                 `json:"move"`
	Action     *ActionSnapshot     `json:"action"`
	Players    []Player            `json:"players"`
	Fields     []packet.FieldState `json:"fields"`
	LastRoll   Dice                `json:"last_roll"`
}

// Snapshot copies the game state; the result shares nothing with g.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		GameID:     g.ID,
		Settings:   g.Settings.Snapshot(),
		IsStarted:  g.IsStarted,
		IsFinished: g.IsFinished,
		Round:      g.Round,
		Move:       g.Move,
		Action:     encodeAction(g.Action),
		Players:    lo.Map(g.Players, func(p *Player, _ int) Player { return *p }),
		Fields:     g.FieldStates(),
		LastRoll:   g.LastRoll,
	}
}

// Restore builds a game from a snapshot. The notifier is not part of the
// snapshot.
func Restore(s Snapshot) (*Game, error) {
	action, err := decodeAction(s.Action)
	if err != nil {
		return nil, err
	}
	fields, err := Board(s.Fields).Fields()
	if err != nil {
		return nil, err
	}
	return &Game{
		ID:         s.GameID,
		Settings:   s.Settings.Settings(),
		IsStarted:  s.IsStarted,
		IsFinished: s.IsFinished,
		Round:      s.Round,
		Move:       s.Move,
		Action:     action,
		Players:    lo.Map(s.Players, func(p Player, _ int) *Player { return &p }),
		Fields:     fields,
		LastRoll:   s.LastRoll,
	}, nil
}

func (g *Game) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Snapshot())
}

func (g *Game) UnmarshalJSON(data []byte) error {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	restored, err := Restore(s)
	if err != nil {
		return err
	}
	restored.notifier = g.notifier
	*g = *restored
	return nil
}

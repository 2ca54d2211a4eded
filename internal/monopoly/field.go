package monopoly

import (
	"fmt"

	"github.com/playperu/monopoly/internal/packet"
)

type FieldType string

const (
	FieldStart   FieldType = "start"
	FieldCompany FieldType = "company"
	FieldTax     FieldType = "tax"
	FieldPolice  FieldType = "police"
	FieldPrison  FieldType = "prison"
	FieldCasino  FieldType = "casino"
	FieldChance  FieldType = "chance"
)

// Field is one board tile. OnStand runs after a player lands on it and may
// set the game's pending action.
type Field interface {
	ID() int
	Type() FieldType
	OnStand(g *Game, p *Player, roll int)
	State() packet.FieldState
}

var fieldDecoders = map[FieldType]func(packet.FieldState) (Field, error){
	FieldStart:   func(s packet.FieldState) (Field, error) { return &Start{id: s.FieldID}, nil },
	FieldPolice:  func(s packet.FieldState) (Field, error) { return &Police{id: s.FieldID}, nil },
	FieldPrison:  func(s packet.FieldState) (Field, error) { return &Prison{id: s.FieldID}, nil },
	FieldCasino:  func(s packet.FieldState) (Field, error) { return &Casino{id: s.FieldID}, nil },
	FieldChance:  func(s packet.FieldState) (Field, error) { return &Chance{id: s.FieldID}, nil },
	FieldCompany: decodeCompany,
	FieldTax: func(s packet.FieldState) (Field, error) {
		if s.Tax == nil {
			return nil, fmt.Errorf("field %d: tax without tax state", s.FieldID)
		}
		return &Tax{id: s.FieldID, Amount: s.Tax.TaxAmount}, nil
	},
}

// NewField builds a field from its stored form.
func NewField(s packet.FieldState) (Field, error) {
	dec, ok := fieldDecoders[FieldType(s.FieldType)]
	if !ok {
		return nil, fmt.Errorf("field %d: unknown field type %q", s.FieldID, s.FieldType)
	}
	return dec(s)
}

func plainState(id int, t FieldType) packet.FieldState {
	return packet.FieldState{FieldID: id, FieldType: string(t)}
}

type Start struct{ id int }

func (f *Start) ID() int                  { return f.id }
func (f *Start) Type() FieldType          { return FieldStart }
func (f *Start) State() packet.FieldState { return plainState(f.id, FieldStart) }

func (f *Start) OnStand(g *Game, p *Player, _ int) {
	p.Balance += g.Settings.StartReward
	g.Broadcast(&packet.ServerStartReward{
		GameID:   g.ID,
		PlayerID: p.ID,
		Amount:   g.Settings.StartReward,
		Balance:  p.Balance,
	})
}

type Tax struct {
	id     int
	Amount int
}

func (f *Tax) ID() int         { return f.id }
func (f *Tax) Type() FieldType { return FieldTax }

func (f *Tax) State() packet.FieldState {
	s := plainState(f.id, FieldTax)
	s.Tax = &packet.TaxState{TaxAmount: f.Amount}
	return s
}

func (f *Tax) OnStand(g *Game, p *Player, _ int) {
	g.Action = PayTaxAction{Amount: f.Amount}
	g.Notify(p.ID, &packet.ServerMustPayTax{
		GameID:   g.ID,
		PlayerID: p.ID,
		Field:    f.id,
		Amount:   f.Amount,
	})
}

// Police sends the player to the first prison on the board.
type Police struct{ id int }

func (f *Police) ID() int                  { return f.id }
func (f *Police) Type() FieldType          { return FieldPolice }
func (f *Police) State() packet.FieldState { return plainState(f.id, FieldPolice) }

func (f *Police) OnStand(g *Game, p *Player, _ int) {
	p.IsImprisoned = true
	p.PrisonTurns = 0
	if prison, ok := g.PrisonField(); ok {
		p.Field = prison
	}
	g.Broadcast(&packet.ServerImprisoned{
		GameID:        g.ID,
		PlayerID:      p.ID,
		Field:         p.Field,
		ImprisonCause: packet.ImprisonCausePolice,
	})
}

// Prison is only visited when standing on it directly.
type Prison struct{ id int }

func (f *Prison) ID() int                  { return f.id }
func (f *Prison) Type() FieldType          { return FieldPrison }
func (f *Prison) State() packet.FieldState { return plainState(f.id, FieldPrison) }
func (f *Prison) OnStand(*Game, *Player, int) {}

type Casino struct{ id int }

func (f *Casino) ID() int                  { return f.id }
func (f *Casino) Type() FieldType          { return FieldCasino }
func (f *Casino) State() packet.FieldState { return plainState(f.id, FieldCasino) }
func (f *Casino) OnStand(*Game, *Player, int) {}

type Chance struct{ id int }

func (f *Chance) ID() int                  { return f.id }
func (f *Chance) Type() FieldType          { return FieldChance }
func (f *Chance) State() packet.FieldState { return plainState(f.id, FieldChance) }
func (f *Chance) OnStand(*Game, *Player, int) {}

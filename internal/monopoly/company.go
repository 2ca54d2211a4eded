package monopoly

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/playperu/monopoly/internal/packet"
)

// Company is a purchasable field. Exactly one of IsMonopoly,
// FieldDependant and DiceDependant picks the rent policy; none of them
// means a flat Rent[0].
type Company struct {
	id int

	// OwnerID is empty while the company is unowned.
	OwnerID        string
	IsMonopoly     bool
	FieldDependant bool
	DiceDependant  bool
	Rent           []int
	// Mortgage is -1 while not mortgaged.
	Mortgage      int
	Filiation     int
	Cost          int
	MortgageCost  int
	BuyoutCost    int
	FiliationCost int
}

func decodeCompany(s packet.FieldState) (Field, error) {
	if s.Company == nil {
		return nil, fmt.Errorf("field %d: company without company state", s.FieldID)
	}
	c := s.Company
	return &Company{
		id:             s.FieldID,
		OwnerID:        lo.FromPtr(c.OwnerID),
		IsMonopoly:     c.IsMonopoly,
		FieldDependant: c.FieldDependant,
		DiceDependant:  c.DiceDependant,
		Rent:           slices.Clone(c.Rent),
		Mortgage:       c.Mortgage,
		Filiation:      c.Filiation,
		Cost:           c.Cost,
		MortgageCost:   c.MortgageCost,
		BuyoutCost:     c.BuyoutCost,
		FiliationCost:  c.FiliationCost,
	}, nil
}

func (c *Company) ID() int         { return c.id }
func (c *Company) Type() FieldType { return FieldCompany }

func (c *Company) State() packet.FieldState {
	s := plainState(c.id, FieldCompany)
	s.Company = &packet.CompanyState{
		OwnerID:        lo.EmptyableToPtr(c.OwnerID),
		IsMonopoly:     c.IsMonopoly,
		FieldDependant: c.FieldDependant,
		DiceDependant:  c.DiceDependant,
		Rent:           slices.Clone(c.Rent),
		Mortgage:       c.Mortgage,
		Filiation:      c.Filiation,
		Cost:           c.Cost,
		MortgageCost:   c.MortgageCost,
		BuyoutCost:     c.BuyoutCost,
		FiliationCost:  c.FiliationCost,
	}
	return s
}

func (c *Company) Owned() bool     { return c.OwnerID != "" }
func (c *Company) Mortgaged() bool { return c.Mortgage >= 0 }

// OnStand offers an unowned company to the player, or asks for rent when
// another active player owns it.
func (c *Company) OnStand(g *Game, p *Player, roll int) {
	if !c.Owned() {
		g.Action = BuyFieldAction{Cost: c.Cost}
		g.Notify(p.ID, &packet.ServerBuyFieldOffer{
			GameID:   g.ID,
			PlayerID: p.ID,
			Field:    c.id,
			Cost:     c.Cost,
		})
		return
	}
	if c.OwnerID == p.ID || c.Mortgaged() {
		return
	}
	if owner, ok := g.Player(c.OwnerID); !ok || !owner.IsPlaying {
		return
	}

	amount := c.StandAmount(g, roll)
	if amount <= 0 {
		return
	}
	g.Action = PayRentAction{Amount: amount}
	g.Notify(p.ID, &packet.ServerMustPayRent{
		GameID:   g.ID,
		PlayerID: p.ID,
		Field:    c.id,
		Amount:   amount,
	})
}

// StandAmount is the rent owed for standing on c with the given dice total.
// Tiers past the end of Rent resolve to 0.
func (c *Company) StandAmount(g *Game, roll int) int {
	switch {
	case c.FieldDependant:
		return c.tier(c.sameOwnerCount(g, func(o *Company) bool { return o.FieldDependant }) - 1)
	case c.DiceDependant:
		return c.tier(c.sameOwnerCount(g, func(o *Company) bool { return o.DiceDependant }) - 1) * roll
	case c.IsMonopoly:
		if c.Filiation == 0 {
			return c.tier(0) * 2
		}
		return c.tier(c.Filiation)
	default:
		return c.tier(0)
	}
}

func (c *Company) sameOwnerCount(g *Game, kind func(*Company) bool) int {
	return lo.CountBy(g.Fields, func(f Field) bool {
		o, ok := f.(*Company)
		return ok && o.OwnerID == c.OwnerID && kind(o)
	})
}

func (c *Company) tier(i int) int {
	if i < 0 || i >= len(c.Rent) {
		return 0
	}
	return c.Rent[i]
}

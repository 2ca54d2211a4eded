package monopoly

import "github.com/playperu/monopoly/internal/packet"

// MaxPrisonTurns is how many failed rolls a prisoner waits before release.
const MaxPrisonTurns = 3

type Player struct {
	ID             string `json:"player_id"`
	Username       string `json:"username"`
	Balance        int    `json:"balance"`
	Field          int    `json:"field"`
	IsReady        bool   `json:"is_ready"`
	IsPlaying      bool   `json:"is_playing"`
	IsImprisoned   bool   `json:"is_imprisoned"`
	PrisonTurns    int    `json:"prison_turns"`
	// DoubleAmount counts consecutive doubles; it is informational only.
	DoubleAmount   int    `json:"double_amount"`
	ContractAmount int    `json:"contract_amount"`
}

func (p *Player) State() packet.PlayerState {
	return packet.PlayerState{
		PlayerID: p.ID,
		Username: p.Username,
		Balance:  p.Balance,
		Field:    p.Field,
	}
}

// Move advances p by the dice total, credits the start bonus on a wrap and
// resolves the landing field.
func (p *Player) Move(g *Game, d Dice) {
	n := len(g.Fields)
	if n == 0 {
		return
	}
	total := d.Total()
	target := p.Field + total
	if target >= n && g.Round <= g.Settings.StartBonusRounds {
		p.Balance += g.Settings.StartBonus
		g.Broadcast(&packet.ServerStartBonus{
			GameID:   g.ID,
			PlayerID: p.ID,
			Amount:   g.Settings.StartBonus,
			Balance:  p.Balance,
		})
	}
	p.Field = target % n
	g.Broadcast(&packet.ServerPlayerMove{
		GameID:   g.ID,
		PlayerID: p.ID,
		Dices:    d,
		Field:    p.Field,
	})
	g.Fields[p.Field].OnStand(g, p, total)
}

func (p *Player) release(g *Game) {
	p.IsImprisoned = false
	p.PrisonTurns = 0
	g.Broadcast(&packet.ServerReleased{GameID: g.ID, PlayerID: p.ID})
}

// BuyField purchases the company at index field for its cost.
func (p *Player) BuyField(g *Game, field int) error {
	c, err := p.canBuy(g, field)
	if err != nil {
		return err
	}

	p.Balance -= c.Cost
	c.OwnerID = p.ID
	g.Broadcast(&packet.ServerBoughtField{
		GameID:   g.ID,
		PlayerID: p.ID,
		Field:    field,
		Balance:  p.Balance,
	})
	return nil
}

func (p *Player) canBuy(g *Game, field int) (*Company, error) {
	f, err := g.Field(field)
	if err != nil {
		return nil, err
	}
	c, ok := f.(*Company)
	if !ok {
		return nil, ErrInvalidFieldType
	}
	if c.Owned() {
		return nil, ErrFieldAlreadyOwned
	}
	if p.Balance < c.Cost {
		return nil, ErrNotEnoughBalance
	}
	return c, nil
}

// PayRent settles the pending rent for the company at index field.
func (p *Player) PayRent(g *Game, field int) error {
	f, err := g.Field(field)
	if err != nil {
		return err
	}
	c, ok := f.(*Company)
	if !ok {
		return ErrInvalidFieldType
	}
	if !c.Owned() {
		return ErrFieldNotOwned
	}
	if c.OwnerID == p.ID {
		return ErrFieldAlreadyOwned
	}
	rent, ok := g.Action.(PayRentAction)
	if !ok {
		return ErrGameInvalidAction
	}
	owner, ok := g.Player(c.OwnerID)
	if !ok {
		return ErrPlayerNotFound
	}
	if p.Balance < rent.Amount {
		return ErrNotEnoughBalance
	}

	p.Balance -= rent.Amount
	owner.Balance += rent.Amount
	g.Broadcast(&packet.ServerPayRent{
		GameID:        g.ID,
		PlayerID:      p.ID,
		OwnerID:       owner.ID,
		Field:         field,
		PlayerBalance: p.Balance,
		OwnerBalance:  owner.Balance,
	})
	return nil
}

// PayTax pays the fixed amount of the tax field at index field.
func (p *Player) PayTax(g *Game, field int) error {
	f, err := g.Field(field)
	if err != nil {
		return err
	}
	t, ok := f.(*Tax)
	if !ok {
		return ErrInvalidFieldType
	}
	if _, ok := g.Action.(PayTaxAction); !ok {
		return ErrGameInvalidAction
	}
	if p.Balance < t.Amount {
		return ErrNotEnoughBalance
	}

	p.Balance -= t.Amount
	g.Broadcast(&packet.ServerPayTax{GameID: g.ID, PlayerID: p.ID, Balance: p.Balance})
	return nil
}

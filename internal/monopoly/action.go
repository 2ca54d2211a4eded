package monopoly

import "fmt"

type ActionType string

const (
	ActionMove              ActionType = "move"
	ActionBuyField          ActionType = "buy_field"
	ActionBuyFieldOnAuction ActionType = "buy_field_on_auction"
	ActionPayRent           ActionType = "pay_rent"
	ActionPayChance         ActionType = "pay_chance"
	ActionPayTax            ActionType = "pay_tax"
	ActionPayPrison         ActionType = "pay_prison"
	ActionPrison            ActionType = "prison"
	ActionCasino            ActionType = "casino"
	ActionContract          ActionType = "contract"
)

// Action is the single decision a game is waiting on.
type Action interface {
	Type() ActionType
}

type MoveAction struct{}

type BuyFieldAction struct{ Cost int }

type BuyFieldOnAuctionAction struct {
	Cost   int
	Player int
}

type PayRentAction struct{ Amount int }

type PayChanceAction struct{ Amount int }

type PayTaxAction struct{ Amount int }

type PayPrisonAction struct{ Amount int }

type PrisonAction struct{}

type CasinoAction struct{}

type ContractAction struct{}

func (MoveAction) Type() ActionType              { return ActionMove }
func (BuyFieldAction) Type() ActionType          { return ActionBuyField }
func (BuyFieldOnAuctionAction) Type() ActionType { return ActionBuyFieldOnAuction }
func (PayRentAction) Type() ActionType           { return ActionPayRent }
func (PayChanceAction) Type() ActionType         { return ActionPayChance }
func (PayTaxAction) Type() ActionType            { return ActionPayTax }
func (PayPrisonAction) Type() ActionType         { return ActionPayPrison }
func (PrisonAction) Type() ActionType            { return ActionPrison }
func (CasinoAction) Type() ActionType            { return ActionCasino }
func (ContractAction) Type() ActionType          { return ActionContract }

// ActionSnapshot is the stored form of an Action.
type ActionSnapshot struct {
	ActionType ActionType `json:"action_type"`
	Cost       int        `json:"cost,omitempty"`
	Amount     int        `json:"amount,omitempty"`
	Player     int        `json:"player,omitempty"`
}

var actionDecoders = map[ActionType]func(ActionSnapshot) Action{
	ActionMove:     func(ActionSnapshot) Action { return MoveAction{} },
	ActionBuyField: func(s ActionSnapshot) Action { return BuyFieldAction{Cost: s.Cost} },
	ActionBuyFieldOnAuction: func(s ActionSnapshot) Action {
		return BuyFieldOnAuctionAction{Cost: s.Cost, Player: s.Player}
	},
	ActionPayRent:   func(s ActionSnapshot) Action { return PayRentAction{Amount: s.Amount} },
	ActionPayChance: func(s ActionSnapshot) Action { return PayChanceAction{Amount: s.Amount} },
	ActionPayTax:    func(s ActionSnapshot) Action { return PayTaxAction{Amount: s.Amount} },
	ActionPayPrison: func(s ActionSnapshot) Action { return PayPrisonAction{Amount: s.Amount} },
	ActionPrison:    func(ActionSnapshot) Action { return PrisonAction{} },
	ActionCasino:    func(ActionSnapshot) Action { return CasinoAction{} },
	ActionContract:  func(ActionSnapshot) Action { return ContractAction{} },
}

func encodeAction(a Action) *ActionSnapshot {
	if a == nil {
		return nil
	}
	s := &ActionSnapshot{ActionType: a.Type()}
	switch a := a.(type) {
	case BuyFieldAction:
		s.Cost = a.Cost
	case BuyFieldOnAuctionAction:
		s.Cost, s.Player = a.Cost, a.Player
	case PayRentAction:
		s.Amount = a.Amount
	case PayChanceAction:
		s.Amount = a.Amount
	case PayTaxAction:
		s.Amount = a.Amount
	case PayPrisonAction:
		s.Amount = a.Amount
	}
	return s
}

func decodeAction(s *ActionSnapshot) (Action, error) {
	if s == nil {
		return nil, nil
	}
	dec, ok := actionDecoders[s.ActionType]
	if !ok {
		return nil, fmt.Errorf("unknown action type %q", s.ActionType)
	}
	return dec(*s), nil
}

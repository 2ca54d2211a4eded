package monopoly

import (
	"slices"
	"strings"
	"testing"

	"github.com/playperu/monopoly/internal/packet"
)

type delivery struct {
	to string
	p  packet.Server
}

type recorder struct {
	sent []delivery
}

func (r *recorder) Notify(playerID string, p packet.Server) {
	r.sent = append(r.sent, delivery{to: playerID, p: p})
}

// tags lists the packet tags delivered to playerID, in order.
func (r *recorder) tags(playerID string) []string {
	var tags []string
	for _, d := range r.sent {
		if d.to == playerID {
			tags = append(tags, d.p.Tag())
		}
	}
	return tags
}

func (r *recorder) reset() { r.sent = nil }

func fixed(a, b int) Roller {
	return RollerFunc(func() Dice { return Dice{a, b} })
}

// testBoard is a 12 field loop:
//
//	0 start, 1 chance, 2 company (rent 50, cost 200), 3 tax 300,
//	4 chance, 5 police, 6 prison, 7-8 railways, 9 utility, 10-11 chance
func testBoard() Board {
	return Board{
		{FieldID: 0, FieldType: "start"},
		{FieldID: 1, FieldType: "chance"},
		{FieldID: 2, FieldType: "company", Company: &packet.CompanyState{Rent: []int{50}, Mortgage: -1, Cost: 200}},
		{FieldID: 3, FieldType: "tax", Tax: &packet.TaxState{TaxAmount: 300}},
		{FieldID: 4, FieldType: "chance"},
		{FieldID: 5, FieldType: "police"},
		{FieldID: 6, FieldType: "prison"},
		{FieldID: 7, FieldType: "company", Company: &packet.CompanyState{FieldDependant: true, Rent: []int{100, 200}, Mortgage: -1, Cost: 400}},
		{FieldID: 8, FieldType: "company", Company: &packet.CompanyState{FieldDependant: true, Rent: []int{100, 200}, Mortgage: -1, Cost: 400}},
		{FieldID: 9, FieldType: "company", Company: &packet.CompanyState{DiceDependant: true, Rent: []int{10, 25}, Mortgage: -1, Cost: 300}},
		{FieldID: 10, FieldType: "chance"},
		{FieldID: 11, FieldType: "chance"},
	}
}

func testSettings() Settings {
	s := DefaultSettings()
	s.StartDelay = 0
	return s
}

// startedGame joins ids in order, starts on testBoard and undoes the
// shuffle so Players[i] is ids[i].
func startedGame(t *testing.T, ids ...string) (*Game, *recorder) {
	t.Helper()
	rec := &recorder{}
	g := NewGame("g1", testSettings())
	g.SetNotifier(rec)
	for _, id := range ids {
		if _, err := g.Join(id, strings.ToUpper(id)); err != nil {
			t.Fatalf("join %s: %v", id, err)
		}
		if err := g.SetReady(id, true); err != nil {
			t.Fatalf("ready %s: %v", id, err)
		}
	}
	if err := g.Start(testBoard()); err != nil {
		t.Fatalf("start: %v", err)
	}
	slices.SortFunc(g.Players, func(a, b *Player) int { return strings.Compare(a.ID, b.ID) })
	rec.reset()
	return g, rec
}

func company(t *testing.T, g *Game, i int) *Company {
	t.Helper()
	c, ok := g.Fields[i].(*Company)
	if !ok {
		t.Fatalf("field %d is %T, want *Company", i, g.Fields[i])
	}
	return c
}

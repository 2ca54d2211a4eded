package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/playperu/monopoly/internal/database"
	"github.com/playperu/monopoly/internal/kv"
	"github.com/playperu/monopoly/internal/migrations"
	"github.com/playperu/monopoly/internal/monopoly"
	"github.com/playperu/monopoly/internal/packet"
)

type recorder struct {
	mu   sync.Mutex
	sent map[string][]packet.Server
}

func (r *recorder) Notify(playerID string, p packet.Server) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sent == nil {
		r.sent = make(map[string][]packet.Server)
	}
	r.sent[playerID] = append(r.sent[playerID], p)
}

func (r *recorder) count(playerID, tag string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.sent[playerID] {
		if p.Tag() == tag {
			n++
		}
	}
	return n
}

func (r *recorder) last(playerID, tag string) packet.Server {
	r.mu.Lock()
	defer r.mu.Unlock()
	sent := r.sent[playerID]
	for i := len(sent) - 1; i >= 0; i-- {
		if sent[i].Tag() == tag {
			return sent[i]
		}
	}
	return nil
}

func testStore(t *testing.T) kv.Store {
	t.Helper()
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	return kv.NewSQLiteStore(db)
}

// testBoard puts an unowned company of cost 200 two steps from start.
func testBoard() monopoly.Board {
	return monopoly.Board{
		{FieldID: 0, FieldType: "start"},
		{FieldID: 1, FieldType: "chance"},
		{FieldID: 2, FieldType: "company", Company: &packet.CompanyState{Rent: []int{50}, Mortgage: -1, Cost: 200}},
		{FieldID: 3, FieldType: "chance"},
	}
}

func newTestManager(t *testing.T, store kv.Store, delay time.Duration) (*Manager, *recorder) {
	t.Helper()
	settings := monopoly.DefaultSettings()
	settings.StartDelay = delay
	rec := &recorder{}
	m := NewManager(Options{
		Store:    store,
		Notifier: rec,
		Board:    testBoard(),
		Settings: settings,
		Roller:   monopoly.RollerFunc(func() monopoly.Dice { return monopoly.Dice{1, 1} }),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(m.Close)
	return m, rec
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func started(t *testing.T, m *Manager, id string) func() bool {
	return func() bool {
		g, err := m.Get(context.Background(), id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		return g.IsStarted
	}
}

func TestCreateGetListDelete(t *testing.T) {
	m, _ := newTestManager(t, testStore(t), time.Hour)
	ctx := context.Background()

	g, err := m.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := m.Get(ctx, g.GameID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.GameID != g.GameID || got.IsStarted || got.Settings.MaxPlayers != 5 {
		t.Errorf("game = %+v", got)
	}

	ids, err := m.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !slices.Equal(ids, []string{g.GameID}) {
		t.Errorf("ids = %v", ids)
	}

	if err := m.Delete(ctx, g.GameID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := m.Get(ctx, g.GameID); !errors.Is(err, monopoly.ErrGameNotFound) {
		t.Errorf("get deleted: err = %v", err)
	}
	if err := m.Delete(ctx, g.GameID); !errors.Is(err, monopoly.ErrGameNotFound) {
		t.Errorf("delete twice: err = %v", err)
	}
	if err := m.Join(ctx, "missing", "u1", "maria"); !errors.Is(err, monopoly.ErrGameNotFound) {
		t.Errorf("join missing: err = %v", err)
	}
}

func TestCountdownLifecycle(t *testing.T) {
	m, rec := newTestManager(t, testStore(t), time.Hour)
	ctx := context.Background()
	g, _ := m.Create(ctx)

	m.Join(ctx, g.GameID, "a", "A")
	if n := rec.count("a", "game_countdown_start"); n != 0 {
		t.Fatalf("countdown started for an unready lobby")
	}

	m.SetReady(ctx, g.GameID, "a", true)
	if n := rec.count("a", "game_countdown_start"); n != 1 {
		t.Fatalf("countdown starts = %d, want 1", n)
	}
	// Re-sending ready while counting down does not start a second one.
	m.SetReady(ctx, g.GameID, "a", true)
	if n := rec.count("a", "game_countdown_start"); n != 1 {
		t.Errorf("countdown starts after repeat ready = %d, want 1", n)
	}

	m.Join(ctx, g.GameID, "b", "B")
	if n := rec.count("a", "game_countdown_stop"); n != 1 {
		t.Errorf("countdown stops after unready join = %d, want 1", n)
	}

	m.SetReady(ctx, g.GameID, "b", true)
	if n := rec.count("b", "game_countdown_start"); n != 1 {
		t.Errorf("b countdown starts = %d, want 1", n)
	}
	m.SetReady(ctx, g.GameID, "a", false)
	// b saw the stop caused by its own join, then this one.
	if n := rec.count("b", "game_countdown_stop"); n != 2 {
		t.Errorf("b countdown stops = %d, want 2", n)
	}
	if n := rec.count("a", "game_countdown_start"); n != 2 {
		t.Errorf("a countdown starts = %d, want 2", n)
	}
}

func TestCancelledCountdownDoesNotStart(t *testing.T) {
	m, _ := newTestManager(t, testStore(t), 50*time.Millisecond)
	ctx := context.Background()
	g, _ := m.Create(ctx)

	m.Join(ctx, g.GameID, "a", "A")
	m.SetReady(ctx, g.GameID, "a", true)
	m.SetReady(ctx, g.GameID, "a", false)

	time.Sleep(150 * time.Millisecond)
	if started(t, m, g.GameID)() {
		t.Fatal("cancelled countdown started the game")
	}

	// A fresh countdown gets the full delay again and fires.
	m.SetReady(ctx, g.GameID, "a", true)
	waitFor(t, "game start", started(t, m, g.GameID))
}

func TestEndToEnd(t *testing.T) {
	m, rec := newTestManager(t, testStore(t), 20*time.Millisecond)
	ctx := context.Background()
	g, _ := m.Create(ctx)

	if err := m.Join(ctx, g.GameID, "a", "A"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := m.SetReady(ctx, g.GameID, "a", true); err != nil {
		t.Fatalf("ready: %v", err)
	}
	waitFor(t, "game start", started(t, m, g.GameID))

	got, _ := m.Get(ctx, g.GameID)
	if got.Move != 0 || got.Round != 0 || got.Action == nil || got.Action.ActionType != monopoly.ActionMove {
		t.Fatalf("started game: move=%d round=%d action=%#v", got.Move, got.Round, got.Action)
	}
	if rec.count("a", "game_start") != 1 || rec.count("a", "game_move") != 1 {
		t.Errorf("start broadcasts missing")
	}

	if err := m.Move(ctx, g.GameID, "a"); err != nil {
		t.Fatalf("move: %v", err)
	}
	if rec.count("a", "player_move") != 1 {
		t.Error("no player_move broadcast")
	}
	offer, ok := rec.last("a", "player_buy_field").(*packet.ServerBuyFieldOffer)
	if !ok || offer.Cost != 200 || offer.Field != 2 {
		t.Fatalf("offer = %#v", offer)
	}

	if err := m.BuyField(ctx, g.GameID, "a", 2); err != nil {
		t.Fatalf("buy: %v", err)
	}
	got, _ = m.Get(ctx, g.GameID)
	if got.Players[0].Balance != 14800 {
		t.Errorf("balance = %d", got.Players[0].Balance)
	}
	if err := m.Move(ctx, g.GameID, "b"); !errors.Is(err, monopoly.ErrPlayerNotFound) {
		t.Errorf("move by stranger: err = %v", err)
	}
}

func TestRestoreFromStore(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	first, _ := newTestManager(t, store, time.Hour)
	g, _ := first.Create(ctx)
	first.Join(ctx, g.GameID, "a", "A")
	first.Join(ctx, g.GameID, "b", "B")
	first.SetReady(ctx, g.GameID, "b", true)

	second, rec := newTestManager(t, store, time.Hour)
	got, err := second.Get(ctx, g.GameID)
	if err != nil {
		t.Fatalf("get from a fresh manager: %v", err)
	}
	if len(got.Players) != 2 || !got.Players[1].IsReady {
		t.Errorf("players = %+v", got.Players)
	}

	// The restored game broadcasts through the new manager's notifier.
	if err := second.SetReady(ctx, g.GameID, "a", true); err != nil {
		t.Fatalf("ready: %v", err)
	}
	if rec.count("b", "server_player_ready") != 1 || rec.count("b", "game_countdown_start") != 1 {
		t.Errorf("b did not see the ready and countdown")
	}
}

func TestDeleteCancelsCountdown(t *testing.T) {
	store := testStore(t)
	m, _ := newTestManager(t, store, 30*time.Millisecond)
	ctx := context.Background()
	g, _ := m.Create(ctx)

	m.Join(ctx, g.GameID, "a", "A")
	m.SetReady(ctx, g.GameID, "a", true)
	if err := m.Delete(ctx, g.GameID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if ok, _ := store.Exists(ctx, kv.GameKey(g.GameID)); ok {
		t.Error("countdown resurrected a deleted game")
	}
}

// flakyStore fails every write while failing is set.
type flakyStore struct {
	kv.Store
	mu      sync.Mutex
	failing bool
}

func (s *flakyStore) setFailing(v bool) {
	s.mu.Lock()
	s.failing = v
	s.mu.Unlock()
}

func (s *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	failing := s.failing
	s.mu.Unlock()
	if failing {
		return errors.New("disk full")
	}
	return s.Store.Set(ctx, key, value)
}

func TestFailedWriteKeepsLiveState(t *testing.T) {
	store := &flakyStore{Store: testStore(t)}
	m, rec := newTestManager(t, store, time.Hour)
	ctx := context.Background()
	g, _ := m.Create(ctx)
	m.Join(ctx, g.GameID, "a", "A")

	store.setFailing(true)
	if err := m.Join(ctx, g.GameID, "b", "B"); err != nil {
		t.Fatalf("join with a failing store: err = %v", err)
	}
	if rec.count("a", "server_player_join_game") != 2 {
		t.Error("join was not broadcast")
	}
	got, _ := m.Get(ctx, g.GameID)
	if len(got.Players) != 2 {
		t.Fatalf("live players = %d, want 2", len(got.Players))
	}

	// The next successful write catches the store up.
	store.setFailing(false)
	if err := m.SetReady(ctx, g.GameID, "a", true); err != nil {
		t.Fatalf("ready: %v", err)
	}
	fresh, _ := newTestManager(t, store, time.Hour)
	stored, err := fresh.Get(ctx, g.GameID)
	if err != nil {
		t.Fatalf("get from store: %v", err)
	}
	if len(stored.Players) != 2 || !stored.Players[0].IsReady {
		t.Errorf("stored players = %+v", stored.Players)
	}
}

func TestNoCountdownAfterClose(t *testing.T) {
	m, rec := newTestManager(t, testStore(t), 10*time.Millisecond)
	ctx := context.Background()
	g, _ := m.Create(ctx)
	m.Join(ctx, g.GameID, "a", "A")

	m.Close()
	if err := m.SetReady(ctx, g.GameID, "a", true); err != nil {
		t.Fatalf("ready: %v", err)
	}
	if n := rec.count("a", "game_countdown_start"); n != 0 {
		t.Errorf("countdown starts after close = %d, want 0", n)
	}

	time.Sleep(50 * time.Millisecond)
	if started(t, m, g.GameID)() {
		t.Error("closed manager started a game")
	}
}

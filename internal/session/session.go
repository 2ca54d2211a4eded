// Package session owns the live games. Every mutation of a game, whether
// from a packet or from its start countdown, runs under that game's mutex
// and is persisted before the lock is released.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/monopoly/internal/kv"
	"github.com/playperu/monopoly/internal/monopoly"
	"github.com/playperu/monopoly/internal/packet"
)

const persistTimeout = 5 * time.Second

type Options struct {
	Store    kv.Store
	Notifier monopoly.Notifier
	Board    monopoly.Board
	Settings monopoly.Settings
	// Roller defaults to monopoly.RandomRoller.
	Roller monopoly.Roller
	Logger *slog.Logger
}

type Manager struct {
	store    kv.Store
	notifier monopoly.Notifier
	board    monopoly.Board
	settings monopoly.Settings
	roller   monopoly.Roller
	logger   *slog.Logger

	mu    sync.RWMutex
	games map[string]*entry

	// closeMu orders countdowns.Add against Close so no countdown starts
	// once Close is waiting.
	closeMu    sync.Mutex
	closed     bool
	countdowns sync.WaitGroup
}

// entry is one live game. gen identifies the outstanding countdown so a
// superseded one that already woke up does nothing.
type entry struct {
	mu        sync.Mutex
	game      *monopoly.Game
	countdown context.CancelFunc
	gen       uint64
	deleted   bool
}

func NewManager(opts Options) *Manager {
	if opts.Roller == nil {
		opts.Roller = monopoly.RandomRoller
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Manager{
		store:    opts.Store,
		notifier: opts.Notifier,
		board:    opts.Board,
		settings: opts.Settings,
		roller:   opts.Roller,
		logger:   opts.Logger,
		games:    make(map[string]*entry),
	}
}

func (m *Manager) Create(ctx context.Context) (monopoly.Snapshot, error) {
	g := monopoly.NewGame(uuid.NewString(), m.settings)
	g.SetNotifier(m.notifier)
	e := &entry{game: g}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := m.persist(ctx, e); err != nil {
		return monopoly.Snapshot{}, err
	}

	m.mu.Lock()
	m.games[g.ID] = e
	m.mu.Unlock()

	m.logger.Info("game created", "game_id", g.ID)
	return g.Snapshot(), nil
}

func (m *Manager) Get(ctx context.Context, id string) (monopoly.Snapshot, error) {
	var s monopoly.Snapshot
	err := m.read(ctx, id, func(g *monopoly.Game) error {
		s = g.Snapshot()
		return nil
	})
	return s, err
}

// List returns the ids of all stored games.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	keys, err := m.store.Keys(ctx, kv.GameKey("*"))
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, kv.GameKey("")))
	}
	return ids, nil
}

// Delete drops a game and cancels its countdown.
func (m *Manager) Delete(ctx context.Context, id string) error {
	e, err := m.load(ctx, id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return monopoly.ErrGameNotFound
	}
	m.stopCountdown(e)
	if err := m.store.Delete(ctx, kv.GameKey(id)); err != nil {
		return fmt.Errorf("deleting game %s: %w", id, err)
	}
	e.deleted = true

	m.mu.Lock()
	delete(m.games, id)
	m.mu.Unlock()

	m.logger.Info("game deleted", "game_id", id)
	return nil
}

func (m *Manager) Join(ctx context.Context, id, userID, username string) error {
	return m.update(ctx, id, func(e *entry) error {
		if _, err := e.game.Join(userID, username); err != nil {
			return err
		}
		m.evaluate(e)
		return nil
	})
}

func (m *Manager) Leave(ctx context.Context, id, userID string) error {
	return m.update(ctx, id, func(e *entry) error {
		if err := e.game.Leave(userID); err != nil {
			return err
		}
		m.evaluate(e)
		return nil
	})
}

func (m *Manager) SetReady(ctx context.Context, id, userID string, ready bool) error {
	return m.update(ctx, id, func(e *entry) error {
		if err := e.game.SetReady(userID, ready); err != nil {
			return err
		}
		m.evaluate(e)
		return nil
	})
}

func (m *Manager) Move(ctx context.Context, id, userID string) error {
	return m.update(ctx, id, func(e *entry) error {
		return e.game.MakeMove(userID, m.roller)
	})
}

func (m *Manager) BuyField(ctx context.Context, id, userID string, field int) error {
	return m.update(ctx, id, func(e *entry) error {
		return e.game.BuyField(userID, field)
	})
}

func (m *Manager) PayRent(ctx context.Context, id, userID string, field int) error {
	return m.update(ctx, id, func(e *entry) error {
		return e.game.PayRent(userID, field)
	})
}

func (m *Manager) PayTax(ctx context.Context, id, userID string, field int) error {
	return m.update(ctx, id, func(e *entry) error {
		return e.game.PayTax(userID, field)
	})
}

func (m *Manager) EndTurn(ctx context.Context, id, userID string) error {
	return m.update(ctx, id, func(e *entry) error {
		return e.game.EndTurn(userID)
	})
}

// Close cancels every outstanding countdown and waits for them to exit.
// Lobbies that become ready afterwards get no countdown.
func (m *Manager) Close() {
	m.closeMu.Lock()
	m.closed = true
	m.closeMu.Unlock()

	m.mu.RLock()
	entries := make([]*entry, 0, len(m.games))
	for _, e := range m.games {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	for _, e := range entries {
		e.mu.Lock()
		m.stopCountdown(e)
		e.mu.Unlock()
	}
	m.countdowns.Wait()
}

// update runs fn under the game lock and persists the game if fn succeeds.
// Game operations leave no partial state behind on error. A failed write is
// logged but not returned: fn has already changed and broadcast the state,
// so the live game stays authoritative and the next successful update
// stores it.
func (m *Manager) update(ctx context.Context, id string, fn func(*entry) error) error {
	e, err := m.load(ctx, id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return monopoly.ErrGameNotFound
	}
	if err := fn(e); err != nil {
		return err
	}
	if err := m.persist(ctx, e); err != nil {
		m.logger.Error("persisting game", "game_id", id, "error", err)
	}
	return nil
}

func (m *Manager) read(ctx context.Context, id string, fn func(*monopoly.Game) error) error {
	e, err := m.load(ctx, id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return monopoly.ErrGameNotFound
	}
	return fn(e.game)
}

// load returns the live entry for id, restoring it from the store on first
// use.
func (m *Manager) load(ctx context.Context, id string) (*entry, error) {
	m.mu.RLock()
	e, ok := m.games[id]
	m.mu.RUnlock()
	if ok {
		return e, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock.
	if e, ok := m.games[id]; ok {
		return e, nil
	}

	data, err := m.store.Get(ctx, kv.GameKey(id))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, monopoly.ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading game %s: %w", id, err)
	}
	g := &monopoly.Game{}
	if err := json.Unmarshal(data, g); err != nil {
		return nil, fmt.Errorf("decoding game %s: %w", id, err)
	}
	g.SetNotifier(m.notifier)

	e = &entry{game: g}
	// A countdown does not survive a restart; a ready lobby gets a new one.
	e.mu.Lock()
	m.evaluate(e)
	e.mu.Unlock()

	m.games[id] = e
	m.logger.Debug("game restored", "game_id", id)
	return e, nil
}

func (m *Manager) persist(ctx context.Context, e *entry) error {
	data, err := json.Marshal(e.game)
	if err != nil {
		return fmt.Errorf("encoding game %s: %w", e.game.ID, err)
	}
	if err := m.store.Set(ctx, kv.GameKey(e.game.ID), data); err != nil {
		return fmt.Errorf("storing game %s: %w", e.game.ID, err)
	}
	return nil
}

// evaluate starts or cancels the countdown after a lobby change. Callers
// hold e.mu.
func (m *Manager) evaluate(e *entry) {
	g := e.game
	if g.CanStart() {
		if e.countdown == nil {
			m.startCountdown(e)
		}
		return
	}
	if e.countdown != nil {
		m.stopCountdown(e)
		g.Broadcast(&packet.ServerCountdownStop{GameID: g.ID})
		m.logger.Debug("countdown stopped", "game_id", g.ID)
	}
}

func (m *Manager) startCountdown(e *entry) {
	m.closeMu.Lock()
	defer m.closeMu.Unlock()
	if m.closed {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.gen++
	e.countdown = cancel

	g := e.game
	g.Broadcast(&packet.ServerCountdownStart{GameID: g.ID, Delay: g.Settings.DelaySeconds()})
	m.logger.Debug("countdown started", "game_id", g.ID, "delay", g.Settings.StartDelay)

	m.countdowns.Add(1)
	go m.runCountdown(ctx, e, e.gen, g.Settings.StartDelay)
}

// stopCountdown is a no-op without an outstanding countdown. Callers hold
// e.mu.
func (m *Manager) stopCountdown(e *entry) {
	if e.countdown == nil {
		return
	}
	e.countdown()
	e.countdown = nil
	e.gen++
}

func (m *Manager) runCountdown(ctx context.Context, e *entry, gen uint64, delay time.Duration) {
	defer m.countdowns.Done()

	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return
	case <-t.C:
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted || e.gen != gen || e.countdown == nil {
		return
	}
	e.countdown()
	e.countdown = nil

	g := e.game
	if !g.CanStart() {
		return
	}
	if err := g.Start(m.board); err != nil {
		m.logger.Error("starting game", "game_id", g.ID, "error", err)
		return
	}

	pctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := m.persist(pctx, e); err != nil {
		m.logger.Error("persisting started game", "game_id", g.ID, "error", err)
	}
	m.logger.Info("game started", "game_id", g.ID, "players", len(g.Players))
}

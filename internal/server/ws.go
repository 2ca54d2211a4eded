package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"nhooyr.io/websocket"

	"github.com/playperu/monopoly/internal/auth"
	"github.com/playperu/monopoly/internal/packet"
	"github.com/playperu/monopoly/internal/session"
)

// Handshake close codes.
const (
	closeInvalidPacket    websocket.StatusCode = 3000
	closeInvalidTicket    websocket.StatusCode = 3001
	closeUserNotFound     websocket.StatusCode = 3002
	closeHandshakeTimeout websocket.StatusCode = 3003
)

type wsConfig struct {
	authTimeout time.Duration
	packetRate  rate.Limit
	packetBurst int
}

func handleGamesWS(logger *slog.Logger, authSvc *auth.Service, games *session.Manager, hub *Hub, router *Router, cfg wsConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx := r.Context()
		connID := uuid.NewString()
		log := logger.With("conn_id", connID)

		user, ok := handshake(ctx, conn, authSvc, cfg.authTimeout, log)
		if !ok {
			return
		}
		log = log.With("user_id", user.ID)

		c := &client{
			id:       connID,
			userID:   user.ID,
			username: user.Username,
			send:     make(chan []byte, sendBuffer),
			logger:   log,
		}
		hub.register(c)
		defer hub.unregister(c)
		log.Info("websocket authenticated", "username", user.Username)

		c.sendPacket(&packet.ServerAuth{UserID: user.ID, Username: user.Username})

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				case data := <-c.send:
					if err := conn.Write(gctx, websocket.MessageText, data); err != nil {
						return err
					}
				}
			}
		})
		g.Go(func() error {
			limiter := rate.NewLimiter(cfg.packetRate, cfg.packetBurst)
			pc := &Context{Context: gctx, Conn: c, Hub: hub, User: user, Games: games, Logger: log}
			for {
				_, data, err := conn.Read(gctx)
				if err != nil {
					return err
				}
				if !limiter.Allow() {
					c.sendPacket(&packet.ServerError{StatusCode: StatusTooManyPackets, Detail: "too many packets"})
					continue
				}
				router.Dispatch(pc, data)
			}
		})

		err = g.Wait()
		switch websocket.CloseStatus(err) {
		case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			log.Info("websocket closed")
		default:
			log.Info("websocket disconnected", "error", err)
		}
	}
}

// handshake waits for client_auth and resolves its ticket. On failure the
// connection is closed with a handshake close code.
func handshake(ctx context.Context, conn *websocket.Conn, authSvc *auth.Service, timeout time.Duration, log *slog.Logger) (auth.User, bool) {
	var timedOut atomic.Bool
	timer := time.AfterFunc(timeout, func() {
		timedOut.Store(true)
		conn.Close(closeHandshakeTimeout, "authorization timed out")
	})
	_, data, err := conn.Read(ctx)
	if !timer.Stop() || timedOut.Load() {
		log.Debug("websocket authorization timed out")
		return auth.User{}, false
	}
	if err != nil {
		log.Debug("websocket closed before authorization", "error", err)
		return auth.User{}, false
	}

	p, err := packet.Decode(data)
	ap, ok := p.(*packet.ClientAuth)
	if err != nil || !ok {
		conn.Close(closeInvalidPacket, "Provided authorization packet data is invalid")
		return auth.User{}, false
	}

	user, err := authSvc.VerifyTicket(ctx, ap.Ticket)
	switch {
	case errors.Is(err, auth.ErrInvalidTicket):
		conn.Close(closeInvalidTicket, "Provided authorization ticket is invalid")
		return auth.User{}, false
	case errors.Is(err, auth.ErrUserNotFound):
		conn.Close(closeUserNotFound, "User not found")
		return auth.User{}, false
	case err != nil:
		log.Error("verifying ticket", "error", err)
		conn.Close(websocket.StatusInternalError, "")
		return auth.User{}, false
	}
	return user, true
}

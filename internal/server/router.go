package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/playperu/monopoly/internal/auth"
	"github.com/playperu/monopoly/internal/monopoly"
	"github.com/playperu/monopoly/internal/packet"
	"github.com/playperu/monopoly/internal/session"
)

const (
	StatusBadRequest       = 4000
	StatusUnknownPacket    = 4001
	StatusNotAuthenticated = 4002
	StatusGameNotFound     = 4003
	StatusInvalidAction    = 4004
	StatusMaxPlayers       = 4005
	StatusAlreadyJoined    = 4006
	StatusPlayerNotFound   = 4007
	StatusAlreadyStarted   = 4008
	StatusNotStarted       = 4009
	StatusNotYourTurn      = 4010
	StatusFieldNotFound    = 4011
	StatusInvalidFieldType = 4012
	StatusFieldOwned       = 4013
	StatusFieldNotOwned    = 4014
	StatusNotEnoughBalance = 4015
	StatusGameFinished     = 4016
	StatusTooManyPackets   = 4029
	StatusInternal         = 4100
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{packet.ErrInvalidPacket, StatusBadRequest},
	{monopoly.ErrGameNotFound, StatusGameNotFound},
	{monopoly.ErrGameInvalidAction, StatusInvalidAction},
	{monopoly.ErrMaxPlayers, StatusMaxPlayers},
	{monopoly.ErrAlreadyJoined, StatusAlreadyJoined},
	{monopoly.ErrPlayerNotFound, StatusPlayerNotFound},
	{monopoly.ErrGameAlreadyStarted, StatusAlreadyStarted},
	{monopoly.ErrGameNotStarted, StatusNotStarted},
	{monopoly.ErrNotYourTurn, StatusNotYourTurn},
	{monopoly.ErrFieldNotFound, StatusFieldNotFound},
	{monopoly.ErrInvalidFieldType, StatusInvalidFieldType},
	{monopoly.ErrFieldAlreadyOwned, StatusFieldOwned},
	{monopoly.ErrFieldNotOwned, StatusFieldNotOwned},
	{monopoly.ErrNotEnoughBalance, StatusNotEnoughBalance},
	{monopoly.ErrGameFinished, StatusGameFinished},
}

// errorPacket maps err to the in-band error sent to the client. Unknown
// errors become a detail-free internal error.
func errorPacket(err error) (*packet.ServerError, bool) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return &packet.ServerError{StatusCode: e.status, Detail: e.err.Error()}, true
		}
	}
	return &packet.ServerError{StatusCode: StatusInternal, Detail: "internal server error"}, false
}

// Context carries everything a packet handler may touch.
type Context struct {
	context.Context
	Conn   *client
	Hub    *Hub
	User   auth.User
	Games  *session.Manager
	Logger *slog.Logger
}

// Reply queues p on the connection the packet came from.
func (c *Context) Reply(p packet.Server) { c.Conn.sendPacket(p) }

type handlerFunc func(c *Context, p packet.Client) (packet.Server, error)

// Router dispatches decoded client packets by tag.
type Router struct {
	handlers map[string]handlerFunc
}

func NewRouter() *Router {
	return &Router{handlers: make(map[string]handlerFunc)}
}

// handle registers fn for the client packet type P. A handler may return a
// packet to send back to the caller, or nil when it only broadcasts.
func handle[P packet.Client](r *Router, fn func(*Context, P) (packet.Server, error)) {
	var zero P
	tag := zero.Tag()
	if _, dup := r.handlers[tag]; dup {
		panic(fmt.Sprintf("duplicate handler for %q", tag))
	}
	r.handlers[tag] = func(c *Context, p packet.Client) (packet.Server, error) {
		return fn(c, p.(P))
	}
}

// Dispatch decodes raw and runs its handler. Every failure is reported to
// the caller as a server_error packet. The caller must be registered in the
// hub under the user the context carries.
func (r *Router) Dispatch(c *Context, raw []byte) {
	if userID, ok := c.Hub.user(c.Conn.id); !ok || userID != c.User.ID {
		c.Reply(&packet.ServerError{StatusCode: StatusNotAuthenticated, Detail: "connection is not authenticated"})
		return
	}
	p, err := packet.Decode(raw)
	if err != nil {
		c.Logger.Debug("invalid packet", "conn_id", c.Conn.id, "error", err)
		c.Reply(&packet.ServerError{StatusCode: StatusBadRequest, Detail: "Provided packet data is invalid"})
		return
	}
	cp, ok := p.(packet.Client)
	var h handlerFunc
	if ok {
		h = r.handlers[cp.Tag()]
	}
	if h == nil {
		c.Reply(&packet.ServerError{StatusCode: StatusUnknownPacket, Detail: "Provided packet type was not handled"})
		return
	}

	resp, err := r.call(c, h, cp)
	if err != nil {
		ep, known := errorPacket(err)
		if !known {
			c.Logger.Error("handling packet", "conn_id", c.Conn.id, "user_id", c.User.ID, "tag", cp.Tag(), "error", err)
		}
		c.Reply(ep)
		return
	}
	if resp != nil {
		c.Reply(resp)
	}
}

func (r *Router) call(c *Context, h handlerFunc, p packet.Client) (resp packet.Server, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("panic in %s handler: %v", p.Tag(), v)
		}
	}()
	return h(c, p)
}

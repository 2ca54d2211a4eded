package server

import "github.com/playperu/monopoly/internal/packet"

func newPacketRouter() *Router {
	r := NewRouter()
	handle(r, onPing)
	handle(r, onJoinGame)
	handle(r, onLeaveGame)
	handle(r, onReady)
	handle(r, onMove)
	handle(r, onBuyField)
	handle(r, onPayRent)
	handle(r, onPayTax)
	handle(r, onEndTurn)
	return r
}

func onPing(c *Context, p *packet.ClientPing) (packet.Server, error) {
	c.Logger.Info("ping received", "conn_id", c.Conn.id, "request", p.Request)
	return &packet.ServerPing{Response: "Message received!"}, nil
}

// Game handlers answer through the game's broadcasts, not a direct reply.

func onJoinGame(c *Context, p *packet.ClientJoinGame) (packet.Server, error) {
	return nil, c.Games.Join(c, p.Game(), c.User.ID, c.User.Username)
}

func onLeaveGame(c *Context, p *packet.ClientLeaveGame) (packet.Server, error) {
	return nil, c.Games.Leave(c, p.Game(), c.User.ID)
}

func onReady(c *Context, p *packet.ClientReady) (packet.Server, error) {
	return nil, c.Games.SetReady(c, p.Game(), c.User.ID, p.IsReady)
}

func onMove(c *Context, p *packet.ClientMove) (packet.Server, error) {
	return nil, c.Games.Move(c, p.Game(), c.User.ID)
}

func onBuyField(c *Context, p *packet.ClientBuyField) (packet.Server, error) {
	return nil, c.Games.BuyField(c, p.Game(), c.User.ID, p.Field)
}

func onPayRent(c *Context, p *packet.ClientPayRent) (packet.Server, error) {
	return nil, c.Games.PayRent(c, p.Game(), c.User.ID, p.Field)
}

func onPayTax(c *Context, p *packet.ClientPayTax) (packet.Server, error) {
	return nil, c.Games.PayTax(c, p.Game(), c.User.ID, p.Field)
}

func onEndTurn(c *Context, p *packet.ClientEndTurn) (packet.Server, error) {
	return nil, c.Games.EndTurn(c, p.Game(), c.User.ID)
}

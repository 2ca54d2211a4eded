package packet

import "fmt"

type registryKey struct {
	tag   string
	class Class
}

var registry = newRegistry(
	// client
	func() Packet { return &ClientAuth{} },
	func() Packet { return &ClientPing{} },
	func() Packet { return &ClientJoinGame{} },
	func() Packet { return &ClientLeaveGame{} },
	func() Packet { return &ClientReady{} },
	func() Packet { return &ClientMove{} },
	func() Packet { return &ClientBuyField{} },
	func() Packet { return &ClientPayRent{} },
	func() Packet { return &ClientPayTax{} },
	func() Packet { return &ClientEndTurn{} },

	// server
	func() Packet { return &ServerAuth{} },
	func() Packet { return &ServerError{} },
	func() Packet { return &ServerPing{} },
	func() Packet { return &ServerJoinGame{} },
	func() Packet { return &ServerLeaveGame{} },
	func() Packet { return &ServerReady{} },
	func() Packet { return &ServerCountdownStart{} },
	func() Packet { return &ServerCountdownStop{} },
	func() Packet { return &ServerGameStart{} },
	func() Packet { return &ServerGameMove{} },
	func() Packet { return &ServerGameEnd{} },
	func() Packet { return &ServerPlayerMove{} },
	func() Packet { return &ServerStartBonus{} },
	func() Packet { return &ServerStartReward{} },
	func() Packet { return &ServerBuyFieldOffer{} },
	func() Packet { return &ServerBoughtField{} },
	func() Packet { return &ServerMustPayRent{} },
	func() Packet { return &ServerPayRent{} },
	func() Packet { return &ServerMustPayTax{} },
	func() Packet { return &ServerPayTax{} },
	func() Packet { return &ServerImprisoned{} },
	func() Packet { return &ServerReleased{} },
)

func newRegistry(factories ...func() Packet) map[registryKey]func() Packet {
	r := make(map[registryKey]func() Packet, len(factories))
	for _, f := range factories {
		p := f()
		k := registryKey{p.Tag(), p.Class()}
		if _, dup := r[k]; dup {
			panic(fmt.Sprintf("packet: duplicate registration %s/%s", k.class, k.tag))
		}
		r[k] = f
	}
	return r
}

// Registered returns a fresh zero value of every registered packet type.
func Registered() []Packet {
	out := make([]Packet, 0, len(registry))
	for _, f := range registry {
		out = append(out, f())
	}
	return out
}

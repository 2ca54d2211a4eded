// Package packet implements the websocket wire protocol: every frame is a
// JSON envelope {"data": {...}, "meta": {"tag": ..., "class": ...}} whose
// (tag, class) pair resolves exactly one registered packet type.
package packet

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidPacket is returned by Decode for every malformed or incomplete frame.
var ErrInvalidPacket = errors.New("invalid packet")

type Class string

const (
	ClassClient Class = "client"
	ClassServer Class = "server"
)

// Key is a required data key. Nested keys are checked inside the object
// stored under Name.
type Key struct {
	Name   string
	Nested []Key
}

// Keys is shorthand for a flat list of required keys.
func Keys(names ...string) []Key {
	keys := make([]Key, len(names))
	for i, n := range names {
		keys[i] = Key{Name: n}
	}
	return keys
}

// Packet is implemented by every concrete packet type.
type Packet interface {
	Tag() string
	Class() Class
	Keys() []Key
}

// Client packets are sent by players.
type Client interface {
	Packet
	client()
}

// Server packets are sent by the server.
type Server interface {
	Packet
	server()
}

// GameScoped is implemented by client packets that address a game.
type GameScoped interface {
	Client
	Game() string
}

type Meta struct {
	Tag   string `json:"tag"`
	Class Class  `json:"class"`
}

type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta *Meta           `json:"meta"`
}

// Encode wraps p in an envelope.
func Encode(p Packet) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding %s packet: %w", p.Tag(), err)
	}
	return json.Marshal(envelope{
		Data: data,
		Meta: &Meta{Tag: p.Tag(), Class: p.Class()},
	})
}

// Decode resolves the concrete packet type named by the envelope meta and
// decodes its data. Any failure wraps ErrInvalidPacket.
func Decode(raw []byte) (Packet, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: not a valid JSON object", ErrInvalidPacket)
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil, fmt.Errorf("%w: missing data", ErrInvalidPacket)
	}
	if env.Meta == nil {
		return nil, fmt.Errorf("%w: missing meta", ErrInvalidPacket)
	}
	if env.Meta.Tag == "" || env.Meta.Class == "" {
		return nil, fmt.Errorf("%w: missing meta tag or class", ErrInvalidPacket)
	}

	newPacket, ok := registry[registryKey{env.Meta.Tag, env.Meta.Class}]
	if !ok {
		return nil, fmt.Errorf("%w: unknown packet %s/%s", ErrInvalidPacket, env.Meta.Class, env.Meta.Tag)
	}
	p := newPacket()

	if err := checkKeys(env.Data, p.Keys(), "data"); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(env.Data, p); err != nil {
		return nil, fmt.Errorf("%w: %s data: %v", ErrInvalidPacket, p.Tag(), err)
	}
	if v, ok := p.(interface{ validate() error }); ok {
		if err := v.validate(); err != nil {
			return nil, fmt.Errorf("%w: %s data: %v", ErrInvalidPacket, p.Tag(), err)
		}
	}
	return p, nil
}

func checkKeys(data json.RawMessage, keys []Key, path string) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return fmt.Errorf("%w: %s is not an object", ErrInvalidPacket, path)
	}
	for _, k := range keys {
		v, ok := obj[k.Name]
		if !ok {
			return fmt.Errorf("%w: missing key %q", ErrInvalidPacket, path+"."+k.Name)
		}
		if len(k.Nested) > 0 {
			if err := checkKeys(v, k.Nested, path+"."+k.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

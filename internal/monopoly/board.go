package monopoly

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/playperu/monopoly/internal/packet"
)

//go:embed maps/default.json
var defaultMap []byte

// Board is a map template. Every started game gets its own fields built
// from it.
type Board []packet.FieldState

// DefaultBoard is the built-in 40 field map.
func DefaultBoard() (Board, error) {
	return ParseBoard(defaultMap)
}

// LoadBoard reads a map file, falling back to the built-in map for an
// empty path.
func LoadBoard(path string) (Board, error) {
	if path == "" {
		return DefaultBoard()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map: %w", err)
	}
	return ParseBoard(data)
}

func ParseBoard(data []byte) (Board, error) {
	var b Board
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decoding map: %w", err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("map has no fields")
	}
	if _, err := b.Fields(); err != nil {
		return nil, err
	}
	return b, nil
}

// Fields builds fresh field instances. Field ids must match their index.
func (b Board) Fields() ([]Field, error) {
	fields := make([]Field, 0, len(b))
	for i, s := range b {
		if s.FieldID != i {
			return nil, fmt.Errorf("field at index %d has id %d", i, s.FieldID)
		}
		f, err := NewField(s)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

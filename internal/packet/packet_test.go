package packet

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

const testGameID = "6f1c2a3e-8a47-4b0e-9d7a-4f7c2a1b9e10"

func samplePackets() []Packet {
	owner := "0c7d3a61-36b9-45a4-9a43-0c5d0e9d2b11"
	return []Packet{
		&ClientAuth{Ticket: "ticket-abc"},
		&ClientPing{Request: "hello"},
		&ClientJoinGame{GameRef: GameRef{GameID: testGameID}},
		&ClientLeaveGame{GameRef: GameRef{GameID: testGameID}},
		&ClientReady{GameRef: GameRef{GameID: testGameID}, IsReady: true},
		&ClientMove{GameRef: GameRef{GameID: testGameID}},
		&ClientBuyField{GameRef: GameRef{GameID: testGameID}, Field: 3},
		&ClientPayRent{GameRef: GameRef{GameID: testGameID}, Field: 5},
		&ClientPayTax{GameRef: GameRef{GameID: testGameID}, Field: 4},
		&ClientEndTurn{GameRef: GameRef{GameID: testGameID}},

		&ServerAuth{UserID: owner, Username: "maria"},
		&ServerError{StatusCode: 4000, Detail: "bad request"},
		&ServerPing{Response: "pong"},
		&ServerJoinGame{GameID: testGameID, PlayerID: owner, Username: "maria"},
		&ServerLeaveGame{GameID: testGameID, PlayerID: owner},
		&ServerReady{GameID: testGameID, PlayerID: owner, IsReady: true},
		&ServerCountdownStart{GameID: testGameID, Delay: 3},
		&ServerCountdownStop{GameID: testGameID},
		&ServerGameStart{
			GameID:   testGameID,
			Settings: SettingsState{MinPlayers: 1, MaxPlayers: 5, StartDelay: 1},
			Players:  []PlayerState{{PlayerID: owner, Username: "maria", Balance: 15000}},
			Fields: []FieldState{
				{FieldID: 0, FieldType: "start"},
				{FieldID: 1, FieldType: "company", Company: &CompanyState{
					OwnerID: &owner, Rent: []int{10, 20, 30}, Mortgage: -1, Cost: 200,
				}},
				{FieldID: 2, FieldType: "tax", Tax: &TaxState{TaxAmount: 2000}},
			},
		},
		&ServerGameMove{GameID: testGameID, Round: 2, Move: 1},
		&ServerGameEnd{GameID: testGameID, WinnerID: owner},
		&ServerPlayerMove{GameID: testGameID, PlayerID: owner, Dices: [2]int{3, 4}, Field: 7},
		&ServerStartBonus{GameID: testGameID, PlayerID: owner, Amount: 2000, Balance: 17000},
		&ServerStartReward{GameID: testGameID, PlayerID: owner, Amount: 1000, Balance: 16000},
		&ServerBuyFieldOffer{GameID: testGameID, PlayerID: owner, Field: 1, Cost: 200},
		&ServerBoughtField{GameID: testGameID, PlayerID: owner, Field: 1, Balance: 14800},
		&ServerMustPayRent{GameID: testGameID, PlayerID: owner, Field: 1, Amount: 50},
		&ServerPayRent{GameID: testGameID, PlayerID: owner, OwnerID: owner, Field: 1, PlayerBalance: 1, OwnerBalance: 2},
		&ServerMustPayTax{GameID: testGameID, PlayerID: owner, Field: 4, Amount: 2000},
		&ServerPayTax{GameID: testGameID, PlayerID: owner, Balance: 13000},
		&ServerImprisoned{GameID: testGameID, PlayerID: owner, Field: 10, ImprisonCause: ImprisonCausePolice},
		&ServerReleased{GameID: testGameID, PlayerID: owner},
	}
}

func TestRoundTrip(t *testing.T) {
	samples := samplePackets()

	covered := make(map[registryKey]bool)
	for _, p := range samples {
		covered[registryKey{p.Tag(), p.Class()}] = true
	}
	for _, p := range Registered() {
		if !covered[registryKey{p.Tag(), p.Class()}] {
			t.Errorf("no round-trip sample for %s/%s", p.Class(), p.Tag())
		}
	}

	for _, want := range samples {
		t.Run(string(want.Class())+"/"+want.Tag(), func(t *testing.T) {
			raw, err := Encode(want)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := Decode(raw)
			if err != nil {
				t.Fatalf("decode %s: %v", raw, err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("round trip mismatch:\n got %#v\nwant %#v", got, want)
			}
		})
	}
}

func TestEncodeEnvelope(t *testing.T) {
	raw, err := Encode(&ServerPing{Response: "pong"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var env struct {
		Data map[string]string `json:"data"`
		Meta map[string]string `json:"meta"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Meta["tag"] != "server_ping" || env.Meta["class"] != "server" {
		t.Errorf("meta = %v", env.Meta)
	}
	if env.Data["response"] != "pong" {
		t.Errorf("data = %v", env.Data)
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{"data":`},
		{"not an object", `[1,2,3]`},
		{"missing data", `{"meta":{"tag":"client_ping","class":"client"}}`},
		{"null data", `{"data":null,"meta":{"tag":"client_ping","class":"client"}}`},
		{"missing meta", `{"data":{"request":"x"}}`},
		{"missing tag", `{"data":{"request":"x"},"meta":{"class":"client"}}`},
		{"missing class", `{"data":{"request":"x"},"meta":{"tag":"client_ping"}}`},
		{"unknown tag", `{"data":{},"meta":{"tag":"client_nope","class":"client"}}`},
		{"class mismatch", `{"data":{"request":"x"},"meta":{"tag":"client_ping","class":"server"}}`},
		{"unknown class", `{"data":{"request":"x"},"meta":{"tag":"client_ping","class":"admin"}}`},
		{"missing key", `{"data":{},"meta":{"tag":"client_ping","class":"client"}}`},
		{"missing one of two keys", `{"data":{"game_id":"` + testGameID + `"},"meta":{"tag":"player_buy_field","class":"client"}}`},
		{"data not an object", `{"data":"x","meta":{"tag":"client_ping","class":"client"}}`},
		{"wrong value type", `{"data":{"game_id":"` + testGameID + `","field":"three"},"meta":{"tag":"player_buy_field","class":"client"}}`},
		{"bad game id", `{"data":{"game_id":"not-a-uuid"},"meta":{"tag":"player_move","class":"client"}}`},
		{"missing nested key", `{"data":{"game_id":"x","settings":{"min_players":1},"players":[],"fields":[]},"meta":{"tag":"game_start","class":"server"}}`},
		{"nested not an object", `{"data":{"game_id":"x","settings":5,"players":[],"fields":[]},"meta":{"tag":"game_start","class":"server"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode([]byte(tt.raw))
			if !errors.Is(err, ErrInvalidPacket) {
				t.Fatalf("err = %v, want ErrInvalidPacket", err)
			}
			if p != nil {
				t.Errorf("packet = %#v, want nil", p)
			}
		})
	}
}

func TestDecodeMissingKeyNamesKey(t *testing.T) {
	_, err := Decode([]byte(`{"data":{"game_id":"x","settings":{"min_players":1,"max_players":2},"players":[],"fields":[]},"meta":{"tag":"game_start","class":"server"}}`))
	if err == nil || !strings.Contains(err.Error(), "settings.start_delay") {
		t.Fatalf("err = %v, want mention of settings.start_delay", err)
	}
}

func TestDecodeResolvesByClass(t *testing.T) {
	client, err := Decode([]byte(`{"data":{"game_id":"` + testGameID + `"},"meta":{"tag":"player_move","class":"client"}}`))
	if err != nil {
		t.Fatalf("decode client: %v", err)
	}
	if _, ok := client.(*ClientMove); !ok {
		t.Errorf("client packet = %T, want *ClientMove", client)
	}

	server, err := Decode([]byte(`{"data":{"game_id":"g","player_id":"p","dices":[1,2],"field":3},"meta":{"tag":"player_move","class":"server"}}`))
	if err != nil {
		t.Fatalf("decode server: %v", err)
	}
	if _, ok := server.(*ServerPlayerMove); !ok {
		t.Errorf("server packet = %T, want *ServerPlayerMove", server)
	}
}

func TestGameScoped(t *testing.T) {
	p, err := Decode([]byte(`{"data":{"game_id":"` + testGameID + `","is_ready":true},"meta":{"tag":"player_ready","class":"client"}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	scoped, ok := p.(GameScoped)
	if !ok {
		t.Fatalf("%T does not address a game", p)
	}
	if scoped.Game() != testGameID {
		t.Errorf("game = %q, want %q", scoped.Game(), testGameID)
	}
}

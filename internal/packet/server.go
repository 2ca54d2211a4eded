package packet

type serverPacket struct{}

func (serverPacket) Class() Class { return ClassServer }
func (serverPacket) server()      {}

// PlayerState is the public view of a player inside game_start.
type PlayerState struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
	Balance  int    `json:"balance"`
	Field    int    `json:"field"`
}

// FieldState is the wire and storage shape of a board field. Exactly one
// of Company and Tax is set for those field types.
type FieldState struct {
	FieldID   int           `json:"field_id"`
	FieldType string        `json:"field_type"`
	Company   *CompanyState `json:"company,omitempty"`
	Tax       *TaxState     `json:"tax,omitempty"`
}

type CompanyState struct {
	OwnerID        *string `json:"owner_id"`
	IsMonopoly     bool    `json:"is_monopoly"`
	FieldDependant bool    `json:"field_dependant"`
	DiceDependant  bool    `json:"dice_dependant"`
	Rent           []int   `json:"rent"`
	Mortgage       int     `json:"mortgage"`
	Filiation      int     `json:"filiation"`
	Cost           int     `json:"cost"`
	MortgageCost   int     `json:"mortgage_cost"`
	BuyoutCost     int     `json:"buyout_cost"`
	FiliationCost  int     `json:"filiation_cost"`
}

type TaxState struct {
	TaxAmount int `json:"tax_amount"`
}

type SettingsState struct {
	MinPlayers int `json:"min_players"`
	MaxPlayers int `json:"max_players"`
	StartDelay int `json:"start_delay"`
}

type ServerAuth struct {
	serverPacket
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

func (*ServerAuth) Tag() string  { return "server_auth" }
func (*ServerAuth) Keys() []Key { return Keys("user_id", "username") }

type ServerError struct {
	serverPacket
	StatusCode int    `json:"status_code"`
	Detail     string `json:"detail"`
}

func (*ServerError) Tag() string  { return "server_error" }
func (*ServerError) Keys() []Key { return Keys("status_code", "detail") }

type ServerPing struct {
	serverPacket
	Response string `json:"response"`
}

func (*ServerPing) Tag() string  { return "server_ping" }
func (*ServerPing) Keys() []Key { return Keys("response") }

type ServerJoinGame struct {
	serverPacket
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
}

func (*ServerJoinGame) Tag() string  { return "server_player_join_game" }
func (*ServerJoinGame) Keys() []Key { return Keys("game_id", "player_id", "username") }

type ServerLeaveGame struct {
	serverPacket
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
}

func (*ServerLeaveGame) Tag() string  { return "server_player_leave_game" }
func (*ServerLeaveGame) Keys() []Key { return Keys("game_id", "player_id") }

type ServerReady struct {
	serverPacket
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
	IsReady  bool   `json:"is_ready"`
}

func (*ServerReady) Tag() string  { return "server_player_ready" }
func (*ServerReady) Keys() []Key { return Keys("game_id", "player_id", "is_ready") }

type ServerCountdownStart struct {
	serverPacket
	GameID string `json:"game_id"`
	// Delay is in seconds.
	Delay int `json:"delay"`
}

func (*ServerCountdownStart) Tag() string  { return "game_countdown_start" }
func (*ServerCountdownStart) Keys() []Key { return Keys("game_id", "delay") }

type ServerCountdownStop struct {
	serverPacket
	GameID string `json:"game_id"`
}

func (*ServerCountdownStop) Tag() string  { return "game_countdown_stop" }
func (*ServerCountdownStop) Keys() []Key { return Keys("game_id") }

type ServerGameStart struct {
	serverPacket
	GameID   string        `json:"game_id"`
	Settings SettingsState `json:"settings"`
	Players  []PlayerState `json:"players"`
	Fields   []FieldState  `json:"fields"`
}

func (*ServerGameStart) Tag() string { return "game_start" }
func (*ServerGameStart) Keys() []Key {
	return []Key{
		{Name: "game_id"},
		{Name: "settings", Nested: Keys("min_players", "max_players", "start_delay")},
		{Name: "players"},
		{Name: "fields"},
	}
}

type ServerGameMove struct {
	serverPacket
	GameID string `json:"game_id"`
	Round  int    `json:"round"`
	Move   int    `json:"move"`
}

func (*ServerGameMove) Tag() string  { return "game_move" }
func (*ServerGameMove) Keys() []Key { return Keys("game_id", "round", "move") }

type ServerGameEnd struct {
	serverPacket
	GameID   string `json:"game_id"`
	WinnerID string `json:"winner_id"`
}

func (*ServerGameEnd) Tag() string  { return "game_end" }
func (*ServerGameEnd) Keys() []Key { return Keys("game_id", "winner_id") }

type ServerPlayerMove struct {
	serverPacket
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
	Dices    [2]int `json:"dices"`
	Field    int    `json:"field"`
}

func (*ServerPlayerMove) Tag() string  { return "player_move" }
func (*ServerPlayerMove) Keys() []Key { return Keys("game_id", "player_id", "dices", "field") }

type ServerStartBonus struct {
	serverPacket
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
	Amount   int    `json:"amount"`
	Balance  int    `json:"balance"`
}

func (*ServerStartBonus) Tag() string  { return "player_got_start_bonus" }
func (*ServerStartBonus) Keys() []Key { return Keys("game_id", "player_id", "amount", "balance") }

type ServerStartReward struct {
	serverPacket
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
	Amount   int    `json:"amount"`
	Balance  int    `json:"balance"`
}

func (*ServerStartReward) Tag() string  { return "player_got_start_reward" }
func (*ServerStartReward) Keys() []Key { return Keys("game_id", "player_id", "amount", "balance") }

// ServerBuyFieldOffer tells the standing player the field can be bought.
type ServerBuyFieldOffer struct {
	serverPacket
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
	Field    int    `json:"field"`
	Cost     int    `json:"cost"`
}

func (*ServerBuyFieldOffer) Tag() string  { return "player_buy_field" }
func (*ServerBuyFieldOffer) Keys() []Key { return Keys("game_id", "player_id", "field", "cost") }

type ServerBoughtField struct {
	serverPacket
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
	Field    int    `json:"field"`
	Balance  int    `json:"balance"`
}

func (*ServerBoughtField) Tag() string  { return "player_bought_field" }
func (*ServerBoughtField) Keys() []Key { return Keys("game_id", "player_id", "field", "balance") }

type ServerMustPayRent struct {
	serverPacket
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
	Field    int    `json:"field"`
	Amount   int    `json:"amount"`
}

func (*ServerMustPayRent) Tag() string  { return "player_must_pay_rent" }
func (*ServerMustPayRent) Keys() []Key { return Keys("game_id", "player_id", "field", "amount") }

type ServerPayRent struct {
	serverPacket
	GameID        string `json:"game_id"`
	PlayerID      string `json:"player_id"`
	OwnerID       string `json:"owner_id"`
	Field         int    `json:"field"`
	PlayerBalance int    `json:"player_balance"`
	OwnerBalance  int    `json:"owner_balance"`
}

func (*ServerPayRent) Tag() string { return "player_pay_rent" }
func (*ServerPayRent) Keys() []Key {
	return Keys("game_id", "player_id", "owner_id", "field", "player_balance", "owner_balance")
}

type ServerMustPayTax struct {
	serverPacket
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
	Field    int    `json:"field"`
	Amount   int    `json:"amount"`
}

func (*ServerMustPayTax) Tag() string  { return "player_must_pay_tax" }
func (*ServerMustPayTax) Keys() []Key { return Keys("game_id", "player_id", "field", "amount") }

type ServerPayTax struct {
	serverPacket
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
	Balance  int    `json:"balance"`
}

func (*ServerPayTax) Tag() string  { return "player_pay_tax" }
func (*ServerPayTax) Keys() []Key { return Keys("game_id", "player_id", "balance") }

type ImprisonCause string

const ImprisonCausePolice ImprisonCause = "police"

type ServerImprisoned struct {
	serverPacket
	GameID        string        `json:"game_id"`
	PlayerID      string        `json:"player_id"`
	Field         int           `json:"field"`
	ImprisonCause ImprisonCause `json:"imprison_cause"`
}

func (*ServerImprisoned) Tag() string  { return "player_got_imprisoned" }
func (*ServerImprisoned) Keys() []Key { return Keys("game_id", "player_id", "field", "imprison_cause") }

type ServerReleased struct {
	serverPacket
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
}

func (*ServerReleased) Tag() string  { return "player_got_released" }
func (*ServerReleased) Keys() []Key { return Keys("game_id", "player_id") }

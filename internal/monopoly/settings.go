package monopoly

import (
	"math"
	"time"
)

// Settings are fixed when a game is created.
type Settings struct {
	MinPlayers int
	MaxPlayers int
	StartDelay time.Duration

	// StartBonus is credited for passing Start while Round <= StartBonusRounds.
	StartBonus       int
	StartBonusRounds int
	// StartReward is credited for landing on Start.
	StartReward   int
	PlayerBalance int
}

func DefaultSettings() Settings {
	return Settings{
		MinPlayers:       1,
		MaxPlayers:       5,
		StartDelay:       time.Second,
		StartBonus:       2000,
		StartBonusRounds: 65,
		StartReward:      1000,
		PlayerBalance:    15000,
	}
}

// DelaySeconds rounds the start delay up to whole seconds for the wire.
func (s Settings) DelaySeconds() int {
	return int(math.Ceil(s.StartDelay.Seconds()))
}

// SettingsSnapshot is the stored form of Settings. StartDelay is in seconds.
type SettingsSnapshot struct {
	MinPlayers       int     `json:"min_players"`
	MaxPlayers       int     `json:"max_players"`
	StartDelay       float64 `json:"start_delay"`
	StartBonus       int     `json:"start_bonus"`
	StartBonusRounds int     `json:"start_bonus_rounds"`
	StartReward      int     `json:"start_reward"`
	PlayerBalance    int     `json:"player_balance"`
}

func (s Settings) Snapshot() SettingsSnapshot {
	return SettingsSnapshot{
		MinPlayers:       s.MinPlayers,
		MaxPlayers:       s.MaxPlayers,
		StartDelay:       s.StartDelay.Seconds(),
		StartBonus:       s.StartBonus,
		StartBonusRounds: s.StartBonusRounds,
		StartReward:      s.StartReward,
		PlayerBalance:    s.PlayerBalance,
	}
}

func (st SettingsSnapshot) Settings() Settings {
	return Settings{
		MinPlayers:       st.MinPlayers,
		MaxPlayers:       st.MaxPlayers,
		StartDelay:       time.Duration(st.StartDelay * float64(time.Second)),
		StartBonus:       st.StartBonus,
		StartBonusRounds: st.StartBonusRounds,
		StartReward:      st.StartReward,
		PlayerBalance:    st.PlayerBalance,
	}
}

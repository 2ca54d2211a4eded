package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/playperu/monopoly/internal/monopoly"
)

type Config struct {
	HTTPAddr     string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel     slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	StoreBackend string     `env:"STORE_BACKEND" envDefault:"sqlite" validate:"oneof=sqlite redis"`
	DBPath       string     `env:"DB_PATH" envDefault:"data/monopoly.db"`
	RedisURL     string     `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	JWTKey         string        `env:"JWT_KEY,required,notEmpty"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m" validate:"gt=0"`
	TicketTTL      time.Duration `env:"TICKET_TTL" envDefault:"1m" validate:"gt=0"`
	BcryptCost     int           `env:"BCRYPT_COST" envDefault:"10" validate:"min=4,max=31"`

	WSAuthTimeout time.Duration `env:"WS_AUTH_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	WSPacketRate  float64       `env:"WS_PACKET_RATE" envDefault:"20" validate:"gt=0"`
	WSPacketBurst int           `env:"WS_PACKET_BURST" envDefault:"40" validate:"min=1"`

	Game Game `envPrefix:"GAME_"`
}

type Game struct {
	MinPlayers       int           `env:"MIN_PLAYERS" envDefault:"1" validate:"min=1"`
	MaxPlayers       int           `env:"MAX_PLAYERS" envDefault:"5" validate:"gtefield=MinPlayers"`
	StartDelay       time.Duration `env:"START_DELAY" envDefault:"1s" validate:"gte=0"`
	StartBonus       int           `env:"START_BONUS" envDefault:"2000"`
	StartReward      int           `env:"START_REWARD" envDefault:"1000"`
	StartBonusRounds int           `env:"START_BONUS_ROUNDS" envDefault:"65"`
	PlayerBalance    int           `env:"PLAYER_BALANCE" envDefault:"15000"`
	// MapPath is empty for the built-in board.
	MapPath string `env:"MAP_PATH"`
}

var validate = validator.New()

// Load reads an optional .env file, then the environment. Variables already
// set in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func (g Game) Settings() monopoly.Settings {
	return monopoly.Settings{
		MinPlayers:       g.MinPlayers,
		MaxPlayers:       g.MaxPlayers,
		StartDelay:       g.StartDelay,
		StartBonus:       g.StartBonus,
		StartBonusRounds: g.StartBonusRounds,
		StartReward:      g.StartReward,
		PlayerBalance:    g.PlayerBalance,
	}
}

// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting the service reads at startup.
type Config struct {
	AppHost  string `env:"APP_HOST"`
	AppPort  int    `env:"PORT" envDefault:"5000"`
	LogLevel string `env:"APP_LOG_LEVEL" envDefault:"info"`

	DatabaseURI    string `env:"DATABASE_URI,required,notEmpty"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"16"`
	DBMaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" envDefault:"8"`

	JWTSecret  string        `env:"JWT_SECRET,required,notEmpty"`
	JWTExp     time.Duration `env:"JWT_EXP" envDefault:"1h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`
	AuthStrict bool          `env:"AUTH_STRICT" envDefault:"false"`

	LeaderboardMaxLimit int `env:"LEADERBOARD_MAX_LIMIT" envDefault:"100"`

	RedisAddr        string        `env:"REDIS_ADDR"`
	RedisPassword    string        `env:"REDIS_PASSWORD"`
	RedisDB          int           `env:"REDIS_DB" envDefault:"0"`
	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS" envDefault:"5"`
	LoginLockout     time.Duration `env:"LOGIN_LOCKOUT" envDefault:"15m"`

	KafkaBrokers     []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaScoresTopic string   `env:"KAFKA_SCORES_TOPIC" envDefault:"game.scores"`
	KafkaBatchTimeout time.Duration `env:"KAFKA_BATCH_TIMEOUT" envDefault:"10ms"`
	KafkaWriteTimeout time.Duration `env:"KAFKA_WRITE_TIMEOUT" envDefault:"2s"`
}

// Load reads the optional dotenv file at path into the environment and
// parses the result. Variables already set in the environment win over the
// file. A missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(path)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.AppHost, strconv.Itoa(c.AppPort))
}

// RedisEnabled reports whether login throttling is backed by Redis.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// KafkaEnabled reports whether score events are published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Postgres struct {
		Host            string        `env:"POSTGRES_HOST" envDefault:"localhost"`
		Port            int           `env:"POSTGRES_PORT" envDefault:"5432"`
		User            string        `env:"POSTGRES_USER" envDefault:"postgres"`
		Password        string        `env:"POSTGRES_PASSWORD" envDefault:""`
		Database        string        `env:"POSTGRES_DB" envDefault:"sorteo"`
		SSLMode         string        `env:"POSTGRES_SSLMODE" envDefault:"disable"`
		MaxOpenConns    int           `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"25"`
		MaxIdleConns    int           `env:"POSTGRES_MAX_IDLE_CONNS" envDefault:"5"`
		ConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFETIME" envDefault:"30m"`
		MigrationsPath  string        `env:"POSTGRES_MIGRATIONS_PATH" envDefault:"migrations"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Kafka struct {
		Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
		Topic   string   `env:"KAFKA_GIVEAWAY_TOPIC" envDefault:"giveaway-events"`
	}

	JWT struct {
		Secret string `env:"JWT_SECRET,required"`
	}

	Meta struct {
		GraphVersion string        `env:"META_GRAPH_VERSION" envDefault:"v21.0"`
		Timeout      time.Duration `env:"META_TIMEOUT" envDefault:"10s"`
	}

	// MockVerification selects the deterministic provider instead of the
	// Meta adapter: "", "pass", "fail". Only consulted when wiring the
	// application in main, never inside the verification core.
	MockVerification string `env:"MOCK_VERIFICATION" envDefault:""`
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// .env is optional; in production the environment is set directly.
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}

// GetDSN builds the postgres connection string.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Postgres.Host, c.Postgres.Port, c.Postgres.User, c.Postgres.Password,
		c.Postgres.Database, c.Postgres.SSLMode)
}

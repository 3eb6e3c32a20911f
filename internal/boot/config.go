package boot

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env            string        `env:"ENV,default=dev"`
	DataDir        string        `env:"DATA_DIR,default=."`
	LogLevel       string        `env:"LOG_LEVEL,default=info"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT,default=10s"`
	DataTable      string        `env:"DATA_TABLE,default=DataTable"`
	AuthTable      string        `env:"AUTH_TABLE,default=AuthTable"`
	EntityStore    struct {
		URL         string        `env:"ENTITY_STORE_URL,default=http://localhost:34568"`
		Port        string        `env:"ENTITY_STORE_PORT,default=34568"`
		MetricsPort string        `env:"ENTITY_STORE_METRICS_PORT,default=9568"`
		TokenTTL    time.Duration `env:"TOKEN_TTL,default=24h"`
	}
	UserServer struct {
		Port        string `env:"USER_SERVER_PORT,default=34572"`
		MetricsPort string `env:"USER_SERVER_METRICS_PORT,default=9572"`
	}
	PushServer struct {
		URL               string `env:"PUSH_SERVER_URL,default=http://localhost:34574"`
		Port              string `env:"PUSH_SERVER_PORT,default=34574"`
		MetricsPort       string `env:"PUSH_SERVER_METRICS_PORT,default=9574"`
		FanoutConcurrency int    `env:"FANOUT_CONCURRENCY,default=8"`
	}
}

func Load() (*Config, error) {
	return LoadWith(envconfig.OsLookuper())
}

func LoadWith(lookuper envconfig.Lookuper) (*Config, error) {
	config := &Config{}
	if err := envconfig.ProcessWith(context.Background(), config, lookuper); err != nil {
		return nil, fmt.Errorf("parsing env vars: %w", err)
	}
	if config.PushServer.FanoutConcurrency < 1 {
		return nil, fmt.Errorf("FANOUT_CONCURRENCY must be at least 1, got %d", config.PushServer.FanoutConcurrency)
	}
	return config, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "prod"
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "dev"
}

func (c *Config) DataDirectory() string {
	return c.DataDir
}

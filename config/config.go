package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"5000"`
	StoreDriver string `envconfig:"STORE_DRIVER" default:"mongo"`

	MongoURI      string `envconfig:"MONGO_URI"`
	MongoHost     string `envconfig:"MONGO_HOST" default:"cluster0.mongodb.net"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"aparParts"`
	DBUser        string `envconfig:"DB_USER"`
	DBPass        string `envconfig:"DB_PASS"`

	PostgresDSN string `envconfig:"POSTGRES_DSN"`

	TokenSecret string        `envconfig:"ACCESS_TOKEN_SECRET" required:"true"`
	TokenTTL    time.Duration `envconfig:"TOKEN_TTL" default:"1h"`

	StripeSecretKey string `envconfig:"STRIPE_SECRET_KEY"`
	PaymentCurrency string `envconfig:"PAYMENT_CURRENCY" default:"usd"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
}

// LoadConfig reads envFiles (missing files are skipped) and then the process
// environment. Variables already set in the environment win.
func LoadConfig(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		// godotenv.Load never overrides existing variables.
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(err, "load %s", f)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "read environment")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.TokenSecret == "" {
		return errors.New("ACCESS_TOKEN_SECRET is not set")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" && (c.DBUser == "" || c.DBPass == "") {
			return errors.New("mongo driver needs MONGO_URI or DB_USER and DB_PASS")
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return errors.New("postgres driver needs POSTGRES_DSN")
		}
	case DriverMemory:
	default:
		return errors.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// MongoConnString returns MONGO_URI, or the Atlas SRV string built from the
// credentials.
func (c *Config) MongoConnString() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
		url.QueryEscape(c.DBUser), url.QueryEscape(c.DBPass), c.MongoHost)
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

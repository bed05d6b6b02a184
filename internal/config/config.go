package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devgate/monetize/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	Billing    BillingConfig    `validate:"required"`
	Checkout   CheckoutConfig
	Consumer   ConsumerConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// BillingConfig holds the connection settings for the external
// monetization backend that owns developer prepaid balances.
type BillingConfig struct {
	BaseURL        string `validate:"required"`
	APIKey         string
	TimeoutSeconds int
	RetryMax       int
}

// CheckoutConfig holds the add-credit checkout policy defaults.
// Products may override the minimum with their own configured amount.
type CheckoutConfig struct {
	MinimumTopupAmount   string
	MinimumTopupCurrency string
}

// ConsumerConfig tunes the top-up queue consumer retry policy.
type ConsumerConfig struct {
	Topic           string
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	MaxElapsedTime  time.Duration
}

func NewConfig() (*Configuration, error) {
	// Optional .env for local development; ignored when absent.
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/monetize")

	v.SetEnvPrefix("MONETIZE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(types.ModeLocal))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("billing.timeoutseconds", 30)
	v.SetDefault("billing.retrymax", 3)
	v.SetDefault("checkout.minimumtopupamount", "12.00")
	v.SetDefault("checkout.minimumtopupcurrency", "USD")
	v.SetDefault("consumer.topic", "topups")
	v.SetDefault("consumer.maxretries", 3)
	v.SetDefault("consumer.initialinterval", "1s")
	v.SetDefault("consumer.maxinterval", "30s")
	v.SetDefault("consumer.multiplier", 2.0)
	v.SetDefault("consumer.maxelapsedtime", "5m")
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	return nil
}

// DSN builds the Postgres connection string
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetDefaultConfig returns a configuration suitable for tests
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelInfo},
		Postgres: PostgresConfig{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
		},
		Billing: BillingConfig{
			BaseURL:        "http://localhost:9090",
			TimeoutSeconds: 30,
			RetryMax:       3,
		},
		Checkout: CheckoutConfig{
			MinimumTopupAmount:   "12.00",
			MinimumTopupCurrency: "USD",
		},
		Consumer: ConsumerConfig{
			Topic:           "topups",
			MaxRetries:      3,
			InitialInterval: time.Second,
			MaxInterval:     30 * time.Second,
			Multiplier:      2.0,
			MaxElapsedTime:  5 * time.Minute,
		},
	}
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for odds-insight-service
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Postgres    PostgresConfig    `mapstructure:"postgres"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	Providers   ProvidersConfig   `mapstructure:"providers"`
	Suggestions SuggestionsConfig `mapstructure:"suggestions"`
	Arbitrage   ArbitrageConfig   `mapstructure:"arbitrage"`
	Admin       AdminConfig       `mapstructure:"admin"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// PostgresConfig holds snapshot store configuration
type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig holds Redis configuration for the suggestion cache
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// KafkaConfig holds the raw odds topic configuration
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"` // topic carrying raw provider odds batches
	GroupID string   `mapstructure:"group_id"`
}

// ProvidersConfig holds upstream odds data source configuration
type ProvidersConfig struct {
	OddsAPI   OddsAPIConfig   `mapstructure:"oddsapi"`
	Advantage AdvantageConfig `mapstructure:"advantage"`
}

// OddsAPIConfig holds The Odds API client configuration
type OddsAPIConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	SportKeys    []string      `mapstructure:"sport_keys"` // "upcoming", explicit keys, or aliases like "tennis"
	Regions      string        `mapstructure:"regions"`
	Markets      string        `mapstructure:"markets"`
	OddsFormat   string        `mapstructure:"odds_format"`
	Timeout      time.Duration `mapstructure:"timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval"` // 0 disables the background poller
}

// AdvantageConfig holds the third-party advantage feed configuration
type AdvantageConfig struct {
	Host    string        `mapstructure:"host"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SuggestionsConfig holds fair-probability engine defaults
type SuggestionsConfig struct {
	MinBooks        int     `mapstructure:"min_books"`        // minimum distinct bookmakers per outcome
	MinEV           float64 `mapstructure:"min_ev"`           // EV floor for emitted suggestions
	HoursAhead      int     `mapstructure:"hours_ahead"`      // default event window
	Limit           int     `mapstructure:"limit"`            // default output cap
	PrioritizeSport string  `mapstructure:"prioritize_sport"` // sport-key prefix bucketed first in ordering
	RatingSport     string  `mapstructure:"rating_sport"`     // sport-key prefix using the Elo rating blend
	RatingMaxRows   int     `mapstructure:"rating_max_rows"`  // bounded result-history window for Elo
	FetchLimit      int     `mapstructure:"fetch_limit"`      // bounded snapshot row fetch
}

// ArbitrageConfig holds arbitrage scan defaults
type ArbitrageConfig struct {
	MinRoiPercent float64 `mapstructure:"min_roi_percent"`
	HoursAhead    int     `mapstructure:"hours_ahead"`
	Limit         int     `mapstructure:"limit"`
	FetchLimit    int     `mapstructure:"fetch_limit"`
}

// AdminConfig holds the shared admin secret for ingest/result endpoints
type AdminConfig struct {
	Secret string `mapstructure:"secret"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8082)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("postgres.dsn", "postgres://localhost:5432/odds_insight?sslmode=disable")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 2*time.Minute)

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "raw_odds")
	v.SetDefault("kafka.group_id", "odds-insight")

	v.SetDefault("providers.oddsapi.api_key", "")
	v.SetDefault("providers.oddsapi.sport_keys", []string{"upcoming"})
	v.SetDefault("providers.oddsapi.regions", "us,eu,uk,au")
	v.SetDefault("providers.oddsapi.markets", "h2h")
	v.SetDefault("providers.oddsapi.odds_format", "decimal")
	v.SetDefault("providers.oddsapi.timeout", 10*time.Second)
	v.SetDefault("providers.oddsapi.poll_interval", 5*time.Minute)

	v.SetDefault("providers.advantage.host", "sportsbook-api2.p.rapidapi.com")
	v.SetDefault("providers.advantage.api_key", "")
	v.SetDefault("providers.advantage.timeout", 10*time.Second)

	v.SetDefault("suggestions.min_books", 3)
	v.SetDefault("suggestions.min_ev", 0.01)
	v.SetDefault("suggestions.hours_ahead", 24)
	v.SetDefault("suggestions.limit", 30)
	v.SetDefault("suggestions.prioritize_sport", "tennis_")
	v.SetDefault("suggestions.rating_sport", "tennis_")
	v.SetDefault("suggestions.rating_max_rows", 5000)
	v.SetDefault("suggestions.fetch_limit", 2000)

	v.SetDefault("arbitrage.min_roi_percent", 0.0)
	v.SetDefault("arbitrage.hours_ahead", 24)
	v.SetDefault("arbitrage.limit", 200)
	v.SetDefault("arbitrage.fetch_limit", 5000)

	v.SetDefault("admin.secret", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Override with environment variables
	v.SetEnvPrefix("ODDS_INSIGHT")
	v.AutomaticEnv()
	// Replace . with _ for environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Unmarshal to struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

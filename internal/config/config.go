package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Mandi    MandiConfig
	Twilio   TwilioConfig
	Monitor  MonitorConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Host string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

// RedisConfig holds the optional price-cache configuration. An empty Addr
// disables the cache. The TTL default stays under the monitor's check
// interval so no poll cycle evaluates alerts against a stale snapshot.
type RedisConfig struct {
	Addr string
	TTL  time.Duration
}

// KafkaConfig holds the optional alert-event stream configuration
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// MandiConfig holds the government price source configuration. An empty
// APIKey means the live source is not configured and the feed serves
// cached or synthesized data only.
type MandiConfig struct {
	APIKey  string
	BaseURL string
}

// TwilioConfig holds SMS credentials. When incomplete, sends are simulated.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// MonitorConfig holds price monitor scheduling parameters
type MonitorConfig struct {
	CheckInterval time.Duration
	Cooldown      time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			DBName:         getEnv("DB_NAME", "farmconnect"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MigrationsPath: getEnv("DB_MIGRATIONS_PATH", "db/migrations"),
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", ""),
			TTL:  time.Duration(getEnvInt("REDIS_TTL_MINUTES", 15)) * time.Minute,
		},
		Kafka: KafkaConfig{
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Brokers: getEnvList("KAFKA_BROKERS", "localhost:9092"),
			Topic:   getEnv("KAFKA_TOPIC", "price-alert-events"),
		},
		Mandi: MandiConfig{
			APIKey:  getEnv("GOV_MANDI_API_KEY", ""),
			BaseURL: getEnv("GOV_MANDI_API_URL", "https://api.data.gov.in/resource/current-daily-price-various-commodities-various-markets-mandi"),
		},
		Twilio: TwilioConfig{
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber: getEnv("TWILIO_PHONE_NUMBER", ""),
		},
		Monitor: MonitorConfig{
			CheckInterval: time.Duration(getEnvInt("PRICE_CHECK_INTERVAL_MINUTES", 30)) * time.Minute,
			Cooldown:      time.Duration(getEnvInt("ALERT_COOLDOWN_MINUTES", 120)) * time.Minute,
		},
	}
}

// ConnectionString returns the PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DBName + "?sslmode=" + d.SSLMode
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			values = append(values, v)
		}
	}
	return values
}

package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Kafka      KafkaConfig
	Redis      RedisConfig
	FMP        FMPConfig
	Indicators IndicatorConfig
	HotStocks  HotStockConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Host string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Brokers       []string
	PriceTopic    string
	EventTopic    string
	ConsumerGroup string
}

// RedisConfig holds Redis cache configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// FMPConfig holds Financial Modeling Prep API configuration
type FMPConfig struct {
	APIKey    string
	BaseURL   string
	Exchanges []string
}

// IndicatorConfig holds calculation settings
type IndicatorConfig struct {
	BatchSize int
}

// HotStockConfig holds screener thresholds
type HotStockConfig struct {
	MinPriceChangePct float64
	MinVolumeRatio    float64
	DaysToKeep        int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "stockindicators"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers:       []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			PriceTopic:    getEnv("KAFKA_PRICE_TOPIC", "price-bars"),
			EventTopic:    getEnv("KAFKA_EVENT_TOPIC", "indicator-events"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "indicator-service"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		FMP: FMPConfig{
			APIKey:    getEnv("FMP_API_KEY", ""),
			BaseURL:   getEnv("FMP_BASE_URL", "https://financialmodelingprep.com/api/v3"),
			Exchanges: strings.Split(getEnv("FMP_EXCHANGES", "NYSE,NASDAQ,AMEX"), ","),
		},
		Indicators: IndicatorConfig{
			BatchSize: getEnvInt("INDICATOR_BATCH_SIZE", 500),
		},
		HotStocks: HotStockConfig{
			MinPriceChangePct: getEnvFloat("HOT_STOCK_MIN_CHANGE_PCT", 5.0),
			MinVolumeRatio:    getEnvFloat("HOT_STOCK_MIN_VOLUME_RATIO", 2.0),
			DaysToKeep:        getEnvInt("HOT_STOCK_DAYS_TO_KEEP", 7),
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

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

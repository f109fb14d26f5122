package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"contauno/internal/insights"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Messaging. An empty AMQPURL disables event publishing.
	AMQPURL      string
	AMQPExchange string

	// Inventory
	LowStockThreshold int64

	// Insight thresholds
	Insights insights.Policy
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "contauno"),
		DBPassword: getEnv("DB_PASSWORD", "contauno"),
		DBName:     getEnv("DB_NAME", "contauno"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "contauno.db"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		// Messaging
		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "contauno.events"),

		LowStockThreshold: getEnvInt("LOW_STOCK_THRESHOLD", 10),
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	def := insights.DefaultPolicy()
	config.Insights = insights.Policy{
		IncomeRise:       getEnvFloat("INSIGHT_INCOME_RISE", def.IncomeRise),
		IncomeDrop:       getEnvFloat("INSIGHT_INCOME_DROP", def.IncomeDrop),
		ExpenseRise:      getEnvFloat("INSIGHT_EXPENSE_RISE", def.ExpenseRise),
		ExpenseDrop:      getEnvFloat("INSIGHT_EXPENSE_DROP", def.ExpenseDrop),
		HealthyRatio:     getEnvFloat("INSIGHT_RATIO_HEALTHY", def.HealthyRatio),
		HighRatio:        getEnvFloat("INSIGHT_RATIO_HIGH", def.HighRatio),
		SavingsRatio:     getEnvFloat("INSIGHT_SAVINGS_RATIO", def.SavingsRatio),
		TopCategoryLimit: int(getEnvInt("INSIGHT_TOP_LIMIT", int64(def.TopCategoryLimit))),
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// Set replaces the process-wide configuration. Tests use it to pin a JWT secret.
func Set(c *Config) {
	appConfig = c
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %g\n", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

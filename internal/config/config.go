package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
	"github.com/osse101/ScoreLedger_Go/internal/logger"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	LogDir      string // empty logs to stdout only
	Environment string
	ServiceName string
	Version     string

	StorageDriver string
	DBUser        string
	DBPassword    string
	DBHost        string
	DBPort        string
	DBName        string
	DBMaxConns    int

	APIKey        string // exchanged for an admin token
	JWTSigningKey string
	JWTTTL        time.Duration
	BcryptCost    int

	PersistTimeout         time.Duration
	SubmitMaxRetries       int
	OrphanedScoresPolicy   domain.OrphanPolicy
	LeaderboardCacheSize   int
	MetricsRefreshInterval time.Duration
	TrustedProxies         []string
	GameSeedFile           string // optional JSON seed used when no configuration is stored
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// A missing .env is fine; real env vars may be set instead.
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnvAsInt("PORT", DefaultPort),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", logger.LogLevelInfo)),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", logger.LogFormatText)),
		LogDir:      getEnv("LOG_DIR", ""),
		Environment: getEnv("ENVIRONMENT", logger.EnvironmentDev),
		ServiceName: getEnv("SERVICE_NAME", logger.DefaultServiceName),
		Version:     getEnv("VERSION", logger.DefaultVersion),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBName:        getEnv("DB_NAME", "scoreledger"),
		DBMaxConns:    getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),

		APIKey:        getEnv("API_KEY", ""),
		JWTSigningKey: getEnv("JWT_SIGNING_KEY", ""),
		JWTTTL:        getEnvAsDuration("JWT_TTL", DefaultJWTTTL),
		BcryptCost:    getEnvAsInt("BCRYPT_COST", DefaultBcryptCost),

		PersistTimeout:         getEnvAsDuration("PERSIST_TIMEOUT", DefaultPersistTimeout),
		SubmitMaxRetries:       getEnvAsInt("SUBMIT_MAX_RETRIES", DefaultSubmitMaxRetries),
		OrphanedScoresPolicy:   domain.OrphanPolicy(strings.ToLower(getEnv("ORPHANED_SCORES_POLICY", string(domain.OrphanKeep)))),
		LeaderboardCacheSize:   getEnvAsInt("LEADERBOARD_CACHE_SIZE", DefaultLeaderboardCacheSize),
		MetricsRefreshInterval: getEnvAsDuration("METRICS_REFRESH_INTERVAL", DefaultMetricsRefreshInterval),
		TrustedProxies:         getEnvAsList("TRUSTED_PROXIES"),
		GameSeedFile:           getEnv("GAME_SEED_FILE", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT value: %d", c.Port)
	}
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY environment variable must be set for security")
	}
	if len(c.JWTSigningKey) < minJWTKeyLength {
		return fmt.Errorf("JWT_SIGNING_KEY must be at least %d characters", minJWTKeyLength)
	}
	switch c.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q: want %s or %s", c.StorageDriver, StorageDriverPostgres, StorageDriverMemory)
	}
	if !c.OrphanedScoresPolicy.Valid() {
		return fmt.Errorf("invalid ORPHANED_SCORES_POLICY %q: want %s or %s", c.OrphanedScoresPolicy, domain.OrphanKeep, domain.OrphanExclude)
	}
	if c.PersistTimeout <= 0 {
		return fmt.Errorf("PERSIST_TIMEOUT must be positive")
	}
	if c.SubmitMaxRetries < 0 {
		return fmt.Errorf("SUBMIT_MAX_RETRIES must not be negative")
	}
	if c.LeaderboardCacheSize <= 0 {
		return fmt.Errorf("LEADERBOARD_CACHE_SIZE must be positive")
	}
	if c.MetricsRefreshInterval <= 0 {
		return fmt.Errorf("METRICS_REFRESH_INTERVAL must be positive")
	}
	return nil
}

// LoggerConfig derives the logger configuration.
func (c *Config) LoggerConfig() logger.Config {
	return logger.NewConfig(c.LogLevel, c.LogFormat, c.ServiceName, c.Version, c.Environment)
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvAsList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

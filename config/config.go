package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server       ServerConfig
	Auth         AuthConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Log          LogConfig
	Scheduler    SchedulerConfig
	Compensation CompensationConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	RateLimit    int // requests per client IP per RateWindow; 0 disables
	RateWindow   time.Duration
}

// AuthConfig guards operator routes. An empty OperatorSecret leaves them open.
type AuthConfig struct {
	OperatorSecret string
	Issuer         string
	TokenExpiry    time.Duration
}

type DatabaseConfig struct {
	Driver          string // mysql | postgres
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig enables the cross-instance batch lock when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

type LogConfig struct {
	Level      string
	Filename   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

type SchedulerConfig struct {
	Enabled            bool
	Timezone           string
	PassiveIncomeCron  string
	RankAssignmentCron string
	BatchTimeout       time.Duration
}

// CompensationConfig overrides selected plan parameters. Zero values keep the defaults.
type CompensationConfig struct {
	PassiveDailyRate string
	NetworkDepth     int
}

func Load() *Config {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8099"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			RateLimit:    getEnvAsInt("RATE_LIMIT", 100),
			RateWindow:   getEnvAsDuration("RATE_WINDOW", time.Minute),
		},
		Auth: AuthConfig{
			OperatorSecret: getEnv("OPERATOR_JWT_SECRET", ""),
			Issuer:         getEnv("JWT_ISSUER", "payglobal"),
			TokenExpiry:    getEnvAsDuration("OPERATOR_TOKEN_EXPIRY", 12*time.Hour),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "mysql"),
			DSN:             getEnv("DATABASE_URL", "payglobal:payglobal@tcp(localhost:3306)/payglobal?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			LockTTL:  getEnvAsDuration("BATCH_LOCK_TTL", 2*time.Hour),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Filename:   getEnv("LOG_FILENAME", "logs/payglobal.log"),
			MaxSize:    getEnvAsInt("LOG_MAX_SIZE", 100),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),
			MaxAge:     getEnvAsInt("LOG_MAX_AGE", 28),
			Compress:   getEnvAsBool("LOG_COMPRESS", true),
		},
		Scheduler: SchedulerConfig{
			Enabled:            getEnvAsBool("SCHEDULER_ENABLED", true),
			Timezone:           getEnv("SCHEDULER_TZ", "UTC"),
			PassiveIncomeCron:  getEnv("PASSIVE_INCOME_CRON", "0 0 * * 1-5"),
			RankAssignmentCron: getEnv("RANK_ASSIGNMENT_CRON", "15 0 * * *"),
			BatchTimeout:       getEnvAsDuration("BATCH_TIMEOUT", time.Hour),
		},
		Compensation: CompensationConfig{
			PassiveDailyRate: getEnv("PASSIVE_DAILY_RATE", ""),
			NetworkDepth:     getEnvAsInt("NETWORK_DEPTH", 0),
		},
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	ServerPort string
	JWTSecret  string
	JWTExpiry  time.Duration

	LogLevel  string
	LogFormat string

	// RebalanceEpsilon is the smallest gap between neighbouring positions
	// tolerated before a column is respread.
	RebalanceEpsilon float64
	MaxBoardsPerUser int
	RunMigrations    bool

	// AdminEmails are promoted to global administrators at startup.
	AdminEmails []string

	// EnvFileErr is why .env could not be read, nil when it was. Load runs
	// before the logger exists, so the caller reports it.
	EnvFileErr error
}

func Load() *Config {
	envErr := godotenv.Load()

	return &Config{
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5431"),
		DBUser:           getEnv("DB_USER", "boardflow_user"),
		DBPassword:       getEnv("DB_PASSWORD", "boardflow_pass"),
		DBName:           getEnv("DB_NAME", "boardflow_db"),
		DBSSLMode:        getEnv("DB_SSLMODE", "disable"),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		JWTSecret:        getEnv("JWT_SECRET", "supersecretkey"),
		JWTExpiry:        time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "console"),
		RebalanceEpsilon: getEnvFloat("REBALANCE_EPSILON", 1e-5),
		MaxBoardsPerUser: getEnvInt("MAX_BOARDS_PER_USER", 5),
		RunMigrations:    getEnvBool("RUN_MIGRATIONS", true),
		AdminEmails:      getEnvList("ADMIN_EMAILS"),
		EnvFileErr:       envErr,
	}
}

// DSN is the gorm postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// MigrationURL is the same database in the form golang-migrate's pgx/v5
// driver expects.
func (c *Config) MigrationURL() string {
	return fmt.Sprintf("pgx5://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultVal
	}
	return value
}

func getEnvFloat(key string, defaultVal float64) float64 {
	value, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil || value <= 0 {
		return defaultVal
	}
	return value
}

func getEnvBool(key string, defaultVal bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultVal
	}
	return value
}

func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, ""), ",") {
		if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
			out = append(out, item)
		}
	}
	return out
}

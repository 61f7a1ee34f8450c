package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Gemini   GeminiConfig
	Sheets   SheetsConfig
	Qdrant   QdrantConfig
	Graph    GraphConfig
	Poller   PollerConfig
	Storage  StorageConfig
	State    StateConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type GeminiConfig struct {
	APIKey string
}

// SheetsConfig points at the spreadsheet holding per-role scoring criteria
// and the sheet receiving best-effort audit rows. The criteria fetch is a
// read and works with an API key; appending audit rows is a write, which
// the Sheets API only allows with service-account credentials.
type SheetsConfig struct {
	APIKey             string
	ServiceAccountJSON string
	SpreadsheetID      string
	CriteriaRange      string
	AuditRange         string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

// GraphConfig holds the Microsoft identity app registration used to read
// the recruiting mailbox.
type GraphConfig struct {
	ClientID     string
	ClientSecret string
	Tenant       string
	RedirectURL  string
}

type PollerConfig struct {
	Interval    time.Duration
	MaxMessages int
	MaxAttempts int
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type StateConfig struct {
	FilePath string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "recruitdesk_screening"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
		},
		Sheets: SheetsConfig{
			APIKey:             getEnv("SHEETS_API_KEY", ""),
			ServiceAccountJSON: getEnv("SHEETS_SERVICE_ACCOUNT_JSON", ""),
			SpreadsheetID:      getEnv("SHEETS_SPREADSHEET_ID", ""),
			CriteriaRange:      getEnv("SHEETS_CRITERIA_RANGE", "Roles!A2:C"),
			AuditRange:         getEnv("SHEETS_AUDIT_RANGE", "ScreeningLog!A:J"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", "http://localhost:6333"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "role_criteria"),
		},
		Graph: GraphConfig{
			ClientID:     getEnv("GRAPH_CLIENT_ID", ""),
			ClientSecret: getEnv("GRAPH_CLIENT_SECRET", ""),
			Tenant:       getEnv("GRAPH_TENANT", "common"),
			RedirectURL:  getEnv("GRAPH_REDIRECT_URL", "http://localhost:3000/api/v1/mailbox/callback"),
		},
		Poller: PollerConfig{
			Interval:    getEnvAsDuration("POLL_INTERVAL", "30s"),
			MaxMessages: getEnvAsInt("POLL_MAX_MESSAGES", 10),
			MaxAttempts: getEnvAsInt("POLL_MAX_ATTEMPTS", 3),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		State: StateConfig{
			FilePath: getEnv("STATE_FILE", "./state.json"),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

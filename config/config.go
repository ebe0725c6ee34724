package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	HostawayApiUrl    string
	HostawayApiKey    string
	HostawayAccountId string

	GooglePlacesApiUrl string
	GooglePlacesApiKey string // optional - Google endpoint degrades without it

	PublicCacheTTL   int // seconds, public reviews endpoint
	PublicRateLimit  int // requests per window
	PublicRateWindow int // seconds

	DeriveRatingFromCategories bool
	AllowModerationReversal    bool

	SyncCron        string
	DigestRecipient string // email for pending-review digests, empty disables

	EmailSender string
	Password    string // SMTP Password

	ManagerName     string
	ManagerEmail    string
	ManagerPassword string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "flexreviews"),

		HostawayApiUrl:    getEnv("HOSTAWAY_API_URL", "https://api.hostaway.com/v1"),
		HostawayApiKey:    getEnv("HOSTAWAY_API_KEY", ""),
		HostawayAccountId: getEnv("HOSTAWAY_ACCOUNT_ID", ""),

		GooglePlacesApiUrl: getEnv("GOOGLE_PLACES_API_URL", "https://maps.googleapis.com/maps/api/place"),
		GooglePlacesApiKey: getEnv("GOOGLE_PLACES_API_KEY", ""),

		PublicCacheTTL:   getEnvInt("PUBLIC_CACHE_TTL", 600),
		PublicRateLimit:  getEnvInt("PUBLIC_RATE_LIMIT", 30),
		PublicRateWindow: getEnvInt("PUBLIC_RATE_WINDOW", 60),

		DeriveRatingFromCategories: getEnvBool("DERIVE_RATING_FROM_CATEGORIES", true),
		AllowModerationReversal:    getEnvBool("MODERATION_ALLOW_REVERSAL", false),

		SyncCron:        getEnv("SYNC_CRON", "0 */6 * * *"),
		DigestRecipient: getEnv("DIGEST_RECIPIENT", ""),

		EmailSender: getEnv("EMAIL_SENDER", ""),
		Password:    getEnv("PASSWORD", ""),

		ManagerName:     getEnv("MANAGER_NAME", "Manager"),
		ManagerEmail:    getEnv("MANAGER_EMAIL", ""),
		ManagerPassword: getEnv("MANAGER_PASSWORD", ""),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.HostawayApiKey == "" {
		log.Println("Warning: HOSTAWAY_API_KEY is not set. Hostaway ingestion will fail.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

// getEnvBool retrieves an environment variable as a boolean or returns the default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return boolValue
}

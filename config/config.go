package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
type Config struct {
	ServerAddr string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// MinIO object storage for track artwork.
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioRegion    string
	MinioUseSSL    bool

	JWTSecret      string
	JWTExpiryHours int

	// Provider API credentials.
	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyRedirectURL  string
	YoutubeAPIKey       string
	LastfmAPIKey        string
	LastfmAPIURL        string

	// AppBaseURL is the externally visible origin of this deployment. It is
	// used as the postMessage origin for embedded players and as the OAuth
	// redirect base.
	AppBaseURL string

	// OpenFallbackTimeout is how long the link opener waits for a native app
	// to take the foreground before falling back to a web tab.
	OpenFallbackTimeout time.Duration

	// PresenceRadiusKm bounds the nearby-listener query.
	PresenceRadiusKm float64

	LogPath  string
	LogLevel string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvFloat gets an environment variable as float64 or returns a default value.
func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),

		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "chordfm"),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "127.0.0.1:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:    getEnv("MINIO_BUCKET", "chordfm-artwork"),
		MinioRegion:    getEnv("MINIO_REGION", "us-east-1"),
		MinioUseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",

		JWTSecret:      getEnv("JWT_SECRET", "chordfm-dev-secret"),
		JWTExpiryHours: getEnvInt("JWT_EXPIRY_HOURS", 72),

		SpotifyClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		SpotifyRedirectURL:  getEnv("SPOTIFY_REDIRECT_URL", "http://localhost:8080/api/oauth/spotify/callback"),
		YoutubeAPIKey:       os.Getenv("YOUTUBE_API_KEY"),
		LastfmAPIKey:        os.Getenv("LASTFM_API_KEY"),
		LastfmAPIURL:        getEnv("LASTFM_API_URL", "https://ws.audioscrobbler.com/2.0/"),

		AppBaseURL: getEnv("APP_BASE_URL", "http://localhost:8080"),

		OpenFallbackTimeout: time.Duration(getEnvInt("OPEN_FALLBACK_TIMEOUT_MS", 1500)) * time.Millisecond,
		PresenceRadiusKm:    getEnvFloat("PRESENCE_RADIUS_KM", 25),

		LogPath:  getEnv("LOG_PATH", "logs/chordfm.log"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

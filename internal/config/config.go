package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	OTP      OTPConfig
	Firebase FirebaseConfig
	Storage  StorageConfig
	CORS     CORSConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// JWTConfig holds session token configuration
type JWTConfig struct {
	Secret        string
	SessionExpiry time.Duration
}

// OTPConfig holds one-time-code configuration
type OTPConfig struct {
	Expiry        time.Duration
	EncryptionKey string
}

// FirebaseConfig holds delegated identity provider configuration.
// An empty ProjectID disables the Firebase auth route.
type FirebaseConfig struct {
	ProjectID string
}

// StorageConfig holds media object storage configuration.
// An empty Endpoint switches media uploads to local disk.
type StorageConfig struct {
	Endpoint    string
	Region      string
	AccessKey   string
	SecretKey   string
	ImageBucket string
	AudioBucket string
	LocalDir    string
	PublicBase  string
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowOrigins []string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "civicconnect"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			SessionExpiry: getEnvAsDuration("JWT_SESSION_EXPIRY", 30*24*time.Hour),
		},
		OTP: OTPConfig{
			Expiry:        getEnvAsDuration("OTP_EXPIRY", 5*time.Minute),
			EncryptionKey: getEnv("OTP_ENCRYPTION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"), // 32-bytes hex string
		},
		Firebase: FirebaseConfig{
			ProjectID: getEnv("FIREBASE_PROJECT_ID", ""),
		},
		Storage: StorageConfig{
			Endpoint:    getEnv("STORAGE_ENDPOINT", ""),
			Region:      getEnv("STORAGE_REGION", "us-east-1"),
			AccessKey:   getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey:   getEnv("STORAGE_SECRET_KEY", ""),
			ImageBucket: getEnv("STORAGE_IMAGE_BUCKET", "issue-images"),
			AudioBucket: getEnv("STORAGE_AUDIO_BUCKET", "issue-audio"),
			LocalDir:    getEnv("STORAGE_LOCAL_DIR", "uploads"),
			PublicBase:  getEnv("STORAGE_PUBLIC_BASE", "/uploads"),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"*"}),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var out []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

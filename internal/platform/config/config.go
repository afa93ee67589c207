package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string

	AccessTokenKey  []byte
	AccessTokenExp  time.Duration
	RefreshTokenKey []byte
	RefreshTokenExp time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	MigrationsPath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MediaQueueName string

	MediaEndpoint  string
	MediaAccessKey string
	MediaSecretKey string
	MediaBucket    string
	MediaRegion    string
	MediaUseSSL    bool
	MediaPublicURL string
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort:         getEnv("API_PORT", "8080"),
		AccessTokenKey:  []byte(getEnv("ACCESS_TOKEN_SECRET", "defaultaccesssecret")),
		AccessTokenExp:  time.Duration(getEnvAsInt("ACCESS_TOKEN_EXPIRY_MINUTES", 60)) * time.Minute,
		RefreshTokenKey: []byte(getEnv("REFRESH_TOKEN_SECRET", "defaultrefreshsecret")),
		RefreshTokenExp: time.Duration(getEnvAsInt("REFRESH_TOKEN_EXPIRY_DAYS", 10)) * 24 * time.Hour,
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "user"),
		DBPassword:      getEnv("DB_PASSWORD", "password"),
		DBName:          getEnv("DB_NAME", "streamvault_db"),
		DBSslMode:       getEnv("DB_SSLMODE", "disable"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "file://migrations"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvAsInt("REDIS_DB", 0),
		MediaQueueName:  getEnv("MEDIA_QUEUE_NAME", "media_check_queue"),
		MediaEndpoint:   getEnv("MEDIA_ENDPOINT", "localhost:9000"),
		MediaAccessKey:  getEnv("MEDIA_ACCESS_KEY_ID", ""),
		MediaSecretKey:  getEnv("MEDIA_SECRET_ACCESS_KEY", ""),
		MediaBucket:     getEnv("MEDIA_BUCKET_NAME", "streamvault-media"),
		MediaRegion:     getEnv("MEDIA_REGION", "us-east-1"),
		MediaUseSSL:     getEnvAsBool("MEDIA_USE_SSL", false),
		MediaPublicURL:  getEnv("MEDIA_PUBLIC_URL", "http://localhost:9000"),
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

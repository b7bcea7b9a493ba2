package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port                    string
	Env                     string
	FirebaseCredentialsPath string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	JWTSecret               string
	AdminEmail              string
	AdminPasswordHash       string
	CooldownDays            int
}

func Load() *Config {
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "rescueplatform"),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		AdminEmail:              getEnv("ADMIN_EMAIL", ""),
		AdminPasswordHash:       getEnv("ADMIN_PASSWORD_HASH", ""),
		CooldownDays:            getEnvInt("REACTIVATION_COOLDOWN_DAYS", 30),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

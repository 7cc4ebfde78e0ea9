package config

import (
	"os"
	"strconv"
	"strings"
)

// Storage backend names accepted in STORAGE_BACKEND.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Persistence
	StorageBackend  string
	DataFile        string
	DatabaseURL     string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	AppointmentsKey string

	// Assistant (Gemini)
	GeminiAPIKey  string
	GeminiModelID string

	// Clinic identity used in prompts and messages
	ClinicName string
	DoctorName string

	// HTTP surface
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StorageBackend:  strings.ToLower(strings.TrimSpace(getEnv("STORAGE_BACKEND", BackendFile))),
		DataFile:        getEnv("DATA_FILE", "appointments.json"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvAsInt("REDIS_DB", 0),
		AppointmentsKey: getEnv("APPOINTMENTS_KEY", "clinic:appointments"),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModelID: getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),

		ClinicName: getEnv("CLINIC_NAME", "SaudeViva Clinic"),
		DoctorName: getEnv("DOCTOR_NAME", "Dr. Carlos"),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS"),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice splits a comma-separated environment variable, dropping
// empty entries.
func getEnvAsSlice(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

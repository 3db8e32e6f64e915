package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()
}

type Config struct {
	// Twilio (WhatsApp transport)
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioPhone      string

	// Cal.com scheduler
	CalAPIKey      string
	CalEventTypeID int
	CalAccountUser string

	// OpenAI (extraction + transcription)
	OpenAIAPIKey string
	OpenAIModel  string

	// Optional collaborators
	SheetsID              string
	SheetsCredentialsFile string
	ResendAPIKey          string
	OperatorEmail         string
	EmailFrom             string

	// Optional with defaults
	DBPath             string
	HTTPPort           int
	Timezone           string
	MinimumNoticeHours int
	EventDurationMin   int
	AvailabilityDays   int
	ExtractionTemp     float64
}

func LoadFromEnv() *Config {
	return &Config{
		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioPhone:      os.Getenv("TWILIO_PHONE_NUMBER"),

		CalAPIKey:      os.Getenv("CAL_API_KEY"),
		CalEventTypeID: getEnvAsIntOrDefault("CAL_EVENT_TYPE_ID", 3953936),
		CalAccountUser: os.Getenv("CAL_ACCOUNT_USERNAME"),

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getEnvOrDefault("BOOKLINE_OPENAI_MODEL", "gpt-4o-mini"),

		SheetsID:              os.Getenv("GOOGLE_SHEETS_ID"),
		SheetsCredentialsFile: os.Getenv("GOOGLE_SHEETS_CREDENTIALS"),
		ResendAPIKey:          os.Getenv("RESEND_API_KEY"),
		OperatorEmail:         os.Getenv("BOOKLINE_OPERATOR_EMAIL"),
		EmailFrom:             getEnvOrDefault("BOOKLINE_EMAIL_FROM", "Bookline <onboarding@resend.dev>"),

		DBPath:             getEnvOrDefault("BOOKLINE_DB_PATH", "./bookline.db"),
		HTTPPort:           getEnvAsIntOrDefault("BOOKLINE_HTTP_PORT", 5000),
		Timezone:           getEnvOrDefault("BOOKLINE_TIMEZONE", "America/New_York"),
		MinimumNoticeHours: getEnvAsIntOrDefault("BOOKLINE_MIN_NOTICE_HOURS", 1),
		EventDurationMin:   getEnvAsIntOrDefault("BOOKLINE_EVENT_DURATION_MIN", 15),
		AvailabilityDays:   getEnvAsIntOrDefault("BOOKLINE_AVAILABILITY_DAYS", 7),
		ExtractionTemp:     getEnvAsFloatOrDefault("BOOKLINE_EXTRACTION_TEMPERATURE", 0.3),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

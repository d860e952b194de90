package config

import (
	"os"
	"strconv"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Config struct {
	LinkedinClientID      string
	LinkedinClientSecret  string
	LinkedinRedirectURI   string
	InstagramClientID     string
	InstagramClientSecret string
	InstagramRedirectURI  string
	FacebookClientID      string
	FacebookRedirectURI   string
	XClientID             string
	XRedirectURI          string
	GoogleClientID        string
	GoogleClientSecret    string
	GoogleRedirectURI     string
	OpenAIKey             string
	PaymentWebhookSecret  string
	PostgresURI           string
	RedisURI              string
	FrontendURL           string
	ServerAddr            string
	R2                    R2
	SecretKey             string
	CookieName            string
	SweepSecret           string
	SweepBatchSize        int
	MaxPublishAttempts    int
}

func LoadConfig() *Config {
	return &Config{
		LinkedinClientID:      getEnv("LINKEDIN_CLIENT_ID", ""),
		LinkedinClientSecret:  getEnv("LINKEDIN_CLIENT_SECRET", ""),
		LinkedinRedirectURI:   getEnv("LINKEDIN_REDIRECT_URI", ""),
		InstagramClientID:     getEnv("INSTAGRAM_CLIENT_ID", ""),
		InstagramClientSecret: getEnv("INSTAGRAM_CLIENT_SECRET", ""),
		InstagramRedirectURI:  getEnv("INSTAGRAM_REDIRECT_URI", ""),
		FacebookClientID:      getEnv("FACEBOOK_CLIENT_ID", ""),
		FacebookRedirectURI:   getEnv("FACEBOOK_REDIRECT_URI", ""),
		XClientID:             getEnv("X_CLIENT_ID", ""),
		XRedirectURI:          getEnv("X_REDIRECT_URI", ""),
		GoogleClientID:        getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:    getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:     getEnv("GOOGLE_REDIRECT_URI", ""),
		OpenAIKey:             getEnv("OPENAI_API_KEY", ""),
		PaymentWebhookSecret:  getEnv("PAYMENT_WEBHOOK_SECRET", ""),
		PostgresURI:           getEnv("POSTGRES_URI", ""),
		RedisURI:              getEnv("REDIS_URI", ""),
		FrontendURL:           getEnv("FRONTEND_URL", "http://localhost:5173"),
		ServerAddr:            getEnv("SERVER_ADDR", ":3000"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		SecretKey:          getEnv("SECRET_KEY", ""),
		CookieName:         getEnv("COOKIE_NAME", "postpilot_session"),
		SweepSecret:        getEnv("SWEEP_SECRET", ""),
		SweepBatchSize:     getEnvInt("SWEEP_BATCH_SIZE", 10),
		MaxPublishAttempts: getEnvInt("MAX_PUBLISH_ATTEMPTS", 3),
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
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB    int    `mapstructure:"REDIS_AUTH_DB"`
	RedisKYCDB     int    `mapstructure:"REDIS_KYC_DB"`
	RedisTaskQueue int    `mapstructure:"REDIS_TASK_QUEUE_DB"`

	// KYC verification provider configuration.
	KYCPrimaryBaseURL string `mapstructure:"KYC_PRIMARY_BASE_URL"`
	KYCLegacyBaseURL  string `mapstructure:"KYC_LEGACY_BASE_URL"`
	KYCClientID       string `mapstructure:"KYC_CLIENT_ID"`
	KYCClientSecret   string `mapstructure:"KYC_CLIENT_SECRET"`
	KYCRedirectURL    string `mapstructure:"KYC_REDIRECT_URL"`

	// Polling tuning for Aadhaar consent sessions.
	KYCPollDelaySec    int `mapstructure:"KYC_POLL_DELAY_SEC"`
	KYCPollIntervalSec int `mapstructure:"KYC_POLL_INTERVAL_SEC"`
	KYCMaxPolls        int `mapstructure:"KYC_MAX_POLLS"`
	KYCSessionTTLMin   int `mapstructure:"KYC_SESSION_TTL_MIN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_KYC_DB", 2)
	viper.SetDefault("REDIS_TASK_QUEUE_DB", 3)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("KYC_PRIMARY_BASE_URL", "https://kyc.truvault.in/api/v2")
	viper.SetDefault("KYC_LEGACY_BASE_URL", "https://verify.truvault.in/api/v1")
	viper.SetDefault("KYC_REDIRECT_URL", "https://app.agrimandi.in/kyc/callback")
	viper.SetDefault("KYC_CLIENT_ID", "")
	viper.SetDefault("KYC_CLIENT_SECRET", "")
	viper.SetDefault("KYC_POLL_DELAY_SEC", 3)
	viper.SetDefault("KYC_POLL_INTERVAL_SEC", 3)
	viper.SetDefault("KYC_MAX_POLLS", 120)
	viper.SetDefault("KYC_SESSION_TTL_MIN", 6)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// KYCPollDelay returns the delay before the first status poll of a session.
func KYCPollDelay() time.Duration {
	return time.Duration(AppConfig.KYCPollDelaySec) * time.Second
}

// KYCPollInterval returns the fixed interval between status polls.
func KYCPollInterval() time.Duration {
	return time.Duration(AppConfig.KYCPollIntervalSec) * time.Second
}

// KYCSessionTTL returns the absolute lifetime of a consent session.
func KYCSessionTTL() time.Duration {
	return time.Duration(AppConfig.KYCSessionTTLMin) * time.Minute
}

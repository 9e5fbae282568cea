package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig holds all configuration for the server.
// Tags use mapstructure for Viper unmarshalling.
type ServerConfig struct {
	HTTPPort    string `mapstructure:"HTTP_PORT"`
	MongoURI    string `mapstructure:"MONGO_URI"`
	MongoDBName string `mapstructure:"MONGO_DB_NAME"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	LogPretty   bool   `mapstructure:"LOG_PRETTY"`

	JWTSecretKey      string `mapstructure:"JWT_SECRET_KEY"`
	UserTokenTTLHour  int    `mapstructure:"USER_TOKEN_TTL_HOUR"`
	AdminTokenTTLHour int    `mapstructure:"ADMIN_TOKEN_TTL_HOUR"`
	AdminRegKey       string `mapstructure:"ADMIN_REGISTRATION_KEY"`

	OpenWeatherAPIKey  string `mapstructure:"OPENWEATHER_API_KEY"`
	ClassifierEndpoint string `mapstructure:"CLASSIFIER_ENDPOINT"`

	S3Bucket string `mapstructure:"S3_BUCKET"`
	S3Region string `mapstructure:"S3_REGION"`

	// Optional. When empty the denylist cache stays in-process.
	RedisAddr string `mapstructure:"REDIS_ADDR"`
}

// LoadConfig reads configuration from file, environment variables, and defaults.
func LoadConfig() (*ServerConfig, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("/etc/farmcare/")
	v.AddConfigPath("$HOME/.farmcare")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017/farmcare_dev")
	v.SetDefault("MONGO_DB_NAME", "farmcare_dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", true)
	v.SetDefault("JWT_SECRET_KEY", "a_very_secret_jwt_key_change_me") // CHANGE IN PRODUCTION
	v.SetDefault("USER_TOKEN_TTL_HOUR", 240)                          // 10 days
	v.SetDefault("ADMIN_TOKEN_TTL_HOUR", 5)
	v.SetDefault("S3_REGION", "ap-south-1")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults and env vars apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	return &cfg, nil
}

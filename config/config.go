package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port               string
	RateLimitPerMinute int
	Database           DatabaseConfig
	JWT                JWTConfig
	Mail               MailConfig
	Storage            StorageConfig
	APIURL             string
}

type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SQLitePath string
}

type MailConfig struct {
	AppURL       string
	SMTPHost     string
	SMTPPort     int
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

// Enabled reports whether an SMTP relay is configured.
func (m MailConfig) Enabled() bool {
	return m.SMTPHost != "" && m.SMTPEmail != ""
}

type StorageConfig struct {
	Bucket       string
	Region       string
	AccessKey    string
	SecretKey    string
	ImageBaseURL string
	PresignTTL   time.Duration
	// PublicRead serves unsigned object URLs for buckets that allow public reads.
	PublicRead bool
}

// Load reads .env (if present), config.yaml (if present) and the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	cfg := Config{
		Port:               v.GetString("PORT"),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		APIURL:             v.GetString("API_URL"),
		Database: DatabaseConfig{
			Driver:     v.GetString("DB_DRIVER"),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			Name:       v.GetString("DB_NAME"),
			SQLitePath: v.GetString("DB_SQLITE_PATH"),
		},
		JWT: loadJWTConfig(v),
		Mail: MailConfig{
			AppURL:       v.GetString("APP_URL"),
			SMTPHost:     v.GetString("SMTP_HOST"),
			SMTPPort:     v.GetInt("SMTP_PORT"),
			SMTPSender:   v.GetString("SMTP_SENDER_NAME"),
			SMTPEmail:    v.GetString("SMTP_AUTH_EMAIL"),
			SMTPPassword: v.GetString("SMTP_AUTH_PASSWORD"),
		},
		Storage: StorageConfig{
			Bucket:       v.GetString("AWS_S3_BUCKET"),
			Region:       v.GetString("AWS_S3_REGION"),
			AccessKey:    v.GetString("AWS_ACCESS_KEY"),
			SecretKey:    v.GetString("AWS_SECRET_KEY"),
			ImageBaseURL: v.GetString("IMAGE_BASE_URL"),
			PresignTTL:   v.GetDuration("IMAGE_PRESIGN_TTL"),
			PublicRead:   v.GetBool("AWS_S3_PUBLIC_READ"),
		},
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 30)
	v.SetDefault("API_URL", "http://localhost:8080")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "recipes")
	v.SetDefault("DB_SQLITE_PATH", "recipes.db")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRATION", 24*time.Hour)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_SENDER_NAME", "Recipe Blog")
	v.SetDefault("APP_URL", "http://localhost:3000")
	v.SetDefault("IMAGE_PRESIGN_TTL", 15*time.Minute)
}

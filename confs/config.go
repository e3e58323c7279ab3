package confs

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the server.
type Config struct {
	Port      string
	ClientURL string

	DB    DBConfig
	Auth  AuthConfig
	Redis RedisConfig
	Mail  MailConfig

	AdminEmail    string
	AdminPassword string
	ContactInbox  string

	NotifyFlushInterval time.Duration
}

type DBConfig struct {
	Driver   string // postgres | sqlite
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	LogSQL   bool
}

type AuthConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
}

type MailConfig struct {
	From     string
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
}

// SMTPEnabled reports whether real email delivery is configured.
func (m MailConfig) SMTPEnabled() bool { return m.SMTPHost != "" }

// LoadConfig loads environment variables from a .env file if present,
// applies defaults and validates essential settings.
func LoadConfig() (*Config, error) {
	// Load .env if it exists; ignore error if file not found
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("warning: could not load .env: %v", err)
		}
	}

	v := viper.New()
	v.SetDefault("PORT", "3000")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("ACCESS_TOKEN_EXPIRES_IN", "15m")
	v.SetDefault("REFRESH_TOKEN_EXPIRES_IN", "168h")
	v.SetDefault("MAIL_FROM", "no-reply@example.com")
	v.SetDefault("SMTP_PORT", "587")
	v.SetDefault("NOTIFY_FLUSH_INTERVAL", "5s")
	v.SetDefault("LOG_SQL", false)
	v.AutomaticEnv()

	cfg := &Config{
		Port:      v.GetString("PORT"),
		ClientURL: strings.TrimRight(v.GetString("CLIENT_URL"), "/"),
		DB: DBConfig{
			Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
			URL:      v.GetString("DB_URL"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			LogSQL:   v.GetBool("LOG_SQL"),
		},
		Auth: AuthConfig{
			AccessSecret:  v.GetString("SECRET_KEY"),
			RefreshSecret: v.GetString("REFRESH_TOKEN_SECRET"),
			AccessTTL:     parseTTL(v.GetString("ACCESS_TOKEN_EXPIRES_IN"), 15*time.Minute),
			RefreshTTL:    parseTTL(v.GetString("REFRESH_TOKEN_EXPIRES_IN"), 7*24*time.Hour),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		Mail: MailConfig{
			From:     v.GetString("MAIL_FROM"),
			SMTPHost: v.GetString("SMTP_HOST"),
			SMTPPort: v.GetString("SMTP_PORT"),
			SMTPUser: v.GetString("SMTP_USER"),
			SMTPPass: v.GetString("SMTP_PASS"),
		},
		AdminEmail:          v.GetString("ADMIN_EMAIL"),
		AdminPassword:       v.GetString("ADMIN_PASSWORD"),
		ContactInbox:        v.GetString("CONTACT_INBOX"),
		NotifyFlushInterval: parseTTL(v.GetString("NOTIFY_FLUSH_INTERVAL"), 5*time.Second),
	}

	if cfg.Auth.AccessSecret == "" {
		return nil, errors.New("SECRET_KEY is not set")
	}
	if cfg.Auth.RefreshSecret == "" {
		return nil, errors.New("REFRESH_TOKEN_SECRET is not set")
	}
	if cfg.Auth.AccessSecret == cfg.Auth.RefreshSecret {
		log.Printf("warning: SECRET_KEY and REFRESH_TOKEN_SECRET are identical")
	}
	return cfg, nil
}

// parseTTL accepts Go durations ("15m") and a "<n>d" day shorthand ("7d").
func parseTTL(raw string, fallback time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	if strings.HasSuffix(raw, "d") {
		if d, err := time.ParseDuration(strings.TrimSuffix(raw, "d") + "h"); err == nil {
			return d * 24
		}
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("warning: invalid duration %q, using %s", raw, fallback)
		return fallback
	}
	return d
}

package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	DefaultAddr  = ":5000"
	DefaultDB    = "odenlounge.db"
	DefaultMedia = "media"
)

// Config carries every process-wide setting. It is loaded once at startup
// and injected into the collaborators that need it.
type Config struct {
	Addr          string
	DBPath        string
	MediaDir      string
	PublicBaseURL string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string

	AdminEmail string
}

// Load reads the configuration from environment variables. SMTP settings are
// optional; when SMTPHost is empty the server falls back to a log-only mailer.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:          getenv("ADDR", DefaultAddr),
		DBPath:        getenv("DB_PATH", DefaultDB),
		MediaDir:      getenv("MEDIA_DIR", DefaultMedia),
		PublicBaseURL: getenv("PUBLIC_BASE_URL", "http://localhost:5000"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPUser:      os.Getenv("EMAIL_USER"),
		SMTPPass:      os.Getenv("EMAIL_PASS"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
	}

	if port := os.Getenv("SMTP_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", port, err)
		}
		cfg.SMTPPort = p
	} else {
		cfg.SMTPPort = 587
	}

	if cfg.SMTPHost != "" && cfg.SMTPUser == "" {
		return nil, fmt.Errorf("EMAIL_USER is required when SMTP_HOST is set")
	}
	if cfg.SMTPHost != "" && cfg.AdminEmail == "" {
		return nil, fmt.Errorf("ADMIN_EMAIL is required when SMTP_HOST is set")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

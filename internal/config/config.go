package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/vncsmyrnk/pollweb/internal/logging"
)

type Config struct {
	ServerConfig
	PollServiceConfig
	SessionConfig
	LogConfig
}

type ServerConfig struct {
	Addr string
}

type PollServiceConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	CookieName   string
	CookieSecure bool
	TokenFile    string
}

type LogConfig struct {
	Level string
	File  string
}

// Load reads an optional .env file and then the environment. Values already
// set in the environment win over the .env file.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
		logging.Log.Debug("no .env file found")
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("poll_service.url", "http://localhost:8000")
	v.SetDefault("poll_service.timeout", "10s")
	v.SetDefault("session.cookie_name", "jwt_token")
	v.SetDefault("session.cookie_secure", false)
	v.SetDefault("session.token_file", defaultTokenFile())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	conf := &Config{
		ServerConfig: ServerConfig{
			Addr: v.GetString("server.addr"),
		},
		PollServiceConfig: PollServiceConfig{
			BaseURL: v.GetString("poll_service.url"),
			Timeout: v.GetDuration("poll_service.timeout"),
		},
		SessionConfig: SessionConfig{
			CookieName:   v.GetString("session.cookie_name"),
			CookieSecure: v.GetBool("session.cookie_secure"),
			TokenFile:    v.GetString("session.token_file"),
		},
		LogConfig: LogConfig{
			Level: v.GetString("log.level"),
			File:  v.GetString("log.file"),
		},
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return errors.New("POLL_SERVICE_URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("POLL_SERVICE_TIMEOUT must be positive, got %s", c.Timeout)
	}
	if c.CookieName == "" {
		return errors.New("SESSION_COOKIE_NAME must not be empty")
	}
	return nil
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "pollweb", "token")
}

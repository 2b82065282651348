package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"gopkg.in/yaml.v3"
)

const (
	LinkModeSignup = "signup"
	LinkModeLogin  = "login"

	DefaultSiteURL = "http://localhost:3000"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token   string `yaml:"token"`
	Workers int    `yaml:"workers"` // update handlers; 1 keeps updates strictly sequential
}

type SiteConfig struct {
	BaseURL  string `yaml:"base_url"`
	LinkMode string `yaml:"link_mode"` // signup | login
}

type HTTPConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type WorkerConfig struct {
	Size  int `yaml:"size"`
	Queue int `yaml:"queue"`
}

type LogConfig struct {
	Level      string `yaml:"level"`  // trace|debug|info|warn|error
	Format     string `yaml:"format"` // json|console
	File       string `yaml:"file"`   // optional rotating file, stdout is always written
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type I18nConfig struct {
	Lang string `yaml:"lang"`
}

type Config struct {
	Bot    BotConfig    `yaml:"bot"`
	Site   SiteConfig   `yaml:"site"`
	HTTP   HTTPConfig   `yaml:"http"`
	Worker WorkerConfig `yaml:"worker"`
	Log    LogConfig    `yaml:"log"`
	I18n   I18nConfig   `yaml:"i18n"`

	Runtime RuntimeConfig `yaml:"-"`
}

// envOverlay holds the environment variables that take precedence over the YAML file.
// Unset variables stay nil. The lowercase names are the ones older .env files use;
// the uppercase name wins when both are set.
type envOverlay struct {
	BotToken  *string `env:"BOT_TOKEN,bot_token"`
	SiteURL   *string `env:"SITE_URL,site_url"`
	LinkMode  *string `env:"LINK_MODE"`
	HTTPPort  *int    `env:"HTTP_PORT"`
	LogLevel  *string `env:"LOG_LEVEL"`
	LogFormat *string `env:"LOG_FORMAT"`
	LogFile   *string `env:"LOG_FILE"`
	Lang      *string `env:"LANG_CODE"`
}

// LoadConfig reads the optional YAML file at path, applies the environment overlay,
// fills defaults and validates the result. A missing file is not an error.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var ov envOverlay
	if _, err := env.UnmarshalFromEnviron(&ov); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	ov.apply(&cfg)

	cfg.setDefaults()
	cfg.Runtime.Dev = dev

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (o envOverlay) apply(cfg *Config) {
	setStr := func(dst *string, v *string) {
		if v != nil && strings.TrimSpace(*v) != "" {
			*dst = strings.TrimSpace(*v)
		}
	}
	setStr(&cfg.Bot.Token, o.BotToken)
	setStr(&cfg.Site.BaseURL, o.SiteURL)
	setStr(&cfg.Site.LinkMode, o.LinkMode)
	setStr(&cfg.Log.Level, o.LogLevel)
	setStr(&cfg.Log.Format, o.LogFormat)
	setStr(&cfg.Log.File, o.LogFile)
	setStr(&cfg.I18n.Lang, o.Lang)
	if o.HTTPPort != nil && *o.HTTPPort > 0 {
		cfg.HTTP.Port = *o.HTTPPort
	}
}

func (c *Config) setDefaults() {
	if c.Bot.Workers <= 0 {
		c.Bot.Workers = 1
	}
	if c.Site.BaseURL == "" {
		c.Site.BaseURL = DefaultSiteURL
	}
	c.Site.BaseURL = strings.TrimRight(c.Site.BaseURL, "/")
	if c.Site.LinkMode == "" {
		c.Site.LinkMode = LinkModeSignup
	}
	c.Site.LinkMode = strings.ToLower(c.Site.LinkMode)
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 5000
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		c.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if c.Worker.Size <= 0 {
		c.Worker.Size = 4
	}
	if c.Worker.Queue <= 0 {
		c.Worker.Queue = 64
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = 50
	}
	if c.Log.MaxBackups <= 0 {
		c.Log.MaxBackups = 5
	}
	if c.Log.MaxAgeDays <= 0 {
		c.Log.MaxAgeDays = 14
	}
	if c.I18n.Lang == "" {
		c.I18n.Lang = "zh"
	}
}

// Validate reports the first configuration problem that must abort startup.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Bot.Token) == "" {
		return errors.New("bot token is required (set BOT_TOKEN, bot_token or bot.token)")
	}
	switch c.Site.LinkMode {
	case LinkModeSignup, LinkModeLogin:
	default:
		return fmt.Errorf("site.link_mode must be %q or %q, got %q", LinkModeSignup, LinkModeLogin, c.Site.LinkMode)
	}
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil {
		return fmt.Errorf("site.base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("site.base_url must be an absolute http(s) URL, got %q", c.Site.BaseURL)
	}
	return nil
}

//go:build !integration

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv unsets every overlay variable; t.Setenv restores the previous values afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"BOT_TOKEN", "bot_token", "SITE_URL", "site_url", "LINK_MODE", "HTTP_PORT", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE", "LANG_CODE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadConfig(t *testing.T) {
	t.Run("should fail without a bot token", func(t *testing.T) {
		clearEnv(t)
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), false)
		if err == nil {
			t.Fatal("expected an error for missing token")
		}
		if !strings.Contains(err.Error(), "token") {
			t.Errorf("error should mention the token, got %v", err)
		}
	})

	t.Run("should fill defaults when only the token is set", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BOT_TOKEN", "123:abc")

		cfg, err := LoadConfig("", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Site.BaseURL != DefaultSiteURL {
			t.Errorf("base url: want %s, got %s", DefaultSiteURL, cfg.Site.BaseURL)
		}
		if cfg.Site.LinkMode != LinkModeSignup {
			t.Errorf("link mode: want %s, got %s", LinkModeSignup, cfg.Site.LinkMode)
		}
		if cfg.Bot.Workers != 1 {
			t.Errorf("bot workers: want 1, got %d", cfg.Bot.Workers)
		}
		if cfg.HTTP.Port != 5000 {
			t.Errorf("http port: want 5000, got %d", cfg.HTTP.Port)
		}
		if cfg.Worker.Size != 4 || cfg.Worker.Queue != 64 {
			t.Errorf("worker defaults: got size=%d queue=%d", cfg.Worker.Size, cfg.Worker.Queue)
		}
		if cfg.HTTP.ShutdownTimeout != 10*time.Second {
			t.Errorf("shutdown timeout: got %s", cfg.HTTP.ShutdownTimeout)
		}
	})

	t.Run("should read yaml and let the environment win", func(t *testing.T) {
		clearEnv(t)
		p := writeYAML(t, `
bot:
  token: from-yaml
site:
  base_url: https://yaml.example.com/
  link_mode: login
http:
  port: 8081
`)
		t.Setenv("SITE_URL", "https://env.example.com")
		t.Setenv("HTTP_PORT", "9090")

		cfg, err := LoadConfig(p, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Bot.Token != "from-yaml" {
			t.Errorf("token: got %q", cfg.Bot.Token)
		}
		if cfg.Site.BaseURL != "https://env.example.com" {
			t.Errorf("base url: got %q", cfg.Site.BaseURL)
		}
		if cfg.Site.LinkMode != LinkModeLogin {
			t.Errorf("link mode: got %q", cfg.Site.LinkMode)
		}
		if cfg.HTTP.Port != 9090 {
			t.Errorf("port: got %d", cfg.HTTP.Port)
		}
		if !cfg.Runtime.Dev {
			t.Error("dev flag should be carried into runtime config")
		}
	})

	t.Run("should accept the lowercase bot_token and site_url names", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("bot_token", "123:abc")
		t.Setenv("site_url", "https://legacy.example.com/")

		cfg, err := LoadConfig("", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Bot.Token != "123:abc" {
			t.Errorf("token: got %q", cfg.Bot.Token)
		}
		if cfg.Site.BaseURL != "https://legacy.example.com" {
			t.Errorf("base url: got %q", cfg.Site.BaseURL)
		}
	})

	t.Run("should prefer BOT_TOKEN over bot_token", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BOT_TOKEN", "upper")
		t.Setenv("bot_token", "lower")

		cfg, err := LoadConfig("", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Bot.Token != "upper" {
			t.Errorf("token: want upper, got %q", cfg.Bot.Token)
		}
	})

	t.Run("should still load a file that sets the retired bot.mode key", func(t *testing.T) {
		clearEnv(t)
		p := writeYAML(t, "bot:\n  token: t\n  mode: polling\n  workers: 2\n")
		cfg, err := LoadConfig(p, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Bot.Workers != 2 {
			t.Errorf("workers: got %d", cfg.Bot.Workers)
		}
	})

	t.Run("should trim a trailing slash from the yaml base url", func(t *testing.T) {
		clearEnv(t)
		p := writeYAML(t, "bot:\n  token: t\nsite:\n  base_url: https://site.example.com/\n")
		cfg, err := LoadConfig(p, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Site.BaseURL != "https://site.example.com" {
			t.Errorf("got %q", cfg.Site.BaseURL)
		}
	})

	t.Run("should reject an unknown link mode", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BOT_TOKEN", "t")
		t.Setenv("LINK_MODE", "both")
		if _, err := LoadConfig("", false); err == nil {
			t.Fatal("expected link mode error")
		}
	})

	t.Run("should reject a relative base url", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BOT_TOKEN", "t")
		t.Setenv("SITE_URL", "localhost:3000")
		if _, err := LoadConfig("", false); err == nil {
			t.Fatal("expected base url error")
		}
	})

	t.Run("should report malformed yaml", func(t *testing.T) {
		clearEnv(t)
		p := writeYAML(t, "bot: [unterminated")
		if _, err := LoadConfig(p, false); err == nil {
			t.Fatal("expected parse error")
		}
	})
}

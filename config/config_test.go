package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.Server.Addr)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("expected in-memory cache by default, got redis %s", cfg.Redis.Addr)
	}
	if cfg.Chat.SessionTTL != 24*time.Hour {
		t.Errorf("unexpected session ttl %v", cfg.Chat.SessionTTL)
	}
	if cfg.Profile.CreditScore != 720 || cfg.Profile.DebtToIncome != 35 {
		t.Errorf("unexpected profile %+v", cfg.Profile)
	}
	if cfg.Advisor.Enabled() {
		t.Error("advisor should be disabled without an API key")
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "info" {
		t.Errorf("unexpected log config %+v", cfg.Log)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("RATE_LIMIT_BURST", "3")
	t.Setenv("PROFILE_CREDIT_SCORE", "780")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LOG_FORMAT", "TEXT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":9090" || cfg.Redis.Addr != "localhost:6379" || cfg.Redis.DB != 2 {
		t.Errorf("unexpected overrides %+v %+v", cfg.Server, cfg.Redis)
	}
	if cfg.RateLimit.Burst != 3 || cfg.Profile.CreditScore != 780 {
		t.Errorf("unexpected overrides %+v %+v", cfg.RateLimit, cfg.Profile)
	}
	if !cfg.Advisor.Enabled() || cfg.Log.Format != "text" {
		t.Errorf("unexpected overrides %+v %+v", cfg.Advisor, cfg.Log)
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("CHAT_SESSION_TTL=2h\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENV_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Chat.SessionTTL != 2*time.Hour {
		t.Errorf("expected 2h from env file, got %v", cfg.Chat.SessionTTL)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"invalid int", "RATE_LIMIT_PER_MINUTE", "abc", "must be an integer"},
		{"zero int", "RATE_LIMIT_BURST", "0", "greater than 0"},
		{"negative redis db", "REDIS_DB", "-1", "must not be negative"},
		{"bad duration", "CHAT_SESSION_TTL", "soon", "must be a duration"},
		{"bad float", "PROFILE_DTI", "x", "must be a number"},
		{"credit score out of range", "PROFILE_CREDIT_SCORE", "900", "between 300 and 850"},
		{"negative dti", "PROFILE_DTI", "-5", "must not be negative"},
		{"bad log format", "LOG_FORMAT", "xml", "json or text"},
		{"missing env file", "ENV_FILE", "/does/not/exist.env", "load env file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.key != "ENV_FILE" {
				t.Setenv("ENV_FILE", "")
			}
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestParseCSVEnv(t *testing.T) {
	t.Setenv("ORIGINS", " https://a.example , ,https://b.example")

	got := parseCSVEnv("ORIGINS", nil)
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	fallback := []string{"*"}
	if got := parseCSVEnv("UNSET_ORIGINS_KEY", fallback); !reflect.DeepEqual(got, fallback) {
		t.Errorf("expected fallback, got %v", got)
	}
}

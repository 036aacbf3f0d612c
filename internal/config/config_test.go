package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8000" {
		t.Fatalf("port = %q, want 8000", cfg.Port)
	}
	if cfg.AccessTokenTTLMinutes != 480 {
		t.Fatalf("token ttl = %d, want 480", cfg.AccessTokenTTLMinutes)
	}
	if cfg.ChatbotTTLSeconds != 60 {
		t.Fatalf("chatbot ttl = %d, want 60", cfg.ChatbotTTLSeconds)
	}
	if cfg.DiaryBuffer != 256 {
		t.Fatalf("diary buffer = %d, want 256", cfg.DiaryBuffer)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("log level = %q, want info", cfg.LogLevel)
	}
	if cfg.Address() != ":8000" {
		t.Fatalf("address = %q, want :8000", cfg.Address())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_HOST", "0.0.0.0")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("TOKEN_TTL_MINUTES", "15")
	t.Setenv("CHATBOT_CACHE_TTL_SECONDS", "120")
	t.Setenv("AUTH_SECRET", "  bi-mat  ")

	cfg := Load()

	if cfg.Address() != "0.0.0.0:9090" {
		t.Fatalf("address = %q", cfg.Address())
	}
	if cfg.AccessTokenTTLMinutes != 15 {
		t.Fatalf("token ttl = %d, want 15", cfg.AccessTokenTTLMinutes)
	}
	if cfg.ChatbotTTLSeconds != 120 {
		t.Fatalf("chatbot ttl = %d, want 120", cfg.ChatbotTTLSeconds)
	}
	if cfg.AuthSecret != "bi-mat" {
		t.Fatalf("auth secret = %q, want trimmed", cfg.AuthSecret)
	}
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("TOKEN_TTL_MINUTES", "-1")
	t.Setenv("CHATBOT_CACHE_TTL_SECONDS", "abc")
	t.Setenv("DIARY_BUFFER", "0")

	cfg := Load()

	if cfg.AccessTokenTTLMinutes != 480 {
		t.Fatalf("token ttl = %d, want default", cfg.AccessTokenTTLMinutes)
	}
	if cfg.ChatbotTTLSeconds != 60 {
		t.Fatalf("chatbot ttl = %d, want default", cfg.ChatbotTTLSeconds)
	}
	if cfg.DiaryBuffer != 256 {
		t.Fatalf("diary buffer = %d, want default", cfg.DiaryBuffer)
	}
}

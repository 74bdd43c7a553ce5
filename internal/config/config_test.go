package config

import (
	"errors"
	"testing"
	"time"

	xerrors "prepwise-service/internal/pkg/errors"
	"prepwise-service/internal/pkg/token"
)

func TestLoadDevelopmentDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("AUTH_SECRET", "")
	t.Setenv("NEXTAUTH_SECRET", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("SESSION_TTL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Production() {
		t.Fatalf("Production() = true, want false")
	}
	if cfg.Session.Secret != token.DevelopmentSecret {
		t.Fatalf("Session.Secret = %q, want development secret", cfg.Session.Secret)
	}
	if cfg.Session.TTL != token.DefaultTTL {
		t.Fatalf("Session.TTL = %v, want %v", cfg.Session.TTL, token.DefaultTTL)
	}
	if cfg.GeminiModel != DefaultGeminiModel {
		t.Fatalf("GeminiModel = %q, want %q", cfg.GeminiModel, DefaultGeminiModel)
	}
}

func TestLoadProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("AUTH_SECRET", "")
	t.Setenv("NEXTAUTH_SECRET", "")

	_, err := Load()
	if !errors.Is(err, xerrors.ErrConfigMissing) {
		t.Fatalf("Load() error = %v, want ErrConfigMissing", err)
	}
}

func TestLoadSecretPrecedence(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("AUTH_SECRET", "")
	t.Setenv("NEXTAUTH_SECRET", "nextauth-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Session.Secret != "nextauth-secret" {
		t.Fatalf("Session.Secret = %q, want nextauth-secret", cfg.Session.Secret)
	}

	t.Setenv("AUTH_SECRET", "auth-secret")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Session.Secret != "auth-secret" {
		t.Fatalf("Session.Secret = %q, want auth-secret", cfg.Session.Secret)
	}

	t.Setenv("SESSION_SECRET", "session-secret")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Session.Secret != "session-secret" {
		t.Fatalf("Session.Secret = %q, want session-secret", cfg.Session.Secret)
	}
}

func TestLoadNormalizesVoiceValues(t *testing.T) {
	t.Setenv("VAPI_WEB_TOKEN", ` "web-token", `)
	t.Setenv("VAPI_ASSISTANT_ID", "'asst-1'")
	t.Setenv("SESSION_TTL", "90m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.VapiWebToken != "web-token" || cfg.VapiAssistantID != "asst-1" {
		t.Fatalf("voice values = %q/%q", cfg.VapiWebToken, cfg.VapiAssistantID)
	}
	if cfg.Session.TTL != 90*time.Minute {
		t.Fatalf("Session.TTL = %v, want 90m", cfg.Session.TTL)
	}
	if v := cfg.Voice(); v.Interviewer == nil || v.WebToken != "web-token" {
		t.Fatalf("Voice() = %+v", v)
	}
}

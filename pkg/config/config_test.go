package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.DefaultBeta != 5.0 {
		t.Errorf("expected default beta 5.0, got %f", cfg.DefaultBeta)
	}
	if cfg.DefaultAlpha != 0.6 {
		t.Errorf("expected default alpha 0.6, got %f", cfg.DefaultAlpha)
	}
	if cfg.DefaultMaxRounds != 15 {
		t.Errorf("expected default max rounds 15, got %d", cfg.DefaultMaxRounds)
	}
	if cfg.StorageMode != "console" {
		t.Errorf("expected default storage mode console, got %q", cfg.StorageMode)
	}
	if cfg.Env != "development" {
		t.Errorf("expected default env development, got %q", cfg.Env)
	}
}

func TestLoadFromEnv_OverridesFromEnvironment(t *testing.T) {
	os.Setenv("DEFAULT_BETA", "2.5")
	os.Setenv("DEFAULT_MAX_ROUNDS", "20")
	os.Setenv("START_RATE_LIMIT", "50")
	t.Cleanup(func() {
		os.Unsetenv("DEFAULT_BETA")
		os.Unsetenv("DEFAULT_MAX_ROUNDS")
		os.Unsetenv("START_RATE_LIMIT")
	})

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.DefaultBeta != 2.5 {
		t.Errorf("expected overridden beta 2.5, got %f", cfg.DefaultBeta)
	}
	if cfg.DefaultMaxRounds != 20 {
		t.Errorf("expected overridden max rounds 20, got %d", cfg.DefaultMaxRounds)
	}
	if cfg.StartRateLimit != 50 {
		t.Errorf("expected overridden start rate limit 50, got %d", cfg.StartRateLimit)
	}
}

func TestValidate_RejectsNonPositiveBeta(t *testing.T) {
	os.Setenv("DEFAULT_BETA", "0")
	t.Cleanup(func() { os.Unsetenv("DEFAULT_BETA") })

	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected error for non-positive DEFAULT_BETA")
	}
}

func TestValidate_RejectsAlphaOutOfRange(t *testing.T) {
	os.Setenv("DEFAULT_ALPHA", "1.5")
	t.Cleanup(func() { os.Unsetenv("DEFAULT_ALPHA") })

	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected error for DEFAULT_ALPHA outside [0,1]")
	}
}

func TestValidate_RejectsUnknownEnv(t *testing.T) {
	os.Setenv("ENV", "staging")
	t.Cleanup(func() { os.Unsetenv("ENV") })

	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected error for unrecognized ENV value")
	}
}

func TestValidate_RejectsUnknownStorageMode(t *testing.T) {
	os.Setenv("STORAGE_MODE", "redis")
	t.Cleanup(func() { os.Unsetenv("STORAGE_MODE") })

	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected error for unrecognized STORAGE_MODE")
	}
}

func TestValidate_ProductionRequiresAdminKey(t *testing.T) {
	os.Setenv("ENV", "production")
	os.Unsetenv("API_ADMIN_KEY")
	t.Cleanup(func() { os.Unsetenv("ENV") })

	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected error when ENV=production without API_ADMIN_KEY")
	}
}

func TestValidate_ProductionWithAdminKeySucceeds(t *testing.T) {
	os.Setenv("ENV", "production")
	os.Setenv("API_ADMIN_KEY", "secret-key")
	t.Cleanup(func() {
		os.Unsetenv("ENV")
		os.Unsetenv("API_ADMIN_KEY")
	})

	if _, err := LoadFromEnv(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestLoadFromEnv_DurationFieldsParseFromEnv(t *testing.T) {
	os.Setenv("DEFAULT_SESSION_TTL_SECONDS", "45m")
	os.Setenv("LLM_REQUEST_TIMEOUT", "3s")
	t.Cleanup(func() {
		os.Unsetenv("DEFAULT_SESSION_TTL_SECONDS")
		os.Unsetenv("LLM_REQUEST_TIMEOUT")
	})

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.DefaultSessionTTL != 45*time.Minute {
		t.Errorf("expected 45m session ttl, got %v", cfg.DefaultSessionTTL)
	}
	if cfg.LLMRequestTimeout != 3*time.Second {
		t.Errorf("expected 3s llm request timeout, got %v", cfg.LLMRequestTimeout)
	}
}

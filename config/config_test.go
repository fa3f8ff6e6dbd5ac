package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRES_URL", "postgres://localhost/overlay")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("PORT", "")
	t.Setenv("OVERLAY_API_URL", "")
	t.Setenv("LOCAL_API_URL", "")
	t.Setenv("OVERLAY_TIMEOUT", "")
	t.Setenv("OVERLAY_MAX_RETRIES", "")
	t.Setenv("OVERLAY_QUEUE_SIZE", "")
	t.Setenv("OVERLAY_RATE_PER_SECOND", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("TOURNAMENT_STATUS_INTERVAL", "")
	t.Setenv("R2_ACCOUNT_ID", "")
	t.Setenv("R2_ACCESS_KEY_ID", "")
	t.Setenv("R2_SECRET_ACCESS_KEY", "")
	t.Setenv("R2_BUCKET_NAME", "")
	t.Setenv("R2_PUBLIC_BASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DatabaseURL != "postgres://localhost/overlay" {
		t.Errorf("expected POSTGRES_URL fallback, got %q", cfg.DatabaseURL)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.ServerPort)
	}
	if cfg.Overlay.BaseURL != defaultOverlayURL {
		t.Errorf("expected default overlay url, got %q", cfg.Overlay.BaseURL)
	}
	if cfg.Overlay.Timeout != 2*time.Second || cfg.Overlay.MaxRetries != 3 || cfg.Overlay.QueueSize != 64 {
		t.Errorf("unexpected overlay defaults: %+v", cfg.Overlay)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("unexpected cors origins: %v", cfg.CORSAllowedOrigins)
	}
	if cfg.R2.Enabled() {
		t.Error("expected R2 to be disabled")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/main")
	t.Setenv("PORT", "9090")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("LOCAL_API_URL", "http://overlay:3001/")
	t.Setenv("OVERLAY_API_URL", "")
	t.Setenv("OVERLAY_TIMEOUT", "500ms")
	t.Setenv("OVERLAY_MAX_RETRIES", "0")
	t.Setenv("OVERLAY_QUEUE_SIZE", "8")
	t.Setenv("OVERLAY_RATE_PER_SECOND", "")
	t.Setenv("TOURNAMENT_STATUS_INTERVAL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerPort != 9090 {
		t.Errorf("expected PORT fallback 9090, got %d", cfg.ServerPort)
	}
	if cfg.Overlay.BaseURL != "http://overlay:3001" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.Overlay.BaseURL)
	}
	if cfg.Overlay.Timeout != 500*time.Millisecond || cfg.Overlay.MaxRetries != 0 || cfg.Overlay.QueueSize != 8 {
		t.Errorf("unexpected overlay config: %+v", cfg.Overlay)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://b.test" {
		t.Errorf("unexpected cors origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing database url", map[string]string{"DATABASE_URL": "", "POSTGRES_URL": ""}},
		{"port out of range", map[string]string{"DATABASE_URL": "x", "SERVER_PORT": "70000"}},
		{"port not a number", map[string]string{"DATABASE_URL": "x", "SERVER_PORT": "abc"}},
		{"bad timeout", map[string]string{"DATABASE_URL": "x", "SERVER_PORT": "", "OVERLAY_TIMEOUT": "soon"}},
		{"zero queue", map[string]string{"DATABASE_URL": "x", "SERVER_PORT": "", "OVERLAY_TIMEOUT": "", "OVERLAY_QUEUE_SIZE": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORT", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

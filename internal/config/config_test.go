package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "https://a.example", []string{"https://a.example"}},
		{"spaces and quotes", ` "https://a.example" , 'https://b.example' `, []string{"https://a.example", "https://b.example"}},
		{"trailing comma", "a,b,", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitAndTrim(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("splitAndTrim(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	t.Setenv("RL_TEST_DURATION", "90s")
	if got := mustDuration("RL_TEST_DURATION", time.Second); got != 90*time.Second {
		t.Errorf("mustDuration = %v, want 90s", got)
	}
	t.Setenv("RL_TEST_DURATION", "garbage")
	if got := mustDuration("RL_TEST_DURATION", time.Second); got != time.Second {
		t.Errorf("mustDuration fallback = %v, want 1s", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RL_JWT_SECRET", "0123456789abcdef0123456789abcdef")

	cfg := Load()

	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q, want :8080", cfg.ListenPort)
	}
	if cfg.RecentLimit != 10 {
		t.Errorf("RecentLimit = %d, want 10", cfg.RecentLimit)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v, want 24h", cfg.TokenTTL)
	}
}

func TestLoadMissingSecretPanics(t *testing.T) {
	t.Setenv("RL_JWT_SECRET", "")

	defer func() {
		if recover() == nil {
			t.Fatal("Load() should panic without RL_JWT_SECRET")
		}
	}()
	Load()
}

func TestLoadFileOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "readinglist.yaml")
	body := []byte("listen_port: \":9090\"\nsqlite_path: /tmp/rl.db\nallowed_origins:\n  - https://reading.example\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("RL_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("RL_CONFIG_FILE", path)

	cfg := Load()

	if cfg.ListenPort != ":9090" {
		t.Errorf("ListenPort = %q, want :9090 (from file)", cfg.ListenPort)
	}
	if cfg.SQLitePath != "/tmp/rl.db" {
		t.Errorf("SQLitePath = %q, want /tmp/rl.db", cfg.SQLitePath)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://reading.example" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}

	// Env still wins over the file.
	t.Setenv("RL_LISTEN_PORT", ":7070")
	cfg = Load()
	if cfg.ListenPort != ":7070" {
		t.Errorf("ListenPort = %q, want :7070 (env override)", cfg.ListenPort)
	}
}

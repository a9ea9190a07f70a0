package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestDecodeDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Decode(v)
	if err != nil {
		t.Fatalf("decode defaults failed: %v", err)
	}
	if cfg.Feed.DefaultLimit != 20 {
		t.Fatalf("feed default limit want 20 got %d", cfg.Feed.DefaultLimit)
	}
	if cfg.Feed.MaxLimit != 0 {
		t.Fatalf("feed max limit should be unbounded by default, got %d", cfg.Feed.MaxLimit)
	}
	if !cfg.Publication.UseTransaction {
		t.Fatalf("publication should use a transaction by default")
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("database driver want sqlite got %s", cfg.Database.Driver)
	}
	if cfg.Server.ReadHeaderTimeoutSeconds != 5 || cfg.Server.ShutdownTimeoutSeconds != 10 {
		t.Fatalf("server timeouts should have defaults, got %+v", cfg.Server)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Fatalf("server addr want 0.0.0.0:8080 got %s", cfg.Server.Addr())
	}
	if cfg.Queue.Queues["critical"] != 10 {
		t.Fatalf("critical queue weight want 10 got %d", cfg.Queue.Queues["critical"])
	}
}

func TestDecodeEnvOverride(t *testing.T) {
	t.Setenv("FEED_DEFAULT_LIMIT", "50")
	t.Setenv("PUBLICATION_USE_TRANSACTION", "false")

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg, err := Decode(v)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.Feed.DefaultLimit != 50 {
		t.Fatalf("env override want 50 got %d", cfg.Feed.DefaultLimit)
	}
	if cfg.Publication.UseTransaction {
		t.Fatalf("env override should disable transaction")
	}
}

func TestLoadDotEnvDoesNotOverrideExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("INKPOST_TEST_A=from-file\nINKPOST_TEST_B=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file failed: %v", err)
	}
	t.Setenv("INKPOST_TEST_A", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("INKPOST_TEST_B") })

	loadDotEnv(path)

	if got := os.Getenv("INKPOST_TEST_A"); got != "from-env" {
		t.Fatalf("existing env should win, got %s", got)
	}
	if got := os.Getenv("INKPOST_TEST_B"); got != "from-file" {
		t.Fatalf("missing env should come from file, got %s", got)
	}
}

func TestLoadDotEnvMissingFileIsSilent(t *testing.T) {
	loadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
}

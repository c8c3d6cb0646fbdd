package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatalf("explicit missing file should fail")
	}

	// 无显式路径时允许缺省配置，走默认值
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.App.Name != "xtstate" {
		t.Fatalf("unexpected app name: %s", cfg.App.Name)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTP.Addr)
	}
	if cfg.HTTP.ReadTimeout != 5*time.Second {
		t.Fatalf("unexpected read timeout: %v", cfg.HTTP.ReadTimeout)
	}
	if !cfg.Metrics.Enable || cfg.Metrics.Path != "/metrics" {
		t.Fatalf("unexpected metrics defaults: %+v", cfg.Metrics)
	}
	if cfg.API.Auth.Enabled {
		t.Fatalf("auth should default to disabled")
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `
app:
  name: coordinator
http:
  addr: ":9090"
slots:
  names: [a, b]
  force: true
api:
  rateLimit:
    enabled: true
    perSecond: 10
`
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Name != "coordinator" {
		t.Fatalf("unexpected app name: %s", cfg.App.Name)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("unexpected addr: %s", cfg.HTTP.Addr)
	}
	if len(cfg.Slots.Names) != 2 || !cfg.Slots.Force {
		t.Fatalf("unexpected slots config: %+v", cfg.Slots)
	}
	if !cfg.API.RateLimit.Enabled || cfg.API.RateLimit.PerSecond != 10 {
		t.Fatalf("unexpected rate limit config: %+v", cfg.API.RateLimit)
	}
	// 文件未写的段落仍取默认值
	if cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging level: %s", cfg.Logging.Level)
	}
}

package benang

import (
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.setDefaults()

	if cfg.Name != "Benang" {
		t.Errorf("Name = %q, want Benang", cfg.Name)
	}
	if cfg.Addr != ":3000" {
		t.Errorf("Addr = %q, want :3000", cfg.Addr)
	}
	if cfg.DBDriver != "sqlite" || cfg.DBDSN != "data/benang.db" {
		t.Errorf("database defaults = %q %q", cfg.DBDriver, cfg.DBDSN)
	}
	if cfg.ContentCacheTTL != 5*time.Minute {
		t.Errorf("ContentCacheTTL = %v, want 5m", cfg.ContentCacheTTL)
	}
	if cfg.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v, want 5s", cfg.ReadTimeout)
	}
	if cfg.MaxUploadSize != 10<<20 {
		t.Errorf("MaxUploadSize = %d, want 10MB", cfg.MaxUploadSize)
	}
}

func TestConfigDefaultsKeepExplicitValues(t *testing.T) {
	cfg := Config{Name: "Benang Studio", Addr: ":8080", DBDriver: "postgres"}
	cfg.setDefaults()

	if cfg.Name != "Benang Studio" || cfg.Addr != ":8080" || cfg.DBDriver != "postgres" {
		t.Error("explicit values must not be overwritten")
	}
}

package conctest

import "testing"

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := validateConfig(&cfg); err != nil {
		t.Fatalf("validateConfig returned error for defaults: %v", err)
	}
}

func TestDefaultConfig_Values(t *testing.T) {
	cfg := defaultConfig()
	if cfg.Metrics == nil {
		t.Fatalf("default Metrics provider is nil")
	}
	if cfg.IDGenerator == nil {
		t.Fatalf("default IDGenerator is nil")
	}
	if id := cfg.IDGenerator(); id == "" {
		t.Fatalf("default IDGenerator produced an empty id")
	}
}

func TestValidateConfig_RejectsNilMetrics(t *testing.T) {
	cfg := defaultConfig()
	cfg.Metrics = nil
	if err := validateConfig(&cfg); err == nil {
		t.Fatalf("expected error for nil Metrics")
	}
}

func TestValidateConfig_RejectsNilIDGenerator(t *testing.T) {
	cfg := defaultConfig()
	cfg.IDGenerator = nil
	if err := validateConfig(&cfg); err == nil {
		t.Fatalf("expected error for nil IDGenerator")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
environment: test
server:
  port: 8080
models:
  dir: ./models
  extended_file: enhanced_spy_model.gob
  original_file: spy_model.gob
market_data:
  base_url: https://example.com/api/v1
  api_key: abc
  default_days: 120
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Environment != "test" || cfg.Server.Port != 8080 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Models.ExtendedFile != "enhanced_spy_model.gob" {
		t.Fatalf("models: %+v", cfg.Models)
	}
}

func TestLoadRejectsMissingModelsDir(t *testing.T) {
	bad := `
environment: test
market_data:
  base_url: https://example.com
  default_days: 120
models:
  extended_file: a.gob
  original_file: b.gob
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatalf("expected validation failure without models.dir")
	}
}

func TestLoadRejectsKafkaWithoutBrokers(t *testing.T) {
	bad := validYAML + `
kafka:
  enabled: true
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatalf("expected validation failure with kafka enabled and no brokers")
	}
}

func TestEnvOverrideSatisfiesValidation(t *testing.T) {
	noDir := `
environment: test
market_data:
  base_url: https://example.com
  default_days: 120
models:
  extended_file: a.gob
  original_file: b.gob
`
	t.Setenv("MODELS_DIR", "/srv/models")

	cfg, err := LoadWithEnv(writeConfig(t, noDir))
	if err != nil {
		t.Fatalf("env-provided models.dir must pass validation: %v", err)
	}
	if cfg.Models.Dir != "/srv/models" {
		t.Fatalf("models.dir: got %q", cfg.Models.Dir)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("MARKET_DATA_API_KEY", "from-env")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MarketData.APIKey != "from-env" {
		t.Fatalf("api key override failed: %q", cfg.MarketData.APIKey)
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Fatalf("broker override failed: %v", cfg.Kafka.Brokers)
	}
}

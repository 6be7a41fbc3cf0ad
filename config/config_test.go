package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != defaultServerAddr {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Analysis.WeaveGap != time.Second || cfg.Analysis.OpenerLength != 5 {
		t.Errorf("Analysis = %+v", cfg.Analysis)
	}
	if cfg.ESOLogs.MaxRetries != 3 || cfg.ESOLogs.APIURL != defaultAPIURL {
		t.Errorf("ESOLogs = %+v", cfg.ESOLogs)
	}
	if err := cfg.RequireCredentials(); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("RequireCredentials = %v", err)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
analysis:
  weaveGap: 800ms
  openerLength: 7
esologs:
  clientID: from-file
kafka:
  brokers: ["localhost:9092"]
  topic: reports
`)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ESOCHECK_ESOLOGS_CLIENTSECRET", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Analysis.WeaveGap != 800*time.Millisecond || cfg.Analysis.OpenerLength != 7 {
		t.Errorf("Analysis = %+v", cfg.Analysis)
	}
	if cfg.ESOLogs.ClientID != "from-file" || cfg.ESOLogs.ClientSecret != "from-env" {
		t.Errorf("ESOLogs = %+v", cfg.ESOLogs)
	}
	if err := cfg.RequireCredentials(); err != nil {
		t.Errorf("RequireCredentials = %v", err)
	}
	if len(cfg.Kafka.Brokers) != 1 || cfg.Kafka.Topic != "reports" {
		t.Errorf("Kafka = %+v", cfg.Kafka)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"weave gap", "analysis:\n  weaveGap: 0s\n", ErrInvalidWeaveGap},
		{"opener", "analysis:\n  openerLength: 0\n", ErrInvalidOpenerLength},
		{"retries", "esologs:\n  maxRetries: 0\n", ErrInvalidRetries},
		{"kafka topic", "kafka:\n  brokers: [\"a:9092\"]\n", ErrEmptyKafkaTopic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			chdir(t, dir)
			path := filepath.Join(dir, "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0600); err != nil {
				t.Fatal(err)
			}

			_, err := Load(path)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Load = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, ErrReadingConfigFile) {
		t.Fatalf("Load = %v", err)
	}
}

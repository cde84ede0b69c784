package config

import (
	"strings"
	"testing"
	"time"

	"github.com/LeonardoBeccarini/borewell_project/internal/core/cropcatalog"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_PORT", "GRPC_PORT", "HISTORY_CAPACITY", "HASH_TABLE_SIZE", "CROP_DUPLICATES",
		"TZ", "DISPATCH_INTERVAL", "RABBITMQ_HOST", "MQTT_CLIENT_ID", "INFLUX_URL", "INFLUX_TOKEN"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr() != ":8080" || cfg.GRPCAddr() != ":50051" {
		t.Fatalf("unexpected addrs %s %s", cfg.HTTPAddr(), cfg.GRPCAddr())
	}
	if cfg.HistoryCapacity != 100 || cfg.HashTableSize != 100 {
		t.Fatalf("unexpected sizes %+v", cfg)
	}
	if cfg.CropDuplicates != cropcatalog.DuplicatesRight || cfg.DispatchInterval != 30*time.Second {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if !strings.HasPrefix(cfg.MQTTClientID, "borewell-") || len(cfg.MQTTClientID) != len("borewell-")+10 {
		t.Fatalf("unexpected client id %q", cfg.MQTTClientID)
	}
	if cfg.MQTTEnabled() || cfg.InfluxEnabled() {
		t.Fatalf("integrations should be disabled by default")
	}
	if cfg.BreakerOpenAfter != 10*time.Second {
		t.Fatalf("BreakerOpenAfter = %v", cfg.BreakerOpenAfter)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("HISTORY_CAPACITY", "5")
	t.Setenv("CROP_DUPLICATES", "replace")
	t.Setenv("TZ", "Asia/Kolkata")
	t.Setenv("DISPATCH_INTERVAL", "0s")
	t.Setenv("RABBITMQ_HOST", "rabbit")
	t.Setenv("MQTT_CLIENT_ID", "fixed")
	t.Setenv("INFLUX_URL", "http://influx:8086")
	t.Setenv("INFLUX_TOKEN", "tok")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != 9090 || cfg.HistoryCapacity != 5 || cfg.DispatchInterval != 0 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.CropDuplicates != cropcatalog.DuplicatesReplace || cfg.Location.String() != "Asia/Kolkata" {
		t.Fatalf("unexpected policy/location %v %v", cfg.CropDuplicates, cfg.Location)
	}
	if !cfg.MQTTEnabled() || cfg.MQTTClientID != "fixed" || !cfg.InfluxEnabled() {
		t.Fatalf("integrations not enabled: %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]string{
		"HTTP_PORT":         "eighty",
		"HASH_TABLE_SIZE":   "0",
		"DISPATCH_INTERVAL": "soon",
		"CROP_DUPLICATES":   "left",
		"TZ":                "Nowhere/Land",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv(k, v)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), "invalid "+k) {
				t.Fatalf("expected invalid %s error, got %v", k, err)
			}
		})
	}
}

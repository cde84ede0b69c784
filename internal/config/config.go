// Package config loads environment-driven settings (optionally from .env).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	gonanoid "github.com/matoous/go-nanoid"

	"github.com/LeonardoBeccarini/borewell_project/internal/core/cropcatalog"
)

const clientIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

type Config struct {
	HTTPPort int
	GRPCPort int

	HistoryCapacity int
	HashTableSize   int
	CropDuplicates  cropcatalog.DuplicatePolicy
	Location        *time.Location // used to resolve hour/minute start times

	DispatchInterval time.Duration // 0 disables the dispatcher

	// MQTT broker (RabbitMQ MQTT plugin); empty host disables MQTT
	MQTTHost         string
	MQTTPort         int
	MQTTUser         string
	MQTTPassword     string
	MQTTClientID     string
	EventTopic       string // {kind}, {id}
	DispatchTopic    string // {borewell}
	CommandTopic     string
	BreakerFailures  int
	BreakerOpenAfter time.Duration

	// InfluxDB export; empty URL or token disables it
	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return d, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return d, fmt.Errorf("invalid %s: %w", k, err)
	}
	return n, nil
}

func getenvDuration(k string, d time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return d, nil
	}
	dur, err := time.ParseDuration(v)
	if err != nil {
		return d, fmt.Errorf("invalid %s: %w", k, err)
	}
	if dur < 0 {
		return d, fmt.Errorf("invalid %s: negative duration", k)
	}
	return dur, nil
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		MQTTHost:      os.Getenv("RABBITMQ_HOST"),
		MQTTUser:      getenv("RABBITMQ_USER", "guest"),
		MQTTPassword:  getenv("RABBITMQ_PASSWORD", "guest"),
		MQTTClientID:  os.Getenv("MQTT_CLIENT_ID"),
		EventTopic:    getenv("EVENT_TOPIC_TEMPLATE", "event/{kind}/{id}"),
		DispatchTopic: getenv("DISPATCH_TOPIC_TEMPLATE", "event/motorRun/{borewell}"),
		CommandTopic:  getenv("COMMAND_SUB_TOPIC", "cmd/borewell/#"),
		InfluxURL:     os.Getenv("INFLUX_URL"),
		InfluxToken:   os.Getenv("INFLUX_TOKEN"),
		InfluxOrg:     getenv("INFLUX_ORG", "farm"),
		InfluxBucket:  getenv("INFLUX_BUCKET", "borewell"),
	}

	ints := []struct {
		key string
		def int
		dst *int
	}{
		{"HTTP_PORT", 8080, &cfg.HTTPPort},
		{"GRPC_PORT", 50051, &cfg.GRPCPort},
		{"HISTORY_CAPACITY", 100, &cfg.HistoryCapacity},
		{"HASH_TABLE_SIZE", 100, &cfg.HashTableSize},
		{"RABBITMQ_PORT", 1883, &cfg.MQTTPort},
		{"BREAKER_FAILURES", 5, &cfg.BreakerFailures},
	}
	for _, e := range ints {
		n, err := getenvInt(e.key, e.def)
		if err != nil {
			return cfg, err
		}
		if n <= 0 {
			return cfg, fmt.Errorf("invalid %s: must be > 0", e.key)
		}
		*e.dst = n
	}

	openMs, err := getenvInt("BREAKER_OPEN_MS", 10000)
	if err != nil {
		return cfg, err
	}
	cfg.BreakerOpenAfter = time.Duration(openMs) * time.Millisecond

	if cfg.DispatchInterval, err = getenvDuration("DISPATCH_INTERVAL", 30*time.Second); err != nil {
		return cfg, err
	}

	policy, ok := cropcatalog.ParsePolicy(os.Getenv("CROP_DUPLICATES"))
	if !ok {
		return cfg, fmt.Errorf("invalid CROP_DUPLICATES: %q (want right or replace)", os.Getenv("CROP_DUPLICATES"))
	}
	cfg.CropDuplicates = policy

	cfg.Location = time.Local
	if tz := os.Getenv("TZ"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return cfg, fmt.Errorf("invalid TZ: %w", err)
		}
		cfg.Location = loc
	}

	if cfg.MQTTClientID == "" {
		id, err := gonanoid.Generate(clientIDAlphabet, 10)
		if err != nil {
			return cfg, fmt.Errorf("generate MQTT client id: %w", err)
		}
		cfg.MQTTClientID = "borewell-" + id
	}
	return cfg, nil
}

func (c Config) HTTPAddr() string { return fmt.Sprintf(":%d", c.HTTPPort) }
func (c Config) GRPCAddr() string { return fmt.Sprintf(":%d", c.GRPCPort) }

func (c Config) MQTTEnabled() bool   { return c.MQTTHost != "" }
func (c Config) InfluxEnabled() bool { return c.InfluxURL != "" && c.InfluxToken != "" }

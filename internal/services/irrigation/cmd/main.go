package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/LeonardoBeccarini/borewell_project/internal/config"
	"github.com/LeonardoBeccarini/borewell_project/internal/services/api"
	"github.com/LeonardoBeccarini/borewell_project/internal/services/commands"
	"github.com/LeonardoBeccarini/borewell_project/internal/services/dispatcher"
	"github.com/LeonardoBeccarini/borewell_project/internal/services/history"
	"github.com/LeonardoBeccarini/borewell_project/internal/services/irrigation"
	"github.com/LeonardoBeccarini/borewell_project/internal/services/rpc"
	"github.com/LeonardoBeccarini/borewell_project/pkg/dedup"
	"github.com/LeonardoBeccarini/borewell_project/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := irrigation.NewMetrics(reg)

	var (
		notifiers irrigation.MultiNotifier
		publisher rabbitmq.IPublisher
		consumer  rabbitmq.IConsumer
		checks    = map[string]func() error{}
	)

	// bind before anything registers deferred cleanup
	lis, err := net.Listen("tcp", cfg.GRPCAddr())
	if err != nil {
		log.Fatalf("grpc listen: %v", err)
	}

	// ---- MQTT ----
	if cfg.MQTTEnabled() {
		client, err := rabbitmq.NewRabbitMQConn(ctx, &rabbitmq.RabbitMQConfig{
			Host:     cfg.MQTTHost,
			Port:     cfg.MQTTPort,
			User:     cfg.MQTTUser,
			Password: cfg.MQTTPassword,
			ClientID: cfg.MQTTClientID,
		})
		if err != nil {
			log.Fatalf("MQTT connect error: %v", err)
		}
		publisher = rabbitmq.NewBreakerPublisher(rabbitmq.NewPublisher(client, ""), "mqtt-publisher",
			cfg.BreakerFailures, cfg.BreakerOpenAfter)
		notifiers = append(notifiers, irrigation.NewMQTTNotifier(publisher, cfg.EventTopic))
		consumer = rabbitmq.NewConsumer(client, nil, cfg.CommandTopic)
		checks["mqtt"] = func() error {
			if !client.IsConnectionOpen() {
				return errors.New("connection not open")
			}
			return nil
		}
	} else {
		log.Println("irrigation: RABBITMQ_HOST not set, MQTT disabled")
	}

	// ---- InfluxDB ----
	if cfg.InfluxEnabled() {
		client, err := history.Connect(ctx, cfg.InfluxURL, cfg.InfluxToken)
		if err != nil {
			log.Printf("irrigation: history export disabled: %v", err)
		} else {
			defer client.Close()
			w := history.NewWriter(client.WriteAPI(cfg.InfluxOrg, cfg.InfluxBucket))
			defer w.Flush()
			notifiers = append(notifiers, w)
			checks["influx"] = func() error {
				if age := w.LastErrorAge(); age < 30*time.Second {
					return fmt.Errorf("write error %s ago", age.Round(time.Second))
				}
				return nil
			}
		}
	}

	svc := irrigation.NewService(irrigation.Options{
		HistoryCapacity: cfg.HistoryCapacity,
		HashTableSize:   cfg.HashTableSize,
		CropDuplicates:  cfg.CropDuplicates,
		Notifier:        notifiers,
		Metrics:         metrics,
	})

	var wg sync.WaitGroup
	run := func(name string, fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
			log.Printf("irrigation: %s stopped", name)
		}()
	}

	// ---- REST ----
	rest := api.New(cfg, svc, reg)
	for name, check := range checks {
		rest.AddCheck(name, check)
	}
	run("rest", func() {
		if err := rest.Run(ctx); err != nil {
			log.Printf("irrigation: rest server: %v", err)
			stop()
		}
	})

	// ---- gRPC ----
	grpcSrv := rpc.NewServer(rpc.NewGrpcHandler(svc, cfg.Location))
	run("grpc", func() {
		if err := rpc.Serve(ctx, grpcSrv, lis); err != nil {
			log.Printf("irrigation: grpc server: %v", err)
			stop()
		}
	})

	// ---- MQTT workers ----
	if publisher != nil && cfg.DispatchInterval > 0 {
		d := dispatcher.New(svc, publisher, cfg.DispatchTopic, cfg.DispatchInterval)
		run("dispatcher", func() { d.Start(ctx) })
	}
	if consumer != nil {
		h := commands.NewHandler(svc, consumer, dedup.New(dedup.DefaultTTL, dedup.DefaultMax), cfg.Location)
		run("commands", func() { h.Start(ctx) })
	}

	log.Printf("irrigation: up (rest %s, grpc %s)", cfg.HTTPAddr(), cfg.GRPCAddr())
	<-ctx.Done()
	wg.Wait()
	if publisher != nil {
		publisher.Close()
	}
}

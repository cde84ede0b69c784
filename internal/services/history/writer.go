// Package history mirrors record events into InfluxDB.
package history

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/LeonardoBeccarini/borewell_project/internal/model/messages"
)

// Writer wraps a non-blocking WriteAPI and tracks the last asynchronous write
// error for health reporting.
type Writer struct {
	api     api.WriteAPI
	mu      sync.RWMutex
	lastErr time.Time
	counts  map[string]int64
}

func NewWriter(w api.WriteAPI) *Writer {
	ww := &Writer{
		api:     w,
		lastErr: time.Now().Add(-24 * time.Hour),
		counts:  make(map[string]int64),
	}
	go func() {
		for err := range w.Errors() {
			if err != nil {
				ww.mu.Lock()
				ww.lastErr = time.Now()
				ww.mu.Unlock()
				log.Printf("history: influx write error: %v", err)
			}
		}
	}()
	return ww
}

// Notify queues ev as a point; delivery errors surface on the error channel.
func (w *Writer) Notify(ev messages.RecordEvent) error {
	w.api.WritePoint(EventToPoint(ev))
	w.mu.Lock()
	w.counts[ev.Kind]++
	w.mu.Unlock()
	return nil
}

// Count is the number of events of kind queued so far.
func (w *Writer) Count(kind string) int64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.counts[kind]
}

// LastErrorAge is the time since the last write error.
func (w *Writer) LastErrorAge() time.Duration {
	w.mu.RLock()
	t := w.lastErr
	w.mu.RUnlock()
	return time.Since(t)
}

func (w *Writer) Flush() { w.api.Flush() }

// Connect creates a client and waits, with exponential backoff, until the
// server answers a ping.
func Connect(ctx context.Context, url, token string) (influxdb2.Client, error) {
	client := influxdb2.NewClient(url, token)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	err := backoff.Retry(func() error {
		ok, err := client.Ping(ctx)
		if err != nil {
			log.Printf("history: influx ping %s: %v", url, err)
			return err
		}
		if !ok {
			return fmt.Errorf("influx at %s not ready", url)
		}
		return nil
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("influx unreachable: %w", err)
	}
	log.Printf("history: connected to influx at %s", url)
	return client, nil
}

// Package dispatcher drains the motor schedule and announces each run on MQTT.
package dispatcher

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/LeonardoBeccarini/borewell_project/internal/core/timemath"
	"github.com/LeonardoBeccarini/borewell_project/internal/model"
	"github.com/LeonardoBeccarini/borewell_project/pkg/rabbitmq"
)

const defaultTopic = "event/motorRun/{borewell}"

// MotorSource hands out scheduled runs in FIFO order.
type MotorSource interface {
	NextMotorRun() (model.ScheduledMotorRun, bool)
}

type Dispatcher struct {
	source    MotorSource
	publisher rabbitmq.IPublisher
	topicTmpl string
	interval  time.Duration

	mu   sync.Mutex
	held []model.ScheduledMotorRun // dequeued but not yet published, oldest first
	now  func() time.Time
}

func New(source MotorSource, publisher rabbitmq.IPublisher, topicTmpl string, interval time.Duration) *Dispatcher {
	if strings.TrimSpace(topicTmpl) == "" {
		topicTmpl = defaultTopic
	}
	return &Dispatcher{
		source:    source,
		publisher: publisher,
		topicTmpl: topicTmpl,
		interval:  interval,
		now:       time.Now,
	}
}

func (d *Dispatcher) topic(borewellID int) string {
	return strings.NewReplacer("{borewell}", strconv.Itoa(borewellID)).Replace(d.topicTmpl)
}

// Start drains on every tick until ctx is done.
func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := d.Drain(); n > 0 {
				log.Printf("dispatcher: dispatched %d motor runs", n)
			}
		}
	}
}

// Drain publishes every queued run in FIFO order and returns how many were
// published. A run whose publish fails is held and retried first next time,
// so dispatch order never changes.
func (d *Dispatcher) Drain() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	sent := 0
	for len(d.held) > 0 {
		if err := d.publish(d.held[0]); err != nil {
			log.Printf("dispatcher: retry for borewell %d failed: %v", d.held[0].BorewellID, err)
			return sent
		}
		d.held = d.held[1:]
		sent++
	}
	for {
		run, ok := d.source.NextMotorRun()
		if !ok {
			return sent
		}
		if err := d.publish(run); err != nil {
			log.Printf("dispatcher: publish for borewell %d failed: %v", run.BorewellID, err)
			d.held = append(d.held, run)
			return sent
		}
		sent++
	}
}

// Held returns how many dequeued runs still await publishing.
func (d *Dispatcher) Held() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.held)
}

func (d *Dispatcher) publish(run model.ScheduledMotorRun) error {
	end, err := timemath.ComputeEndTime(run.StartTime, float64(run.WaterAmount), run.Speed)
	if err != nil {
		log.Printf("dispatcher: end time for borewell %d: %v", run.BorewellID, err)
		end = run.StartTime
	}
	ev := model.MotorDispatchEvent{
		TicketID:    uuid.NewString(),
		BorewellID:  run.BorewellID,
		State:       model.MotorOn,
		StartTime:   run.StartTime,
		EndTime:     end,
		WaterAmount: run.WaterAmount,
		Speed:       run.Speed,
		Timestamp:   d.now(),
	}
	return d.publisher.PublishTo(d.topic(run.BorewellID), 1, false, ev)
}

// Package irrigation records borewell connections, motor runs and crops and
// keeps the action history of every change.
package irrigation

import (
	"fmt"
	"iter"
	"log"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/LeonardoBeccarini/borewell_project/internal/core/actionlog"
	"github.com/LeonardoBeccarini/borewell_project/internal/core/connindex"
	"github.com/LeonardoBeccarini/borewell_project/internal/core/cropcatalog"
	"github.com/LeonardoBeccarini/borewell_project/internal/core/motorqueue"
	"github.com/LeonardoBeccarini/borewell_project/internal/core/timemath"
	"github.com/LeonardoBeccarini/borewell_project/internal/model/entities"
	"github.com/LeonardoBeccarini/borewell_project/internal/model/messages"
)

// History descriptions.
const (
	ActionAddConnection = "Added Borewell Connection"
	ActionScheduleMotor = "Scheduled Motor Operation"
	ActionAddCrop       = "Added Crop Information"
)

type Options struct {
	HistoryCapacity int
	HashTableSize   int
	CropDuplicates  cropcatalog.DuplicatePolicy
	Notifier        Notifier // optional
	Metrics         *Metrics // optional
}

// Result of a record operation. Entry is zero when Logged is false.
type Result struct {
	EndTime time.Time
	Entry   entities.ActionLogEntry
	Logged  bool
}

// Stats is a point-in-time view of the structure sizes.
type Stats struct {
	Connections     int  `json:"connections"`
	Crops           int  `json:"crops"`
	QueuedRuns      int  `json:"queued_runs"`
	HistoryEntries  int  `json:"history_entries"`
	HistoryCapacity int  `json:"history_capacity"`
	HistoryFull     bool `json:"history_full"`
}

// Service owns the four structures; one mutex guards all of them so every
// operation sees and leaves a consistent state.
type Service struct {
	mu       sync.Mutex
	conns    *connindex.Index
	crops    *cropcatalog.Catalog
	motors   *motorqueue.Queue
	history  *actionlog.Log
	notifier Notifier
	metrics  *Metrics
	now      func() time.Time
}

func NewService(opts Options) *Service {
	return &Service{
		conns:    connindex.New(opts.HashTableSize),
		crops:    cropcatalog.NewWithPolicy(opts.CropDuplicates),
		motors:   motorqueue.New(),
		history:  actionlog.New(opts.HistoryCapacity),
		notifier: opts.Notifier,
		metrics:  opts.Metrics,
		now:      time.Now,
	}
}

// SetClock replaces the time source for log entries and events (tests).
func (s *Service) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	s.history.SetClock(now)
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func validateRate(op string, speed float64) error {
	if !finite(speed) || speed <= 0 {
		return invalid(op, "speed", fmt.Sprintf("%v must be > 0", speed))
	}
	return nil
}

func (s *Service) reject(op string, err error) error {
	if s.metrics != nil {
		s.metrics.Rejected.WithLabelValues(op).Inc()
	}
	return err
}

// endTime runs TimeMath and folds its failures into ErrInvalidInput.
func endTime(op, field string, start time.Time, qty, rate float64) (time.Time, error) {
	end, err := timemath.ComputeEndTime(start, qty, rate)
	if err != nil {
		return time.Time{}, &ValidationError{Op: op, Field: field, Reason: err.Error(), Err: err}
	}
	return end, nil
}

// record appends action to the history and refreshes the gauges. Callers
// hold s.mu.
func (s *Service) record(action string, res *Result) error {
	entry, err := s.history.Record(action)
	if err == nil {
		res.Entry, res.Logged = entry, true
	}
	if m := s.metrics; m != nil {
		m.Actions.WithLabelValues(action).Inc()
		if err != nil {
			m.HistoryFull.Inc()
		}
		s.refreshGauges()
	}
	if err != nil {
		log.Printf("irrigation: history full (%d entries), %q not logged", s.history.Cap(), action)
		return fmt.Errorf("%s: %w", action, ErrLogFull)
	}
	return nil
}

func (s *Service) refreshGauges() {
	m := s.metrics
	m.Connections.Set(float64(s.conns.Len()))
	m.Crops.Set(float64(s.crops.Len()))
	m.QueueDepth.Set(float64(s.motors.Len()))
	m.History.Set(float64(s.history.Len()))
}

func (s *Service) emit(ev messages.RecordEvent) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ev); err != nil {
		log.Printf("irrigation: notify %s %d: %v", ev.Kind, ev.SubjectID, err)
		if s.metrics != nil {
			s.metrics.NotifyErrors.Inc()
		}
	}
}

func (s *Service) event(kind string, subject int, action string, end time.Time, res Result, fields map[string]float64) messages.RecordEvent {
	ts := res.Entry.Timestamp
	if !res.Logged {
		ts = s.now()
	}
	return messages.RecordEvent{
		EventID:   uuid.NewString(),
		Kind:      kind,
		SubjectID: subject,
		Action:    action,
		EndTime:   &end,
		Fields:    fields,
		Logged:    res.Logged,
		Timestamp: ts,
	}
}

// AddConnection stores a connection and returns the time needed to move
// distance at speed, starting at start.
func (s *Service) AddConnection(borewellID, connectedTo int, distance, speed float64, start time.Time) (Result, error) {
	const op = "addConnection"
	if !finite(distance) || distance < 0 {
		return Result{}, s.reject(op, invalid(op, "distance", fmt.Sprintf("%v must be >= 0", distance)))
	}
	if err := validateRate(op, speed); err != nil {
		return Result{}, s.reject(op, err)
	}
	end, err := endTime(op, "distance", start, distance, speed)
	if err != nil {
		return Result{}, s.reject(op, err)
	}

	s.mu.Lock()
	s.conns.Insert(entities.Connection{
		BorewellID:  borewellID,
		ConnectedTo: connectedTo,
		Distance:    distance,
		Speed:       speed,
	})
	res := Result{EndTime: end}
	logErr := s.record(ActionAddConnection, &res)
	ev := s.event(messages.KindConnectionAdded, borewellID, ActionAddConnection, end, res, map[string]float64{
		"connected_to": float64(connectedTo),
		"distance":     distance,
		"speed":        speed,
	})
	s.mu.Unlock()

	s.emit(ev)
	return res, logErr
}

// ScheduleMotor queues a motor run and returns when it would finish pumping
// waterAmount liters at speed.
func (s *Service) ScheduleMotor(borewellID int, start time.Time, waterAmount int, speed float64) (Result, error) {
	const op = "scheduleMotor"
	if waterAmount < 0 {
		return Result{}, s.reject(op, invalid(op, "waterAmount", fmt.Sprintf("%d must be >= 0", waterAmount)))
	}
	if err := validateRate(op, speed); err != nil {
		return Result{}, s.reject(op, err)
	}
	end, err := endTime(op, "waterAmount", start, float64(waterAmount), speed)
	if err != nil {
		return Result{}, s.reject(op, err)
	}

	s.mu.Lock()
	s.motors.Enqueue(entities.ScheduledMotorRun{
		BorewellID:  borewellID,
		StartTime:   start,
		WaterAmount: waterAmount,
		Speed:       speed,
	})
	res := Result{EndTime: end}
	logErr := s.record(ActionScheduleMotor, &res)
	ev := s.event(messages.KindMotorScheduled, borewellID, ActionScheduleMotor, end, res, map[string]float64{
		"water_amount": float64(waterAmount),
		"speed":        speed,
	})
	s.mu.Unlock()

	s.emit(ev)
	return res, logErr
}

// AddCrop stores a crop and returns when waterRequired liters would have been
// delivered at speed.
func (s *Service) AddCrop(id int, cropType, soilType string, waterRequired int, start time.Time, speed float64) (Result, error) {
	const op = "addCrop"
	switch {
	case strings.TrimSpace(cropType) == "":
		return Result{}, s.reject(op, invalid(op, "cropType", "must not be empty"))
	case strings.TrimSpace(soilType) == "":
		return Result{}, s.reject(op, invalid(op, "soilType", "must not be empty"))
	case waterRequired < 0:
		return Result{}, s.reject(op, invalid(op, "waterRequired", fmt.Sprintf("%d must be >= 0", waterRequired)))
	}
	if err := validateRate(op, speed); err != nil {
		return Result{}, s.reject(op, err)
	}
	end, err := endTime(op, "waterRequired", start, float64(waterRequired), speed)
	if err != nil {
		return Result{}, s.reject(op, err)
	}

	s.mu.Lock()
	s.crops.Insert(entities.Crop{
		ID:            id,
		CropType:      cropType,
		SoilType:      soilType,
		WaterRequired: waterRequired,
		StartTime:     start,
	})
	res := Result{EndTime: end}
	logErr := s.record(ActionAddCrop, &res)
	ev := s.event(messages.KindCropAdded, id, ActionAddCrop, end, res, map[string]float64{
		"water_required": float64(waterRequired),
		"speed":          speed,
	})
	s.mu.Unlock()

	s.emit(ev)
	return res, logErr
}

// FindConnection returns the latest connection recorded for borewellID.
// Lookups are not logged.
func (s *Service) FindConnection(borewellID int) (entities.Connection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conns.Lookup(borewellID)
}

// NextMotorRun removes the oldest scheduled run; false when none is queued.
func (s *Service) NextMotorRun() (entities.ScheduledMotorRun, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.motors.Dequeue()
	if ok && s.metrics != nil {
		s.metrics.Dispatched.Inc()
		s.metrics.QueueDepth.Set(float64(s.motors.Len()))
	}
	return run, ok
}

// The List functions copy under the lock; the returned sequences can be
// ranged over any number of times and never observe later writes.

// ListConnections yields connections most recent first.
func (s *Service) ListConnections() iter.Seq[entities.Connection] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Values(slices.Collect(s.conns.All()))
}

// ListCropsSorted yields crops in ascending id order.
func (s *Service) ListCropsSorted() iter.Seq[entities.Crop] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Values(slices.Collect(s.crops.InOrder()))
}

// ListHistory yields history entries oldest first.
func (s *Service) ListHistory() iter.Seq[entities.ActionLogEntry] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Values(slices.Collect(s.history.All()))
}

// PendingMotorRuns yields queued runs in dispatch order without removing them.
func (s *Service) PendingMotorRuns() iter.Seq[entities.ScheduledMotorRun] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.motors.All()
}

func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Connections:     s.conns.Len(),
		Crops:           s.crops.Len(),
		QueuedRuns:      s.motors.Len(),
		HistoryEntries:  s.history.Len(),
		HistoryCapacity: s.history.Cap(),
		HistoryFull:     s.history.Full(),
	}
}

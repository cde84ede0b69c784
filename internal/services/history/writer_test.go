package history

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/LeonardoBeccarini/borewell_project/internal/model/messages"
)

type fakeWriteAPI struct {
	api.WriteAPI
	mu     sync.Mutex
	points []*write.Point
	errs   chan error
}

func newFakeWriteAPI() *fakeWriteAPI { return &fakeWriteAPI{errs: make(chan error, 1)} }

func (f *fakeWriteAPI) WritePoint(p *write.Point) {
	f.mu.Lock()
	f.points = append(f.points, p)
	f.mu.Unlock()
}
func (f *fakeWriteAPI) Flush()               {}
func (f *fakeWriteAPI) Errors() <-chan error { return f.errs }

var ts = time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC)

func TestEventToPoint(t *testing.T) {
	end := ts.Add(time.Hour)
	p := EventToPoint(messages.RecordEvent{
		EventID:   "e1",
		Kind:      messages.KindConnectionAdded,
		SubjectID: 5,
		Action:    "Added Borewell Connection",
		EndTime:   &end,
		Fields:    map[string]float64{"distance": 120, "speed": 60},
		Logged:    true,
		Timestamp: ts,
	})
	line := write.PointToLineProtocol(p, time.Second)
	for _, want := range []string{
		"system_event,", "event_type=connection.added", "subject_id=5", "logged=true",
		"distance=120", "speed=60", "count=1i", "end_time_unix=1709463600i", `action="Added Borewell Connection"`,
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("line %q lacks %q", line, want)
		}
	}
	if !strings.HasSuffix(strings.TrimSpace(line), "1709460000") {
		t.Fatalf("line %q has wrong timestamp", line)
	}
}

func TestWriterNotify(t *testing.T) {
	f := newFakeWriteAPI()
	w := NewWriter(f)
	for i := 0; i < 2; i++ {
		if err := w.Notify(messages.RecordEvent{Kind: messages.KindCropAdded, SubjectID: i, Timestamp: ts}); err != nil {
			t.Fatalf("Notify: %v", err)
		}
	}
	if w.Count(messages.KindCropAdded) != 2 || len(f.points) != 2 {
		t.Fatalf("count=%d points=%d", w.Count(messages.KindCropAdded), len(f.points))
	}
	if w.LastErrorAge() < time.Hour {
		t.Fatalf("fresh writer should report no recent error")
	}

	f.errs <- errors.New("bucket not found")
	deadline := time.Now().Add(time.Second)
	for w.LastErrorAge() > time.Minute {
		if time.Now().After(deadline) {
			t.Fatalf("write error not recorded")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

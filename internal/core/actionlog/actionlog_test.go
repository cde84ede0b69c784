package actionlog

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestRecordUntilFull(t *testing.T) {
	l := New(0)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	l.SetClock(func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Second) })

	for i := 0; i < DefaultCapacity; i++ {
		if _, err := l.Record(fmt.Sprintf("action %d", i)); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	if !l.Full() {
		t.Fatalf("log should be full after %d records", DefaultCapacity)
	}
	if _, err := l.Record("one too many"); !errors.Is(err, ErrLogFull) {
		t.Fatalf("expected ErrLogFull, got %v", err)
	}

	i := 0
	for e := range l.All() {
		if want := fmt.Sprintf("action %d", i); e.Description != want {
			t.Fatalf("entry %d = %q, want %q", i, e.Description, want)
		}
		if want := base.Add(time.Duration(i+1) * time.Second); !e.Timestamp.Equal(want) {
			t.Fatalf("entry %d timestamp = %v, want %v", i, e.Timestamp, want)
		}
		i++
	}
	if i != DefaultCapacity {
		t.Fatalf("All yielded %d entries, want %d", i, DefaultCapacity)
	}
}

func TestAllIsRestartable(t *testing.T) {
	l := New(3)
	l.Record("a")
	l.Record("b")
	seq := l.All()
	for pass := 0; pass < 2; pass++ {
		n := 0
		for range seq {
			n++
		}
		if n != 2 {
			t.Fatalf("pass %d yielded %d entries, want 2", pass, n)
		}
	}
}

func TestAllStopsEarly(t *testing.T) {
	l := New(3)
	l.Record("a")
	l.Record("b")
	l.Record("c")
	var got []string
	for e := range l.All() {
		got = append(got, e.Description)
		if len(got) == 2 {
			break
		}
	}
	if len(got) != 2 || got[1] != "b" {
		t.Fatalf("unexpected early-stop result %v", got)
	}
}

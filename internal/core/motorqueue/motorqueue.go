// Package motorqueue is the FIFO schedule of pending motor runs.
package motorqueue

import (
	"iter"

	"github.com/LeonardoBeccarini/borewell_project/internal/model/entities"
)

// Queue is a slice-backed FIFO; head marks the next run to dequeue.
type Queue struct {
	runs []entities.ScheduledMotorRun
	head int
}

func New() *Queue { return &Queue{} }

func (q *Queue) Enqueue(r entities.ScheduledMotorRun) {
	q.runs = append(q.runs, r)
}

// Dequeue removes the oldest run. ok is false when the queue is empty.
func (q *Queue) Dequeue() (entities.ScheduledMotorRun, bool) {
	if q.head >= len(q.runs) {
		return entities.ScheduledMotorRun{}, false
	}
	r := q.runs[q.head]
	q.runs[q.head] = entities.ScheduledMotorRun{}
	q.head++
	switch {
	case q.head == len(q.runs):
		q.runs = q.runs[:0]
		q.head = 0
	case q.head > 32 && q.head*2 >= len(q.runs):
		n := copy(q.runs, q.runs[q.head:])
		q.runs = q.runs[:n]
		q.head = 0
	}
	return r, true
}

func (q *Queue) Len() int { return len(q.runs) - q.head }

// All yields the queued runs head first without removing them.
func (q *Queue) All() iter.Seq[entities.ScheduledMotorRun] {
	snap := append([]entities.ScheduledMotorRun(nil), q.runs[q.head:]...)
	return func(yield func(entities.ScheduledMotorRun) bool) {
		for _, r := range snap {
			if !yield(r) {
				return
			}
		}
	}
}

package rabbitmq

import (
	"log"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerPublisher stops hammering an unavailable broker: after fails
// consecutive publish errors it rejects publishes for openFor.
type BreakerPublisher struct {
	next IPublisher
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerPublisher(next IPublisher, name string, fails int, openFor time.Duration) *BreakerPublisher {
	if fails <= 0 {
		fails = 5
	}
	return &BreakerPublisher{
		next: next,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    name,
			Timeout: openFor,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= uint32(fails)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Printf("breaker %s: %s -> %s", name, from, to)
			},
		}),
	}
}

func (b *BreakerPublisher) PublishMessage(message interface{}) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.PublishMessage(message)
	})
	return err
}

func (b *BreakerPublisher) PublishTo(topic string, qos byte, retained bool, message interface{}) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.PublishTo(topic, qos, retained, message)
	})
	return err
}

func (b *BreakerPublisher) State() gobreaker.State { return b.cb.State() }

func (b *BreakerPublisher) Close() { b.next.Close() }

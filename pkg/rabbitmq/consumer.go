package rabbitmq

import (
	"context"
	"log"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// IConsumer subscribes a handler and blocks until the context is done.
type IConsumer interface {
	ConsumeMessage(ctx context.Context)
	SetHandler(handler func(topic string, message mqtt.Message) error)
}

// Consumer subscribes one handler to a set of topics.
type Consumer struct {
	client  mqtt.Client
	topics  []string
	handler func(topic string, message mqtt.Message) error
}

func NewConsumer(client mqtt.Client, handler func(topic string, message mqtt.Message) error, topics ...string) *Consumer {
	return &Consumer{client: client, topics: topics, handler: handler}
}

func (c *Consumer) SetHandler(handler func(topic string, message mqtt.Message) error) {
	c.handler = handler
}

// qosFor picks at-least-once delivery for commands and motor dispatches.
func qosFor(topic string) byte {
	t := strings.TrimSpace(topic)
	if strings.HasPrefix(t, "cmd/") || strings.HasPrefix(t, "event/motorRun") {
		return 1
	}
	return 0
}

// ConsumeMessage subscribes every topic and blocks until ctx is cancelled,
// then unsubscribes.
func (c *Consumer) ConsumeMessage(ctx context.Context) {
	for _, topic := range c.topics {
		token := c.client.Subscribe(topic, qosFor(topic), func(_ mqtt.Client, msg mqtt.Message) {
			if c.handler == nil {
				log.Printf("mqtt: no handler set for topic %s", topic)
				return
			}
			if err := c.handler(msg.Topic(), msg); err != nil {
				log.Printf("mqtt: handling message on %s: %v", msg.Topic(), err)
			}
		})
		if token.Wait() && token.Error() != nil {
			log.Printf("mqtt: subscribe %s failed: %v", topic, token.Error())
			continue
		}
		log.Printf("mqtt: subscribed to %s", topic)
	}

	<-ctx.Done()

	if len(c.topics) > 0 {
		c.client.Unsubscribe(c.topics...).Wait()
	}
}

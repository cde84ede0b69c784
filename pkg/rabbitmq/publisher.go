package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// IPublisher publishes payloads to MQTT topics.
type IPublisher interface {
	// PublishMessage sends to the publisher's default topic.
	PublishMessage(message interface{}) error
	PublishTo(topic string, qos byte, retained bool, message interface{}) error
	Close()
}

// Publisher holds the shared client and a default topic.
type Publisher struct {
	client mqtt.Client
	topic  string
	qos    byte
}

func NewPublisher(client mqtt.Client, topic string) *Publisher {
	return &Publisher{client: client, topic: topic, qos: qosFor(topic)}
}

// encode passes strings and byte slices through and JSON-encodes anything else.
func encode(message interface{}) ([]byte, error) {
	switch m := message.(type) {
	case string:
		return []byte(m), nil
	case []byte:
		return m, nil
	default:
		b, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("invalid message format: %w", err)
		}
		return b, nil
	}
}

func (p *Publisher) PublishMessage(message interface{}) error {
	return p.PublishTo(p.topic, p.qos, false, message)
}

func (p *Publisher) PublishTo(topic string, qos byte, retained bool, message interface{}) error {
	payload, err := encode(message)
	if err != nil {
		return err
	}
	token := p.client.Publish(topic, qos, retained, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

func (p *Publisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
		log.Println("mqtt: publisher disconnected")
	}
}

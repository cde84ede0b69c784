package rabbitmq

import (
	"errors"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type fakeToken struct {
	mqtt.Token
	err error
}

func (t *fakeToken) Wait() bool   { return true }
func (t *fakeToken) Error() error { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// fakeClient records publishes and delivers subscriptions on demand.
type fakeClient struct {
	mqtt.Client
	mu         sync.Mutex
	pubs       []published
	pubErr     error
	handlers   map[string]mqtt.MessageHandler
	unsubbed   []string
	subscribed chan string
}

func newFakeClient() *fakeClient {
	return &fakeClient{handlers: map[string]mqtt.MessageHandler{}, subscribed: make(chan string, 8)}
}

func (c *fakeClient) IsConnected() bool { return true }
func (c *fakeClient) Disconnect(uint)   {}
func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pubs = append(c.pubs, published{topic, qos, retained, payload.([]byte)})
	return &fakeToken{err: c.pubErr}
}

func (c *fakeClient) Subscribe(topic string, _ byte, cb mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	c.handlers[topic] = cb
	c.mu.Unlock()
	c.subscribed <- topic
	return &fakeToken{}
}

func (c *fakeClient) Unsubscribe(topics ...string) mqtt.Token {
	c.mu.Lock()
	c.unsubbed = append(c.unsubbed, topics...)
	c.mu.Unlock()
	return &fakeToken{}
}

func (c *fakeClient) deliver(sub string, msg mqtt.Message) {
	c.mu.Lock()
	cb := c.handlers[sub]
	c.mu.Unlock()
	cb(c, msg)
}

type fakeMessage struct {
	mqtt.Message
	topic   string
	payload []byte
}

func (m *fakeMessage) Topic() string   { return m.topic }
func (m *fakeMessage) Payload() []byte { return m.payload }

var errBroker = errors.New("broker unavailable")

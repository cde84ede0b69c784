package irrigation

import (
	"errors"
	"strconv"
	"strings"

	"github.com/LeonardoBeccarini/borewell_project/internal/model/messages"
	"github.com/LeonardoBeccarini/borewell_project/pkg/rabbitmq"
)

// Notifier receives a RecordEvent after each successful record operation.
type Notifier interface {
	Notify(ev messages.RecordEvent) error
}

type NotifierFunc func(ev messages.RecordEvent) error

func (f NotifierFunc) Notify(ev messages.RecordEvent) error { return f(ev) }

// MultiNotifier fans an event out to every notifier and joins their errors.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ev messages.RecordEvent) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MQTTNotifier publishes events as JSON on a topic built from a template
// with {kind} and {id} placeholders.
type MQTTNotifier struct {
	pub      rabbitmq.IPublisher
	template string
}

func NewMQTTNotifier(pub rabbitmq.IPublisher, template string) *MQTTNotifier {
	if template == "" {
		template = "event/{kind}/{id}"
	}
	return &MQTTNotifier{pub: pub, template: template}
}

func (n *MQTTNotifier) Topic(ev messages.RecordEvent) string {
	return strings.NewReplacer(
		"{kind}", ev.Kind,
		"{id}", strconv.Itoa(ev.SubjectID),
	).Replace(n.template)
}

func (n *MQTTNotifier) Notify(ev messages.RecordEvent) error {
	return n.pub.PublishTo(n.Topic(ev), 0, false, ev)
}

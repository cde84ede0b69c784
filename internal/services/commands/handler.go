// Package commands applies record commands received over MQTT.
package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/LeonardoBeccarini/borewell_project/internal/model/messages"
	"github.com/LeonardoBeccarini/borewell_project/internal/services/irrigation"
	"github.com/LeonardoBeccarini/borewell_project/pkg/dedup"
	"github.com/LeonardoBeccarini/borewell_project/pkg/rabbitmq"
)

var ErrUnknownCommand = errors.New("unknown command type")

type Handler struct {
	svc      *irrigation.Service
	consumer rabbitmq.IConsumer
	deduper  *dedup.Deduper
	loc      *time.Location
	now      func() time.Time
}

// NewHandler wires svc to consumer. A nil deduper disables redelivery
// filtering.
func NewHandler(svc *irrigation.Service, consumer rabbitmq.IConsumer, deduper *dedup.Deduper, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{svc: svc, consumer: consumer, deduper: deduper, loc: loc, now: time.Now}
}

// Start consumes commands until ctx is done.
func (h *Handler) Start(ctx context.Context) {
	h.consumer.SetHandler(h.HandleMessage)
	h.consumer.ConsumeMessage(ctx)
}

// dedupKey is the command id, or a payload hash for commands without one.
func dedupKey(cmd messages.Command, payload []byte) string {
	if cmd.CommandID != "" {
		return cmd.CommandID
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func (h *Handler) HandleMessage(topic string, msg mqtt.Message) error {
	var cmd messages.Command
	if err := json.Unmarshal(msg.Payload(), &cmd); err != nil {
		log.Printf("commands: bad payload on %s: %v", topic, err)
		return nil
	}
	if h.deduper != nil && !h.deduper.ShouldProcess(dedupKey(cmd, msg.Payload())) {
		log.Printf("commands: duplicate %s %q ignored", cmd.Type, cmd.CommandID)
		return nil
	}

	res, err := h.Apply(cmd)
	switch {
	case errors.Is(err, irrigation.ErrLogFull):
		log.Printf("commands: %s %q stored, history full", cmd.Type, cmd.CommandID)
	case err != nil:
		return fmt.Errorf("command %s %q: %w", cmd.Type, cmd.CommandID, err)
	default:
		log.Printf("commands: %s %q applied, ends %s", cmd.Type, cmd.CommandID, irrigation.FormatEndTime(res.EndTime))
	}
	return nil
}

func (h *Handler) startOf(cmd messages.Command) (time.Time, error) {
	if !cmd.StartTime.IsZero() {
		return cmd.StartTime, nil
	}
	now := h.now().In(h.loc)
	if cmd.Hour == nil && cmd.Minute == nil {
		return now, nil
	}
	var hour, minute int
	if cmd.Hour != nil {
		hour = *cmd.Hour
	}
	if cmd.Minute != nil {
		minute = *cmd.Minute
	}
	return irrigation.StartAt(now, hour, minute, h.loc)
}

// Apply runs cmd against the service.
func (h *Handler) Apply(cmd messages.Command) (irrigation.Result, error) {
	start, err := h.startOf(cmd)
	if err != nil {
		return irrigation.Result{}, err
	}
	switch cmd.Type {
	case messages.CmdAddConnection:
		return h.svc.AddConnection(cmd.BorewellID, cmd.ConnectedTo, cmd.Distance, cmd.Speed, start)
	case messages.CmdScheduleMotor:
		return h.svc.ScheduleMotor(cmd.BorewellID, start, cmd.WaterAmount, cmd.Speed)
	case messages.CmdAddCrop:
		return h.svc.AddCrop(cmd.CropID, cmd.CropType, cmd.SoilType, cmd.WaterRequired, start, cmd.Speed)
	}
	return irrigation.Result{}, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
}

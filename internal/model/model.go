package model

import (
	"github.com/LeonardoBeccarini/borewell_project/internal/model/entities"
	"github.com/LeonardoBeccarini/borewell_project/internal/model/messages"
)

// Aliases exposing common types to the services.

type (
	Connection         = entities.Connection
	Crop               = entities.Crop
	ScheduledMotorRun  = entities.ScheduledMotorRun
	ActionLogEntry     = entities.ActionLogEntry
	MotorDispatchEvent = messages.MotorDispatchEvent
)

const MotorOn = entities.MotorOn

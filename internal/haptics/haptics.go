package haptics

import (
	"github.com/arcyniiegas/elysium/internal/broadcast"
	"github.com/arcyniiegas/elysium/internal/env"
)

// Cue names match the overlay's synthetic vibration patterns.
type Cue string

const (
	CueSelection           Cue = "selection"
	CueImpactHeavy         Cue = "impact_heavy"
	CueNotificationSuccess Cue = "notification_success"
	CueNotificationError   Cue = "notification_error"
)

type message struct {
	Type string `json:"type"`
	Cue  Cue    `json:"cue"`
}

// Emit pushes a haptic cue to connected overlay clients. Fire and forget.
func Emit(cue Cue) {
	if !env.Value.HapticsEnabled {
		return
	}
	broadcast.Send(message{Type: "haptic", Cue: cue})
}

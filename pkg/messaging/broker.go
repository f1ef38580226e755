package messaging

import (
	"context"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Channels carrying appointment and settings events between the API,
// the worker and any subscribed front-end gateways.
const (
	ChannelAppointmentBooked      = "appointment.booked"
	ChannelAppointmentRescheduled = "appointment.rescheduled"
	ChannelAppointmentCancelled   = "appointment.cancelled"
	ChannelSettingsUpdated        = "settings.updated"
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

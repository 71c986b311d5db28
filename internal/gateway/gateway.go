// Package gateway defines the boundary between the dialog core and the
// messaging platform: normalized inbound events and outbound render
// requests. The core never sees platform-specific markup or transport.
package gateway

import (
	"context"

	"github.com/google/uuid"
)

type EventKind int

const (
	// EventButton is a button press carrying an encoded action payload.
	EventButton EventKind = iota
	// EventText is a free-text message, interpreted by the current state.
	EventText
	// EventCommand is a slash command such as /start or /cancel.
	EventCommand
)

// Event is one normalized inbound user interaction.
type Event struct {
	// ID correlates log lines for a single dispatch.
	ID    uuid.UUID
	Owner int64
	Kind  EventKind
	// Payload is the encoded action for button events.
	Payload string
	// Text is the raw text for text events, or the command name.
	Text string
	// MessageID identifies the message the pressed button belongs to.
	MessageID int
}

// Button is one labeled action the user can press.
type Button struct {
	Label   string
	Payload string
}

// Render is what the core asks the platform to display. Edit replaces the
// message identified by MessageID in place; otherwise a new message is sent.
type Render struct {
	Text      string
	Keyboard  [][]Button
	Edit      bool
	MessageID int
}

// Gateway delivers a render request to an owner's chat. Implementations
// attempt exactly one delivery; retries belong to the platform layer.
type Gateway interface {
	Send(ctx context.Context, owner int64, r Render) error
}

// Func adapts a plain function to the Gateway interface. Useful when the
// gateway is constructed after its consumer.
type Func func(ctx context.Context, owner int64, r Render) error

func (f Func) Send(ctx context.Context, owner int64, r Render) error {
	return f(ctx, owner, r)
}

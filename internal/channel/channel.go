// Package channel defines the messaging-channel port the conversation core
// talks to. Transport concerns (pairing, login, delivery receipts) live
// entirely behind this boundary; the core only needs inbound events and a
// handful of outbound primitives.
package channel

import "context"

// Message is one inbound event from the messaging channel.
type Message struct {
	// SenderID is the channel identity of the author, trusted as-is.
	SenderID string
	// SenderName is the display name when the channel exposes one.
	SenderName string
	// Text is the trimmed message body.
	Text string
	// FromSelf marks messages authored by the assistant's own account,
	// which the core must ignore.
	FromSelf bool
}

// Sender is the outbound half of the channel.
type Sender interface {
	// SendText delivers a plain text reply to a user.
	SendText(ctx context.Context, userID, text string) error
	// SendFile delivers a file attachment (e.g. a report PDF) to a user.
	SendFile(ctx context.Context, userID, path string) error
	// SetTyping toggles the channel's typing indicator for a user. Channels
	// without one should no-op.
	SetTyping(ctx context.Context, userID string, on bool) error
}

// Channel is a full duplex messaging transport: outbound primitives plus an
// inbound stream. Messages must be closed by the implementation when the
// transport shuts down.
type Channel interface {
	Sender
	Messages() <-chan Message
}

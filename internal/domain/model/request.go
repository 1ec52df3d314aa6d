package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Channel identifies a configured delivery target (e.g. teams, feishu).
type Channel string

const (
	ChannelTeams    Channel = "teams"
	ChannelFeishu   Channel = "feishu"
	ChannelWechat   Channel = "wechat"
	ChannelEmail    Channel = "email"
	ChannelTelegram Channel = "telegram"
	ChannelAMQP     Channel = "amqp"
)

// KnownChannels lists every channel the dispatcher understands, in the
// order results are reported.
var KnownChannels = []Channel{
	ChannelTeams,
	ChannelFeishu,
	ChannelWechat,
	ChannelEmail,
	ChannelTelegram,
	ChannelAMQP,
}

// Level represents the severity of a notification.
type Level string

const (
	LevelInfo     Level = "info"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
	LevelSuccess  Level = "success"
)

// ParseLevel validates a severity string coming from the CLI or a hook payload.
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelInfo, LevelWarning, LevelCritical, LevelSuccess:
		return Level(s), nil
	case "":
		return LevelInfo, nil
	}
	return "", fmt.Errorf("unknown level: %q", s)
}

// Color returns the hex theme color used by card-style channels.
func (l Level) Color() string {
	switch l {
	case LevelWarning:
		return "FFA500"
	case LevelCritical:
		return "DC3545"
	case LevelSuccess:
		return "28A745"
	default:
		return "0078D4"
	}
}

// Request is the core business entity: one notification to be dispatched.
// It is immutable once constructed and technology-agnostic.
type Request struct {
	ID      uuid.UUID
	Event   string // Event type identifier, e.g. "build_failure".
	Title   string
	Content string
	Level   Level

	// Channels, when non-empty, overrides event routing with an explicit
	// target set.
	Channels []Channel

	// Force bypasses both dedup and quiet-hours suppression.
	Force bool
}

// NewRequest is the factory for a notification request.
func NewRequest(event, title, content string, level Level, channels []Channel, force bool) *Request {
	return &Request{
		ID:       uuid.New(),
		Event:    event,
		Title:    title,
		Content:  content,
		Level:    level,
		Channels: channels,
		Force:    force,
	}
}

// Message is the rendered form of a request handed to channel senders.
// Vendor-specific payload shaping happens inside each sender.
type Message struct {
	RequestID uuid.UUID
	Title     string
	Body      string
	Level     Level
}

// Render produces the message that senders will deliver.
func (r *Request) Render() *Message {
	return &Message{
		RequestID: r.ID,
		Title:     r.Title,
		Body:      r.Content,
		Level:     r.Level,
	}
}

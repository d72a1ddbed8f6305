package adapter

import "context"

// InlineButton is one selectable action; Data is the opaque payload handed
// back by the transport when the button is pressed.
type InlineButton struct {
	Text string
	Data string
}

// BotAdapter is the outbound messaging port. A nil rows slice sends a plain
// message without buttons.
type BotAdapter interface {
	SendMessage(ctx context.Context, chatID int64, text string, rows [][]InlineButton) error
	SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, rows [][]InlineButton) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

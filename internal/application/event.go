package application

// Event is one inbound user action delivered by the messaging transport:
// either a free-text message or a button-press callback.
type Event struct {
	ChatID    int64
	Text      string // free-text message body, empty for callbacks
	Payload   string // button callback data, empty for free text
	MessageID int    // message that carried the pressed button, 0 for free text
	Callback  bool
}

// input is the trigger a handler branches on, regardless of event kind.
func (e Event) input() string {
	if e.Callback {
		return e.Payload
	}
	return e.Text
}

package outbox

import (
	"time"

	"pulsett/app/service/reply"
)

const historySize = 20

type Message struct {
	Text      string    `json:"text"`
	Rich      bool      `json:"rich"`
	Timestamp time.Time `json:"timestamp"`
}

// history keeps the latest historySize messages, dropping the oldest.
type history struct {
	messages []Message
}

func (h *history) add(r reply.Reply, now time.Time) {
	msg := Message{
		Text:      r.Text,
		Rich:      r.Rich,
		Timestamp: now,
	}

	if len(h.messages) >= historySize {
		h.messages = append(h.messages[1:], msg)
	} else {
		h.messages = append(h.messages, msg)
	}
}

func (h *history) drain() []Message {
	out := h.messages
	h.messages = nil
	return out
}

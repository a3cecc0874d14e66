package session

import "time"

type Tone string

const (
	NoTone       Tone = ""
	ToneNeutral  Tone = "neutral"
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
)

// State is the per-user conversation record. It lives only in memory.
type State struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	LastTone  Tone      `json:"last_tone"`
	Active    bool      `json:"active"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Timer is a pending one-shot callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallScheduler struct{}

func (wallScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type entry struct {
	state     State
	timer     Timer
	timerGen  uint64
	onTimeout func(State)
}

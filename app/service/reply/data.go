package reply

import (
	"pulsett/app/service/sentiment"
	"pulsett/app/service/session"
)

type Source string

const (
	SourceTyped       Source = "typed"
	SourceTranscribed Source = "transcribed"
	SourceVision      Source = "vision"
)

type Utterance struct {
	Text   string `json:"text"`
	Source Source `json:"source"`
}

type Reply struct {
	Text string `json:"text"`
	Rich bool   `json:"rich"`
}

type Classifier interface {
	Classify(text string) sentiment.Result
	ContainsLoneliness(text string) bool
}

// IntentResolver returns a scripted reply for text, or false when nothing matches.
type IntentResolver interface {
	Predict(text string) (string, bool)
}

type SessionStore interface {
	Get(userID string) (session.State, bool)
	Start(userID string, onTimeout func(session.State)) session.State
	Record(userID string, tone session.Tone) session.State
}

// Notifier delivers replies that are not an answer to a user turn.
type Notifier interface {
	Notify(userID string, r Reply)
}

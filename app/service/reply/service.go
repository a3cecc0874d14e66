package reply

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"pulsett/app/config"
	"pulsett/app/service/intent"
	"pulsett/app/service/sentiment"
	"pulsett/app/service/session"
	"pulsett/app/util/randpick"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
)

type Options struct {
	// ShowAnalysis prefixes replies with the sentiment label and polarity.
	ShowAnalysis bool
}

type Service struct {
	classifier Classifier
	intents    IntentResolver
	sessions   SessionStore
	notifier   Notifier
	picker     randpick.Picker
	opts       Options
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewComposer(
		do.MustInvoke[*sentiment.Service](di),
		do.MustInvoke[*intent.Matcher](di),
		do.MustInvoke[*session.Store](di),
		do.MustInvoke[Notifier](di),
		do.MustInvoke[randpick.Picker](di),
		Options{ShowAnalysis: cfg.Reply.ShowAnalysis},
	), nil
}

func NewComposer(
	classifier Classifier,
	intents IntentResolver,
	sessions SessionStore,
	notifier Notifier,
	picker randpick.Picker,
	opts Options,
) *Service {
	if picker == nil {
		picker = randpick.New(0)
	}

	return &Service{
		classifier: classifier,
		intents:    intents,
		sessions:   sessions,
		notifier:   notifier,
		picker:     picker,
		opts:       opts,
	}
}

// StartSession opens a new session and arms the inactivity farewell.
func (s *Service) StartSession(userID string) Reply {
	s.sessions.Start(userID, func(st session.State) {
		if s.notifier == nil {
			return
		}
		s.notifier.Notify(st.UserID, Reply{Text: farewellText})
	})

	return Reply{Text: startText}
}

func (s *Service) Help() Reply {
	return Reply{Text: helpText, Rich: true}
}

func (s *Service) Farewell() Reply {
	return Reply{Text: farewellText}
}

// Compose produces the reply to one user turn.
func (s *Service) Compose(userID string, u Utterance) Reply {
	switch u.Source {
	case SourceVision:
		return s.composeVision(u.Text)
	case SourceTranscribed:
		text := strings.TrimSpace(u.Text)
		if text == "" {
			return Reply{Text: voiceRetryText}
		}

		r := s.composeText(userID, text)
		return Reply{
			Text: fmt.Sprintf("🗣️ *Transcripción:* %s\n\n%s", text, r.Text),
			Rich: true,
		}
	default:
		return s.composeText(userID, u.Text)
	}
}

func (s *Service) composeText(userID, text string) Reply {
	if IsGreeting(text) {
		s.sessions.Record(userID, session.ToneNeutral)
		return Reply{Text: greetingText}
	}

	result := s.classifier.Classify(text)

	prior := session.NoTone
	if st, ok := s.sessions.Get(userID); ok {
		prior = st.LastTone
	}

	var body string
	switch result.Label {
	case sentiment.Negative:
		switch {
		case s.classifier.ContainsLoneliness(text):
			body = lonelinessText
		case prior == session.TonePositive:
			body = moodDownText
		default:
			body = randpick.One(s.picker, negativePool)
		}
	case sentiment.Positive:
		if prior == session.ToneNegative {
			body = moodUpText
		} else {
			body = randpick.One(s.picker, positivePool)
		}
	default:
		if scripted, ok := s.predict(text); ok {
			body = scripted
		} else {
			body = randpick.One(s.picker, neutralPool)
		}
	}

	s.sessions.Record(userID, toneOf(result.Label))

	slog.Debug("Composed reply",
		"user_id", userID,
		"label", result.Label,
		"polarity", result.Polarity,
		"prior", prior,
	)

	if s.opts.ShowAnalysis {
		return Reply{
			Text: fmt.Sprintf("🔍 *Análisis de sentimiento:* %s (polarity=%.2f)\n\n%s", result.Label, result.Polarity, body),
			Rich: true,
		}
	}

	return Reply{Text: body}
}

func (s *Service) predict(text string) (string, bool) {
	if s.intents == nil {
		return "", false
	}
	return s.intents.Predict(text)
}

func (s *Service) composeVision(label string) Reply {
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		return Reply{Text: visionRetryText}
	}

	if alias, ok := visionAliases[key]; ok {
		key = alias
	}

	if text, ok := visionReplies[key]; ok {
		return Reply{Text: text}
	}

	return Reply{Text: visionUncertainText}
}

// IsGreeting matches text, ignoring case and punctuation, against the greeting
// vocabulary either exactly or as a leading phrase.
func IsGreeting(text string) bool {
	normalized := normalize(text)
	if normalized == "" {
		return false
	}

	return pie.Any(greetings, func(g string) bool {
		return normalized == g || strings.HasPrefix(normalized, g+" ")
	})
}

func normalize(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)

	return strings.Join(strings.Fields(cleaned), " ")
}

func toneOf(label sentiment.Label) session.Tone {
	switch label {
	case sentiment.Positive:
		return session.TonePositive
	case sentiment.Negative:
		return session.ToneNegative
	default:
		return session.ToneNeutral
	}
}

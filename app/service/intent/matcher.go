package intent

import (
	"log/slog"

	"pulsett/app/config"
	"pulsett/app/util/randpick"

	"github.com/samber/do"
	"github.com/samber/oops"
)

// Matcher predicts a scripted reply for a text. It is immutable after Build
// and safe for concurrent use.
type Matcher struct {
	vectorizer *tfidf
	resolver   resolver
	responses  map[string][]string
	picker     randpick.Picker
	kind       ResolverKind
}

func New(di *do.Injector) (*Matcher, error) {
	cfg := do.MustInvoke[*config.Config](di)
	picker := do.MustInvoke[randpick.Picker](di)

	return Load(cfg.Dataset.Path, ResolverKind(cfg.Dataset.Resolver), picker), nil
}

// Load builds a matcher from the dataset file. Load failures are logged and
// produce a degraded matcher that never matches.
func Load(path string, kind ResolverKind, picker randpick.Picker) *Matcher {
	records, err := LoadFile(path)
	if err != nil {
		slog.Error("Intent dataset unavailable, intent matching disabled",
			"path", path,
			"error", err,
		)
		return Degraded()
	}

	m, err := Build(records, kind, picker)
	if err != nil {
		slog.Error("Intent model build failed, intent matching disabled",
			"path", path,
			"error", err,
		)
		return Degraded()
	}

	slog.Info("Intent model trained",
		"path", path,
		"resolver", kind,
		"intents", len(records),
	)

	return m
}

// Degraded returns a matcher that reports no match for every query.
func Degraded() *Matcher {
	return &Matcher{}
}

func Build(records []Record, kind ResolverKind, picker randpick.Picker) (*Matcher, error) {
	if picker == nil {
		picker = randpick.New(0)
	}

	var (
		phrases   []string
		intents   []string
		responses = make(map[string][]string, len(records))
	)

	for _, rec := range records {
		if rec.Intent == "" {
			continue
		}
		for _, p := range rec.Patterns {
			phrases = append(phrases, p)
			intents = append(intents, rec.Intent)
		}
		responses[rec.Intent] = append(responses[rec.Intent], rec.Responses...)
	}

	if len(phrases) == 0 {
		return nil, oops.In("intent").Wrap(ErrEmptyDataset)
	}

	vectorizer := fitTFIDF(phrases, spanishStopWords)
	if len(vectorizer.vocabulary) == 0 {
		return nil, oops.In("intent").Wrapf(ErrMalformedDataset, "no usable vocabulary")
	}

	samples := make([]sample, len(phrases))
	for i, phrase := range phrases {
		samples[i] = sample{
			intent: intents[i],
			vec:    vectorizer.transform(phrase),
		}
	}

	res, err := newResolver(kind, samples)
	if err != nil {
		return nil, err
	}

	if kind == "" {
		kind = ClassifierKind
	}

	return &Matcher{
		vectorizer: vectorizer,
		resolver:   res,
		responses:  responses,
		picker:     picker,
		kind:       kind,
	}, nil
}

func (m *Matcher) Degraded() bool {
	return m == nil || m.resolver == nil
}

func (m *Matcher) Kind() ResolverKind {
	return m.kind
}

// Intent returns the intent predicted for text.
func (m *Matcher) Intent(text string) (string, bool) {
	if m.Degraded() {
		return "", false
	}

	return m.resolver.Resolve(m.vectorizer.transform(text))
}

// Predict returns a random response variant of the predicted intent.
func (m *Matcher) Predict(text string) (string, bool) {
	id, ok := m.Intent(text)
	if !ok {
		return "", false
	}

	variants := m.responses[id]
	if len(variants) == 0 {
		return "", false
	}

	return randpick.One(m.picker, variants), true
}

package speechkit

import (
	"context"
	"errors"
	"testing"

	"pulsett/app/config"
)

func TestDisabledClient(t *testing.T) {
	t.Parallel()

	y := &YandexSpeechKit{cfg: config.SpeechKit{Language: "es-ES", SampleRate: 16000}}
	if y.Enabled() {
		t.Fatalf("client without sdk must be disabled")
	}

	text, err := y.Transcribe(context.Background(), []byte{0, 1, 2, 3})
	if !errors.Is(err, ErrDisabled) || text != "" {
		t.Fatalf("Transcribe=%q,%v want ErrDisabled", text, err)
	}
	if err := y.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

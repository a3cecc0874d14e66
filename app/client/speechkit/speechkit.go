package speechkit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"

	"pulsett/app/config"

	"github.com/samber/do"
	"github.com/samber/oops"
	ycsdk "github.com/yandex-cloud/go-sdk"
	"github.com/yandex-cloud/go-sdk/iamkey"
)

var ErrDisabled = errors.New("speech recognition is disabled")

type YandexSpeechKit struct {
	cfg config.SpeechKit
	sdk *ycsdk.SDK
}

func NewClient(di *do.Injector) (*YandexSpeechKit, error) {
	ctx := do.MustInvoke[context.Context](di)
	cfg := do.MustInvoke[*config.Config](di)

	skCfg := cfg.Yandex.SpeechKit
	if skCfg.KeyFile == "" {
		slog.Info("SpeechKit key file is not configured, voice messages will not be transcribed")
		return &YandexSpeechKit{cfg: skCfg}, nil
	}

	keyBytes, err := os.ReadFile(skCfg.KeyFile)
	if err != nil {
		return nil, oops.In("speechkit").With("path", skCfg.KeyFile).Wrapf(err, "could not read service account key")
	}

	var key iamkey.Key
	if err = json.Unmarshal(keyBytes, &key); err != nil {
		return nil, oops.In("speechkit").Wrapf(err, "could not parse service account key")
	}

	creds, err := ycsdk.ServiceAccountKey(&key)
	if err != nil {
		return nil, oops.In("speechkit").Wrapf(err, "could not create service account key")
	}

	sdk, err := ycsdk.Build(ctx, ycsdk.Config{
		Credentials: creds,
	})
	if err != nil {
		return nil, oops.In("speechkit").Wrapf(err, "failed to create Yandex SDK")
	}

	return &YandexSpeechKit{
		cfg: skCfg,
		sdk: sdk,
	}, nil
}

func (y *YandexSpeechKit) Enabled() bool {
	return y.sdk != nil
}

func (y *YandexSpeechKit) open(ctx context.Context) (*recording, error) {
	if !y.Enabled() {
		return nil, ErrDisabled
	}

	ctx, cancel := context.WithCancel(ctx)

	stream, err := y.sdk.AI().STTV3().Recognizer().RecognizeStreaming(ctx)
	if err != nil {
		cancel()
		return nil, oops.In("speechkit").Wrapf(err, "failed to create client")
	}

	return &recording{
		stream: stream,
		cancel: cancel,
	}, nil
}

// Transcribe recognizes a complete LINEAR16 mono PCM recording and returns the
// final utterances joined by spaces. Silence yields an empty string.
func (y *YandexSpeechKit) Transcribe(ctx context.Context, audio []byte) (string, error) {
	rec, err := y.open(ctx)
	if err != nil {
		return "", err
	}
	defer rec.close()

	return y.transcribe(rec, audio)
}

func (y *YandexSpeechKit) transcribe(rec *recording, audio []byte) (string, error) {
	if err := rec.configure(y.cfg.Language, y.cfg.SampleRate); err != nil {
		return "", err
	}

	if err := rec.upload(audio); err != nil {
		return "", err
	}

	return rec.collect()
}

func (y *YandexSpeechKit) Shutdown() error {
	if y.sdk == nil {
		return nil
	}

	return y.sdk.Shutdown(context.Background())
}

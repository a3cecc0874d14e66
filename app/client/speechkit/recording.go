package speechkit

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/samber/oops"
	"github.com/yandex-cloud/go-genproto/yandex/cloud/ai/stt/v3"
)

const (
	chunkSize       = 4096
	maxPauseHintMs  = 800
	recognizerModel = "general"
)

// recognizeStream is the part of the streaming RPC a recording uses.
type recognizeStream interface {
	Send(*stt.StreamingRequest) error
	CloseSend() error
	Recv() (*stt.StreamingResponse, error)
}

// recording uploads one complete PCM clip and collects its final text.
type recording struct {
	stream recognizeStream
	cancel context.CancelFunc
}

func (r *recording) configure(language string, sampleRate int64) error {
	var audioFormat stt.AudioFormatOptions
	audioFormat.SetRawAudio(&stt.RawAudio{
		AudioEncoding:     stt.RawAudio_LINEAR16_PCM,
		SampleRateHertz:   sampleRate,
		AudioChannelCount: 1,
	})

	var eou stt.EouClassifierOptions
	eou.SetDefaultClassifier(&stt.DefaultEouClassifier{
		Type:                       stt.DefaultEouClassifier_HIGH,
		MaxPauseBetweenWordsHintMs: maxPauseHintMs,
	})

	var req stt.StreamingRequest
	req.SetSessionOptions(&stt.StreamingOptions{
		RecognitionModel: &stt.RecognitionModelOptions{
			Model:       recognizerModel,
			AudioFormat: &audioFormat,
			LanguageRestriction: &stt.LanguageRestrictionOptions{
				RestrictionType: stt.LanguageRestrictionOptions_WHITELIST,
				LanguageCode:    []string{language},
			},
		},
		EouClassifier: &eou,
	})

	if err := r.stream.Send(&req); err != nil {
		return oops.In("speechkit").Wrapf(err, "failed to send session options")
	}
	return nil
}

// upload sends audio in chunks and half-closes the stream.
func (r *recording) upload(audio []byte) error {
	for offset := 0; offset < len(audio); offset += chunkSize {
		end := min(offset+chunkSize, len(audio))

		var req stt.StreamingRequest
		req.SetChunk(&stt.AudioChunk{Data: audio[offset:end]})

		if err := r.stream.Send(&req); err != nil {
			return oops.In("speechkit").With("offset", offset).Wrapf(err, "failed to send audio")
		}
	}

	if err := r.stream.CloseSend(); err != nil {
		return oops.In("speechkit").Wrapf(err, "failed to close audio stream")
	}
	return nil
}

// collect reads until the server ends the stream and joins the best
// alternative of every final utterance.
func (r *recording) collect() (string, error) {
	var phrases []string

	for {
		res, err := r.stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", oops.In("speechkit").Wrapf(err, "failed to receive recognition")
		}

		if text := bestFinal(res); text != "" {
			phrases = append(phrases, text)
		}
	}

	return strings.Join(phrases, " "), nil
}

func (r *recording) close() {
	r.cancel()
}

// Alternatives are ranked, the first non-empty one wins.
func bestFinal(res *stt.StreamingResponse) string {
	final := res.GetFinal()
	if final == nil {
		return ""
	}

	for _, alt := range final.GetAlternatives() {
		if text := strings.TrimSpace(alt.GetText()); text != "" {
			return text
		}
	}
	return ""
}

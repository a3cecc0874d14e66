package speechkit

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"pulsett/app/config"

	"github.com/yandex-cloud/go-genproto/yandex/cloud/ai/stt/v3"
)

type fakeStream struct {
	sent      []*stt.StreamingRequest
	closed    bool
	responses []*stt.StreamingResponse
	recvErr   error
}

func (f *fakeStream) Send(req *stt.StreamingRequest) error {
	f.sent = append(f.sent, req)
	return nil
}

func (f *fakeStream) CloseSend() error {
	f.closed = true
	return nil
}

func (f *fakeStream) Recv() (*stt.StreamingResponse, error) {
	if len(f.responses) == 0 {
		if f.recvErr != nil {
			return nil, f.recvErr
		}
		return nil, io.EOF
	}

	res := f.responses[0]
	f.responses = f.responses[1:]
	return res, nil
}

func final(texts ...string) *stt.StreamingResponse {
	update := &stt.AlternativeUpdate{}
	for _, text := range texts {
		update.Alternatives = append(update.Alternatives, &stt.Alternative{Text: text})
	}

	var res stt.StreamingResponse
	res.SetFinal(update)
	return &res
}

func partial(text string) *stt.StreamingResponse {
	var res stt.StreamingResponse
	res.SetPartial(&stt.AlternativeUpdate{
		Alternatives: []*stt.Alternative{{Text: text}},
	})
	return &res
}

func newRecording(stream *fakeStream) *recording {
	return &recording{stream: stream, cancel: func() {}}
}

func TestTranscribeJoinsFinalUtterances(t *testing.T) {
	t.Parallel()

	stream := &fakeStream{responses: []*stt.StreamingResponse{
		partial("ho"),
		final("hola", "ola"),
		partial("como"),
		final("  ", "cómo estás"),
		final(),
	}}
	y := &YandexSpeechKit{cfg: config.SpeechKit{Language: "es-ES", SampleRate: 16000}}

	audio := bytes.Repeat([]byte{1}, chunkSize*2+10)
	text, err := y.transcribe(newRecording(stream), audio)
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != "hola cómo estás" {
		t.Fatalf("text = %q", text)
	}

	if len(stream.sent) != 4 {
		t.Fatalf("sent %d requests, want options + 3 chunks", len(stream.sent))
	}

	opts := stream.sent[0].GetSessionOptions()
	if opts == nil || opts.GetRecognitionModel().GetAudioFormat().GetRawAudio().GetSampleRateHertz() != 16000 {
		t.Fatalf("first request is not session options: %v", stream.sent[0])
	}
	if got := opts.GetRecognitionModel().GetLanguageRestriction().GetLanguageCode(); len(got) != 1 || got[0] != "es-ES" {
		t.Fatalf("language = %v", got)
	}

	var uploaded int
	for _, req := range stream.sent[1:] {
		uploaded += len(req.GetChunk().GetData())
	}
	if uploaded != len(audio) || !stream.closed {
		t.Fatalf("uploaded %d of %d bytes, closed=%v", uploaded, len(audio), stream.closed)
	}
}

func TestTranscribeSilence(t *testing.T) {
	t.Parallel()

	stream := &fakeStream{responses: []*stt.StreamingResponse{partial("mmm")}}
	y := &YandexSpeechKit{cfg: config.SpeechKit{Language: "es-ES", SampleRate: 16000}}

	text, err := y.transcribe(newRecording(stream), []byte{0, 0})
	if err != nil || text != "" {
		t.Fatalf("transcribe = %q, %v", text, err)
	}
}

func TestTranscribeReceiveError(t *testing.T) {
	t.Parallel()

	broken := errors.New("stream reset")
	stream := &fakeStream{
		responses: []*stt.StreamingResponse{final("hola")},
		recvErr:   broken,
	}
	y := &YandexSpeechKit{cfg: config.SpeechKit{Language: "es-ES", SampleRate: 16000}}

	text, err := y.transcribe(newRecording(stream), []byte{1})
	if !errors.Is(err, broken) || text != "" {
		t.Fatalf("transcribe = %q, %v, want stream error and no text", text, err)
	}
}

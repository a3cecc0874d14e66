package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pulsett/app/service/engine"
	"pulsett/app/service/outbox"
	"pulsett/app/service/queue"
	"pulsett/app/service/reply"
)

type echoComposer struct{}

func (echoComposer) StartSession(userID string) reply.Reply {
	return reply.Reply{Text: "start:" + userID}
}

func (echoComposer) Compose(userID string, u reply.Utterance) reply.Reply {
	return reply.Reply{Text: string(u.Source) + ":" + u.Text, Rich: u.Source == reply.SourceTranscribed}
}

type staticHelper struct{}

func (staticHelper) Help() reply.Reply {
	return reply.Reply{Text: "help", Rich: true}
}

type stubTranscriber struct {
	text string
	err  error
	got  []byte
}

func (s *stubTranscriber) Transcribe(_ context.Context, audio []byte) (string, error) {
	s.got = audio
	return s.text, s.err
}

func newTestService(t *testing.T, speech Transcriber) (*Service, *outbox.Service) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	queueSvc := queue.NewService(8)
	go engine.NewService(echoComposer{}, queueSvc).Run(ctx)

	box := outbox.NewService()
	return NewService(":0", queueSvc, box, staticHelper{}, speech), box
}

func call(t *testing.T, svc *Service, method, path, body string) (int, replyResponse) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := svc.App().Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out replyResponse
	data, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(data, &out)

	return resp.StatusCode, out
}

func TestTypedMessage(t *testing.T) {
	svc, _ := newTestService(t, nil)

	code, out := call(t, svc, http.MethodPost, "/v1/users/u1/messages", `{"text":"hola"}`)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if out.Text != "typed:hola" || out.Rich {
		t.Fatalf("unexpected reply %+v", out)
	}
}

func TestTypedMessageRequiresText(t *testing.T) {
	svc, _ := newTestService(t, nil)

	if code, _ := call(t, svc, http.MethodPost, "/v1/users/u1/messages", `{"text":"   "}`); code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	if code, _ := call(t, svc, http.MethodPost, "/v1/users/u1/messages", `{not json`); code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
}

func TestOversizedVisionLabelRejected(t *testing.T) {
	svc, _ := newTestService(t, nil)

	body := `{"label":"` + strings.Repeat("x", 100) + `"}`
	if code, _ := call(t, svc, http.MethodPost, "/v1/users/u1/vision", body); code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
}

func TestStartAndVision(t *testing.T) {
	svc, _ := newTestService(t, nil)

	if _, out := call(t, svc, http.MethodPost, "/v1/users/u7/start", ""); out.Text != "start:u7" {
		t.Fatalf("start reply = %q", out.Text)
	}
	if _, out := call(t, svc, http.MethodPost, "/v1/users/u7/vision", `{"label":"happy"}`); out.Text != "vision:happy" {
		t.Fatalf("vision reply = %q", out.Text)
	}
}

func TestEmptyTranscriptIsAccepted(t *testing.T) {
	svc, _ := newTestService(t, nil)

	code, out := call(t, svc, http.MethodPost, "/v1/users/u1/transcripts", `{"text":""}`)
	if code != http.StatusOK || out.Text != "transcribed:" {
		t.Fatalf("status = %d reply = %+v", code, out)
	}
}

func TestVoiceTranscribes(t *testing.T) {
	speech := &stubTranscriber{text: "estoy bien"}
	svc, _ := newTestService(t, speech)

	req := httptest.NewRequest(http.MethodPost, "/v1/users/u1/voice", strings.NewReader("pcm-bytes"))
	req.Header.Set("Content-Type", "application/octet-stream")
	resp, err := svc.App().Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	var out replyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if string(speech.got) != "pcm-bytes" {
		t.Fatalf("transcriber got %q", speech.got)
	}
	if out.Text != "transcribed:estoy bien" || !out.Rich {
		t.Fatalf("unexpected reply %+v", out)
	}
}

func TestVoiceFailureYieldsEmptyTranscript(t *testing.T) {
	speech := &stubTranscriber{text: "partial", err: errors.New("stream broke")}
	svc, _ := newTestService(t, speech)

	code, out := call(t, svc, http.MethodPost, "/v1/users/u1/voice", "pcm")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if out.Text != "transcribed:" {
		t.Fatalf("partial transcript leaked into reply %q", out.Text)
	}

	code, out = call(t, svc, http.MethodPost, "/v1/users/u1/voice", "")
	if code != http.StatusOK || out.Text != "transcribed:" {
		t.Fatalf("empty body: status = %d reply = %q", code, out.Text)
	}
}

func TestHelp(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, out := call(t, svc, http.MethodGet, "/v1/help", "")
	if out.Text != "help" || !out.Rich {
		t.Fatalf("help = %+v", out)
	}
}

func TestOutboxDrains(t *testing.T) {
	svc, box := newTestService(t, nil)
	box.Notify("u1", reply.Reply{Text: "bye"})

	read := func() outboxResponse {
		req := httptest.NewRequest(http.MethodGet, "/v1/users/u1/outbox", nil)
		resp, err := svc.App().Test(req, -1)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		defer resp.Body.Close()

		var out outboxResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return out
	}

	if got := read(); len(got.Messages) != 1 || got.Messages[0].Text != "bye" {
		t.Fatalf("first read = %+v", got)
	}
	if got := read(); got.Messages == nil || len(got.Messages) != 0 {
		t.Fatalf("second read = %+v", got)
	}
}

func TestClosedQueueReturnsUnavailable(t *testing.T) {
	queueSvc := queue.NewService(1)
	_ = queueSvc.Shutdown()

	svc := NewService(":0", queueSvc, outbox.NewService(), staticHelper{}, nil)

	if code, _ := call(t, svc, http.MethodPost, "/v1/users/u1/messages", `{"text":"hola"}`); code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", code)
	}
}

package outbox

import (
	"fmt"
	"testing"

	"pulsett/app/service/reply"
)

func TestNotifyAndDrain(t *testing.T) {
	t.Parallel()

	s := NewService()
	s.Notify("u1", reply.Reply{Text: "chau", Rich: false})
	s.Notify("u1", reply.Reply{Text: "*hola*", Rich: true})

	if s.Pending("u1") != 2 {
		t.Fatalf("Pending=%d", s.Pending("u1"))
	}
	if s.Pending("u2") != 0 {
		t.Fatalf("other user must have no messages")
	}

	msgs := s.Drain("u1")
	if len(msgs) != 2 || msgs[0].Text != "chau" || !msgs[1].Rich {
		t.Fatalf("Drain=%+v", msgs)
	}
	if msgs := s.Drain("u1"); len(msgs) != 0 {
		t.Fatalf("second Drain=%+v, want empty", msgs)
	}
}

func TestHistoryIsBounded(t *testing.T) {
	t.Parallel()

	s := NewService()
	for i := 0; i < historySize+5; i++ {
		s.Notify("u1", reply.Reply{Text: fmt.Sprint(i)})
	}

	msgs := s.Drain("u1")
	if len(msgs) != historySize {
		t.Fatalf("len=%d, want %d", len(msgs), historySize)
	}
	if msgs[0].Text != "5" {
		t.Fatalf("oldest=%q, want 5", msgs[0].Text)
	}
}

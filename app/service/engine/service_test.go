package engine

import (
	"context"
	"sync"
	"testing"

	"pulsett/app/service/queue"
	"pulsett/app/service/reply"
)

type fakeComposer struct {
	mu     sync.Mutex
	active int
	max    int
	starts []string
}

func (c *fakeComposer) StartSession(userID string) reply.Reply {
	c.mu.Lock()
	c.starts = append(c.starts, userID)
	c.mu.Unlock()
	return reply.Reply{Text: "start"}
}

func (c *fakeComposer) Compose(userID string, u reply.Utterance) reply.Reply {
	c.mu.Lock()
	c.active++
	if c.active > c.max {
		c.max = c.active
	}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.active--
		c.mu.Unlock()
	}()

	return reply.Reply{Text: userID + ":" + u.Text}
}

func TestRunServesJobsSerially(t *testing.T) {
	t.Parallel()

	composer := &fakeComposer{}
	q := queue.NewService(64)
	svc := NewService(composer, q)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Run(ctx)

	got, err := q.Submit(ctx, queue.Job{Kind: queue.KindStart, UserID: "u1"})
	if err != nil || got.Text != "start" {
		t.Fatalf("start: %+v %v", got, err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := q.Submit(ctx, queue.Job{
				Kind:      queue.KindTurn,
				UserID:    "u1",
				Utterance: reply.Utterance{Text: "hola", Source: reply.SourceTyped},
			})
			if err != nil {
				t.Errorf("Submit: %v", err)
				return
			}
			if r.Text != "u1:hola" {
				t.Errorf("reply=%q", r.Text)
			}
		}()
	}
	wg.Wait()

	if composer.max != 1 {
		t.Fatalf("max concurrent composes=%d, want 1", composer.max)
	}
	if len(composer.starts) != 1 {
		t.Fatalf("starts=%v", composer.starts)
	}
}

func TestRunStopsWhenQueueCloses(t *testing.T) {
	t.Parallel()

	q := queue.NewService(1)
	svc := NewService(&fakeComposer{}, q)

	done := make(chan struct{})
	go func() {
		svc.Run(context.Background())
		close(done)
	}()

	_ = q.Shutdown()
	<-done
}

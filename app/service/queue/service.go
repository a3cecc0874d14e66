package queue

import (
	"context"
	"errors"
	"log/slog"

	"pulsett/app/config"
	"pulsett/app/service/reply"

	"github.com/samber/do"
)

var (
	ErrFull   = errors.New("message queue is full")
	ErrClosed = errors.New("message queue is closed")
)

var _ do.Shutdownable = (*Service)(nil)

type Kind string

const (
	KindTurn  Kind = "turn"
	KindStart Kind = "start"
)

type Job struct {
	Kind      Kind
	UserID    string
	Utterance reply.Utterance

	result chan reply.Reply
}

// Resolve hands the reply back to the submitter. It must be called once.
func (j *Job) Resolve(r reply.Reply) {
	j.result <- r
}

type Service struct {
	queue chan *Job
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewService(cfg.Queue.Size), nil
}

func NewService(size int) *Service {
	return &Service{
		queue: make(chan *Job, size),
	}
}

// Submit enqueues the job without blocking and waits for its reply.
func (s *Service) Submit(ctx context.Context, job Job) (r reply.Reply, err error) {
	job.result = make(chan reply.Reply, 1)

	if err = s.add(&job); err != nil {
		return reply.Reply{}, err
	}

	select {
	case r = <-job.result:
		return r, nil
	case <-ctx.Done():
		return reply.Reply{}, ctx.Err()
	}
}

func (s *Service) add(job *Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrClosed
		}
	}()

	select {
	case s.queue <- job:
		return nil
	default:
		slog.Warn("message queue is full", "user_id", job.UserID)
		return ErrFull
	}
}

func (s *Service) Channel() <-chan *Job {
	return s.queue
}

func (s *Service) Shutdown() error {
	close(s.queue)

	return nil
}

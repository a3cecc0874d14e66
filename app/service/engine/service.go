package engine

import (
	"context"
	"log/slog"
	"time"

	"pulsett/app/service/queue"
	"pulsett/app/service/reply"
	"pulsett/app/util/mylog"

	"github.com/samber/do"
)

// Composer is the part of the reply service the engine drives.
type Composer interface {
	StartSession(userID string) reply.Reply
	Compose(userID string, u reply.Utterance) reply.Reply
}

type Service struct {
	composer Composer
	queueSvc *queue.Service
}

func New(di *do.Injector) (*Service, error) {
	return NewService(
		do.MustInvoke[*reply.Service](di),
		do.MustInvoke[*queue.Service](di),
	), nil
}

func NewService(composer Composer, queueSvc *queue.Service) *Service {
	return &Service{
		composer: composer,
		queueSvc: queueSvc,
	}
}

// Run processes queued jobs one at a time, so turns of a user never overlap.
func (s *Service) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-s.queueSvc.Channel():
			if !ok {
				return
			}

			s.process(job)
		}
	}
}

func (s *Service) process(job *queue.Job) {
	start := time.Now()

	var r reply.Reply
	switch job.Kind {
	case queue.KindStart:
		r = s.composer.StartSession(job.UserID)
	default:
		r = s.composer.Compose(job.UserID, job.Utterance)
	}

	job.Resolve(r)

	slog.Info("Processed message",
		"user_id", job.UserID,
		"kind", job.Kind,
		"source", job.Utterance.Source,
		"reply", r.Text,
		"duration", time.Since(start),
		mylog.TelegramKey, true)
}

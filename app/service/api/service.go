package api

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"pulsett/app/client/speechkit"
	"pulsett/app/config"
	"pulsett/app/service/outbox"
	"pulsett/app/service/queue"
	"pulsett/app/service/reply"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do"
	"github.com/samber/oops"
)

const (
	turnTimeout   = 10 * time.Second
	speechTimeout = 30 * time.Second
	maxUserIDLen  = 128
	maxVoiceBytes = 4 << 20
)

// Transcriber is the speech collaborator.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

type Helper interface {
	Help() reply.Reply
}

type Service struct {
	addr     string
	app      *fiber.App
	queueSvc *queue.Service
	outbox   *outbox.Service
	helper   Helper
	speech   Transcriber
	validate *validator.Validate
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewService(
		cfg.HTTP.Addr,
		do.MustInvoke[*queue.Service](di),
		do.MustInvoke[*outbox.Service](di),
		do.MustInvoke[*reply.Service](di),
		do.MustInvoke[*speechkit.YandexSpeechKit](di),
	), nil
}

func NewService(addr string, queueSvc *queue.Service, outboxSvc *outbox.Service, helper Helper, speech Transcriber) *Service {
	s := &Service{
		addr:     addr,
		queueSvc: queueSvc,
		outbox:   outboxSvc,
		helper:   helper,
		speech:   speech,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "pulsett",
		BodyLimit:             maxVoiceBytes,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	v1 := s.app.Group("/v1")
	v1.Get("/help", s.handleHelp)

	users := v1.Group("/users/:user", s.requireUser)
	users.Post("/start", s.handleStart)
	users.Post("/messages", s.handleText(reply.SourceTyped))
	users.Post("/transcripts", s.handleText(reply.SourceTranscribed))
	users.Post("/voice", s.handleVoice)
	users.Post("/vision", s.handleVision)
	users.Get("/outbox", s.handleOutbox)

	return s
}

func (s *Service) App() *fiber.App {
	return s.app
}

// Run serves HTTP until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP API listening", "addr", s.addr)
		errCh <- s.app.Listen(s.addr)
	}()

	select {
	case <-ctx.Done():
		if err := s.app.ShutdownWithTimeout(5 * time.Second); err != nil {
			return oops.In("api").Wrapf(err, "failed to shut down HTTP server")
		}
		return nil
	case err := <-errCh:
		return oops.In("api").With("addr", s.addr).Wrapf(err, "HTTP server stopped")
	}
}

func (s *Service) requireUser(c *fiber.Ctx) error {
	user := strings.TrimSpace(c.Params("user"))
	if user == "" || len(user) > maxUserIDLen {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	c.Locals("user", user)
	return c.Next()
}

func userOf(c *fiber.Ctx) string {
	user, _ := c.Locals("user").(string)
	return user
}

func (s *Service) handleHelp(c *fiber.Ctx) error {
	return c.JSON(toResponse(s.helper.Help()))
}

func (s *Service) handleStart(c *fiber.Ctx) error {
	return s.submit(c, queue.Job{
		Kind:   queue.KindStart,
		UserID: userOf(c),
	})
}

func (s *Service) handleText(source reply.Source) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req textRequest
		if err := s.parse(c, &req); err != nil {
			return err
		}

		if source == reply.SourceTyped && strings.TrimSpace(req.Text) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "text is required")
		}

		return s.submit(c, queue.Job{
			Kind:      queue.KindTurn,
			UserID:    userOf(c),
			Utterance: reply.Utterance{Text: req.Text, Source: source},
		})
	}
}

func (s *Service) handleVision(c *fiber.Ctx) error {
	var req visionRequest
	if err := s.parse(c, &req); err != nil {
		return err
	}

	return s.submit(c, queue.Job{
		Kind:      queue.KindTurn,
		UserID:    userOf(c),
		Utterance: reply.Utterance{Text: req.Label, Source: reply.SourceVision},
	})
}

func (s *Service) handleVoice(c *fiber.Ctx) error {
	audio := bytes.Clone(c.Body())
	user := userOf(c)

	var text string
	if len(audio) > 0 && s.speech != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), speechTimeout)
		defer cancel()

		transcript, err := s.speech.Transcribe(ctx, audio)
		if err != nil {
			slog.Warn("Transcription failed", "user_id", user, "error", err)
		} else {
			text = transcript
		}
	}

	return s.submit(c, queue.Job{
		Kind:      queue.KindTurn,
		UserID:    user,
		Utterance: reply.Utterance{Text: text, Source: reply.SourceTranscribed},
	})
}

func (s *Service) handleOutbox(c *fiber.Ctx) error {
	messages := s.outbox.Drain(userOf(c))
	if messages == nil {
		messages = []outbox.Message{}
	}

	return c.JSON(outboxResponse{Messages: messages})
}

func (s *Service) parse(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return nil
}

func (s *Service) submit(c *fiber.Ctx, job queue.Job) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), turnTimeout)
	defer cancel()

	r, err := s.queueSvc.Submit(ctx, job)
	switch {
	case err == nil:
		return c.JSON(toResponse(r))
	case errors.Is(err, queue.ErrFull), errors.Is(err, queue.ErrClosed):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(fiber.StatusGatewayTimeout, "reply timed out")
	default:
		return oops.In("api").With("user_id", job.UserID).Wrap(err)
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	if code >= fiber.StatusInternalServerError {
		slog.Error("Request failed",
			"path", c.Path(),
			"status", code,
			"error", err,
		)
	}

	return c.Status(code).JSON(errorResponse{Error: err.Error()})
}

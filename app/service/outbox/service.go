package outbox

import (
	"log/slog"
	"sync"
	"time"

	"pulsett/app/service/reply"
	"pulsett/app/util/mylog"

	"github.com/samber/do"
)

// Service buffers replies the engine produces on its own, such as the
// inactivity farewell, until the transport collects them.
type Service struct {
	mu    sync.Mutex
	boxes map[string]*history
	now   func() time.Time
}

func New(_ *do.Injector) (*Service, error) {
	return NewService(), nil
}

func NewService() *Service {
	return &Service{
		boxes: make(map[string]*history),
		now:   time.Now,
	}
}

func (s *Service) Notify(userID string, r reply.Reply) {
	s.mu.Lock()
	box, ok := s.boxes[userID]
	if !ok {
		box = &history{}
		s.boxes[userID] = box
	}
	box.add(r, s.now())
	s.mu.Unlock()

	slog.Info("Queued unsolicited reply",
		"user_id", userID,
		"text", r.Text,
		mylog.TelegramKey, true)
}

// Drain returns and forgets the pending messages of the user.
func (s *Service) Drain(userID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	box, ok := s.boxes[userID]
	if !ok {
		return nil
	}

	delete(s.boxes, userID)
	return box.drain()
}

func (s *Service) Pending(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if box, ok := s.boxes[userID]; ok {
		return len(box.messages)
	}
	return 0
}

package session

import (
	"log/slog"
	"sync"
	"time"

	"pulsett/app/config"

	"github.com/google/uuid"
	"github.com/samber/do"
)

var _ do.Shutdownable = (*Store)(nil)

type Option func(*Store)

func WithScheduler(scheduler Scheduler) Option {
	return func(s *Store) {
		s.scheduler = scheduler
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithResetOnActivity restarts a pending inactivity timer on every turn.
func WithResetOnActivity(reset bool) Option {
	return func(s *Store) {
		s.resetOnActivity = reset
	}
}

// Store keeps session state per user. Different users may be accessed
// concurrently; a single user is expected to have one writer at a time.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	scheduler       Scheduler
	now             func() time.Time
	timeout         time.Duration
	resetOnActivity bool
}

func New(di *do.Injector) (*Store, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewStore(cfg.Session.InactivityTimeout,
		WithResetOnActivity(cfg.Session.ResetTimerOnActivity),
	), nil
}

func NewStore(timeout time.Duration, opts ...Option) *Store {
	s := &Store{
		sessions:  make(map[string]*entry),
		scheduler: wallScheduler{},
		now:       time.Now,
		timeout:   timeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Store) Get(userID string) (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[userID]
	if !ok {
		return State{}, false
	}
	return e.state, true
}

// Start opens a fresh session for the user and schedules the one-shot
// inactivity timer. onTimeout runs if the timer fires while the session is
// still active.
func (s *Store) Start(userID string, onTimeout func(State)) State {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.sessions[userID]; ok && prev.timer != nil {
		prev.timer.Stop()
	}

	e := &entry{
		state: State{
			ID:        uuid.NewString(),
			UserID:    userID,
			LastTone:  NoTone,
			Active:    true,
			StartedAt: now,
			UpdatedAt: now,
		},
		onTimeout: onTimeout,
	}
	s.schedule(userID, e)
	s.sessions[userID] = e

	slog.Debug("Session started",
		"user_id", userID,
		"session_id", e.state.ID,
		"timeout", s.timeout,
	)

	return e.state
}

// Record stores the tone of the latest turn and marks the session active.
// A session is created implicitly on the first turn.
func (s *Store) Record(userID string, tone Tone) State {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[userID]
	if !ok {
		e = &entry{
			state: State{
				ID:        uuid.NewString(),
				UserID:    userID,
				StartedAt: now,
			},
		}
		s.sessions[userID] = e
	}

	e.state.LastTone = tone
	e.state.Active = true
	e.state.UpdatedAt = now

	if s.resetOnActivity && e.timer != nil && e.timer.Stop() {
		s.schedule(userID, e)
	}

	return e.state
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}

// schedule arms a new timer for e. Callers hold s.mu.
func (s *Store) schedule(userID string, e *entry) {
	e.timerGen++
	sessionID, gen := e.state.ID, e.timerGen

	e.timer = s.scheduler.AfterFunc(s.timeout, func() {
		s.expire(userID, sessionID, gen)
	})
}

// expire only acts for the timer instance that is still armed for the session.
func (s *Store) expire(userID, sessionID string, gen uint64) {
	s.mu.Lock()
	e, ok := s.sessions[userID]
	if !ok || e.state.ID != sessionID || e.timer == nil || e.timerGen != gen || !e.state.Active {
		s.mu.Unlock()
		return
	}

	e.state.Active = false
	e.state.UpdatedAt = s.now()
	e.timer = nil
	state := e.state
	onTimeout := e.onTimeout
	s.mu.Unlock()

	slog.Debug("Session expired", "user_id", userID, "session_id", sessionID)

	if onTimeout != nil {
		onTimeout(state)
	}
}

func (s *Store) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.sessions {
		if e.timer != nil {
			e.timer.Stop()
			e.timer = nil
		}
	}

	return nil
}

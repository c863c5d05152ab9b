// Package timer runs the background supervisor that watches open bar
// sessions and deals with drinks left sitting on the bench.
package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/ottobar/internal/domain"
	"github.com/hammamikhairi/ottobar/internal/drink"
	"github.com/hammamikhairi/ottobar/internal/logger"
)

// Abandoner closes a session. The engine satisfies it.
type Abandoner interface {
	Abandon(ctx context.Context, sessionID string) error
}

// Option configures the supervisor.
type Option func(*Supervisor)

// WithTickInterval sets how often the supervisor checks sessions.
func WithTickInterval(d time.Duration) Option {
	return func(s *Supervisor) {
		s.tickInterval = d
	}
}

// WithMeltAfter sets how long an iced drink may sit untouched before the
// user is told the ice is melting. Zero disables the warning.
func WithMeltAfter(d time.Duration) Option {
	return func(s *Supervisor) {
		s.meltAfter = d
	}
}

// WithIdleTimeout sets how long a session may sit untouched before it is
// abandoned. Zero disables expiry.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Supervisor) {
		s.idleTimeout = d
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Supervisor) {
		s.now = now
	}
}

// Supervisor runs in the background, warns about melting ice and expires
// idle sessions. Sessions with a playback running are never idle.
type Supervisor struct {
	store        domain.SessionStore
	sessions     Abandoner
	notifier     domain.Notifier
	log          *logger.Logger
	now          func() time.Time
	tickInterval time.Duration
	meltAfter    time.Duration
	idleTimeout  time.Duration

	// warned remembers the UpdatedAt each session was warned at, so a
	// warning is sent once per idle stretch.
	warned map[string]time.Time

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// New creates a session supervisor with the given dependencies and options.
func New(store domain.SessionStore, sessions Abandoner, notifier domain.Notifier, log *logger.Logger, opts ...Option) *Supervisor {
	s := &Supervisor{
		store:        store,
		sessions:     sessions,
		notifier:     notifier,
		log:          log,
		now:          time.Now,
		tickInterval: 5 * time.Second,
		meltAfter:    3 * time.Minute,
		idleTimeout:  30 * time.Minute,
		warned:       make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the background supervisor loop. Non-blocking.
func (s *Supervisor) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("session supervisor already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	go s.loop(childCtx)

	s.log.Info("session supervisor started (tick=%s, melt=%s, idle=%s)", s.tickInterval, s.meltAfter, s.idleTimeout)
}

// Stop shuts down the supervisor.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.running = false
	s.log.Info("session supervisor stopped")
}

func (s *Supervisor) loop(ctx context.Context) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick runs one cycle over every active session.
func (s *Supervisor) tick(ctx context.Context) {
	sessions, err := s.store.ListActive(ctx)
	if err != nil {
		s.log.Error("supervisor: listing active sessions: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(sessions))
	for _, session := range sessions {
		seen[session.ID] = true
		s.processSession(ctx, session)
	}
	for id := range s.warned {
		if !seen[id] {
			delete(s.warned, id)
		}
	}
}

func (s *Supervisor) processSession(ctx context.Context, session *domain.Session) {
	if session.Playing {
		return
	}
	idle := s.now().Sub(session.UpdatedAt)

	if s.idleTimeout > 0 && idle >= s.idleTimeout {
		s.log.Info("supervisor: session %s idle for %s, abandoning", session.ID, idle.Round(time.Second))
		if err := s.sessions.Abandon(ctx, session.ID); err != nil {
			s.log.Error("supervisor: abandoning session %s: %v", session.ID, err)
			return
		}
		delete(s.warned, session.ID)
		if err := s.notifier.Notify(ctx, "这杯酒放得太久，已经倒掉了。"); err != nil {
			s.log.Error("supervisor: idle notify: %v", err)
		}
		return
	}

	d := session.Drink
	if s.meltAfter <= 0 || !d.Ice || d.CurrentVolume == 0 || idle < s.meltAfter {
		return
	}
	if at, ok := s.warned[session.ID]; ok && at.Equal(session.UpdatedAt) {
		return
	}

	s.warned[session.ID] = session.UpdatedAt
	msg := fmt.Sprintf("冰块在融化：%sml 的酒已经放了 %s。", drink.FormatAmount(d.CurrentVolume), formatIdle(idle))
	if err := s.notifier.NotifyUrgent(ctx, msg); err != nil {
		s.log.Error("supervisor: melt notify: %v", err)
	}
}

// formatIdle rounds to whole minutes once past one minute.
func formatIdle(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%d 秒", int(d.Seconds()))
	}
	return fmt.Sprintf("%d 分钟", int((d+30*time.Second)/time.Minute))
}

package session

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/limbo/habitboard/internal/repository"
	"github.com/limbo/habitboard/pkg/dates"
)

// Deps carries everything a session needs to reach the outside world.
type Deps struct {
	Boards  repository.BoardsRepositoryI
	Members repository.MembersRepositoryI
	Habits  repository.HabitsRepositoryI
	Entries repository.EntriesRepositoryI
	Prefs   PrefsStore
	Metrics MetricsRecorder
}

// Manager owns one Session per authenticated identity.
type Manager struct {
	mu       sync.Mutex
	deps     Deps
	sessions map[uuid.UUID]*Session
}

func NewManager(deps Deps) *Manager {
	if deps.Boards == nil || deps.Members == nil || deps.Habits == nil || deps.Entries == nil || deps.Prefs == nil {
		log.Fatal("provided nil session dependencies")
	}
	if deps.Metrics == nil {
		deps.Metrics = noopMetrics{}
	}
	return &Manager{
		deps:     deps,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Session returns the identity's session, creating it on first use. A
// fresh session starts on a week-long window ending today, restores the
// archived-habits preference and tries to resume the remembered board;
// a failed resume leaves the session disconnected without error.
func (m *Manager) Session(ctx context.Context, identity uuid.UUID) *Session {
	m.mu.Lock()
	s, ok := m.sessions[identity]
	if !ok {
		s = &Session{
			identity:     identity,
			boards:       m.deps.Boards,
			members:      m.deps.Members,
			habits:       m.deps.Habits,
			entries:      m.deps.Entries,
			prefs:        m.deps.Prefs,
			metrics:      m.deps.Metrics,
			window:       dates.EndingToday(dates.DefaultDays),
			showArchived: m.deps.Prefs.ShowArchived(identity),
		}
		m.sessions[identity] = s
	}
	m.mu.Unlock()
	if !ok {
		if _, err := s.Resume(ctx); err != nil {
			log.Println("session resume failed: " + err.Error())
		}
	}
	return s
}

// Drop forgets an identity's session, e.g. on identity loss.
func (m *Manager) Drop(identity uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, identity)
}

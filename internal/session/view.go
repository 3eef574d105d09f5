package session

import (
	"github.com/limbo/habitboard/pkg/entity"
)

// View is a point-in-time copy of the session snapshot, safe to hold and
// encode after the session moves on.
type View struct {
	Status       string          `json:"status"`
	Board        *entity.Board   `json:"board,omitempty"`
	Member       *entity.Member  `json:"member,omitempty"`
	Members      []entity.Member `json:"members"`
	Habits       []entity.Habit  `json:"habits"`
	Entries      []string        `json:"entries"`
	Dates        []string        `json:"dates"`
	Labels       []string        `json:"labels"`
	ShowArchived bool            `json:"show_archived"`
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Status:       s.status.String(),
		Members:      make([]entity.Member, 0, len(s.registry.All())),
		Habits:       make([]entity.Habit, 0, len(s.catalog.All())),
		Entries:      s.ledger.Keys(),
		Dates:        s.window.Sequence(),
		Labels:       s.window.Labels(),
		ShowArchived: s.showArchived,
	}
	if s.board != nil {
		board := *s.board
		v.Board = &board
	}
	if s.member != nil {
		member := *s.member
		v.Member = &member
	}
	for _, m := range s.registry.All() {
		v.Members = append(v.Members, *m)
	}
	for _, h := range s.catalog.All() {
		v.Habits = append(v.Habits, *h)
	}
	return v
}

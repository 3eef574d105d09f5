package entity

import (
	"time"

	"github.com/google/uuid"
)

type Board struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	OwnerID uuid.UUID `json:"owner_id"`
}

type Member struct {
	ID        uuid.UUID `json:"id"`
	BoardID   uuid.UUID `json:"board_id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

type Habit struct {
	ID         uuid.UUID  `json:"id"`
	BoardID    uuid.UUID  `json:"board_id"`
	MemberID   uuid.UUID  `json:"member_id"`
	Title      string     `json:"title"`
	OrderIndex int64      `json:"order_index"`
	Archived   bool       `json:"archived"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Entry marks a habit as done on a calendar date. Presence of the row is
// the whole contract, there is no "undone" state to store.
type Entry struct {
	ID      uuid.UUID `json:"id"`
	BoardID uuid.UUID `json:"board_id"`
	HabitID uuid.UUID `json:"habit_id"`
	Date    string    `json:"date"`
}

package session

import (
	"github.com/google/uuid"
	"github.com/limbo/habitboard/pkg/entity"
)

// Stateless authorization predicates. Every mutating session operation
// consults the relevant one before touching the store.

// CanRenameBoard allows only the board owner to rename it.
func CanRenameBoard(board *entity.Board, identity uuid.UUID) bool {
	return board != nil && identity != uuid.Nil && board.OwnerID == identity
}

// CanMutateHabit allows rename/reorder/archive/delete only to the member
// who owns the habit.
func CanMutateHabit(habit *entity.Habit, acting *entity.Member) bool {
	return habit != nil && acting != nil && habit.MemberID == acting.ID
}

// CanToggleEntry additionally refuses archived habits.
func CanToggleEntry(habit *entity.Habit, acting *entity.Member) bool {
	return CanMutateHabit(habit, acting) && !habit.Archived
}

// CanEditMember allows a member to edit only their own record.
func CanEditMember(target *entity.Member, acting *entity.Member) bool {
	return target != nil && acting != nil && target.ID == acting.ID
}

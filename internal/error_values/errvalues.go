package errorvalues

import "errors"

var (
	ErrAuthRequired     = errors.New("authentication required")
	ErrBoardNotFound    = errors.New("board not found or no access")
	ErrAlreadyMember    = errors.New("identity is already a member of this board")
	ErrMemberNotFound   = errors.New("member doesn't exist")
	ErrNotBoardMember   = errors.New("current identity is not a member of this board")
	ErrHabitNotFound    = errors.New("habit doesn't exist")
	ErrHabitArchived    = errors.New("archived habits can't be marked")
	ErrEntryExists      = errors.New("entry for this date already exists")
	ErrEntryNotFound    = errors.New("entry for this date doesn't exist")
	ErrPermissionDenied = errors.New("operation allowed only for the owning member")
	ErrValidation       = errors.New("validation failed")
	ErrEmptyTitle       = errors.New("title can't be empty")
	ErrEmptyName        = errors.New("name can't be empty")
	ErrDateOutOfWindow  = errors.New("date is outside the loaded window")
	ErrNotConnected     = errors.New("no board connected")
	ErrConfirmRequired  = errors.New("destructive operation requires confirmation")
	ErrReorderOutOfSync = errors.New("reorder incomplete, board resynchronized from store")
	ErrInvalidToken     = errors.New("invalid token")
)

// Package session implements the board state engine: one Session owns
// the in-memory snapshot of a connected board (members, habits, window
// entries) and applies the mutate-then-reload consistency discipline
// against the store.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitboard/internal/error_values"
	"github.com/limbo/habitboard/internal/repository"
	"github.com/limbo/habitboard/pkg/dates"
	"github.com/limbo/habitboard/pkg/entity"
	"golang.org/x/sync/errgroup"
)

type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Session is the explicit owned state of one client identity. All its
// operations serialize on the internal mutex: a session is one logical
// thread of control, concurrency exists only between sessions.
type Session struct {
	identity uuid.UUID

	boards  repository.BoardsRepositoryI
	members repository.MembersRepositoryI
	habits  repository.HabitsRepositoryI
	entries repository.EntriesRepositoryI
	prefs   PrefsStore
	metrics MetricsRecorder

	mu           sync.Mutex
	status       Status
	board        *entity.Board
	member       *entity.Member
	registry     MembershipRegistry
	catalog      HabitCatalog
	ledger       EntryLedger
	window       dates.Window
	showArchived bool
}

// Connect fetches the board, remembers it for session resumption and
// performs the initial full reload. A reload failure leaves the session
// connected with its prior (empty) snapshot and surfaces the error.
func (s *Session) Connect(ctx context.Context, boardID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectLocked(ctx, boardID)
}

func (s *Session) connectLocked(ctx context.Context, boardID uuid.UUID) error {
	if s.identity == uuid.Nil {
		return errorvalues.ErrAuthRequired
	}
	prev := s.status
	s.status = StatusConnecting
	board, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		s.status = prev
		if errors.Is(err, errorvalues.ErrBoardNotFound) {
			return err
		}
		return errors.New("boards repository error: " + err.Error())
	}
	s.board = board
	s.member = nil
	if err := s.prefs.SetBoardID(s.identity, boardID); err != nil {
		return errors.New("persisting board id error: " + err.Error())
	}
	s.status = StatusConnected
	return s.reloadLocked(ctx)
}

// Resume reconnects to the board remembered in the prefs store. It
// reports false when nothing is remembered.
func (s *Session) Resume(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	boardID, ok := s.prefs.BoardID(s.identity)
	if !ok {
		return false, nil
	}
	return true, s.connectLocked(ctx, boardID)
}

// CreateBoard writes the board with the current identity as owner, then
// the creator's member record, then connects. A member write failure
// after the board write is surfaced, not compensated: the board exists
// without its creator until a later join.
func (s *Session) CreateBoard(ctx context.Context, req CreateBoardRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == uuid.Nil {
		return errorvalues.ErrAuthRequired
	}
	if err := validate.Struct(req); err != nil {
		return errors.Join(errorvalues.ErrValidation, err)
	}
	boardID := uuid.New()
	err := s.boards.Create(ctx, &entity.Board{
		ID:      boardID,
		Name:    strings.TrimSpace(req.Name),
		OwnerID: s.identity,
	})
	if err != nil {
		return errors.New("boards repository error: " + err.Error())
	}
	err = s.members.Create(ctx, &entity.Member{
		ID:      uuid.New(),
		BoardID: boardID,
		UserID:  s.identity,
		Name:    strings.TrimSpace(req.DisplayName),
		Color:   PickColor(nil),
	})
	if err != nil {
		return errors.New("members repository error: " + err.Error())
	}
	s.metrics.RecordMutation("create_board")
	return s.connectLocked(ctx, boardID)
}

// Join writes a member record for the current identity and connects. An
// existing membership (store uniqueness violation) is success, not an
// error. A missing board (FK violation) is reported as such.
func (s *Session) Join(ctx context.Context, req JoinBoardRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == uuid.Nil {
		return errorvalues.ErrAuthRequired
	}
	if err := validate.Struct(req); err != nil {
		return errors.Join(errorvalues.ErrValidation, err)
	}
	existing, err := s.members.ListByBoard(ctx, req.BoardID)
	if err != nil {
		return errors.New("members repository error: " + err.Error())
	}
	err = s.members.Create(ctx, &entity.Member{
		ID:      uuid.New(),
		BoardID: req.BoardID,
		UserID:  s.identity,
		Name:    strings.TrimSpace(req.DisplayName),
		Color:   PickColor(existing),
	})
	switch {
	case err == nil, errors.Is(err, errorvalues.ErrAlreadyMember):
		// already a member flows into connect as success
	case errors.Is(err, errorvalues.ErrBoardNotFound):
		return err
	default:
		return errors.New("members repository error: " + err.Error())
	}
	s.metrics.RecordMutation("join_board")
	return s.connectLocked(ctx, req.BoardID)
}

// Reload re-derives the whole snapshot from three fresh reads. Any one
// failing fails the reload as a whole and leaves prior state untouched.
func (s *Session) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadLocked(ctx)
}

func (s *Session) reloadLocked(ctx context.Context) error {
	if s.board == nil {
		return errorvalues.ErrNotConnected
	}
	boardID := s.board.ID
	from, to := s.window.Bounds()

	var (
		members []*entity.Member
		habits  []*entity.Habit
		entries []entity.Entry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		members, err = s.members.ListByBoard(gctx, boardID)
		return err
	})
	g.Go(func() error {
		var err error
		habits, err = s.habits.ListByBoard(gctx, boardID, s.showArchived)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.entries.ListByBoardAndRange(gctx, boardID, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		s.metrics.RecordReloadFailure()
		return errors.New("board reload error: " + err.Error())
	}

	s.registry.Replace(members)
	s.catalog.Replace(habits)
	s.ledger.Replace(entries)
	s.member = s.registry.ByIdentity(s.identity)
	s.metrics.RecordReload()
	if s.member == nil {
		// The board stays viewable read-only.
		return errorvalues.ErrNotBoardMember
	}
	return nil
}

// RenameBoard is owner-only. Renaming to the current trimmed name is a
// no-op without a store write; on success the name is patched locally.
func (s *Session) RenameBoard(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board == nil {
		return errorvalues.ErrNotConnected
	}
	if !CanRenameBoard(s.board, s.identity) {
		return errorvalues.ErrPermissionDenied
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errorvalues.ErrEmptyName
	}
	if trimmed == s.board.Name {
		return nil
	}
	if err := s.boards.Rename(ctx, s.board.ID, trimmed); err != nil {
		if errors.Is(err, errorvalues.ErrBoardNotFound) {
			return err
		}
		return errors.New("boards repository error: " + err.Error())
	}
	s.metrics.RecordMutation("rename_board")
	s.board.Name = trimmed
	return nil
}

// AddHabit creates a habit owned by the current member. The sort key is
// the current time in milliseconds, so new habits land after everything
// created before without reading the current maximum.
func (s *Session) AddHabit(ctx context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board == nil {
		return errorvalues.ErrNotConnected
	}
	if s.member == nil {
		return errorvalues.ErrNotBoardMember
	}
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return errorvalues.ErrEmptyTitle
	}
	err := s.habits.Create(ctx, &entity.Habit{
		ID:         uuid.New(),
		BoardID:    s.board.ID,
		MemberID:   s.member.ID,
		Title:      trimmed,
		OrderIndex: time.Now().UnixMilli(),
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrMemberNotFound) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	s.metrics.RecordMutation("add_habit")
	return s.reloadLocked(ctx)
}

// RenameHabit patches the title locally on success instead of paying for
// a full reload, the next reload reconciles regardless.
func (s *Session) RenameHabit(ctx context.Context, habitID uuid.UUID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board == nil {
		return errorvalues.ErrNotConnected
	}
	habit := s.catalog.ByID(habitID)
	if habit == nil {
		return errorvalues.ErrHabitNotFound
	}
	if !CanMutateHabit(habit, s.member) {
		return errorvalues.ErrPermissionDenied
	}
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return errorvalues.ErrEmptyTitle
	}
	if trimmed == habit.Title {
		return nil
	}
	if err := s.habits.UpdateTitle(ctx, habitID, trimmed); err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	s.metrics.RecordMutation("rename_habit")
	s.catalog.PatchTitle(habitID, trimmed)
	return nil
}

// SetHabitArchived archives or restores a habit, stamping archived_at on
// archive and clearing it on restore.
func (s *Session) SetHabitArchived(ctx context.Context, habitID uuid.UUID, archived bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board == nil {
		return errorvalues.ErrNotConnected
	}
	habit := s.catalog.ByID(habitID)
	if habit == nil {
		return errorvalues.ErrHabitNotFound
	}
	if !CanMutateHabit(habit, s.member) {
		return errorvalues.ErrPermissionDenied
	}
	var archivedAt *time.Time
	if archived {
		now := time.Now()
		archivedAt = &now
	}
	if err := s.habits.SetArchived(ctx, habitID, archived, archivedAt); err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	s.metrics.RecordMutation("archive_habit")
	return s.reloadLocked(ctx)
}

// MoveHabit swaps sort keys with the adjacent habit of the same archived
// partition. The two writes are independent, there is no transaction
// spanning them: on partial failure the session reloads to whatever
// state the store reached and reports that a resync happened.
func (s *Session) MoveHabit(ctx context.Context, habitID uuid.UUID, dir Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board == nil {
		return errorvalues.ErrNotConnected
	}
	habit := s.catalog.ByID(habitID)
	if habit == nil {
		return errorvalues.ErrHabitNotFound
	}
	if !CanMutateHabit(habit, s.member) {
		return errorvalues.ErrPermissionDenied
	}
	target := s.catalog.Neighbor(habitID, dir)
	if target == nil {
		// boundary of the partition, nothing to swap with
		return nil
	}
	current, swapped := habit.OrderIndex, target.OrderIndex

	var g errgroup.Group
	g.Go(func() error {
		return s.habits.UpdateOrderIndex(ctx, habit.ID, swapped)
	})
	g.Go(func() error {
		return s.habits.UpdateOrderIndex(ctx, target.ID, current)
	})
	writeErr := g.Wait()
	reloadErr := s.reloadLocked(ctx)
	if writeErr != nil {
		return errors.Join(errorvalues.ErrReorderOutOfSync, writeErr)
	}
	s.metrics.RecordMutation("move_habit")
	return reloadErr
}

// DeleteHabit is destructive and demands the caller's explicit
// confirmation signal. Entries disappear with the habit only as far as
// the store's own referential constraints cascade.
func (s *Session) DeleteHabit(ctx context.Context, habitID uuid.UUID, confirmed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board == nil {
		return errorvalues.ErrNotConnected
	}
	habit := s.catalog.ByID(habitID)
	if habit == nil {
		return errorvalues.ErrHabitNotFound
	}
	if !CanMutateHabit(habit, s.member) {
		return errorvalues.ErrPermissionDenied
	}
	if !confirmed {
		return errorvalues.ErrConfirmRequired
	}
	if err := s.habits.Delete(ctx, habitID); err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	s.metrics.RecordMutation("delete_habit")
	return s.reloadLocked(ctx)
}

// ToggleEntry flips the completion mark for (habit, date). The local
// ledger is patched optimistically instead of reloading; a concurrent
// session racing the same pair surfaces as a conflict error from the
// store, never as silent loss.
func (s *Session) ToggleEntry(ctx context.Context, habitID uuid.UUID, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board == nil {
		return errorvalues.ErrNotConnected
	}
	habit := s.catalog.ByID(habitID)
	if habit == nil {
		return errorvalues.ErrHabitNotFound
	}
	if !CanToggleEntry(habit, s.member) {
		if habit.Archived && CanMutateHabit(habit, s.member) {
			return errorvalues.ErrHabitArchived
		}
		return errorvalues.ErrPermissionDenied
	}
	if !s.window.Contains(date) {
		return errorvalues.ErrDateOutOfWindow
	}

	if s.ledger.Has(habitID, date) {
		err := s.entries.Delete(ctx, s.board.ID, habitID, date)
		if err != nil {
			if errors.Is(err, errorvalues.ErrEntryNotFound) {
				s.metrics.RecordToggleConflict()
				return err
			}
			return errors.New("entries repository error: " + err.Error())
		}
		s.ledger.Unmark(habitID, date)
	} else {
		err := s.entries.Create(ctx, &entity.Entry{
			ID:      uuid.New(),
			BoardID: s.board.ID,
			HabitID: habitID,
			Date:    date,
		})
		if err != nil {
			if errors.Is(err, errorvalues.ErrEntryExists) {
				s.metrics.RecordToggleConflict()
				return err
			}
			if errors.Is(err, errorvalues.ErrHabitNotFound) {
				return err
			}
			return errors.New("entries repository error: " + err.Error())
		}
		s.ledger.Mark(habitID, date)
	}
	s.metrics.RecordMutation("toggle_entry")
	return nil
}

// UpdateMember edits the caller's own member record and patches the
// registry locally on success. Equal-value edits skip the store.
func (s *Session) UpdateMember(ctx context.Context, memberID uuid.UUID, upd MemberUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board == nil {
		return errorvalues.ErrNotConnected
	}
	target := s.registry.ByID(memberID)
	if target == nil {
		return errorvalues.ErrMemberNotFound
	}
	if !CanEditMember(target, s.member) {
		return errorvalues.ErrPermissionDenied
	}
	name, color := target.Name, target.Color
	if upd.Name != nil {
		name = strings.TrimSpace(*upd.Name)
		if name == "" {
			return errorvalues.ErrEmptyName
		}
	}
	if upd.Color != nil {
		color = *upd.Color
	}
	if name == target.Name && color == target.Color {
		return nil
	}
	if err := s.members.Update(ctx, memberID, name, color); err != nil {
		if errors.Is(err, errorvalues.ErrMemberNotFound) {
			return err
		}
		return errors.New("members repository error: " + err.Error())
	}
	s.metrics.RecordMutation("update_member")
	s.registry.Patch(memberID, name, color)
	return nil
}

// ShiftWindow pages the window by days and reloads the entries it now
// covers. The window moves even when the reload fails.
func (s *Session) ShiftWindow(ctx context.Context, days int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window = s.window.Shift(days)
	if s.board == nil {
		return nil
	}
	return s.reloadLocked(ctx)
}

// ResetWindow snaps the window back to one ending today.
func (s *Session) ResetWindow(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window = s.window.Reset()
	if s.board == nil {
		return nil
	}
	return s.reloadLocked(ctx)
}

// SetShowArchived persists the filter preference and reloads with the
// corresponding server-side habits filter.
func (s *Session) SetShowArchived(ctx context.Context, show bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showArchived = show
	if err := s.prefs.SetShowArchived(s.identity, show); err != nil {
		return errors.New("persisting prefs error: " + err.Error())
	}
	if s.board == nil {
		return nil
	}
	return s.reloadLocked(ctx)
}

// Disconnect forgets the board and clears the remembered board id.
func (s *Session) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board = nil
	s.member = nil
	s.registry.Replace(nil)
	s.catalog.Replace(nil)
	s.ledger.Replace(nil)
	s.status = StatusDisconnected
	if err := s.prefs.ClearBoardID(s.identity); err != nil {
		return errors.New("clearing prefs error: " + err.Error())
	}
	return nil
}

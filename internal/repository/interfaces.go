package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/limbo/habitboard/pkg/entity"
)

type BoardsRepositoryI interface {
	// Creates new board row
	Create(ctx context.Context, board *entity.Board) error
	// Looks up board by id. Not-found and not-permitted are one condition,
	// the store's access policy decides which is which
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Board, error)
	// Renames board by id
	Rename(ctx context.Context, id uuid.UUID, name string) error
}

type MembersRepositoryI interface {
	// Creates new member row. Uniqueness of (board_id, user_id) is enforced
	// by the store
	Create(ctx context.Context, member *entity.Member) error
	// Lists every member of a board
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*entity.Member, error)
	// Updates member's display name and color
	Update(ctx context.Context, id uuid.UUID, name, color string) error
}

type HabitsRepositoryI interface {
	// Creates new habit row. ID, BoardID, MemberID, Title, OrderIndex are necessary
	Create(ctx context.Context, habit *entity.Habit) error
	// Lists habits of a board ordered by order_index ascending, optionally
	// filtered to non-archived server-side
	ListByBoard(ctx context.Context, boardID uuid.UUID, includeArchived bool) ([]*entity.Habit, error)
	// Updates habit's title
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) error
	// Sets archived flag together with the archive timestamp (nil on restore)
	SetArchived(ctx context.Context, id uuid.UUID, archived bool, archivedAt *time.Time) error
	// Rewrites habit's manual sort key
	UpdateOrderIndex(ctx context.Context, id uuid.UUID, orderIndex int64) error
	// Deletes habit with id. Entries cascade per the store's FK policy
	Delete(ctx context.Context, id uuid.UUID) error
}

type EntriesRepositoryI interface {
	// Creates a completion mark for (habit, date)
	Create(ctx context.Context, entry *entity.Entry) error
	// Deletes the mark keyed by (board, habit, date)
	Delete(ctx context.Context, boardID, habitID uuid.UUID, date string) error
	// Lists marks of a board with date in [from, to] inclusive
	ListByBoardAndRange(ctx context.Context, boardID uuid.UUID, from, to string) ([]entity.Entry, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}

package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/limbo/habitboard/internal/error_values"
	"github.com/limbo/habitboard/pkg/cleanup"
	"github.com/limbo/habitboard/pkg/entity"
)

type HabitsRepository struct {
	conn PgConnection
}

func NewHabitsRepo(cfg DBConfig) *HabitsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for habitsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for habitsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &HabitsRepository{
		conn: pool,
	}
}

func NewHabitsRepoWithConn(conn PgConnection) *HabitsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for habitsRepo: " + err.Error())
	}
	return &HabitsRepository{
		conn: conn,
	}
}

func (hr *HabitsRepository) Create(ctx context.Context, habit *entity.Habit) error {
	if habit == nil {
		return errors.New("habit is nil")
	}
	_, err := hr.conn.Exec(ctx, `INSERT INTO habits (id, board_id, member_id, title, order_index) VALUES ($1, $2, $3, $4, $5);`,
		habit.ID,
		habit.BoardID,
		habit.MemberID,
		habit.Title,
		habit.OrderIndex,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation: board or owning member is gone
			case "23503":
				return errorvalues.ErrMemberNotFound
			}
		}
		return errors.New("creating habit db error: " + err.Error())
	}
	return nil
}

func (hr *HabitsRepository) ListByBoard(ctx context.Context, boardID uuid.UUID, includeArchived bool) ([]*entity.Habit, error) {
	query := `SELECT id, board_id, member_id, title, order_index, archived, archived_at, created_at
		FROM habits WHERE board_id = $1 ORDER BY order_index ASC;`
	if !includeArchived {
		query = `SELECT id, board_id, member_id, title, order_index, archived, archived_at, created_at
		FROM habits WHERE board_id = $1 AND archived = FALSE ORDER BY order_index ASC;`
	}
	habits := make([]*entity.Habit, 0)
	rows, err := hr.conn.Query(ctx, query, boardID)
	if err != nil {
		return nil, errors.New("getting habits by board error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		h := entity.Habit{}
		err = rows.Scan(&h.ID, &h.BoardID, &h.MemberID, &h.Title, &h.OrderIndex, &h.Archived, &h.ArchivedAt, &h.CreatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling habit error: " + err.Error())
		}
		habits = append(habits, &h)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning habits: " + rows.Err().Error())
	}
	return habits, nil
}

func (hr *HabitsRepository) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	ct, err := hr.conn.Exec(ctx, `UPDATE habits SET title = $1 WHERE id = $2;`, title, id)
	if err != nil {
		return errors.New("error updating habit title: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) SetArchived(ctx context.Context, id uuid.UUID, archived bool, archivedAt *time.Time) error {
	ct, err := hr.conn.Exec(ctx, `UPDATE habits SET archived = $1, archived_at = $2 WHERE id = $3;`,
		archived, archivedAt, id,
	)
	if err != nil {
		return errors.New("error archiving habit: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) UpdateOrderIndex(ctx context.Context, id uuid.UUID, orderIndex int64) error {
	ct, err := hr.conn.Exec(ctx, `UPDATE habits SET order_index = $1 WHERE id = $2;`, orderIndex, id)
	if err != nil {
		return errors.New("error updating habit order: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := hr.conn.Exec(ctx, `DELETE FROM habits WHERE id = $1;`, id)
	if err != nil {
		return errors.New("error deleting habit: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/limbo/habitboard/internal/error_values"
	"github.com/limbo/habitboard/pkg/cleanup"
	"github.com/limbo/habitboard/pkg/entity"
)

type EntriesRepository struct {
	conn PgConnection
}

func NewEntriesRepo(cfg DBConfig) *EntriesRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for entriesRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for entriesRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &EntriesRepository{
		conn: pool,
	}
}

func NewEntriesRepoWithConn(conn PgConnection) *EntriesRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for entriesRepo: " + err.Error())
	}
	return &EntriesRepository{
		conn: conn,
	}
}

func (er *EntriesRepository) Create(ctx context.Context, entry *entity.Entry) error {
	if entry == nil {
		return errors.New("entry is nil")
	}
	_, err := er.conn.Exec(ctx, `INSERT INTO entries (id, board_id, habit_id, date) VALUES ($1, $2, $3, $4);`,
		entry.ID,
		entry.BoardID,
		entry.HabitID,
		entry.Date,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation on (habit_id, date): another session won the race
			case "23505":
				return errorvalues.ErrEntryExists
			// FK violation: the habit is gone
			case "23503":
				return errorvalues.ErrHabitNotFound
			}
		}
		return errors.New("creating entry db error: " + err.Error())
	}
	return nil
}

func (er *EntriesRepository) Delete(ctx context.Context, boardID, habitID uuid.UUID, date string) error {
	ct, err := er.conn.Exec(ctx, `DELETE FROM entries WHERE board_id = $1 AND habit_id = $2 AND date = $3;`,
		boardID,
		habitID,
		date,
	)
	if err != nil {
		return errors.New("deleting entry error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrEntryNotFound
	}
	return nil
}

func (er *EntriesRepository) ListByBoardAndRange(ctx context.Context, boardID uuid.UUID, from, to string) ([]entity.Entry, error) {
	rows, err := er.conn.Query(ctx, `SELECT id, board_id, habit_id, to_char(date, 'YYYY-MM-DD')
		FROM entries WHERE board_id = $1 AND date >= $2 AND date <= $3;`,
		boardID,
		from,
		to,
	)
	if err != nil {
		return nil, errors.New("getting entries for window error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.Entry, 0)
	for rows.Next() {
		entry := entity.Entry{}
		err = rows.Scan(&entry.ID, &entry.BoardID, &entry.HabitID, &entry.Date)
		if err != nil {
			return nil, errors.New("entry row parsing error: " + err.Error())
		}
		result = append(result, entry)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected entry rows error: " + rows.Err().Error())
	}
	return result, nil
}

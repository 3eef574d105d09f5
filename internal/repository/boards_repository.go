package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/limbo/habitboard/internal/error_values"
	"github.com/limbo/habitboard/pkg/cleanup"
	"github.com/limbo/habitboard/pkg/entity"
)

type BoardsRepository struct {
	conn PgConnection
}

func NewBoardsRepo(cfg DBConfig) *BoardsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for boardsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for boardsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &BoardsRepository{
		conn: pool,
	}
}

func NewBoardsRepoWithConn(conn PgConnection) *BoardsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for boardsRepo: " + err.Error())
	}
	return &BoardsRepository{
		conn: conn,
	}
}

func (br *BoardsRepository) Create(ctx context.Context, board *entity.Board) error {
	if board == nil {
		return errors.New("board is nil")
	}
	_, err := br.conn.Exec(ctx, `INSERT INTO boards (id, name, owner_id) VALUES ($1, $2, $3);`,
		board.ID,
		board.Name,
		board.OwnerID,
	)
	if err != nil {
		return errors.New("creating board db error: " + err.Error())
	}
	return nil
}

func (br *BoardsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Board, error) {
	var board entity.Board
	board.ID = id
	row := br.conn.QueryRow(ctx, `SELECT name, owner_id FROM boards WHERE id = $1;`, id)
	if err := row.Scan(&board.Name, &board.OwnerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Row-level access policy makes "denied" look like "missing",
			// the caller can't tell them apart either way.
			return nil, errorvalues.ErrBoardNotFound
		}
		return nil, errors.New("getting board by id error: " + err.Error())
	}
	return &board, nil
}

func (br *BoardsRepository) Rename(ctx context.Context, id uuid.UUID, name string) error {
	ct, err := br.conn.Exec(ctx, `UPDATE boards SET name = $1 WHERE id = $2;`, name, id)
	if err != nil {
		return errors.New("renaming board error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrBoardNotFound
	}
	return nil
}

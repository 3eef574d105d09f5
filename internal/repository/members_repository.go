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

type MembersRepository struct {
	conn PgConnection
}

func NewMembersRepo(cfg DBConfig) *MembersRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for membersRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for membersRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &MembersRepository{
		conn: pool,
	}
}

func NewMembersRepoWithConn(conn PgConnection) *MembersRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for membersRepo: " + err.Error())
	}
	return &MembersRepository{
		conn: conn,
	}
}

func (mr *MembersRepository) Create(ctx context.Context, member *entity.Member) error {
	if member == nil {
		return errors.New("member is nil")
	}
	_, err := mr.conn.Exec(ctx, `INSERT INTO members (id, board_id, user_id, name, color) VALUES ($1, $2, $3, $4, $5);`,
		member.ID,
		member.BoardID,
		member.UserID,
		member.Name,
		member.Color,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation on (board_id, user_id)
			case "23505":
				return errorvalues.ErrAlreadyMember
			// FK violation: the board doesn't exist
			case "23503":
				return errorvalues.ErrBoardNotFound
			}
		}
		return errors.New("creating member db error: " + err.Error())
	}
	return nil
}

func (mr *MembersRepository) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*entity.Member, error) {
	members := make([]*entity.Member, 0)
	rows, err := mr.conn.Query(ctx, `SELECT id, board_id, user_id, name, color, created_at
		FROM members WHERE board_id = $1;`, boardID)
	if err != nil {
		return nil, errors.New("getting members by board error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		m := entity.Member{}
		err = rows.Scan(&m.ID, &m.BoardID, &m.UserID, &m.Name, &m.Color, &m.CreatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling member error: " + err.Error())
		}
		members = append(members, &m)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning members: " + rows.Err().Error())
	}
	return members, nil
}

func (mr *MembersRepository) Update(ctx context.Context, id uuid.UUID, name, color string) error {
	ct, err := mr.conn.Exec(ctx, `UPDATE members SET name = $1, color = $2 WHERE id = $3;`,
		name, color, id,
	)
	if err != nil {
		return errors.New("error updating member: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrMemberNotFound
	}
	return nil
}

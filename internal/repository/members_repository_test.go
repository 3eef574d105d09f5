package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/limbo/habitboard/internal/error_values"
	"github.com/limbo/habitboard/internal/repository"
	"github.com/limbo/habitboard/pkg/entity"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
)

func TestCreateMember(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewMembersRepoWithConn(mock)
	member := entity.Member{
		ID:      uuid.New(),
		BoardID: uuid.New(),
		UserID:  uuid.New(),
		Name:    "alice",
		Color:   "#2a9d8f",
	}
	ctx := context.Background()
	query := regexp.QuoteMeta(`INSERT INTO members (id, board_id, user_id, name, color) VALUES ($1, $2, $3, $4, $5);`)
	t.Run("successfully created", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(member.ID, member.BoardID, member.UserID, member.Name, member.Color).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		err := repo.Create(ctx, &member)
		assert.NoError(t, err)
	})
	t.Run("already a member", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(member.ID, member.BoardID, member.UserID, member.Name, member.Color).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		err := repo.Create(ctx, &member)
		assert.ErrorIs(t, err, errorvalues.ErrAlreadyMember)
	})
	t.Run("board does not exist", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(member.ID, member.BoardID, member.UserID, member.Name, member.Color).
			WillReturnError(&pgconn.PgError{Code: "23503"})
		err := repo.Create(ctx, &member)
		assert.ErrorIs(t, err, errorvalues.ErrBoardNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(member.ID, member.BoardID, member.UserID, member.Name, member.Color).
			WillReturnError(errors.New("db error"))
		err := repo.Create(ctx, &member)
		assert.Error(t, err)
	})
	t.Run("nil member", func(t *testing.T) {
		err := repo.Create(ctx, nil)
		assert.Error(t, err)
	})
}

func TestListMembersByBoard(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewMembersRepoWithConn(mock)
	boardID := uuid.New()
	now := time.Now()
	members := []*entity.Member{
		{ID: uuid.New(), BoardID: boardID, UserID: uuid.New(), Name: "alice", Color: "#2a9d8f", CreatedAt: now},
		{ID: uuid.New(), BoardID: boardID, UserID: uuid.New(), Name: "bob", Color: "#e76f51", CreatedAt: now},
	}
	query := regexp.QuoteMeta(`SELECT id, board_id, user_id, name, color, created_at
		FROM members WHERE board_id = $1;`)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "board_id", "user_id", "name", "color", "created_at"})
		for _, m := range members {
			rows.AddRow(m.ID, m.BoardID, m.UserID, m.Name, m.Color, m.CreatedAt)
		}
		mock.ExpectQuery(query).
			WithArgs(boardID).
			WillReturnRows(rows)
		result, err := repo.ListByBoard(ctx, boardID)
		assert.NoError(t, err)
		assert.Equal(t, members, result)
	})
	t.Run("empty board", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(boardID).
			WillReturnRows(pgxmock.NewRows([]string{"id", "board_id", "user_id", "name", "color", "created_at"}))
		result, err := repo.ListByBoard(ctx, boardID)
		assert.NoError(t, err)
		assert.Empty(t, result)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(boardID).
			WillReturnError(errors.New("db error"))
		_, err := repo.ListByBoard(ctx, boardID)
		assert.Error(t, err)
	})
}

func TestUpdateMember(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewMembersRepoWithConn(mock)
	query := regexp.QuoteMeta(`UPDATE members SET name = $1, color = $2 WHERE id = $3;`)
	ctx := context.Background()
	id := uuid.New()
	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("alice", "#264653", id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		err := repo.Update(ctx, id, "alice", "#264653")
		assert.NoError(t, err)
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("alice", "#264653", id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		err := repo.Update(ctx, id, "alice", "#264653")
		assert.ErrorIs(t, err, errorvalues.ErrMemberNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("alice", "#264653", id).
			WillReturnError(errors.New("db error"))
		err := repo.Update(ctx, id, "alice", "#264653")
		assert.Error(t, err)
	})
}

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

func TestCreateHabit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepoWithConn(mock)
	habit := entity.Habit{
		ID:         uuid.New(),
		BoardID:    uuid.New(),
		MemberID:   uuid.New(),
		Title:      "morning run",
		OrderIndex: time.Now().UnixMilli(),
	}
	ctx := context.Background()
	query := regexp.QuoteMeta(`INSERT INTO habits (id, board_id, member_id, title, order_index) VALUES ($1, $2, $3, $4, $5);`)
	t.Run("successfully created", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(habit.ID, habit.BoardID, habit.MemberID, habit.Title, habit.OrderIndex).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		err := repo.Create(ctx, &habit)
		assert.NoError(t, err)
	})
	t.Run("member is gone", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(habit.ID, habit.BoardID, habit.MemberID, habit.Title, habit.OrderIndex).
			WillReturnError(&pgconn.PgError{Code: "23503"})
		err := repo.Create(ctx, &habit)
		assert.ErrorIs(t, err, errorvalues.ErrMemberNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(habit.ID, habit.BoardID, habit.MemberID, habit.Title, habit.OrderIndex).
			WillReturnError(errors.New("db error"))
		err := repo.Create(ctx, &habit)
		assert.Error(t, err)
	})
	t.Run("nil habit", func(t *testing.T) {
		err := repo.Create(ctx, nil)
		assert.Error(t, err)
	})
}

func TestListHabitsByBoard(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepoWithConn(mock)
	boardID := uuid.New()
	memberID := uuid.New()
	now := time.Now()
	habits := []*entity.Habit{
		{ID: uuid.New(), BoardID: boardID, MemberID: memberID, Title: "stretch", OrderIndex: 100, CreatedAt: now},
		{ID: uuid.New(), BoardID: boardID, MemberID: memberID, Title: "read", OrderIndex: 200, Archived: true, ArchivedAt: &now, CreatedAt: now},
	}
	cols := []string{"id", "board_id", "member_id", "title", "order_index", "archived", "archived_at", "created_at"}
	allQuery := regexp.QuoteMeta(`SELECT id, board_id, member_id, title, order_index, archived, archived_at, created_at
		FROM habits WHERE board_id = $1 ORDER BY order_index ASC;`)
	activeQuery := regexp.QuoteMeta(`SELECT id, board_id, member_id, title, order_index, archived, archived_at, created_at
		FROM habits WHERE board_id = $1 AND archived = FALSE ORDER BY order_index ASC;`)
	ctx := context.Background()
	t.Run("with archived", func(t *testing.T) {
		rows := pgxmock.NewRows(cols)
		for _, h := range habits {
			rows.AddRow(h.ID, h.BoardID, h.MemberID, h.Title, h.OrderIndex, h.Archived, h.ArchivedAt, h.CreatedAt)
		}
		mock.ExpectQuery(allQuery).
			WithArgs(boardID).
			WillReturnRows(rows)
		result, err := repo.ListByBoard(ctx, boardID, true)
		assert.NoError(t, err)
		assert.Equal(t, habits, result)
	})
	t.Run("active only", func(t *testing.T) {
		h := habits[0]
		mock.ExpectQuery(activeQuery).
			WithArgs(boardID).
			WillReturnRows(pgxmock.NewRows(cols).
				AddRow(h.ID, h.BoardID, h.MemberID, h.Title, h.OrderIndex, h.Archived, h.ArchivedAt, h.CreatedAt),
			)
		result, err := repo.ListByBoard(ctx, boardID, false)
		assert.NoError(t, err)
		assert.Equal(t, []*entity.Habit{h}, result)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(allQuery).
			WithArgs(boardID).
			WillReturnError(errors.New("db error"))
		_, err := repo.ListByBoard(ctx, boardID, true)
		assert.Error(t, err)
	})
}

func TestUpdateHabitTitle(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepoWithConn(mock)
	query := regexp.QuoteMeta(`UPDATE habits SET title = $1 WHERE id = $2;`)
	ctx := context.Background()
	id := uuid.New()
	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("evening run", id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		err := repo.UpdateTitle(ctx, id, "evening run")
		assert.NoError(t, err)
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("evening run", id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		err := repo.UpdateTitle(ctx, id, "evening run")
		assert.ErrorIs(t, err, errorvalues.ErrHabitNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("evening run", id).
			WillReturnError(errors.New("db error"))
		err := repo.UpdateTitle(ctx, id, "evening run")
		assert.Error(t, err)
	})
}

func TestSetHabitArchived(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepoWithConn(mock)
	query := regexp.QuoteMeta(`UPDATE habits SET archived = $1, archived_at = $2 WHERE id = $3;`)
	ctx := context.Background()
	id := uuid.New()
	now := time.Now()
	t.Run("archive", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(true, &now, id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		err := repo.SetArchived(ctx, id, true, &now)
		assert.NoError(t, err)
	})
	t.Run("restore", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(false, (*time.Time)(nil), id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		err := repo.SetArchived(ctx, id, false, nil)
		assert.NoError(t, err)
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(true, &now, id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		err := repo.SetArchived(ctx, id, true, &now)
		assert.ErrorIs(t, err, errorvalues.ErrHabitNotFound)
	})
}

func TestUpdateHabitOrderIndex(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepoWithConn(mock)
	query := regexp.QuoteMeta(`UPDATE habits SET order_index = $1 WHERE id = $2;`)
	ctx := context.Background()
	id := uuid.New()
	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(int64(500), id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		err := repo.UpdateOrderIndex(ctx, id, 500)
		assert.NoError(t, err)
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(int64(500), id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		err := repo.UpdateOrderIndex(ctx, id, 500)
		assert.ErrorIs(t, err, errorvalues.ErrHabitNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(int64(500), id).
			WillReturnError(errors.New("db error"))
		err := repo.UpdateOrderIndex(ctx, id, 500)
		assert.Error(t, err)
	})
}

func TestDeleteHabit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepoWithConn(mock)
	query := regexp.QuoteMeta(`DELETE FROM habits WHERE id = $1;`)
	ctx := context.Background()
	id := uuid.New()
	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		err := repo.Delete(ctx, id)
		assert.NoError(t, err)
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		err := repo.Delete(ctx, id)
		assert.ErrorIs(t, err, errorvalues.ErrHabitNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(id).
			WillReturnError(errors.New("db error"))
		err := repo.Delete(ctx, id)
		assert.Error(t, err)
	})
}

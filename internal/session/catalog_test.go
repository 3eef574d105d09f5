package session_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/habitboard/internal/session"
	"github.com/limbo/habitboard/pkg/entity"
	"github.com/stretchr/testify/assert"
)

func habitFixture(title string, orderIndex int64, createdAt time.Time, archived bool) *entity.Habit {
	return &entity.Habit{
		ID:         uuid.New(),
		Title:      title,
		OrderIndex: orderIndex,
		CreatedAt:  createdAt,
		Archived:   archived,
	}
}

func titles(habits []*entity.Habit) []string {
	result := make([]string, 0, len(habits))
	for _, h := range habits {
		result = append(result, h.Title)
	}
	return result
}

func TestCatalogOrdering(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	t.Run("order index ascending", func(t *testing.T) {
		var c session.HabitCatalog
		c.Replace([]*entity.Habit{
			habitFixture("c", 300, base, false),
			habitFixture("a", 100, base, false),
			habitFixture("b", 200, base, false),
		})
		assert.Equal(t, []string{"a", "b", "c"}, titles(c.All()))
	})
	t.Run("ties broken by created_at ascending", func(t *testing.T) {
		var c session.HabitCatalog
		c.Replace([]*entity.Habit{
			habitFixture("younger", 100, base.Add(time.Hour), false),
			habitFixture("older", 100, base, false),
		})
		assert.Equal(t, []string{"older", "younger"}, titles(c.All()))
	})
}

func TestCatalogNeighbor(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	active1 := habitFixture("active1", 100, base, false)
	archived1 := habitFixture("archived1", 150, base, true)
	active2 := habitFixture("active2", 200, base, false)
	archived2 := habitFixture("archived2", 250, base, true)

	var c session.HabitCatalog
	c.Replace([]*entity.Habit{active1, archived1, active2, archived2})

	t.Run("skips the other partition", func(t *testing.T) {
		n := c.Neighbor(active1.ID, session.MoveDown)
		assert.Equal(t, active2.ID, n.ID)
		n = c.Neighbor(archived1.ID, session.MoveDown)
		assert.Equal(t, archived2.ID, n.ID)
	})
	t.Run("nil at the partition boundary", func(t *testing.T) {
		assert.Nil(t, c.Neighbor(active1.ID, session.MoveUp))
		assert.Nil(t, c.Neighbor(active2.ID, session.MoveDown))
		assert.Nil(t, c.Neighbor(archived1.ID, session.MoveUp))
		assert.Nil(t, c.Neighbor(archived2.ID, session.MoveDown))
	})
	t.Run("unknown habit", func(t *testing.T) {
		assert.Nil(t, c.Neighbor(uuid.New(), session.MoveDown))
	})
}

func TestCatalogPatchTitle(t *testing.T) {
	base := time.Now()
	h := habitFixture("before", 100, base, false)
	var c session.HabitCatalog
	c.Replace([]*entity.Habit{h})
	c.PatchTitle(h.ID, "after")
	assert.Equal(t, "after", c.ByID(h.ID).Title)
	// patching an unknown id does nothing
	c.PatchTitle(uuid.New(), "ghost")
	assert.Len(t, c.All(), 1)
}

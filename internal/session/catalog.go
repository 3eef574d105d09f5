package session

import (
	"sort"

	"github.com/google/uuid"
	"github.com/limbo/habitboard/pkg/entity"
)

// Direction of a manual reorder step.
type Direction int

const (
	MoveUp   Direction = -1
	MoveDown Direction = 1
)

// HabitCatalog holds the board's habit list between reloads. The order is
// recomputed wholesale on every Replace, never patched incrementally.
type HabitCatalog struct {
	habits []*entity.Habit
}

// Replace swaps in a freshly loaded habit list and sorts it by
// order_index ascending, ties broken by created_at ascending.
func (c *HabitCatalog) Replace(habits []*entity.Habit) {
	sorted := make([]*entity.Habit, len(habits))
	copy(sorted, habits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].OrderIndex != sorted[j].OrderIndex {
			return sorted[i].OrderIndex < sorted[j].OrderIndex
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	c.habits = sorted
}

func (c *HabitCatalog) All() []*entity.Habit {
	return c.habits
}

func (c *HabitCatalog) ByID(id uuid.UUID) *entity.Habit {
	for _, h := range c.habits {
		if h.ID == id {
			return h
		}
	}
	return nil
}

// Partition lists the habits sharing one archived state, in catalog order.
func (c *HabitCatalog) Partition(archived bool) []*entity.Habit {
	part := make([]*entity.Habit, 0, len(c.habits))
	for _, h := range c.habits {
		if h.Archived == archived {
			part = append(part, h)
		}
	}
	return part
}

// Neighbor returns the habit adjacent to id within its archived
// partition, or nil when id sits at the partition boundary.
func (c *HabitCatalog) Neighbor(id uuid.UUID, dir Direction) *entity.Habit {
	habit := c.ByID(id)
	if habit == nil {
		return nil
	}
	part := c.Partition(habit.Archived)
	for i, h := range part {
		if h.ID == id {
			j := i + int(dir)
			if j < 0 || j >= len(part) {
				return nil
			}
			return part[j]
		}
	}
	return nil
}

// PatchTitle rewrites a habit's title locally after a successful store
// update, the next reload remains the ground truth.
func (c *HabitCatalog) PatchTitle(id uuid.UUID, title string) {
	if h := c.ByID(id); h != nil {
		h.Title = title
	}
}

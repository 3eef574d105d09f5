package session

import (
	"sort"

	"github.com/google/uuid"
	"github.com/limbo/habitboard/pkg/entity"
)

type entryKey struct {
	habitID uuid.UUID
	date    string
}

// EntryLedger is a sparse presence set over (habit, date) pairs inside
// the loaded window. It is a cache of the store: a reload always wins
// over whatever the ledger believed.
type EntryLedger struct {
	marks map[entryKey]struct{}
}

// Replace rebuilds the ledger from freshly loaded entries.
func (l *EntryLedger) Replace(entries []entity.Entry) {
	marks := make(map[entryKey]struct{}, len(entries))
	for _, e := range entries {
		marks[entryKey{habitID: e.HabitID, date: e.Date}] = struct{}{}
	}
	l.marks = marks
}

func (l *EntryLedger) Has(habitID uuid.UUID, date string) bool {
	_, ok := l.marks[entryKey{habitID: habitID, date: date}]
	return ok
}

func (l *EntryLedger) Mark(habitID uuid.UUID, date string) {
	if l.marks == nil {
		l.marks = make(map[entryKey]struct{})
	}
	l.marks[entryKey{habitID: habitID, date: date}] = struct{}{}
}

func (l *EntryLedger) Unmark(habitID uuid.UUID, date string) {
	delete(l.marks, entryKey{habitID: habitID, date: date})
}

func (l *EntryLedger) Len() int {
	return len(l.marks)
}

// Keys lists the present pairs as "habitID|date" strings in stable order.
func (l *EntryLedger) Keys() []string {
	keys := make([]string, 0, len(l.marks))
	for k := range l.marks {
		keys = append(keys, k.habitID.String()+"|"+k.date)
	}
	sort.Strings(keys)
	return keys
}

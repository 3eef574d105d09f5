package dates_test

import (
	"testing"
	"time"

	"github.com/limbo/habitboard/pkg/dates"
	"github.com/stretchr/testify/assert"
)

func day(value string) time.Time {
	t, err := time.Parse(dates.DayFormat, value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSequence(t *testing.T) {
	t.Run("week ending on fixed day", func(t *testing.T) {
		w := dates.EndingOn(day("2024-06-10"), 7)
		assert.Equal(t, []string{
			"2024-06-04", "2024-06-05", "2024-06-06", "2024-06-07",
			"2024-06-08", "2024-06-09", "2024-06-10",
		}, w.Sequence())
	})
	t.Run("exactly length consecutive increasing dates", func(t *testing.T) {
		w := dates.EndingOn(day("2024-03-05"), 31)
		seq := w.Sequence()
		assert.Len(t, seq, 31)
		for i := 1; i < len(seq); i++ {
			assert.Less(t, seq[i-1], seq[i])
		}
		assert.Equal(t, "2024-03-05", seq[len(seq)-1])
	})
	t.Run("crosses month boundary", func(t *testing.T) {
		w := dates.EndingOn(day("2024-03-02"), 4)
		assert.Equal(t, []string{"2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}, w.Sequence())
	})
	t.Run("length below one clamped to one", func(t *testing.T) {
		w := dates.EndingOn(day("2024-06-10"), 0)
		assert.Equal(t, []string{"2024-06-10"}, w.Sequence())
	})
}

func TestShift(t *testing.T) {
	w := dates.EndingOn(day("2024-06-10"), 7)
	t.Run("page back a week", func(t *testing.T) {
		prev := w.Shift(-7)
		seq := prev.Sequence()
		assert.Equal(t, "2024-05-28", seq[0])
		assert.Equal(t, "2024-06-03", seq[len(seq)-1])
	})
	t.Run("page forward is not clamped", func(t *testing.T) {
		next := w.Shift(7)
		seq := next.Sequence()
		assert.Equal(t, "2024-06-11", seq[0])
		assert.Equal(t, "2024-06-17", seq[len(seq)-1])
	})
	t.Run("original window untouched", func(t *testing.T) {
		w.Shift(-7)
		seq := w.Sequence()
		assert.Equal(t, "2024-06-04", seq[0])
	})
}

func TestBoundsAndContains(t *testing.T) {
	w := dates.EndingOn(day("2024-06-10"), 7)
	start, end := w.Bounds()
	assert.Equal(t, "2024-06-04", start)
	assert.Equal(t, "2024-06-10", end)
	assert.True(t, w.Contains("2024-06-04"))
	assert.True(t, w.Contains("2024-06-10"))
	assert.False(t, w.Contains("2024-06-03"))
	assert.False(t, w.Contains("2024-06-11"))
}

func TestEndingToday(t *testing.T) {
	w := dates.EndingToday(7)
	seq := w.Sequence()
	assert.Len(t, seq, 7)
	assert.Equal(t, time.Now().Format(dates.DayFormat), seq[len(seq)-1])
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "6/4", dates.Label("2024-06-04"))
	assert.Equal(t, "12/31", dates.Label("2024-12-31"))
	// Malformed input passes through untouched instead of panicking.
	assert.Equal(t, "not-a-date", dates.Label("not-a-date"))

	w := dates.EndingOn(day("2024-06-10"), 3)
	assert.Equal(t, []string{"6/8", "6/9", "6/10"}, w.Labels())
}

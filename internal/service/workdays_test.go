package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 2026-08-24 is a Monday.
var monday = time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)

func TestAddWorkingDays(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		n    int
		want string
	}{
		{"monday plus five lands next monday", monday, 5, "2026-08-31"},
		{"friday plus one skips the weekend", monday.AddDate(0, 0, 4), 1, "2026-08-31"},
		{"friday plus five lands the following friday", monday.AddDate(0, 0, 4), 5, "2026-09-04"},
		{"saturday plus one lands monday", monday.AddDate(0, 0, 5), 1, "2026-08-31"},
		{"midweek plus two stays in week", monday.AddDate(0, 0, 1), 2, "2026-08-27"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddWorkingDays(tt.from, tt.n)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}
}

func TestDefaultUpdateDue(t *testing.T) {
	assert.Equal(t, "2026-08-31", DefaultUpdateDue(monday))
}

func TestNextWorkday(t *testing.T) {
	// Monday: tomorrow is Tuesday
	next, label := NextWorkday(monday)
	assert.Equal(t, time.Tuesday, next.Weekday())
	assert.Equal(t, "Tomorrow", label)

	// Friday: next workday is Monday, labelled by name
	friday := monday.AddDate(0, 0, 4)
	next, label = NextWorkday(friday)
	assert.Equal(t, time.Monday, next.Weekday())
	assert.Equal(t, "Monday", label)
}

func TestWeekLabel(t *testing.T) {
	assert.Equal(t, "Coming up this week", WeekLabel(monday))
	assert.Equal(t, "Coming up next week", WeekLabel(monday.AddDate(0, 0, 4)))
}

package service

import "time"

// AddWorkingDays returns the date n working days after from, skipping
// weekends. Public holidays are somebody else's problem.
func AddWorkingDays(from time.Time, n int) time.Time {
	current := from
	added := 0
	for added < n {
		current = current.AddDate(0, 0, 1)
		if current.Weekday() != time.Saturday && current.Weekday() != time.Sunday {
			added++
		}
	}
	return current
}

// DefaultUpdateDue is the fallback due date when the extraction doesn't name
// one: five working days out.
func DefaultUpdateDue(now time.Time) string {
	return AddWorkingDays(now, 5).Format("2006-01-02")
}

// NextWorkday returns the next working day and its digest label: "Tomorrow"
// on Mon-Thu, the day name over a weekend.
func NextWorkday(now time.Time) (time.Time, string) {
	next := now.AddDate(0, 0, 1)
	for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}
	if next.Sub(now) > 36*time.Hour {
		return next, next.Format("Monday")
	}
	return next, "Tomorrow"
}

// WeekLabel names the digest's look-ahead section. On a Friday the week
// ahead is next week.
func WeekLabel(now time.Time) string {
	if now.Weekday() == time.Friday {
		return "Coming up next week"
	}
	return "Coming up this week"
}

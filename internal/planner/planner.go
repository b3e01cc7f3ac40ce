package planner

import "time"

// DateOnly truncates t to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GetNextMonday returns the Monday strictly after t.
func GetNextMonday(t time.Time) time.Time {
	day := DateOnly(t)
	offset := (int(time.Monday) - int(day.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	return day.AddDate(0, 0, offset)
}

// WeekDays returns seven empty day plans starting at weekStart.
func WeekDays(weekStart time.Time) []DayPlan {
	start := DateOnly(weekStart)
	days := make([]DayPlan, 7)
	for i := range days {
		date := start.AddDate(0, 0, i)
		days[i] = DayPlan{Date: date, Day: date.Weekday().String()}
	}
	return days
}

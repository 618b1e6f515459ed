package chat

import "time"

// wakingHour is the hour before which a message still belongs to the
// previous day's conversation.
const wakingHour = 5

// Day returns midnight of the calendar day of ts, in ts's location.
func Day(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, ts.Location())
}

// WakingDay is like Day, except that messages sent before 5 AM count
// toward the previous day.
func WakingDay(ts time.Time) time.Time {
	day := Day(ts)
	if ts.Hour() < wakingHour {
		return day.AddDate(0, 0, -1)
	}
	return day
}

// Week returns the most recent Monday on or before ts.
func Week(ts time.Time) time.Time {
	sinceMonday := (int(ts.Weekday()) + 6) % 7
	return Day(ts).AddDate(0, 0, -sinceMonday)
}

func Month(ts time.Time) time.Time {
	y, m, _ := ts.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, ts.Location())
}

func Year(ts time.Time) time.Time {
	return time.Date(ts.Year(), time.January, 1, 0, 0, 0, 0, ts.Location())
}

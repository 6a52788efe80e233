// Package week содержит календарные вычисления для недельной отчётности.
// Неделя начинается в воскресенье 00:00 UTC и заканчивается в субботу 23:59:59.999 UTC.
package week

import (
	"math"
	"time"
)

// DateLayout — формат календарной даты в отчётах и ключах.
const DateLayout = "2006-01-02"

// Day — длительность суток.
const Day = 24 * time.Hour

// StartOfDay возвращает начало суток (UTC) для момента t.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Start возвращает начало недели (воскресенье 00:00 UTC), содержащей t.
func Start(t time.Time) time.Time {
	day := StartOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// End возвращает последний момент недели, начинающейся в start.
func End(start time.Time) time.Time {
	return start.AddDate(0, 0, 7).Add(-time.Millisecond)
}

// Bounds возвращает начало и конец недели, содержащей t.
func Bounds(t time.Time) (time.Time, time.Time) {
	start := Start(t)
	return start, End(start)
}

// DaysRemaining — число оставшихся суток до конца недели, округлённое вверх, не меньше 0.
func DaysRemaining(weekEnd, now time.Time) int {
	left := weekEnd.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(float64(left) / float64(Day)))
}

// DayKey возвращает календарную дату t (UTC) в формате DateLayout.
func DayKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// DaysBetween — число полных календарных суток между датами a и b (b - a).
func DaysBetween(a, b time.Time) int {
	return int(StartOfDay(b).Sub(StartOfDay(a)) / Day)
}

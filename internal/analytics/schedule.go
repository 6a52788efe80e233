package analytics

import (
	"time"

	"github.com/magabrotheeeer/peptide-tracker/internal/lib/week"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

var everyOtherDay = []time.Weekday{time.Sunday, time.Tuesday, time.Thursday, time.Saturday}

// ScheduledWeekdays возвращает дни недели, в которые по расписанию ожидается приём.
func ScheduledWeekdays(p *models.Protocol) []time.Weekday {
	switch p.ScheduleType {
	case models.ScheduleDaily:
		return []time.Weekday{
			time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
			time.Thursday, time.Friday, time.Saturday,
		}
	case models.ScheduleWeekly:
		return []time.Weekday{time.Sunday}
	case models.ScheduleEveryOtherDay:
		return everyOtherDay
	case models.ScheduleCustom:
		return p.ScheduleConfig.Weekdays()
	default:
		return nil
	}
}

// isScheduled сообщает, ожидается ли приём по протоколу в календарный день day.
func isScheduled(p *models.Protocol, day time.Time) bool {
	wd := day.UTC().Weekday()
	for _, d := range ScheduledWeekdays(p) {
		if d == wd {
			return true
		}
	}
	return false
}

// ExpectedDoseDates возвращает ожидаемые даты приёма в неделе weekStart,
// в которые протокол был активен.
func ExpectedDoseDates(p *models.Protocol, weekStart time.Time) []time.Time {
	var dates []time.Time
	for _, wd := range ScheduledWeekdays(p) {
		day := weekStart.AddDate(0, 0, int(wd))
		if p.ActiveDuring(day, day.Add(week.Day-time.Millisecond)) {
			dates = append(dates, day)
		}
	}
	return dates
}

// hasInjectionOn сообщает, была ли инъекция пептида в календарный день day.
func hasInjectionOn(injections []models.Injection, peptideID string, day time.Time) bool {
	key := week.DayKey(day)
	for i := range injections {
		if injections[i].PeptideID == peptideID && week.DayKey(injections[i].Timestamp) == key {
			return true
		}
	}
	return false
}

// Package analytics содержит чистые функции расчёта недельного прогресса,
// соблюдения протоколов, статистики по местам и времени инъекций, а также
// правила формирования уведомлений. Функции не обращаются к хранилищу:
// сервисы загружают данные и передают их сюда вместе с текущим временем.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/magabrotheeeer/peptide-tracker/internal/lib/week"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

// injectionsPerWeek — сколько приёмов в неделю подразумевает тип расписания.
func injectionsPerWeek(p *models.Protocol) int {
	switch p.ScheduleType {
	case models.ScheduleDaily:
		return 7
	case models.ScheduleWeekly:
		return 1
	case models.ScheduleEveryOtherDay:
		return 4
	case models.ScheduleCustom:
		if n := len(p.ScheduleConfig.Weekdays()); n > 0 {
			return n
		}
		return 1
	default:
		return 1
	}
}

// TargetDose возвращает недельную целевую дозу протокола.
func TargetDose(p *models.Protocol) float64 {
	if p.WeeklyTarget != nil && *p.WeeklyTarget > 0 {
		return *p.WeeklyTarget
	}
	if p.DailyTarget != nil && *p.DailyTarget > 0 {
		return *p.DailyTarget * float64(injectionsPerWeek(p))
	}
	return 0
}

// Status классифицирует прогресс по неокруглённому сверху проценту.
func Status(percentage float64, daysRemaining int) models.ProgressStatus {
	switch {
	case percentage >= 100:
		return models.StatusComplete
	case percentage >= 90:
		return models.StatusOnTrack
	case daysRemaining <= 2 && percentage < 70:
		return models.StatusBehind
	case percentage > 120:
		return models.StatusAhead
	default:
		return models.StatusOnTrack
	}
}

// SuggestedDose распределяет оставшуюся дозу по оставшимся дням приёма.
func SuggestedDose(p *models.Protocol, remaining float64, daysRemaining int, now time.Time) float64 {
	if remaining <= 0 || daysRemaining <= 0 {
		return 0
	}

	switch p.ScheduleType {
	case models.ScheduleWeekly:
		return remaining
	case models.ScheduleDaily:
		return round2(remaining / float64(daysRemaining))
	case models.ScheduleCustom:
		today := now.UTC().Weekday()
		left := 0
		for _, wd := range p.ScheduleConfig.Weekdays() {
			if wd > today {
				left++
			}
		}
		if left > 0 {
			return round2(remaining / float64(left))
		}
	}
	return remaining
}

// CalculateProtocolProgress считает прогресс протокола за неделю weekStart.
// injections — инъекции пользователя за эту неделю, лишние отфильтровываются.
func CalculateProtocolProgress(p *models.Protocol, injections []models.Injection, weekStart, now time.Time) models.ProtocolProgress {
	weekEnd := week.End(weekStart)

	var matched []models.Injection
	var current float64
	for i := range injections {
		inj := &injections[i]
		if inj.Timestamp.Before(weekStart) || inj.Timestamp.After(weekEnd) || !p.Matches(inj) {
			continue
		}
		matched = append(matched, *inj)
		current += inj.Dose
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	target := TargetDose(p)
	raw := 100.0
	if target > 0 {
		raw = math.Round(current / target * 100)
	}
	remaining := math.Max(target-current, 0)
	daysRemaining := week.DaysRemaining(weekEnd, now)

	progress := models.ProtocolProgress{
		ProtocolID:         p.ID,
		ProtocolName:       p.Name,
		PeptideID:          p.PeptideID,
		PeptideName:        p.PeptideName,
		TargetDose:         target,
		CurrentDose:        current,
		ProgressPercentage: clamp(raw, 0, 100),
		RawPercentage:      raw,
		RemainingDose:      remaining,
		DaysRemaining:      daysRemaining,
		Status:             Status(raw, daysRemaining),
		SuggestedNextDose:  SuggestedDose(p, remaining, daysRemaining, now),
		WeeklyInjections:   matched,
		ScheduleType:       p.ScheduleType,
	}
	if matched == nil {
		progress.WeeklyInjections = []models.Injection{}
	}
	if len(matched) > 0 {
		last := matched[0].Timestamp
		progress.LastInjectionDate = &last
		progress.DoseUnit = matched[0].DoseUnit
	}
	return progress
}

// CalculateWeeklyProgress собирает прогресс всех протоколов, активных в неделю weekStart.
func CalculateWeeklyProgress(protocols []models.Protocol, injections []models.Injection, weekStart, now time.Time) models.WeeklyProgress {
	weekStart = week.Start(weekStart)
	weekEnd := week.End(weekStart)

	result := models.WeeklyProgress{
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
		Protocols: []models.ProtocolProgress{},
	}

	var sum float64
	for i := range protocols {
		p := &protocols[i]
		if !p.ActiveDuring(weekStart, weekEnd) {
			continue
		}
		progress := CalculateProtocolProgress(p, injections, weekStart, now)
		result.Protocols = append(result.Protocols, progress)
		sum += progress.ProgressPercentage

		switch progress.Status {
		case models.StatusOnTrack, models.StatusComplete:
			result.OnTrackProtocols++
		case models.StatusBehind:
			result.BehindProtocols++
		}
	}

	result.TotalActiveProtocols = len(result.Protocols)
	if result.TotalActiveProtocols > 0 {
		result.OverallProgress = math.Round(sum / float64(result.TotalActiveProtocols))
	}
	return result
}

// TrendPoint сворачивает недельный прогресс в точку тренда.
func TrendPoint(wp models.WeeklyProgress) models.WeeklyTrend {
	total := wp.TotalActiveProtocols
	if total < 1 {
		total = 1
	}
	return models.WeeklyTrend{
		WeekStart:      wp.WeekStart,
		TotalProgress:  wp.OverallProgress,
		ProtocolCount:  wp.TotalActiveProtocols,
		AdherenceScore: float64(wp.OnTrackProtocols) / float64(total) * 100,
	}
}

// TrendWeekStarts возвращает начала weeksBack недель, заканчивая текущей, от старых к новым.
func TrendWeekStarts(now time.Time, weeksBack int) []time.Time {
	if weeksBack < 1 {
		weeksBack = 1
	}
	current := week.Start(now)
	starts := make([]time.Time, 0, weeksBack)
	for i := weeksBack - 1; i >= 0; i-- {
		starts = append(starts, current.AddDate(0, 0, -7*i))
	}
	return starts
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/magabrotheeeer/peptide-tracker/internal/lib/week"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

// consistencyInterval — интервал между приёмами (часы), относительно которого оценивается разброс.
const consistencyInterval = 24.0

// PlannedDoses возвращает число запланированных приёмов за totalDays дней.
func PlannedDoses(p *models.Protocol, totalDays int) int {
	weeks := int(math.Ceil(float64(totalDays) / 7))
	switch p.ScheduleType {
	case models.ScheduleDaily:
		return totalDays
	case models.ScheduleEveryOtherDay:
		return int(math.Ceil(float64(totalDays) / 2))
	case models.ScheduleWeekly:
		return weeks
	case models.ScheduleCustom:
		if n := len(p.ScheduleConfig.Weekdays()); n > 0 {
			return n * weeks
		}
		return totalDays
	default:
		return totalDays
	}
}

// AdherenceMetrics — серии и регулярность приёмов.
type AdherenceMetrics struct {
	StreakDays          int
	LongestStreak       int
	AverageHoursBetween float64
	ConsistencyScore    float64
}

// CalculateAdherenceMetrics считает серии по календарным дням с инъекциями
// и регулярность по интервалам между всеми инъекциями.
func CalculateAdherenceMetrics(injections []models.Injection, now time.Time) AdherenceMetrics {
	if len(injections) == 0 {
		return AdherenceMetrics{}
	}

	times := make([]time.Time, 0, len(injections))
	for _, inj := range injections {
		times = append(times, inj.Timestamp)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	days := distinctDays(times)
	m := AdherenceMetrics{
		StreakDays:    currentStreak(days, now),
		LongestStreak: longestStreak(days),
	}

	if len(times) > 1 {
		intervals := make([]float64, 0, len(times)-1)
		for i := 1; i < len(times); i++ {
			intervals = append(intervals, times[i].Sub(times[i-1]).Hours())
		}
		mean, variance := meanVariance(intervals)
		m.AverageHoursBetween = mean
		m.ConsistencyScore = math.Max(0, 100-math.Sqrt(variance)/consistencyInterval*100)
	}
	return m
}

// distinctDays возвращает отсортированные по возрастанию календарные дни (UTC).
func distinctDays(sorted []time.Time) []time.Time {
	var days []time.Time
	for _, t := range sorted {
		d := week.StartOfDay(t)
		if len(days) == 0 || !days[len(days)-1].Equal(d) {
			days = append(days, d)
		}
	}
	return days
}

// currentStreak — число подряд идущих дней с инъекциями, заканчивающихся сегодня или вчера.
func currentStreak(days []time.Time, now time.Time) int {
	if len(days) == 0 {
		return 0
	}
	last := days[len(days)-1]
	if gap := week.DaysBetween(last, now); gap < 0 || gap > 1 {
		return 0
	}
	streak := 1
	for i := len(days) - 1; i > 0; i-- {
		if week.DaysBetween(days[i-1], days[i]) != 1 {
			break
		}
		streak++
	}
	return streak
}

// longestStreak — самая длинная серия дней с инъекциями, где промежутки не больше двух суток.
func longestStreak(days []time.Time) int {
	if len(days) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if week.DaysBetween(days[i-1], days[i]) <= 2 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// CalculateProtocolAdherence считает соблюдение протокола за период.
// injections — инъекции пользователя за период, лишние отфильтровываются.
func CalculateProtocolAdherence(p *models.Protocol, injections []models.Injection, dr models.DateRange, now time.Time) models.ProtocolAdherence {
	var matched []models.Injection
	for i := range injections {
		inj := &injections[i]
		if inj.Timestamp.Before(dr.Start) || inj.Timestamp.After(dr.End) || !p.Matches(inj) {
			continue
		}
		matched = append(matched, *inj)
	}

	totalDays := int(math.Ceil(dr.End.Sub(dr.Start).Hours() / 24))
	planned := PlannedDoses(p, totalDays)
	actual := len(matched)

	var adherence float64
	if planned > 0 {
		adherence = clamp(float64(actual)/float64(planned)*100, 0, 100)
	}

	metrics := CalculateAdherenceMetrics(matched, now)
	missed := planned - actual
	if missed < 0 {
		missed = 0
	}

	return models.ProtocolAdherence{
		ProtocolID:              p.ID,
		ProtocolName:            p.Name,
		PeptideName:             p.PeptideName,
		AdherencePercentage:     adherence,
		TotalPlannedDoses:       planned,
		ActualDoses:             actual,
		MissedDoses:             missed,
		StreakDays:              metrics.StreakDays,
		LongestStreak:           metrics.LongestStreak,
		AverageTimeBetweenDoses: metrics.AverageHoursBetween,
		DoseConsistencyScore:    metrics.ConsistencyScore,
	}
}

// meanVariance возвращает среднее и дисперсию генеральной совокупности.
// Для одинаковых значений дисперсия строго 0.
func meanVariance(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	equal := true
	for _, v := range values[1:] {
		if v != values[0] {
			equal = false
			break
		}
	}
	if equal {
		return values[0], 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return mean, sq / float64(len(values))
}

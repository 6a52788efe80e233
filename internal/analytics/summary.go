package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/magabrotheeeer/peptide-tracker/internal/lib/week"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

// Направление изменения активности за неделю.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendFlat      = "stable"
)

// SummaryWindow возвращает границы сводки: последние 7 суток, включая сегодняшние.
func SummaryWindow(now time.Time) (time.Time, time.Time) {
	today := week.StartOfDay(now)
	return today.AddDate(0, 0, -6), today.Add(week.Day - time.Millisecond)
}

// CalculateWeeklySummary строит сводку за последние 7 дней.
// Пропуском считается запланированный день до сегодняшнего без инъекции пептида протокола.
func CalculateWeeklySummary(protocols []models.Protocol, injections []models.Injection, now time.Time) models.WeeklySummary {
	start, end := SummaryWindow(now)
	today := week.StartOfDay(now)

	var inWindow []models.Injection
	for _, inj := range injections {
		if inj.Timestamp.Before(start) || inj.Timestamp.After(end) {
			continue
		}
		inWindow = append(inWindow, inj)
	}
	sort.Slice(inWindow, func(i, j int) bool {
		return inWindow[i].Timestamp.Before(inWindow[j].Timestamp)
	})

	summary := models.WeeklySummary{
		StartDate:       week.DayKey(start),
		EndDate:         week.DayKey(end),
		TotalInjections: len(inWindow),
		UniquePeptides:  countUnique(inWindow, func(inj models.Injection) string { return inj.PeptideID }),
		SitesUsed:       uniqueLocations(inWindow),
		DailyActivity:   make([]models.DailyActivity, 0, 7),
		MissedDoses:     []string{},
	}

	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		key := week.DayKey(day)
		dayInjections := []models.Injection{}
		for _, inj := range inWindow {
			if week.DayKey(inj.Timestamp) == key {
				dayInjections = append(dayInjections, inj)
			}
		}
		summary.DailyActivity = append(summary.DailyActivity, models.DailyActivity{
			Date:           key,
			Injections:     dayInjections,
			InjectionCount: len(dayInjections),
			UniquePeptides: countUnique(dayInjections, func(inj models.Injection) string { return inj.PeptideID }),
			Sites:          uniqueLocations(dayInjections),
		})
	}

	expected := 0
	for i := range protocols {
		p := &protocols[i]
		for d := 0; d < 7; d++ {
			day := start.AddDate(0, 0, d)
			if !isScheduled(p, day) || !p.ActiveDuring(day, day.Add(week.Day-time.Millisecond)) {
				continue
			}
			expected++
			if day.Before(today) && !hasInjectionOn(inWindow, p.PeptideID, day) {
				summary.MissedDoses = append(summary.MissedDoses, week.DayKey(day))
			}
		}
	}
	sort.Strings(summary.MissedDoses)

	summary.AdherenceScore = 100
	if expected > 0 {
		summary.AdherenceScore = math.Round(float64(expected-len(summary.MissedDoses)) / float64(expected) * 100)
	}

	firstHalf, secondHalf := 0, 0
	for i := 0; i < 3; i++ {
		firstHalf += summary.DailyActivity[i].InjectionCount
		secondHalf += summary.DailyActivity[i+4].InjectionCount
	}
	switch {
	case secondHalf > firstHalf:
		summary.WeeklyTrend = TrendImproving
	case secondHalf < firstHalf:
		summary.WeeklyTrend = TrendDeclining
	default:
		summary.WeeklyTrend = TrendFlat
	}

	return summary
}

func countUnique(injections []models.Injection, key func(models.Injection) string) int {
	seen := make(map[string]struct{}, len(injections))
	for _, inj := range injections {
		seen[key(inj)] = struct{}{}
	}
	return len(seen)
}

func uniqueLocations(injections []models.Injection) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, inj := range injections {
		loc := string(inj.InjectionSite.Location)
		if _, ok := seen[loc]; ok {
			continue
		}
		seen[loc] = struct{}{}
		out = append(out, loc)
	}
	sort.Strings(out)
	return out
}

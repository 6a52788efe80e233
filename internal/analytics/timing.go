package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

// DefaultTimingPatterns возвращается, если инъекций нет.
func DefaultTimingPatterns() models.TimingPatterns {
	return models.TimingPatterns{
		OptimalTimeWindow: models.TimeWindow{Start: "09:00", End: "10:00"},
		ConsistencyScore:  0,
		AverageTime:       "09:00",
		MostCommonTimes:   []models.TimeCount{},
		DayOfWeekPatterns: []models.DayPattern{},
	}
}

func hourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

func hourConsistency(hours []float64) (float64, float64) {
	mean, variance := meanVariance(hours)
	return mean, math.Max(0, 100-variance*10)
}

// CalculateTimingPatterns анализирует час суток (UTC), в который делаются инъекции.
func CalculateTimingPatterns(injections []models.Injection) models.TimingPatterns {
	if len(injections) == 0 {
		return DefaultTimingPatterns()
	}

	hours := make([]float64, 0, len(injections))
	counts := make(map[int]int)
	byDay := make(map[time.Weekday][]float64)
	for _, inj := range injections {
		t := inj.Timestamp.UTC()
		hours = append(hours, float64(t.Hour()))
		counts[t.Hour()]++
		byDay[t.Weekday()] = append(byDay[t.Weekday()], float64(t.Hour()))
	}

	type hourCount struct{ hour, count int }
	ranked := make([]hourCount, 0, len(counts))
	for hour, count := range counts {
		ranked = append(ranked, hourCount{hour: hour, count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].hour < ranked[j].hour
	})
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	common := make([]models.TimeCount, 0, len(ranked))
	for _, hc := range ranked {
		common = append(common, models.TimeCount{Time: hourLabel(hc.hour), Count: hc.count})
	}
	optimal := ranked[0].hour

	mean, consistency := hourConsistency(hours)

	patterns := []models.DayPattern{}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		dayHours, ok := byDay[wd]
		if !ok {
			continue
		}
		dayMean, dayConsistency := hourConsistency(dayHours)
		patterns = append(patterns, models.DayPattern{
			Day:         wd.String(),
			AverageTime: hourLabel(int(math.Round(dayMean))),
			Consistency: dayConsistency,
		})
	}

	return models.TimingPatterns{
		OptimalTimeWindow: models.TimeWindow{
			Start: hourLabel(max(0, optimal-1)),
			End:   hourLabel(min(23, optimal+1)),
		},
		ConsistencyScore:  consistency,
		AverageTime:       hourLabel(int(math.Round(mean))),
		MostCommonTimes:   common,
		DayOfWeekPatterns: patterns,
	}
}

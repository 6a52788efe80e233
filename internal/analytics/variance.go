package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

// stableSlope — порог наклона регрессии, ниже которого доза считается стабильной.
const stableSlope = 0.1

// DoseTrendOf определяет направление изменения дозы линейной регрессией доза/номер замера.
func DoseTrendOf(doses []float64) models.DoseTrend {
	n := float64(len(doses))
	if len(doses) < 2 {
		return models.TrendStable
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range doses {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	slope := (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)

	switch {
	case math.Abs(slope) < stableSlope:
		return models.TrendStable
	case slope > 0:
		return models.TrendIncreasing
	default:
		return models.TrendDecreasing
	}
}

// CalculateDoseVariance считает разброс доз протокола. Второе значение false,
// если в периоде нет подходящих инъекций.
func CalculateDoseVariance(p *models.Protocol, injections []models.Injection, dr models.DateRange) (models.DoseVariance, bool) {
	var matched []models.Injection
	for i := range injections {
		inj := &injections[i]
		if inj.Dose <= 0 || inj.Timestamp.Before(dr.Start) || inj.Timestamp.After(dr.End) || !p.Matches(inj) {
			continue
		}
		matched = append(matched, *inj)
	}
	if len(matched) == 0 {
		return models.DoseVariance{}, false
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.Before(matched[j].Timestamp)
	})

	doses := make([]float64, 0, len(matched))
	for _, inj := range matched {
		doses = append(doses, inj.Dose)
	}

	var target float64
	switch {
	case p.DailyTarget != nil:
		target = *p.DailyTarget
	case p.WeeklyTarget != nil:
		target = *p.WeeklyTarget
	}

	mean, variance := meanVariance(doses)
	stddev := math.Sqrt(variance)

	var accuracy float64
	if target > 0 {
		accuracy = math.Max(0, 100-math.Abs(mean-target)/target*100)
	}

	high := []time.Time{}
	for _, inj := range matched {
		if math.Abs(inj.Dose-mean) > stddev {
			high = append(high, inj.Timestamp)
		}
	}

	return models.DoseVariance{
		ProtocolID:         p.ID,
		ProtocolName:       p.Name,
		TargetDose:         target,
		AverageDose:        mean,
		Variance:           variance,
		StandardDeviation:  stddev,
		AccuracyPercentage: accuracy,
		HighVarianceDates:  high,
		Trend:              DoseTrendOf(doses),
	}, true
}

package analytics

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/peptide-tracker/internal/lib/week"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

// ErrInvalidDateRange возвращается при некорректных границах периода отчёта.
var ErrInvalidDateRange = errors.New("invalid date range")

const defaultRangeDays = 30

// ParseDateRange определяет период отчёта: явные startDate и endDate (RFC3339 или
// YYYY-MM-DD), иначе reportType (weekly, monthly, quarterly), иначе последние 30 дней.
func ParseDateRange(startDate, endDate string, reportType models.ReportType, now time.Time) (models.DateRange, error) {
	if startDate != "" && endDate != "" {
		start, err := parseBound(startDate, false)
		if err != nil {
			return models.DateRange{}, err
		}
		end, err := parseBound(endDate, true)
		if err != nil {
			return models.DateRange{}, err
		}
		if end.Before(start) {
			return models.DateRange{}, fmt.Errorf("%w: end before start", ErrInvalidDateRange)
		}
		return models.DateRange{Start: start, End: end}, nil
	}

	days := defaultRangeDays
	switch reportType {
	case models.ReportWeekly:
		days = 7
	case models.ReportMonthly, "":
		days = 30
	case models.ReportQuarterly:
		days = 90
	default:
		return models.DateRange{}, fmt.Errorf("%w: unknown report type %q", ErrInvalidDateRange, reportType)
	}
	return models.DateRange{Start: now.Add(-time.Duration(days) * week.Day), End: now}, nil
}

func parseBound(value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(week.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateRange, value)
	}
	if endOfDay {
		t = t.Add(week.Day - time.Millisecond)
	}
	return t, nil
}

// CalculateComprehensive строит полный отчёт за период. protocols — протоколы
// пользователя, injections — его инъекции за период.
func CalculateComprehensive(protocols []models.Protocol, injections []models.Injection, filter models.AnalyticsFilter, now time.Time) models.ComprehensiveAnalytics {
	dr := filter.DateRange
	report := models.ComprehensiveAnalytics{
		DateRange:         dr,
		ProtocolAdherence: []models.ProtocolAdherence{},
		DoseVariance:      []models.DoseVariance{},
	}

	for _, p := range SelectProtocols(protocols, filter) {
		report.ProtocolAdherence = append(report.ProtocolAdherence, CalculateProtocolAdherence(&p, injections, dr, now))
		if v, ok := CalculateDoseVariance(&p, injections, dr); ok {
			report.DoseVariance = append(report.DoseVariance, v)
		}
	}

	inRange := InjectionsInRange(injections, dr)
	report.InjectionSites = CalculateSiteAnalytics(inRange, now)
	report.TimingPatterns = CalculateTimingPatterns(inRange)
	report.KeyInsights = Insights(report)
	report.Recommendations = Recommendations(report)
	return report
}

// SelectProtocols отбирает протоколы из фильтра, активные в течение периода.
func SelectProtocols(protocols []models.Protocol, filter models.AnalyticsFilter) []models.Protocol {
	out := []models.Protocol{}
	for i := range protocols {
		p := protocols[i]
		if !filter.IncludesProtocol(p.ID) || !p.ActiveDuring(filter.DateRange.Start, filter.DateRange.End) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// InjectionsInRange возвращает инъекции, попадающие в период.
func InjectionsInRange(injections []models.Injection, dr models.DateRange) []models.Injection {
	out := []models.Injection{}
	for _, inj := range injections {
		if inj.Timestamp.Before(dr.Start) || inj.Timestamp.After(dr.End) {
			continue
		}
		out = append(out, inj)
	}
	return out
}

// AverageAdherence — среднее соблюдение по протоколам, 0 если протоколов нет.
func AverageAdherence(items []models.ProtocolAdherence) float64 {
	if len(items) == 0 {
		return 0
	}
	var sum float64
	for _, a := range items {
		sum += a.AdherencePercentage
	}
	return sum / float64(len(items))
}

// Insights формирует основные выводы отчёта.
func Insights(r models.ComprehensiveAnalytics) []string {
	insights := []string{}

	avg := AverageAdherence(r.ProtocolAdherence)
	switch {
	case avg >= 90:
		insights = append(insights, fmt.Sprintf("Excellent protocol adherence at %.1f%%", avg))
	case avg >= 75:
		insights = append(insights, fmt.Sprintf("Good protocol adherence at %.1f%%, room for improvement", avg))
	default:
		insights = append(insights, fmt.Sprintf("Protocol adherence needs attention at %.1f%%", avg))
	}

	if n := len(overusedLocations(r.InjectionSites)); n > 0 {
		insights = append(insights, fmt.Sprintf("%d injection sites may be overused", n))
	}

	score := r.TimingPatterns.ConsistencyScore
	switch {
	case score >= 80:
		insights = append(insights, fmt.Sprintf("Very consistent injection timing (%.0f%% consistency)", score))
	case score >= 60:
		insights = append(insights, "Moderately consistent timing, consider setting reminders")
	default:
		insights = append(insights, "Inconsistent injection timing may affect protocol effectiveness")
	}

	return insights
}

// Recommendations формирует рекомендации по результатам отчёта.
func Recommendations(r models.ComprehensiveAnalytics) []string {
	recs := []string{}

	for _, a := range r.ProtocolAdherence {
		if a.AdherencePercentage < 80 {
			recs = append(recs,
				"Set up dose reminders for protocols with low adherence",
				"Consider adjusting protocol schedule to better fit your routine")
			break
		}
	}

	if overused := overusedLocations(r.InjectionSites); len(overused) > 0 {
		recs = append(recs, "Rotate away from overused sites: "+strings.Join(overused, ", "))
	}

	var underused []string
	for _, s := range r.InjectionSites {
		if s.DaysSinceLastUse > 14 {
			underused = append(underused, string(s.Location))
		}
	}
	if len(underused) > 0 {
		recs = append(recs, "Consider using underutilized sites: "+strings.Join(underused, ", "))
	}

	if r.TimingPatterns.ConsistencyScore < 70 {
		recs = append(recs, fmt.Sprintf("Try injecting consistently around %s for better results", r.TimingPatterns.AverageTime))
	}

	return recs
}

func overusedLocations(sites []models.SiteAnalytics) []string {
	var out []string
	for _, s := range sites {
		if s.Overused {
			out = append(out, string(s.Location))
		}
	}
	return out
}

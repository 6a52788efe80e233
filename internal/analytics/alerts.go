package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/magabrotheeeer/peptide-tracker/internal/lib/week"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

// Время жизни уведомлений.
const (
	weekAlertTTL   = 7 * week.Day
	missedAlertTTL = 3 * week.Day
)

const (
	protocolsURL    = "/dashboard/protocols"
	logInjectionURL = "/injections/log"
)

// rotationSites — места, которые предлагаются взамен перегруженного.
var rotationSites = []string{
	"abdomen left", "abdomen right",
	"thigh left", "thigh right",
	"arm left", "arm right",
}

// SiteUsage — использование места инъекции за период.
// ConsecutiveUses — длина последней непрерывной серии инъекций в это место.
type SiteUsage struct {
	Location        models.InjectionLocation
	Side            models.Side
	ConsecutiveUses int
	TotalUses       int
	LastUsed        time.Time
}

// Key возвращает ключ места вида "abdomen-left".
func (u SiteUsage) Key() string {
	return models.InjectionSite{Location: u.Location, Side: u.Side}.Key()
}

func ptr[T any](v T) *T {
	return &v
}

func newAlert(userID string, protocolID string, now time.Time, ttl time.Duration) models.Alert {
	a := models.Alert{
		UserID:    userID,
		ExpiresAt: ptr(now.Add(ttl)),
		CreatedAt: now,
	}
	if protocolID != "" {
		a.ProtocolID = ptr(protocolID)
	}
	return a
}

func doseUnitOf(p models.ProtocolProgress) string {
	if p.DoseUnit != "" {
		return string(p.DoseUnit)
	}
	return string(models.UnitMg)
}

// DoseLimitAlerts формирует предупреждения о приближении к недельной дозе и её превышении.
// Протоколы без целевой дозы не рассматриваются.
func DoseLimitAlerts(userID string, wp models.WeeklyProgress, rule models.DoseLimitRule, now time.Time) []models.Alert {
	if !rule.Enabled {
		return nil
	}

	var alerts []models.Alert
	for _, p := range wp.Protocols {
		if p.TargetDose <= 0 || p.ProgressPercentage < rule.Threshold {
			continue
		}

		a := newAlert(userID, p.ProtocolID, now, weekAlertTTL)
		a.Window = week.DayKey(wp.WeekStart)
		a.ActionURL = protocolsURL
		a.Metadata = models.AlertMetadata{
			ProtocolID:   p.ProtocolID,
			PeptideID:    p.PeptideID,
			CurrentValue: ptr(p.ProgressPercentage),
			TargetValue:  ptr(100.0),
		}

		if p.ProgressPercentage >= 100 {
			a.AlertType = models.AlertDoseLimitExceeded
			a.Severity = models.SeverityError
			a.Title = fmt.Sprintf("Weekly target exceeded for %s", p.PeptideName)
			a.Message = fmt.Sprintf("You've exceeded your weekly target (%.0f%%). "+
				"Consider adjusting your protocol or consulting with your healthcare provider.", p.RawPercentage)
			a.ActionText = "Manage Protocol"
		} else {
			a.AlertType = models.AlertDoseLimitWarning
			a.Severity = models.SeverityWarning
			a.Title = fmt.Sprintf("Approaching dose limit for %s", p.PeptideName)
			a.Message = fmt.Sprintf("You've reached %.0f%% of your weekly target. %.2f %s remaining.",
				p.ProgressPercentage, p.RemainingDose, doseUnitOf(p))
			a.ActionText = "View Progress"
			a.Metadata.Threshold = ptr(rule.Threshold)
		}
		alerts = append(alerts, a)
	}
	return alerts
}

// MissedDoseAlerts формирует уведомления о пропущенных приёмах текущей недели.
// Приём считается пропущенным, если с ожидаемой даты прошло больше льготного
// периода и в этот календарный день не было инъекции пептида протокола.
func MissedDoseAlerts(userID string, protocols []models.Protocol, injections []models.Injection, rule models.MissedDoseRule, now time.Time) []models.Alert {
	if !rule.Enabled {
		return nil
	}

	grace := time.Duration(rule.GracePeriodHours) * time.Hour
	weekStart := week.Start(now)

	var alerts []models.Alert
	for i := range protocols {
		p := &protocols[i]
		for _, expected := range ExpectedDoseDates(p, weekStart) {
			overdue := now.Sub(expected)
			if overdue <= grace || hasInjectionOn(injections, p.PeptideID, expected) {
				continue
			}

			hours := math.Round(overdue.Hours())
			unit := "hours"
			if hours == 1 {
				unit = "hour"
			}

			a := newAlert(userID, p.ID, now, missedAlertTTL)
			a.AlertType = models.AlertMissedDose
			a.Severity = models.SeverityWarning
			a.Window = week.DayKey(expected)
			a.Title = fmt.Sprintf("Missed dose: %s", p.PeptideName)
			a.Message = fmt.Sprintf("Your %s dose was due %.0f %s ago. Consider logging it now to stay on track.",
				p.PeptideName, hours, unit)
			a.ActionText = "Log Injection"
			a.ActionURL = logInjectionURL
			a.Metadata = models.AlertMetadata{
				ProtocolID:   p.ID,
				PeptideID:    p.PeptideID,
				CurrentValue: ptr(round2(overdue.Hours())),
			}
			alerts = append(alerts, a)
		}
	}
	return alerts
}

// CalculateSiteUsage группирует инъекции по местам и считает последнюю серию подряд для каждого.
func CalculateSiteUsage(injections []models.Injection) []SiteUsage {
	sorted := make([]models.Injection, len(injections))
	copy(sorted, injections)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	usage := make(map[string]*SiteUsage)
	var order []string
	var runKey string
	runLen := 0
	for _, inj := range sorted {
		key := inj.InjectionSite.Key()
		u, ok := usage[key]
		if !ok {
			side := inj.InjectionSite.Side
			if side == "" {
				side = models.SideCenter
			}
			u = &SiteUsage{Location: inj.InjectionSite.Location, Side: side}
			usage[key] = u
			order = append(order, key)
		}
		u.TotalUses++
		if inj.Timestamp.After(u.LastUsed) {
			u.LastUsed = inj.Timestamp
		}

		if key == runKey {
			runLen++
		} else {
			runKey, runLen = key, 1
		}
		u.ConsecutiveUses = runLen
	}

	result := make([]SiteUsage, 0, len(order))
	for _, key := range order {
		result = append(result, *usage[key])
	}
	return result
}

// RotationSuggestions предлагает до трёх других мест для инъекции.
func RotationSuggestions(location models.InjectionLocation, side models.Side) []string {
	current := fmt.Sprintf("%s %s", location, side)
	var out []string
	for _, s := range rotationSites {
		if s == current {
			continue
		}
		out = append(out, s)
		if len(out) == 3 {
			break
		}
	}
	return out
}

// SiteRotationAlerts напоминает о смене места, если последняя серия инъекций
// в одно место достигла maxConsecutiveUses. injections — инъекции за последние 7 дней.
func SiteRotationAlerts(userID string, injections []models.Injection, rule models.SiteRotationRule, now time.Time) []models.Alert {
	if !rule.Enabled {
		return nil
	}

	var alerts []models.Alert
	for _, site := range CalculateSiteUsage(injections) {
		if site.ConsecutiveUses < rule.MaxConsecutiveUses {
			continue
		}

		a := newAlert(userID, "", now, weekAlertTTL)
		a.AlertType = models.AlertSiteRotationReminder
		a.Severity = models.SeverityInfo
		a.Window = site.Key() + ":" + week.DayKey(now)
		a.Title = "Consider rotating injection sites"
		a.Message = fmt.Sprintf("You've used %s (%s) %d times recently. Try rotating to avoid tissue damage.",
			site.Location, site.Side, site.ConsecutiveUses)
		a.ActionText = "View Suggestions"
		a.ActionURL = logInjectionURL
		a.Metadata = models.AlertMetadata{
			CurrentValue: ptr(float64(site.ConsecutiveUses)),
			TargetValue:  ptr(float64(rule.MaxConsecutiveUses)),
			Suggestion:   strings.Join(RotationSuggestions(site.Location, site.Side), ", "),
		}
		alerts = append(alerts, a)
	}
	return alerts
}

// MilestoneAlerts поздравляет с достижением этапов недельного плана.
// Этап 100 порождает уведомление о завершении.
func MilestoneAlerts(userID string, wp models.WeeklyProgress, rule models.MilestoneRule, now time.Time) []models.Alert {
	if !rule.Enabled {
		return nil
	}

	var alerts []models.Alert
	for _, p := range wp.Protocols {
		if p.TargetDose <= 0 {
			continue
		}
		for _, milestone := range rule.Milestones {
			if p.ProgressPercentage < milestone {
				continue
			}

			a := newAlert(userID, p.ProtocolID, now, weekAlertTTL)
			a.Severity = models.SeveritySuccess
			a.Window = fmt.Sprintf("%s:%g", week.DayKey(wp.WeekStart), milestone)
			a.ActionText = "View Progress"
			a.ActionURL = protocolsURL
			a.Metadata = models.AlertMetadata{
				ProtocolID:   p.ProtocolID,
				PeptideID:    p.PeptideID,
				CurrentValue: ptr(milestone),
				TargetValue:  ptr(100.0),
			}

			if milestone >= 100 {
				a.AlertType = models.AlertProtocolComplete
				a.Title = fmt.Sprintf("Weekly target completed: %s", p.PeptideName)
				a.Message = fmt.Sprintf("Congratulations! You've completed your weekly target for %s.", p.PeptideName)
			} else {
				a.AlertType = models.AlertProtocolMilestone
				a.Title = fmt.Sprintf("%g%% progress on %s", milestone, p.PeptideName)
				a.Message = fmt.Sprintf("Great job! You've reached %g%% of your weekly target for %s.", milestone, p.PeptideName)
			}
			alerts = append(alerts, a)
		}
	}
	return alerts
}

// Package report рендерит аналитический отчёт в файлы для выгрузки.
package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/peptide-tracker/internal/analytics"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/week"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

// Format — формат выгрузки.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatText Format = "txt"
)

// ErrUnsupportedFormat возвращается для неизвестного формата.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Document — готовый к отдаче файл.
type Document struct {
	FileName    string
	ContentType string
	Body        []byte
}

// ParseFormat разбирает значение query-параметра format, пустое значение означает csv.
func ParseFormat(value string) (Format, error) {
	switch Format(value) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF, FormatText:
		return Format(value), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, value)
	}
}

// Render рендерит отчёт в заданном формате. pdf отдаётся текстовым отчётом.
func Render(format Format, a *models.ComprehensiveAnalytics, generatedAt time.Time) (*Document, error) {
	switch format {
	case FormatCSV:
		body, err := CSV(a)
		if err != nil {
			return nil, err
		}
		return &Document{FileName: "peptide-analytics.csv", ContentType: "text/csv", Body: body}, nil
	case FormatPDF, FormatText:
		return &Document{
			FileName:    "peptide-analytics-report.txt",
			ContentType: "text/plain",
			Body:        Text(a, generatedAt),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func fixed(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// CSV рендерит отчёт в CSV из нескольких секций, разделённых пустой строкой.
func CSV(a *models.ComprehensiveAnalytics) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"PROTOCOL ADHERENCE"},
		{"Protocol Name", "Peptide", "Adherence %", "Planned Doses", "Actual Doses", "Missed Doses",
			"Current Streak (days)", "Longest Streak (days)", "Consistency Score"},
	}
	for _, p := range a.ProtocolAdherence {
		rows = append(rows, []string{
			p.ProtocolName,
			p.PeptideName,
			fixed(p.AdherencePercentage, 1),
			strconv.Itoa(p.TotalPlannedDoses),
			strconv.Itoa(p.ActualDoses),
			strconv.Itoa(p.MissedDoses),
			strconv.Itoa(p.StreakDays),
			strconv.Itoa(p.LongestStreak),
			fixed(p.DoseConsistencyScore, 1),
		})
	}

	rows = append(rows, nil,
		[]string{"INJECTION SITES"},
		[]string{"Location", "Side", "Usage Count", "Usage %", "Days Since Last Use", "Overused", "Needs Rotation"},
	)
	for _, s := range a.InjectionSites {
		rows = append(rows, []string{
			string(s.Location),
			string(s.Side),
			strconv.Itoa(s.UsageCount),
			fixed(s.UsagePercentage, 1),
			strconv.Itoa(s.DaysSinceLastUse),
			yesNo(s.Overused),
			yesNo(s.RecommendedRotation),
		})
	}

	tp := a.TimingPatterns
	rows = append(rows, nil,
		[]string{"TIMING PATTERNS"},
		[]string{"Consistency Score", fixed(tp.ConsistencyScore, 1) + "%"},
		[]string{"Average Time", tp.AverageTime},
		[]string{"Optimal Window", tp.OptimalTimeWindow.Start + " - " + tp.OptimalTimeWindow.End},
		nil,
		[]string{"Most Common Times"},
		[]string{"Time", "Count"},
	)
	for _, t := range tp.MostCommonTimes {
		rows = append(rows, []string{t.Time, strconv.Itoa(t.Count)})
	}

	rows = append(rows, nil,
		[]string{"DOSE VARIANCE"},
		[]string{"Protocol Name", "Target Dose", "Average Dose", "Accuracy %", "Standard Deviation", "Trend"},
	)
	for _, v := range a.DoseVariance {
		rows = append(rows, []string{
			v.ProtocolName,
			fixed(v.TargetDose, 2),
			fixed(v.AverageDose, 2),
			fixed(v.AccuracyPercentage, 1),
			fixed(v.StandardDeviation, 2),
			string(v.Trend),
		})
	}

	rows = append(rows, nil, []string{"KEY INSIGHTS"})
	for _, s := range a.KeyInsights {
		rows = append(rows, []string{s})
	}
	rows = append(rows, nil, []string{"RECOMMENDATIONS"})
	for _, s := range a.Recommendations {
		rows = append(rows, []string{s})
	}

	for _, row := range rows {
		if row == nil {
			// csv.Writer не пишет пустую запись, разделитель секций добавляем сами
			w.Flush()
			buf.WriteByte('\n')
			continue
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("report.CSV: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("report.CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// Text рендерит отчёт в читаемый текст.
func Text(a *models.ComprehensiveAnalytics, generatedAt time.Time) []byte {
	var b bytes.Buffer

	heading := func(title string) {
		fmt.Fprintf(&b, "%s\n%s\n", title, strings.Repeat("=", len(title)))
	}

	fmt.Fprintf(&b, "PEPTIDE TRACKER ANALYTICS REPORT\n")
	fmt.Fprintf(&b, "Generated: %s\n", generatedAt.UTC().Format(time.RFC1123))
	fmt.Fprintf(&b, "Period: %s - %s\n\n",
		a.DateRange.Start.UTC().Format(week.DateLayout), a.DateRange.End.UTC().Format(week.DateLayout))

	heading("SUMMARY")
	fmt.Fprintf(&b, "Average Protocol Adherence: %.1f%%\n", analytics.AverageAdherence(a.ProtocolAdherence))
	fmt.Fprintf(&b, "Timing Consistency: %.1f%%\n", a.TimingPatterns.ConsistencyScore)
	fmt.Fprintf(&b, "Injection Sites Used: %d\n", len(a.InjectionSites))
	fmt.Fprintf(&b, "Key Insights: %d\n\n", len(a.KeyInsights))

	heading("PROTOCOL ADHERENCE")
	for _, p := range a.ProtocolAdherence {
		fmt.Fprintf(&b, "%s (%s): %.1f%% adherence\n", p.ProtocolName, p.PeptideName, p.AdherencePercentage)
		fmt.Fprintf(&b, "  - %d/%d doses completed\n", p.ActualDoses, p.TotalPlannedDoses)
		fmt.Fprintf(&b, "  - Current streak: %d days\n\n", p.StreakDays)
	}

	heading("KEY INSIGHTS")
	for _, s := range a.KeyInsights {
		fmt.Fprintf(&b, "* %s\n", s)
	}

	b.WriteByte('\n')
	heading("RECOMMENDATIONS")
	for _, s := range a.Recommendations {
		fmt.Fprintf(&b, "* %s\n", s)
	}
	return b.Bytes()
}

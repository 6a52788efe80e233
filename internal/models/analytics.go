package models

import "time"

// ReportType — предустановленный период аналитического отчёта.
type ReportType string

const (
	ReportWeekly    ReportType = "weekly"
	ReportMonthly   ReportType = "monthly"
	ReportQuarterly ReportType = "quarterly"
)

// DateRange — интервал, за который строится отчёт.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AnalyticsFilter — параметры аналитического запроса.
type AnalyticsFilter struct {
	DateRange   DateRange
	ProtocolIDs []string
}

// IncludesProtocol сообщает, входит ли протокол в фильтр. Пустой фильтр включает все.
func (f AnalyticsFilter) IncludesProtocol(id string) bool {
	if len(f.ProtocolIDs) == 0 {
		return true
	}
	for _, p := range f.ProtocolIDs {
		if p == id {
			return true
		}
	}
	return false
}

// ProtocolAdherence — соблюдение протокола за период.
type ProtocolAdherence struct {
	ProtocolID              string  `json:"protocolId"`
	ProtocolName            string  `json:"protocolName"`
	PeptideName             string  `json:"peptideName"`
	AdherencePercentage     float64 `json:"adherencePercentage"`
	TotalPlannedDoses       int     `json:"totalPlannedDoses"`
	ActualDoses             int     `json:"actualDoses"`
	MissedDoses             int     `json:"missedDoses"`
	StreakDays              int     `json:"streakDays"`
	LongestStreak           int     `json:"longestStreak"`
	AverageTimeBetweenDoses float64 `json:"averageTimeBetweenDoses"`
	DoseConsistencyScore    float64 `json:"doseConsistencyScore"`
}

// SiteAnalytics — статистика использования места инъекции.
type SiteAnalytics struct {
	Location            InjectionLocation `json:"location"`
	Side                Side              `json:"side"`
	UsageCount          int               `json:"usageCount"`
	UsagePercentage     float64           `json:"usagePercentage"`
	LastUsed            time.Time         `json:"lastUsed"`
	DaysSinceLastUse    int               `json:"daysSinceLastUse"`
	RecommendedRotation bool              `json:"recommendedRotation"`
	Overused            bool              `json:"overused"`
}

// TimeWindow — интервал времени суток в формате "15:04".
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// TimeCount — час суток и число инъекций в этот час.
type TimeCount struct {
	Time  string `json:"time"`
	Count int    `json:"count"`
}

// DayPattern — усреднённое время инъекций для дня недели.
type DayPattern struct {
	Day         string  `json:"day"`
	AverageTime string  `json:"averageTime"`
	Consistency float64 `json:"consistency"`
}

// TimingPatterns — анализ времени суток, в которое делаются инъекции.
type TimingPatterns struct {
	OptimalTimeWindow TimeWindow   `json:"optimalTimeWindow"`
	ConsistencyScore  float64      `json:"consistencyScore"`
	AverageTime       string       `json:"averageTime"`
	MostCommonTimes   []TimeCount  `json:"mostCommonTimes"`
	DayOfWeekPatterns []DayPattern `json:"dayOfWeekPatterns"`
}

// DoseTrend — направление изменения дозы.
type DoseTrend string

const (
	TrendStable     DoseTrend = "stable"
	TrendIncreasing DoseTrend = "increasing"
	TrendDecreasing DoseTrend = "decreasing"
)

// DoseVariance — разброс фактических доз относительно целевой.
type DoseVariance struct {
	ProtocolID         string      `json:"protocolId"`
	ProtocolName       string      `json:"protocolName"`
	TargetDose         float64     `json:"targetDose"`
	AverageDose        float64     `json:"averageDose"`
	Variance           float64     `json:"variance"`
	StandardDeviation  float64     `json:"standardDeviation"`
	AccuracyPercentage float64     `json:"accuracyPercentage"`
	HighVarianceDates  []time.Time `json:"highVarianceDates"`
	Trend              DoseTrend   `json:"trend"`
}

// ComprehensiveAnalytics — полный отчёт со всеми разделами, выводами и рекомендациями.
type ComprehensiveAnalytics struct {
	DateRange         DateRange           `json:"dateRange"`
	ProtocolAdherence []ProtocolAdherence `json:"protocolAdherence"`
	InjectionSites    []SiteAnalytics     `json:"injectionSites"`
	TimingPatterns    TimingPatterns      `json:"timingPatterns"`
	DoseVariance      []DoseVariance      `json:"doseVariance"`
	KeyInsights       []string            `json:"keyInsights"`
	Recommendations   []string            `json:"recommendations"`
}

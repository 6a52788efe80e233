package models

import "time"

// ProgressStatus — оценка выполнения недельного плана.
type ProgressStatus string

const (
	StatusOnTrack  ProgressStatus = "on_track"
	StatusBehind   ProgressStatus = "behind"
	StatusAhead    ProgressStatus = "ahead"
	StatusComplete ProgressStatus = "complete"
)

// ProtocolProgress — прогресс одного протокола за неделю.
type ProtocolProgress struct {
	ProtocolID         string         `json:"protocolId"`
	ProtocolName       string         `json:"protocolName"`
	PeptideID          string         `json:"peptideId"`
	PeptideName        string         `json:"peptideName"`
	TargetDose         float64        `json:"targetDose"`
	CurrentDose        float64        `json:"currentDose"`
	ProgressPercentage float64        `json:"progressPercentage"`
	RawPercentage      float64        `json:"-"`
	RemainingDose      float64        `json:"remainingDose"`
	DaysRemaining      int            `json:"daysRemaining"`
	Status             ProgressStatus `json:"status"`
	SuggestedNextDose  float64        `json:"suggestedNextDose"`
	LastInjectionDate  *time.Time     `json:"lastInjectionDate"`
	WeeklyInjections   []Injection    `json:"weeklyInjections"`
	ScheduleType       ScheduleType   `json:"scheduleType"`
	DoseUnit           DoseUnit       `json:"doseUnit,omitempty"`
}

// WeeklyProgress — агрегат прогресса по всем активным протоколам за неделю.
type WeeklyProgress struct {
	WeekStart            time.Time          `json:"weekStart"`
	WeekEnd              time.Time          `json:"weekEnd"`
	Protocols            []ProtocolProgress `json:"protocols"`
	OverallProgress      float64            `json:"overallProgress"`
	TotalActiveProtocols int                `json:"totalActiveProtocols"`
	OnTrackProtocols     int                `json:"onTrackProtocols"`
	BehindProtocols      int                `json:"behindProtocols"`
}

// WeeklyTrend — точка тренда прогресса.
type WeeklyTrend struct {
	WeekStart      time.Time `json:"weekStart"`
	TotalProgress  float64   `json:"totalProgress"`
	ProtocolCount  int       `json:"protocolCount"`
	AdherenceScore float64   `json:"adherenceScore"`
}

// DailyActivity — активность пользователя за один день.
type DailyActivity struct {
	Date           string      `json:"date"`
	Injections     []Injection `json:"injections"`
	InjectionCount int         `json:"injectionCount"`
	UniquePeptides int         `json:"uniquePeptides"`
	Sites          []string    `json:"sites"`
}

// WeeklySummary — сводка по инъекциям за последние 7 дней.
type WeeklySummary struct {
	StartDate       string          `json:"startDate"`
	EndDate         string          `json:"endDate"`
	TotalInjections int             `json:"totalInjections"`
	UniquePeptides  int             `json:"uniquePeptides"`
	SitesUsed       []string        `json:"sitesUsed"`
	DailyActivity   []DailyActivity `json:"dailyActivity"`
	MissedDoses     []string        `json:"missedDoses"`
	AdherenceScore  float64         `json:"adherenceScore"`
	WeeklyTrend     string          `json:"weeklyTrend"`
}

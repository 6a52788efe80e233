package models

import "time"

// MetricType — тип показателя самочувствия.
type MetricType string

const (
	MetricWeight       MetricType = "weight"
	MetricBodyFat      MetricType = "body_fat"
	MetricMuscleMass   MetricType = "muscle_mass"
	MetricEnergyLevel  MetricType = "energy_level"
	MetricSleepQuality MetricType = "sleep_quality"
	MetricMood         MetricType = "mood"
	MetricOther        MetricType = "other"
)

// WellnessMetric — замер показателя самочувствия, опционально привязанный к инъекции.
type WellnessMetric struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	MetricType  MetricType `json:"metricType"`
	Value       float64    `json:"value"`
	Unit        string     `json:"unit"`
	Timestamp   time.Time  `json:"timestamp"`
	Notes       *string    `json:"notes"`
	InjectionID *string    `json:"injectionId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// WellnessFilter — параметры выборки показателей.
type WellnessFilter struct {
	MetricType  MetricType
	From        *time.Time
	To          *time.Time
	InjectionID string
	Limit       int
	Offset      int
}

// DummyWellnessMetric используется для приёма показателя из JSON-запроса.
type DummyWellnessMetric struct {
	MetricType  MetricType `json:"metricType" validate:"required,oneof=weight body_fat muscle_mass energy_level sleep_quality mood other"`
	Value       float64    `json:"value"`
	Unit        string     `json:"unit" validate:"required,max=20"`
	Timestamp   time.Time  `json:"timestamp" validate:"required"`
	Notes       *string    `json:"notes" validate:"omitempty,max=2000"`
	InjectionID *string    `json:"injectionId" validate:"omitempty,uuid"`
}

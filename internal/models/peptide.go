package models

import (
	"database/sql/driver"
	"time"
)

// PeptideCategory — категория пептида.
type PeptideCategory string

const (
	CategoryWeightLoss     PeptideCategory = "weight_loss"
	CategoryMuscleBuilding PeptideCategory = "muscle_building"
	CategoryRecovery       PeptideCategory = "recovery"
	CategoryLongevity      PeptideCategory = "longevity"
	CategoryCognitive      PeptideCategory = "cognitive"
	CategoryOther          PeptideCategory = "other"
)

// DoseUnit — единица измерения дозы.
type DoseUnit string

const (
	UnitMg    DoseUnit = "mg"
	UnitMcg   DoseUnit = "mcg"
	UnitIU    DoseUnit = "iu"
	UnitMl    DoseUnit = "ml"
	UnitUnits DoseUnit = "units"
)

// DoseFrequency — типичная частота приёма.
type DoseFrequency string

const (
	FrequencyDaily       DoseFrequency = "daily"
	FrequencyTwiceDaily  DoseFrequency = "twice_daily"
	FrequencyWeekly      DoseFrequency = "weekly"
	FrequencyTwiceWeekly DoseFrequency = "twice_weekly"
	FrequencyMonthly     DoseFrequency = "monthly"
	FrequencyAsNeeded    DoseFrequency = "as_needed"
)

// DoseRange описывает типичный диапазон дозировки пептида.
type DoseRange struct {
	Min       float64       `json:"min" validate:"required,gt=0"`
	Max       float64       `json:"max" validate:"required,gt=0,gtefield=Min"`
	Unit      DoseUnit      `json:"unit" validate:"required,oneof=mg mcg iu ml units"`
	Frequency DoseFrequency `json:"frequency" validate:"required,oneof=daily twice_daily weekly twice_weekly monthly as_needed"`
}

// Scan реализует sql.Scanner.
func (d *DoseRange) Scan(src any) error { return scanJSONB(src, d) }

// Value реализует driver.Valuer.
func (d DoseRange) Value() (driver.Value, error) { return valueJSONB(d) }

// StringList — список строк, хранящийся в jsonb-колонке.
type StringList []string

// Scan реализует sql.Scanner.
func (s *StringList) Scan(src any) error { return scanJSONB(src, s) }

// Value реализует driver.Valuer. nil сохраняется как пустой массив.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return valueJSONB([]string(s))
}

// Peptide — пептид пользователя (UserID != nil) или глобальный шаблон (UserID == nil).
type Peptide struct {
	ID               string          `json:"id"`
	UserID           *string         `json:"userId"`
	Name             string          `json:"name"`
	IsCustom         bool            `json:"isCustom"`
	Category         PeptideCategory `json:"category"`
	TypicalDoseRange DoseRange       `json:"typicalDoseRange"`
	SafetyNotes      StringList      `json:"safetyNotes"`
	ContentID        *string         `json:"contentId"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// OwnedBy сообщает, принадлежит ли пептид пользователю.
func (p *Peptide) OwnedBy(userID string) bool {
	return p.UserID != nil && *p.UserID == userID
}

// VisibleTo сообщает, может ли пользователь использовать пептид (свой или глобальный).
func (p *Peptide) VisibleTo(userID string) bool {
	return p.UserID == nil || *p.UserID == userID
}

// PeptideTemplate — запись глобального каталога пептидов.
type PeptideTemplate struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Category         PeptideCategory `json:"category"`
	TypicalDoseRange DoseRange       `json:"typicalDoseRange"`
	SafetyNotes      StringList      `json:"safetyNotes"`
	ContentID        *string         `json:"contentId"`
	Description      *string         `json:"description"`
	IsActive         bool            `json:"isActive"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// PeptideFilter — параметры выборки пептидов пользователя.
type PeptideFilter struct {
	Category *PeptideCategory
	IsCustom *bool
	Search   string
}

// DummyPeptide используется для приёма данных пептида из JSON-запроса.
type DummyPeptide struct {
	Name             string          `json:"name" validate:"required,min=1,max=100"`
	Category         PeptideCategory `json:"category" validate:"required,oneof=weight_loss muscle_building recovery longevity cognitive other"`
	TypicalDoseRange DoseRange       `json:"typicalDoseRange" validate:"required"`
	SafetyNotes      []string        `json:"safetyNotes" validate:"omitempty,dive,max=500"`
	ContentID        *string         `json:"contentId"`
}

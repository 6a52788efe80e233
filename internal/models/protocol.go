package models

import (
	"database/sql/driver"
	"strings"
	"time"
)

// ScheduleType — тип расписания протокола.
type ScheduleType string

const (
	ScheduleDaily         ScheduleType = "daily"
	ScheduleWeekly        ScheduleType = "weekly"
	ScheduleEveryOtherDay ScheduleType = "every_other_day"
	ScheduleCustom        ScheduleType = "custom"
)

// ScheduleConfig — дополнительные настройки расписания.
// Days содержит названия дней недели в нижнем регистре ("monday", ...).
type ScheduleConfig struct {
	Days []string `json:"days,omitempty" validate:"omitempty,dive,oneof=sunday monday tuesday wednesday thursday friday saturday"`
}

// Scan реализует sql.Scanner.
func (c *ScheduleConfig) Scan(src any) error { return scanJSONB(src, c) }

// Value реализует driver.Valuer.
func (c ScheduleConfig) Value() (driver.Value, error) { return valueJSONB(c) }

// Weekdays переводит Days в time.Weekday, неизвестные названия пропускаются.
func (c ScheduleConfig) Weekdays() []time.Weekday {
	var out []time.Weekday
	for _, d := range c.Days {
		if wd, ok := ParseWeekday(d); ok {
			out = append(out, wd)
		}
	}
	return out
}

// ParseWeekday разбирает название дня недели без учёта регистра.
func ParseWeekday(name string) (time.Weekday, bool) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.EqualFold(wd.String(), name) {
			return wd, true
		}
	}
	return 0, false
}

// Protocol — пользовательский план приёма пептида.
type Protocol struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId"`
	PeptideID      string         `json:"peptideId"`
	PeptideName    string         `json:"peptideName,omitempty"`
	Name           string         `json:"name"`
	WeeklyTarget   *float64       `json:"weeklyTarget"`
	DailyTarget    *float64       `json:"dailyTarget"`
	ScheduleType   ScheduleType   `json:"scheduleType"`
	ScheduleConfig ScheduleConfig `json:"scheduleConfig"`
	StartDate      time.Time      `json:"startDate"`
	EndDate        *time.Time     `json:"endDate"`
	IsActive       bool           `json:"isActive"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// ActiveDuring сообщает, активен ли протокол хотя бы частично в интервале [from, to].
func (p *Protocol) ActiveDuring(from, to time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.StartDate.After(to) {
		return false
	}
	if p.EndDate != nil && p.EndDate.Before(from) {
		return false
	}
	return true
}

// Matches сообщает, относится ли инъекция к протоколу: либо она явно привязана
// к протоколу, либо не привязана ни к какому и сделана тем же пептидом.
func (p *Protocol) Matches(inj *Injection) bool {
	if inj.ProtocolID != nil {
		return *inj.ProtocolID == p.ID
	}
	return inj.PeptideID == p.PeptideID
}

// DummyProtocol используется для приёма данных протокола из JSON-запроса.
type DummyProtocol struct {
	PeptideID      string         `json:"peptideId" validate:"required,uuid"`
	Name           string         `json:"name" validate:"required,min=1,max=100"`
	WeeklyTarget   *float64       `json:"weeklyTarget" validate:"omitempty,gt=0"`
	DailyTarget    *float64       `json:"dailyTarget" validate:"omitempty,gt=0"`
	ScheduleType   ScheduleType   `json:"scheduleType" validate:"required,oneof=daily weekly every_other_day custom"`
	ScheduleConfig ScheduleConfig `json:"scheduleConfig"`
	StartDate      time.Time      `json:"startDate" validate:"required"`
	EndDate        *time.Time     `json:"endDate"`
	IsActive       *bool          `json:"isActive"`
}

// ScheduleValid проверяет инвариант: custom-расписание требует непустой список дней,
// а дата окончания не раньше даты начала.
func (d DummyProtocol) ScheduleValid() bool {
	if d.ScheduleType == ScheduleCustom && len(d.ScheduleConfig.Weekdays()) == 0 {
		return false
	}
	if d.EndDate != nil && d.EndDate.Before(d.StartDate) {
		return false
	}
	return true
}

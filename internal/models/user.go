// Package models содержит доменные структуры трекера пептидной терапии:
// пользователей, пептиды, инъекции, протоколы, уведомления и аналитические отчёты,
// а также DTO для приёма данных из JSON-запросов.
package models

import (
	"database/sql/driver"
	"time"
)

// SubscriptionTier — тарифный план пользователя.
type SubscriptionTier string

const (
	TierFree    SubscriptionTier = "free"
	TierPremium SubscriptionTier = "premium"
	TierExpert  SubscriptionTier = "expert"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID               string           `json:"id"`
	Email            string           `json:"email"`
	Username         string           `json:"username"`
	PasswordHash     string           `json:"-"`
	Preferences      UserPreferences  `json:"preferences"`
	SubscriptionTier SubscriptionTier `json:"subscriptionTier"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// UnitPreferences — предпочитаемые единицы измерения.
type UnitPreferences struct {
	Weight string `json:"weight,omitempty" validate:"omitempty,oneof=kg lbs"`
	Dose   string `json:"dose,omitempty" validate:"omitempty,oneof=mg mcg"`
}

// ReminderPreferences — общие флаги напоминаний из профиля.
type ReminderPreferences struct {
	InjectionReminders bool `json:"injectionReminders"`
	WeeklyReports      bool `json:"weeklyReports"`
}

// UserPreferences хранится в колонке users.preferences (jsonb).
type UserPreferences struct {
	Timezone      string               `json:"timezone,omitempty"`
	Units         *UnitPreferences     `json:"units,omitempty" validate:"omitempty"`
	Notifications *ReminderPreferences `json:"notifications,omitempty"`
	Theme         string               `json:"theme,omitempty" validate:"omitempty,oneof=dark light"`
}

// Scan реализует sql.Scanner.
func (p *UserPreferences) Scan(src any) error { return scanJSONB(src, p) }

// Value реализует driver.Valuer.
func (p UserPreferences) Value() (driver.Value, error) { return valueJSONB(p) }

// DummyUser используется для приёма данных регистрации из JSON-запроса.
type DummyUser struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,alphanum,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

// DummyLogin используется для приёма учётных данных при входе.
type DummyLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

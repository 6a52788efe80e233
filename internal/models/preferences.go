package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// DeliveryMethod — канал доставки уведомления.
type DeliveryMethod string

const (
	DeliveryInApp DeliveryMethod = "in_app"
	DeliveryEmail DeliveryMethod = "email"
	DeliveryPush  DeliveryMethod = "push"
)

// DoseLimitRule — настройки уведомлений о превышении недельной дозы.
type DoseLimitRule struct {
	Enabled         bool             `json:"enabled"`
	Threshold       float64          `json:"threshold" validate:"gte=0,lte=100"`
	DeliveryMethods []DeliveryMethod `json:"deliveryMethods" validate:"omitempty,dive,oneof=in_app email push"`
}

// MissedDoseRule — настройки уведомлений о пропущенных дозах.
type MissedDoseRule struct {
	Enabled          bool             `json:"enabled"`
	GracePeriodHours int              `json:"gracePeriodHours" validate:"gte=0,lte=72"`
	DeliveryMethods  []DeliveryMethod `json:"deliveryMethods" validate:"omitempty,dive,oneof=in_app email push"`
}

// SiteRotationRule — настройки напоминаний о смене места инъекции.
type SiteRotationRule struct {
	Enabled            bool             `json:"enabled"`
	MaxConsecutiveUses int              `json:"maxConsecutiveUses" validate:"gte=1,lte=20"`
	DeliveryMethods    []DeliveryMethod `json:"deliveryMethods" validate:"omitempty,dive,oneof=in_app email push"`
}

// MilestoneRule — настройки уведомлений о достижении этапов протокола.
type MilestoneRule struct {
	Enabled         bool             `json:"enabled"`
	Milestones      []float64        `json:"milestones" validate:"omitempty,dive,gt=0,lte=100"`
	DeliveryMethods []DeliveryMethod `json:"deliveryMethods" validate:"omitempty,dive,oneof=in_app email push"`
}

// QuietHours — интервал, в который e-mail уведомления не отправляются.
// Время задаётся в формате "15:04" (UTC).
type QuietHours struct {
	Enabled   bool   `json:"enabled"`
	StartTime string `json:"startTime" validate:"required,len=5"`
	EndTime   string `json:"endTime" validate:"required,len=5"`
}

// Contains сообщает, попадает ли момент t в тихие часы.
// Интервал может переходить через полночь (22:00–08:00).
func (q QuietHours) Contains(t time.Time) bool {
	if !q.Enabled {
		return false
	}
	start, err := clockMinutes(q.StartTime)
	if err != nil {
		return false
	}
	end, err := clockMinutes(q.EndTime)
	if err != nil {
		return false
	}
	t = t.UTC()
	now := t.Hour()*60 + t.Minute()
	if start == end {
		return false
	}
	if start < end {
		return now >= start && now < end
	}
	return now >= start || now < end
}

func clockMinutes(s string) (int, error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// NotificationPreferences — настройки уведомлений пользователя (users.notification_preferences).
type NotificationPreferences struct {
	DoseLimit          DoseLimitRule    `json:"doseLimit"`
	MissedDose         MissedDoseRule   `json:"missedDose"`
	SiteRotation       SiteRotationRule `json:"siteRotation"`
	ProtocolMilestones MilestoneRule    `json:"protocolMilestones"`
	QuietHours         QuietHours       `json:"quietHours"`
	EmailNotifications bool             `json:"emailNotifications"`
	PushNotifications  bool             `json:"pushNotifications"`
}

// Scan реализует sql.Scanner.
func (p *NotificationPreferences) Scan(src any) error { return scanJSONB(src, p) }

// Value реализует driver.Valuer.
func (p NotificationPreferences) Value() (driver.Value, error) { return valueJSONB(p) }

// DefaultNotificationPreferences возвращает настройки, действующие,
// пока пользователь их не изменил.
func DefaultNotificationPreferences() NotificationPreferences {
	inApp := []DeliveryMethod{DeliveryInApp}
	return NotificationPreferences{
		DoseLimit: DoseLimitRule{
			Enabled:         true,
			Threshold:       90,
			DeliveryMethods: inApp,
		},
		MissedDose: MissedDoseRule{
			Enabled:          true,
			GracePeriodHours: 6,
			DeliveryMethods:  inApp,
		},
		SiteRotation: SiteRotationRule{
			Enabled:            true,
			MaxConsecutiveUses: 3,
			DeliveryMethods:    inApp,
		},
		ProtocolMilestones: MilestoneRule{
			Enabled:         true,
			Milestones:      []float64{25, 50, 75, 100},
			DeliveryMethods: inApp,
		},
		QuietHours: QuietHours{
			Enabled:   false,
			StartTime: "22:00",
			EndTime:   "08:00",
		},
	}
}

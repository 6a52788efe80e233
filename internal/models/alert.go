package models

import (
	"database/sql/driver"
	"time"
)

// AlertType — тип уведомления.
type AlertType string

const (
	AlertDoseLimitWarning     AlertType = "dose_limit_warning"
	AlertDoseLimitExceeded    AlertType = "dose_limit_exceeded"
	AlertMissedDose           AlertType = "missed_dose"
	AlertSiteRotationReminder AlertType = "site_rotation_reminder"
	AlertProtocolMilestone    AlertType = "protocol_milestone"
	AlertProtocolComplete     AlertType = "protocol_complete"
)

// Severity — важность уведомления.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// AlertMetadata — дополнительные данные уведомления.
type AlertMetadata struct {
	ProtocolID   string   `json:"protocolId,omitempty"`
	PeptideID    string   `json:"peptideId,omitempty"`
	Threshold    *float64 `json:"threshold,omitempty"`
	CurrentValue *float64 `json:"currentValue,omitempty"`
	TargetValue  *float64 `json:"targetValue,omitempty"`
	Suggestion   string   `json:"suggestion,omitempty"`
}

// Scan реализует sql.Scanner.
func (m *AlertMetadata) Scan(src any) error { return scanJSONB(src, m) }

// Value реализует driver.Valuer.
func (m AlertMetadata) Value() (driver.Value, error) { return valueJSONB(m) }

// Alert — уведомление пользователя.
//
// Window — ключ периода, к которому относится уведомление; вместе с
// (UserID, AlertType, ProtocolID) образует ключ дедупликации.
type Alert struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	AlertType   AlertType     `json:"alertType"`
	Severity    Severity      `json:"severity"`
	Title       string        `json:"title"`
	Message     string        `json:"message"`
	ActionText  string        `json:"actionText,omitempty"`
	ActionURL   string        `json:"actionUrl,omitempty"`
	Metadata    AlertMetadata `json:"metadata"`
	ProtocolID  *string       `json:"protocolId"`
	Window      string        `json:"window"`
	IsRead      bool          `json:"isRead"`
	IsDismissed bool          `json:"isDismissed"`
	ExpiresAt   *time.Time    `json:"expiresAt"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// AlertCounts — количество созданных уведомлений по каждому правилу.
type AlertCounts struct {
	DoseLimit    int `json:"doseLimit"`
	MissedDose   int `json:"missedDose"`
	SiteRotation int `json:"siteRotation"`
	Milestones   int `json:"milestones"`
}

// Total возвращает общее количество созданных уведомлений.
func (c AlertCounts) Total() int {
	return c.DoseLimit + c.MissedDose + c.SiteRotation + c.Milestones
}

// AlertAction — действие над уведомлениями из POST /alerts.
type AlertAction struct {
	Action  string `json:"action" validate:"required,oneof=calculateAlerts markRead dismiss"`
	AlertID string `json:"alertId" validate:"omitempty,uuid"`
}

// AlertEmail — сообщение в очередь на отправку уведомления по e-mail.
type AlertEmail struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	AlertType AlertType `json:"alert_type"`
	Severity  Severity  `json:"severity"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
}

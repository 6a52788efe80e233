package models

import (
	"database/sql/driver"
	"time"
)

// InjectionLocation — анатомическая зона инъекции.
type InjectionLocation string

const (
	LocationAbdomen  InjectionLocation = "abdomen"
	LocationThigh    InjectionLocation = "thigh"
	LocationArm      InjectionLocation = "arm"
	LocationGlute    InjectionLocation = "glute"
	LocationShoulder InjectionLocation = "shoulder"
	LocationOther    InjectionLocation = "other"
)

// Side — сторона тела.
type Side string

const (
	SideLeft   Side = "left"
	SideRight  Side = "right"
	SideCenter Side = "center"
)

// InjectionSite — место инъекции, хранится в jsonb-колонке injection_site.
type InjectionSite struct {
	Location    InjectionLocation `json:"location" validate:"required,oneof=abdomen thigh arm glute shoulder other"`
	SubLocation string            `json:"subLocation,omitempty"`
	Side        Side              `json:"side" validate:"required,oneof=left right center"`
	Notes       string            `json:"notes,omitempty"`
}

// Key возвращает ключ места вида "abdomen-left". Пустая сторона считается center.
func (s InjectionSite) Key() string {
	side := s.Side
	if side == "" {
		side = SideCenter
	}
	return string(s.Location) + "-" + string(side)
}

// Scan реализует sql.Scanner.
func (s *InjectionSite) Scan(src any) error { return scanJSONB(src, s) }

// Value реализует driver.Valuer.
func (s InjectionSite) Value() (driver.Value, error) { return valueJSONB(s) }

// Injection — запись о введённой дозе.
type Injection struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	PeptideID     string        `json:"peptideId"`
	PeptideName   string        `json:"peptideName,omitempty"`
	Dose          float64       `json:"dose"`
	DoseUnit      DoseUnit      `json:"doseUnit"`
	InjectionSite InjectionSite `json:"injectionSite"`
	Timestamp     time.Time     `json:"timestamp"`
	Notes         *string       `json:"notes"`
	ProtocolID    *string       `json:"protocolId"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// InjectionFilter — параметры выборки инъекций.
type InjectionFilter struct {
	PeptideID  string
	ProtocolID string
	From       *time.Time
	To         *time.Time
	Location   InjectionLocation
	Search     string
	Limit      int
	Offset     int
}

// DummyInjection используется для приёма данных инъекции из JSON-запроса.
type DummyInjection struct {
	PeptideID     string        `json:"peptideId" validate:"required,uuid"`
	Dose          float64       `json:"dose" validate:"required,gt=0"`
	DoseUnit      DoseUnit      `json:"doseUnit" validate:"required,oneof=mg mcg iu ml units"`
	InjectionSite InjectionSite `json:"injectionSite" validate:"required"`
	Timestamp     time.Time     `json:"timestamp" validate:"required"`
	Notes         *string       `json:"notes" validate:"omitempty,max=2000"`
	ProtocolID    *string       `json:"protocolId" validate:"omitempty,uuid"`
}

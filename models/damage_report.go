package models

import (
	"fmt"
	"time"
)

const DamageReportTable = "damage_reports"

type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

func ParseSeverity(v string) (Severity, error) {
	s := Severity(v)
	switch s {
	case SeverityMinor, SeverityMajor, SeverityCritical:
		return s, nil
	}
	return "", fmt.Errorf("invalid severity: %s", v)
}

type DamageReport struct {
	ID            string   `gorm:"type:uuid;primaryKey" json:"id"`
	AssetID       string   `gorm:"type:uuid;index;not null" json:"assetId"`
	ReportedBy    string   `gorm:"type:uuid;index;not null" json:"reportedBy"`
	LoanRequestID *string  `gorm:"type:uuid" json:"loanRequestId,omitempty"`
	Description   string   `gorm:"type:text;not null" json:"description"`
	Photos        []string `gorm:"serializer:json;type:jsonb;not null" json:"photos"`
	Severity      Severity `gorm:"size:20;not null" json:"severity"`

	IsResolved      bool       `gorm:"not null;default:false" json:"isResolved"`
	ResolutionNotes *string    `gorm:"type:text" json:"resolutionNotes,omitempty"`
	ResolvedBy      *string    `gorm:"type:uuid" json:"resolvedBy,omitempty"`
	ResolvedAt      *time.Time `json:"resolvedAt,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (DamageReport) TableName() string { return DamageReportTable }

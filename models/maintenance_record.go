package models

import (
	"fmt"
	"time"
)

const MaintenanceRecordTable = "maintenance_records"

type MaintenanceStatus string

const (
	MaintenanceScheduled  MaintenanceStatus = "scheduled"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
)

func ParseMaintenanceStatus(v string) (MaintenanceStatus, error) {
	s := MaintenanceStatus(v)
	switch s {
	case MaintenanceScheduled, MaintenanceInProgress, MaintenanceCompleted:
		return s, nil
	}
	return "", fmt.Errorf("invalid maintenance status: %s", v)
}

// Rank orders the statuses along scheduled -> in_progress -> completed.
func (s MaintenanceStatus) Rank() int {
	switch s {
	case MaintenanceScheduled:
		return 0
	case MaintenanceInProgress:
		return 1
	case MaintenanceCompleted:
		return 2
	}
	return -1
}

type MaintenanceType string

const (
	MaintenancePreventive MaintenanceType = "preventive"
	MaintenanceCorrective MaintenanceType = "corrective"
	MaintenanceEmergency  MaintenanceType = "emergency"
)

func ParseMaintenanceType(v string) (MaintenanceType, error) {
	t := MaintenanceType(v)
	switch t {
	case MaintenancePreventive, MaintenanceCorrective, MaintenanceEmergency:
		return t, nil
	}
	return "", fmt.Errorf("invalid maintenance type: %s", v)
}

type MaintenanceRecord struct {
	ID              string            `gorm:"type:uuid;primaryKey" json:"id"`
	AssetID         string            `gorm:"type:uuid;index;not null" json:"assetId"`
	MaintenanceType MaintenanceType   `gorm:"size:20;not null" json:"maintenanceType"`
	Description     string            `gorm:"type:text;not null" json:"description"`
	ScheduledDate   time.Time         `gorm:"not null" json:"scheduledDate"`
	CompletedDate   *time.Time        `json:"completedDate,omitempty"`
	Status          MaintenanceStatus `gorm:"size:20;not null;default:'scheduled'" json:"status"`
	Cost            *float64          `gorm:"type:numeric(15,2)" json:"cost,omitempty"`
	PerformedBy     *string           `gorm:"size:255" json:"performedBy,omitempty"`
	Notes           *string           `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy       string            `gorm:"type:uuid;not null" json:"createdBy"`
	CreatedAt       time.Time         `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

func (MaintenanceRecord) TableName() string { return MaintenanceRecordTable }

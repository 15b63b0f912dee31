package models

import (
	"time"
)

const UserTable = "users"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "petugas_sarpras"
	RoleUser  Role = "user"
)

// User is reference data owned by the account service; only existence and
// IsActive matter to the lifecycle rules.
type User struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Username string `gorm:"uniqueIndex;size:50;not null" json:"username"`
	FullName string `gorm:"size:255;not null" json:"fullName"`
	Role     Role   `gorm:"size:20;not null;default:'user'" json:"role"`
	IsActive bool   `gorm:"not null;default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return UserTable
}

// models/loan_request.go
package models

import (
	"fmt"
	"time"
)

const LoanRequestTable = "loan_requests"

type LoanStatus string

const (
	LoanPendingApproval LoanStatus = "pending_approval"
	LoanApproved        LoanStatus = "approved"
	LoanRejected        LoanStatus = "rejected"
	LoanCompleted       LoanStatus = "completed"
)

func ParseLoanStatus(v string) (LoanStatus, error) {
	s := LoanStatus(v)
	switch s {
	case LoanPendingApproval, LoanApproved, LoanRejected, LoanCompleted:
		return s, nil
	}
	return "", fmt.Errorf("invalid loan status: %s", v)
}

// Active loans hold their [BorrowDate, ReturnDate] window on the asset.
func (s LoanStatus) Active() bool {
	return s == LoanPendingApproval || s == LoanApproved
}

// ActiveLoanStatuses is the set scanned for scheduling conflicts.
var ActiveLoanStatuses = []LoanStatus{LoanPendingApproval, LoanApproved}

type LoanRequest struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string     `gorm:"type:uuid;index;not null" json:"userId"`
	AssetID    string     `gorm:"type:uuid;index:idx_loan_requests_asset_status;not null" json:"assetId"`
	Purpose    string     `gorm:"type:text;not null" json:"purpose"`
	BorrowDate time.Time  `gorm:"not null" json:"borrowDate"`
	ReturnDate time.Time  `gorm:"not null" json:"returnDate"`
	Status     LoanStatus `gorm:"size:20;index:idx_loan_requests_asset_status;not null;default:'pending_approval'" json:"status"`

	ApprovedBy       *string    `gorm:"type:uuid" json:"approvedBy,omitempty"`
	ApprovedAt       *time.Time `json:"approvedAt,omitempty"`
	HandoverDate     *time.Time `json:"handoverDate,omitempty"`
	ActualReturnDate *time.Time `json:"actualReturnDate,omitempty"`

	Notes     *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (LoanRequest) TableName() string { return LoanRequestTable }

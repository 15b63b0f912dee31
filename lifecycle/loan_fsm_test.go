package lifecycle

import (
	"testing"
	"time"

	"Gin_postgres_redis_asset_tool/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fsmNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fsmNow }

func loanIn(status models.LoanStatus) *models.LoanRequest {
	return &models.LoanRequest{
		ID:         "lr-1",
		AssetID:    "asset-1",
		Status:     status,
		BorrowDate: fsmNow.Add(24 * time.Hour),
		ReturnDate: fsmNow.Add(96 * time.Hour),
	}
}

func statusPtr(s models.LoanStatus) *models.LoanStatus { return &s }

func TestLoanTransitionTable(t *testing.T) {
	all := []models.LoanStatus{
		models.LoanPendingApproval, models.LoanApproved, models.LoanRejected, models.LoanCompleted,
	}
	allowed := map[loanEdge]bool{
		{models.LoanPendingApproval, models.LoanPendingApproval}: true,
		{models.LoanPendingApproval, models.LoanApproved}:        true,
		{models.LoanPendingApproval, models.LoanRejected}:        true,
		{models.LoanApproved, models.LoanApproved}:               true,
		{models.LoanApproved, models.LoanCompleted}:              true,
		{models.LoanRejected, models.LoanRejected}:               true,
		{models.LoanCompleted, models.LoanCompleted}:             true,
	}
	for _, from := range all {
		for _, to := range all {
			_, err := loanTransition(from, to)
			if allowed[loanEdge{from, to}] {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", from, to)
			}
		}
	}
}

func TestApplyLoanPatch(t *testing.T) {
	returned := fsmNow.Add(48 * time.Hour)
	handover := fsmNow.Add(30 * time.Hour)

	tests := []struct {
		name       string
		from       models.LoanStatus
		patch      LoanPatch
		approver   string
		wantStatus models.LoanStatus
		wantAsset  models.AssetStatus
		wantErr    error
		check      func(t *testing.T, lr *models.LoanRequest)
	}{
		{
			name:       "approve stamps approver and borrows asset",
			from:       models.LoanPendingApproval,
			patch:      LoanPatch{Status: statusPtr(models.LoanApproved)},
			approver:   "admin-1",
			wantStatus: models.LoanApproved,
			wantAsset:  models.AssetBorrowed,
			check: func(t *testing.T, lr *models.LoanRequest) {
				require.NotNil(t, lr.ApprovedBy)
				assert.Equal(t, "admin-1", *lr.ApprovedBy)
				require.NotNil(t, lr.ApprovedAt)
				assert.Equal(t, fsmNow, *lr.ApprovedAt)
			},
		},
		{
			name:       "reject without approver leaves stamps empty",
			from:       models.LoanPendingApproval,
			patch:      LoanPatch{Status: statusPtr(models.LoanRejected)},
			wantStatus: models.LoanRejected,
			wantAsset:  models.AssetAvailable,
			check: func(t *testing.T, lr *models.LoanRequest) {
				assert.Nil(t, lr.ApprovedBy)
				assert.Nil(t, lr.ApprovedAt)
			},
		},
		{
			name:       "reject with approver stamps",
			from:       models.LoanPendingApproval,
			patch:      LoanPatch{Status: statusPtr(models.LoanRejected)},
			approver:   "admin-2",
			wantStatus: models.LoanRejected,
			wantAsset:  models.AssetAvailable,
			check: func(t *testing.T, lr *models.LoanRequest) {
				require.NotNil(t, lr.ApprovedBy)
				assert.Equal(t, "admin-2", *lr.ApprovedBy)
			},
		},
		{
			name:       "complete approved loan",
			from:       models.LoanApproved,
			patch:      LoanPatch{Status: statusPtr(models.LoanCompleted)},
			wantStatus: models.LoanCompleted,
			wantAsset:  models.AssetAvailable,
		},
		{
			name:       "handover on approved loan borrows asset",
			from:       models.LoanApproved,
			patch:      LoanPatch{HandoverDate: Some(handover)},
			wantStatus: models.LoanApproved,
			wantAsset:  models.AssetBorrowed,
		},
		{
			name:       "handover on pending loan only records the date",
			from:       models.LoanPendingApproval,
			patch:      LoanPatch{HandoverDate: Some(handover)},
			wantStatus: models.LoanPendingApproval,
			check: func(t *testing.T, lr *models.LoanRequest) {
				require.NotNil(t, lr.HandoverDate)
				assert.Equal(t, handover, *lr.HandoverDate)
			},
		},
		{
			name:       "approve and hand over together",
			from:       models.LoanPendingApproval,
			patch:      LoanPatch{Status: statusPtr(models.LoanApproved), HandoverDate: Some(handover)},
			wantStatus: models.LoanApproved,
			wantAsset:  models.AssetBorrowed,
		},
		{
			name:       "return forces completion",
			from:       models.LoanApproved,
			patch:      LoanPatch{ActualReturnDate: Some(returned)},
			wantStatus: models.LoanCompleted,
			wantAsset:  models.AssetAvailable,
		},
		{
			name:       "return overrides requested status",
			from:       models.LoanApproved,
			patch:      LoanPatch{Status: statusPtr(models.LoanApproved), ActualReturnDate: Some(returned)},
			wantStatus: models.LoanCompleted,
			wantAsset:  models.AssetAvailable,
		},
		{
			name:       "approve and return in one call ends available",
			from:       models.LoanPendingApproval,
			patch:      LoanPatch{Status: statusPtr(models.LoanApproved), ActualReturnDate: Some(returned)},
			approver:   "admin-1",
			wantStatus: models.LoanCompleted,
			wantAsset:  models.AssetAvailable,
		},
		{
			name:       "returning a completed loan releases the asset again",
			from:       models.LoanCompleted,
			patch:      LoanPatch{ActualReturnDate: Some(returned)},
			wantStatus: models.LoanCompleted,
			wantAsset:  models.AssetAvailable,
			check: func(t *testing.T, lr *models.LoanRequest) {
				require.NotNil(t, lr.ActualReturnDate)
				assert.Equal(t, returned, *lr.ActualReturnDate)
			},
		},
		{
			name:       "repeat completion releases the asset again",
			from:       models.LoanCompleted,
			patch:      LoanPatch{Status: statusPtr(models.LoanCompleted)},
			wantStatus: models.LoanCompleted,
			wantAsset:  models.AssetAvailable,
		},
		{
			name:       "repeat rejection releases the asset again",
			from:       models.LoanRejected,
			patch:      LoanPatch{Status: statusPtr(models.LoanRejected)},
			approver:   "admin-2",
			wantStatus: models.LoanRejected,
			wantAsset:  models.AssetAvailable,
			check: func(t *testing.T, lr *models.LoanRequest) {
				require.NotNil(t, lr.ApprovedBy)
				assert.Equal(t, "admin-2", *lr.ApprovedBy)
			},
		},
		{
			name:       "repeat approval leaves the asset alone",
			from:       models.LoanApproved,
			patch:      LoanPatch{Status: statusPtr(models.LoanApproved)},
			wantStatus: models.LoanApproved,
			check: func(t *testing.T, lr *models.LoanRequest) {
				assert.Nil(t, lr.ApprovedAt)
			},
		},
		{
			name:       "null return date clears the field without completing",
			from:       models.LoanApproved,
			patch:      LoanPatch{ActualReturnDate: Null[time.Time]()},
			wantStatus: models.LoanApproved,
		},
		{
			name:       "return on pending loan completes it",
			from:       models.LoanPendingApproval,
			patch:      LoanPatch{ActualReturnDate: Some(returned)},
			wantStatus: models.LoanCompleted,
			wantAsset:  models.AssetAvailable,
			check: func(t *testing.T, lr *models.LoanRequest) {
				assert.Nil(t, lr.ApprovedBy)
			},
		},
		{
			name:    "return on rejected loan is refused",
			from:    models.LoanRejected,
			patch:   LoanPatch{ActualReturnDate: Some(returned)},
			wantErr: ErrInvalidTransition,
		},
		{
			name:    "reject and return together is refused",
			from:    models.LoanPendingApproval,
			patch:   LoanPatch{Status: statusPtr(models.LoanRejected), ActualReturnDate: Some(returned)},
			wantErr: ErrInvalidTransition,
		},
		{
			name:    "rejected is terminal",
			from:    models.LoanRejected,
			patch:   LoanPatch{Status: statusPtr(models.LoanApproved)},
			wantErr: ErrInvalidTransition,
		},
		{
			name:    "completed is terminal",
			from:    models.LoanCompleted,
			patch:   LoanPatch{Status: statusPtr(models.LoanPendingApproval)},
			wantErr: ErrInvalidTransition,
		},
		{
			name:    "unknown status",
			from:    models.LoanPendingApproval,
			patch:   LoanPatch{Status: statusPtr("lost")},
			wantErr: ErrInvalidStatus,
		},
		{
			name:       "notes only",
			from:       models.LoanApproved,
			patch:      LoanPatch{Notes: Some("bring charger")},
			wantStatus: models.LoanApproved,
			check: func(t *testing.T, lr *models.LoanRequest) {
				require.NotNil(t, lr.Notes)
				assert.Equal(t, "bring charger", *lr.Notes)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lr := loanIn(tt.from)
			out, err := applyLoanPatch(lr, tt.patch, tt.approver, fixedClock)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, lr.Status)
			assert.Equal(t, tt.wantAsset, out.Asset)
			if tt.check != nil {
				tt.check(t, lr)
			}
		})
	}
}

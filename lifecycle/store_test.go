package lifecycle

import (
	"testing"

	"Gin_postgres_redis_asset_tool/models"

	"github.com/stretchr/testify/assert"
)

func TestLoanFilterMatch(t *testing.T) {
	lr := models.LoanRequest{UserID: "u-1", AssetID: "a-1", Status: models.LoanApproved}

	tests := []struct {
		name     string
		filter   LoanFilter
		expected bool
	}{
		{"empty matches all", LoanFilter{}, true},
		{"user", LoanFilter{UserID: "u-1"}, true},
		{"other user", LoanFilter{UserID: "u-2"}, false},
		{"other asset", LoanFilter{AssetID: "a-2"}, false},
		{"any of statuses", LoanFilter{Statuses: models.ActiveLoanStatuses}, true},
		{"status miss", LoanFilter{Statuses: []models.LoanStatus{models.LoanCompleted}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.filter.Match(lr))
		})
	}
}

func TestMaintenanceFilterMatch(t *testing.T) {
	mr := models.MaintenanceRecord{AssetID: "a-1", Status: models.MaintenanceInProgress}
	inProgress := models.MaintenanceInProgress
	done := models.MaintenanceCompleted

	assert.True(t, MaintenanceFilter{}.Match(mr))
	assert.True(t, MaintenanceFilter{AssetID: "a-1", Status: &inProgress}.Match(mr))
	assert.False(t, MaintenanceFilter{Status: &done}.Match(mr))
	assert.False(t, MaintenanceFilter{AssetID: "a-2"}.Match(mr))
}

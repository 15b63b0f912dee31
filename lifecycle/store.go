package lifecycle

import (
	"context"

	"Gin_postgres_redis_asset_tool/models"
)

// Store is the entity store the lifecycle services run against.
type Store interface {
	// InTx runs fn as one atomic unit of work. A non-nil error from fn
	// discards every write made through tx.
	InTx(ctx context.Context, fn func(tx Tx) error) error
	// View runs fn against current data without write intent.
	View(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the per-unit-of-work view of the store. Finders return ErrNoRecord
// for unknown ids; scans return newest first.
type Tx interface {
	FindUser(id string) (*models.User, error)

	FindAsset(id string) (*models.Asset, error)
	// LockAsset reads the asset and holds it against concurrent writers
	// until the unit of work ends.
	LockAsset(id string) (*models.Asset, error)
	// SetAssetStatus writes status only if the stored version still equals
	// version and returns the new version; otherwise ErrStaleVersion.
	SetAssetStatus(id string, version uint64, status models.AssetStatus) (uint64, error)

	FindLoanRequest(id string) (*models.LoanRequest, error)
	ScanLoanRequests(f LoanFilter) ([]models.LoanRequest, error)
	InsertLoanRequest(lr *models.LoanRequest) error
	SaveLoanRequest(lr *models.LoanRequest) error

	FindDamageReport(id string) (*models.DamageReport, error)
	ScanDamageReports(f DamageFilter) ([]models.DamageReport, error)
	InsertDamageReport(dr *models.DamageReport) error
	SaveDamageReport(dr *models.DamageReport) error

	FindMaintenanceRecord(id string) (*models.MaintenanceRecord, error)
	ScanMaintenanceRecords(f MaintenanceFilter) ([]models.MaintenanceRecord, error)
	InsertMaintenanceRecord(mr *models.MaintenanceRecord) error
	SaveMaintenanceRecord(mr *models.MaintenanceRecord) error
}

// LoanFilter selects loan requests. Empty fields match everything; Statuses
// matches any of its entries.
type LoanFilter struct {
	UserID   string
	AssetID  string
	Statuses []models.LoanStatus
}

// DamageFilter selects damage reports. Empty strings and nil pointers match
// everything.
type DamageFilter struct {
	AssetID    string
	ReportedBy string
	Severity   *models.Severity
	IsResolved *bool
}

// MaintenanceFilter selects maintenance records; nil Status matches any.
type MaintenanceFilter struct {
	AssetID string
	Status  *models.MaintenanceStatus
}

// Match reports whether lr passes the filter.
func (f LoanFilter) Match(lr models.LoanRequest) bool {
	if f.UserID != "" && lr.UserID != f.UserID {
		return false
	}
	if f.AssetID != "" && lr.AssetID != f.AssetID {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if lr.Status == s {
			return true
		}
	}
	return false
}

func (f DamageFilter) Match(dr models.DamageReport) bool {
	switch {
	case f.AssetID != "" && dr.AssetID != f.AssetID:
		return false
	case f.ReportedBy != "" && dr.ReportedBy != f.ReportedBy:
		return false
	case f.Severity != nil && dr.Severity != *f.Severity:
		return false
	case f.IsResolved != nil && dr.IsResolved != *f.IsResolved:
		return false
	}
	return true
}

func (f MaintenanceFilter) Match(mr models.MaintenanceRecord) bool {
	if f.AssetID != "" && mr.AssetID != f.AssetID {
		return false
	}
	return f.Status == nil || mr.Status == *f.Status
}

// Locker serializes work per key across callers. The returned func releases
// the lock and is safe to call more than once.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

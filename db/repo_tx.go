package db

import (
	"fmt"

	"Gin_postgres_redis_asset_tool/lifecycle"
	"Gin_postgres_redis_asset_tool/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// repoTx binds lifecycle.Tx to one gorm transaction.
type repoTx struct{ db *gorm.DB }

// Assets

func (t *repoTx) FindAsset(id string) (*models.Asset, error) {
	return first[models.Asset](t.db, id)
}

// 锁住资产行：冲突检查 + 插入在同一把行锁下完成
func (t *repoTx) LockAsset(id string) (*models.Asset, error) {
	return first[models.Asset](t.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// SetAssetStatus: UPDATE ... WHERE id = ? AND version = ?，0 行即版本过期
func (t *repoTx) SetAssetStatus(id string, version uint64, status models.AssetStatus) (uint64, error) {
	res := t.db.Model(&models.Asset{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]any{
			"status":     status,
			"version":    gorm.Expr("version + 1"),
			"updated_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := t.db.Model(&models.Asset{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, lifecycle.ErrNoRecord
		}
		return 0, fmt.Errorf("asset %s moved past version %d: %w", id, version, lifecycle.ErrStaleVersion)
	}
	return version + 1, nil
}

// Loan requests

func (t *repoTx) FindLoanRequest(id string) (*models.LoanRequest, error) {
	return first[models.LoanRequest](t.db, id)
}

func (t *repoTx) ScanLoanRequests(f lifecycle.LoanFilter) ([]models.LoanRequest, error) {
	q := t.db.Model(&models.LoanRequest{}).Order("created_at DESC")
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.AssetID != "" {
		q = q.Where("asset_id = ?", f.AssetID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	var ls []models.LoanRequest
	if err := q.Find(&ls).Error; err != nil {
		return nil, err
	}
	return ls, nil
}

func (t *repoTx) InsertLoanRequest(lr *models.LoanRequest) error {
	return t.db.Create(lr).Error
}

func (t *repoTx) SaveLoanRequest(lr *models.LoanRequest) error {
	return t.db.Save(lr).Error
}

// Damage reports

func (t *repoTx) FindDamageReport(id string) (*models.DamageReport, error) {
	return first[models.DamageReport](t.db, id)
}

func (t *repoTx) ScanDamageReports(f lifecycle.DamageFilter) ([]models.DamageReport, error) {
	q := t.db.Model(&models.DamageReport{}).Order("created_at DESC")
	if f.AssetID != "" {
		q = q.Where("asset_id = ?", f.AssetID)
	}
	if f.ReportedBy != "" {
		q = q.Where("reported_by = ?", f.ReportedBy)
	}
	if f.Severity != nil {
		q = q.Where("severity = ?", *f.Severity)
	}
	if f.IsResolved != nil {
		q = q.Where("is_resolved = ?", *f.IsResolved)
	}
	var ds []models.DamageReport
	if err := q.Find(&ds).Error; err != nil {
		return nil, err
	}
	return ds, nil
}

func (t *repoTx) InsertDamageReport(dr *models.DamageReport) error {
	return t.db.Create(dr).Error
}

func (t *repoTx) SaveDamageReport(dr *models.DamageReport) error {
	return t.db.Save(dr).Error
}

// Maintenance records

func (t *repoTx) FindMaintenanceRecord(id string) (*models.MaintenanceRecord, error) {
	return first[models.MaintenanceRecord](t.db, id)
}

func (t *repoTx) ScanMaintenanceRecords(f lifecycle.MaintenanceFilter) ([]models.MaintenanceRecord, error) {
	q := t.db.Model(&models.MaintenanceRecord{}).Order("created_at DESC")
	if f.AssetID != "" {
		q = q.Where("asset_id = ?", f.AssetID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	var ms []models.MaintenanceRecord
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	return ms, nil
}

func (t *repoTx) InsertMaintenanceRecord(mr *models.MaintenanceRecord) error {
	return t.db.Create(mr).Error
}

func (t *repoTx) SaveMaintenanceRecord(mr *models.MaintenanceRecord) error {
	return t.db.Save(mr).Error
}

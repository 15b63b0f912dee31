package memstore

import (
	"fmt"
	"time"

	"Gin_postgres_redis_asset_tool/lifecycle"
	"Gin_postgres_redis_asset_tool/models"
)

type tx struct {
	st       *state
	readOnly bool
}

func (t *tx) write() error {
	if t.readOnly {
		return ErrReadOnly
	}
	return nil
}

func (t *tx) FindUser(id string) (*models.User, error) { return find(t.st.users, id) }

func (t *tx) FindAsset(id string) (*models.Asset, error) { return find(t.st.assets, id) }

// LockAsset is FindAsset; InTx already runs exclusively.
func (t *tx) LockAsset(id string) (*models.Asset, error) { return find(t.st.assets, id) }

func (t *tx) SetAssetStatus(id string, version uint64, status models.AssetStatus) (uint64, error) {
	if err := t.write(); err != nil {
		return 0, err
	}
	e, ok := t.st.assets[id]
	if !ok {
		return 0, lifecycle.ErrNoRecord
	}
	if e.v.Version != version {
		return 0, fmt.Errorf("asset %s at version %d, expected %d: %w", id, e.v.Version, version, lifecycle.ErrStaleVersion)
	}
	e.v.Status = status
	e.v.Version++
	e.v.UpdatedAt = time.Now().UTC()
	t.st.assets[id] = e
	return e.v.Version, nil
}

func (t *tx) FindLoanRequest(id string) (*models.LoanRequest, error) { return find(t.st.loans, id) }

func (t *tx) ScanLoanRequests(f lifecycle.LoanFilter) ([]models.LoanRequest, error) {
	return scan(t.st.loans, f.Match, func(lr models.LoanRequest) time.Time { return lr.CreatedAt }), nil
}

func (t *tx) InsertLoanRequest(lr *models.LoanRequest) error {
	return insert(t, t.st.loans, lr.ID, *lr)
}

func (t *tx) SaveLoanRequest(lr *models.LoanRequest) error {
	return save(t, t.st.loans, lr.ID, *lr)
}

func (t *tx) FindDamageReport(id string) (*models.DamageReport, error) {
	return find(t.st.damage, id)
}

func (t *tx) ScanDamageReports(f lifecycle.DamageFilter) ([]models.DamageReport, error) {
	return scan(t.st.damage, f.Match, func(dr models.DamageReport) time.Time { return dr.CreatedAt }), nil
}

func (t *tx) InsertDamageReport(dr *models.DamageReport) error {
	return insert(t, t.st.damage, dr.ID, *dr)
}

func (t *tx) SaveDamageReport(dr *models.DamageReport) error {
	return save(t, t.st.damage, dr.ID, *dr)
}

func (t *tx) FindMaintenanceRecord(id string) (*models.MaintenanceRecord, error) {
	return find(t.st.maint, id)
}

func (t *tx) ScanMaintenanceRecords(f lifecycle.MaintenanceFilter) ([]models.MaintenanceRecord, error) {
	return scan(t.st.maint, f.Match, func(mr models.MaintenanceRecord) time.Time { return mr.CreatedAt }), nil
}

func (t *tx) InsertMaintenanceRecord(mr *models.MaintenanceRecord) error {
	return insert(t, t.st.maint, mr.ID, *mr)
}

func (t *tx) SaveMaintenanceRecord(mr *models.MaintenanceRecord) error {
	return save(t, t.st.maint, mr.ID, *mr)
}

func insert[T any](t *tx, tbl table[T], id string, v T) error {
	if err := t.write(); err != nil {
		return err
	}
	if _, ok := tbl[id]; ok {
		return fmt.Errorf("memstore: duplicate id %s", id)
	}
	tbl[id] = entry[T]{v: v, seq: t.st.seq()}
	return nil
}

func save[T any](t *tx, tbl table[T], id string, v T) error {
	if err := t.write(); err != nil {
		return err
	}
	e, ok := tbl[id]
	if !ok {
		return lifecycle.ErrNoRecord
	}
	e.v = v
	tbl[id] = e
	return nil
}

package memstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"Gin_postgres_redis_asset_tool/lifecycle"
	"Gin_postgres_redis_asset_tool/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.PutAsset(models.Asset{ID: "a-1", AssetCode: "AST-001", Name: "Projector"})

	boom := errors.New("boom")
	err := s.InTx(ctx, func(tx lifecycle.Tx) error {
		require.NoError(t, tx.InsertLoanRequest(&models.LoanRequest{ID: "lr-1", AssetID: "a-1"}))
		_, err := tx.SetAssetStatus("a-1", 1, models.AssetBorrowed)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = s.View(ctx, func(tx lifecycle.Tx) error {
		_, err := tx.FindLoanRequest("lr-1")
		assert.ErrorIs(t, err, lifecycle.ErrNoRecord)
		a, err := tx.FindAsset("a-1")
		require.NoError(t, err)
		assert.Equal(t, models.AssetAvailable, a.Status)
		assert.Equal(t, uint64(1), a.Version)
		return nil
	})
	require.NoError(t, err)
}

func TestSetAssetStatusVersionGuard(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.PutAsset(models.Asset{ID: "a-1", AssetCode: "AST-001", Name: "Projector"})

	err := s.InTx(ctx, func(tx lifecycle.Tx) error {
		v, err := tx.SetAssetStatus("a-1", 1, models.AssetBorrowed)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), v)

		_, err = tx.SetAssetStatus("a-1", 1, models.AssetAvailable)
		assert.ErrorIs(t, err, lifecycle.ErrStaleVersion)

		_, err = tx.SetAssetStatus("missing", 1, models.AssetAvailable)
		assert.ErrorIs(t, err, lifecycle.ErrNoRecord)
		return nil
	})
	require.NoError(t, err)
}

func TestViewIsReadOnly(t *testing.T) {
	s := New()
	err := s.View(context.Background(), func(tx lifecycle.Tx) error {
		return tx.InsertDamageReport(&models.DamageReport{ID: "dr-1"})
	})
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestFindReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.PutAsset(models.Asset{ID: "a-1", AssetCode: "AST-001", Name: "Projector"})

	require.NoError(t, s.View(ctx, func(tx lifecycle.Tx) error {
		a, err := tx.FindAsset("a-1")
		require.NoError(t, err)
		a.Status = models.AssetDeleted
		return nil
	}))
	require.NoError(t, s.View(ctx, func(tx lifecycle.Tx) error {
		a, err := tx.FindAsset("a-1")
		require.NoError(t, err)
		assert.Equal(t, models.AssetAvailable, a.Status)
		return nil
	}))
}

func TestScanOrderAndFilters(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	sev := models.SeverityMajor
	resolved := true

	require.NoError(t, s.InTx(ctx, func(tx lifecycle.Tx) error {
		for i, r := range []models.DamageReport{
			{ID: "d1", AssetID: "a-1", ReportedBy: "u-1", Severity: models.SeverityMinor, CreatedAt: base},
			{ID: "d2", AssetID: "a-1", ReportedBy: "u-2", Severity: models.SeverityMajor, CreatedAt: base.Add(time.Hour), IsResolved: true},
			{ID: "d3", AssetID: "a-2", ReportedBy: "u-1", Severity: models.SeverityMajor, CreatedAt: base.Add(time.Hour)},
		} {
			r := r
			require.NoError(t, tx.InsertDamageReport(&r), "row %d", i)
		}
		return nil
	}))

	ids := func(ds []models.DamageReport) []string {
		out := make([]string, 0, len(ds))
		for _, d := range ds {
			out = append(out, d.ID)
		}
		return out
	}

	tests := []struct {
		name     string
		filter   lifecycle.DamageFilter
		expected []string
	}{
		{"all newest first, later insert wins ties", lifecycle.DamageFilter{}, []string{"d3", "d2", "d1"}},
		{"by asset", lifecycle.DamageFilter{AssetID: "a-1"}, []string{"d2", "d1"}},
		{"by reporter", lifecycle.DamageFilter{ReportedBy: "u-1"}, []string{"d3", "d1"}},
		{"by severity", lifecycle.DamageFilter{Severity: &sev}, []string{"d3", "d2"}},
		{"resolved only", lifecycle.DamageFilter{IsResolved: &resolved}, []string{"d2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, s.View(ctx, func(tx lifecycle.Tx) error {
				got, err := tx.ScanDamageReports(tt.filter)
				require.NoError(t, err)
				assert.Equal(t, tt.expected, ids(got))
				return nil
			}))
		})
	}
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"users": [{"id": "u-1", "username": "budi", "fullName": "Budi", "role": "user", "isActive": true}],
		"assets": [{"id": "a-1", "assetCode": "AST-001", "name": "Projector"}]
	}`), 0o600))

	s := New()
	require.NoError(t, s.LoadSeed(path))

	require.NoError(t, s.View(context.Background(), func(tx lifecycle.Tx) error {
		u, err := tx.FindUser("u-1")
		require.NoError(t, err)
		assert.True(t, u.IsActive)
		a, err := tx.FindAsset("a-1")
		require.NoError(t, err)
		assert.Equal(t, models.AssetAvailable, a.Status)
		assert.Equal(t, uint64(1), a.Version)
		return nil
	}))

	assert.Error(t, s.LoadSeed(filepath.Join(t.TempDir(), "missing.json")))
}

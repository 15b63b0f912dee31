package lifecycle

import (
	"context"
	"time"

	"Gin_postgres_redis_asset_tool/models"
)

// Overlaps reports whether [aStart, aEnd] and [bStart, bEnd] share any
// instant. Bounds are inclusive, so back-to-back windows touching on the
// same instant conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// conflicting returns the first active loan on assetID overlapping the
// window, skipping excludeID.
func conflicting(tx Tx, assetID string, start, end time.Time, excludeID string) (*models.LoanRequest, error) {
	loans, err := tx.ScanLoanRequests(LoanFilter{AssetID: assetID, Statuses: models.ActiveLoanStatuses})
	if err != nil {
		return nil, err
	}
	for i := range loans {
		lr := loans[i]
		if lr.ID == excludeID {
			continue
		}
		if Overlaps(start, end, lr.BorrowDate, lr.ReturnDate) {
			return &lr, nil
		}
	}
	return nil, nil
}

// HasConflict reports whether an active loan on the asset overlaps
// [start, end]. excludeID may be empty.
func (s *LoanService) HasConflict(ctx context.Context, assetID string, start, end time.Time, excludeID string) (bool, error) {
	var hit bool
	err := s.view(ctx, func(tx Tx) error {
		if _, err := tx.FindAsset(assetID); err != nil {
			return notFound(err, ErrAssetNotFound, assetID)
		}
		lr, err := conflicting(tx, assetID, start, end, excludeID)
		hit = lr != nil
		return err
	})
	return hit, err
}

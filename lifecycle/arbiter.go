package lifecycle

import (
	"Gin_postgres_redis_asset_tool/models"

	"go.uber.org/zap"
)

// Arbiter is the single path through which the controllers move
// Asset.Status. Each write is a compare-and-set against the version read in
// the same transaction; a lost race surfaces as ErrStaleVersion and the
// caller re-runs the whole unit of work.
type Arbiter struct {
	log *zap.Logger
}

// Decide computes the next status from a freshly read asset. Returning
// ok=false leaves the asset untouched.
type Decide func(cur models.Asset) (next models.AssetStatus, ok bool)

// Apply reads the asset, asks decide, and writes the result.
func (a *Arbiter) Apply(tx Tx, assetID, reason string, decide Decide) (*models.Asset, error) {
	cur, err := tx.FindAsset(assetID)
	if err != nil {
		return nil, notFound(err, ErrAssetNotFound, assetID)
	}
	next, ok := decide(*cur)
	if !ok || next == cur.Status {
		return cur, nil
	}
	version, err := tx.SetAssetStatus(cur.ID, cur.Version, next)
	if err != nil {
		return nil, err
	}
	a.log.Info("asset status changed",
		zap.String("asset_id", cur.ID),
		zap.String("from", string(cur.Status)),
		zap.String("to", string(next)),
		zap.String("reason", reason),
		zap.Uint64("version", version),
	)
	cur.Status = next
	cur.Version = version
	return cur, nil
}

// Force writes status regardless of the current one.
func (a *Arbiter) Force(tx Tx, assetID, reason string, status models.AssetStatus) (*models.Asset, error) {
	return a.Apply(tx, assetID, reason, func(models.Asset) (models.AssetStatus, bool) {
		return status, true
	})
}

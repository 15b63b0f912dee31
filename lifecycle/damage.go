package lifecycle

import (
	"context"
	"strings"

	"Gin_postgres_redis_asset_tool/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DamageService struct{ runner }

func NewDamageService(d Deps) *DamageService {
	return &DamageService{runner: newRunner(d, "svc.damage")}
}

type NewDamageReport struct {
	AssetID       string
	ReportedBy    string
	LoanRequestID *string
	Description   string
	Photos        []string
	Severity      models.Severity
}

type DamagePatch struct {
	IsResolved      *bool            `json:"isResolved"`
	ResolutionNotes Optional[string] `json:"resolutionNotes"`
}

// severityStatus is where a fresh report puts the asset.
func severityStatus(s models.Severity) models.AssetStatus {
	if s == models.SeverityMinor {
		return models.AssetUnderRepair
	}
	return models.AssetDamaged
}

// CreateDamageReport files an unresolved report and overwrites the asset
// status from its severity, whatever the asset was doing before.
func (s *DamageService) CreateDamageReport(ctx context.Context, in NewDamageReport) (*models.DamageReport, error) {
	if in.AssetID == "" || in.ReportedBy == "" || strings.TrimSpace(in.Description) == "" {
		return nil, ErrMissingRequiredData
	}
	sev, err := models.ParseSeverity(string(in.Severity))
	if err != nil {
		return nil, ErrInvalidSeverity
	}

	var created *models.DamageReport
	err = s.withAsset(ctx, in.AssetID, func(tx Tx) error {
		if _, err := tx.FindAsset(in.AssetID); err != nil {
			return notFound(err, ErrAssetNotFound, in.AssetID)
		}
		if in.LoanRequestID != nil {
			if _, err := tx.FindLoanRequest(*in.LoanRequestID); err != nil {
				return notFound(err, ErrLoanRequestNotFound, *in.LoanRequestID)
			}
		}
		photos := in.Photos
		if photos == nil {
			photos = []string{}
		}
		now := s.now()
		dr := &models.DamageReport{
			ID:            uuid.NewString(),
			AssetID:       in.AssetID,
			ReportedBy:    in.ReportedBy,
			LoanRequestID: in.LoanRequestID,
			Description:   in.Description,
			Photos:        photos,
			Severity:      sev,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.InsertDamageReport(dr); err != nil {
			return err
		}
		if _, err := s.arbiter.Force(tx, in.AssetID, "damage "+string(sev), severityStatus(sev)); err != nil {
			return err
		}
		created = dr
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("damage report filed",
		zap.String("report_id", created.ID), zap.String("asset_id", created.AssetID), zap.String("severity", string(sev)))
	return created, nil
}

// UpdateDamageReport resolves, reopens or annotates a report. Resolving the
// last open report on a damaged asset makes it available again; an asset
// under repair is left for maintenance to release.
func (s *DamageService) UpdateDamageReport(ctx context.Context, id string, patch DamagePatch, resolverID string) (*models.DamageReport, error) {
	assetID, err := s.reportAsset(ctx, id)
	if err != nil {
		return nil, err
	}

	var updated *models.DamageReport
	err = s.withAsset(ctx, assetID, func(tx Tx) error {
		dr, err := tx.FindDamageReport(id)
		if err != nil {
			return notFound(err, ErrDamageReportNotFound, id)
		}
		now := s.now()
		patch.ResolutionNotes.apply(&dr.ResolutionNotes)

		resolving := patch.IsResolved != nil && *patch.IsResolved
		switch {
		case resolving:
			if !dr.IsResolved || dr.ResolvedAt == nil {
				dr.ResolvedAt = &now
			}
			if resolverID != "" {
				rid := resolverID
				dr.ResolvedBy = &rid
			}
			dr.IsResolved = true
		case patch.IsResolved != nil:
			dr.IsResolved = false
			dr.ResolvedBy = nil
			dr.ResolvedAt = nil
		}
		dr.UpdatedAt = now
		if err := tx.SaveDamageReport(dr); err != nil {
			return err
		}

		if resolving {
			open := false
			others, err := tx.ScanDamageReports(DamageFilter{AssetID: dr.AssetID, IsResolved: ptr(false)})
			if err != nil {
				return err
			}
			for _, o := range others {
				if o.ID != dr.ID {
					open = true
					break
				}
			}
			if !open {
				_, err := s.arbiter.Apply(tx, dr.AssetID, "damage resolved", func(a models.Asset) (models.AssetStatus, bool) {
					return models.AssetAvailable, a.Status == models.AssetDamaged
				})
				if err != nil {
					return err
				}
			}
		}
		updated = dr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *DamageService) reportAsset(ctx context.Context, id string) (string, error) {
	var assetID string
	err := s.view(ctx, func(tx Tx) error {
		dr, err := tx.FindDamageReport(id)
		if err != nil {
			return notFound(err, ErrDamageReportNotFound, id)
		}
		assetID = dr.AssetID
		return nil
	})
	return assetID, err
}

func (s *DamageService) ListDamageReports(ctx context.Context, f DamageFilter) ([]models.DamageReport, error) {
	var out []models.DamageReport
	err := s.view(ctx, func(tx Tx) error {
		var err error
		out, err = tx.ScanDamageReports(f)
		return err
	})
	return out, err
}

func ptr[T any](v T) *T { return &v }

package lifecycle

import (
	"context"
	"strings"
	"time"

	"Gin_postgres_redis_asset_tool/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MaintenanceService struct{ runner }

func NewMaintenanceService(d Deps) *MaintenanceService {
	return &MaintenanceService{runner: newRunner(d, "svc.maintenance")}
}

type NewMaintenanceRecord struct {
	AssetID         string
	MaintenanceType models.MaintenanceType
	Description     string
	ScheduledDate   time.Time
	Cost            *float64
	PerformedBy     *string
	Notes           *string
	CreatedBy       string
}

type MaintenancePatch struct {
	CompletedDate Optional[time.Time]       `json:"completedDate"`
	Status        *models.MaintenanceStatus `json:"status"`
	Cost          Optional[float64]         `json:"cost"`
	PerformedBy   Optional[string]          `json:"performedBy"`
	Notes         Optional[string]          `json:"notes"`
}

// CreateMaintenanceRecord schedules work and takes the asset out of service.
func (s *MaintenanceService) CreateMaintenanceRecord(ctx context.Context, in NewMaintenanceRecord) (*models.MaintenanceRecord, error) {
	if in.AssetID == "" || in.CreatedBy == "" || strings.TrimSpace(in.Description) == "" || in.ScheduledDate.IsZero() {
		return nil, ErrMissingRequiredData
	}
	typ, err := models.ParseMaintenanceType(string(in.MaintenanceType))
	if err != nil {
		return nil, ErrInvalidMaintenance
	}

	var created *models.MaintenanceRecord
	err = s.withAsset(ctx, in.AssetID, func(tx Tx) error {
		if _, err := tx.FindAsset(in.AssetID); err != nil {
			return notFound(err, ErrAssetNotFound, in.AssetID)
		}
		now := s.now()
		mr := &models.MaintenanceRecord{
			ID:              uuid.NewString(),
			AssetID:         in.AssetID,
			MaintenanceType: typ,
			Description:     in.Description,
			ScheduledDate:   in.ScheduledDate,
			Status:          models.MaintenanceScheduled,
			Cost:            in.Cost,
			PerformedBy:     in.PerformedBy,
			Notes:           in.Notes,
			CreatedBy:       in.CreatedBy,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := tx.InsertMaintenanceRecord(mr); err != nil {
			return err
		}
		if _, err := s.arbiter.Force(tx, in.AssetID, "maintenance scheduled", models.AssetUnderRepair); err != nil {
			return err
		}
		created = mr
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("maintenance scheduled",
		zap.String("record_id", created.ID), zap.String("asset_id", created.AssetID), zap.String("type", string(typ)))
	return created, nil
}

// UpdateMaintenanceRecord patches a record. Status only moves forward
// along scheduled, in_progress, completed. Every patch to completed, a
// repeat included, releases the asset without looking at open damage
// reports.
func (s *MaintenanceService) UpdateMaintenanceRecord(ctx context.Context, id string, patch MaintenancePatch) (*models.MaintenanceRecord, error) {
	assetID, err := s.recordAsset(ctx, id)
	if err != nil {
		return nil, err
	}

	var updated *models.MaintenanceRecord
	err = s.withAsset(ctx, assetID, func(tx Tx) error {
		mr, err := tx.FindMaintenanceRecord(id)
		if err != nil {
			return notFound(err, ErrMaintenanceRecordNotFound, id)
		}

		completing := false
		if patch.Status != nil {
			next, err := models.ParseMaintenanceStatus(string(*patch.Status))
			if err != nil {
				return ErrInvalidStatus
			}
			if next.Rank() < mr.Status.Rank() {
				return ErrInvalidTransition
			}
			completing = next == models.MaintenanceCompleted
			mr.Status = next
		}
		patch.CompletedDate.apply(&mr.CompletedDate)
		patch.Cost.apply(&mr.Cost)
		patch.PerformedBy.apply(&mr.PerformedBy)
		patch.Notes.apply(&mr.Notes)
		mr.UpdatedAt = s.now()

		if err := tx.SaveMaintenanceRecord(mr); err != nil {
			return err
		}
		if completing {
			if _, err := s.arbiter.Force(tx, mr.AssetID, "maintenance completed", models.AssetAvailable); err != nil {
				return err
			}
		}
		updated = mr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *MaintenanceService) recordAsset(ctx context.Context, id string) (string, error) {
	var assetID string
	err := s.view(ctx, func(tx Tx) error {
		mr, err := tx.FindMaintenanceRecord(id)
		if err != nil {
			return notFound(err, ErrMaintenanceRecordNotFound, id)
		}
		assetID = mr.AssetID
		return nil
	})
	return assetID, err
}

func (s *MaintenanceService) ListMaintenanceRecords(ctx context.Context, f MaintenanceFilter) ([]models.MaintenanceRecord, error) {
	var out []models.MaintenanceRecord
	err := s.view(ctx, func(tx Tx) error {
		var err error
		out, err = tx.ScanMaintenanceRecords(f)
		return err
	})
	return out, err
}

package lifecycle

import (
	"context"
	"strings"
	"time"

	"Gin_postgres_redis_asset_tool/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoanService owns the loan request lifecycle and its effect on assets.
type LoanService struct{ runner }

func NewLoanService(d Deps) *LoanService {
	return &LoanService{runner: newRunner(d, "svc.loans")}
}

type NewLoanRequest struct {
	AssetID    string
	UserID     string
	Purpose    string
	BorrowDate time.Time
	ReturnDate time.Time
	Notes      *string
}

// LoanPatch is a partial update. Status nil means "not requested".
type LoanPatch struct {
	Status           *models.LoanStatus  `json:"status"`
	HandoverDate     Optional[time.Time] `json:"handoverDate"`
	ActualReturnDate Optional[time.Time] `json:"actualReturnDate"`
	Notes            Optional[string]    `json:"notes"`
}

// CreateLoanRequest books a pending request. The asset status is not
// touched; only approval or handover claims the asset.
func (s *LoanService) CreateLoanRequest(ctx context.Context, in NewLoanRequest) (*models.LoanRequest, error) {
	if in.AssetID == "" || in.UserID == "" || strings.TrimSpace(in.Purpose) == "" ||
		in.BorrowDate.IsZero() || in.ReturnDate.IsZero() {
		return nil, ErrMissingRequiredData
	}

	var created *models.LoanRequest
	err := s.withAsset(ctx, in.AssetID, func(tx Tx) error {
		u, err := tx.FindUser(in.UserID)
		if err != nil {
			return notFound(err, ErrUserNotFound, in.UserID)
		}
		if !u.IsActive {
			return ErrUserInactive
		}
		a, err := tx.LockAsset(in.AssetID)
		if err != nil {
			return notFound(err, ErrAssetNotFound, in.AssetID)
		}
		if a.Status != models.AssetAvailable {
			return ErrAssetUnavailable
		}
		if !in.BorrowDate.Before(in.ReturnDate) {
			return ErrInvalidDateRange
		}
		now := s.now()
		if in.BorrowDate.Before(now) {
			return ErrBorrowDateInPast
		}
		hit, err := conflicting(tx, in.AssetID, in.BorrowDate, in.ReturnDate, "")
		if err != nil {
			return err
		}
		if hit != nil {
			s.log.Info("loan window rejected",
				zap.String("asset_id", in.AssetID), zap.String("conflicts_with", hit.ID))
			return ErrLoanConflict
		}

		lr := &models.LoanRequest{
			ID:         uuid.NewString(),
			UserID:     in.UserID,
			AssetID:    in.AssetID,
			Purpose:    in.Purpose,
			BorrowDate: in.BorrowDate,
			ReturnDate: in.ReturnDate,
			Status:     models.LoanPendingApproval,
			Notes:      in.Notes,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := tx.InsertLoanRequest(lr); err != nil {
			return err
		}
		created = lr
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("loan request created",
		zap.String("loan_id", created.ID), zap.String("asset_id", created.AssetID), zap.String("user_id", created.UserID))
	return created, nil
}

// UpdateLoanRequest applies patch through the loan state machine and moves
// the asset accordingly. approverID may be empty.
func (s *LoanService) UpdateLoanRequest(ctx context.Context, id string, patch LoanPatch, approverID string) (*models.LoanRequest, error) {
	assetID, err := s.loanAsset(ctx, id)
	if err != nil {
		return nil, err
	}

	var updated *models.LoanRequest
	err = s.withAsset(ctx, assetID, func(tx Tx) error {
		lr, err := tx.FindLoanRequest(id)
		if err != nil {
			return notFound(err, ErrLoanRequestNotFound, id)
		}
		out, err := applyLoanPatch(lr, patch, approverID, s.now)
		if err != nil {
			return err
		}
		lr.UpdatedAt = s.now()
		if err := tx.SaveLoanRequest(lr); err != nil {
			return err
		}
		if out.Asset != "" {
			if _, err := s.arbiter.Force(tx, lr.AssetID, out.Reason, out.Asset); err != nil {
				return err
			}
		}
		updated = lr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *LoanService) loanAsset(ctx context.Context, id string) (string, error) {
	var assetID string
	err := s.view(ctx, func(tx Tx) error {
		lr, err := tx.FindLoanRequest(id)
		if err != nil {
			return notFound(err, ErrLoanRequestNotFound, id)
		}
		assetID = lr.AssetID
		return nil
	})
	return assetID, err
}

func (s *LoanService) GetLoanRequest(ctx context.Context, id string) (*models.LoanRequest, error) {
	var lr *models.LoanRequest
	err := s.view(ctx, func(tx Tx) error {
		var err error
		lr, err = tx.FindLoanRequest(id)
		return notFound(err, ErrLoanRequestNotFound, id)
	})
	if err != nil {
		return nil, err
	}
	return lr, nil
}

func (s *LoanService) ListLoanRequests(ctx context.Context, f LoanFilter) ([]models.LoanRequest, error) {
	var out []models.LoanRequest
	err := s.view(ctx, func(tx Tx) error {
		var err error
		out, err = tx.ScanLoanRequests(f)
		return err
	})
	return out, err
}

// LoanHistory splits a user's loans by where they are in their life.
type LoanHistory struct {
	CurrentLoans    []models.LoanRequest `json:"currentLoans"`
	LoanHistory     []models.LoanRequest `json:"loanHistory"`
	PendingRequests []models.LoanRequest `json:"pendingRequests"`
}

// GetUserLoanHistory buckets every loan of the user. Current loans are
// approved, handed over and not yet returned; history is anything
// completed or returned.
func (s *LoanService) GetUserLoanHistory(ctx context.Context, userID string) (*LoanHistory, error) {
	h := &LoanHistory{
		CurrentLoans:    []models.LoanRequest{},
		LoanHistory:     []models.LoanRequest{},
		PendingRequests: []models.LoanRequest{},
	}
	err := s.view(ctx, func(tx Tx) error {
		if _, err := tx.FindUser(userID); err != nil {
			return notFound(err, ErrUserNotFound, userID)
		}
		loans, err := tx.ScanLoanRequests(LoanFilter{UserID: userID})
		if err != nil {
			return err
		}
		for _, lr := range loans {
			switch {
			case lr.Status == models.LoanApproved && lr.HandoverDate != nil && lr.ActualReturnDate == nil:
				h.CurrentLoans = append(h.CurrentLoans, lr)
			case lr.Status == models.LoanCompleted || lr.ActualReturnDate != nil:
				h.LoanHistory = append(h.LoanHistory, lr)
			case lr.Status == models.LoanPendingApproval:
				h.PendingRequests = append(h.PendingRequests, lr)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// GetAsset returns the asset as currently stored.
func (s *LoanService) GetAsset(ctx context.Context, id string) (*models.Asset, error) {
	var a *models.Asset
	err := s.view(ctx, func(tx Tx) error {
		var err error
		a, err = tx.FindAsset(id)
		return notFound(err, ErrAssetNotFound, id)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

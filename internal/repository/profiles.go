package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/reciptera/reciptera/internal/common"
	"github.com/reciptera/reciptera/internal/entity"
)

type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	IncrementUploadCount(ctx context.Context, id uuid.UUID) error
}

type profileRepository struct {
	db     Querier
	logger *slog.Logger
}

func NewProfileRepository(db Querier, logger *slog.Logger) ProfileRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &profileRepository{db: db, logger: logger}
}

func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	var p entity.Profile
	err := r.db.QueryRow(ctx,
		`SELECT id, full_name, business_name, default_currency, subscription_tier,
		        ocr_engine, monthly_upload_count, upload_limit, created_at, updated_at
		 FROM profiles WHERE id = $1`, id).
		Scan(&p.ID, &p.FullName, &p.BusinessName, &p.DefaultCurrency,
			&p.SubscriptionTier, &p.OCREngine, &p.MonthlyUploadCount,
			&p.UploadLimit, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFoundError("profile not found")
	}
	if err != nil {
		r.logger.Error("failed to get profile", "profile_id", id, "request_id", common.RequestIDFromContext(ctx), "error", err)
		return nil, common.NewAppError("DB_ERROR", "get profile", common.ErrDatabase)
	}
	return &p, nil
}

func (r *profileRepository) IncrementUploadCount(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE profiles SET monthly_upload_count = monthly_upload_count + 1, updated_at = now()
		 WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("failed to increment upload count", "profile_id", id, "request_id", common.RequestIDFromContext(ctx), "error", err)
		return common.NewAppError("DB_ERROR", "increment upload count", common.ErrDatabase)
	}
	if tag.RowsAffected() == 0 {
		return common.NotFoundError("profile not found")
	}
	return nil
}

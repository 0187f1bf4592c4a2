package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/reciptera/reciptera/internal/common"
	"github.com/reciptera/reciptera/internal/entity"
)

// ReceiptFilter narrows ListByProfile. Zero values mean no filtering on
// that dimension.
type ReceiptFilter struct {
	Year   int
	Month  int
	Search string
}

// Stats aggregates the numbers the dashboard shows.
type Stats struct {
	Count          int     `json:"count"`
	TotalAmount    float64 `json:"total_amount"`
	BusinessAmount float64 `json:"business_amount"`
	MonthCount     int     `json:"month_count"`
}

type ReceiptRepository interface {
	Create(ctx context.Context, rec *entity.Receipt) (*entity.Receipt, error)
	GetByID(ctx context.Context, profileID, id uuid.UUID) (*entity.Receipt, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID, filter ReceiptFilter) ([]*entity.Receipt, error)
	Delete(ctx context.Context, profileID, id uuid.UUID) error
	Stats(ctx context.Context, profileID uuid.UUID) (*Stats, error)
}

type receiptRepository struct {
	db     Querier
	logger *slog.Logger
}

func NewReceiptRepository(db Querier, logger *slog.Logger) ReceiptRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &receiptRepository{db: db, logger: logger}
}

const receiptColumns = "id, profile_id, merchant_name, amount, receipt_date, tax, is_business, notes, file_path, created_at"

func (r *receiptRepository) Create(ctx context.Context, rec *entity.Receipt) (*entity.Receipt, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO receipts (id, profile_id, merchant_name, amount, receipt_date, tax, is_business, notes, file_path)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+receiptColumns,
		rec.ID, rec.ProfileID, rec.MerchantName, rec.Amount, rec.ReceiptDate,
		rec.Tax, rec.IsBusiness, rec.Notes, rec.FilePath)
	out, err := scanReceipt(row)
	if err != nil {
		r.logger.Error("failed to create receipt", "profile_id", rec.ProfileID, "request_id", common.RequestIDFromContext(ctx), "error", err)
		return nil, common.NewAppError("DB_ERROR", "create receipt", common.ErrDatabase)
	}
	return out, nil
}

func (r *receiptRepository) GetByID(ctx context.Context, profileID, id uuid.UUID) (*entity.Receipt, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+receiptColumns+` FROM receipts WHERE id = $1 AND profile_id = $2`,
		id, profileID)
	out, err := scanReceipt(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFoundError("receipt not found")
	}
	if err != nil {
		r.logger.Error("failed to get receipt", "receipt_id", id, "request_id", common.RequestIDFromContext(ctx), "error", err)
		return nil, common.NewAppError("DB_ERROR", "get receipt", common.ErrDatabase)
	}
	return out, nil
}

func (r *receiptRepository) ListByProfile(ctx context.Context, profileID uuid.UUID, filter ReceiptFilter) ([]*entity.Receipt, error) {
	var (
		conds = []string{"profile_id = $1"}
		args  = []any{profileID}
	)
	if filter.Year > 0 {
		args = append(args, filter.Year)
		conds = append(conds, fmt.Sprintf("EXTRACT(YEAR FROM receipt_date) = $%d", len(args)))
	}
	if filter.Month > 0 {
		args = append(args, filter.Month)
		conds = append(conds, fmt.Sprintf("EXTRACT(MONTH FROM receipt_date) = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conds = append(conds, fmt.Sprintf("(merchant_name ILIKE $%d OR notes ILIKE $%d)", len(args), len(args)))
	}

	query := `SELECT ` + receiptColumns + ` FROM receipts WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY receipt_date DESC, created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list receipts", "profile_id", profileID, "request_id", common.RequestIDFromContext(ctx), "error", err)
		return nil, common.NewAppError("DB_ERROR", "list receipts", common.ErrDatabase)
	}
	defer rows.Close()

	var out []*entity.Receipt
	for rows.Next() {
		rec, err := scanReceipt(rows)
		if err != nil {
			r.logger.Error("failed to scan receipt", "profile_id", profileID, "request_id", common.RequestIDFromContext(ctx), "error", err)
			return nil, common.NewAppError("DB_ERROR", "scan receipt", common.ErrDatabase)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewAppError("DB_ERROR", "list receipts", common.ErrDatabase)
	}
	return out, nil
}

func (r *receiptRepository) Delete(ctx context.Context, profileID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM receipts WHERE id = $1 AND profile_id = $2`, id, profileID)
	if err != nil {
		r.logger.Error("failed to delete receipt", "receipt_id", id, "request_id", common.RequestIDFromContext(ctx), "error", err)
		return common.NewAppError("DB_ERROR", "delete receipt", common.ErrDatabase)
	}
	if tag.RowsAffected() == 0 {
		return common.NotFoundError("receipt not found")
	}
	return nil
}

func (r *receiptRepository) Stats(ctx context.Context, profileID uuid.UUID) (*Stats, error) {
	var s Stats
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(amount), 0),
		        COALESCE(SUM(amount) FILTER (WHERE is_business), 0),
		        COUNT(*) FILTER (WHERE receipt_date >= date_trunc('month', CURRENT_DATE))
		 FROM receipts WHERE profile_id = $1`,
		profileID).Scan(&s.Count, &s.TotalAmount, &s.BusinessAmount, &s.MonthCount)
	if err != nil {
		r.logger.Error("failed to compute stats", "profile_id", profileID, "request_id", common.RequestIDFromContext(ctx), "error", err)
		return nil, common.NewAppError("DB_ERROR", "receipt stats", common.ErrDatabase)
	}
	return &s, nil
}

func scanReceipt(row pgx.Row) (*entity.Receipt, error) {
	var rec entity.Receipt
	err := row.Scan(&rec.ID, &rec.ProfileID, &rec.MerchantName, &rec.Amount,
		&rec.ReceiptDate, &rec.Tax, &rec.IsBusiness, &rec.Notes, &rec.FilePath,
		&rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

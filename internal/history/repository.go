// AngelaMos | 2026
// repository.go

package history

import (
	"context"
	"fmt"
	"time"

	"github.com/angelamos/logoforge/internal/core"
)

type Repository interface {
	Create(ctx context.Context, record *Record) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Record, error)
	ClaimDemoRecords(
		ctx context.Context,
		userID string,
		cutoff time.Time,
	) (int64, error)
	CountAll(ctx context.Context) (int, error)
	ListRecent(ctx context.Context, limit int) ([]RecordSummary, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, record *Record) error {
	query := `
		INSERT INTO logos (
			id, user_id, company_name, layout, style, primary_color,
			background_color, additional_info, images, status,
			error_message, generation_ms, model_used
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &record.CreatedAt, query,
		record.ID,
		record.UserID,
		record.CompanyName,
		record.Layout,
		record.Style,
		record.PrimaryColor,
		record.BackgroundColor,
		record.AdditionalInfo,
		record.Images,
		record.Status,
		record.ErrorMessage,
		record.GenerationMS,
		record.ModelUsed,
	)
	if err != nil {
		return fmt.Errorf("create logo record: %w", err)
	}

	return nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
	limit int,
) ([]Record, error) {
	query := `
		SELECT id, user_id, company_name, layout, style, primary_color,
		       background_color, additional_info, images, status,
		       error_message, generation_ms, model_used, created_at
		FROM logos
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	var records []Record
	if err := r.db.SelectContext(ctx, &records, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list logos: %w", err)
	}

	return records, nil
}

func (r *repository) ClaimDemoRecords(
	ctx context.Context,
	userID string,
	cutoff time.Time,
) (int64, error) {
	query := `
		UPDATE logos
		SET user_id = $1
		WHERE user_id IS NULL AND created_at >= $2`

	result, err := r.db.ExecContext(ctx, query, userID, cutoff)
	if err != nil {
		return 0, fmt.Errorf("claim demo records: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("claim demo records: %w", err)
	}

	return rows, nil
}

func (r *repository) CountAll(ctx context.Context) (int, error) {
	var total int
	query := `SELECT COUNT(*) FROM logos`

	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("count logos: %w", err)
	}

	return total, nil
}

func (r *repository) ListRecent(
	ctx context.Context,
	limit int,
) ([]RecordSummary, error) {
	query := `
		SELECT l.id, l.user_id, u.email AS user_email, l.company_name,
		       l.layout, l.style, l.status, l.model_used, l.generation_ms,
		       l.created_at
		FROM logos l
		LEFT JOIN users u ON u.id = l.user_id
		ORDER BY l.created_at DESC
		LIMIT $1`

	var summaries []RecordSummary
	if err := r.db.SelectContext(ctx, &summaries, query, limit); err != nil {
		return nil, fmt.Errorf("list recent logos: %w", err)
	}

	return summaries, nil
}

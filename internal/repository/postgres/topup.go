package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/devgate/monetize/internal/domain/topup"
	"github.com/devgate/monetize/internal/logger"
	"github.com/devgate/monetize/internal/postgres"
	"github.com/devgate/monetize/internal/types"
)

type topupRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewTopupRepository(db *postgres.DB, logger *logger.Logger) topup.Repository {
	return &topupRepository{db: db, logger: logger}
}

func (r *topupRepository) Create(ctx context.Context, t *topup.Topup) error {
	query := `
	INSERT INTO topups (
		id, tenant_id, developer_id, amount, currency, order_id, scope,
		topup_status, error_summary, started_at, completed_at, failed_at, metadata,
		created_at, updated_at, created_by, updated_by, status
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
	)
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		t.ID,
		t.TenantID,
		t.DeveloperID,
		t.Amount,
		t.Currency,
		t.OrderID,
		t.Scope,
		t.TopupStatus,
		t.ErrorSummary,
		t.StartedAt,
		t.CompletedAt,
		t.FailedAt,
		t.Metadata,
		t.CreatedAt,
		t.UpdatedAt,
		t.CreatedBy,
		t.UpdatedBy,
		t.Status,
	)
	return wrapDBError(err, "topup")
}

func (r *topupRepository) Get(ctx context.Context, id string) (*topup.Topup, error) {
	query := `
	SELECT id, tenant_id, developer_id, amount, currency, order_id, scope,
		topup_status, error_summary, started_at, completed_at, failed_at, metadata,
		created_at, updated_at, created_by, updated_by, status
	FROM topups
	WHERE id = $1 AND tenant_id = $2 AND status != $3
	`

	var t topup.Topup
	err := r.db.GetQuerier(ctx).GetContext(ctx, &t, query,
		id, types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		return nil, wrapDBError(err, "topup")
	}
	return &t, nil
}

func (r *topupRepository) GetByOrderID(ctx context.Context, orderID string) (*topup.Topup, error) {
	query := `
	SELECT id, tenant_id, developer_id, amount, currency, order_id, scope,
		topup_status, error_summary, started_at, completed_at, failed_at, metadata,
		created_at, updated_at, created_by, updated_by, status
	FROM topups
	WHERE order_id = $1 AND tenant_id = $2 AND status != $3
	`

	var t topup.Topup
	err := r.db.GetQuerier(ctx).GetContext(ctx, &t, query,
		orderID, types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		return nil, wrapDBError(err, "topup")
	}
	return &t, nil
}

func (r *topupRepository) List(ctx context.Context, filter *types.TopupFilter) ([]*topup.Topup, error) {
	where, args := r.buildWhere(ctx, filter)

	query := fmt.Sprintf(`
	SELECT id, tenant_id, developer_id, amount, currency, order_id, scope,
		topup_status, error_summary, started_at, completed_at, failed_at, metadata,
		created_at, updated_at, created_by, updated_by, status
	FROM topups
	WHERE %s
	ORDER BY %s %s`,
		strings.Join(where, " AND "),
		sortColumn(filter.GetSort()),
		sortOrder(filter.GetOrder()),
	)

	if !filter.IsUnlimited() {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.GetLimit(), filter.GetOffset())
	}

	var topups []*topup.Topup
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &topups, query, args...)
	if err != nil {
		return nil, wrapDBError(err, "topup")
	}
	return topups, nil
}

func (r *topupRepository) Count(ctx context.Context, filter *types.TopupFilter) (int, error) {
	where, args := r.buildWhere(ctx, filter)

	query := fmt.Sprintf(
		`SELECT COUNT(*) FROM topups WHERE %s`,
		strings.Join(where, " AND "),
	)

	var count int
	err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...)
	if err != nil {
		return 0, wrapDBError(err, "topup")
	}
	return count, nil
}

func (r *topupRepository) Update(ctx context.Context, t *topup.Topup) error {
	query := `
	UPDATE topups
	SET topup_status = $3, error_summary = $4, started_at = $5,
		completed_at = $6, failed_at = $7, metadata = $8,
		updated_at = NOW(), updated_by = $9
	WHERE id = $1 AND tenant_id = $2
	`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		t.ID,
		t.TenantID,
		t.TopupStatus,
		t.ErrorSummary,
		t.StartedAt,
		t.CompletedAt,
		t.FailedAt,
		t.Metadata,
		t.UpdatedBy,
	)
	if err != nil {
		return wrapDBError(err, "topup")
	}
	return requireRowsAffected(result, "topup")
}

func (r *topupRepository) Delete(ctx context.Context, id string) error {
	query := `
	UPDATE topups
	SET status = $3, updated_at = NOW(), updated_by = $4
	WHERE id = $1 AND tenant_id = $2
	`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		id, types.GetTenantID(ctx), types.StatusDeleted, types.GetUserID(ctx))
	if err != nil {
		return wrapDBError(err, "topup")
	}
	return requireRowsAffected(result, "topup")
}

func (r *topupRepository) buildWhere(ctx context.Context, filter *types.TopupFilter) ([]string, []interface{}) {
	where := []string{"tenant_id = $1", "status = $2"}
	args := []interface{}{types.GetTenantID(ctx), filter.GetStatus()}

	if filter.DeveloperID != "" {
		args = append(args, filter.DeveloperID)
		where = append(where, fmt.Sprintf("developer_id = $%d", len(args)))
	}

	if filter.OrderID != "" {
		args = append(args, filter.OrderID)
		where = append(where, fmt.Sprintf("order_id = $%d", len(args)))
	}

	if filter.TopupStatus != nil {
		args = append(args, *filter.TopupStatus)
		where = append(where, fmt.Sprintf("topup_status = $%d", len(args)))
	}

	if filter.TimeRangeFilter != nil {
		if filter.StartTime != nil {
			args = append(args, *filter.StartTime)
			where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
		}
		if filter.EndTime != nil {
			args = append(args, *filter.EndTime)
			where = append(where, fmt.Sprintf("created_at <= $%d", len(args)))
		}
	}

	return where, args
}

package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/devgate/monetize/internal/domain/subscription"
	"github.com/devgate/monetize/internal/logger"
	"github.com/devgate/monetize/internal/postgres"
	"github.com/devgate/monetize/internal/types"
)

type subscriptionRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewSubscriptionRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return &subscriptionRepository{db: db, logger: logger}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	query := `
	INSERT INTO subscriptions (
		id, tenant_id, developer_id, rate_plan_id, start_date, end_date,
		created_at, updated_at, created_by, updated_by, status
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
	)
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		sub.ID,
		sub.TenantID,
		sub.DeveloperID,
		sub.RatePlanID,
		sub.StartDate,
		sub.EndDate,
		sub.CreatedAt,
		sub.UpdatedAt,
		sub.CreatedBy,
		sub.UpdatedBy,
		sub.Status,
	)
	return wrapDBError(err, "subscription")
}

func (r *subscriptionRepository) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	query := `
	SELECT id, tenant_id, developer_id, rate_plan_id, start_date, end_date,
		created_at, updated_at, created_by, updated_by, status
	FROM subscriptions
	WHERE id = $1 AND tenant_id = $2 AND status != $3
	`

	var sub subscription.Subscription
	err := r.db.GetQuerier(ctx).GetContext(ctx, &sub, query,
		id, types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		return nil, wrapDBError(err, "subscription")
	}
	return &sub, nil
}

func (r *subscriptionRepository) List(ctx context.Context, filter *types.SubscriptionFilter) ([]*subscription.Subscription, error) {
	where, args := r.buildWhere(ctx, filter)

	query := fmt.Sprintf(`
	SELECT id, tenant_id, developer_id, rate_plan_id, start_date, end_date,
		created_at, updated_at, created_by, updated_by, status
	FROM subscriptions
	WHERE %s
	ORDER BY %s %s`,
		strings.Join(where, " AND "),
		sortColumn(filter.GetSort()),
		sortOrder(filter.GetOrder()),
	)

	if !filter.IsUnlimited() {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.GetLimit(), filter.GetOffset())
	}

	var subs []*subscription.Subscription
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &subs, query, args...)
	if err != nil {
		return nil, wrapDBError(err, "subscription")
	}
	return subs, nil
}

func (r *subscriptionRepository) Count(ctx context.Context, filter *types.SubscriptionFilter) (int, error) {
	where, args := r.buildWhere(ctx, filter)

	query := fmt.Sprintf(
		`SELECT COUNT(*) FROM subscriptions WHERE %s`,
		strings.Join(where, " AND "),
	)

	var count int
	err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...)
	if err != nil {
		return 0, wrapDBError(err, "subscription")
	}
	return count, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	query := `
	UPDATE subscriptions
	SET start_date = $3, end_date = $4, updated_at = NOW(), updated_by = $5
	WHERE id = $1 AND tenant_id = $2
	`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		sub.ID,
		sub.TenantID,
		sub.StartDate,
		sub.EndDate,
		sub.UpdatedBy,
	)
	if err != nil {
		return wrapDBError(err, "subscription")
	}
	return requireRowsAffected(result, "subscription")
}

func (r *subscriptionRepository) Delete(ctx context.Context, id string) error {
	query := `
	UPDATE subscriptions
	SET status = $3, updated_at = NOW(), updated_by = $4
	WHERE id = $1 AND tenant_id = $2
	`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		id, types.GetTenantID(ctx), types.StatusDeleted, types.GetUserID(ctx))
	if err != nil {
		return wrapDBError(err, "subscription")
	}
	return requireRowsAffected(result, "subscription")
}

// buildWhere assembles the filter clauses shared by List and Count
func (r *subscriptionRepository) buildWhere(ctx context.Context, filter *types.SubscriptionFilter) ([]string, []interface{}) {
	where := []string{"tenant_id = $1", "status = $2"}
	args := []interface{}{types.GetTenantID(ctx), filter.GetStatus()}

	if filter.DeveloperID != "" {
		args = append(args, filter.DeveloperID)
		where = append(where, fmt.Sprintf("developer_id = $%d", len(args)))
	}

	if filter.RatePlanID != "" {
		args = append(args, filter.RatePlanID)
		where = append(where, fmt.Sprintf("rate_plan_id = $%d", len(args)))
	}

	if filter.ActiveOnly {
		args = append(args, time.Now().UTC())
		n := len(args)
		where = append(where, fmt.Sprintf("start_date <= $%d", n))
		where = append(where, fmt.Sprintf("(end_date IS NULL OR end_date >= $%d)", n))
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

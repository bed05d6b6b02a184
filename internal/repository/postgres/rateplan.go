package postgres

import (
	"context"

	"github.com/devgate/monetize/internal/domain/rateplan"
	"github.com/devgate/monetize/internal/logger"
	"github.com/devgate/monetize/internal/postgres"
	"github.com/devgate/monetize/internal/types"
)

type ratePlanRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewRatePlanRepository(db *postgres.DB, logger *logger.Logger) rateplan.Repository {
	return &ratePlanRepository{db: db, logger: logger}
}

func (r *ratePlanRepository) Create(ctx context.Context, plan *rateplan.RatePlan) error {
	query := `
	INSERT INTO rate_plans (
		id, tenant_id, name, display_name, currency, setup_fee, recurring_fee,
		created_at, updated_at, created_by, updated_by, status
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
	)
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		plan.ID,
		plan.TenantID,
		plan.Name,
		plan.DisplayName,
		plan.Currency,
		plan.SetupFee,
		plan.RecurringFee,
		plan.CreatedAt,
		plan.UpdatedAt,
		plan.CreatedBy,
		plan.UpdatedBy,
		plan.Status,
	)
	return wrapDBError(err, "rate plan")
}

func (r *ratePlanRepository) Get(ctx context.Context, id string) (*rateplan.RatePlan, error) {
	query := `
	SELECT id, tenant_id, name, display_name, currency, setup_fee, recurring_fee,
		created_at, updated_at, created_by, updated_by, status
	FROM rate_plans
	WHERE id = $1 AND tenant_id = $2 AND status != $3
	`

	var plan rateplan.RatePlan
	err := r.db.GetQuerier(ctx).GetContext(ctx, &plan, query,
		id, types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		return nil, wrapDBError(err, "rate plan")
	}
	return &plan, nil
}

func (r *ratePlanRepository) List(ctx context.Context) ([]*rateplan.RatePlan, error) {
	query := `
	SELECT id, tenant_id, name, display_name, currency, setup_fee, recurring_fee,
		created_at, updated_at, created_by, updated_by, status
	FROM rate_plans
	WHERE tenant_id = $1 AND status = $2
	ORDER BY created_at DESC
	`

	var plans []*rateplan.RatePlan
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &plans, query,
		types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		return nil, wrapDBError(err, "rate plan")
	}
	return plans, nil
}

func (r *ratePlanRepository) Delete(ctx context.Context, id string) error {
	query := `
	UPDATE rate_plans
	SET status = $3, updated_at = NOW(), updated_by = $4
	WHERE id = $1 AND tenant_id = $2
	`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		id, types.GetTenantID(ctx), types.StatusDeleted, types.GetUserID(ctx))
	if err != nil {
		return wrapDBError(err, "rate plan")
	}
	return requireRowsAffected(result, "rate plan")
}

package postgres

import (
	"context"
	"encoding/json"

	"github.com/devgate/monetize/internal/domain/order"
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/logger"
	"github.com/devgate/monetize/internal/postgres"
	"github.com/devgate/monetize/internal/types"
)

type orderRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewOrderRepository(db *postgres.DB, logger *logger.Logger) order.Repository {
	return &orderRepository{db: db, logger: logger}
}

func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	query := `
	INSERT INTO orders (
		id, tenant_id, number, developer_id, state, items,
		created_at, updated_at, created_by, updated_by, status
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
	)
	`

	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode order items").
			Mark(ierr.ErrSystem)
	}

	_, err = r.db.GetQuerier(ctx).ExecContext(ctx, query,
		o.ID,
		o.TenantID,
		o.Number,
		o.DeveloperID,
		o.State,
		itemsJSON,
		o.CreatedAt,
		o.UpdatedAt,
		o.CreatedBy,
		o.UpdatedBy,
		o.Status,
	)
	return wrapDBError(err, "order")
}

func (r *orderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	query := `
	SELECT id, tenant_id, number, developer_id, state, items,
		created_at, updated_at, created_by, updated_by, status
	FROM orders
	WHERE id = $1 AND tenant_id = $2 AND status != $3
	`

	var o order.Order
	var itemsJSON []byte

	err := r.db.GetQuerier(ctx).QueryRowContext(ctx, query,
		id, types.GetTenantID(ctx), types.StatusDeleted,
	).Scan(
		&o.ID,
		&o.TenantID,
		&o.Number,
		&o.DeveloperID,
		&o.State,
		&itemsJSON,
		&o.CreatedAt,
		&o.UpdatedAt,
		&o.CreatedBy,
		&o.UpdatedBy,
		&o.Status,
	)
	if err != nil {
		return nil, wrapDBError(err, "order")
	}

	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to decode order items").
				Mark(ierr.ErrSystem)
		}
	}

	return &o, nil
}

func (r *orderRepository) Update(ctx context.Context, o *order.Order) error {
	query := `
	UPDATE orders
	SET state = $3, items = $4, updated_at = NOW(), updated_by = $5
	WHERE id = $1 AND tenant_id = $2
	`

	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode order items").
			Mark(ierr.ErrSystem)
	}

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		o.ID,
		o.TenantID,
		o.State,
		itemsJSON,
		o.UpdatedBy,
	)
	if err != nil {
		return wrapDBError(err, "order")
	}
	return requireRowsAffected(result, "order")
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	query := `
	UPDATE orders
	SET status = $3, updated_at = NOW(), updated_by = $4
	WHERE id = $1 AND tenant_id = $2
	`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		id, types.GetTenantID(ctx), types.StatusDeleted, types.GetUserID(ctx))
	if err != nil {
		return wrapDBError(err, "order")
	}
	return requireRowsAffected(result, "order")
}

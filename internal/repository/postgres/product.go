package postgres

import (
	"context"

	"github.com/devgate/monetize/internal/domain/order"
	"github.com/devgate/monetize/internal/logger"
	"github.com/devgate/monetize/internal/postgres"
	"github.com/devgate/monetize/internal/types"
)

type productRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewProductRepository(db *postgres.DB, logger *logger.Logger) order.ProductRepository {
	return &productRepository{db: db, logger: logger}
}

func (r *productRepository) Create(ctx context.Context, p *order.Product) error {
	query := `
	INSERT INTO products (
		id, tenant_id, title, price, currency, add_credit_enabled,
		custom_amount_allowed, minimum_amount, skip_cart,
		created_at, updated_at, created_by, updated_by, status
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
	)
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		p.ID,
		p.TenantID,
		p.Title,
		p.Price,
		p.Currency,
		p.AddCreditEnabled,
		p.CustomAmountAllowed,
		p.MinimumAmount,
		p.SkipCart,
		p.CreatedAt,
		p.UpdatedAt,
		p.CreatedBy,
		p.UpdatedBy,
		p.Status,
	)
	return wrapDBError(err, "product")
}

func (r *productRepository) Get(ctx context.Context, id string) (*order.Product, error) {
	query := `
	SELECT id, tenant_id, title, price, currency, add_credit_enabled,
		custom_amount_allowed, minimum_amount, skip_cart,
		created_at, updated_at, created_by, updated_by, status
	FROM products
	WHERE id = $1 AND tenant_id = $2 AND status != $3
	`

	var p order.Product
	err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query,
		id, types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		return nil, wrapDBError(err, "product")
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context) ([]*order.Product, error) {
	query := `
	SELECT id, tenant_id, title, price, currency, add_credit_enabled,
		custom_amount_allowed, minimum_amount, skip_cart,
		created_at, updated_at, created_by, updated_by, status
	FROM products
	WHERE tenant_id = $1 AND status = $2
	ORDER BY created_at DESC
	`

	var products []*order.Product
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &products, query,
		types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		return nil, wrapDBError(err, "product")
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, p *order.Product) error {
	query := `
	UPDATE products
	SET title = $3, price = $4, currency = $5, add_credit_enabled = $6,
		custom_amount_allowed = $7, minimum_amount = $8, skip_cart = $9,
		updated_at = NOW(), updated_by = $10
	WHERE id = $1 AND tenant_id = $2
	`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		p.ID,
		p.TenantID,
		p.Title,
		p.Price,
		p.Currency,
		p.AddCreditEnabled,
		p.CustomAmountAllowed,
		p.MinimumAmount,
		p.SkipCart,
		p.UpdatedBy,
	)
	if err != nil {
		return wrapDBError(err, "product")
	}
	return requireRowsAffected(result, "product")
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	query := `
	UPDATE products
	SET status = $3, updated_at = NOW(), updated_by = $4
	WHERE id = $1 AND tenant_id = $2
	`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		id, types.GetTenantID(ctx), types.StatusDeleted, types.GetUserID(ctx))
	if err != nil {
		return wrapDBError(err, "product")
	}
	return requireRowsAffected(result, "product")
}

package postgres

import (
	"context"

	"github.com/devgate/monetize/internal/domain/developer"
	"github.com/devgate/monetize/internal/logger"
	"github.com/devgate/monetize/internal/postgres"
	"github.com/devgate/monetize/internal/types"
)

type developerRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewDeveloperRepository(db *postgres.DB, logger *logger.Logger) developer.Repository {
	return &developerRepository{db: db, logger: logger}
}

func (r *developerRepository) Create(ctx context.Context, dev *developer.Developer) error {
	query := `
	INSERT INTO developers (
		id, tenant_id, email, display_name,
		created_at, updated_at, created_by, updated_by, status
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9
	)
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		dev.ID,
		dev.TenantID,
		dev.Email,
		dev.DisplayName,
		dev.CreatedAt,
		dev.UpdatedAt,
		dev.CreatedBy,
		dev.UpdatedBy,
		dev.Status,
	)
	return wrapDBError(err, "developer")
}

func (r *developerRepository) Get(ctx context.Context, id string) (*developer.Developer, error) {
	query := `
	SELECT id, tenant_id, email, display_name,
		created_at, updated_at, created_by, updated_by, status
	FROM developers
	WHERE id = $1 AND tenant_id = $2 AND status != $3
	`

	var dev developer.Developer
	err := r.db.GetQuerier(ctx).GetContext(ctx, &dev, query,
		id, types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		return nil, wrapDBError(err, "developer")
	}
	return &dev, nil
}

func (r *developerRepository) GetByEmail(ctx context.Context, email string) (*developer.Developer, error) {
	query := `
	SELECT id, tenant_id, email, display_name,
		created_at, updated_at, created_by, updated_by, status
	FROM developers
	WHERE email = $1 AND tenant_id = $2 AND status != $3
	`

	var dev developer.Developer
	err := r.db.GetQuerier(ctx).GetContext(ctx, &dev, query,
		email, types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		return nil, wrapDBError(err, "developer")
	}
	return &dev, nil
}

func (r *developerRepository) Update(ctx context.Context, dev *developer.Developer) error {
	query := `
	UPDATE developers
	SET email = $3, display_name = $4, updated_at = NOW(), updated_by = $5
	WHERE id = $1 AND tenant_id = $2
	`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		dev.ID,
		dev.TenantID,
		dev.Email,
		dev.DisplayName,
		dev.UpdatedBy,
	)
	if err != nil {
		return wrapDBError(err, "developer")
	}
	return requireRowsAffected(result, "developer")
}

func (r *developerRepository) Delete(ctx context.Context, id string) error {
	query := `
	UPDATE developers
	SET status = $3, updated_at = NOW(), updated_by = $4
	WHERE id = $1 AND tenant_id = $2
	`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		id, types.GetTenantID(ctx), types.StatusDeleted, types.GetUserID(ctx))
	if err != nil {
		return wrapDBError(err, "developer")
	}
	return requireRowsAffected(result, "developer")
}

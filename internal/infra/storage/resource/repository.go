package resource

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultorioService/pkg/psqlbuilder"
)

const tableName = "resources"

var columns = []string{
	"id",
	"name",
	"hourly_rate",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository справочник консульториев и их почасовых ставок
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория консульториев
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает консульторий по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanResource(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan resource: %v", ErrScanRow, err)
	}

	return res, nil
}

// List консульторий по имени; onlyActive скрывает закрытые
func (r *Repository) List(ctx context.Context, onlyActive bool) ([]*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).From(tableName)
	if onlyActive {
		builder = builder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := builder.OrderBy("name ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	resources := make([]*domain.Resource, 0)
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan resource: %v", ErrScanRow, err)
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - iterate rows: %v", ErrScanRow, err)
	}

	return resources, nil
}

// Update сохраняет имя, ставку и признак активности
func (r *Repository) Update(ctx context.Context, res *domain.Resource) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("name", res.Name).
		Set("hourly_rate", res.HourlyRate).
		Set("is_active", res.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": res.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	updated := *res
	updated.CreatedAt = createdAt.Time
	updated.UpdatedAt = updatedAt.Time
	return &updated, nil
}

// HourlyRate текущая почасовая ставка консультория
func (r *Repository) HourlyRate(ctx context.Context, resourceID int64) (decimal.Decimal, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("hourly_rate").
		From(tableName).
		Where(squirrel.Eq{"id": resourceID}).
		ToSql()

	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: HourlyRate - build select query: %v", ErrBuildQuery, err)
	}

	var rate decimal.Decimal
	err = executor.QueryRowContext(ctx, query, args...).Scan(&rate)
	if err == sql.ErrNoRows {
		return decimal.Zero, ErrResourceNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: HourlyRate - scan rate: %v", ErrScanRow, err)
	}

	return rate, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResource(row rowScanner) (*domain.Resource, error) {
	var res domain.Resource
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(
		&res.ID,
		&res.Name,
		&res.HourlyRate,
		&res.IsActive,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time
	return &res, nil
}

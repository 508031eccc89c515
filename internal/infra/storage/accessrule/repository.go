package accessrule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultorioService/pkg/psqlbuilder"
)

const tableName = "access_name_rules"

// Repository постоянные правила для имён из журнала доступа
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// List возвращает все правила в порядке создания
func (r *Repository) List(ctx context.Context) ([]domain.AccessNameRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "raw_name", "action", "user_id", "created_at").
		From(tableName).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]domain.AccessNameRule, 0)
	for rows.Next() {
		var (
			rule      domain.AccessNameRule
			action    string
			userID    sql.NullInt64
			createdAt sql.NullTime
		)
		if err := rows.Scan(&rule.ID, &rule.RawName, &action, &userID, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: List - scan rule: %v", ErrScanRow, err)
		}
		rule.Action = domain.NameRuleAction(action)
		if userID.Valid {
			id := userID.Int64
			rule.UserID = &id
		}
		rule.CreatedAt = createdAt.Time
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}

// Create сохраняет правило; имя должно быть уже нормализовано
func (r *Repository) Create(ctx context.Context, rule *domain.AccessNameRule) (*domain.AccessNameRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("raw_name", "action", "user_id").
		Values(rule.RawName, string(rule.Action), rule.UserID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &createdAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, rule.RawName)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	rule.CreatedAt = createdAt.Time

	return rule, nil
}

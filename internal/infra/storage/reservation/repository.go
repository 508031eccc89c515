package reservation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultorioService/pkg/psqlbuilder"
)

const tableName = "reservations"

var columns = []string{
	"id",
	"resource_id",
	"owner_id",
	"start_time",
	"end_time",
	"kind",
	"uses_shared_accessory",
	"status",
	"recurrence_id",
	"recurrence_end_date",
	"reschedule_source_id",
	"reschedule_deadline",
	"was_rescheduled",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями консульториев
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE), чтобы решение об отмене
// принималось по состоянию, которое никто не изменит до COMMIT
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	reservation, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return reservation, nil
}

// GetByIDs получает бронирования по списку ID (отсутствующие ID пропускаются)
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Reservation, error) {
	if len(ids) == 0 {
		return []*domain.Reservation{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": ids}).
		OrderBy("start_time ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// FindOverlapping ищет блокирующие бронирования консультория, пересекающиеся хотя бы с одним интервалом
func (r *Repository) FindOverlapping(ctx context.Context, resourceID int64, intervals []domain.Interval) ([]*domain.Reservation, error) {
	if len(intervals) == 0 {
		return []*domain.Reservation{}, nil
	}

	return r.findOverlapping(ctx, "FindOverlapping", squirrel.Eq{"resource_id": resourceID}, intervals)
}

// FindOverlappingAccessory ищет блокирующие бронирования с камильей во всех консульториях
func (r *Repository) FindOverlappingAccessory(ctx context.Context, intervals []domain.Interval) ([]*domain.Reservation, error) {
	if len(intervals) == 0 {
		return []*domain.Reservation{}, nil
	}

	return r.findOverlapping(ctx, "FindOverlappingAccessory", squirrel.Eq{"uses_shared_accessory": true}, intervals)
}

func (r *Repository) findOverlapping(ctx context.Context, op string, scope squirrel.Sqlizer, intervals []domain.Interval) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// [start, end) пересекается с [s, e), если start < e AND end > s
	overlap := squirrel.Or{}
	for _, iv := range intervals {
		overlap = append(overlap, squirrel.And{
			squirrel.Lt{"start_time": iv.End},
			squirrel.Gt{"end_time": iv.Start},
		})
	}

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(scope).
		Where(squirrel.Eq{"status": statusStrings(domain.BlockingStatuses)}).
		Where(overlap).
		OrderBy("start_time ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// FindSeriesInstances получает активные экземпляры серии, начинающиеся не раньше from,
// по возрастанию времени начала (внутри транзакции - с блокировкой строк)
func (r *Repository) FindSeriesInstances(ctx context.Context, recurrenceID uuid.UUID, from time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"recurrence_id": recurrenceID}).
		Where(squirrel.Eq{"status": domain.StatusActive}).
		Where(squirrel.GtOrEq{"start_time": from}).
		OrderBy("start_time ASC", "id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindSeriesInstances - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindSeriesInstances - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// GetSeries получает все экземпляры серии (в любом статусе) по возрастанию времени начала
func (r *Repository) GetSeries(ctx context.Context, recurrenceID uuid.UUID) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"recurrence_id": recurrenceID}).
		OrderBy("start_time ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSeries - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetSeries - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// FindByOwnerInPeriod получает бронирования владельца, начинающиеся в [From, To)
// Опционально фильтрует по статусам
func (r *Repository) FindByOwnerInPeriod(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"owner_id": filter.OwnerID}).
		Where(squirrel.GtOrEq{"start_time": filter.From}).
		Where(squirrel.Lt{"start_time": filter.To}).
		OrderBy("start_time ASC", "id ASC")

	if len(filter.Statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(filter.Statuses)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindByOwnerInPeriod - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindByOwnerInPeriod - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// FindByOwnersInRange получает блокирующие бронирования нескольких владельцев,
// пересекающиеся с [from, to) - используется сверкой журнала доступа
func (r *Repository) FindByOwnersInRange(ctx context.Context, ownerIDs []int64, from, to time.Time) ([]*domain.Reservation, error) {
	if len(ownerIDs) == 0 {
		return []*domain.Reservation{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"owner_id": ownerIDs}).
		Where(squirrel.Eq{"status": statusStrings(domain.BlockingStatuses)}).
		Where(squirrel.Lt{"start_time": to}).
		Where(squirrel.Gt{"end_time": from}).
		OrderBy("owner_id ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindByOwnersInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindByOwnersInRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// InsertMany создает бронирования одним INSERT (всё или ничего)
// Для атомарности вместе с другими изменениями вызывать внутри транзакции
func (r *Repository) InsertMany(ctx context.Context, reservations []*domain.Reservation) ([]*domain.Reservation, error) {
	if len(reservations) == 0 {
		return reservations, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert(tableName).
		Columns(
			"resource_id",
			"owner_id",
			"start_time",
			"end_time",
			"kind",
			"uses_shared_accessory",
			"status",
			"recurrence_id",
			"recurrence_end_date",
			"reschedule_source_id",
			"reschedule_deadline",
			"was_rescheduled",
			"cancelled_at",
		)

	for _, res := range reservations {
		if err := res.Status.Validate(); err != nil {
			return nil, fmt.Errorf("%w: InsertMany - %v", ErrInvalidStatus, err)
		}
		insertBuilder = insertBuilder.Values(
			res.ResourceID,
			res.OwnerID,
			res.StartTime,
			res.EndTime,
			string(res.Kind),
			res.UsesSharedAccessory,
			string(res.Status),
			res.RecurrenceID,
			res.RecurrenceEndDate,
			res.RescheduleSourceID,
			res.RescheduleDeadline,
			res.WasRescheduled,
			res.CancelledAt,
		)
	}

	query, args, err := insertBuilder.
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: InsertMany - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapWriteError("InsertMany", err)
	}
	defer rows.Close()

	// PostgreSQL возвращает строки RETURNING в порядке VALUES
	i := 0
	for rows.Next() {
		if i >= len(reservations) {
			return nil, fmt.Errorf("%w: InsertMany - more rows returned than inserted", ErrScanRow)
		}
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&reservations[i].ID, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: InsertMany - scan returning: %v", ErrScanRow, err)
		}
		reservations[i].CreatedAt = createdAt.Time
		reservations[i].UpdatedAt = updatedAt.Time
		i++
	}

	if err := rows.Err(); err != nil {
		return nil, wrapWriteError("InsertMany", err)
	}
	if i != len(reservations) {
		return nil, fmt.Errorf("%w: InsertMany - inserted %d of %d rows", ErrScanRow, i, len(reservations))
	}

	return reservations, nil
}

// UpdateMany сохраняет изменяемые поля бронирований (статус, отмена, перенос, конец серии)
// Атомарность обеспечивает вызывающий - через транзакцию в контексте
func (r *Repository) UpdateMany(ctx context.Context, reservations []*domain.Reservation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for _, res := range reservations {
		if err := res.Status.Validate(); err != nil {
			return fmt.Errorf("%w: UpdateMany - %v", ErrInvalidStatus, err)
		}

		query, args, err := psqlbuilder.Update(tableName).
			Set("status", string(res.Status)).
			Set("cancelled_at", res.CancelledAt).
			Set("reschedule_deadline", res.RescheduleDeadline).
			Set("was_rescheduled", res.WasRescheduled).
			Set("recurrence_end_date", res.RecurrenceEndDate).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": res.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: UpdateMany - build update query: %v", ErrBuildQuery, err)
		}

		result, err := executor.ExecContext(ctx, query, args...)
		if err != nil {
			return wrapWriteError(fmt.Sprintf("UpdateMany id=%d", res.ID), err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: UpdateMany - get rows affected: %v", ErrExecQuery, err)
		}

		if rowsAffected == 0 {
			return fmt.Errorf("%w: id=%d", ErrReservationNotFound, res.ID)
		}
	}

	return nil
}

// UpdateRecurrenceEndDate переносит конец серии для всех её экземпляров
func (r *Repository) UpdateRecurrenceEndDate(ctx context.Context, recurrenceID uuid.UUID, endDate time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("recurrence_end_date", endDate).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"recurrence_id": recurrenceID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: UpdateRecurrenceEndDate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, wrapWriteError("UpdateRecurrenceEndDate", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: UpdateRecurrenceEndDate - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return 0, ErrReservationNotFound
	}

	return rowsAffected, nil
}

// MarkUsed переводит активные бронирования в статус used (посещение подтверждено журналом)
// Возвращает количество обновлённых строк; неактивные бронирования пропускаются
func (r *Repository) MarkUsed(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", string(domain.StatusUsed)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids}).
		Where(squirrel.Eq{"status": string(domain.StatusActive)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: MarkUsed - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, wrapWriteError("MarkUsed", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: MarkUsed - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		res                domain.Reservation
		kind, status       string
		recurrenceID       uuid.NullUUID
		recurrenceEndDate  sql.NullTime
		rescheduleSourceID sql.NullInt64
		rescheduleDeadline sql.NullTime
		cancelledAt        sql.NullTime
		createdAt          sql.NullTime
		updatedAt          sql.NullTime
	)

	err := row.Scan(
		&res.ID,
		&res.ResourceID,
		&res.OwnerID,
		&res.StartTime,
		&res.EndTime,
		&kind,
		&res.UsesSharedAccessory,
		&status,
		&recurrenceID,
		&recurrenceEndDate,
		&rescheduleSourceID,
		&rescheduleDeadline,
		&res.WasRescheduled,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.Kind = domain.ReservationKind(kind)
	res.Status = domain.ReservationStatus(status)
	if err := res.Status.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}

	if recurrenceID.Valid {
		id := recurrenceID.UUID
		res.RecurrenceID = &id
	}
	res.RecurrenceEndDate = nullTimePtr(recurrenceEndDate)
	if rescheduleSourceID.Valid {
		id := rescheduleSourceID.Int64
		res.RescheduleSourceID = &id
	}
	res.RescheduleDeadline = nullTimePtr(rescheduleDeadline)
	res.CancelledAt = nullTimePtr(cancelledAt)
	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

// scanReservations сканирует результаты запроса в слайс бронирований
func scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func statusStrings(statuses []domain.ReservationStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

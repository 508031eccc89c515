package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

// Service сверка журнала физического доступа с бронированиями
type Service struct {
	reservations ReservationRepository
	rules        RuleRepository
	users        UserDirectory
	txManager    TransactionManager
	notifier     Notifier
	timeProvider TimeProvider
	tolerance    time.Duration
	logger       Logger
}

// NewService создает новый экземпляр сервиса сверки
func NewService(
	reservations ReservationRepository,
	rules RuleRepository,
	users UserDirectory,
	txManager TransactionManager,
	notifier Notifier,
	timeProvider TimeProvider,
	tolerance time.Duration,
	logger Logger,
) *Service {
	return &Service{
		reservations: reservations,
		rules:        rules,
		users:        users,
		txManager:    txManager,
		notifier:     notifier,
		timeProvider: timeProvider,
		tolerance:    tolerance,
		logger:       logger,
	}
}

// Run сверяет строки журнала; при Apply отмечает подтверждённые бронирования как used
func (s *Service) Run(ctx context.Context, req *RunRequest) (*RunResult, error) {
	s.logger.Info("Reconcile: %d row(s), apply=%t", len(req.Rows), req.Apply)

	if !req.Role.IsAdmin() {
		return nil, ErrAccessDenied
	}

	if len(req.Rows) == 0 {
		return &RunResult{Report: Reconcile(Input{})}, nil
	}

	// 1. Диапазон журнала
	from, to := req.Rows[0].AccessedAt, req.Rows[0].AccessedAt
	for i, row := range req.Rows {
		if row.AccessedAt.IsZero() {
			return nil, fmt.Errorf("%w: row %d (%q)", ErrInvalidRow, i+1, row.RawName)
		}
		if row.AccessedAt.Before(from) {
			from = row.AccessedAt
		}
		if row.AccessedAt.After(to) {
			to = row.AccessedAt
		}
	}

	// 2. Справочник и правила
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		s.logger.Error("Reconcile: failed to list users: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrUserDirectory, err)
	}

	rules, err := s.rules.List(ctx)
	if err != nil {
		s.logger.Error("Reconcile: failed to list name rules: %v", err)
		return nil, fmt.Errorf("%w: Run - rules: %v", ErrInternal, err)
	}

	// 3. Сопоставление имён, затем бронирования только найденных пользователей
	input := Input{Rows: req.Rows, Users: users, Rules: rules, Tolerance: s.tolerance}
	ownerIDs := matchedUsers(Reconcile(input))

	if len(ownerIDs) > 0 {
		// start - tolerance <= at < end  =>  start <= to + tolerance, end > from
		input.Reservations, err = s.reservations.FindByOwnersInRange(ctx, ownerIDs, from, to.Add(s.tolerance).Add(time.Nanosecond))
		if err != nil {
			s.logger.Error("Reconcile: failed to load reservations: %v", err)
			return nil, fmt.Errorf("%w: Run - reservations: %v", ErrInternal, err)
		}
	}

	result := &RunResult{Report: Reconcile(input)}
	stats := result.Report.Stats
	s.logger.Info("Reconcile: total=%d valid=%d no_reservation=%d unmatched=%d ignored=%d tracked=%d",
		stats.Total, stats.Valid, stats.NoReservation, stats.Unmatched, stats.Ignored, stats.Tracked)

	if !req.Apply {
		return result, nil
	}

	// 4. Отмечаем посещённые бронирования, которые уже начались
	byID := make(map[int64]*domain.Reservation, len(input.Reservations))
	for _, r := range input.Reservations {
		byID[r.ID] = r
	}

	now := s.timeProvider.Now()
	toMark := make([]int64, 0)
	owners := make(map[int64][]int64)
	seen := make(map[int64]struct{})
	for _, m := range result.Report.Results {
		if m.Status != domain.MatchValid || m.ReservationID == nil {
			continue
		}
		r, ok := byID[*m.ReservationID]
		if !ok || !r.IsActive() || r.StartTime.After(now) {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		toMark = append(toMark, r.ID)
		owners[r.OwnerID] = append(owners[r.OwnerID], r.ID)
	}

	if len(toMark) == 0 {
		return result, nil
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		n, err := s.reservations.MarkUsed(txCtx, toMark)
		if err != nil {
			return err
		}
		result.MarkedUsed = n
		return nil
	})
	if err != nil {
		s.logger.Error("Reconcile: failed to mark %d reservation(s) as used: %v", len(toMark), err)
		return nil, fmt.Errorf("%w: Run - mark used: %v", ErrInternal, err)
	}

	s.logger.Info("Reconcile: marked %d reservation(s) as used", result.MarkedUsed)

	for ownerID, ids := range owners {
		if s.notifier == nil {
			break
		}
		if err := s.notifier.Notify(ctx, ownerID, domain.EventReservationsMarkedUsed, map[string]interface{}{
			"reservation_ids": ids,
		}); err != nil {
			s.logger.Warn("Reconcile: notify owner=%d failed: %v", ownerID, err)
		}
	}

	return result, nil
}

// CreateRule сохраняет постоянное правило для имени из журнала
func (s *Service) CreateRule(ctx context.Context, req *CreateRuleRequest) (*domain.AccessNameRule, error) {
	s.logger.Info("CreateRule: name=%q action=%s", req.RawName, req.Action)

	if !req.Role.IsAdmin() {
		return nil, ErrAccessDenied
	}

	rule := &domain.AccessNameRule{
		RawName: NormalizeName(req.RawName),
		Action:  req.Action,
		UserID:  req.UserID,
	}
	if err := rule.Validate(); err != nil {
		s.logger.Warn("CreateRule: invalid rule: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}

	created, err := s.rules.Create(ctx, rule)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.logger.Warn("CreateRule: rule for %q already exists", rule.RawName)
			return nil, err
		}
		s.logger.Error("CreateRule: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateRule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateRule: created rule id=%d for %q", created.ID, created.RawName)
	return created, nil
}

func matchedUsers(report domain.ReconciliationReport) []int64 {
	seen := make(map[int64]struct{})
	ids := make([]int64, 0)
	for _, r := range report.Results {
		if r.UserID == nil {
			continue
		}
		if _, ok := seen[*r.UserID]; ok {
			continue
		}
		seen[*r.UserID] = struct{}{}
		ids = append(ids, *r.UserID)
	}
	return ids
}

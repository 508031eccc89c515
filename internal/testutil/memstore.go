// Package testutil содержит in-memory реализации зависимостей сервисов для тестов
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/timeslot"
)

// ErrInjected ошибка, которую хранилище возвращает по запросу теста
var ErrInjected = errors.New("testutil: injected storage failure")

// ReservationStore in-memory хранилище бронирований с тем же поведением выборок, что и SQL репозиторий
type ReservationStore struct {
	mu     sync.Mutex
	rows   map[int64]*domain.Reservation
	nextID int64

	// FailUpdateOnID - UpdateMany вернёт ошибку на строке с этим ID (предыдущие строки уже применены)
	FailUpdateOnID int64
	// FailInsert - InsertMany вернёт эту ошибку, ничего не сохранив
	FailInsert error

	Inserts int
	Updates int
}

// NewReservationStore создает хранилище с начальными строками (ID сохраняются)
func NewReservationStore(seed ...*domain.Reservation) *ReservationStore {
	s := &ReservationStore{rows: make(map[int64]*domain.Reservation), nextID: 1}
	for _, r := range seed {
		s.put(r.Clone())
	}
	return s
}

func (s *ReservationStore) put(r *domain.Reservation) {
	if r.ID == 0 {
		r.ID = s.nextID
	}
	if r.ID >= s.nextID {
		s.nextID = r.ID + 1
	}
	s.rows[r.ID] = r
}

// Get возвращает копию строки без проверок (для assert'ов)
func (s *ReservationStore) Get(id int64) *domain.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[id].Clone()
}

// All возвращает копии всех строк по возрастанию ID
func (s *ReservationStore) All() []*domain.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Reservation, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *ReservationStore) snapshot() (map[int64]*domain.Reservation, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make(map[int64]*domain.Reservation, len(s.rows))
	for id, r := range s.rows {
		cp[id] = r.Clone()
	}
	return cp, s.nextID
}

func (s *ReservationStore) restore(rows map[int64]*domain.Reservation, nextID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = rows
	s.nextID = nextID
}

func (s *ReservationStore) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return nil, fmt.Errorf("reservation id=%d: %w", id, domain.ErrNotFound)
	}
	return r.Clone(), nil
}

func (s *ReservationStore) GetByIDs(_ context.Context, ids []int64) ([]*domain.Reservation, error) {
	return s.filter(func(r *domain.Reservation) bool {
		for _, id := range ids {
			if r.ID == id {
				return true
			}
		}
		return false
	}), nil
}

func (s *ReservationStore) FindOverlapping(_ context.Context, resourceID int64, intervals []domain.Interval) ([]*domain.Reservation, error) {
	return s.filter(func(r *domain.Reservation) bool {
		return r.ResourceID == resourceID && r.Status.IsBlocking() && overlapsAny(r, intervals)
	}), nil
}

func (s *ReservationStore) FindOverlappingAccessory(_ context.Context, intervals []domain.Interval) ([]*domain.Reservation, error) {
	return s.filter(func(r *domain.Reservation) bool {
		return r.UsesSharedAccessory && r.Status.IsBlocking() && overlapsAny(r, intervals)
	}), nil
}

func (s *ReservationStore) FindSeriesInstances(_ context.Context, recurrenceID uuid.UUID, from time.Time) ([]*domain.Reservation, error) {
	return s.filter(func(r *domain.Reservation) bool {
		return r.RecurrenceID != nil && *r.RecurrenceID == recurrenceID &&
			r.Status == domain.StatusActive && !r.StartTime.Before(from)
	}), nil
}

func (s *ReservationStore) GetSeries(_ context.Context, recurrenceID uuid.UUID) ([]*domain.Reservation, error) {
	return s.filter(func(r *domain.Reservation) bool {
		return r.RecurrenceID != nil && *r.RecurrenceID == recurrenceID
	}), nil
}

func (s *ReservationStore) FindByOwnerInPeriod(_ context.Context, f domain.ReservationFilter) ([]*domain.Reservation, error) {
	return s.filter(func(r *domain.Reservation) bool {
		if r.OwnerID != f.OwnerID || r.StartTime.Before(f.From) || !r.StartTime.Before(f.To) {
			return false
		}
		if len(f.Statuses) == 0 {
			return true
		}
		for _, st := range f.Statuses {
			if r.Status == st {
				return true
			}
		}
		return false
	}), nil
}

func (s *ReservationStore) FindByOwnersInRange(_ context.Context, ownerIDs []int64, from, to time.Time) ([]*domain.Reservation, error) {
	return s.filter(func(r *domain.Reservation) bool {
		owned := false
		for _, id := range ownerIDs {
			if r.OwnerID == id {
				owned = true
			}
		}
		return owned && r.Status.IsBlocking() && timeslot.Overlaps(r.StartTime, r.EndTime, from, to)
	}), nil
}

func (s *ReservationStore) InsertMany(_ context.Context, list []*domain.Reservation) ([]*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailInsert != nil {
		return nil, s.FailInsert
	}
	for _, r := range list {
		r.ID = 0
		r.CreatedAt = time.Now()
		r.UpdatedAt = r.CreatedAt
		s.put(r.Clone())
		r.ID = s.nextID - 1
	}
	s.Inserts += len(list)
	return list, nil
}

func (s *ReservationStore) UpdateMany(_ context.Context, list []*domain.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range list {
		if s.FailUpdateOnID != 0 && r.ID == s.FailUpdateOnID {
			return ErrInjected
		}
		if _, ok := s.rows[r.ID]; !ok {
			return fmt.Errorf("reservation id=%d: %w", r.ID, domain.ErrNotFound)
		}
		s.rows[r.ID] = r.Clone()
		s.Updates++
	}
	return nil
}

func (s *ReservationStore) UpdateRecurrenceEndDate(_ context.Context, recurrenceID uuid.UUID, endDate time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, r := range s.rows {
		if r.RecurrenceID != nil && *r.RecurrenceID == recurrenceID {
			d := endDate
			r.RecurrenceEndDate = &d
			n++
		}
	}
	if n == 0 {
		return 0, domain.ErrNotFound
	}
	return n, nil
}

func (s *ReservationStore) MarkUsed(_ context.Context, ids []int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, id := range ids {
		if r, ok := s.rows[id]; ok && r.Status == domain.StatusActive {
			r.Status = domain.StatusUsed
			n++
		}
	}
	return n, nil
}

func (s *ReservationStore) filter(keep func(r *domain.Reservation) bool) []*domain.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Reservation, 0)
	for _, r := range s.rows {
		if keep(r) {
			out = append(out, r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

func overlapsAny(r *domain.Reservation, intervals []domain.Interval) bool {
	for _, iv := range intervals {
		if timeslot.Overlaps(r.StartTime, r.EndTime, iv.Start, iv.End) {
			return true
		}
	}
	return false
}

// TxManager откатывает хранилище к снимку, если функция вернула ошибку
type TxManager struct {
	Store *ReservationStore
	Calls int
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	rows, nextID := m.Store.snapshot()
	if err := fn(ctx); err != nil {
		m.Store.restore(rows, nextID)
		return err
	}
	if err := ctx.Err(); err != nil {
		m.Store.restore(rows, nextID)
		return err
	}
	return nil
}

// Clock фиксированные часы
type Clock struct {
	At time.Time
}

func (c *Clock) Now() time.Time {
	return c.At
}

// Notification событие, переданное в Notifier
type Notification struct {
	OwnerID int64
	Kind    string
	Payload map[string]interface{}
}

// Notifier записывает события; если Err задан - возвращает его
type Notifier struct {
	mu     sync.Mutex
	Events []Notification
	Err    error
}

func (n *Notifier) Notify(_ context.Context, ownerID int64, kind string, payload map[string]interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Events = append(n.Events, Notification{OwnerID: ownerID, Kind: kind, Payload: payload})
	return n.Err
}

// Kinds возвращает типы записанных событий по порядку
func (n *Notifier) Kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.Events))
	for _, e := range n.Events {
		out = append(out, e.Kind)
	}
	return out
}

// Rates таблица ставок по консульториям
type Rates map[int64]decimal.Decimal

func (r Rates) HourlyRate(_ context.Context, resourceID int64) (decimal.Decimal, error) {
	rate, ok := r[resourceID]
	if !ok {
		return decimal.Zero, fmt.Errorf("resource id=%d: %w", resourceID, domain.ErrNotFound)
	}
	return rate, nil
}

// Resources справочник консульториев
type Resources map[int64]*domain.Resource

func (r Resources) GetByID(_ context.Context, id int64) (*domain.Resource, error) {
	res, ok := r[id]
	if !ok {
		return nil, fmt.Errorf("resource id=%d: %w", id, domain.ErrNotFound)
	}
	return res, nil
}

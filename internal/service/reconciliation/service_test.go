package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/testutil"
	"github.com/m04kA/SMC-ConsultorioService/pkg/logger"
	"github.com/m04kA/SMC-ConsultorioService/pkg/ptr"
)

type memRules struct {
	rules []domain.AccessNameRule
}

func (m *memRules) List(context.Context) ([]domain.AccessNameRule, error) {
	return m.rules, nil
}

func (m *memRules) Create(_ context.Context, rule *domain.AccessNameRule) (*domain.AccessNameRule, error) {
	for _, r := range m.rules {
		if r.RawName == rule.RawName {
			return nil, fmt.Errorf("duplicate: %w", domain.ErrConflict)
		}
	}
	rule.ID = int64(len(m.rules) + 1)
	m.rules = append(m.rules, *rule)
	return rule, nil
}

type staticDirectory struct {
	users []domain.User
	err   error
}

func (d staticDirectory) ListUsers(context.Context) ([]domain.User, error) {
	return d.users, d.err
}

func newService(store *testutil.ReservationStore, now time.Time, rules *memRules, users UserDirectory) (*Service, *testutil.Notifier) {
	notifier := &testutil.Notifier{}
	return NewService(store, rules, users, &testutil.TxManager{Store: store}, notifier,
		&testutil.Clock{At: now}, 50*time.Minute, logger.Nop()), notifier
}

func TestRunApplyMarksAttendedReservations(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	store := testutil.NewReservationStore(
		&domain.Reservation{ID: 1, OwnerID: 1, ResourceID: 3, StartTime: start, EndTime: start.Add(time.Hour), Kind: domain.KindOneOff, Status: domain.StatusActive},
		&domain.Reservation{ID: 2, OwnerID: 3, ResourceID: 4, StartTime: start, EndTime: start.Add(time.Hour), Kind: domain.KindOneOff, Status: domain.StatusActive},
		// будущее бронирование не отмечается даже при совпадении
		&domain.Reservation{ID: 3, OwnerID: 3, ResourceID: 4, StartTime: start.Add(48 * time.Hour), EndTime: start.Add(49 * time.Hour), Kind: domain.KindOneOff, Status: domain.StatusActive},
	)
	svc, notifier := newService(store, start.Add(24*time.Hour), &memRules{}, staticDirectory{users: directory})

	result, err := svc.Run(context.Background(), &RunRequest{
		Role:  domain.RoleAdmin,
		Apply: true,
		Rows: []domain.AccessLogRow{
			{RawName: "Lucia Fernandez", AccessedAt: start.Add(-20 * time.Minute)},
			{RawName: "Lucia Fernandez", AccessedAt: start.Add(5 * time.Minute)},
			{RawName: "Torres Ana", AccessedAt: start.Add(48*time.Hour - 10*time.Minute)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Report.Stats.Valid)
	assert.Equal(t, int64(1), result.MarkedUsed)
	assert.Equal(t, domain.StatusUsed, store.Get(1).Status)
	assert.Equal(t, domain.StatusActive, store.Get(2).Status)
	assert.Equal(t, domain.StatusActive, store.Get(3).Status)
	assert.Equal(t, []string{domain.EventReservationsMarkedUsed}, notifier.Kinds())
}

func TestRunWithoutApplyIsReadOnly(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	store := testutil.NewReservationStore(
		&domain.Reservation{ID: 1, OwnerID: 1, ResourceID: 3, StartTime: start, EndTime: start.Add(time.Hour), Kind: domain.KindOneOff, Status: domain.StatusActive},
	)
	svc, _ := newService(store, start.Add(24*time.Hour), &memRules{}, staticDirectory{users: directory})

	result, err := svc.Run(context.Background(), &RunRequest{
		Role: domain.RoleAdmin,
		Rows: []domain.AccessLogRow{{RawName: "Lucia Fernandez", AccessedAt: start}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Report.Stats.Valid)
	assert.Zero(t, result.MarkedUsed)
	assert.Equal(t, domain.StatusActive, store.Get(1).Status)
}

func TestRunErrors(t *testing.T) {
	store := testutil.NewReservationStore()
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

	svc, _ := newService(store, now, &memRules{}, staticDirectory{users: directory})
	_, err := svc.Run(context.Background(), &RunRequest{Role: domain.RoleClient})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Run(context.Background(), &RunRequest{Role: domain.RoleAdmin, Rows: []domain.AccessLogRow{{RawName: "x"}}})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	broken, _ := newService(store, now, &memRules{}, staticDirectory{err: errors.New("timeout")})
	_, err = broken.Run(context.Background(), &RunRequest{Role: domain.RoleAdmin, Rows: []domain.AccessLogRow{{RawName: "x", AccessedAt: now}}})
	assert.ErrorIs(t, err, ErrUserDirectory)
}

func TestCreateRule(t *testing.T) {
	rules := &memRules{}
	svc, _ := newService(testutil.NewReservationStore(), time.Now(), rules, staticDirectory{})

	created, err := svc.CreateRule(context.Background(), &CreateRuleRequest{
		RawName: "  Dra.  LUCÍA ", Action: domain.RuleAlias, UserID: ptr.Ptr(int64(1)), Role: domain.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "dra. lucia", created.RawName)

	_, err = svc.CreateRule(context.Background(), &CreateRuleRequest{RawName: "dra. lucia", Action: domain.RuleIgnore, Role: domain.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.CreateRule(context.Background(), &CreateRuleRequest{RawName: "x", Action: domain.RuleAlias, Role: domain.RoleAdmin})
	assert.ErrorIs(t, err, ErrInvalidRule)

	_, err = svc.CreateRule(context.Background(), &CreateRuleRequest{RawName: "x", Action: domain.RuleIgnore, Role: domain.RoleClient})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

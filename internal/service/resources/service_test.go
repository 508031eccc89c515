package resources

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/resources/models"
	"github.com/m04kA/SMC-ConsultorioService/pkg/logger"
	"github.com/m04kA/SMC-ConsultorioService/pkg/ptr"
)

type fakeRepo struct {
	items   map[int64]*domain.Resource
	listErr error
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Resource, error) {
	res, ok := f.items[id]
	if !ok {
		return nil, fmt.Errorf("resource id=%d: %w", id, domain.ErrNotFound)
	}
	cp := *res
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context, onlyActive bool) ([]*domain.Resource, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.Resource, 0)
	for _, res := range f.items {
		if onlyActive && !res.IsActive {
			continue
		}
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, res *domain.Resource) (*domain.Resource, error) {
	cp := *res
	f.items[res.ID] = &cp
	return &cp, nil
}

func newRepo() *fakeRepo {
	return &fakeRepo{items: map[int64]*domain.Resource{
		1: {ID: 1, Name: "Consultorio 1", HourlyRate: decimal.NewFromInt(40), IsActive: true},
		2: {ID: 2, Name: "Consultorio 2", HourlyRate: decimal.NewFromInt(35), IsActive: false},
	}}
}

func TestList(t *testing.T) {
	svc := NewService(newRepo(), logger.Nop())

	got, err := svc.List(context.Background(), domain.RoleClient)
	require.NoError(t, err)
	require.Len(t, got.Resources, 1)
	assert.Equal(t, "40.00", got.Resources[0].HourlyRate)

	got, err = svc.List(context.Background(), domain.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, got.Resources, 2)

	repo := newRepo()
	repo.listErr = errors.New("connection reset")
	_, err = NewService(repo, logger.Nop()).List(context.Background(), domain.RoleClient)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestUpdate(t *testing.T) {
	repo := newRepo()
	svc := NewService(repo, logger.Nop())
	rate := decimal.RequireFromString("42.5")

	got, err := svc.Update(context.Background(), &models.UpdateResourceRequest{
		ID: 1, Role: domain.RoleAdmin, HourlyRate: &rate,
	})
	require.NoError(t, err)
	assert.Equal(t, "42.50", got.HourlyRate)
	assert.Equal(t, "Consultorio 1", got.Name)
	assert.True(t, repo.items[1].HourlyRate.Equal(rate))

	got, err = svc.Update(context.Background(), &models.UpdateResourceRequest{
		ID: 2, Role: domain.RoleAdmin, IsActive: ptr.Ptr(true), Name: ptr.Ptr("  Sala B  "),
	})
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.Equal(t, "Sala B", got.Name)
}

func TestUpdateErrors(t *testing.T) {
	svc := NewService(newRepo(), logger.Nop())
	negative := decimal.NewFromInt(-1)

	_, err := svc.Update(context.Background(), &models.UpdateResourceRequest{ID: 1, Role: domain.RoleClient, IsActive: ptr.Ptr(false)})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Update(context.Background(), &models.UpdateResourceRequest{ID: 9, Role: domain.RoleAdmin})
	assert.ErrorIs(t, err, ErrResourceNotFound)

	_, err = svc.Update(context.Background(), &models.UpdateResourceRequest{ID: 1, Role: domain.RoleAdmin, HourlyRate: &negative})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Update(context.Background(), &models.UpdateResourceRequest{ID: 1, Role: domain.RoleAdmin, Name: ptr.Ptr(" ")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

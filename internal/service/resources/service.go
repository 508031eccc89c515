package resources

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/resources/models"
)

// Service справочник консульториев: просмотр для всех, изменение для администратора
type Service struct {
	repo   ResourceRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса консульториев
func NewService(repo ResourceRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List возвращает консультории; клиент видит только открытые для бронирования
func (s *Service) List(ctx context.Context, role domain.Role) (*models.ResourceListResponse, error) {
	list, err := s.repo.List(ctx, !role.IsAdmin())
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d resource(s) for role=%s", len(list), role)
	return models.FromDomainResourceList(list), nil
}

// Update меняет имя, ставку или активность консультория
// Новая ставка действует для следующих расчётов, уже созданные бронирования не пересчитываются
func (s *Service) Update(ctx context.Context, req *models.UpdateResourceRequest) (*models.ResourceResponse, error) {
	s.logger.Info("Update: updating resource id=%d", req.ID)

	if !req.Role.IsAdmin() {
		s.logger.Warn("Update: role=%s is not allowed to update resource id=%d", req.Role, req.ID)
		return nil, ErrAccessDenied
	}

	// 1. Получаем текущее состояние
	res, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("Update: resource id=%d not found", req.ID)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("Update: repository error for resource id=%d: %v", req.ID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	// 2. Применяем изменения и валидируем результат
	req.ApplyTo(res)
	res.Name = strings.TrimSpace(res.Name)
	if res.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if res.HourlyRate.IsNegative() {
		return nil, fmt.Errorf("%w: hourly rate must not be negative", ErrInvalidInput)
	}

	// 3. Сохраняем
	updated, err := s.repo.Update(ctx, res)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("Update: resource id=%d not found during update", req.ID)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("Update: repository error for resource id=%d: %v", req.ID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: resource id=%d updated, rate=%s, active=%t",
		updated.ID, updated.HourlyRate.StringFixed(2), updated.IsActive)
	return models.FromDomainResource(updated), nil
}

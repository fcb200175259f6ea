package operation

import (
	"context"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/api"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/store"
)

func (s *Service) FetchTechnicians(ctx context.Context) ([]domain.Technician, error) {
	if err := s.guardLoaded(store.ResourceTechnician); err != nil {
		return nil, err
	}
	return run(ctx, s, store.TechnicianFetchAll, listKey(store.ResourceTechnician), s.api.ListTechnicians, nil)
}

func (s *Service) FetchTechnicianOptions(ctx context.Context) ([]domain.TechnicianOption, error) {
	return run(ctx, s, store.TechnicianFetchOptions, "technician:options", s.api.ListTechnicianOptions, nil)
}

func (s *Service) FetchCurrentTechnician(ctx context.Context) (domain.Technician, error) {
	return run(ctx, s, store.TechnicianFetchCurrent, "technician:current", s.api.GetCurrentTechnician, nil)
}

func (s *Service) CreateTechnician(ctx context.Context, req api.TechnicianRequest) (domain.Technician, error) {
	return run(ctx, s, store.TechnicianCreate, "", func(ctx context.Context) (domain.Technician, error) {
		return s.api.CreateTechnician(ctx, req)
	}, nil)
}

func (s *Service) UpdateTechnician(ctx context.Context, id int64, req api.TechnicianRequest) (domain.Technician, error) {
	return run(ctx, s, store.TechnicianUpdate, key(store.ResourceTechnician, id), func(ctx context.Context) (domain.Technician, error) {
		return s.api.UpdateTechnician(ctx, id, req)
	}, nil)
}

func (s *Service) DeleteTechnician(ctx context.Context, id int64) error {
	return exec(ctx, s, store.TechnicianDelete, key(store.ResourceTechnician, id), func(ctx context.Context) error {
		return s.api.DeleteTechnician(ctx, id)
	}, id)
}

package operation

import (
	"context"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/api"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/interval"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/store"
)

func (s *Service) FetchEquipment(ctx context.Context) ([]domain.Equipment, error) {
	if err := s.guardLoaded(store.ResourceEquipment); err != nil {
		return nil, err
	}
	return run(ctx, s, store.EquipmentFetchAll, listKey(store.ResourceEquipment), s.api.ListEquipment, nil)
}

func (s *Service) FetchArchivedEquipment(ctx context.Context) ([]domain.Equipment, error) {
	return run(ctx, s, store.EquipmentFetchArchived, "equipment:archived", s.api.ListArchivedEquipment, nil)
}

// SearchEquipment 按名称过滤，结果直接替换设备列表
func (s *Service) SearchEquipment(ctx context.Context, name string) ([]domain.Equipment, error) {
	return run(ctx, s, store.EquipmentSearch, listKey(store.ResourceEquipment), func(ctx context.Context) ([]domain.Equipment, error) {
		return s.api.SearchEquipment(ctx, name)
	}, nil)
}

func (s *Service) FetchEquipmentByID(ctx context.Context, id int64) (domain.Equipment, error) {
	return run(ctx, s, store.EquipmentFetchByID, key(store.ResourceEquipment, id), func(ctx context.Context) (domain.Equipment, error) {
		return s.api.GetEquipment(ctx, id)
	}, nil)
}

// LookupEquipment 根据扫码得到的内容查找设备，并设为当前选中的设备
func (s *Service) LookupEquipment(ctx context.Context, code string) (domain.Equipment, error) {
	id, err := ParseEquipmentCode(code)
	if err != nil {
		return domain.Equipment{}, err
	}
	return s.FetchEquipmentByID(ctx, id)
}

// ParseEquipmentCode 支持 "12"、"EQ-12" 以及以 "/equipment/12" 结尾的链接
func ParseEquipmentCode(code string) (int64, error) {
	c := strings.TrimSpace(code)
	c = strings.TrimRight(c, "/")
	if i := strings.LastIndex(c, "/"); i >= 0 {
		c = c[i+1:]
	}
	if len(c) > 3 && strings.EqualFold(c[:3], "EQ-") {
		c = c[3:]
	}

	id, err := strconv.ParseInt(c, 10, 64)
	if err != nil || id <= 0 {
		return 0, &interval.ValidationError{Field: "code", Code: interval.CodeInvalidFormat, Message: "无法识别的设备码"}
	}
	return id, nil
}

func (s *Service) CreateEquipment(ctx context.Context, req api.CreateEquipmentRequest) (domain.Equipment, error) {
	return run(ctx, s, store.EquipmentCreate, "", func(ctx context.Context) (domain.Equipment, error) {
		return s.api.CreateEquipment(ctx, req)
	}, nil)
}

func (s *Service) UpdateEquipment(ctx context.Context, eq domain.Equipment) (domain.Equipment, error) {
	return run(ctx, s, store.EquipmentUpdate, key(store.ResourceEquipment, eq.ID), func(ctx context.Context) (domain.Equipment, error) {
		return s.api.UpdateEquipment(ctx, eq)
	}, nil)
}

func (s *Service) DeleteEquipment(ctx context.Context, id int64) error {
	return exec(ctx, s, store.EquipmentDelete, key(store.ResourceEquipment, id), func(ctx context.Context) error {
		return s.api.DeleteEquipment(ctx, id)
	}, id)
}

func (s *Service) ArchiveEquipment(ctx context.Context, id int64) (domain.Equipment, error) {
	return run(ctx, s, store.EquipmentArchive, key(store.ResourceEquipment, id), func(ctx context.Context) (domain.Equipment, error) {
		return s.api.ArchiveEquipment(ctx, id)
	}, nil)
}

func (s *Service) UnarchiveEquipment(ctx context.Context, id int64) (domain.Equipment, error) {
	return run(ctx, s, store.EquipmentUnarchive, key(store.ResourceEquipment, id), func(ctx context.Context) (domain.Equipment, error) {
		return s.api.UnarchiveEquipment(ctx, id)
	}, nil)
}

func (s *Service) AssignEquipmentType(ctx context.Context, id int64, equipmentType string) error {
	return exec(ctx, s, store.EquipmentAssignType, key(store.ResourceEquipment, id), func(ctx context.Context) error {
		return s.api.AssignEquipmentType(ctx, id, equipmentType)
	}, store.TypePatch{EquipmentID: id, Type: equipmentType})
}

func (s *Service) AssignEquipmentWorkshop(ctx context.Context, id int64, ws domain.Workshop) (domain.Workshop, error) {
	return run(ctx, s, store.EquipmentAssignWorkshop, key(store.ResourceEquipment, id), func(ctx context.Context) (domain.Workshop, error) {
		return s.api.AssignEquipmentWorkshop(ctx, id, ws)
	}, func(saved domain.Workshop) any {
		return store.WorkshopPatch{EquipmentID: id, Workshop: saved}
	})
}

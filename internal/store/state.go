package store

import "github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"

type Collection struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

type EquipmentState struct {
	Collection
	Items    []domain.Equipment `json:"items"`
	Archived []domain.Equipment `json:"archived"`
	Selected *domain.Equipment  `json:"selected,omitempty"`
}

type ScheduleState struct {
	Collection
	Items []domain.MaintenanceSchedule `json:"items"`
}

type TaskState struct {
	Collection
	Items           []domain.Task `json:"items"`
	ByEquipment     []domain.Task `json:"byEquipment"`
	ByEquipmentName string        `json:"byEquipmentName,omitempty"`
	ByTechnician    []domain.Task `json:"byTechnician"`
}

type TechnicianState struct {
	Collection
	Items   []domain.Technician       `json:"items"`
	Options []domain.TechnicianOption `json:"options"`
	Current *domain.Technician        `json:"current,omitempty"`
}

// State 中的切片只会被整体替换，不会原地修改，因此可以安全地作为快照共享
type State struct {
	Equipment   EquipmentState  `json:"equipment"`
	Schedules   ScheduleState   `json:"schedules"`
	Tasks       TaskState       `json:"tasks"`
	Technicians TechnicianState `json:"technicians"`
}

func (s State) collection(r Resource) Collection {
	switch r {
	case ResourceEquipment:
		return s.Equipment.Collection
	case ResourceSchedule:
		return s.Schedules.Collection
	case ResourceTask:
		return s.Tasks.Collection
	case ResourceTechnician:
		return s.Technicians.Collection
	}
	return Collection{}
}

func (s State) withCollection(r Resource, c Collection) State {
	switch r {
	case ResourceEquipment:
		s.Equipment.Collection = c
	case ResourceSchedule:
		s.Schedules.Collection = c
	case ResourceTask:
		s.Tasks.Collection = c
	case ResourceTechnician:
		s.Technicians.Collection = c
	}
	return s
}

// Loaded 表示某个集合的主列表是否已经有数据
func (s State) Loaded(r Resource) bool {
	switch r {
	case ResourceEquipment:
		return len(s.Equipment.Items) > 0
	case ResourceSchedule:
		return len(s.Schedules.Items) > 0
	case ResourceTask:
		return len(s.Tasks.Items) > 0
	case ResourceTechnician:
		return len(s.Technicians.Items) > 0
	}
	return false
}

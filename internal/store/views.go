package store

import "github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"

// Views 是从各集合计算出来的派生视图，每次读取时重新计算
type Views struct {
	ActiveEquipment []domain.Equipment `json:"activeEquipment"`
	OverdueTasks    []domain.Task      `json:"overdueTasks"`
}

func ComputeViews(s State) Views {
	return Views{
		ActiveEquipment: ActiveEquipment(s),
		OverdueTasks:    filter(s.Tasks.Items, func(t domain.Task) bool { return t.Status == domain.TaskStatusOverDue }),
	}
}

func ActiveEquipment(s State) []domain.Equipment {
	return filter(s.Equipment.Items, func(e domain.Equipment) bool { return !e.IsArchived })
}

func TasksForEquipment(s State, equipmentName string) []domain.Task {
	return filter(s.Tasks.Items, func(t domain.Task) bool { return t.EquipmentName == equipmentName })
}

func TasksForTechnician(s State, technicianID int64) []domain.Task {
	return filter(s.Tasks.Items, func(t domain.Task) bool { return t.TechnicianID == technicianID })
}

func FindEquipment(s State, id int64) (domain.Equipment, bool) {
	for _, e := range s.Equipment.Items {
		if e.ID == id {
			return e, true
		}
	}
	for _, e := range s.Equipment.Archived {
		if e.ID == id {
			return e, true
		}
	}
	return domain.Equipment{}, false
}

func FindSchedule(s State, id int64) (domain.MaintenanceSchedule, bool) {
	for _, sc := range s.Schedules.Items {
		if sc.ID == id {
			return sc, true
		}
	}
	return domain.MaintenanceSchedule{}, false
}

func FindTask(s State, id int64) (domain.Task, bool) {
	for _, list := range [][]domain.Task{s.Tasks.Items, s.Tasks.ByTechnician, s.Tasks.ByEquipment} {
		for _, t := range list {
			if t.ID == id {
				return t, true
			}
		}
	}
	return domain.Task{}, false
}

func FindScheduleTask(sc domain.MaintenanceSchedule, id int64) (domain.ScheduleTask, bool) {
	for _, t := range sc.ScheduleTasks {
		if t.ID == id {
			return t, true
		}
	}
	return domain.ScheduleTask{}, false
}

// ResolveTechnician 先查选项列表，再查完整列表；ID 为 0 或找不到时显示名为 "N/A"
func ResolveTechnician(s State, id int64) domain.TechnicianOption {
	if id != 0 {
		for _, o := range s.Technicians.Options {
			if o.ID == id {
				return o
			}
		}
		for _, t := range s.Technicians.Items {
			if t.ID == id {
				return optionOf(t)
			}
		}
	}
	return domain.TechnicianOption{ID: id, FullName: domain.UnassignedTechnician}
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

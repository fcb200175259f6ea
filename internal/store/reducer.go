package store

import (
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
)

func equipmentID(e domain.Equipment) int64          { return e.ID }
func scheduleID(s domain.MaintenanceSchedule) int64 { return s.ID }
func taskID(t domain.Task) int64                    { return t.ID }
func technicianID(t domain.Technician) int64        { return t.ID }
func optionID(o domain.TechnicianOption) int64      { return o.ID }

// Reduce 根据事件计算新的状态。
//   - Requested：置 loading，清空该集合之前的错误
//   - Succeeded：按资源各自的合并规则写入结果，取消 loading
//   - Failed：记录错误，取消 loading，数据保持不变
func Reduce(s State, e Event) State {
	res := e.Action.Resource()

	switch e.Phase {
	case Requested:
		return s.withCollection(res, Collection{Loading: true})
	case Failed:
		return s.withCollection(res, Collection{Loading: false, Error: e.Err})
	case Succeeded:
		switch res {
		case ResourceEquipment:
			s.Equipment = reduceEquipment(s.Equipment, e)
		case ResourceSchedule:
			s.Schedules = reduceSchedules(s.Schedules, e)
		case ResourceTask:
			s.Tasks = reduceTasks(s.Tasks, e)
		case ResourceTechnician:
			s.Technicians = reduceTechnicians(s.Technicians, e)
		}
		c := s.collection(res)
		c.Loading = false
		return s.withCollection(res, c)
	}
	return s
}

func reduceEquipment(s EquipmentState, e Event) EquipmentState {
	switch e.Action {
	case EquipmentFetchAll, EquipmentSearch:
		if items, ok := e.Payload.([]domain.Equipment); ok {
			s.Items = cloneList(items)
		}
	case EquipmentFetchArchived:
		if items, ok := e.Payload.([]domain.Equipment); ok {
			s.Archived = cloneList(items)
		}
	case EquipmentFetchByID:
		if item, ok := e.Payload.(domain.Equipment); ok {
			s.Selected = &item
		}
	case EquipmentCreate:
		if item, ok := e.Payload.(domain.Equipment); ok {
			s.Items = appendItem(s.Items, item)
		}
	case EquipmentUpdate:
		if item, ok := e.Payload.(domain.Equipment); ok {
			s = replaceEquipment(s, item)
		}
	case EquipmentDelete:
		if id, ok := e.Payload.(int64); ok {
			s.Items = removeByID(s.Items, id, equipmentID)
			s.Archived = removeByID(s.Archived, id, equipmentID)
			if s.Selected != nil && s.Selected.ID == id {
				s.Selected = nil
			}
		}
	case EquipmentArchive:
		if item, ok := e.Payload.(domain.Equipment); ok {
			s = setArchived(s, item, true)
		}
	case EquipmentUnarchive:
		if item, ok := e.Payload.(domain.Equipment); ok {
			s = setArchived(s, item, false)
		}
	case EquipmentAssignType:
		if p, ok := e.Payload.(TypePatch); ok {
			s = patchEquipment(s, p.EquipmentID, func(eq *domain.Equipment) { eq.Type = p.Type })
		}
	case EquipmentAssignWorkshop:
		if p, ok := e.Payload.(WorkshopPatch); ok {
			s = patchEquipment(s, p.EquipmentID, func(eq *domain.Equipment) { eq.Workshop = p.Workshop })
		}
	case EquipmentClear:
		s = EquipmentState{}
	}
	return s
}

// replaceEquipment 在所有包含该设备的位置原地替换，找不到则丢弃
func replaceEquipment(s EquipmentState, item domain.Equipment) EquipmentState {
	s.Items, _ = replaceByID(s.Items, item.ID, equipmentID, item)
	s.Archived, _ = replaceByID(s.Archived, item.ID, equipmentID, item)
	if s.Selected != nil && s.Selected.ID == item.ID {
		s.Selected = &item
	}
	return s
}

func patchEquipment(s EquipmentState, id int64, patch func(*domain.Equipment)) EquipmentState {
	s.Items, _ = patchByID(s.Items, id, equipmentID, patch)
	s.Archived, _ = patchByID(s.Archived, id, equipmentID, patch)
	if s.Selected != nil && s.Selected.ID == id {
		selected := *s.Selected
		patch(&selected)
		s.Selected = &selected
	}
	return s
}

// setArchived 同时维护主列表中的标记和归档列表，两者不能出现分歧
func setArchived(s EquipmentState, item domain.Equipment, archived bool) EquipmentState {
	item.IsArchived = archived
	s = patchEquipment(s, item.ID, func(eq *domain.Equipment) { eq.IsArchived = archived })

	if archived {
		if containsID(s.Archived, item.ID, equipmentID) {
			s.Archived, _ = replaceByID(s.Archived, item.ID, equipmentID, item)
		} else {
			s.Archived = appendItem(s.Archived, item)
		}
	} else {
		s.Archived = removeByID(s.Archived, item.ID, equipmentID)
	}
	return s
}

func reduceSchedules(s ScheduleState, e Event) ScheduleState {
	switch e.Action {
	case ScheduleFetchAll:
		if items, ok := e.Payload.([]domain.MaintenanceSchedule); ok {
			s.Items = cloneList(items)
		}
	case ScheduleCreate:
		if item, ok := e.Payload.(domain.MaintenanceSchedule); ok {
			s.Items = appendItem(s.Items, item)
		}
	case ScheduleUpdate, ScheduleSetActive:
		if item, ok := e.Payload.(domain.MaintenanceSchedule); ok {
			s.Items, _ = replaceByID(s.Items, item.ID, scheduleID, item)
		}
	case ScheduleDelete:
		if id, ok := e.Payload.(int64); ok {
			s.Items = removeByID(s.Items, id, scheduleID)
		}
	case ScheduleAddTask, ScheduleEditTask, ScheduleDeleteTask, ScheduleAssignTaskTechnician:
		// 服务端返回的任务列表就是最终结果，整体替换
		if p, ok := e.Payload.(ScheduleTasks); ok {
			tasks := cloneList(p.Tasks)
			s.Items, _ = patchByID(s.Items, p.ScheduleID, scheduleID, func(sc *domain.MaintenanceSchedule) {
				sc.ScheduleTasks = tasks
			})
		}
	case ScheduleClear:
		s = ScheduleState{}
	}
	return s
}

func reduceTasks(s TaskState, e Event) TaskState {
	switch e.Action {
	case TaskFetchAll:
		if items, ok := e.Payload.([]domain.Task); ok {
			s.Items = cloneList(items)
		}
	case TaskFetchByEquipment:
		if p, ok := e.Payload.(EquipmentTasks); ok {
			s.ByEquipment = cloneList(p.Tasks)
			s.ByEquipmentName = p.EquipmentName
		}
	case TaskFetchByTechnician:
		if items, ok := e.Payload.([]domain.Task); ok {
			s.ByTechnician = cloneList(items)
		}
	case TaskCreate:
		if item, ok := e.Payload.(domain.Task); ok {
			s.Items = appendItem(s.Items, item)
		}
	case TaskDelete:
		if id, ok := e.Payload.(int64); ok {
			s.Items = removeByID(s.Items, id, taskID)
			s.ByEquipment = removeByID(s.ByEquipment, id, taskID)
			s.ByTechnician = removeByID(s.ByTechnician, id, taskID)
		}
	case TaskAssignTechnician:
		if p, ok := e.Payload.(TechnicianPatch); ok {
			s = patchTask(s, p.TaskID, func(t *domain.Task) { t.TechnicianID = p.TechnicianID })
		}
	case TaskResolveAssignee:
		if p, ok := e.Payload.(AssigneePatch); ok {
			s = patchTask(s, p.TaskID, func(t *domain.Task) {
				t.AssignedTo = p.Name
				t.AssignedToEmail = p.Email
			})
		}
	case TaskComplete:
		// 管理员只更新主列表，技术员只更新自己的列表，互不影响
		if p, ok := e.Payload.(Completion); ok {
			switch p.Role {
			case domain.RoleAdmin:
				s.Items, _ = replaceByID(s.Items, p.Task.ID, taskID, p.Task)
			case domain.RoleTechnician:
				s.ByTechnician, _ = replaceByID(s.ByTechnician, p.Task.ID, taskID, p.Task)
			}
		}
	case TaskClear:
		s = TaskState{}
	}
	return s
}

func patchTask(s TaskState, id int64, patch func(*domain.Task)) TaskState {
	s.Items, _ = patchByID(s.Items, id, taskID, patch)
	s.ByEquipment, _ = patchByID(s.ByEquipment, id, taskID, patch)
	s.ByTechnician, _ = patchByID(s.ByTechnician, id, taskID, patch)
	return s
}

func reduceTechnicians(s TechnicianState, e Event) TechnicianState {
	switch e.Action {
	case TechnicianFetchAll:
		if items, ok := e.Payload.([]domain.Technician); ok {
			s.Items = cloneList(items)
		}
	case TechnicianFetchOptions:
		if items, ok := e.Payload.([]domain.TechnicianOption); ok {
			s.Options = cloneList(items)
		}
	case TechnicianFetchCurrent:
		if item, ok := e.Payload.(domain.Technician); ok {
			s.Current = &item
		}
	case TechnicianCreate:
		if item, ok := e.Payload.(domain.Technician); ok {
			s.Items = appendItem(s.Items, item)
			if !containsID(s.Options, item.ID, optionID) {
				s.Options = appendItem(s.Options, optionOf(item))
			}
		}
	case TechnicianUpdate:
		if item, ok := e.Payload.(domain.Technician); ok {
			s.Items, _ = replaceByID(s.Items, item.ID, technicianID, item)
			s.Options, _ = replaceByID(s.Options, item.ID, optionID, optionOf(item))
			if s.Current != nil && s.Current.ID == item.ID {
				s.Current = &item
			}
		}
	case TechnicianDelete:
		if id, ok := e.Payload.(int64); ok {
			s.Items = removeByID(s.Items, id, technicianID)
			s.Options = removeByID(s.Options, id, optionID)
		}
	case TechnicianClear:
		s = TechnicianState{}
	}
	return s
}

func optionOf(t domain.Technician) domain.TechnicianOption {
	return domain.TechnicianOption{ID: t.ID, FullName: t.FullName, Email: t.Email}
}

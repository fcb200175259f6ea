package operation

import (
	"context"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/api"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/interval"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/store"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/utils"
)

func (s *Service) FetchTasks(ctx context.Context) ([]domain.Task, error) {
	if err := s.guardLoaded(store.ResourceTask); err != nil {
		return nil, err
	}
	return run(ctx, s, store.TaskFetchAll, listKey(store.ResourceTask), s.api.ListTasks, nil)
}

func (s *Service) FetchTasksByEquipment(ctx context.Context, equipmentName string) ([]domain.Task, error) {
	return run(ctx, s, store.TaskFetchByEquipment, "task:equipment", func(ctx context.Context) ([]domain.Task, error) {
		return s.api.ListTasksByEquipment(ctx, equipmentName)
	}, func(tasks []domain.Task) any {
		return store.EquipmentTasks{EquipmentName: equipmentName, Tasks: tasks}
	})
}

// FetchMyTasks 加载当前技术员自己的任务列表，必要时先加载当前技术员
func (s *Service) FetchMyTasks(ctx context.Context) ([]domain.Task, error) {
	current := s.store.State().Technicians.Current
	if current == nil {
		tech, err := s.FetchCurrentTechnician(ctx)
		if err != nil {
			return nil, err
		}
		current = &tech
	}
	if current.ID == 0 {
		return nil, ErrNoCurrentTech
	}

	id := current.ID
	return run(ctx, s, store.TaskFetchByTechnician, "task:technician", func(ctx context.Context) ([]domain.Task, error) {
		return s.api.ListTasksByTechnician(ctx, id)
	}, nil)
}

func (s *Service) CreateTask(ctx context.Context, draft domain.TaskDraft) (domain.Task, error) {
	if err := utils.ValidateTaskDraft(draft); err != nil {
		return domain.Task{}, err
	}
	priority := draft.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	req := api.CreateTaskRequest{
		Name:         draft.Name,
		EquipmentID:  draft.EquipmentID,
		Priority:     priority,
		DueDate:      interval.FormatDate(draft.DueDate),
		TechnicianID: draft.TechnicianID,
	}
	return run(ctx, s, store.TaskCreate, "", func(ctx context.Context) (domain.Task, error) {
		return s.api.CreateTask(ctx, req)
	}, nil)
}

func (s *Service) DeleteTask(ctx context.Context, id int64) error {
	return exec(ctx, s, store.TaskDelete, key(store.ResourceTask, id), func(ctx context.Context) error {
		return s.api.DeleteTask(ctx, id)
	}, id)
}

// AssignTaskTechnician 修改任务的技术员。技术员变化时再执行一次依赖操作，
// 从选项列表中解析出新的显示名写回任务，避免重新拉取整个任务列表。
func (s *Service) AssignTaskTechnician(ctx context.Context, taskID, technicianID int64) error {
	previous, _ := store.FindTask(s.store.State(), taskID)

	err := exec(ctx, s, store.TaskAssignTechnician, key(store.ResourceTask, taskID), func(ctx context.Context) error {
		return s.api.AssignTaskTechnician(ctx, taskID, technicianID)
	}, store.TechnicianPatch{TaskID: taskID, TechnicianID: technicianID})
	if err != nil {
		return err
	}

	if previous.TechnicianID == technicianID {
		return nil
	}

	tech := s.resolveAssignee(ctx, taskID, technicianID)
	if technicianID == 0 {
		return nil
	}

	task, _ := store.FindTask(s.store.State(), taskID)
	s.notify(ctx, domain.MailMessage{
		Type: domain.MailTypeTaskAssigned,
		To:   tech.Email,
		Data: domain.TaskAssignedMailData{
			FullName:      tech.FullName,
			TaskName:      task.Name,
			EquipmentName: task.EquipmentName,
			Priority:      string(task.Priority),
			DueDate:       interval.FormatDate(task.DueDate),
		},
	})
	return nil
}

func (s *Service) resolveAssignee(ctx context.Context, taskID, technicianID int64) domain.TechnicianOption {
	st := s.store.State()
	if technicianID != 0 && len(st.Technicians.Options) == 0 {
		// 选项列表还没加载时先加载一次，失败也继续，显示为 N/A
		_, _ = s.FetchTechnicianOptions(ctx)
		st = s.store.State()
	}

	tech := store.ResolveTechnician(st, technicianID)
	k := key(store.ResourceTask, taskID)
	seq := s.store.Begin(k)
	s.store.Dispatch(store.Event{Action: store.TaskResolveAssignee, Phase: store.Requested, Key: k, Seq: seq})
	s.store.Dispatch(store.Event{
		Action:  store.TaskResolveAssignee,
		Phase:   store.Succeeded,
		Key:     k,
		Seq:     seq,
		Payload: store.AssigneePatch{TaskID: taskID, Name: tech.FullName, Email: tech.Email},
	})
	s.record(ctx, store.TaskResolveAssignee, true, "")
	return tech
}

// CompleteTask 根据角色决定更新管理员的主列表还是技术员自己的列表
func (s *Service) CompleteTask(ctx context.Context, taskID int64, role domain.Role) (domain.Task, error) {
	if role != domain.RoleAdmin && role != domain.RoleTechnician {
		return domain.Task{}, ErrInvalidRole
	}
	return run(ctx, s, store.TaskComplete, key(store.ResourceTask, taskID), func(ctx context.Context) (domain.Task, error) {
		return s.api.CompleteTask(ctx, taskID)
	}, func(task domain.Task) any {
		return store.Completion{Task: task, Role: role}
	})
}

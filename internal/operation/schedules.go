package operation

import (
	"context"
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/api"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/interval"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/store"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/utils"
)

func (s *Service) FetchSchedules(ctx context.Context) ([]domain.MaintenanceSchedule, error) {
	if err := s.guardLoaded(store.ResourceSchedule); err != nil {
		return nil, err
	}
	return run(ctx, s, store.ScheduleFetchAll, listKey(store.ResourceSchedule), s.api.ListSchedules, nil)
}

func (s *Service) today() time.Time {
	return interval.DateOf(s.now())
}

// CreateSchedule 校验表单，计算每个任务的到期日后提交
func (s *Service) CreateSchedule(ctx context.Context, draft domain.ScheduleDraft) (domain.MaintenanceSchedule, error) {
	days, taskDays, err := utils.ValidateScheduleDraft(draft, false, time.Time{}, s.today())
	if err != nil {
		return domain.MaintenanceSchedule{}, err
	}

	req := scheduleRequest(draft, days)
	req.Tasks = make([]api.ScheduleTaskRequest, 0, len(draft.Tasks))
	for i, task := range draft.Tasks {
		req.Tasks = append(req.Tasks, scheduleTaskRequest(task, draft.StartDate, days, taskDays[i]))
	}

	return run(ctx, s, store.ScheduleCreate, "", func(ctx context.Context) (domain.MaintenanceSchedule, error) {
		return s.api.CreateSchedule(ctx, req)
	}, nil)
}

// UpdateSchedule 编辑计划；开始日期变化时，重新计算所有带周期的任务的到期日
func (s *Service) UpdateSchedule(ctx context.Context, id int64, draft domain.ScheduleDraft) (domain.MaintenanceSchedule, error) {
	if len(draft.Tasks) > 0 {
		return domain.MaintenanceSchedule{}, ErrScheduleTasksInUpdate
	}

	original, ok := store.FindSchedule(s.store.State(), id)
	if !ok {
		return domain.MaintenanceSchedule{}, ErrScheduleNotLoaded
	}

	days, _, err := utils.ValidateScheduleDraft(draft, true, original.StartDate, s.today())
	if err != nil {
		return domain.MaintenanceSchedule{}, err
	}

	tasks := original.ScheduleTasks
	if !interval.DateOf(original.StartDate).Equal(interval.DateOf(draft.StartDate)) {
		tasks, err = domain.ReprojectDueDates(tasks, draft.StartDate)
		if err != nil {
			return domain.MaintenanceSchedule{}, err
		}
	}

	req := scheduleRequest(draft, days)
	if draft.EquipmentID == 0 {
		req.EquipmentID = original.EquipmentID
	}
	req.Tasks = make([]api.ScheduleTaskRequest, 0, len(tasks))
	for _, task := range tasks {
		req.Tasks = append(req.Tasks, api.ScheduleTaskRequest{
			ID:           task.ID,
			Name:         task.Name,
			Priority:     task.Priority,
			DueDate:      interval.FormatDate(task.DueDate),
			Interval:     task.Interval,
			TechnicianID: task.TechnicianID,
		})
	}

	return run(ctx, s, store.ScheduleUpdate, key(store.ResourceSchedule, id), func(ctx context.Context) (domain.MaintenanceSchedule, error) {
		return s.api.UpdateSchedule(ctx, id, req)
	}, nil)
}

func (s *Service) DeleteSchedule(ctx context.Context, id int64) error {
	return exec(ctx, s, store.ScheduleDelete, key(store.ResourceSchedule, id), func(ctx context.Context) error {
		return s.api.DeleteSchedule(ctx, id)
	}, id)
}

func (s *Service) SetScheduleActive(ctx context.Context, id int64, active bool) (domain.MaintenanceSchedule, error) {
	return run(ctx, s, store.ScheduleSetActive, key(store.ResourceSchedule, id), func(ctx context.Context) (domain.MaintenanceSchedule, error) {
		return s.api.SetScheduleActive(ctx, id, active)
	}, nil)
}

func (s *Service) AddScheduleTask(ctx context.Context, scheduleID int64, draft domain.ScheduleTaskDraft) ([]domain.ScheduleTask, error) {
	req, err := s.prepareScheduleTask(scheduleID, draft)
	if err != nil {
		return nil, err
	}
	return s.mutateScheduleTasks(ctx, store.ScheduleAddTask, scheduleID, func(ctx context.Context) ([]domain.ScheduleTask, error) {
		return s.api.AddScheduleTask(ctx, scheduleID, req)
	})
}

func (s *Service) EditScheduleTask(ctx context.Context, scheduleID, taskID int64, draft domain.ScheduleTaskDraft) ([]domain.ScheduleTask, error) {
	req, err := s.prepareScheduleTask(scheduleID, draft)
	if err != nil {
		return nil, err
	}
	req.ID = taskID
	return s.mutateScheduleTasks(ctx, store.ScheduleEditTask, scheduleID, func(ctx context.Context) ([]domain.ScheduleTask, error) {
		return s.api.EditScheduleTask(ctx, scheduleID, taskID, req)
	})
}

func (s *Service) DeleteScheduleTask(ctx context.Context, scheduleID, taskID int64) ([]domain.ScheduleTask, error) {
	return s.mutateScheduleTasks(ctx, store.ScheduleDeleteTask, scheduleID, func(ctx context.Context) ([]domain.ScheduleTask, error) {
		return s.api.DeleteScheduleTask(ctx, scheduleID, taskID)
	})
}

func (s *Service) AssignScheduleTaskTechnician(ctx context.Context, scheduleID, taskID, technicianID int64) ([]domain.ScheduleTask, error) {
	tasks, err := s.mutateScheduleTasks(ctx, store.ScheduleAssignTaskTechnician, scheduleID, func(ctx context.Context) ([]domain.ScheduleTask, error) {
		return s.api.AssignScheduleTaskTechnician(ctx, scheduleID, taskID, technicianID)
	})
	if err != nil {
		return nil, err
	}

	st := s.store.State()
	sc, _ := store.FindSchedule(st, scheduleID)
	for _, task := range tasks {
		if task.ID != taskID || technicianID == 0 {
			continue
		}
		tech := store.ResolveTechnician(st, technicianID)
		if task.TechnicianEmail != "" {
			tech.Email = task.TechnicianEmail
		}
		if task.TechnicianName != "" {
			tech.FullName = task.TechnicianName
		}
		var days int
		if task.Interval != "" {
			days, err = interval.FromCanonicalInterval(task.Interval)
			if err != nil {
				slog.Warn("无法解析计划任务的周期", "schedule", scheduleID, "task", taskID, "interval", task.Interval, "error", err)
			}
		}
		s.notify(ctx, domain.MailMessage{
			Type: domain.MailTypeScheduleTaskAssigned,
			To:   tech.Email,
			Data: domain.ScheduleTaskAssignedMailData{
				FullName:      tech.FullName,
				ScheduleName:  sc.Name,
				TaskName:      task.Name,
				EquipmentName: task.EquipmentName,
				DueDate:       interval.FormatDate(task.DueDate),
				IntervalDays:  days,
			},
		})
	}
	return tasks, nil
}

// mutateScheduleTasks 用服务端返回的任务列表整体替换计划中的任务
func (s *Service) mutateScheduleTasks(ctx context.Context, action store.Action, scheduleID int64, call func(context.Context) ([]domain.ScheduleTask, error)) ([]domain.ScheduleTask, error) {
	return run(ctx, s, action, key(store.ResourceSchedule, scheduleID), call, func(tasks []domain.ScheduleTask) any {
		return store.ScheduleTasks{ScheduleID: scheduleID, Tasks: tasks}
	})
}

func (s *Service) prepareScheduleTask(scheduleID int64, draft domain.ScheduleTaskDraft) (api.ScheduleTaskRequest, error) {
	sc, ok := store.FindSchedule(s.store.State(), scheduleID)
	if !ok {
		return api.ScheduleTaskRequest{}, ErrScheduleNotLoaded
	}
	taskDays, err := utils.ValidateScheduleTaskDraft(0, draft)
	if err != nil {
		return api.ScheduleTaskRequest{}, err
	}
	baseline, err := interval.FromCanonicalInterval(sc.Interval)
	if err != nil {
		baseline = 0
	}
	return scheduleTaskRequest(draft, sc.StartDate, baseline, taskDays), nil
}

func scheduleRequest(draft domain.ScheduleDraft, days int) api.ScheduleRequest {
	return api.ScheduleRequest{
		Name:        draft.Name,
		Type:        string(draft.Type),
		IsActive:    draft.IsActive,
		StartDate:   interval.FormatDate(draft.StartDate),
		EndDate:     interval.FormatDate(draft.EndDate),
		Interval:    interval.ToCanonicalInterval(days),
		EquipmentID: draft.EquipmentID,
	}
}

// scheduleTaskRequest 任务没有自己的周期时，按计划的周期推算到期日
func scheduleTaskRequest(task domain.ScheduleTaskDraft, start time.Time, scheduleDays, taskDays int) api.ScheduleTaskRequest {
	req := api.ScheduleTaskRequest{
		Name:         task.Name,
		Priority:     task.Priority,
		TechnicianID: task.TechnicianID,
	}
	days := scheduleDays
	if taskDays > 0 {
		days = taskDays
		req.Interval = interval.ToCanonicalInterval(taskDays)
	}
	req.DueDate = interval.FormatDate(interval.ProjectDueDate(start, days))
	if req.Priority == "" {
		req.Priority = domain.PriorityMedium
	}
	return req
}

package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/interval"
)

type scheduleTaskRequest struct {
	Name         string `json:"name"`
	Priority     string `json:"priority" validate:"omitempty,oneof=Low Medium High Urgent"`
	Interval     string `json:"interval"`
	TechnicianID int64  `json:"technicianId" validate:"gte=0"`
}

func (req scheduleTaskRequest) toDraft() domain.ScheduleTaskDraft {
	return domain.ScheduleTaskDraft{
		Name:         req.Name,
		Priority:     domain.Priority(req.Priority),
		Interval:     req.Interval,
		TechnicianID: req.TechnicianID,
	}
}

type scheduleRequest struct {
	Name          string                `json:"name"`
	Type          string                `json:"type" validate:"required,oneof=Daily Weekly Monthly Yearly Custom"`
	Interval      string                `json:"interval"`
	IsActive      bool                  `json:"isActive"`
	StartDate     string                `json:"startDate"`
	EndDate       string                `json:"endDate"`
	EquipmentID   int64                 `json:"equipmentId" validate:"gte=0"`
	ScheduleTasks []scheduleTaskRequest `json:"scheduleTasks" validate:"dive"`
}

// toDraft 只负责解析日期，其余字段的校验由操作层完成
func (req scheduleRequest) toDraft() (domain.ScheduleDraft, error) {
	start, err := interval.ParseDate("startDate", req.StartDate)
	if err != nil {
		return domain.ScheduleDraft{}, err
	}
	end, err := interval.ParseDate("endDate", req.EndDate)
	if err != nil {
		return domain.ScheduleDraft{}, err
	}

	draft := domain.ScheduleDraft{
		Name:        req.Name,
		Type:        interval.ScheduleType(req.Type),
		Interval:    req.Interval,
		IsActive:    req.IsActive,
		StartDate:   start,
		EndDate:     end,
		EquipmentID: req.EquipmentID,
		Tasks:       make([]domain.ScheduleTaskDraft, 0, len(req.ScheduleTasks)),
	}
	for _, task := range req.ScheduleTasks {
		draft.Tasks = append(draft.Tasks, task.toDraft())
	}
	return draft, nil
}

func (h *Handler) readScheduleDraft(w http.ResponseWriter, r *http.Request) (domain.ScheduleDraft, bool) {
	var req scheduleRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return domain.ScheduleDraft{}, false
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return domain.ScheduleDraft{}, false
	}

	draft, err := req.toDraft()
	if err != nil {
		h.badRequest(w, r, err)
		return domain.ScheduleDraft{}, false
	}
	return draft, true
}

func (h *Handler) readScheduleTaskDraft(w http.ResponseWriter, r *http.Request) (domain.ScheduleTaskDraft, bool) {
	var req scheduleTaskRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return domain.ScheduleTaskDraft{}, false
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return domain.ScheduleTaskDraft{}, false
	}
	return req.toDraft(), true
}

func (h *Handler) GetAllSchedules(w http.ResponseWriter, r *http.Request) {
	svc := service(r)
	items, err := svc.FetchSchedules(r.Context())
	h.loadResponse(w, r, "获取维护计划成功", items, err, func() any { return svc.State().Schedules.Items })
}

func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.readScheduleDraft(w, r)
	if !ok {
		return
	}

	sc, err := service(r).CreateSchedule(r.Context(), draft)
	if err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "维护计划创建成功", sc)
}

func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.readScheduleDraft(w, r)
	if !ok {
		return
	}

	sc, err := service(r).UpdateSchedule(r.Context(), contextID(r, ScheduleIDCtx), draft)
	if err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新维护计划成功", sc)
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	if err := service(r).DeleteSchedule(r.Context(), contextID(r, ScheduleIDCtx)); err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除维护计划成功", nil)
}

func (h *Handler) ActivateSchedule(w http.ResponseWriter, r *http.Request) {
	h.setScheduleActive(w, r, true)
}

func (h *Handler) DeactivateSchedule(w http.ResponseWriter, r *http.Request) {
	h.setScheduleActive(w, r, false)
}

func (h *Handler) setScheduleActive(w http.ResponseWriter, r *http.Request, active bool) {
	sc, err := service(r).SetScheduleActive(r.Context(), contextID(r, ScheduleIDCtx), active)
	if err != nil {
		h.operationError(w, r, err)
		return
	}

	msg := "维护计划已停用"
	if active {
		msg = "维护计划已启用"
	}
	h.successResponse(w, r, msg, sc)
}

func (h *Handler) AddScheduleTask(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.readScheduleTaskDraft(w, r)
	if !ok {
		return
	}

	tasks, err := service(r).AddScheduleTask(r.Context(), contextID(r, ScheduleIDCtx), draft)
	if err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "添加任务成功", tasks)
}

func (h *Handler) EditScheduleTask(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.readScheduleTaskDraft(w, r)
	if !ok {
		return
	}

	tasks, err := service(r).EditScheduleTask(r.Context(), contextID(r, ScheduleIDCtx), contextID(r, ScheduleTaskIDCtx), draft)
	if err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "修改任务成功", tasks)
}

func (h *Handler) DeleteScheduleTask(w http.ResponseWriter, r *http.Request) {
	tasks, err := service(r).DeleteScheduleTask(r.Context(), contextID(r, ScheduleIDCtx), contextID(r, ScheduleTaskIDCtx))
	if err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除任务成功", tasks)
}

func (h *Handler) AssignScheduleTaskTechnician(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TechnicianID int64 `json:"technicianId" validate:"gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	tasks, err := service(r).AssignScheduleTaskTechnician(r.Context(), contextID(r, ScheduleIDCtx), contextID(r, ScheduleTaskIDCtx), req.TechnicianID)
	if err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "指派技术员成功", tasks)
}

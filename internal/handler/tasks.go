package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/interval"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/store"
)

func (h *Handler) GetAllTasks(w http.ResponseWriter, r *http.Request) {
	svc := service(r)
	items, err := svc.FetchTasks(r.Context())
	h.loadResponse(w, r, "获取任务列表成功", items, err, func() any { return svc.State().Tasks.Items })
}

func (h *Handler) GetTasksByEquipment(w http.ResponseWriter, r *http.Request) {
	items, err := service(r).FetchTasksByEquipment(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取设备任务成功", items)
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name"`
		EquipmentID  int64  `json:"equipmentId" validate:"gte=0"`
		Priority     string `json:"priority" validate:"omitempty,oneof=Low Medium High Urgent"`
		DueDate      string `json:"dueDate"`
		TechnicianID int64  `json:"technicianId" validate:"gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	dueDate, err := interval.ParseDate("dueDate", req.DueDate)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	task, err := service(r).CreateTask(r.Context(), domain.TaskDraft{
		Name:         req.Name,
		EquipmentID:  req.EquipmentID,
		Priority:     domain.Priority(req.Priority),
		DueDate:      dueDate,
		TechnicianID: req.TechnicianID,
	})
	if err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "任务创建成功", task)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := service(r).DeleteTask(r.Context(), contextID(r, TaskIDCtx)); err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除任务成功", nil)
}

func (h *Handler) AssignTaskTechnician(w http.ResponseWriter, r *http.Request) {
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

	svc := service(r)
	id := contextID(r, TaskIDCtx)
	if err := svc.AssignTaskTechnician(r.Context(), id, req.TechnicianID); err != nil {
		h.operationError(w, r, err)
		return
	}

	task, _ := store.FindTask(svc.State(), id)
	h.successResponse(w, r, "指派技术员成功", task)
}

// CompleteTask 管理员和技术员都可以完成任务，各自只更新自己看到的列表
func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	task, err := service(r).CompleteTask(r.Context(), contextID(r, TaskIDCtx), contextRole(r))
	if err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "任务已完成", task)
}

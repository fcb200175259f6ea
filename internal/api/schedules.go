package api

import (
	"context"
	"net/http"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
)

type ScheduleTaskRequest struct {
	ID           int64           `json:"scheduleTaskId,omitempty"`
	Name         string          `json:"name"`
	Priority     domain.Priority `json:"priority"`
	DueDate      string          `json:"dueDate"`
	Interval     string          `json:"interval,omitempty"`
	TechnicianID int64           `json:"technicianId,omitempty"`
}

type ScheduleRequest struct {
	Name        string                `json:"name"`
	Type        string                `json:"type"`
	IsActive    bool                  `json:"isActive"`
	StartDate   string                `json:"startDate"`
	EndDate     string                `json:"endDate,omitempty"`
	Interval    string                `json:"interval"`
	EquipmentID int64                 `json:"equipmentId"`
	Tasks       []ScheduleTaskRequest `json:"scheduleTasks"`
}

func (c *Client) ListSchedules(ctx context.Context) ([]domain.MaintenanceSchedule, error) {
	var out []domain.MaintenanceSchedule
	err := c.get(ctx, "/api/MaintenanceSchedule", nil, &out)
	return out, err
}

func (c *Client) CreateSchedule(ctx context.Context, req ScheduleRequest) (domain.MaintenanceSchedule, error) {
	var out domain.MaintenanceSchedule
	err := c.post(ctx, "/api/MaintenanceSchedule", req, &out)
	return out, err
}

func (c *Client) UpdateSchedule(ctx context.Context, id int64, req ScheduleRequest) (domain.MaintenanceSchedule, error) {
	var out domain.MaintenanceSchedule
	err := c.put(ctx, idPath("/api/MaintenanceSchedule/%d", id), req, &out)
	return out, err
}

func (c *Client) DeleteSchedule(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath("/api/MaintenanceSchedule/%d", id))
}

func (c *Client) SetScheduleActive(ctx context.Context, id int64, active bool) (domain.MaintenanceSchedule, error) {
	path := idPath("/api/MaintenanceSchedule/%d/deactivate", id)
	if active {
		path = idPath("/api/MaintenanceSchedule/%d/activate", id)
	}
	var out domain.MaintenanceSchedule
	err := c.put(ctx, path, nil, &out)
	return out, err
}

func (c *Client) AddScheduleTask(ctx context.Context, scheduleID int64, req ScheduleTaskRequest) ([]domain.ScheduleTask, error) {
	var out []domain.ScheduleTask
	err := c.post(ctx, idPath("/api/MaintenanceSchedule/%d/tasks", scheduleID), req, &out)
	return out, err
}

func (c *Client) EditScheduleTask(ctx context.Context, scheduleID, taskID int64, req ScheduleTaskRequest) ([]domain.ScheduleTask, error) {
	var out []domain.ScheduleTask
	err := c.put(ctx, idPath("/api/MaintenanceSchedule/%d/tasks/%d", scheduleID, taskID), req, &out)
	return out, err
}

func (c *Client) DeleteScheduleTask(ctx context.Context, scheduleID, taskID int64) ([]domain.ScheduleTask, error) {
	var out []domain.ScheduleTask
	err := c.do(ctx, http.MethodDelete, idPath("/api/MaintenanceSchedule/%d/tasks/%d", scheduleID, taskID), nil, &out)
	return out, err
}

func (c *Client) AssignScheduleTaskTechnician(ctx context.Context, scheduleID, taskID, technicianID int64) ([]domain.ScheduleTask, error) {
	var out []domain.ScheduleTask
	body := map[string]int64{"technicianId": technicianID}
	err := c.put(ctx, idPath("/api/MaintenanceSchedule/%d/tasks/%d/technician", scheduleID, taskID), body, &out)
	return out, err
}

package api

import (
	"context"
	"net/url"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
)

type CreateTaskRequest struct {
	Name         string          `json:"name"`
	EquipmentID  int64           `json:"equipmentId"`
	Priority     domain.Priority `json:"priority"`
	DueDate      string          `json:"dueDate"`
	TechnicianID int64           `json:"technicianId,omitempty"`
}

func (c *Client) ListTasks(ctx context.Context) ([]domain.Task, error) {
	var out []domain.Task
	err := c.get(ctx, "/api/Task", nil, &out)
	return out, err
}

func (c *Client) ListTasksByEquipment(ctx context.Context, equipmentName string) ([]domain.Task, error) {
	var out []domain.Task
	err := c.get(ctx, "/api/Task/equipment/"+url.PathEscape(equipmentName), nil, &out)
	return out, err
}

func (c *Client) ListTasksByTechnician(ctx context.Context, technicianID int64) ([]domain.Task, error) {
	var out []domain.Task
	err := c.get(ctx, idPath("/api/Task/technician/%d", technicianID), nil, &out)
	return out, err
}

func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (domain.Task, error) {
	var out domain.Task
	err := c.post(ctx, "/api/Task", req, &out)
	return out, err
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath("/api/Task/%d", id))
}

func (c *Client) AssignTaskTechnician(ctx context.Context, taskID, technicianID int64) error {
	body := map[string]int64{"technicianId": technicianID}
	return c.put(ctx, idPath("/api/Task/%d/assign", taskID), body, nil)
}

func (c *Client) CompleteTask(ctx context.Context, taskID int64) (domain.Task, error) {
	var out domain.Task
	err := c.put(ctx, idPath("/api/Task/%d/complete", taskID), nil, &out)
	return out, err
}

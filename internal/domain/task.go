package domain

import "time"

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "Pending"
	TaskStatusOverDue   TaskStatus = "OverDue"
	TaskStatusCompleted TaskStatus = "Completed"
)

// UnassignedTechnician 是任务没有指派技术员时显示的名字
const UnassignedTechnician = "N/A"

type TaskLog struct {
	ID        int64     `json:"logId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type Task struct {
	ID              int64      `json:"taskId"`
	Name            string     `json:"name"`
	EquipmentName   string     `json:"equipmentName"`
	Priority        Priority   `json:"priority"`
	Status          TaskStatus `json:"status"`
	DueDate         time.Time  `json:"dueDate"`
	TechnicianID    int64      `json:"technicianId,omitempty"`
	AssignedTo      string     `json:"assignedTo"`
	AssignedToEmail string     `json:"assignedToEmail,omitempty"`
	Logs            []TaskLog  `json:"logs,omitempty"`
}

package domain

import (
	"time"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/interval"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

type ScheduleTask struct {
	ID              int64     `json:"scheduleTaskId,omitempty"`
	Name            string    `json:"name"`
	EquipmentName   string    `json:"equipmentName"`
	Priority        Priority  `json:"priority"`
	DueDate         time.Time `json:"dueDate"`
	Interval        string    `json:"interval,omitempty"` // 任务自己的周期，和计划的周期互相独立
	TechnicianID    int64     `json:"technicianId,omitempty"`
	TechnicianName  string    `json:"technicianName,omitempty"`
	TechnicianEmail string    `json:"technicianEmail,omitempty"`
}

type MaintenanceSchedule struct {
	ID            int64                 `json:"scheduleId"`
	Name          string                `json:"name"`
	Type          interval.ScheduleType `json:"type"`
	IsActive      bool                  `json:"isActive"`
	StartDate     time.Time             `json:"startDate"`
	EndDate       *time.Time            `json:"endDate,omitempty"`
	Interval      string                `json:"interval"`
	EquipmentID   int64                 `json:"equipmentId,omitempty"`
	EquipmentName string                `json:"equipmentName"`
	ScheduleTasks []ScheduleTask        `json:"scheduleTasks"`
}

// ReprojectDueDates 根据新的开始日期重新计算所有带周期的任务的到期日，返回新的切片
func ReprojectDueDates(tasks []ScheduleTask, start time.Time) ([]ScheduleTask, error) {
	out := make([]ScheduleTask, len(tasks))
	for i, task := range tasks {
		out[i] = task
		if task.Interval == "" {
			continue
		}
		days, err := interval.FromCanonicalInterval(task.Interval)
		if err != nil {
			return nil, err
		}
		out[i].DueDate = interval.ProjectDueDate(start, days)
	}
	return out, nil
}

// ScheduleTaskDraft 是表单提交的计划任务，Interval 为用户输入的自由文本
type ScheduleTaskDraft struct {
	Name         string
	Priority     Priority
	Interval     string
	TechnicianID int64
}

// ScheduleDraft 是表单提交的维护计划，EndDate 为零值表示不设结束日期
type ScheduleDraft struct {
	Name        string
	Type        interval.ScheduleType
	Interval    string
	IsActive    bool
	StartDate   time.Time
	EndDate     time.Time
	EquipmentID int64
	Tasks       []ScheduleTaskDraft
}

type TaskDraft struct {
	Name         string
	EquipmentID  int64
	Priority     Priority
	DueDate      time.Time
	TechnicianID int64
}

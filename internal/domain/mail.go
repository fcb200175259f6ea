package domain

const (
	MailTypeTaskAssigned         = "task_assigned"
	MailTypeScheduleTaskAssigned = "schedule_task_assigned"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type TaskAssignedMailData struct {
	FullName      string `json:"fullName"`
	TaskName      string `json:"taskName"`
	EquipmentName string `json:"equipmentName"`
	Priority      string `json:"priority"`
	DueDate       string `json:"dueDate"`
}

type ScheduleTaskAssignedMailData struct {
	FullName      string `json:"fullName"`
	ScheduleName  string `json:"scheduleName"`
	TaskName      string `json:"taskName"`
	EquipmentName string `json:"equipmentName"`
	DueDate       string `json:"dueDate"`
	IntervalDays  int    `json:"intervalDays"`
}

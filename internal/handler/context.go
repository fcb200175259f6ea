package handler

type ContextKey string

var (
	RoleCtxKey        ContextKey = "role"
	SubCtxKey         ContextKey = "sub"
	TokenCtxKey       ContextKey = "token"
	SessionCtxKey     ContextKey = "session"
	ServiceCtx        ContextKey = "service"
	EquipmentIDCtx    ContextKey = "equipmentID"
	ScheduleIDCtx     ContextKey = "scheduleID"
	ScheduleTaskIDCtx ContextKey = "scheduleTaskID"
	TaskIDCtx         ContextKey = "taskID"
	TechnicianIDCtx   ContextKey = "technicianID"
)

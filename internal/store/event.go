package store

import (
	"strings"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
)

type Resource string

const (
	ResourceEquipment  Resource = "equipment"
	ResourceSchedule   Resource = "schedule"
	ResourceTask       Resource = "task"
	ResourceTechnician Resource = "technician"
)

var Resources = []Resource{ResourceEquipment, ResourceSchedule, ResourceTask, ResourceTechnician}

// Phase 是一次远程操作的生命周期阶段
type Phase int

const (
	Requested Phase = iota
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Requested:
		return "requested"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Action 的格式为 "<resource>/<name>"
type Action string

const (
	EquipmentFetchAll       Action = "equipment/fetchAll"
	EquipmentFetchArchived  Action = "equipment/fetchArchived"
	EquipmentSearch         Action = "equipment/search"
	EquipmentFetchByID      Action = "equipment/fetchById"
	EquipmentCreate         Action = "equipment/create"
	EquipmentUpdate         Action = "equipment/update"
	EquipmentDelete         Action = "equipment/delete"
	EquipmentArchive        Action = "equipment/archive"
	EquipmentUnarchive      Action = "equipment/unarchive"
	EquipmentAssignType     Action = "equipment/assignType"
	EquipmentAssignWorkshop Action = "equipment/assignWorkshop"
	EquipmentClear          Action = "equipment/clear"

	ScheduleFetchAll             Action = "schedule/fetchAll"
	ScheduleCreate               Action = "schedule/create"
	ScheduleUpdate               Action = "schedule/update"
	ScheduleDelete               Action = "schedule/delete"
	ScheduleSetActive            Action = "schedule/setActive"
	ScheduleAddTask              Action = "schedule/addTask"
	ScheduleEditTask             Action = "schedule/editTask"
	ScheduleDeleteTask           Action = "schedule/deleteTask"
	ScheduleAssignTaskTechnician Action = "schedule/assignTaskTechnician"
	ScheduleClear                Action = "schedule/clear"

	TaskFetchAll          Action = "task/fetchAll"
	TaskFetchByEquipment  Action = "task/fetchByEquipment"
	TaskFetchByTechnician Action = "task/fetchByTechnician"
	TaskCreate            Action = "task/create"
	TaskDelete            Action = "task/delete"
	TaskAssignTechnician  Action = "task/assignTechnician"
	TaskResolveAssignee   Action = "task/resolveAssignee"
	TaskComplete          Action = "task/complete"
	TaskClear             Action = "task/clear"

	TechnicianFetchAll     Action = "technician/fetchAll"
	TechnicianFetchOptions Action = "technician/fetchOptions"
	TechnicianFetchCurrent Action = "technician/fetchCurrent"
	TechnicianCreate       Action = "technician/create"
	TechnicianUpdate       Action = "technician/update"
	TechnicianDelete       Action = "technician/delete"
	TechnicianClear        Action = "technician/clear"
)

func (a Action) Resource() Resource {
	res, _, _ := strings.Cut(string(a), "/")
	return Resource(res)
}

// ClearAction 返回清空某个集合对应的 action
func ClearAction(r Resource) (Action, bool) {
	switch r {
	case ResourceEquipment:
		return EquipmentClear, true
	case ResourceSchedule:
		return ScheduleClear, true
	case ResourceTask:
		return TaskClear, true
	case ResourceTechnician:
		return TechnicianClear, true
	default:
		return "", false
	}
}

type Event struct {
	Action Action
	Phase  Phase

	// Key 和 Seq 用于严格顺序模式下丢弃过期的响应
	Key string
	Seq uint64

	Payload any
	Err     string
}

// 以下是各个 action 成功时携带的 payload

type TypePatch struct {
	EquipmentID int64
	Type        string
}

type WorkshopPatch struct {
	EquipmentID int64
	Workshop    domain.Workshop
}

type ScheduleTasks struct {
	ScheduleID int64
	Tasks      []domain.ScheduleTask
}

type EquipmentTasks struct {
	EquipmentName string
	Tasks         []domain.Task
}

type TechnicianPatch struct {
	TaskID       int64
	TechnicianID int64
}

type AssigneePatch struct {
	TaskID int64
	Name   string
	Email  string
}

type Completion struct {
	Task domain.Task
	Role domain.Role
}

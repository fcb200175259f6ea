package operation

import (
	"context"
	"sync"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/api"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
)

// fakeAPI 是远端接口的内存实现，err 不为空时所有调用都返回该错误
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int
	err   error

	equipment   []domain.Equipment
	schedules   []domain.MaintenanceSchedule
	tasks       []domain.Task
	technicians []domain.Technician
	options     []domain.TechnicianOption
	current     domain.Technician

	lastSchedule     api.ScheduleRequest
	lastScheduleTask api.ScheduleTaskRequest
	lastTask         api.CreateTaskRequest
	scheduleTasks    []domain.ScheduleTask
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{calls: make(map[string]int)}
}

func (f *fakeAPI) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.err
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) ListEquipment(ctx context.Context) ([]domain.Equipment, error) {
	return f.equipment, f.hit("ListEquipment")
}

func (f *fakeAPI) ListArchivedEquipment(ctx context.Context) ([]domain.Equipment, error) {
	var out []domain.Equipment
	for _, e := range f.equipment {
		if e.IsArchived {
			out = append(out, e)
		}
	}
	return out, f.hit("ListArchivedEquipment")
}

func (f *fakeAPI) SearchEquipment(ctx context.Context, name string) ([]domain.Equipment, error) {
	var out []domain.Equipment
	for _, e := range f.equipment {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out, f.hit("SearchEquipment")
}

func (f *fakeAPI) GetEquipment(ctx context.Context, id int64) (domain.Equipment, error) {
	if err := f.hit("GetEquipment"); err != nil {
		return domain.Equipment{}, err
	}
	for _, e := range f.equipment {
		if e.ID == id {
			return e, nil
		}
	}
	return domain.Equipment{}, &api.StatusError{StatusCode: 404, Body: "equipment not found"}
}

func (f *fakeAPI) CreateEquipment(ctx context.Context, req api.CreateEquipmentRequest) (domain.Equipment, error) {
	return domain.Equipment{ID: int64(len(f.equipment) + 100), Name: req.Name, Type: req.Type}, f.hit("CreateEquipment")
}

func (f *fakeAPI) UpdateEquipment(ctx context.Context, eq domain.Equipment) (domain.Equipment, error) {
	return eq, f.hit("UpdateEquipment")
}

func (f *fakeAPI) DeleteEquipment(ctx context.Context, id int64) error {
	return f.hit("DeleteEquipment")
}

func (f *fakeAPI) ArchiveEquipment(ctx context.Context, id int64) (domain.Equipment, error) {
	eq, err := f.GetEquipment(ctx, id)
	eq.IsArchived = true
	return eq, err
}

func (f *fakeAPI) UnarchiveEquipment(ctx context.Context, id int64) (domain.Equipment, error) {
	eq, err := f.GetEquipment(ctx, id)
	eq.IsArchived = false
	return eq, err
}

func (f *fakeAPI) AssignEquipmentType(ctx context.Context, id int64, equipmentType string) error {
	return f.hit("AssignEquipmentType")
}

func (f *fakeAPI) AssignEquipmentWorkshop(ctx context.Context, id int64, ws domain.Workshop) (domain.Workshop, error) {
	ws.ID = 77
	return ws, f.hit("AssignEquipmentWorkshop")
}

func (f *fakeAPI) ListSchedules(ctx context.Context) ([]domain.MaintenanceSchedule, error) {
	return f.schedules, f.hit("ListSchedules")
}

func (f *fakeAPI) CreateSchedule(ctx context.Context, req api.ScheduleRequest) (domain.MaintenanceSchedule, error) {
	f.lastSchedule = req
	return domain.MaintenanceSchedule{ID: 500, Name: req.Name, Interval: req.Interval}, f.hit("CreateSchedule")
}

func (f *fakeAPI) UpdateSchedule(ctx context.Context, id int64, req api.ScheduleRequest) (domain.MaintenanceSchedule, error) {
	f.lastSchedule = req
	return domain.MaintenanceSchedule{ID: id, Name: req.Name, Interval: req.Interval}, f.hit("UpdateSchedule")
}

func (f *fakeAPI) DeleteSchedule(ctx context.Context, id int64) error {
	return f.hit("DeleteSchedule")
}

func (f *fakeAPI) SetScheduleActive(ctx context.Context, id int64, active bool) (domain.MaintenanceSchedule, error) {
	for _, sc := range f.schedules {
		if sc.ID == id {
			sc.IsActive = active
			return sc, f.hit("SetScheduleActive")
		}
	}
	return domain.MaintenanceSchedule{}, f.hit("SetScheduleActive")
}

func (f *fakeAPI) AddScheduleTask(ctx context.Context, scheduleID int64, req api.ScheduleTaskRequest) ([]domain.ScheduleTask, error) {
	f.lastScheduleTask = req
	return f.scheduleTasks, f.hit("AddScheduleTask")
}

func (f *fakeAPI) EditScheduleTask(ctx context.Context, scheduleID, taskID int64, req api.ScheduleTaskRequest) ([]domain.ScheduleTask, error) {
	f.lastScheduleTask = req
	return f.scheduleTasks, f.hit("EditScheduleTask")
}

func (f *fakeAPI) DeleteScheduleTask(ctx context.Context, scheduleID, taskID int64) ([]domain.ScheduleTask, error) {
	return f.scheduleTasks, f.hit("DeleteScheduleTask")
}

func (f *fakeAPI) AssignScheduleTaskTechnician(ctx context.Context, scheduleID, taskID, technicianID int64) ([]domain.ScheduleTask, error) {
	return f.scheduleTasks, f.hit("AssignScheduleTaskTechnician")
}

func (f *fakeAPI) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return f.tasks, f.hit("ListTasks")
}

func (f *fakeAPI) ListTasksByEquipment(ctx context.Context, equipmentName string) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range f.tasks {
		if t.EquipmentName == equipmentName {
			out = append(out, t)
		}
	}
	return out, f.hit("ListTasksByEquipment")
}

func (f *fakeAPI) ListTasksByTechnician(ctx context.Context, technicianID int64) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range f.tasks {
		if t.TechnicianID == technicianID {
			out = append(out, t)
		}
	}
	return out, f.hit("ListTasksByTechnician")
}

func (f *fakeAPI) CreateTask(ctx context.Context, req api.CreateTaskRequest) (domain.Task, error) {
	f.lastTask = req
	return domain.Task{ID: 900, Name: req.Name, Priority: req.Priority, Status: domain.TaskStatusPending}, f.hit("CreateTask")
}

func (f *fakeAPI) DeleteTask(ctx context.Context, id int64) error {
	return f.hit("DeleteTask")
}

func (f *fakeAPI) AssignTaskTechnician(ctx context.Context, taskID, technicianID int64) error {
	return f.hit("AssignTaskTechnician")
}

func (f *fakeAPI) CompleteTask(ctx context.Context, taskID int64) (domain.Task, error) {
	for _, t := range f.tasks {
		if t.ID == taskID {
			t.Status = domain.TaskStatusCompleted
			return t, f.hit("CompleteTask")
		}
	}
	return domain.Task{}, f.hit("CompleteTask")
}

func (f *fakeAPI) ListTechnicians(ctx context.Context) ([]domain.Technician, error) {
	return f.technicians, f.hit("ListTechnicians")
}

func (f *fakeAPI) ListTechnicianOptions(ctx context.Context) ([]domain.TechnicianOption, error) {
	return f.options, f.hit("ListTechnicianOptions")
}

func (f *fakeAPI) GetCurrentTechnician(ctx context.Context) (domain.Technician, error) {
	return f.current, f.hit("GetCurrentTechnician")
}

func (f *fakeAPI) CreateTechnician(ctx context.Context, req api.TechnicianRequest) (domain.Technician, error) {
	return domain.Technician{ID: 300, FullName: req.FullName, Email: req.Email}, f.hit("CreateTechnician")
}

func (f *fakeAPI) UpdateTechnician(ctx context.Context, id int64, req api.TechnicianRequest) (domain.Technician, error) {
	return domain.Technician{ID: id, FullName: req.FullName, Email: req.Email}, f.hit("UpdateTechnician")
}

func (f *fakeAPI) DeleteTechnician(ctx context.Context, id int64) error {
	return f.hit("DeleteTechnician")
}

type fakeJournal struct {
	mu      sync.Mutex
	entries []domain.JournalEntry
}

func (j *fakeJournal) Record(ctx context.Context, entry domain.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
	return nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []domain.MailMessage
}

func (n *fakeNotifier) Notify(ctx context.Context, msg domain.MailMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

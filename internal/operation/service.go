// Package operation 实现所有可以被界面触发的逻辑操作。
// 每个操作都会向 store 依次派发 requested 以及 succeeded/failed 事件。
package operation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/api"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/store"
)

// API 是远端接口中被用到的部分，*api.Client 实现了它
type API interface {
	ListEquipment(ctx context.Context) ([]domain.Equipment, error)
	ListArchivedEquipment(ctx context.Context) ([]domain.Equipment, error)
	SearchEquipment(ctx context.Context, name string) ([]domain.Equipment, error)
	GetEquipment(ctx context.Context, id int64) (domain.Equipment, error)
	CreateEquipment(ctx context.Context, req api.CreateEquipmentRequest) (domain.Equipment, error)
	UpdateEquipment(ctx context.Context, eq domain.Equipment) (domain.Equipment, error)
	DeleteEquipment(ctx context.Context, id int64) error
	ArchiveEquipment(ctx context.Context, id int64) (domain.Equipment, error)
	UnarchiveEquipment(ctx context.Context, id int64) (domain.Equipment, error)
	AssignEquipmentType(ctx context.Context, id int64, equipmentType string) error
	AssignEquipmentWorkshop(ctx context.Context, id int64, ws domain.Workshop) (domain.Workshop, error)

	ListSchedules(ctx context.Context) ([]domain.MaintenanceSchedule, error)
	CreateSchedule(ctx context.Context, req api.ScheduleRequest) (domain.MaintenanceSchedule, error)
	UpdateSchedule(ctx context.Context, id int64, req api.ScheduleRequest) (domain.MaintenanceSchedule, error)
	DeleteSchedule(ctx context.Context, id int64) error
	SetScheduleActive(ctx context.Context, id int64, active bool) (domain.MaintenanceSchedule, error)
	AddScheduleTask(ctx context.Context, scheduleID int64, req api.ScheduleTaskRequest) ([]domain.ScheduleTask, error)
	EditScheduleTask(ctx context.Context, scheduleID, taskID int64, req api.ScheduleTaskRequest) ([]domain.ScheduleTask, error)
	DeleteScheduleTask(ctx context.Context, scheduleID, taskID int64) ([]domain.ScheduleTask, error)
	AssignScheduleTaskTechnician(ctx context.Context, scheduleID, taskID, technicianID int64) ([]domain.ScheduleTask, error)

	ListTasks(ctx context.Context) ([]domain.Task, error)
	ListTasksByEquipment(ctx context.Context, equipmentName string) ([]domain.Task, error)
	ListTasksByTechnician(ctx context.Context, technicianID int64) ([]domain.Task, error)
	CreateTask(ctx context.Context, req api.CreateTaskRequest) (domain.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	AssignTaskTechnician(ctx context.Context, taskID, technicianID int64) error
	CompleteTask(ctx context.Context, taskID int64) (domain.Task, error)

	ListTechnicians(ctx context.Context) ([]domain.Technician, error)
	ListTechnicianOptions(ctx context.Context) ([]domain.TechnicianOption, error)
	GetCurrentTechnician(ctx context.Context) (domain.Technician, error)
	CreateTechnician(ctx context.Context, req api.TechnicianRequest) (domain.Technician, error)
	UpdateTechnician(ctx context.Context, id int64, req api.TechnicianRequest) (domain.Technician, error)
	DeleteTechnician(ctx context.Context, id int64) error
}

type Journal interface {
	Record(ctx context.Context, entry domain.JournalEntry) error
}

type Notifier interface {
	Notify(ctx context.Context, msg domain.MailMessage) error
}

type Option func(*Service)

func WithJournal(j Journal, sessionID string) Option {
	return func(s *Service) {
		s.journal = j
		s.sessionID = sessionID
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

type Service struct {
	api       API
	store     *store.Store
	journal   Journal
	notifier  Notifier
	sessionID string
	now       func() time.Time
}

func New(remote API, st *store.Store, opts ...Option) *Service {
	s := &Service{
		api:   remote,
		store: st,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Store() *store.Store {
	return s.store
}

func (s *Service) State() store.State {
	return s.store.State()
}

// guardLoaded 防止重复加载已经有数据的集合
func (s *Service) guardLoaded(res store.Resource) error {
	if s.store.State().Loaded(res) {
		return ErrAlreadyLoaded
	}
	return nil
}

// ClearCollection 清空某个集合，之后可以重新加载
func (s *Service) ClearCollection(ctx context.Context, res store.Resource) error {
	action, ok := store.ClearAction(res)
	if !ok {
		return fmt.Errorf("未知的资源类型 %q", res)
	}
	s.store.Dispatch(store.Event{Action: action, Phase: store.Succeeded})
	s.record(ctx, action, true, "")
	return nil
}

// run 执行一次远程调用并把结果合并进 store，toPayload 为 nil 时直接使用调用结果
func run[T any](ctx context.Context, s *Service, action store.Action, key string, call func(context.Context) (T, error), toPayload func(T) any) (T, error) {
	seq := s.store.Begin(key)
	s.store.Dispatch(store.Event{Action: action, Phase: store.Requested, Key: key, Seq: seq})

	v, err := call(ctx)
	if err != nil {
		opErr := &OperationError{
			Resource: action.Resource(),
			Action:   action,
			Message:  humanMessage(err),
			Err:      err,
		}
		s.store.Dispatch(store.Event{Action: action, Phase: store.Failed, Key: key, Seq: seq, Err: opErr.Message})
		s.record(ctx, action, false, opErr.Message)
		var zero T
		return zero, opErr
	}

	var payload any = v
	if toPayload != nil {
		payload = toPayload(v)
	}
	s.store.Dispatch(store.Event{Action: action, Phase: store.Succeeded, Key: key, Seq: seq, Payload: payload})
	s.record(ctx, action, true, "")
	return v, nil
}

// exec 用于没有返回值的远程调用
func exec(ctx context.Context, s *Service, action store.Action, key string, call func(context.Context) error, payload any) error {
	_, err := run(ctx, s, action, key, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, call(ctx)
	}, func(struct{}) any { return payload })
	return err
}

func (s *Service) record(ctx context.Context, action store.Action, succeeded bool, message string) {
	if s.journal == nil {
		return
	}
	entry := domain.JournalEntry{
		SessionID: s.sessionID,
		Resource:  string(action.Resource()),
		Action:    string(action),
		Succeeded: succeeded,
		Message:   message,
		CreatedAt: s.now(),
	}
	if err := s.journal.Record(context.WithoutCancel(ctx), entry); err != nil {
		slog.Warn("无法写入操作日志", "action", action, "error", err)
	}
}

func (s *Service) notify(ctx context.Context, msg domain.MailMessage) {
	if s.notifier == nil || msg.To == "" {
		return
	}
	if err := s.notifier.Notify(context.WithoutCancel(ctx), msg); err != nil {
		slog.Warn("无法发送通知", "type", msg.Type, "to", msg.To, "error", err)
	}
}

func key(res store.Resource, id int64) string {
	return fmt.Sprintf("%s:%d", res, id)
}

func listKey(res store.Resource) string {
	return string(res) + ":list"
}

func humanMessage(err error) string {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) && statusErr.Body != "" {
		return statusErr.Body
	}
	return err.Error()
}

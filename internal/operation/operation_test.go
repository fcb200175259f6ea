package operation

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/api"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/interval"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/store"
)

var fixedNow = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newService(remote *fakeAPI, opts ...store.Option) (*Service, *fakeJournal, *fakeNotifier) {
	j := &fakeJournal{}
	n := &fakeNotifier{}
	svc := New(remote, store.New(opts...),
		WithJournal(j, "session-1"),
		WithNotifier(n),
		WithClock(func() time.Time { return fixedNow }),
	)
	return svc, j, n
}

func TestFetchEquipmentLoadsOnce(t *testing.T) {
	remote := newFakeAPI()
	remote.equipment = []domain.Equipment{{ID: 1, Name: "Pump"}, {ID: 2, Name: "Lathe"}}
	svc, _, _ := newService(remote)
	ctx := context.Background()

	items, err := svc.FetchEquipment(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	remote.equipment = []domain.Equipment{{ID: 3, Name: "Drill"}}
	_, err = svc.FetchEquipment(ctx)
	assert.ErrorIs(t, err, ErrAlreadyLoaded)
	assert.True(t, IsBenign(err))

	assert.Equal(t, 1, remote.count("ListEquipment"))
	assert.Len(t, svc.State().Equipment.Items, 2)
	assert.False(t, svc.State().Equipment.Loading)
	assert.Empty(t, svc.State().Equipment.Error)
}

func TestClearCollectionAllowsReload(t *testing.T) {
	remote := newFakeAPI()
	remote.tasks = []domain.Task{{ID: 1, Name: "Oil"}}
	svc, j, _ := newService(remote)
	ctx := context.Background()

	_, err := svc.FetchTasks(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCollection(ctx, store.ResourceTask))
	assert.Empty(t, svc.State().Tasks.Items)

	_, err = svc.FetchTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, remote.count("ListTasks"))

	assert.Error(t, svc.ClearCollection(ctx, store.Resource("unknown")))
	assert.Len(t, j.entries, 3)
}

func TestFailedCallRecordsError(t *testing.T) {
	remote := newFakeAPI()
	remote.err = &api.StatusError{StatusCode: 500, Body: "database unavailable"}
	svc, j, _ := newService(remote)

	_, err := svc.FetchSchedules(context.Background())
	require.Error(t, err)

	var opErr *OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, store.ResourceSchedule, opErr.Resource)
	assert.Equal(t, store.ScheduleFetchAll, opErr.Action)
	assert.Equal(t, "database unavailable", opErr.Message)
	assert.False(t, IsBenign(err))

	var statusErr *api.StatusError
	assert.True(t, errors.As(err, &statusErr))

	st := svc.State().Schedules
	assert.False(t, st.Loading)
	assert.Equal(t, "database unavailable", st.Error)
	assert.Empty(t, st.Items)

	require.Len(t, j.entries, 1)
	assert.False(t, j.entries[0].Succeeded)
	assert.Equal(t, "session-1", j.entries[0].SessionID)
	assert.Equal(t, string(store.ScheduleFetchAll), j.entries[0].Action)
	assert.Equal(t, fixedNow, j.entries[0].CreatedAt)
}

func TestCreateScheduleComputesDueDates(t *testing.T) {
	remote := newFakeAPI()
	svc, j, _ := newService(remote)

	draft := domain.ScheduleDraft{
		Name:        "Pump service",
		Type:        interval.ScheduleTypeWeekly,
		IsActive:    true,
		StartDate:   date(2024, 3, 10),
		EquipmentID: 4,
		Tasks: []domain.ScheduleTaskDraft{
			{Name: "Inspect seals"},
			{Name: "Replace filter", Interval: "30", Priority: domain.PriorityHigh},
		},
	}

	sc, err := svc.CreateSchedule(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, int64(500), sc.ID)

	req := remote.lastSchedule
	assert.Equal(t, "7.00:00:00", req.Interval)
	assert.Equal(t, "2024-03-10", req.StartDate)
	assert.Empty(t, req.EndDate)
	require.Len(t, req.Tasks, 2)

	assert.Equal(t, "2024-03-17", req.Tasks[0].DueDate)
	assert.Empty(t, req.Tasks[0].Interval)
	assert.Equal(t, domain.PriorityMedium, req.Tasks[0].Priority)

	assert.Equal(t, "2024-04-09", req.Tasks[1].DueDate)
	assert.Equal(t, "30.00:00:00", req.Tasks[1].Interval)
	assert.Equal(t, domain.PriorityHigh, req.Tasks[1].Priority)

	require.Len(t, svc.State().Schedules.Items, 1)
	require.Len(t, j.entries, 1)
	assert.True(t, j.entries[0].Succeeded)
}

func TestCreateScheduleValidation(t *testing.T) {
	base := domain.ScheduleDraft{
		Name:        "Lathe",
		Type:        interval.ScheduleTypeCustom,
		Interval:    "10",
		StartDate:   date(2024, 3, 10),
		EquipmentID: 1,
	}

	tests := []struct {
		name   string
		mutate func(d *domain.ScheduleDraft)
		want   error
	}{
		{"start in past", func(d *domain.ScheduleDraft) { d.StartDate = date(2024, 3, 9) }, interval.ErrStartInPast},
		{"end before start", func(d *domain.ScheduleDraft) { d.EndDate = date(2024, 3, 1) }, interval.ErrEndBeforeStart},
		{"interval too high", func(d *domain.ScheduleDraft) { d.Interval = "120" }, interval.ErrOutOfRangeHigh},
		{"interval not a number", func(d *domain.ScheduleDraft) { d.Interval = "abc" }, interval.ErrInvalidFormat},
		{"custom without interval", func(d *domain.ScheduleDraft) { d.Interval = "" }, interval.ErrRequired},
		{"missing name", func(d *domain.ScheduleDraft) { d.Name = " " }, interval.ErrRequired},
		{"bad task interval", func(d *domain.ScheduleDraft) {
			d.Tasks = []domain.ScheduleTaskDraft{{Name: "x", Interval: "0"}}
		}, interval.ErrOutOfRangeLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := newFakeAPI()
			svc, j, _ := newService(remote)

			d := base
			tt.mutate(&d)
			_, err := svc.CreateSchedule(context.Background(), d)
			assert.ErrorIs(t, err, tt.want)

			assert.Zero(t, remote.count("CreateSchedule"))
			assert.Empty(t, j.entries)
			assert.False(t, svc.State().Schedules.Loading)
		})
	}
}

func TestUpdateScheduleReprojectsDueDates(t *testing.T) {
	remote := newFakeAPI()
	original := domain.MaintenanceSchedule{
		ID:          8,
		Name:        "Boiler",
		Type:        interval.ScheduleTypeMonthly,
		StartDate:   date(2024, 3, 1),
		Interval:    "30.00:00:00",
		EquipmentID: 3,
		ScheduleTasks: []domain.ScheduleTask{
			{ID: 1, Name: "Flush", DueDate: date(2024, 3, 11), Interval: "10.00:00:00"},
			{ID: 2, Name: "Paint", DueDate: date(2024, 6, 1)},
		},
	}
	remote.schedules = []domain.MaintenanceSchedule{original}
	svc, _, _ := newService(remote)
	ctx := context.Background()

	_, err := svc.FetchSchedules(ctx)
	require.NoError(t, err)

	// 原开始日期早于今天，但新日期不早于原日期，允许保存
	draft := domain.ScheduleDraft{
		Name:      "Boiler",
		Type:      interval.ScheduleTypeMonthly,
		StartDate: date(2024, 3, 5),
	}
	_, err = svc.UpdateSchedule(ctx, 8, draft)
	require.NoError(t, err)

	req := remote.lastSchedule
	assert.Equal(t, int64(3), req.EquipmentID)
	assert.Equal(t, "30.00:00:00", req.Interval)
	require.Len(t, req.Tasks, 2)
	assert.Equal(t, int64(1), req.Tasks[0].ID)
	assert.Equal(t, "2024-03-15", req.Tasks[0].DueDate)
	assert.Equal(t, "2024-06-01", req.Tasks[1].DueDate)

	draft.StartDate = date(2024, 2, 1)
	_, err = svc.UpdateSchedule(ctx, 8, draft)
	assert.ErrorIs(t, err, interval.ErrStartInPast)

	_, err = svc.UpdateSchedule(ctx, 99, draft)
	assert.ErrorIs(t, err, ErrScheduleNotLoaded)
}

func TestUpdateScheduleRejectsTasks(t *testing.T) {
	remote := newFakeAPI()
	remote.schedules = []domain.MaintenanceSchedule{{
		ID:        8,
		Name:      "Boiler",
		Type:      interval.ScheduleTypeMonthly,
		StartDate: date(2024, 3, 12),
		Interval:  "30.00:00:00",
	}}
	svc, j, _ := newService(remote)
	ctx := context.Background()

	_, err := svc.FetchSchedules(ctx)
	require.NoError(t, err)
	journaled := len(j.entries)

	_, err = svc.UpdateSchedule(ctx, 8, domain.ScheduleDraft{
		Name:      "Boiler",
		Type:      interval.ScheduleTypeMonthly,
		StartDate: date(2024, 3, 12),
		Tasks:     []domain.ScheduleTaskDraft{{Name: "Flush"}},
	})
	assert.ErrorIs(t, err, ErrScheduleTasksInUpdate)
	assert.Zero(t, remote.count("UpdateSchedule"))
	assert.Len(t, j.entries, journaled)
}

func TestScheduleTaskMutationsReplaceWholeList(t *testing.T) {
	remote := newFakeAPI()
	remote.schedules = []domain.MaintenanceSchedule{{
		ID:        5,
		Name:      "Fans",
		StartDate: date(2024, 3, 10),
		Interval:  "7.00:00:00",
		ScheduleTasks: []domain.ScheduleTask{
			{ID: 1, Name: "Old"},
		},
	}}
	remote.options = []domain.TechnicianOption{{ID: 9, FullName: "Li Lei", Email: "lilei@example.com"}}
	svc, _, n := newService(remote)
	ctx := context.Background()

	_, err := svc.FetchSchedules(ctx)
	require.NoError(t, err)
	_, err = svc.FetchTechnicianOptions(ctx)
	require.NoError(t, err)

	remote.scheduleTasks = []domain.ScheduleTask{
		{ID: 1, Name: "Old"},
		{ID: 2, Name: "Belts", EquipmentName: "Fan", Interval: "14.00:00:00", DueDate: date(2024, 3, 24), TechnicianID: 9},
	}
	_, err = svc.AddScheduleTask(ctx, 5, domain.ScheduleTaskDraft{Name: "Belts", Interval: "14"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-24", remote.lastScheduleTask.DueDate)
	assert.Equal(t, "14.00:00:00", remote.lastScheduleTask.Interval)

	sc, ok := store.FindSchedule(svc.State(), 5)
	require.True(t, ok)
	assert.Len(t, sc.ScheduleTasks, 2)

	_, err = svc.AssignScheduleTaskTechnician(ctx, 5, 2, 9)
	require.NoError(t, err)
	require.Len(t, n.sent, 1)
	assert.Equal(t, domain.MailTypeScheduleTaskAssigned, n.sent[0].Type)
	assert.Equal(t, "lilei@example.com", n.sent[0].To)
	data := n.sent[0].Data.(domain.ScheduleTaskAssignedMailData)
	assert.Equal(t, "Fans", data.ScheduleName)
	assert.Equal(t, 14, data.IntervalDays)

	remote.scheduleTasks = nil
	_, err = svc.DeleteScheduleTask(ctx, 5, 1)
	require.NoError(t, err)
	sc, _ = store.FindSchedule(svc.State(), 5)
	assert.Empty(t, sc.ScheduleTasks)

	_, err = svc.AddScheduleTask(ctx, 5, domain.ScheduleTaskDraft{})
	assert.ErrorIs(t, err, interval.ErrRequired)
}

func TestAssignScheduleTaskTechnicianLogsBadInterval(t *testing.T) {
	var buf bytes.Buffer
	defaultLogger := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(defaultLogger) })

	remote := newFakeAPI()
	remote.schedules = []domain.MaintenanceSchedule{{ID: 5, Name: "Fans", StartDate: date(2024, 3, 10), Interval: "7.00:00:00"}}
	remote.options = []domain.TechnicianOption{{ID: 9, FullName: "Li Lei", Email: "lilei@example.com"}}
	svc, _, n := newService(remote)
	ctx := context.Background()

	_, err := svc.FetchSchedules(ctx)
	require.NoError(t, err)
	_, err = svc.FetchTechnicianOptions(ctx)
	require.NoError(t, err)

	remote.scheduleTasks = []domain.ScheduleTask{{ID: 2, Name: "Belts", Interval: "weekly", TechnicianID: 9}}
	_, err = svc.AssignScheduleTaskTechnician(ctx, 5, 2, 9)
	require.NoError(t, err)

	require.Len(t, n.sent, 1)
	assert.Zero(t, n.sent[0].Data.(domain.ScheduleTaskAssignedMailData).IntervalDays)
	assert.Contains(t, buf.String(), "无法解析计划任务的周期")
	assert.Contains(t, buf.String(), "interval=weekly")
}

func TestAssignTaskTechnicianResolvesName(t *testing.T) {
	remote := newFakeAPI()
	remote.tasks = []domain.Task{{ID: 1, Name: "Oil", EquipmentName: "Pump", DueDate: date(2024, 3, 20), AssignedTo: "N/A"}}
	remote.options = []domain.TechnicianOption{{ID: 4, FullName: "Han Meimei", Email: "hmm@example.com"}}
	svc, j, n := newService(remote)
	ctx := context.Background()

	_, err := svc.FetchTasks(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.AssignTaskTechnician(ctx, 1, 4))
	task, _ := store.FindTask(svc.State(), 1)
	assert.Equal(t, int64(4), task.TechnicianID)
	assert.Equal(t, "Han Meimei", task.AssignedTo)
	assert.Equal(t, 1, remote.count("ListTechnicianOptions"))

	require.Len(t, n.sent, 1)
	assert.Equal(t, domain.MailTypeTaskAssigned, n.sent[0].Type)
	data := n.sent[0].Data.(domain.TaskAssignedMailData)
	assert.Equal(t, "Oil", data.TaskName)
	assert.Equal(t, "2024-03-20", data.DueDate)

	// 技术员没有变化时不会再解析
	require.NoError(t, svc.AssignTaskTechnician(ctx, 1, 4))
	assert.Len(t, n.sent, 1)

	require.NoError(t, svc.AssignTaskTechnician(ctx, 1, 0))
	task, _ = store.FindTask(svc.State(), 1)
	assert.Equal(t, domain.UnassignedTechnician, task.AssignedTo)
	assert.Len(t, n.sent, 1)

	// 选项列表和技术员列表中都找不到的 ID 同样显示为 N/A，也不发送通知
	require.NoError(t, svc.AssignTaskTechnician(ctx, 1, 42))
	task, _ = store.FindTask(svc.State(), 1)
	assert.Equal(t, int64(42), task.TechnicianID)
	assert.Equal(t, domain.UnassignedTechnician, task.AssignedTo)
	assert.Len(t, n.sent, 1)

	var resolved int
	for _, e := range j.entries {
		if e.Action == string(store.TaskResolveAssignee) {
			resolved++
		}
	}
	assert.Equal(t, 3, resolved)
}

func TestAssignTaskTechnicianFailureSkipsResolution(t *testing.T) {
	remote := newFakeAPI()
	remote.tasks = []domain.Task{{ID: 1, Name: "Oil", AssignedTo: "N/A"}}
	svc, _, n := newService(remote)
	ctx := context.Background()

	_, err := svc.FetchTasks(ctx)
	require.NoError(t, err)

	remote.err = errors.New("timeout")
	err = svc.AssignTaskTechnician(ctx, 1, 4)
	require.Error(t, err)

	task, _ := store.FindTask(svc.State(), 1)
	assert.Zero(t, task.TechnicianID)
	assert.Equal(t, "N/A", task.AssignedTo)
	assert.Empty(t, n.sent)
	assert.Equal(t, "timeout", svc.State().Tasks.Error)
}

func TestCompleteTaskIsRoleScoped(t *testing.T) {
	remote := newFakeAPI()
	remote.tasks = []domain.Task{{ID: 1, Name: "Oil", Status: domain.TaskStatusPending, TechnicianID: 2}}
	remote.current = domain.Technician{ID: 2, FullName: "Wang Wu"}
	svc, _, _ := newService(remote)
	ctx := context.Background()

	_, err := svc.FetchTasks(ctx)
	require.NoError(t, err)
	mine, err := svc.FetchMyTasks(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	_, err = svc.CompleteTask(ctx, 1, domain.RoleTechnician)
	require.NoError(t, err)
	st := svc.State().Tasks
	assert.Equal(t, domain.TaskStatusCompleted, st.ByTechnician[0].Status)
	assert.Equal(t, domain.TaskStatusPending, st.Items[0].Status)

	_, err = svc.CompleteTask(ctx, 1, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, svc.State().Tasks.Items[0].Status)

	_, err = svc.CompleteTask(ctx, 1, domain.Role("Guest"))
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestFetchMyTasksWithoutTechnician(t *testing.T) {
	remote := newFakeAPI()
	svc, _, _ := newService(remote)

	_, err := svc.FetchMyTasks(context.Background())
	assert.ErrorIs(t, err, ErrNoCurrentTech)
	assert.Zero(t, remote.count("ListTasksByTechnician"))
}

func TestCreateTaskDefaults(t *testing.T) {
	remote := newFakeAPI()
	svc, _, _ := newService(remote)
	ctx := context.Background()

	_, err := svc.CreateTask(ctx, domain.TaskDraft{Name: "Check", EquipmentID: 2, DueDate: date(2024, 4, 1)})
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityMedium, remote.lastTask.Priority)
	assert.Equal(t, "2024-04-01", remote.lastTask.DueDate)
	assert.Len(t, svc.State().Tasks.Items, 1)

	_, err = svc.CreateTask(ctx, domain.TaskDraft{Name: "Check", EquipmentID: 2})
	assert.ErrorIs(t, err, interval.ErrRequired)
	assert.Equal(t, 1, remote.count("CreateTask"))
}

func TestEquipmentArchiveAndWorkshop(t *testing.T) {
	remote := newFakeAPI()
	remote.equipment = []domain.Equipment{{ID: 1, Name: "Pump"}, {ID: 2, Name: "Lathe"}}
	svc, _, _ := newService(remote)
	ctx := context.Background()

	_, err := svc.FetchEquipment(ctx)
	require.NoError(t, err)

	_, err = svc.ArchiveEquipment(ctx, 1)
	require.NoError(t, err)
	st := svc.State()
	require.Len(t, st.Equipment.Archived, 1)
	assert.Len(t, store.ActiveEquipment(st), 1)

	_, err = svc.UnarchiveEquipment(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, svc.State().Equipment.Archived)

	require.NoError(t, svc.AssignEquipmentType(ctx, 2, "Mechanical"))
	ws, err := svc.AssignEquipmentWorkshop(ctx, 2, domain.Workshop{Name: "North"})
	require.NoError(t, err)
	assert.Equal(t, int64(77), ws.ID)

	eq, ok := store.FindEquipment(svc.State(), 2)
	require.True(t, ok)
	assert.Equal(t, "Mechanical", eq.Type)
	assert.Equal(t, "North", eq.Workshop.Name)
}

func TestLookupEquipment(t *testing.T) {
	remote := newFakeAPI()
	remote.equipment = []domain.Equipment{{ID: 12, Name: "Press"}}
	svc, _, _ := newService(remote)

	eq, err := svc.LookupEquipment(context.Background(), "EQ-12")
	require.NoError(t, err)
	assert.Equal(t, "Press", eq.Name)

	_, err = svc.LookupEquipment(context.Background(), "hello")
	assert.ErrorIs(t, err, interval.ErrInvalidFormat)
	assert.Zero(t, remote.count("GetEquipment"))
}

func TestParseEquipmentCode(t *testing.T) {
	tests := []struct {
		code string
		want int64
		ok   bool
	}{
		{"12", 12, true},
		{" EQ-7 ", 7, true},
		{"eq-7", 7, true},
		{"https://example.com/equipment/42", 42, true},
		{"https://example.com/equipment/42/", 42, true},
		{"", 0, false},
		{"EQ-", 0, false},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			id, err := ParseEquipmentCode(tt.code)
			if !tt.ok {
				assert.ErrorIs(t, err, interval.ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestTechnicianCRUDKeepsOptionsInSync(t *testing.T) {
	remote := newFakeAPI()
	svc, _, _ := newService(remote)
	ctx := context.Background()

	tech, err := svc.CreateTechnician(ctx, api.TechnicianRequest{FullName: "Zhao Liu", Email: "zl@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Zhao Liu", store.ResolveTechnician(svc.State(), tech.ID).FullName)

	_, err = svc.UpdateTechnician(ctx, tech.ID, api.TechnicianRequest{FullName: "Zhao Qi", Email: "zq@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Zhao Qi", store.ResolveTechnician(svc.State(), tech.ID).FullName)

	require.NoError(t, svc.DeleteTechnician(ctx, tech.ID))
	assert.Equal(t, domain.UnassignedTechnician, store.ResolveTechnician(svc.State(), tech.ID).FullName)
}

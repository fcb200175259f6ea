package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/operation"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/session"
)

const testSecret = "test-secret"

// stubAPI 只实现测试用到的方法，其余方法调用时会 panic
type stubAPI struct {
	operation.API

	mu        sync.Mutex
	equipment []domain.Equipment
	tasks     []domain.Task
	listCalls int
	tokens    []string
}

func (s *stubAPI) ListEquipment(ctx context.Context) ([]domain.Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	return s.equipment, nil
}

func (s *stubAPI) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return s.tasks, nil
}

func (s *stubAPI) CompleteTask(ctx context.Context, taskID int64) (domain.Task, error) {
	for _, t := range s.tasks {
		if t.ID == taskID {
			t.Status = domain.TaskStatusCompleted
			return t, nil
		}
	}
	return domain.Task{}, nil
}

type memoryJournal struct {
	mu      sync.Mutex
	entries []*domain.JournalEntry
}

func (j *memoryJournal) Record(ctx context.Context, entry domain.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, &entry)
	return nil
}

func (j *memoryJournal) GetRecentJournal(sessionID string, limit int) ([]*domain.JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := []*domain.JournalEntry{}
	for _, e := range j.entries {
		if sessionID == "" || e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type testServer struct {
	handler *Handler
	remote  *stubAPI
	journal *memoryJournal
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = testSecret
	cfg.JWT.CookieName = "token"
	cfg.Journal.PageSize = 50
	cfg.Maps.APIKey = "maps-key"

	remote := &stubAPI{
		equipment: []domain.Equipment{{ID: 1, Name: "Pump"}, {ID: 2, Name: "Lathe", IsArchived: true}},
		tasks:     []domain.Task{{ID: 7, Name: "Oil", Status: domain.TaskStatusOverDue}},
	}
	journal := &memoryJournal{}

	factory := func(token string) operation.API {
		remote.mu.Lock()
		remote.tokens = append(remote.tokens, token)
		remote.mu.Unlock()
		return remote
	}

	h, err := NewHandler(cfg, factory, session.NewRegistry(), journal, nil)
	require.NoError(t, err)
	h.RegisterRoutes()

	return &testServer{handler: h, remote: remote, journal: journal}
}

func signToken(t *testing.T, sub string, role domain.Role) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	ss, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return ss
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.Mux.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.True(t, resp.Success)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/equipment", "", nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "用户未登录", resp.Message)

	resp = s.do(t, http.MethodGet, "/equipment", "not-a-jwt", nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "无效的令牌", resp.Message)
}

func TestTokenFromCookie(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/client-config", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: signToken(t, "1", domain.RoleAdmin)})
	rec := httptest.NewRecorder()
	s.handler.Mux.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "maps-key", data["mapsApiKey"])
}

func TestEquipmentLoadsOncePerSession(t *testing.T) {
	s := newTestServer(t)
	admin := signToken(t, "1", domain.RoleAdmin)

	resp := s.do(t, http.MethodGet, "/equipment", admin, nil)
	require.True(t, resp.Success)
	assert.Len(t, resp.Data, 2)

	resp = s.do(t, http.MethodGet, "/equipment", admin, nil)
	require.True(t, resp.Success)
	assert.Equal(t, "数据已加载", resp.Message)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, 1, s.remote.listCalls)

	// 另一个用户有自己的会话
	other := signToken(t, "2", domain.RoleAdmin)
	resp = s.do(t, http.MethodGet, "/equipment", other, nil)
	require.True(t, resp.Success)
	assert.Equal(t, 2, s.remote.listCalls)
	assert.Contains(t, s.remote.tokens, other)

	resp = s.do(t, http.MethodGet, "/state", admin, nil)
	require.True(t, resp.Success)
	views := resp.Data.(map[string]any)["views"].(map[string]any)
	assert.Len(t, views["activeEquipment"], 1)

	resp = s.do(t, http.MethodDelete, "/state/equipment", admin, nil)
	require.True(t, resp.Success)
	resp = s.do(t, http.MethodGet, "/equipment", admin, nil)
	require.True(t, resp.Success)
	assert.Equal(t, 3, s.remote.listCalls)

	resp = s.do(t, http.MethodDelete, "/state/unknown", admin, nil)
	assert.False(t, resp.Success)
}

func TestRequiredRole(t *testing.T) {
	s := newTestServer(t)
	tech := signToken(t, "5", domain.RoleTechnician)

	resp := s.do(t, http.MethodPost, "/equipment", tech, map[string]any{"name": "Drill"})
	assert.False(t, resp.Success)
	assert.Equal(t, "权限不足", resp.Message)

	resp = s.do(t, http.MethodGet, "/journal", tech, nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "权限不足", resp.Message)
}

func TestCreateScheduleValidationError(t *testing.T) {
	s := newTestServer(t)
	admin := signToken(t, "1", domain.RoleAdmin)

	resp := s.do(t, http.MethodPost, "/schedules", admin, map[string]any{
		"name":        "Pump service",
		"type":        "Custom",
		"interval":    "120",
		"startDate":   time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		"equipmentId": 1,
	})
	require.False(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "interval", data["field"])
	assert.Equal(t, "OUT_OF_RANGE_HIGH", data["code"])

	resp = s.do(t, http.MethodPost, "/schedules", admin, map[string]any{
		"name":      "Pump service",
		"type":      "Custom",
		"interval":  "5",
		"startDate": "03/10/2024",
	})
	require.False(t, resp.Success)
	data = resp.Data.(map[string]any)
	assert.Equal(t, "startDate", data["field"])
	assert.Equal(t, "INVALID_DATE", data["code"])

	resp = s.do(t, http.MethodPost, "/schedules", admin, map[string]any{
		"name": "Pump service",
		"type": "Hourly",
	})
	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
}

func TestUpdateScheduleRejectsScheduleTasks(t *testing.T) {
	s := newTestServer(t)
	admin := signToken(t, "1", domain.RoleAdmin)

	resp := s.do(t, http.MethodPatch, "/schedules/3", admin, map[string]any{
		"name":      "Pump service",
		"type":      "Weekly",
		"startDate": time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		"scheduleTasks": []map[string]any{
			{"name": "Flush", "priority": "High"},
		},
	})
	assert.False(t, resp.Success)
	assert.Equal(t, operation.ErrScheduleTasksInUpdate.Error(), resp.Message)
}

func TestIntervalEndpoints(t *testing.T) {
	s := newTestServer(t)
	tech := signToken(t, "5", domain.RoleTechnician)

	resp := s.do(t, http.MethodPost, "/intervals/parse", tech, map[string]any{"text": "every 15 days"})
	require.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.EqualValues(t, 15, data["days"])
	assert.Equal(t, "15.00:00:00", data["canonical"])

	resp = s.do(t, http.MethodPost, "/intervals/parse", tech, map[string]any{"text": "0"})
	require.False(t, resp.Success)
	assert.Equal(t, "OUT_OF_RANGE_LOW", resp.Data.(map[string]any)["code"])

	resp = s.do(t, http.MethodPost, "/intervals/project", tech, map[string]any{"startDate": "2024-01-31", "days": 30})
	require.True(t, resp.Success)
	assert.Equal(t, "2024-03-01", resp.Data.(map[string]any)["dueDate"])

	resp = s.do(t, http.MethodPost, "/intervals/validate", tech, map[string]any{
		"startDate": "2099-01-10",
		"endDate":   "2099-01-01",
	})
	require.False(t, resp.Success)
	assert.Equal(t, "END_BEFORE_START", resp.Data.(map[string]any)["code"])

	resp = s.do(t, http.MethodPost, "/intervals/validate", tech, map[string]any{
		"startDate":         "2020-01-10",
		"editing":           true,
		"originalStartDate": "2020-01-01",
	})
	assert.True(t, resp.Success)

	resp = s.do(t, http.MethodGet, "/intervals/presets", tech, nil)
	require.True(t, resp.Success)
	assert.Len(t, resp.Data, 4)
}

func TestCompleteTaskAndJournal(t *testing.T) {
	s := newTestServer(t)
	admin := signToken(t, "1", domain.RoleAdmin)

	resp := s.do(t, http.MethodGet, "/tasks", admin, nil)
	require.True(t, resp.Success)

	resp = s.do(t, http.MethodPost, "/tasks/7/complete", admin, nil)
	require.True(t, resp.Success)
	assert.Equal(t, "Completed", resp.Data.(map[string]any)["status"])

	resp = s.do(t, http.MethodPost, "/tasks/abc/complete", admin, nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "ID无效", resp.Message)

	resp = s.do(t, http.MethodGet, "/journal?session=1", admin, nil)
	require.True(t, resp.Success)
	assert.Len(t, resp.Data, 2)

	resp = s.do(t, http.MethodGet, "/journal?limit=abc", admin, nil)
	assert.False(t, resp.Success)
}

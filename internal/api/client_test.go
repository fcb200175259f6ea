package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/", Timeout: time.Second})
}

func TestListEquipmentSendsToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/Equipment", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]domain.Equipment{{ID: 1, Name: "Lathe"}})
	}).WithToken("secret")

	items, err := c.ListEquipment(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Lathe", items[0].Name)
}

func TestWithTokenDoesNotLeakIntoOriginal(t *testing.T) {
	base := NewClient(Config{BaseURL: "http://example.invalid"})
	scoped := base.WithToken("abc")
	assert.Empty(t, base.token)
	assert.Equal(t, "abc", scoped.token)
}

func TestSearchEquipmentEncodesQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Equipment/search", r.URL.Path)
		assert.Equal(t, "drill press", r.URL.Query().Get("name"))
		_, _ = w.Write([]byte(`[]`))
	})

	items, err := c.SearchEquipment(context.Background(), "drill press")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAssignScheduleTaskTechnician(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/MaintenanceSchedule/3/tasks/9/technician", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]int64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(4), body["technicianId"])

		_ = json.NewEncoder(w).Encode([]domain.ScheduleTask{{ID: 9, TechnicianID: 4}})
	})

	tasks, err := c.AssignScheduleTaskTechnician(context.Background(), 3, 9, 4)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, int64(4), tasks[0].TechnicianID)
}

func TestDeleteAcceptsNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	assert.NoError(t, c.DeleteTask(context.Background(), 5))
}

func TestNonSuccessStatusBecomesStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "schedule not found", http.StatusNotFound)
	})

	_, err := c.SetScheduleActive(context.Background(), 42, true)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "schedule not found", statusErr.Body)
}

func TestMalformedResponseIsReported(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})
	_, err := c.GetEquipment(context.Background(), 1)
	assert.ErrorContains(t, err, "decoding response")
}

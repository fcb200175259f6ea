package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReprojectDueDates(t *testing.T) {
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	start := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)

	tasks := []ScheduleTask{
		{ID: 1, Name: "检查润滑", Interval: "10.00:00:00", DueDate: old},
		{ID: 2, Name: "更换滤芯", DueDate: old},
	}

	out, err := ReprojectDueDates(tasks, start)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), out[0].DueDate)
	// 没有周期的任务保持原到期日
	assert.Equal(t, old, out[1].DueDate)
	// 原切片不变
	assert.Equal(t, old, tasks[0].DueDate)
}

func TestReprojectDueDatesRejectsBadInterval(t *testing.T) {
	_, err := ReprojectDueDates([]ScheduleTask{{ID: 1, Interval: "abc"}}, time.Now())
	assert.Error(t, err)
}

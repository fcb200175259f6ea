package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/interval"
)

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &interval.ValidationError{Field: field, Code: interval.CodeRequired, Message: fmt.Sprintf("%s 不能为空", field)}
	}
	return nil
}

// ResolveScheduleInterval 优先使用用户输入的周期，没有输入时使用计划类型的默认值。
// 默认值不经过 1~99 的范围检查。
func ResolveScheduleInterval(scheduleType interval.ScheduleType, text string) (int, error) {
	if strings.TrimSpace(text) != "" {
		return interval.ParseDayCount(text)
	}
	if days, ok := interval.PresetIntervalForType(scheduleType); ok {
		return days, nil
	}
	return 0, &interval.ValidationError{Field: "interval", Code: interval.CodeRequired, Message: "自定义计划必须填写周期"}
}

// ValidateScheduleTaskDraft 返回任务自己的周期天数，没有填写时返回 0
func ValidateScheduleTaskDraft(i int, task domain.ScheduleTaskDraft) (int, error) {
	if err := required(fmt.Sprintf("scheduleTasks[%d].name", i), task.Name); err != nil {
		return 0, err
	}
	if strings.TrimSpace(task.Interval) == "" {
		return 0, nil
	}
	days, err := interval.ParseDayCount(task.Interval)
	if err != nil {
		if ve, ok := err.(*interval.ValidationError); ok {
			ve.Field = fmt.Sprintf("scheduleTasks[%d].interval", i)
		}
		return 0, err
	}
	return days, nil
}

// ValidateScheduleDraft 检查整个表单，返回计划的周期天数和每个任务的周期天数。
// 任意字段出错都会阻止提交，只返回第一个错误。
func ValidateScheduleDraft(d domain.ScheduleDraft, editing bool, originalStart, today time.Time) (int, []int, error) {
	if err := required("name", d.Name); err != nil {
		return 0, nil, err
	}
	if !editing && d.EquipmentID <= 0 {
		return 0, nil, &interval.ValidationError{Field: "equipmentId", Code: interval.CodeRequired, Message: "必须选择设备"}
	}
	if err := interval.ValidateStartDate(d.StartDate, editing, originalStart, today); err != nil {
		return 0, nil, err
	}
	if err := interval.ValidateEndDate(d.EndDate, d.StartDate); err != nil {
		return 0, nil, err
	}

	days, err := ResolveScheduleInterval(d.Type, d.Interval)
	if err != nil {
		return 0, nil, err
	}

	taskDays := make([]int, len(d.Tasks))
	for i, task := range d.Tasks {
		n, err := ValidateScheduleTaskDraft(i, task)
		if err != nil {
			return 0, nil, err
		}
		taskDays[i] = n
	}

	return days, taskDays, nil
}

func ValidateTaskDraft(d domain.TaskDraft) error {
	if err := required("name", d.Name); err != nil {
		return err
	}
	if d.EquipmentID <= 0 {
		return &interval.ValidationError{Field: "equipmentId", Code: interval.CodeRequired, Message: "必须选择设备"}
	}
	if d.DueDate.IsZero() {
		return &interval.ValidationError{Field: "dueDate", Code: interval.CodeRequired, Message: "到期日期不能为空"}
	}
	return nil
}

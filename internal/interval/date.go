package interval

import (
	"time"
)

const DateLayout = "2006-01-02"

// DateOf 去掉时分秒，只保留日历日期（统一放在 UTC 中，避免时区影响比较）
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate 解析 "2006-01-02" 格式的日期，空字符串返回零值
func ParseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		// 也接受带时间的 RFC3339 格式
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, newValidationError(field, CodeInvalidDate, "日期 %q 格式错误", s)
		}
	}
	return DateOf(t), nil
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return DateOf(t).Format(DateLayout)
}

// ProjectDueDate 在开始日期上按日历加上 days 天
func ProjectDueDate(start time.Time, days int) time.Time {
	return DateOf(start).AddDate(0, 0, days)
}

// ValidateStartDate 校验计划的开始日期。
// 新计划的开始日期不能早于今天；编辑已有计划时，如果原开始日期不晚于新的日期，则不做过去日期的限制。
func ValidateStartDate(candidate time.Time, editing bool, original, today time.Time) error {
	if candidate.IsZero() {
		return newValidationError("startDate", CodeRequired, "开始日期不能为空")
	}
	candidate = DateOf(candidate)

	if editing && !original.IsZero() && !DateOf(original).After(candidate) {
		return nil
	}

	if candidate.Before(DateOf(today)) {
		return newValidationError("startDate", CodeStartInPast, "开始日期不能早于今天")
	}
	return nil
}

// ValidateEndDate 结束日期可以为空；不为空时不能早于开始日期
func ValidateEndDate(candidateEnd, start time.Time) error {
	if candidateEnd.IsZero() {
		return nil
	}
	if DateOf(candidateEnd).Before(DateOf(start)) {
		return newValidationError("endDate", CodeEndBeforeStart, "结束日期不能早于开始日期")
	}
	return nil
}

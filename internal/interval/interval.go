// Package interval 负责维护计划的周期解析、到期日推算以及日期校验。
// 包内函数都是纯函数，不依赖任何外部状态。
package interval

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	MinDays = 1
	MaxDays = 99

	// 大于等于该值的输入会被直接截断为 MaxDays，而不是报错
	clampThreshold = 1000

	canonicalSuffix = ".00:00:00"
)

type ScheduleType string

const (
	ScheduleTypeDaily   ScheduleType = "Daily"
	ScheduleTypeWeekly  ScheduleType = "Weekly"
	ScheduleTypeMonthly ScheduleType = "Monthly"
	ScheduleTypeYearly  ScheduleType = "Yearly"
	ScheduleTypeCustom  ScheduleType = "Custom"
)

var presets = map[ScheduleType]int{
	ScheduleTypeDaily:   1,
	ScheduleTypeWeekly:  7,
	ScheduleTypeMonthly: 30,
	ScheduleTypeYearly:  365,
}

// PresetIntervalForType 返回计划类型对应的默认天数。
// Custom 以及未知类型没有默认值，ok 为 false，由调用方自行提供。
func PresetIntervalForType(scheduleType ScheduleType) (days int, ok bool) {
	days, ok = presets[scheduleType]
	return days, ok
}

// Presets 返回所有带默认天数的计划类型
func Presets() map[ScheduleType]int {
	out := make(map[ScheduleType]int, len(presets))
	for k, v := range presets {
		out[k] = v
	}
	return out
}

// ParseDayCount 从自由文本中提取天数。
// 支持 "7"、"7 days"、"7.00:00:00" 等形式，取第一段连续数字。
func ParseDayCount(text string) (int, error) {
	start := strings.IndexFunc(text, isDigit)
	if start < 0 {
		return 0, newValidationError("interval", CodeInvalidFormat, "周期 %q 中没有数字", text)
	}
	end := start
	for end < len(text) && isDigit(rune(text[end])) {
		end++
	}
	negative := start > 0 && text[start-1] == '-'

	n, err := strconv.Atoi(text[start:end])
	if err != nil {
		var numErr *strconv.NumError
		if !errors.As(err, &numErr) || !errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, newValidationError("interval", CodeInvalidFormat, "无法解析周期 %q", text)
		}
		// 数字太长导致溢出，等同于一个非常大的值
		n = clampThreshold
	}
	if negative {
		n = -n
	}

	if n >= clampThreshold {
		n = MaxDays
	}

	switch {
	case n > MaxDays:
		return 0, newValidationError("interval", CodeOutOfRangeHigh, "周期不能超过 %d 天", MaxDays)
	case n < MinDays:
		return 0, newValidationError("interval", CodeOutOfRangeLow, "周期不能少于 %d 天", MinDays)
	}

	return n, nil
}

// ToCanonicalInterval 生成远端持久化使用的周期格式
func ToCanonicalInterval(days int) string {
	return strconv.Itoa(days) + canonicalSuffix
}

// FromCanonicalInterval 取第一个 "." 之前的部分作为天数
func FromCanonicalInterval(s string) (int, error) {
	head, _, _ := strings.Cut(s, ".")
	days, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0, fmt.Errorf("无效的周期 %q: %w", s, err)
	}
	return days, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

package handler

import (
	"net/http"
	"sort"
	"time"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/interval"
)

type preset struct {
	Type      interval.ScheduleType `json:"type"`
	Days      int                   `json:"days"`
	Canonical string                `json:"canonical"`
}

func presetList() []preset {
	out := []preset{}
	for t, days := range interval.Presets() {
		out = append(out, preset{Type: t, Days: days, Canonical: interval.ToCanonicalInterval(days)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Days < out[j].Days })
	return out
}

func (h *Handler) GetIntervalPresets(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "获取预设周期成功", presetList())
}

func (h *Handler) ParseInterval(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	days, err := interval.ParseDayCount(req.Text)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	h.successResponse(w, r, "解析成功", map[string]any{
		"days":      days,
		"canonical": interval.ToCanonicalInterval(days),
	})
}

func (h *Handler) ProjectDueDate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate string `json:"startDate" validate:"required"`
		Days      int    `json:"days" validate:"gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	start, err := interval.ParseDate("startDate", req.StartDate)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	h.successResponse(w, r, "计算成功", map[string]any{
		"dueDate": interval.FormatDate(interval.ProjectDueDate(start, req.Days)),
	})
}

// ValidateScheduleDates 让前端在提交前检查开始和结束日期
func (h *Handler) ValidateScheduleDates(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate         string `json:"startDate"`
		EndDate           string `json:"endDate"`
		Editing           bool   `json:"editing"`
		OriginalStartDate string `json:"originalStartDate"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	dates := make([]time.Time, 0, 3)
	for _, f := range []struct{ field, value string }{
		{"startDate", req.StartDate},
		{"endDate", req.EndDate},
		{"originalStartDate", req.OriginalStartDate},
	} {
		d, err := interval.ParseDate(f.field, f.value)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		dates = append(dates, d)
	}

	if err := interval.ValidateStartDate(dates[0], req.Editing, dates[2], time.Now()); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := interval.ValidateEndDate(dates[1], dates[0]); err != nil {
		h.badRequest(w, r, err)
		return
	}

	h.successResponse(w, r, "校验通过", nil)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/store"
)

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "ok", nil)
}

// GetClientConfig 返回前端需要的配置，地图密钥原样交给前端使用
func (h *Handler) GetClientConfig(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "获取配置成功", map[string]any{
		"mapsApiKey": h.config.Maps.APIKey,
		"presets":    presetList(),
	})
}

func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	st := currentState(r)
	h.successResponse(w, r, "获取状态成功", map[string]any{
		"state": st,
		"views": store.ComputeViews(st),
	})
}

func (h *Handler) ClearCollection(w http.ResponseWriter, r *http.Request) {
	resource := store.Resource(chi.URLParam(r, "resource"))
	if err := service(r).ClearCollection(r.Context(), resource); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponse(w, r, "已清空", nil)
}

func (h *Handler) GetJournal(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		h.errorResponse(w, r, "未启用操作日志")
		return
	}

	limit := h.config.Journal.PageSize
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			h.errorResponse(w, r, "limit 参数无效")
			return
		}
		limit = min(n, h.config.Journal.PageSize)
	}

	entries, err := h.journal.GetRecentJournal(r.URL.Query().Get("session"), limit)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取操作日志成功", entries)
}

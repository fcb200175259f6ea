package handler

import "net/http"

func (h *Handler) GetMyTechnicianInfo(w http.ResponseWriter, r *http.Request) {
	tech, err := service(r).FetchCurrentTechnician(r.Context())
	if err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取个人信息成功", tech)
}

func (h *Handler) GetMyTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := service(r).FetchMyTasks(r.Context())
	if err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取我的任务成功", tasks)
}

package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/api"
)

type technicianRequest struct {
	FullName  string `json:"fullName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Specialty string `json:"specialty"`
}

func (req technicianRequest) toAPI() api.TechnicianRequest {
	return api.TechnicianRequest{
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		Specialty: req.Specialty,
	}
}

func (h *Handler) GetAllTechnicians(w http.ResponseWriter, r *http.Request) {
	svc := service(r)
	items, err := svc.FetchTechnicians(r.Context())
	h.loadResponse(w, r, "获取技术员列表成功", items, err, func() any { return svc.State().Technicians.Items })
}

func (h *Handler) GetTechnicianOptions(w http.ResponseWriter, r *http.Request) {
	options, err := service(r).FetchTechnicianOptions(r.Context())
	if err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取技术员选项成功", options)
}

func (h *Handler) CreateTechnician(w http.ResponseWriter, r *http.Request) {
	var req technicianRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	tech, err := service(r).CreateTechnician(r.Context(), req.toAPI())
	if err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "技术员创建成功", tech)
}

func (h *Handler) UpdateTechnician(w http.ResponseWriter, r *http.Request) {
	var req technicianRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	tech, err := service(r).UpdateTechnician(r.Context(), contextID(r, TechnicianIDCtx), req.toAPI())
	if err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新技术员信息成功", tech)
}

func (h *Handler) DeleteTechnician(w http.ResponseWriter, r *http.Request) {
	if err := service(r).DeleteTechnician(r.Context(), contextID(r, TechnicianIDCtx)); err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除技术员成功", nil)
}

package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/api"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/store"
)

type workshopRequest struct {
	Name      string   `json:"name" validate:"required"`
	Location  string   `json:"location"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

func (req workshopRequest) toDomain() domain.Workshop {
	return domain.Workshop{
		Name:      req.Name,
		Location:  req.Location,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
}

func (h *Handler) GetAllEquipment(w http.ResponseWriter, r *http.Request) {
	svc := service(r)
	items, err := svc.FetchEquipment(r.Context())
	h.loadResponse(w, r, "获取设备列表成功", items, err, func() any { return svc.State().Equipment.Items })
}

func (h *Handler) GetArchivedEquipment(w http.ResponseWriter, r *http.Request) {
	items, err := service(r).FetchArchivedEquipment(r.Context())
	if err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取已归档设备成功", items)
}

func (h *Handler) SearchEquipment(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		h.errorResponse(w, r, "name 参数不能为空")
		return
	}

	items, err := service(r).SearchEquipment(r.Context(), name)
	if err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "搜索设备成功", items)
}

// LookupEquipment 根据扫码得到的设备码查询设备
func (h *Handler) LookupEquipment(w http.ResponseWriter, r *http.Request) {
	eq, err := service(r).LookupEquipment(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取设备成功", eq)
}

func (h *Handler) GetEquipment(w http.ResponseWriter, r *http.Request) {
	eq, err := service(r).FetchEquipmentByID(r.Context(), contextID(r, EquipmentIDCtx))
	if err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取设备成功", eq)
}

func (h *Handler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string           `json:"name" validate:"required"`
		Type         string           `json:"type"`
		Location     string           `json:"location"`
		SerialNumber string           `json:"serialNumber"`
		Model        string           `json:"model"`
		Workshop     *workshopRequest `json:"workShop" validate:"omitempty"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	create := api.CreateEquipmentRequest{
		Name:         req.Name,
		Type:         req.Type,
		Location:     req.Location,
		SerialNumber: req.SerialNumber,
		Model:        req.Model,
	}
	if req.Workshop != nil {
		create.Workshop = req.Workshop.toDomain()
	}

	eq, err := service(r).CreateEquipment(r.Context(), create)
	if err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "设备创建成功", eq)
}

func (h *Handler) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         *string `json:"name" validate:"omitempty,min=1"`
		Location     *string `json:"location"`
		SerialNumber *string `json:"serialNumber"`
		Model        *string `json:"model"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	svc := service(r)
	id := contextID(r, EquipmentIDCtx)

	// 只修改请求中出现的字段，其余字段沿用当前数据
	eq, ok := store.FindEquipment(svc.State(), id)
	if !ok {
		var err error
		eq, err = svc.FetchEquipmentByID(r.Context(), id)
		if err != nil {
			h.operationError(w, r, err)
			return
		}
	}

	if req.Name != nil {
		eq.Name = *req.Name
	}
	if req.Location != nil {
		eq.Location = *req.Location
	}
	if req.SerialNumber != nil {
		eq.SerialNumber = *req.SerialNumber
	}
	if req.Model != nil {
		eq.Model = *req.Model
	}

	updated, err := svc.UpdateEquipment(r.Context(), eq)
	if err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新设备成功", updated)
}

func (h *Handler) DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	if err := service(r).DeleteEquipment(r.Context(), contextID(r, EquipmentIDCtx)); err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除设备成功", nil)
}

func (h *Handler) ArchiveEquipment(w http.ResponseWriter, r *http.Request) {
	eq, err := service(r).ArchiveEquipment(r.Context(), contextID(r, EquipmentIDCtx))
	if err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "设备已归档", eq)
}

func (h *Handler) UnarchiveEquipment(w http.ResponseWriter, r *http.Request) {
	eq, err := service(r).UnarchiveEquipment(r.Context(), contextID(r, EquipmentIDCtx))
	if err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "设备已取消归档", eq)
}

func (h *Handler) AssignEquipmentType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string `json:"type" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := service(r).AssignEquipmentType(r.Context(), contextID(r, EquipmentIDCtx), req.Type); err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "设备类型已更新", nil)
}

func (h *Handler) AssignEquipmentWorkshop(w http.ResponseWriter, r *http.Request) {
	var req workshopRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	ws, err := service(r).AssignEquipmentWorkshop(r.Context(), contextID(r, EquipmentIDCtx), req.toDomain())
	if err != nil {
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, "设备车间已更新", ws)
}

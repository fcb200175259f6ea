package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/interval"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/operation"
)

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("服务器内部错误", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
		http.Error(w, "服务器内部错误", http.StatusInternalServerError)
	}
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, msg string) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: false,
		Message: msg,
		Data:    nil,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErr *interval.ValidationError
	if errors.As(err, &fieldErr) {
		// 表单校验错误把字段和错误码一并返回，方便前端定位
		h.writeJSON(w, r, http.StatusOK, Response{
			Success: false,
			Message: fieldErr.Message,
			Data:    fieldErr,
		})
		return
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.errorResponse(w, r, validationErrors[0].Translate(h.translator))
}

// operationError 把操作层返回的错误转换成响应
func (h *Handler) operationError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErr *interval.ValidationError
	var opErr *operation.OperationError
	switch {
	case errors.As(err, &fieldErr):
		h.badRequest(w, r, err)
	case errors.As(err, &opErr):
		h.errorResponse(w, r, opErr.Message)
	case errors.Is(err, operation.ErrScheduleNotLoaded),
		errors.Is(err, operation.ErrNoCurrentTech),
		errors.Is(err, operation.ErrInvalidRole),
		errors.Is(err, operation.ErrScheduleTasksInUpdate):
		h.errorResponse(w, r, err.Error())
	default:
		h.internalServerError(w, r, err)
	}
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, Response{
		Success: false,
		Message: "服务器内部错误",
		Data:    nil,
	})
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

// loadResponse 用于加载整个集合的接口；集合已加载时直接返回当前数据，不视为错误
func (h *Handler) loadResponse(w http.ResponseWriter, r *http.Request, msg string, data any, err error, current func() any) {
	if err != nil {
		if operation.IsBenign(err) {
			h.successResponse(w, r, "数据已加载", current())
			return
		}
		h.operationError(w, r, err)
		return
	}

	h.successResponse(w, r, msg, data)
}

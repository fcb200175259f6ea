package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/operation"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/store"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w, StatusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("已处理请求", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // 这里如果用 slog 的话会很乱
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := h.tokenFromRequest(r)
		if !ok {
			h.errorResponse(w, r, "用户未登录")
			return
		}

		// 令牌由远端接口签发，这里只验证签名并读取角色
		claims, err := h.parseToken(tokenString)
		if err != nil {
			h.errorResponse(w, r, "无效的令牌")
			return
		}

		// 将 claims 中的 role 和 sub 以及原始令牌附在 context 中
		ctx := r.Context()
		ctx = context.WithValue(ctx, RoleCtxKey, claims.Role)
		ctx = context.WithValue(ctx, SubCtxKey, claims.Subject)
		ctx = context.WithValue(ctx, TokenCtxKey, tokenString)
		ctx = context.WithValue(ctx, SessionCtxKey, claims.sessionID())

		// 执行下一个 handler
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// operations 为当前会话创建操作服务，服务使用会话自己的 store 和调用者的令牌
func (h *Handler) operations(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Context().Value(TokenCtxKey).(string)
		sessionID := r.Context().Value(SessionCtxKey).(string)

		opts := []operation.Option{}
		if h.journal != nil {
			opts = append(opts, operation.WithJournal(h.journal, sessionID))
		}
		if h.notifier != nil {
			opts = append(opts, operation.WithNotifier(h.notifier))
		}

		st := h.sessions.Get(r.Context(), sessionID)
		svc := operation.New(h.remote(token), st, opts...)

		ctx := context.WithValue(r.Context(), ServiceCtx, svc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) RequiredRole(roles []domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleCtx := r.Context().Value(RoleCtxKey).(string)
			role := domain.Role(roleCtx)
			if !slices.Contains(roles, role) {
				h.errorResponse(w, r, "权限不足")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// pathID 解析路径中的数字 ID 并放入 context
func (h *Handler) pathID(param string, key ContextKey) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
			if err != nil || id <= 0 {
				h.errorResponse(w, r, "ID无效")
				return
			}

			ctx := context.WithValue(r.Context(), key, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func service(r *http.Request) *operation.Service {
	return r.Context().Value(ServiceCtx).(*operation.Service)
}

func contextID(r *http.Request, key ContextKey) int64 {
	return r.Context().Value(key).(int64)
}

func contextRole(r *http.Request) domain.Role {
	return domain.Role(r.Context().Value(RoleCtxKey).(string))
}

func currentState(r *http.Request) store.State {
	return service(r).State()
}

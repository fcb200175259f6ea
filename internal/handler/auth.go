package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims 是远端接口签发的令牌中的字段
type AuthClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// sessionID 同一个令牌对应同一个会话；令牌没有 jti 时按用户区分
func (c *AuthClaims) sessionID() string {
	if c.ID != "" {
		return c.Subject + ":" + c.ID
	}
	return c.Subject
}

// tokenFromRequest 优先读取 cookie，其次读取 Authorization 头
func (h *Handler) tokenFromRequest(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(h.config.JWT.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func (h *Handler) parseToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(h.config.JWT.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("令牌中缺少用户信息")
	}
	return claims, nil
}

// Logout 丢弃当前会话的 store 和快照，令牌本身由远端接口管理
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Context().Value(SessionCtxKey).(string)
	if err := h.sessions.Remove(r.Context(), sessionID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 清除 cookie
	http.SetCookie(w, &http.Cookie{
		Name:     h.config.JWT.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	h.successResponse(w, r, "已退出登录", nil)
}

// Package session 为每个登录会话维护一个独立的 store，并把状态快照保存到缓存中，
// 服务重启或会话被清理后第一次访问时恢复。
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/store"
)

type Option func(*Registry)

func WithCache(cache SnapshotCache, timeout time.Duration) Option {
	return func(r *Registry) {
		r.cache = cache
		r.timeout = timeout
	}
}

func WithStrictOrdering(strict bool) Option {
	return func(r *Registry) {
		r.strict = strict
	}
}

// WithIdleTimeout 超过该时间没有访问的会话会在清理时从内存中移除，为 0 时不清理
func WithIdleTimeout(idle time.Duration) Option {
	return func(r *Registry) {
		r.idleTimeout = idle
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

type entry struct {
	store      *store.Store
	lastAccess time.Time

	// saveMu 保证同一会话的快照按顺序写入
	saveMu sync.Mutex
	closed bool
}

type Registry struct {
	mu          sync.Mutex
	sessions    map[string]*entry
	cache       SnapshotCache
	timeout     time.Duration
	strict      bool
	idleTimeout time.Duration
	now         func() time.Time
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		sessions: make(map[string]*entry),
		timeout:  5 * time.Second,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get 返回会话对应的 store，不存在时尝试从快照恢复，恢复失败则从空状态开始
func (r *Registry) Get(ctx context.Context, sessionID string) *store.Store {
	if st, ok := r.lookup(sessionID); ok {
		return st
	}

	// 读取快照时不持有锁，其他会话不必等待缓存
	snapshot := r.restore(ctx, sessionID)

	r.mu.Lock()
	defer r.mu.Unlock()

	// 读取快照期间可能已经有同一会话的请求创建了 store
	if e, ok := r.sessions[sessionID]; ok {
		e.lastAccess = r.now()
		return e.store
	}

	e := r.newEntry(sessionID, snapshot)
	r.sessions[sessionID] = e
	return e.store
}

func (r *Registry) lookup(sessionID string) (*store.Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[sessionID]
	if !ok {
		return nil, false
	}
	e.lastAccess = r.now()
	return e.store, true
}

func (r *Registry) newEntry(sessionID string, snapshot *store.State) *entry {
	opts := []store.Option{store.WithStrictOrdering(r.strict)}
	if snapshot != nil {
		opts = append(opts, store.WithState(*snapshot))
	}

	e := &entry{
		store:      store.New(opts...),
		lastAccess: r.now(),
	}
	if r.cache != nil {
		e.store.Subscribe(func(ev store.Event, _ store.State) {
			if ev.Phase != store.Succeeded {
				return
			}
			r.save(sessionID, e)
		})
	}
	return e
}

// Remove 丢弃会话的 store 和快照，通常在退出登录时调用
func (r *Registry) Remove(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	e, ok := r.sessions[sessionID]
	delete(r.sessions, sessionID)
	r.mu.Unlock()

	if ok {
		// 等待正在进行的写入结束，之后的写入都会被跳过，避免快照在删除后重新出现
		e.saveMu.Lock()
		e.closed = true
		e.saveMu.Unlock()
	}

	if r.cache == nil {
		return nil
	}
	return r.cache.Delete(ctx, sessionID)
}

// Sweep 从内存中移除空闲的会话并返回移除的数量。快照仍留在缓存中，下次访问时恢复
func (r *Registry) Sweep() int {
	if r.idleTimeout <= 0 {
		return 0
	}

	deadline := r.now().Add(-r.idleTimeout)

	r.mu.Lock()
	defer r.mu.Unlock()

	cnt := 0
	for id, e := range r.sessions {
		if e.lastAccess.Before(deadline) {
			delete(r.sessions, id)
			cnt++
		}
	}
	return cnt
}

// Cleanup 每隔 interval 清理一次空闲会话，直到 ctx 结束
func (r *Registry) Cleanup(ctx context.Context, interval time.Duration) {
	if r.idleTimeout <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if cnt := r.Sweep(); cnt > 0 {
				slog.Info("已清理空闲会话", "count", cnt, "remaining", r.Len())
			}
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) restore(ctx context.Context, sessionID string) *store.State {
	if r.cache == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	snapshot, err := r.cache.Load(ctx, sessionID)
	if err != nil {
		slog.Warn("无法读取会话快照", "session", sessionID, "error", err)
		return nil
	}
	if snapshot == nil {
		return nil
	}

	// 加载标记只在请求进行中有意义，恢复时清除
	snapshot.Equipment.Loading = false
	snapshot.Schedules.Loading = false
	snapshot.Tasks.Loading = false
	snapshot.Technicians.Loading = false
	return snapshot
}

// save 持有会话的写入锁后再读取 store 的最新状态，后写入的快照总是包含先前写入的变化
func (r *Registry) save(sessionID string, e *entry) {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()

	if e.closed {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.cache.Save(ctx, sessionID, e.store.State()); err != nil {
		slog.Warn("无法保存会话快照", "session", sessionID, "error", err)
	}
}

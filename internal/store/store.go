// Package store 保存当前会话中设备、维护计划、任务、技术员四类资源的副本，
// 并在远程操作完成后按固定规则合并结果。
package store

import "sync"

type Listener func(e Event, s State)

type Option func(*Store)

// WithStrictOrdering 开启后，同一 Key 上早于最新请求的响应会被丢弃；默认后到的响应覆盖先到的
func WithStrictOrdering(strict bool) Option {
	return func(s *Store) {
		s.strict = strict
	}
}

func WithState(state State) Option {
	return func(s *Store) {
		s.state = state
	}
}

type Store struct {
	mu        sync.Mutex
	state     State
	strict    bool
	seq       uint64
	latest    map[string]uint64
	listeners []Listener
}

func New(opts ...Option) *Store {
	s := &Store{
		latest: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin 为一次请求分配单调递增的序号
func (s *Store) Begin(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	if key != "" {
		s.latest[key] = s.seq
	}
	return s.seq
}

func (s *Store) Dispatch(e Event) State {
	s.mu.Lock()
	if s.stale(e) {
		st := s.state
		s.mu.Unlock()
		return st
	}
	s.state = Reduce(s.state, e)
	st := s.state
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l(e, st)
	}
	return st
}

func (s *Store) stale(e Event) bool {
	if !s.strict || e.Phase == Requested || e.Key == "" || e.Seq == 0 {
		return false
	}
	return e.Seq < s.latest[e.Key]
}

// State 返回当前状态的快照，调用方不应修改其中的切片
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

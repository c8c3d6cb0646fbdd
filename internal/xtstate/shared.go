package xtstate

import "sync"

// Shared 对单个 State 的互斥封装，允许多协程共享同一实例。
// 每次调用整体持锁，setup 与 update 跨协程完全串行化。
// 不提供"等待激活"原语，需要等待的调用方应自行轮询或在外部同步。
type Shared struct {
	mu sync.Mutex
	st *State
}

func NewShared(opts ...Option) *Shared {
	return &Shared{st: New(opts...)}
}

func (s *Shared) SetupSlots(slots []string, force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.SetupSlots(slots, force)
}

func (s *Shared) UpdateCallback(identifier string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.UpdateCallback(identifier, value)
}

// Activated 持锁读取，保证观察到的是某次完整 update 之后的值
func (s *Shared) Activated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Activated()
}

func (s *Shared) IsSetup() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.IsSetup()
}

func (s *Shared) Slots() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Slots()
}

func (s *Shared) History() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.History()
}

package xtstate

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrAlreadySetup      = errors.New("xtstate is already set up, use force to override")
	ErrNotSetup          = errors.New("xtstate is not set up, call SetupSlots first")
	ErrUnknownIdentifier = errors.New("identifier is not defined in the slots")
	ErrNoSlotsDefined    = errors.New("no slots are defined, call SetupSlots with valid slots")
)

// HistoryEntry 单次槽位变更记录，Millis 为毫秒级 Unix 时间戳
type HistoryEntry struct {
	Identifier string `json:"identifier"`
	Value      bool   `json:"value"`
	Millis     int64  `json:"millis"`
}

// State 槽位注册与激活引擎。非并发安全，跨协程共享请使用 Shared
type State struct {
	slots     map[string]bool
	history   []HistoryEntry
	isSetup   bool
	activated bool

	observer Observer
	now      func() time.Time
}

type Option func(*State)

func New(opts ...Option) *State {
	s := &State{
		slots:    make(map[string]bool),
		observer: NopObserver(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func WithObserver(observer Observer) Option {
	return func(s *State) {
		if observer != nil {
			s.observer = observer
		}
	}
}

func WithNow(now func() time.Time) Option {
	return func(s *State) {
		if now != nil {
			s.now = now
		}
	}
}

// SetupSlots 注册槽位集合，全部初始化为 false。
// 已注册时需 force=true 才允许覆盖，且覆盖前会清空历史与激活状态。
// 空集合允许通过，但首次 Update 会因无槽位而失败（保留上游可观察行为）。
func (s *State) SetupSlots(slots []string, force bool) error {
	if s.isSetup && !force {
		s.observer.Record("setup", "already_setup")
		return ErrAlreadySetup
	}
	if s.isSetup && force {
		s.isSetup = false
		s.activated = false
		s.history = nil
		s.slots = make(map[string]bool)
	}
	for _, slot := range slots {
		s.slots[slot] = false
	}
	s.isSetup = true
	s.observer.Record("setup", "ok")
	return nil
}

// UpdateCallback 记录一次槽位变更并重新计算激活状态。
// 失败时不追加历史、不改动任何状态；成功时先追加历史条目再覆盖槽位值。
func (s *State) UpdateCallback(identifier string, value bool) error {
	if !s.isSetup {
		s.observer.Record("update", "not_setup")
		return ErrNotSetup
	}
	// 空集合 Setup 在此处才暴露失败，而不是在 Setup 时拒绝
	if len(s.slots) == 0 {
		s.observer.Record("update", "no_slots")
		return ErrNoSlotsDefined
	}
	if _, ok := s.slots[identifier]; !ok {
		s.observer.Record("update", "unknown_identifier")
		return fmt.Errorf("%w: %q", ErrUnknownIdentifier, identifier)
	}

	epoch := s.now().UnixMilli()
	s.history = append(s.history, HistoryEntry{Identifier: identifier, Value: value, Millis: epoch})
	s.slots[identifier] = value

	active := s.canActivate()
	if active && !s.activated {
		s.observer.Record("update", "activated")
	} else if !active && s.activated {
		s.observer.Record("update", "deactivated")
	} else {
		s.observer.Record("update", "ok")
	}
	s.activated = active
	return nil
}

// canActivate 全表扫描求逻辑与。槽位规模预期为十位数量级，O(n) 足够
func (s *State) canActivate() bool {
	for _, v := range s.slots {
		if !v {
			return false
		}
	}
	return true
}

// Activated 返回缓存的激活标志，不触发重算
func (s *State) Activated() bool {
	return s.activated
}

func (s *State) IsSetup() bool {
	return s.isSetup
}

// Slots 返回槽位表快照
func (s *State) Slots() map[string]bool {
	out := make(map[string]bool, len(s.slots))
	for k, v := range s.slots {
		out[k] = v
	}
	return out
}

// History 返回历史快照，按追加顺序排列
func (s *State) History() []HistoryEntry {
	out := make([]HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

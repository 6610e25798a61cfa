// Package clock provides the millisecond time sources used by the timer registry
// and its event loop. Production code uses System, tests drive a Manual clock.
package clock

import (
	"sync/atomic"
	"time"
)

// Clock 毫秒时间源
type Clock interface {
	NowMs() int64
}

// System 系统时钟, Offset 用于整体偏移时间(调试跨天等)
type System struct {
	offset atomic.Int64 // ns
}

func NewSystem() *System {
	return &System{}
}

// SetOffset 设置时间偏移量
func (s *System) SetOffset(d time.Duration) {
	s.offset.Store(int64(d))
}

// Offset 获取时间偏移量
func (s *System) Offset() time.Duration {
	return time.Duration(s.offset.Load())
}

func (s *System) Now() time.Time {
	now := time.Now()
	if off := s.offset.Load(); off != 0 {
		now = now.Add(time.Duration(off))
	}
	return now
}

func (s *System) NowMs() int64 {
	return s.Now().UnixMilli()
}

// Manual 手动推进的时钟, 只在测试和仿真中使用
type Manual struct {
	now atomic.Int64
}

func NewManual(startMs int64) *Manual {
	m := &Manual{}
	m.now.Store(startMs)
	return m
}

func (m *Manual) NowMs() int64 {
	return m.now.Load()
}

func (m *Manual) Set(ms int64) {
	m.now.Store(ms)
}

// Advance 推进时间并返回推进后的时间
func (m *Manual) Advance(ms int64) int64 {
	return m.now.Add(ms)
}

// Ms2Time ms时间戳转化为时间
func Ms2Time(ms int64) time.Time {
	return time.UnixMilli(ms)
}

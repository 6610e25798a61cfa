package main

import (
	"github.com/fixkme/cotimer/loop"
	"github.com/fixkme/cotimer/mlog"
	"github.com/fixkme/cotimer/timer"
)

// ready 启动后的第一次轮询触发一次
type ready struct {
	reg *timer.Registry
}

func (r *ready) OnTimer(id int64) {
	mlog.Infof("timer loop ready, %d timers armed", r.reg.Len())
}

func (r *ready) OnDestroy() {}

func (r *ready) String() string { return ownerRoot }

type heartbeat struct {
	name  string
	beats int64
}

func (h *heartbeat) OnTimer(id int64) {
	h.beats++
	mlog.Debugf("%s beat %d (timer %d)", h.name, h.beats, id)
}

func (h *heartbeat) OnDestroy() {
	mlog.Infof("%s stopped after %d beats", h.name, h.beats)
}

func (h *heartbeat) String() string { return h.name }

type statsReporter struct {
	name string
	loop *loop.Loop
}

func (s *statsReporter) OnTimer(int64) {
	st := s.loop.Stats()
	mlog.Infof("loop stats: timers=%d ticks=%d fired=%d", st.Timers, st.Ticks, st.Fired)
}

func (s *statsReporter) String() string { return s.name }

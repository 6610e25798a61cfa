package main

import (
	"context"
	"time"

	"github.com/fixkme/cotimer/admin"
	"github.com/fixkme/cotimer/clock"
	"github.com/fixkme/cotimer/framework/config"
	"github.com/fixkme/cotimer/loop"
	"github.com/fixkme/cotimer/mlog"
	"github.com/fixkme/cotimer/owner"
	"github.com/fixkme/cotimer/timer"
)

const ownerRoot = "daemon"

// timerModule 持有registry, loop协程是唯一访问registry的协程
type timerModule struct {
	conf        *config.AppConfig
	clk         *clock.System
	reg         *timer.Registry
	loop        *loop.Loop
	owners      *owner.Tree
	heartbeatMs int64
	statsMs     int64
}

func newTimerModule(conf *config.AppConfig, heartbeatMs, statsMs int64) *timerModule {
	m := &timerModule{
		conf:        conf,
		clk:         clock.NewSystem(),
		heartbeatMs: heartbeatMs,
		statsMs:     statsMs,
	}
	m.reg = timer.NewRegistry(m.clk, conf.TimerOptions()...)
	m.loop = loop.New(m.reg, m.clk, conf.LoopOptions())
	m.owners = owner.NewTree(m.reg)
	return m
}

func (m *timerModule) Name() string {
	return "timer"
}

// OnInit loop还没有运行, 可以直接访问registry
func (m *timerModule) OnInit() error {
	if err := m.owners.Attach(ownerRoot, &ready{reg: m.reg}); err != nil {
		return err
	}
	if _, err := m.reg.Schedule(mustLookup(m.owners, ownerRoot), 0); err != nil {
		return err
	}
	if m.heartbeatMs > 0 {
		hb := &heartbeat{name: ownerRoot + "/heartbeat"}
		if err := m.owners.Attach(hb.name, hb); err != nil {
			return err
		}
		if _, err := m.reg.Schedule(hb, m.heartbeatMs); err != nil {
			return err
		}
	}
	if m.statsMs > 0 {
		sr := &statsReporter{name: ownerRoot + "/stats", loop: m.loop}
		if err := m.owners.Attach(sr.name, sr); err != nil {
			return err
		}
		if _, err := m.reg.Schedule(sr, m.statsMs); err != nil {
			return err
		}
	}
	return nil
}

func (m *timerModule) Run(ctx context.Context) {
	if err := m.loop.Run(ctx); err != nil {
		mlog.Errorf("timer loop exit error: %v", err)
	}
	// loop已退出, 在这里销毁owner
	n, err := m.owners.Destroy(ownerRoot)
	if err != nil {
		mlog.Errorf("timer module destroy owners error: %v", err)
		return
	}
	mlog.Infof("timer module destroyed %d owners, %d timers left", n, m.reg.Len())
}

func (m *timerModule) Destroy() {}

type adminModule struct {
	conf *config.AppConfig
	srv  *admin.Server
}

func newAdminModule(conf *config.AppConfig, ex admin.Executor) *adminModule {
	m := &adminModule{conf: conf}
	if conf.AdminEnabled {
		m.srv = admin.NewServer(ex, admin.ServerOpt{Addr: conf.AdminAddr})
	}
	return m
}

func (m *adminModule) Name() string {
	return "admin"
}

func (m *adminModule) OnInit() error {
	if m.srv == nil {
		mlog.Info("admin server disabled")
	}
	return nil
}

func (m *adminModule) Run(ctx context.Context) {
	if m.srv == nil {
		<-ctx.Done()
		return
	}
	errCh := make(chan error, 1)
	go func() { errCh <- m.srv.Run() }()
	select {
	case err := <-errCh:
		if err != nil {
			mlog.Errorf("admin server exit error: %v", err)
		}
	case <-ctx.Done():
		stopCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := m.srv.Stop(stopCtx); err != nil {
			mlog.Warnf("admin server stop error: %v", err)
		}
		<-errCh
	}
}

func (m *adminModule) Destroy() {}

func mustLookup(t *owner.Tree, path string) timer.Owner {
	o, ok := t.Lookup(path)
	if !ok {
		panic("owner not attached: " + path)
	}
	return o
}

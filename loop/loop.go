// Package loop drives a timer.Registry from a single goroutine. It polls the
// registry once per tick and runs tasks submitted from other goroutines in
// between polls, so the registry itself never needs a lock.
package loop

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fixkme/cotimer/clock"
	"github.com/fixkme/cotimer/errs"
	"github.com/fixkme/cotimer/mlog"
	"github.com/fixkme/cotimer/timer"
)

const (
	DefaultTickInterval  = 20 * time.Millisecond
	DefaultTaskQueueSize = 1024

	minWait = time.Millisecond
)

var (
	ErrLoopClosed    = errs.LoopClosed
	ErrLoopBusy      = errs.LoopBusy
	ErrLoopReentered = errs.LoopReentered
)

type Options struct {
	TickInterval  time.Duration
	TaskQueueSize int
}

// Stats 可以在任意协程读取
type Stats struct {
	Ticks    int64 // 轮询次数
	Fired    int64 // 触发的周期定时器总数
	LastPoll int64 // 上次轮询时间 ms
	Timers   int64 // 当前定时器数量
}

type Loop struct {
	log    mlog.Logger
	reg    *timer.Registry
	clock  clock.Clock
	opts   Options
	taskch chan func()
	mutex  sync.RWMutex
	closed bool
	run    atomic.Bool
	gid    atomic.Int64 // loop协程id, 没有运行时为0

	ticks    atomic.Int64
	fired    atomic.Int64
	lastPoll atomic.Int64
	timers   atomic.Int64
}

func New(reg *timer.Registry, clk clock.Clock, opts Options) *Loop {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.TaskQueueSize <= 0 {
		opts.TaskQueueSize = DefaultTaskQueueSize
	}
	return &Loop{
		log:    mlog.Named("timer loop " + reg.Name()),
		reg:    reg,
		clock:  clk,
		opts:   opts,
		taskch: make(chan func(), opts.TaskQueueSize),
	}
}

// Registry 只能在loop协程(任务或Owner回调)里使用
func (l *Loop) Registry() *timer.Registry {
	return l.reg
}

func (l *Loop) Options() Options {
	return l.opts
}

// Poll 执行一次到期派发, Run内部每个tick调用一次
func (l *Loop) Poll() int {
	now := l.clock.NowMs()
	n := l.reg.ProcessDue(now)
	l.ticks.Add(1)
	l.fired.Add(int64(n))
	l.lastPoll.Store(now)
	l.timers.Store(int64(l.reg.Len()))
	return n
}

// Run 阻塞直到ctx结束, 结束前执行完已提交的任务.
// 最长每个TickInterval轮询一次, 最早的定时器更早到期时提前轮询
func (l *Loop) Run(ctx context.Context) error {
	if !l.run.CompareAndSwap(false, true) {
		return ErrLoopBusy.Printf("loop already running")
	}
	if l.isClosed() {
		return ErrLoopClosed
	}
	l.gid.Store(goid())
	defer l.gid.Store(0)
	defer l.onClose()

	wake := time.NewTimer(l.nextWait())
	defer wake.Stop()
	l.log.Infof("started, tick=%v", l.opts.TickInterval)
	for {
		select {
		case <-ctx.Done():
			l.log.Infof("stopping: %v", ctx.Err())
			return nil
		case <-wake.C:
			l.Poll()
		case fn := <-l.taskch:
			// 任务可能新增了更早到期的定时器
			l.exec(fn)
		}
		wake.Reset(l.nextWait())
	}
}

// nextWait 距离下次轮询的时间, 在 [minWait, TickInterval] 之间
func (l *Loop) nextWait() time.Duration {
	wait := l.opts.TickInterval
	deadline, ok := l.reg.Next()
	if !ok {
		return wait
	}
	if ms := deadline - l.clock.NowMs(); ms < wait.Milliseconds() {
		wait = time.Duration(ms) * time.Millisecond
	}
	return max(wait, minWait)
}

// Do 在loop协程执行f并等待完成.
// 在loop协程内(任务或Owner回调)调用返回ErrLoopReentered, 这时应该直接使用 Registry 或者 Post
func (l *Loop) Do(f func(r *timer.Registry)) error {
	return l.DoContext(context.Background(), f)
}

func (l *Loop) DoContext(ctx context.Context, f func(r *timer.Registry)) error {
	if l.inLoop() {
		return ErrLoopReentered.Printf("registry %s", l.reg.Name())
	}
	done := make(chan struct{})
	err := l.submit(func() {
		defer close(done)
		f(l.reg)
	})
	if err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Post 提交任务, 不等待
func (l *Loop) Post(f func(r *timer.Registry)) error {
	return l.submit(func() { f(l.reg) })
}

func (l *Loop) Stats() Stats {
	return Stats{
		Ticks:    l.ticks.Load(),
		Fired:    l.fired.Load(),
		LastPoll: l.lastPoll.Load(),
		Timers:   l.timers.Load(),
	}
}

func (l *Loop) submit(fn func()) error {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	if l.closed {
		return ErrLoopClosed
	}
	select {
	case l.taskch <- fn:
		return nil
	default:
		return ErrLoopBusy.Printf("task queue full, size=%d", l.opts.TaskQueueSize)
	}
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Errorf("task panic: %v\n%s", r, debug.Stack())
		}
		l.timers.Store(int64(l.reg.Len()))
	}()
	fn()
}

func (l *Loop) inLoop() bool {
	gid := l.gid.Load()
	return gid != 0 && gid == goid()
}

func (l *Loop) isClosed() bool {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.closed
}

func (l *Loop) onClose() {
	l.mutex.Lock()
	l.closed = true
	l.mutex.Unlock()
	for {
		select {
		case fn := <-l.taskch:
			l.exec(fn)
		default:
			l.log.Info("stopped")
			return
		}
	}
}

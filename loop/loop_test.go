package loop

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fixkme/cotimer/clock"
	"github.com/fixkme/cotimer/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	n atomic.Int64
}

func (c *counter) OnTimer(int64) { c.n.Add(1) }

func TestPoll(t *testing.T) {
	clk := clock.NewManual(0)
	reg := timer.NewRegistry(clk)
	l := New(reg, clk, Options{})
	assert.Equal(t, DefaultTickInterval, l.Options().TickInterval)

	c := &counter{}
	reg.Schedule(c, 10)
	assert.Equal(t, 0, l.Poll())
	clk.Advance(10)
	assert.Equal(t, 1, l.Poll())

	st := l.Stats()
	assert.Equal(t, int64(2), st.Ticks)
	assert.Equal(t, int64(1), st.Fired)
	assert.Equal(t, int64(10), st.LastPoll)
	assert.Equal(t, int64(1), st.Timers)
}

func TestRunDeliversAndStops(t *testing.T) {
	clk := clock.NewManual(0)
	l := New(timer.NewRegistry(clk), clk, Options{TickInterval: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- l.Run(ctx) }()

	c := &counter{}
	var id int64
	var err error
	require.NoError(t, l.Do(func(r *timer.Registry) {
		id, err = r.Schedule(c, 5)
	}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	clk.Advance(5)
	require.Eventually(t, func() bool { return c.n.Load() == 1 }, time.Second, time.Millisecond)

	var cancelled bool
	require.NoError(t, l.Do(func(r *timer.Registry) { cancelled = r.Cancel(id) }))
	assert.True(t, cancelled)
	require.Eventually(t, func() bool { return l.Stats().Timers == 0 }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-stopped:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
	assert.ErrorIs(t, l.Do(func(*timer.Registry) {}), ErrLoopClosed)
	assert.ErrorIs(t, l.Post(func(*timer.Registry) {}), ErrLoopClosed)
	assert.ErrorIs(t, l.Run(context.Background()), ErrLoopBusy)
}

func TestPendingTasksRunOnClose(t *testing.T) {
	clk := clock.NewManual(0)
	l := New(timer.NewRegistry(clk), clk, Options{TickInterval: time.Hour})
	var ran atomic.Int64
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Post(func(*timer.Registry) { ran.Add(1) }))
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, l.Run(ctx))
	assert.Equal(t, int64(3), ran.Load())
}

func TestTaskQueueFull(t *testing.T) {
	clk := clock.NewManual(0)
	l := New(timer.NewRegistry(clk), clk, Options{TaskQueueSize: 1})
	require.NoError(t, l.Post(func(*timer.Registry) {}))
	assert.ErrorIs(t, l.Post(func(*timer.Registry) {}), ErrLoopBusy)
}

func TestTaskPanicRecovered(t *testing.T) {
	clk := clock.NewManual(0)
	l := New(timer.NewRegistry(clk), clk, Options{TickInterval: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	assert.NoError(t, l.Do(func(*timer.Registry) { panic("boom") }))
	var ok bool
	require.NoError(t, l.Do(func(*timer.Registry) { ok = true }))
	assert.True(t, ok)
}

func TestDoContextTimeout(t *testing.T) {
	clk := clock.NewManual(0)
	l := New(timer.NewRegistry(clk), clk, Options{})
	// loop没有运行, 任务不会被执行
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.DoContext(ctx, func(*timer.Registry) {}), context.DeadlineExceeded)
}

type reentrant struct {
	l   *Loop
	err chan error
}

func (o *reentrant) OnTimer(int64) {
	select {
	case o.err <- o.l.Do(func(*timer.Registry) {}):
	default:
	}
}

func TestDoOnLoopGoroutine(t *testing.T) {
	clk := clock.NewManual(0)
	l := New(timer.NewRegistry(clk), clk, Options{TickInterval: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	// 任务里调用
	var inner error
	require.NoError(t, l.Do(func(*timer.Registry) {
		inner = l.Do(func(*timer.Registry) {})
	}))
	assert.ErrorIs(t, inner, ErrLoopReentered)

	// Owner回调里调用
	o := &reentrant{l: l, err: make(chan error, 1)}
	var err error
	require.NoError(t, l.Do(func(r *timer.Registry) { _, err = r.Schedule(o, 0) }))
	require.NoError(t, err)
	select {
	case err := <-o.err:
		assert.ErrorIs(t, err, ErrLoopReentered)
	case <-time.After(time.Second):
		t.Fatal("handler did not run")
	}

	// 其他协程调用正常
	assert.NoError(t, l.Do(func(*timer.Registry) {}))
}

func TestEarlyDeadlineShortensWait(t *testing.T) {
	clk := clock.NewSystem()
	l := New(timer.NewRegistry(clk), clk, Options{TickInterval: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	c := &counter{}
	var err error
	require.NoError(t, l.Do(func(r *timer.Registry) { _, err = r.Schedule(c, 20) }))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return c.n.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestNextWait(t *testing.T) {
	clk := clock.NewManual(1000)
	reg := timer.NewRegistry(clk)
	l := New(reg, clk, Options{TickInterval: 50 * time.Millisecond})
	assert.Equal(t, 50*time.Millisecond, l.nextWait())

	reg.Schedule(&counter{}, 30)
	assert.Equal(t, 30*time.Millisecond, l.nextWait())
	reg.Schedule(&counter{}, 500)
	assert.Equal(t, 30*time.Millisecond, l.nextWait())

	// 已经到期也至少等待minWait
	clk.Advance(40)
	assert.Equal(t, minWait, l.nextWait())
}

func TestGoid(t *testing.T) {
	self := goid()
	assert.Positive(t, self)
	other := make(chan int64)
	go func() { other <- goid() }()
	assert.NotEqual(t, self, <-other)
}

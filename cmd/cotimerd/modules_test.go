package main

import (
	"context"
	"testing"
	"time"

	"github.com/fixkme/cotimer/framework/config"
	"github.com/fixkme/cotimer/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerModuleLifecycle(t *testing.T) {
	conf := config.Default()
	conf.TickIntervalMs = 1
	m := newTimerModule(conf, 5, 0)
	require.NoError(t, m.OnInit())
	assert.Equal(t, 2, m.reg.Len())
	assert.Equal(t, 2, m.owners.Len())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	_, ok := mustLookup(m.owners, "daemon/heartbeat").(*heartbeat)
	require.True(t, ok)
	require.Eventually(t, func() bool {
		var n int
		if err := m.loop.Do(func(r *timer.Registry) { n = r.Len() }); err != nil {
			return false
		}
		// ready单次定时器触发后移除
		return n == 1
	}, time.Second, time.Millisecond)

	cancel()
	<-done
	assert.Zero(t, m.reg.Len())
	assert.Zero(t, m.owners.Len())
}

func TestAdminModuleDisabled(t *testing.T) {
	conf := config.Default()
	m := newAdminModule(conf, nil)
	require.NoError(t, m.OnInit())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m.Run(ctx)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("COTIMER_LOG_LEVEL", "debug")
	t.Setenv("COTIMER_ADMIN_ADDR", "127.0.0.1:7171")
	conf := config.Default()
	require.NoError(t, loadConfigFromEnv(conf))
	assert.Equal(t, "debug", conf.LogLevel)
	assert.True(t, conf.AdminEnabled)
	assert.Equal(t, "127.0.0.1:7171", conf.AdminAddr)
}

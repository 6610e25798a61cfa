package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fixkme/cotimer/errs"
	"github.com/fixkme/cotimer/mlog"
	"github.com/fixkme/cotimer/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefault(t *testing.T) {
	conf, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 20, conf.TickIntervalMs)
	assert.Equal(t, "reject", conf.Reentrancy)
	assert.Equal(t, "remove", conf.OneShot)
	assert.Equal(t, mlog.InfoLevel, conf.MlogLevel())
	assert.Equal(t, 20*time.Millisecond, conf.LoopOptions().TickInterval)
}

func TestLoadYaml(t *testing.T) {
	path := writeFile(t, "cotimerd.yaml", `
log_level: debug
tick_interval_ms: 5
reentrancy: defer
one_shot: repeat
max_timers: 64
registry_name: ui
admin_enabled: true
admin_addr: 127.0.0.1:9090
`)
	conf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, mlog.DebugLevel, conf.MlogLevel())
	assert.Equal(t, 5*time.Millisecond, conf.LoopOptions().TickInterval)
	assert.Equal(t, 1024, conf.TaskQueueSize)
	assert.Equal(t, 64, conf.MaxTimers)
	assert.True(t, conf.AdminEnabled)
	assert.Equal(t, "127.0.0.1:9090", conf.AdminAddr)
	assert.Len(t, conf.TimerOptions(), 4)
}

func TestLoadJson(t *testing.T) {
	path := writeFile(t, "cotimerd.json", `{"log_level":"warn","reentrancy":"defer","tick_interval_ms":50}`)
	conf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, mlog.WarnLevel, conf.MlogLevel())
	assert.Equal(t, 50, conf.TickIntervalMs)
	assert.Len(t, conf.TimerOptions(), 3)

	reg := timer.NewRegistry(nil, conf.TimerOptions()...)
	assert.NotEmpty(t, reg.Name())
}

func TestLoadInvalid(t *testing.T) {
	for name, content := range map[string]string{
		"bad_reentrancy.yaml": "reentrancy: queue\n",
		"bad_tick.yaml":       "tick_interval_ms: 0\n",
		"bad_level.json":      `{"log_level":"loud"}`,
		"bad_addr.yaml":       "admin_enabled: true\nadmin_addr: nowhere\n",
		"no_addr.yaml":        "admin_enabled: true\nadmin_addr: \"\"\n",
		"broken.json":         `{"log_level":`,
	} {
		_, err := Load(writeFile(t, name, content))
		assert.ErrorIs(t, err, errs.Config, name)
	}
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigFromEnv(t *testing.T) {
	defer func() { Config = nil }()
	err := LoadConfig("", func(c *AppConfig) error {
		c.OneShot = "repeat"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "repeat", Config.OneShot)

	err = LoadConfig("", func(c *AppConfig) error {
		c.OneShot = "twice"
		return nil
	})
	assert.ErrorIs(t, err, errs.Config)
}

func TestJsonFormat(t *testing.T) {
	var conf *AppConfig
	assert.Equal(t, "{}", conf.JsonFormat())
	assert.Contains(t, Default().JsonFormat(), `"tick_interval_ms": 20`)
}

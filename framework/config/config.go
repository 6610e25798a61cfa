package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fixkme/cotimer/errs"
	"github.com/fixkme/cotimer/loop"
	"github.com/fixkme/cotimer/mlog"
	"github.com/fixkme/cotimer/timer"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var Config *AppConfig

type AppConfig struct {
	AppVersion  string `json:"app_version" yaml:"app_version"`
	LogConfig   `json:",inline" yaml:",inline"`
	LoopConfig  `json:",inline" yaml:",inline"`
	TimerConfig `json:",inline" yaml:",inline"`
	AdminConfig `json:",inline" yaml:",inline"`
	IsDebug     bool `json:"is_debug" yaml:"is_debug"`
}

type LogConfig struct {
	LogPath   string `json:"log_path" yaml:"log_path"`
	LogName   string `json:"log_name" yaml:"log_name"`
	LogLevel  string `json:"log_level" yaml:"log_level" validate:"oneof=fatal error warn notice info debug trace"`
	LogStdOut bool   `json:"log_std_out" yaml:"log_std_out"` //文件日志同时输出到stderr
}

type LoopConfig struct {
	TickIntervalMs int `json:"tick_interval_ms" yaml:"tick_interval_ms" validate:"gte=1,lte=60000"` //轮询间隔 毫秒
	TaskQueueSize  int `json:"task_queue_size" yaml:"task_queue_size" validate:"gte=0"`
}

type TimerConfig struct {
	RegistryName string `json:"registry_name" yaml:"registry_name"`
	Reentrancy   string `json:"reentrancy" yaml:"reentrancy" validate:"oneof=reject defer"` //回调内增删定时器: 拒绝或延迟
	OneShot      string `json:"one_shot" yaml:"one_shot" validate:"oneof=remove repeat"`    //单次定时器触发后: 移除或保留
	MaxTimers    int    `json:"max_timers" yaml:"max_timers" validate:"gte=0"`               //0不限制
}

type AdminConfig struct {
	AdminEnabled bool   `json:"admin_enabled" yaml:"admin_enabled"`
	AdminAddr    string `json:"admin_addr" yaml:"admin_addr" validate:"omitempty,hostname_port"`
}

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
	})
	return validatorInst
}

// Default 默认配置
func Default() *AppConfig {
	return &AppConfig{
		LogConfig: LogConfig{
			LogName:  "cotimerd",
			LogLevel: "info",
		},
		LoopConfig: LoopConfig{
			TickIntervalMs: int(loop.DefaultTickInterval / time.Millisecond),
			TaskQueueSize:  loop.DefaultTaskQueueSize,
		},
		TimerConfig: TimerConfig{
			Reentrancy: timer.ReentrancyReject.String(),
			OneShot:    timer.OneShotRemove.String(),
		},
		AdminConfig: AdminConfig{
			AdminAddr: "127.0.0.1:7070",
		},
	}
}

// LoadConfig 加载到全局Config, configFile为空时只使用默认值和环境变量
func LoadConfig(configFile string, loadConfigFromEnv func(*AppConfig) error) error {
	conf, err := Load(configFile)
	if err != nil {
		return err
	}
	if loadConfigFromEnv != nil {
		if err = loadConfigFromEnv(conf); err != nil {
			return err
		}
		if err = conf.Validate(); err != nil {
			return err
		}
	}
	Config = conf
	return nil
}

// Load 读取json或yaml(按扩展名), 未配置的字段使用默认值
func Load(configFile string) (*AppConfig, error) {
	conf := Default()
	if len(configFile) > 0 {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(filepath.Ext(configFile)) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, conf)
		default:
			err = json.Unmarshal(data, conf)
		}
		if err != nil {
			return nil, errs.Config.Printf("parse %s: %v", configFile, err)
		}
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (conf *AppConfig) Validate() error {
	if err := getValidator().Struct(conf); err != nil {
		return errs.Config.Printf("%v", err)
	}
	if conf.AdminEnabled && conf.AdminAddr == "" {
		return errs.Config.Printf("admin_addr is required when admin_enabled")
	}
	return nil
}

func (conf *AppConfig) MlogLevel() mlog.Level {
	lv, _ := mlog.ParseLevel(conf.LogLevel)
	return lv
}

func (conf *AppConfig) TimerOptions() []timer.Option {
	reentrancy, _ := timer.ParseReentrancy(conf.Reentrancy)
	oneShot, _ := timer.ParseOneShot(conf.OneShot)
	opts := []timer.Option{
		timer.WithReentrancy(reentrancy),
		timer.WithOneShot(oneShot),
		timer.WithMaxTimers(conf.MaxTimers),
	}
	if conf.RegistryName != "" {
		opts = append(opts, timer.WithName(conf.RegistryName))
	}
	return opts
}

func (conf *AppConfig) LoopOptions() loop.Options {
	return loop.Options{
		TickInterval:  time.Duration(conf.TickIntervalMs) * time.Millisecond,
		TaskQueueSize: conf.TaskQueueSize,
	}
}

func (conf *AppConfig) JsonFormat() string {
	if conf == nil {
		return "{}"
	}
	data, err := json.MarshalIndent(conf, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}

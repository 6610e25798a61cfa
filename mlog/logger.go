package mlog

import (
	"context"
	"os"
	"sync"
)

type Logger interface {
	Trace(v ...any)
	Debug(v ...any)
	Info(v ...any)
	Notice(v ...any)
	Warn(v ...any)
	Error(v ...any)
	Fatal(v ...any)

	Tracef(format string, v ...any)
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Noticef(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
	Fatalf(format string, v ...any)
}

var logger Logger

// SetLogger 替换全局logger, nil表示关闭日志
func SetLogger(l Logger) {
	logger = l
}

func GetLogger() Logger {
	return logger
}

// UseStdLogger 输出到stderr
func UseStdLogger(level Level) {
	SetLogger(newStdLogger(level))
}

// UseFileLogger 输出到按大小滚动的文件, ctx结束时关闭文件
func UseFileLogger(ctx context.Context, wg *sync.WaitGroup, path string, logName string, level Level, stdOut bool) error {
	l, err := newFileLogger(path, logName, level, stdOut)
	if err != nil {
		return err
	}
	l.Start(ctx, wg)
	SetLogger(l)
	return nil
}

type Level uint32

const (
	FatalLevel Level = iota
	ErrorLevel
	WarnLevel
	NoticeLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

func ParseLevel(s string) (Level, bool) {
	switch s {
	case "fatal":
		return FatalLevel, true
	case "error":
		return ErrorLevel, true
	case "warn", "warning":
		return WarnLevel, true
	case "notice":
		return NoticeLevel, true
	case "info":
		return InfoLevel, true
	case "debug":
		return DebugLevel, true
	case "trace":
		return TraceLevel, true
	}
	return InfoLevel, false
}

type leveled interface {
	IsLevelEnabled(level Level) bool
}

// Enabled 是否输出level级别的日志, 没有设置logger时返回false.
// 定时器派发路径上先判断再准备参数
func Enabled(level Level) bool {
	l := logger
	if l == nil {
		return false
	}
	if lv, ok := l.(leveled); ok {
		return lv.IsLevelEnabled(level)
	}
	return true
}

func Trace(a ...any) {
	if Enabled(TraceLevel) {
		logger.Trace(a...)
	}
}

func Tracef(format string, a ...any) {
	if Enabled(TraceLevel) {
		logger.Tracef(format, a...)
	}
}

func Debug(a ...any) {
	if Enabled(DebugLevel) {
		logger.Debug(a...)
	}
}

func Debugf(format string, a ...any) {
	if Enabled(DebugLevel) {
		logger.Debugf(format, a...)
	}
}

func Info(a ...any) {
	if Enabled(InfoLevel) {
		logger.Info(a...)
	}
}

func Infof(format string, a ...any) {
	if Enabled(InfoLevel) {
		logger.Infof(format, a...)
	}
}

func Notice(a ...any) {
	if Enabled(NoticeLevel) {
		logger.Notice(a...)
	}
}

func Noticef(format string, a ...any) {
	if Enabled(NoticeLevel) {
		logger.Noticef(format, a...)
	}
}

func Warn(a ...any) {
	if Enabled(WarnLevel) {
		logger.Warn(a...)
	}
}

func Warnf(format string, a ...any) {
	if Enabled(WarnLevel) {
		logger.Warnf(format, a...)
	}
}

func Error(a ...any) {
	if Enabled(ErrorLevel) {
		logger.Error(a...)
	}
}

func Errorf(format string, a ...any) {
	if Enabled(ErrorLevel) {
		logger.Errorf(format, a...)
	}
}

// Fatal 没有logger时也退出进程
func Fatal(a ...any) {
	if logger == nil {
		os.Exit(1)
	}
	logger.Fatal(a...)
}

func Fatalf(format string, a ...any) {
	if logger == nil {
		os.Exit(1)
	}
	logger.Fatalf(format, a...)
}

package mlog

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 10
)

// logrusLogger 级别过滤由mlog.Level决定, logrus只负责格式化和输出
type logrusLogger struct {
	ll    *logrus.Logger
	level Level
	file  *lumberjack.Logger
}

// NewLogrusLogger 适配已有的logrus实例
func NewLogrusLogger(l *logrus.Logger, level Level) Logger {
	l.SetLevel(logrus.TraceLevel)
	return &logrusLogger{ll: l, level: level}
}

func newStdLogger(level Level) *logrusLogger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05.000000"})
	l.SetLevel(logrus.TraceLevel)
	return &logrusLogger{ll: l, level: level}
}

func newFileLogger(logpath, logName string, level Level, stdOut bool) (*logrusLogger, error) {
	// 默认使用当前路径
	if len(logpath) == 0 {
		logpath = "."
	}
	if err := os.MkdirAll(logpath, 0755); err != nil {
		return nil, err
	}
	if logName == "" {
		logName = "mlog"
	}
	file := &lumberjack.Logger{
		Filename:   filepath.Join(logpath, logName+".log"),
		MaxSize:    defaultMaxSizeMB,
		MaxBackups: defaultMaxBackups,
		LocalTime:  true,
	}
	var out io.Writer = file
	if stdOut {
		out = io.MultiWriter(file, os.Stderr)
	}
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true, TimestampFormat: "2006-01-02 15:04:05.000000"})
	l.SetLevel(logrus.TraceLevel)
	return &logrusLogger{ll: l, level: level, file: file}, nil
}

// Start ctx结束后关闭日志文件
func (me *logrusLogger) Start(ctx context.Context, wg *sync.WaitGroup) {
	if me.file == nil {
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		if err := me.file.Close(); err != nil {
			me.ll.SetOutput(os.Stderr)
			me.ll.Errorf("mlog close file error %v", err)
		}
	}()
}

func (me *logrusLogger) IsLevelEnabled(level Level) bool {
	return me.level >= level
}

func (me *logrusLogger) log(level Level, args ...any) {
	if me.IsLevelEnabled(level) {
		me.entry(level).Log(toLogrusLevel(level), args...)
	}
}

func (me *logrusLogger) logf(level Level, format string, args ...any) {
	if me.IsLevelEnabled(level) {
		me.entry(level).Logf(toLogrusLevel(level), format, args...)
	}
}

func (me *logrusLogger) entry(level Level) *logrus.Entry {
	e := logrus.NewEntry(me.ll)
	if level == NoticeLevel {
		e = e.WithField("notice", true)
	}
	return e
}

func (me *logrusLogger) Trace(v ...any) { me.log(TraceLevel, v...) }
func (me *logrusLogger) Tracef(format string, v ...any) { me.logf(TraceLevel, format, v...) }
func (me *logrusLogger) Debug(v ...any) { me.log(DebugLevel, v...) }
func (me *logrusLogger) Debugf(format string, v ...any) { me.logf(DebugLevel, format, v...) }
func (me *logrusLogger) Info(v ...any) { me.log(InfoLevel, v...) }
func (me *logrusLogger) Infof(format string, v ...any) { me.logf(InfoLevel, format, v...) }
func (me *logrusLogger) Notice(v ...any) { me.log(NoticeLevel, v...) }
func (me *logrusLogger) Noticef(format string, v ...any) {
	me.logf(NoticeLevel, format, v...)
}
func (me *logrusLogger) Warn(v ...any) { me.log(WarnLevel, v...) }
func (me *logrusLogger) Warnf(format string, v ...any) { me.logf(WarnLevel, format, v...) }
func (me *logrusLogger) Error(v ...any) { me.log(ErrorLevel, v...) }
func (me *logrusLogger) Errorf(format string, v ...any) { me.logf(ErrorLevel, format, v...) }

// Fatal 由logrus退出进程
func (me *logrusLogger) Fatal(v ...any) {
	me.ll.Fatal(v...)
}

func (me *logrusLogger) Fatalf(format string, v ...any) {
	me.ll.Fatalf(format, v...)
}

func toLogrusLevel(level Level) logrus.Level {
	switch level {
	case FatalLevel:
		return logrus.FatalLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case WarnLevel:
		return logrus.WarnLevel
	case NoticeLevel, InfoLevel:
		return logrus.InfoLevel
	case DebugLevel:
		return logrus.DebugLevel
	}
	return logrus.TraceLevel
}

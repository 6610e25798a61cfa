package mlog

// Named 返回给每条日志加前缀的Logger, 比如 "timer registry r1".
// 输出时使用当时的全局logger, 所以可以在 SetLogger 之前创建
func Named(prefix string) Logger {
	return &named{prefix: prefix + " "}
}

type named struct {
	prefix string
}

func (n *named) args(v []any) []any {
	return append([]any{n.prefix}, v...)
}

func (n *named) Trace(v ...any) { Trace(n.args(v)...) }
func (n *named) Tracef(format string, v ...any) { Tracef(n.prefix+format, v...) }
func (n *named) Debug(v ...any) { Debug(n.args(v)...) }
func (n *named) Debugf(format string, v ...any) { Debugf(n.prefix+format, v...) }
func (n *named) Info(v ...any) { Info(n.args(v)...) }
func (n *named) Infof(format string, v ...any) { Infof(n.prefix+format, v...) }
func (n *named) Notice(v ...any) { Notice(n.args(v)...) }
func (n *named) Noticef(format string, v ...any) { Noticef(n.prefix+format, v...) }
func (n *named) Warn(v ...any) { Warn(n.args(v)...) }
func (n *named) Warnf(format string, v ...any) { Warnf(n.prefix+format, v...) }
func (n *named) Error(v ...any) { Error(n.args(v)...) }
func (n *named) Errorf(format string, v ...any) { Errorf(n.prefix+format, v...) }
func (n *named) Fatal(v ...any) { Fatal(n.args(v)...) }
func (n *named) Fatalf(format string, v ...any) { Fatalf(n.prefix+format, v...) }

// IsLevelEnabled 跟随全局logger
func (n *named) IsLevelEnabled(level Level) bool {
	return Enabled(level)
}

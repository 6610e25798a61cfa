package timer

// Reentrancy 决定派发过程中(Owner回调内)的增删请求如何处理
type Reentrancy int8

const (
	ReentrancyReject Reentrancy = iota // 拒绝, Schedule返回ErrBusy, Cancel返回false
	ReentrancyDefer                    // 延迟到本轮派发结束后生效
)

func (r Reentrancy) String() string {
	switch r {
	case ReentrancyReject:
		return "reject"
	case ReentrancyDefer:
		return "defer"
	}
	return "unknown"
}

func ParseReentrancy(s string) (Reentrancy, bool) {
	switch s {
	case "", "reject":
		return ReentrancyReject, true
	case "defer":
		return ReentrancyDefer, true
	}
	return ReentrancyReject, false
}

// OneShotPolicy 周期为0的定时器触发后的处理方式
type OneShotPolicy int8

const (
	OneShotRemove OneShotPolicy = iota // 触发一次后自动移除
	OneShotRepeat                      // 保留, 每次ProcessDue都会触发, 直到Owner取消
)

func (p OneShotPolicy) String() string {
	switch p {
	case OneShotRemove:
		return "remove"
	case OneShotRepeat:
		return "repeat"
	}
	return "unknown"
}

func ParseOneShot(s string) (OneShotPolicy, bool) {
	switch s {
	case "", "remove":
		return OneShotRemove, true
	case "repeat":
		return OneShotRepeat, true
	}
	return OneShotRemove, false
}

type options struct {
	name       string
	reentrancy Reentrancy
	oneShot    OneShotPolicy
	maxTimers  int
}

type Option func(*options)

// WithName 日志中使用的名字, 默认是xid
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

func WithReentrancy(r Reentrancy) Option {
	return func(o *options) {
		o.reentrancy = r
	}
}

func WithOneShot(p OneShotPolicy) Option {
	return func(o *options) {
		o.oneShot = p
	}
}

// WithMaxTimers 最多同时存在的定时器数量, <=0 不限制
func WithMaxTimers(n int) Option {
	return func(o *options) {
		o.maxTimers = n
	}
}

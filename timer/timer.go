// Package timer implements a cooperative timer registry. Owners register
// periodic or one-shot timers with Schedule; the host event loop calls
// ProcessDue once per iteration and due timers are delivered to their owners
// synchronously, in deadline order.
//
// A Registry is not safe for concurrent use. Hosts with more than one
// goroutine should funnel all access through a single goroutine, see package
// loop.
package timer

import (
	"fmt"
	"math"
	"reflect"

	"github.com/fixkme/cotimer/errs"
)

var (
	ErrInvalidOwner  = errs.InvalidOwner
	ErrInvalidId     = errs.InvalidId
	ErrInvalidPeriod = errs.InvalidPeriod
	ErrBusy          = errs.Busy
	ErrFull          = errs.Full
	ErrNotFound      = errs.NotFound
)

// Owner 定时器的持有者, 到期时收到通知.
// Owner必须是可比较的非nil值(一般是指针), 销毁前要调用 CancelAllFor(self)
type Owner interface {
	OnTimer(id int64)
}

// Info 定时器快照
type Info struct {
	ID       int64
	Period   int64 // ms, 0表示单次
	Deadline int64 // 到期时间戳 ms
	Owner    Owner
}

// OwnerName 用于日志和查询展示
func (i Info) OwnerName() string {
	if s, ok := i.Owner.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", i.Owner)
}

type entry struct {
	id        int64
	period    int64 // ms
	deadline  int64 // 到期时间戳 ms
	owner     Owner
	cancelled bool
	prev      *entry // 双向链表
	next      *entry
}

func (e *entry) info() Info {
	return Info{ID: e.id, Period: e.period, Deadline: e.deadline, Owner: e.owner}
}

// ValidOwner owner必须是非nil的可比较值, 指针类型不能是nil指针
func ValidOwner(o Owner) bool {
	if o == nil {
		return false
	}
	v := reflect.ValueOf(o)
	if !v.Type().Comparable() {
		return false
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Chan, reflect.Interface:
		return !v.IsNil()
	}
	return true
}

// addMs 溢出时取MaxInt64, 永不到期
func addMs(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

package timer

import (
	"runtime/debug"

	"github.com/fixkme/cotimer/errs"
	"github.com/fixkme/cotimer/mlog"
)

// ProcessDue 派发所有 deadline<=now 的定时器, 返回触发的周期定时器数量(单次定时器不计数).
//
// 每个定时器每轮最多触发一次: 推进一个周期后仍然到期(主循环卡顿超过一个周期)时,
// 直接把下次到期时间设为 now+period, 不补发.
// 正在派发或修改时调用直接返回0.
func (r *Registry) ProcessDue(now int64) (count int) {
	if r.state != stateIdle {
		r.log.Debugf("process due skipped, state=%s", r.state)
		return 0
	}
	if r.list.IsEmpty() || r.list.Front().deadline > now {
		return 0
	}

	r.state = stateDispatching
	defer r.endDispatch()

	trace := mlog.Enabled(mlog.TraceLevel)
	due := r.list.DetachDue(now)
	for _, e := range due {
		if e.cancelled {
			continue
		}
		e.deadline = addMs(e.deadline, e.period)
		if e.deadline <= now {
			e.deadline = addMs(now, e.period)
		}
		if e.period > 0 {
			count++
		}
		oneShot := e.period == 0 && r.opts.oneShot == OneShotRemove
		if !oneShot {
			r.list.InsertSorted(e)
		}
		if trace {
			r.log.Tracef("fire id=%d owner=%T next=%d now=%d", e.id, e.owner, e.deadline, now)
		}
		r.deliver(e)
		if oneShot && !e.cancelled {
			r.release(e)
		}
	}
	return count
}

func (r *Registry) deliver(e *entry) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Errorf("handler panic, %v: %v\n%s", errs.Unknown.WithTimer(e.id).WithOwner(e.owner), rec, debug.Stack())
		}
	}()
	e.owner.OnTimer(e.id)
}

// endDispatch 回到idle, 应用派发期间延迟的修改
func (r *Registry) endDispatch() {
	r.state = stateMutating
	if r.dirty {
		r.list.RemoveIf(func(e *entry) bool { return e.cancelled })
		r.dirty = false
	}
	for _, e := range r.pending {
		if !e.cancelled {
			r.list.InsertSorted(e)
		}
	}
	clear(r.pending)
	r.pending = r.pending[:0]
	if len(r.byId) == 0 {
		r.list.Clear()
	}
	r.state = stateIdle
}

package timer

import (
	"github.com/fixkme/cotimer/clock"
	"github.com/fixkme/cotimer/mlog"
	"github.com/rs/xid"
)

type state int8

const (
	stateIdle state = iota
	stateMutating
	stateDispatching
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateMutating:
		return "mutating"
	case stateDispatching:
		return "dispatching"
	}
	return "unknown"
}

// Registry 按到期时间排序的定时器集合.
// 结构修改和派发互斥: 派发期间(Owner回调内)的修改按 Reentrancy 拒绝或延迟
type Registry struct {
	opts    options
	log     mlog.Logger
	clock   clock.Clock
	list    *entryList
	byId    map[int64]*entry
	ids     idPool
	state   state
	pending []*entry // 派发期间新增, 派发结束后插入
	dirty   bool     // 派发期间有取消, 派发结束后清理链表
}

func NewRegistry(clk clock.Clock, opts ...Option) *Registry {
	r := &Registry{
		clock: clk,
		list:  newEntryList(),
		byId:  make(map[int64]*entry),
	}
	for _, opt := range opts {
		opt(&r.opts)
	}
	if r.opts.name == "" {
		r.opts.name = xid.New().String()
	}
	r.log = mlog.Named("timer registry " + r.opts.name)
	r.log.Debugf("created, reentrancy=%s, one_shot=%s, max=%d", r.opts.reentrancy, r.opts.oneShot, r.opts.maxTimers)
	return r
}

func (r *Registry) Name() string {
	return r.opts.name
}

// Len 存活的定时器数量
func (r *Registry) Len() int {
	return len(r.byId)
}

// Dispatching 是否处于派发过程中
func (r *Registry) Dispatching() bool {
	return r.state == stateDispatching
}

// Schedule 注册一个定时器, 首次到期时间为 now+period.
// 返回当前未使用的最小正整数id, 失败时返回0
func (r *Registry) Schedule(owner Owner, period int64) (int64, error) {
	if !ValidOwner(owner) {
		return 0, ErrInvalidOwner.WithOwner(owner)
	}
	if period < 0 {
		return 0, ErrInvalidPeriod.Printf("period=%d", period).WithOwner(owner)
	}
	if !r.writable() {
		r.log.Debugf("schedule rejected, state=%s owner=%T", r.state, owner)
		return 0, ErrBusy.Printf("state=%s", r.state).WithOwner(owner)
	}
	if r.opts.maxTimers > 0 && len(r.byId) >= r.opts.maxTimers {
		return 0, ErrFull.Printf("max=%d", r.opts.maxTimers)
	}

	e := &entry{
		id:       r.ids.Get(),
		period:   period,
		deadline: addMs(r.clock.NowMs(), period),
		owner:    owner,
	}
	r.byId[e.id] = e
	if r.state == stateDispatching {
		r.pending = append(r.pending, e)
		return e.id, nil
	}

	r.state = stateMutating
	r.list.InsertSorted(e)
	r.state = stateIdle
	return e.id, nil
}

// Acquire 注册定时器并返回句柄, 句柄Release时取消
func (r *Registry) Acquire(owner Owner, period int64) (*Handle, error) {
	id, err := r.Schedule(owner, period)
	if err != nil {
		return nil, err
	}
	return &Handle{reg: r, e: r.byId[id]}, nil
}

// Cancel 取消定时器, id<=0或者不存在返回false
func (r *Registry) Cancel(id int64) bool {
	if id <= 0 {
		r.log.Debugf("cancel: %v", ErrInvalidId.WithTimer(id))
		return false
	}
	e, ok := r.byId[id]
	if !ok {
		return false
	}
	return r.cancelEntry(e)
}

// CancelAllFor 取消owner的所有定时器.
// 只有集合为空时返回false, 没有匹配项也返回true
func (r *Registry) CancelAllFor(owner Owner) bool {
	if len(r.byId) == 0 {
		return false
	}
	if !r.writable() {
		r.log.Debugf("cancel owner %T rejected, state=%s", owner, r.state)
		return false
	}
	if !ValidOwner(owner) {
		return true
	}
	var matched []*entry
	for _, e := range r.byId {
		if e.owner == owner {
			matched = append(matched, e)
		}
	}
	for _, e := range matched {
		r.cancelEntry(e)
	}
	return true
}

// CancelAll 清空所有定时器, 已经为空时返回false
func (r *Registry) CancelAll() bool {
	if len(r.byId) == 0 {
		return false
	}
	if !r.writable() {
		r.log.Debugf("cancel all rejected, state=%s", r.state)
		return false
	}
	if r.state == stateDispatching {
		for _, e := range r.byId {
			e.cancelled = true
		}
		clear(r.byId)
		r.ids.Reset()
		r.dirty = true
		return true
	}

	r.state = stateMutating
	r.list.Range(func(e *entry) bool {
		e.cancelled = true
		return true
	})
	r.list.Clear()
	r.byId = make(map[int64]*entry)
	r.ids.Reset()
	r.state = stateIdle
	return true
}

// Next 最早的到期时间
func (r *Registry) Next() (deadline int64, ok bool) {
	var front *entry
	r.list.Range(func(e *entry) bool {
		if e.cancelled {
			return true
		}
		front = e
		return false
	})
	if front == nil {
		return 0, false
	}
	return front.deadline, true
}

// Snapshot 按到期顺序复制所有定时器
func (r *Registry) Snapshot() []Info {
	infos := make([]Info, 0, len(r.byId))
	r.list.Range(func(e *entry) bool {
		if !e.cancelled {
			infos = append(infos, e.info())
		}
		return true
	})
	for _, e := range r.pending {
		if !e.cancelled {
			infos = append(infos, e.info())
		}
	}
	return infos
}

// Get 查询单个定时器
func (r *Registry) Get(id int64) (Info, bool) {
	e, ok := r.byId[id]
	if !ok {
		return Info{}, false
	}
	return e.info(), true
}

// Writable 当前是否允许增删定时器: 空闲时允许, 派发期间取决于 Reentrancy
func (r *Registry) Writable() bool {
	return r.writable()
}

func (r *Registry) writable() bool {
	switch r.state {
	case stateIdle:
		return true
	case stateDispatching:
		return r.opts.reentrancy == ReentrancyDefer
	}
	return false
}

func (r *Registry) cancelEntry(e *entry) bool {
	if e.cancelled || r.byId[e.id] != e {
		return false
	}
	if !r.writable() {
		r.log.Debugf("cancel %d rejected, state=%s", e.id, r.state)
		return false
	}
	r.release(e)
	if r.state == stateDispatching {
		// 可能在本轮的到期批次中, 派发结束后再从链表摘除
		r.dirty = true
		return true
	}
	r.state = stateMutating
	r.list.Remove(e)
	if len(r.byId) == 0 {
		r.list.Clear()
	}
	r.state = stateIdle
	return true
}

// release 回收id, 节点仍可能在链表中
func (r *Registry) release(e *entry) {
	e.cancelled = true
	delete(r.byId, e.id)
	if len(r.byId) == 0 {
		r.ids.Reset()
	} else {
		r.ids.Put(e.id)
	}
}

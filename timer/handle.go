package timer

// Handle 定时器句柄, Release 取消对应的定时器.
// 句柄绑定的是注册时的定时器本身, id被回收复用后 Release 不会误取消新的定时器
type Handle struct {
	reg      *Registry
	e        *entry
	released bool
}

func (h *Handle) ID() int64 {
	if h == nil || h.e == nil {
		return 0
	}
	return h.e.id
}

// Active 定时器是否仍然存在
func (h *Handle) Active() bool {
	return h != nil && !h.released && h.e != nil && !h.e.cancelled
}

// Release 取消定时器, 重复调用返回false
func (h *Handle) Release() bool {
	if !h.Active() {
		return false
	}
	if !h.reg.cancelEntry(h.e) {
		return false
	}
	h.released = true
	return true
}

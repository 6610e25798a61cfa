package timer

// entryList 按deadline升序的双向链表, root是哨兵
type entryList struct {
	root entry
	len  int
}

func newEntryList() *entryList {
	l := new(entryList)
	l.root.prev = &l.root
	l.root.next = &l.root
	return l
}

func (l *entryList) Len() int {
	return l.len
}

func (l *entryList) IsEmpty() bool {
	return l.root.next == &l.root
}

func (l *entryList) Front() *entry {
	if l.IsEmpty() {
		return nil
	}
	return l.root.next
}

// InsertSorted 有序插入, deadline相同的排在已有节点之后
func (l *entryList) InsertSorted(e *entry) {
	current := l.root.next
	for current != &l.root && current.deadline <= e.deadline {
		current = current.next
	}
	e.prev = current.prev
	e.next = current
	current.prev.next = e
	current.prev = e
	l.len++
}

// Remove 不在链表中的节点返回false
func (l *entryList) Remove(e *entry) bool {
	if e == &l.root || e.prev == nil || e.next == nil {
		return false
	}
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev = nil
	e.next = nil
	l.len--
	return true
}

// DetachDue 摘下所有 deadline<=now 的前缀节点, 按链表顺序返回
func (l *entryList) DetachDue(now int64) []*entry {
	var due []*entry
	for !l.IsEmpty() {
		e := l.root.next
		if e.deadline > now {
			break
		}
		l.Remove(e)
		due = append(due, e)
	}
	return due
}

// RemoveIf 删除所有满足条件的节点
func (l *entryList) RemoveIf(fn func(e *entry) bool) int {
	n := 0
	for e := l.root.next; e != &l.root; {
		next := e.next
		if fn(e) {
			l.Remove(e)
			n++
		}
		e = next
	}
	return n
}

// Range 遍历链表中的节点, fn不能修改链表
func (l *entryList) Range(fn func(e *entry) bool) {
	for e := l.root.next; e != &l.root; e = e.next {
		if !fn(e) {
			break
		}
	}
}

// Clear 快速清空, 节点交给gc回收
func (l *entryList) Clear() {
	l.root.prev = &l.root
	l.root.next = &l.root
	l.len = 0
}

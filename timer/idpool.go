package timer

import "container/heap"

// idPool 分配当前未使用的最小正整数.
// [1, high] 中未使用的id都在free里, 因此 min(free, high+1) 就是最小可用id
type idPool struct {
	free idHeap
	high int64
}

func (p *idPool) Get() int64 {
	if len(p.free) > 0 {
		return heap.Pop(&p.free).(int64)
	}
	p.high++
	return p.high
}

func (p *idPool) Put(id int64) {
	if id <= 0 || id > p.high {
		return
	}
	if id == p.high {
		p.high--
		p.trim()
		return
	}
	heap.Push(&p.free, id)
}

// trim 收缩high, 保证free中没有等于high的id
func (p *idPool) trim() {
	for len(p.free) > 0 && p.contains(p.high) {
		p.remove(p.high)
		p.high--
	}
}

func (p *idPool) contains(id int64) bool {
	for _, v := range p.free {
		if v == id {
			return true
		}
	}
	return false
}

func (p *idPool) remove(id int64) {
	for i, v := range p.free {
		if v == id {
			heap.Remove(&p.free, i)
			return
		}
	}
}

func (p *idPool) Reset() {
	p.free = nil
	p.high = 0
}

type idHeap []int64

func (h idHeap) Len() int           { return len(h) }
func (h idHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *idHeap) Push(x any) {
	*h = append(*h, x.(int64))
}

func (h *idHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Package owner keeps timer owners in a slash separated hierarchy, so that
// destroying a parent owner cascades to all of its descendants. Every
// destroyed owner has its timers cancelled before its own teardown runs.
package owner

import (
	"sort"
	"strings"

	"github.com/armon/go-radix"
	"github.com/fixkme/cotimer/errs"
	"github.com/fixkme/cotimer/mlog"
	"github.com/fixkme/cotimer/timer"
)

var (
	ErrDuplicateOwner = errs.DuplicateOwner
	ErrInvalidPath    = errs.InvalidPath
	ErrInvalidOwner   = errs.InvalidOwner
	ErrBusy           = errs.Busy
)

const Sep = "/"

// Canceller 由 timer.Registry 实现
type Canceller interface {
	CancelAllFor(owner timer.Owner) bool
	Writable() bool
}

// Destroyer 定时器取消后调用, 释放owner自己的状态
type Destroyer interface {
	OnDestroy()
}

type Tree struct {
	reg  Canceller
	tree *radix.Tree
}

func NewTree(reg Canceller) *Tree {
	return &Tree{
		reg:  reg,
		tree: radix.New(),
	}
}

// Attach 挂载owner, path形如 "root/dialog/ok"
func (t *Tree) Attach(path string, o timer.Owner) error {
	if !validPath(path) {
		return ErrInvalidPath.Printf("path=%q", path)
	}
	if !timer.ValidOwner(o) {
		return ErrInvalidOwner.Printf("path=%s owner=%T", path, o)
	}
	if _, ok := t.tree.Get(path); ok {
		return ErrDuplicateOwner.Printf("path=%s", path)
	}
	t.tree.Insert(path, o)
	return nil
}

func (t *Tree) Lookup(path string) (timer.Owner, bool) {
	v, ok := t.tree.Get(path)
	if !ok {
		return nil, false
	}
	return v.(timer.Owner), true
}

func (t *Tree) Len() int {
	return t.tree.Len()
}

// Walk 按路径字典序遍历, fn返回false停止
func (t *Tree) Walk(fn func(path string, o timer.Owner) bool) {
	t.tree.Walk(func(path string, v interface{}) bool {
		return !fn(path, v.(timer.Owner))
	})
}

// Destroy 销毁path及其所有子孙, 深度大的先销毁, 返回销毁的数量.
// 每个owner先取消定时器再调用OnDestroy.
// registry不接受修改时(Reject策略下在回调里调用)返回ErrBusy, 不销毁任何owner,
// 调用方可以在派发结束后重试, 比如通过 loop.Post
func (t *Tree) Destroy(path string) (int, error) {
	if !validPath(path) {
		return 0, ErrInvalidPath.Printf("path=%q", path)
	}
	if t.reg != nil && !t.reg.Writable() {
		mlog.Debugf("owner %s destroy rejected, registry busy", path)
		return 0, ErrBusy.Printf("path=%s", path)
	}
	type node struct {
		path  string
		depth int
		owner timer.Owner
	}
	var nodes []node
	t.tree.WalkPrefix(path, func(p string, v interface{}) bool {
		if p == path || strings.HasPrefix(p, path+Sep) {
			nodes = append(nodes, node{path: p, depth: strings.Count(p, Sep), owner: v.(timer.Owner)})
		}
		return false
	})
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].depth != nodes[j].depth {
			return nodes[i].depth > nodes[j].depth
		}
		return nodes[i].path < nodes[j].path
	})
	for _, n := range nodes {
		t.tree.Delete(n.path)
		if t.reg != nil {
			t.reg.CancelAllFor(n.owner)
		}
		if d, ok := n.owner.(Destroyer); ok {
			d.OnDestroy()
		}
	}
	return len(nodes), nil
}

func validPath(path string) bool {
	if path == "" || strings.HasPrefix(path, Sep) || strings.HasSuffix(path, Sep) {
		return false
	}
	return !strings.Contains(path, Sep+Sep)
}

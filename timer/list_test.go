package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func listIds(l *entryList) []int64 {
	var ids []int64
	l.Range(func(e *entry) bool {
		ids = append(ids, e.id)
		return true
	})
	return ids
}

func TestListInsertSortedStable(t *testing.T) {
	l := newEntryList()
	l.InsertSorted(&entry{id: 1, deadline: 30})
	l.InsertSorted(&entry{id: 2, deadline: 10})
	l.InsertSorted(&entry{id: 3, deadline: 30})
	l.InsertSorted(&entry{id: 4, deadline: 20})
	l.InsertSorted(&entry{id: 5, deadline: 10})
	assert.Equal(t, []int64{2, 5, 4, 1, 3}, listIds(l))
	assert.Equal(t, 5, l.Len())
	assert.Equal(t, int64(2), l.Front().id)
}

func TestListDetachDue(t *testing.T) {
	l := newEntryList()
	for i, d := range []int64{5, 10, 10, 15} {
		l.InsertSorted(&entry{id: int64(i + 1), deadline: d})
	}
	due := l.DetachDue(10)
	assert.Len(t, due, 3)
	assert.Equal(t, []int64{4}, listIds(l))
	for _, e := range due {
		assert.Nil(t, e.prev)
		assert.False(t, l.Remove(e))
	}
	assert.Empty(t, l.DetachDue(14))
}

func TestListRemoveIfAndClear(t *testing.T) {
	l := newEntryList()
	for i := int64(1); i <= 6; i++ {
		l.InsertSorted(&entry{id: i, deadline: i, cancelled: i%2 == 0})
	}
	assert.Equal(t, 3, l.RemoveIf(func(e *entry) bool { return e.cancelled }))
	assert.Equal(t, []int64{1, 3, 5}, listIds(l))
	l.Clear()
	assert.True(t, l.IsEmpty())
	assert.Nil(t, l.Front())
	assert.Zero(t, l.Len())
}

package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual(t *testing.T) {
	m := NewManual(100)
	assert.Equal(t, int64(100), m.NowMs())
	assert.Equal(t, int64(135), m.Advance(35))
	m.Set(10)
	assert.Equal(t, int64(10), m.NowMs())
}

func TestSystemOffset(t *testing.T) {
	s := NewSystem()
	base := time.Now().UnixMilli()
	assert.GreaterOrEqual(t, s.NowMs(), base)

	s.SetOffset(time.Hour)
	assert.Equal(t, time.Hour, s.Offset())
	assert.GreaterOrEqual(t, s.NowMs(), base+time.Hour.Milliseconds())
}

func TestMs2Time(t *testing.T) {
	assert.Equal(t, int64(1700000000123), Ms2Time(1700000000123).UnixMilli())
}

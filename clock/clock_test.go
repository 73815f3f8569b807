package clock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/adaptive-tls-oss/clock"
	"github.com/tsinghua-fib-lab/adaptive-tls-oss/utils/config"
)

func TestClockTick(t *testing.T) {
	c := clock.New(config.ControlStep{Start: 0, Total: 10, Interval: 0.5})

	assert.Equal(t, int32(0), c.InternalStep)
	assert.Equal(t, 0., c.T)
	assert.False(t, c.Done())

	for i := 0; i < 10; i++ {
		c.Tick()
	}
	assert.Equal(t, int32(10), c.InternalStep)
	assert.Equal(t, 5., c.T)
	assert.True(t, c.Done())
}

func TestClockStartOffset(t *testing.T) {
	c := clock.New(config.ControlStep{Start: 28800, Total: 3600, Interval: 1})

	// 从08:00:00开始
	assert.Equal(t, 28800., c.T)
	assert.Equal(t, "08:00:00", c.String())

	h, m, s := c.GetHourMinuteSecond()
	assert.Equal(t, 8, h)
	assert.Equal(t, 0, m)
	assert.Equal(t, 0., s)

	c.Init()
	assert.Equal(t, int32(28800), c.InternalStep)
}

func TestClockString(t *testing.T) {
	c := clock.New(config.ControlStep{Start: 0, Total: 100000, Interval: 1})
	for i := 0; i < 3725; i++ {
		c.Tick()
	}
	assert.Equal(t, "01:02:05", c.String())
}

package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/adaptive-tls-oss/engine"
)

func TestSignalFixedCycle(t *testing.T) {
	s := newSignal("tls0", 30)
	s.Prepare()
	assert.Equal(t, phaseNSGreen, s.Step())
	assert.Equal(t, 30., s.RemainingTime())
	assert.True(t, s.GreenFor(engine.DirectionNS))
	assert.False(t, s.GreenFor(engine.DirectionEW))

	// 绿灯结束进入黄灯，黄灯结束交替到另一方向
	s.Update(30)
	s.Prepare()
	assert.Equal(t, phaseNSYellow, s.Step())
	s.Update(*yellowTime)
	s.Prepare()
	assert.Equal(t, phaseEWGreen, s.Step())
	assert.True(t, s.GreenFor(engine.DirectionEW))

	s.Update(30 + *yellowTime)
	s.Prepare()
	assert.Equal(t, phaseNSGreen, s.Step())
}

func TestSignalExtend(t *testing.T) {
	s := newSignal("tls0", 30)
	s.Extend(20)
	s.Update(40)
	s.Prepare()
	// 延长后40秒仍在NS绿灯内
	assert.Equal(t, phaseNSGreen, s.Step())
	assert.InDelta(t, 10, s.RemainingTime(), 1e-9)
}

func TestSignalSwitchTo(t *testing.T) {
	s := newSignal("tls0", 30)

	// 目标方向已是绿灯时不动作
	s.SwitchTo(engine.DirectionNS)
	assert.Equal(t, phaseNSGreen, s.runtime.step)

	// 切换请求先进入本方向黄灯，黄灯结束后进入目标绿灯
	s.SwitchTo(engine.DirectionEW)
	assert.Equal(t, phaseNSYellow, s.runtime.step)
	s.Update(*yellowTime)
	s.Prepare()
	assert.Equal(t, phaseEWGreen, s.Step())
	assert.Equal(t, 30., s.RemainingTime())
}

func TestSignalSwitchBackDuringYellow(t *testing.T) {
	s := newSignal("tls0", 30)

	s.SwitchTo(engine.DirectionEW)
	assert.Equal(t, phaseNSYellow, s.runtime.step)
	// 黄灯期间改变目标，只更新待定方向
	s.SwitchTo(engine.DirectionNS)
	assert.Equal(t, phaseNSYellow, s.runtime.step)
	s.Update(*yellowTime)
	assert.Equal(t, phaseNSGreen, s.runtime.step)
}

func TestSignalPreempt(t *testing.T) {
	s := newSignal("tls0", 30)

	// 抢占跳过黄灯，立即进入目标方向绿灯
	s.Preempt(engine.DirectionEW)
	s.Prepare()
	assert.Equal(t, phaseEWGreen, s.Step())
	assert.Equal(t, *preemptHold, s.RemainingTime())

	// 同方向抢占只重置保持时间
	s.Update(10)
	s.Preempt(engine.DirectionEW)
	assert.Equal(t, phaseEWGreen, s.runtime.step)
	assert.Equal(t, *preemptHold, s.runtime.remainingT)
}

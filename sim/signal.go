package sim

import (
	"flag"

	"github.com/tsinghua-fib-lab/adaptive-tls-oss/engine"
)

var (
	yellowTime  = flag.Float64("sim.yellow_time", 3, "绿灯切换时的黄灯时间")
	preemptHold = flag.Float64("sim.preempt_hold", 20, "紧急抢占后保持绿灯的时间")
)

// 相位表与引擎约定一致：0-NS绿，1-NS黄，2-EW绿，3-EW黄
const (
	phaseNSGreen = iota
	phaseNSYellow
	phaseEWGreen
	phaseEWYellow
	numPhases
)

// tlRuntime 信号灯运行时数据结构
// 说明：pending记录黄灯结束后要进入的目标方向，
// DirectionUnknown表示按固定循环顺序推进
type tlRuntime struct {
	step       int     // 当前相位
	totalTime  float64 // 当前相位总时长
	remainingT float64 // 当前相位剩余时间
	pending    engine.Direction
}

// signal 路口信号灯模型
// 功能：维护固定循环的四相位信号灯，接受引擎的延长/切换/抢占指令
// 说明：黄灯等过渡相位由信号灯自行插入，引擎只看到相位索引与剩余时间；
// 采用snapshot/runtime两段式，引擎读snapshot，指令写runtime
type signal struct {
	id           string
	baseDuration float64 // 绿灯相位的默认时长

	snapshot tlRuntime
	runtime  tlRuntime
}

func newSignal(id string, baseDuration float64) *signal {
	s := &signal{
		id:           id,
		baseDuration: baseDuration,
	}
	s.runtime = tlRuntime{
		step:       phaseNSGreen,
		totalTime:  baseDuration,
		remainingT: baseDuration,
	}
	s.snapshot = s.runtime
	return s
}

// Prepare 准备阶段，把运行时状态写入snapshot供本tick读取
func (s *signal) Prepare() {
	s.snapshot = s.runtime
}

// Update 更新阶段，推进信号灯相位
// 参数：dt-时间步长
func (s *signal) Update(dt float64) {
	s.runtime.remainingT -= dt
	for s.runtime.remainingT <= 0 {
		s.advance()
	}
}

// advance 进入下一个相位
// 算法说明：
// 1. 绿灯结束进入同方向黄灯
// 2. 黄灯结束进入目标方向绿灯；无待定目标时按循环顺序交替
func (s *signal) advance() {
	switch s.step() {
	case phaseNSGreen, phaseEWGreen:
		s.runtime.step++
		s.runtime.remainingT += *yellowTime
	default:
		next := (s.runtime.step + 1) % numPhases
		if s.runtime.pending == engine.DirectionNS {
			next = phaseNSGreen
		} else if s.runtime.pending == engine.DirectionEW {
			next = phaseEWGreen
		}
		s.runtime.step = next
		s.runtime.pending = engine.DirectionUnknown
		s.runtime.remainingT += s.baseDuration
	}
	s.runtime.totalTime = s.runtime.remainingT
}

func (s *signal) step() int {
	return s.runtime.step
}

// Step 当前相位索引（本tick快照）
func (s *signal) Step() int {
	return s.snapshot.step
}

// RemainingTime 当前相位剩余时间（本tick快照）
func (s *signal) RemainingTime() float64 {
	return s.snapshot.remainingT
}

// GreenFor 判断方向在当前运行时状态下是否为绿灯
func (s *signal) GreenFor(dir engine.Direction) bool {
	return (s.runtime.step == phaseNSGreen && dir == engine.DirectionNS) ||
		(s.runtime.step == phaseEWGreen && dir == engine.DirectionEW)
}

// Extend 延长当前相位
func (s *signal) Extend(extra float64) {
	s.runtime.remainingT += extra
	s.runtime.totalTime += extra
}

// SwitchTo 请求切换到指定方向的绿灯
// 说明：目标方向已是绿灯时不动作；当前为绿灯时先进入本方向黄灯，
// 黄灯结束后进入目标绿灯；当前为黄灯时只更新目标
func (s *signal) SwitchTo(dir engine.Direction) {
	if s.GreenFor(dir) {
		return
	}
	s.runtime.pending = dir
	switch s.runtime.step {
	case phaseNSGreen, phaseEWGreen:
		s.runtime.step++
		s.runtime.remainingT = *yellowTime
		s.runtime.totalTime = *yellowTime
	}
}

// Preempt 紧急抢占，立即进入指定方向的绿灯并保持
// 说明：抢占跳过黄灯过渡，路权让渡优先于过渡安全时间
func (s *signal) Preempt(dir engine.Direction) {
	if dir == engine.DirectionEW {
		s.runtime.step = phaseEWGreen
	} else {
		s.runtime.step = phaseNSGreen
	}
	s.runtime.pending = engine.DirectionUnknown
	s.runtime.remainingT = *preemptHold
	s.runtime.totalTime = *preemptHold
}

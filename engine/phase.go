package engine

import (
	"fmt"

	"github.com/tsinghua-fib-lab/adaptive-tls-oss/utils/container"
)

// 相位索引约定（与执行器一致）：
// 0-NS绿，1-NS黄，2-EW绿，3-EW黄，依次循环
const phaseCycle = 4

// directionForPhase 相位索引到方向的映射
// 返回：绿灯相位对应的方向，过渡相位（黄灯等）返回DirectionUnknown
func directionForPhase(phase int) Direction {
	switch phase % phaseCycle {
	case 0:
		return DirectionNS
	case 2:
		return DirectionEW
	default:
		return DirectionUnknown
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// decidePhase 根据方向权重给出本tick的相位决策
// 参数：weights-各方向权重
// 返回：相位决策；数据源或执行器不可用时返回ErrTickSkipped
// 算法说明：
// 1. 权重合计为0时不产生决策（无车可调度）
// 2. 归一化权重并计算各方向的目标绿灯时长：
//    duration = clamp(BaseDuration×(0.5+normalized), MinDuration, MaxDuration)
// 3. 当前为受控方向的绿灯且剩余时间不足目标时长时，延长差值（不缩短进行中的相位）
// 4. 否则切换到权重最高的方向，平权时按固定方向顺序决胜
func (e *Engine) decidePhase(weights map[Direction]float64) (Decision, error) {
	total := 0.
	for _, d := range Directions {
		w := weights[d]
		if w < 0 {
			// 不变量被破坏，丢弃本tick决策
			log.Warnf("negative weight %f for direction %v, dropping tick decision", w, d)
			return Decision{Kind: DecisionNone}, nil
		}
		total += w
	}
	if total == 0 {
		return Decision{Kind: DecisionNone}, nil
	}

	durations := make(map[Direction]float64, len(Directions))
	for _, d := range Directions {
		normalized := weights[d] / total
		durations[d] = clamp(e.params.BaseDuration*(0.5+normalized), e.params.MinDuration, e.params.MaxDuration)
	}

	phase, err := e.source.CurrentPhase(e.signalID)
	if err != nil {
		return Decision{}, fmt.Errorf("%w: current phase: %v", ErrTickSkipped, err)
	}
	current := directionForPhase(phase)
	if current.Valid() {
		remaining, err := e.source.TimeUntilNextSwitch(e.signalID)
		if err != nil {
			return Decision{}, fmt.Errorf("%w: time until next switch: %v", ErrTickSkipped, err)
		}
		if remaining < durations[current] {
			extra := durations[current] - remaining
			if err := e.actuator.ExtendPhase(e.signalID, extra); err != nil {
				return Decision{}, fmt.Errorf("%w: extend phase: %v", ErrTickSkipped, err)
			}
			return Decision{
				Kind:      DecisionExtend,
				Direction: current,
				Duration:  durations[current],
				Extend:    extra,
			}, nil
		}
	}

	// 小顶堆，权重取负使权重最大的方向最先弹出；
	// 平权时保持Directions的入堆顺序，决胜确定
	q := container.NewPriorityQueue[Direction]()
	for _, d := range Directions {
		q.Push(d, -weights[d])
	}
	q.Heapify()
	next, _ := q.HeapPop()
	if err := e.actuator.SwitchToPhaseForDirection(e.signalID, next); err != nil {
		return Decision{}, fmt.Errorf("%w: switch phase: %v", ErrTickSkipped, err)
	}
	return Decision{
		Kind:      DecisionSwitch,
		Direction: next,
		Duration:  durations[next],
	}, nil
}

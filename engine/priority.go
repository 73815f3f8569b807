package engine

import (
	"math"

	"git.fiblab.net/general/common/v2/mathutil"
)

// Priority 计算车辆在now时刻的优先级得分
// 功能：综合频率、近因、规律性三个分量给出单一标量
// 参数：vehID-车辆ID，now-当前仿真时间
// 返回：非负有限的优先级得分，无过街记录的车辆返回0
// 算法说明：
// 1. 频率分量：log(1+过街次数)，随次数单调不减
// 2. 近因分量：1/(1+(now-最近过街时间)/3600)，随间隔增大衰减但不归零，
//    now等于最近过街时间时取1
// 3. 规律性分量：有模式时取最高规律性得分除以(1+到最近模式起点的时间差)，
//    无模式时取中性值0.5
// 4. 按配置权重加权求和
func (e *Engine) Priority(vehID string, now float64) float64 {
	r := e.history.Get(vehID)
	if r == nil || len(r.crossings) == 0 {
		return 0
	}

	frequency := math.Log1p(float64(len(r.crossings)))
	recency := 1 / (1 + (now-r.lastCrossingTime())/3600)

	consistency := 0.5
	if len(r.patterns) > 0 {
		best := 0.
		minDiff := mathutil.INF
		for _, p := range r.patterns {
			if p.Consistency > best {
				best = p.Consistency
			}
			if diff := mathutil.Abs(now - p.PeakStart); diff < minDiff {
				minDiff = diff
			}
		}
		consistency = best / (1 + minDiff)
	}

	return e.params.FrequencyWeight*frequency +
		e.params.RecencyWeight*recency +
		e.params.ConsistencyWeight*consistency
}

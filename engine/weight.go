package engine

import "github.com/samber/lo"

// directionWeight 计算单个方向在本tick的总权重
// 功能：聚合该方向所有在检车辆的优先级，并叠加密度项与模式加成
// 参数：dir-目标方向，now-当前仿真时间，vehicles-本tick全部在检车辆
// 返回：非负权重，无车辆时为0
// 算法说明：
// 1. 对方向匹配的车辆求优先级之和
// 2. 叠加密度项：DensityWeight×该方向车辆数
// 3. 模式加成：只要任一方向的在检车辆存在到达模式，总权重乘以(1+TimeBoostFactor)；
//    加成是全局的，不按方向区分
func (e *Engine) directionWeight(dir Direction, now float64, vehicles []vehicleView) float64 {
	same := lo.Filter(vehicles, func(v vehicleView, _ int) bool {
		return v.dir == dir
	})

	total := 0.
	for _, v := range same {
		total += e.Priority(v.id, now)
	}
	total += e.params.DensityWeight * float64(len(same))

	hasPattern := lo.SomeBy(vehicles, func(v vehicleView) bool {
		r := e.history.Get(v.id)
		return r != nil && len(r.patterns) > 0
	})
	if hasPattern {
		total *= 1 + e.params.TimeBoostFactor
	}
	return total
}

package sim

import "github.com/tsinghua-fib-lab/adaptive-tls-oss/engine"

const (
	// 停车线前的等待位置（米）
	stopLineGap = 1
	// 过线后行驶多远视为驶离路口（米）
	exitLength = 30
	// 背景车流的默认车辆类型
	defaultClass = "passenger"
)

// vehicle 模拟器内的一辆车
// 说明：distance为到停车线的剩余距离，负值表示已过线
type vehicle struct {
	id       string
	class    string
	dir      engine.Direction
	laneID   string
	distance float64
	speed    float64
	// 驶离后是否上报离开事件；周期性回访的通勤车辆在最后一次行程前不上报
	permanent bool
}

// update 推进车辆位置
// 参数：dt-时间步长，green-本方向是否绿灯
// 返回：true表示车辆已驶离路口
// 说明：红灯时未过线的车辆在停车线前停住，已过线的车辆继续驶离
func (v *vehicle) update(dt float64, green bool) bool {
	next := v.distance - v.speed*dt
	if !green && v.distance > 0 && next < stopLineGap {
		v.distance = stopLineGap
		return false
	}
	v.distance = next
	return v.distance <= -exitLength
}

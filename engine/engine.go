package engine

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/adaptive-tls-oss/utils/config"
)

// vehicleView 本tick一辆在检车辆的快照
type vehicleView struct {
	id    string
	dir   Direction
	class string
}

// Engine 单路口自适应信控引擎
// 功能：按tick消费交通数据源的车辆观测，维护车辆历史与到达模式，
// 聚合方向权重并向执行器下发相位决策
// 说明：引擎由外部循环单线程驱动，内部无并发，多路口部署时每个路口独立实例
type Engine struct {
	params   config.Engine
	source   ITrafficDataSource
	actuator IActuator
	signalID string

	history *historyStore
	// 上个tick的在检车辆集合，车辆从不在检到在检的瞬间记为一次过街
	inRange      map[string]struct{}
	lastWeights  map[Direction]float64
	emergencyLog []EmergencyEvent
}

// New 创建信控引擎
// 参数：params-算法参数（已填充默认值），source-交通数据源，
// actuator-信号执行器，signalID-受控信号灯ID
// 返回：初始化完成的引擎实例
// 说明：非法参数直接panic，配置错误应在启动时暴露
func New(params config.Engine, source ITrafficDataSource, actuator IActuator, signalID string) *Engine {
	if params.FrequencyWeight < 0 || params.RecencyWeight < 0 || params.ConsistencyWeight < 0 ||
		params.DensityWeight < 0 || params.TimeBoostFactor < 0 {
		log.Panicf("engine: negative weight in params %+v", params)
	}
	if params.PatternBatchSize <= 0 || params.ClusterMinSamples <= 0 || params.ClusterRadius <= 0 {
		log.Panicf("engine: bad pattern detection params %+v", params)
	}
	if params.MinDuration > params.MaxDuration || params.BaseDuration <= 0 {
		log.Panicf("engine: bad phase duration params %+v", params)
	}
	detector := &patternDetector{
		radius:         params.ClusterRadius,
		minSamples:     params.ClusterMinSamples,
		maxConsistency: params.MaxConsistency,
	}
	return &Engine{
		params:      params,
		source:      source,
		actuator:    actuator,
		signalID:    signalID,
		history:     newHistoryStore(params.HistoryCapacity, params.PatternBatchSize, detector),
		inRange:     make(map[string]struct{}),
		lastWeights: make(map[Direction]float64),
	}
}

// Step 处理一个仿真tick
// 返回：本tick的相位决策；数据源或执行器不可用时返回包装ErrTickSkipped的错误，
// 引擎状态保持不变，下个tick重试
// 算法说明：
// 1. 消费离开事件，淘汰对应车辆的历史记录
// 2. 查询受控车道上检测范围内的车辆（单车查询失败只跳过该车辆）
// 3. 紧急车辆检查：发现紧急车辆立即抢占并短路本tick的其余处理，
//    按遍历顺序只处理第一辆
// 4. 为新进入检测范围的车辆记录过街事件（可能触发模式重聚类）
// 5. 计算NS/EW方向权重并下发延长或切换决策
func (e *Engine) Step() (Decision, error) {
	now := e.source.CurrentTime()

	for _, vehID := range e.source.DepartedVehicles() {
		e.history.Evict(vehID)
		delete(e.inRange, vehID)
	}

	vehicles, err := e.detectVehicles()
	if err != nil {
		return Decision{}, err
	}

	// 紧急车辆抢占，短路其余全部流程
	for _, v := range vehicles {
		if v.class == e.params.EmergencyClass {
			if err := e.actuator.PreemptForEmergency(e.signalID, v.id); err != nil {
				return Decision{}, fmt.Errorf("%w: preempt: %v", ErrTickSkipped, err)
			}
			e.emergencyLog = append(e.emergencyLog, EmergencyEvent{
				T:         now,
				VehicleID: v.id,
				Direction: v.dir,
			})
			log.Infof("emergency vehicle %s detected on %v at %.1f, preempting", v.id, v.dir, now)
			return Decision{
				Kind:      DecisionPreempt,
				Direction: v.dir,
				VehicleID: v.id,
			}, nil
		}
	}

	// 方向枚举非法说明数据源给出了损坏的状态，丢弃本tick决策，
	// 不把损坏数据写入历史
	for _, v := range vehicles {
		if !v.dir.Valid() {
			log.Warnf("invalid direction for vehicle %s, dropping tick decision", v.id)
			return Decision{Kind: DecisionNone}, nil
		}
	}

	current := make(map[string]struct{}, len(vehicles))
	for _, v := range vehicles {
		current[v.id] = struct{}{}
		if _, ok := e.inRange[v.id]; !ok {
			e.history.RecordCrossing(v.id, v.dir, now)
		}
	}
	e.inRange = current

	weights := make(map[Direction]float64, len(Directions))
	for _, d := range Directions {
		weights[d] = e.directionWeight(d, now, vehicles)
	}
	e.lastWeights = weights

	return e.decidePhase(weights)
}

// detectVehicles 查询本tick检测范围内的车辆快照
// 说明：车道级查询失败视为数据源不可用，跳过本tick；
// 单车查询失败视为车辆在查询间隙消失，跳过该车辆
func (e *Engine) detectVehicles() ([]vehicleView, error) {
	lanes, err := e.source.ControlledLanes(e.signalID)
	if err != nil {
		return nil, fmt.Errorf("%w: controlled lanes: %v", ErrTickSkipped, err)
	}

	var ids []string
	for _, laneID := range lanes {
		vehIDs, err := e.source.VehiclesOnLane(laneID)
		if err != nil {
			return nil, fmt.Errorf("%w: vehicles on lane %s: %v", ErrTickSkipped, laneID, err)
		}
		ids = append(ids, vehIDs...)
	}
	ids = lo.Uniq(ids)

	vehicles := make([]vehicleView, 0, len(ids))
	for _, vehID := range ids {
		distance, err := e.source.DistanceToSignal(vehID)
		if err != nil {
			log.Debugf("vehicle %s disappeared before distance query: %v", vehID, err)
			continue
		}
		if distance >= e.params.DetectionRange {
			continue
		}
		class, err := e.source.VehicleClass(vehID)
		if err != nil {
			log.Debugf("vehicle %s disappeared before class query: %v", vehID, err)
			continue
		}
		dir, err := e.source.ApproachDirection(vehID)
		if err != nil {
			log.Debugf("vehicle %s disappeared before direction query: %v", vehID, err)
			continue
		}
		vehicles = append(vehicles, vehicleView{id: vehID, dir: dir, class: class})
	}
	return vehicles, nil
}

// Weights 上一个成功tick计算出的方向权重快照
func (e *Engine) Weights() map[Direction]float64 {
	w := make(map[Direction]float64, len(e.lastWeights))
	for d, v := range e.lastWeights {
		w[d] = v
	}
	return w
}

// EmergencyLog 全部紧急抢占记录
func (e *Engine) EmergencyLog() []EmergencyEvent {
	return append([]EmergencyEvent(nil), e.emergencyLog...)
}

// HistorySize 当前历史记录中的车辆数
func (e *Engine) HistorySize() int {
	return e.history.Len()
}

// Patterns 查询车辆当前的到达模式，无记录时返回nil
func (e *Engine) Patterns(vehID string) []Pattern {
	r := e.history.Get(vehID)
	if r == nil {
		return nil
	}
	return append([]Pattern(nil), r.patterns...)
}

// RecordCrossing 直接记录一次过街事件
// 说明：正常路径由Step内部记录，这里暴露给回放与测试场景；
// 不保证幂等，同一时刻调用两次记录两次
func (e *Engine) RecordCrossing(vehID string, dir Direction, t float64) {
	e.history.RecordCrossing(vehID, dir, t)
}

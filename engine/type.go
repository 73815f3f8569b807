package engine

import "errors"

// 依赖倒置，表达引擎对交通数据源与信号执行器的接口需求

// Direction 进口方向
type Direction int32

const (
	DirectionUnknown Direction = iota // 未知方向（数据源异常时的零值保护）
	DirectionNS                       // 南北向
	DirectionEW                       // 东西向
)

// Directions 所有有效方向，顺序即平权时的决胜顺序
var Directions = []Direction{DirectionNS, DirectionEW}

func (d Direction) String() string {
	switch d {
	case DirectionNS:
		return "NS"
	case DirectionEW:
		return "EW"
	default:
		return "unknown"
	}
}

// Valid 判断方向是否为有效的枚举值
func (d Direction) Valid() bool {
	return d == DirectionNS || d == DirectionEW
}

var (
	// ErrTickSkipped 表示本tick被跳过，引擎状态未变化，下个tick重试即可
	ErrTickSkipped = errors.New("engine: tick skipped")
)

// ITrafficDataSource 给引擎提供路口实时状态的数据源接口
// 说明：所有查询针对当前tick，按值返回；车辆级查询对已离开的车辆返回错误，
// 引擎跳过该车辆继续处理其他车辆
type ITrafficDataSource interface {
	// 信号灯控制的车道ID列表
	ControlledLanes(signalID string) ([]string, error)
	// 车道上的车辆ID（按到停车线距离从近到远排序）
	VehiclesOnLane(laneID string) ([]string, error)
	// 车辆到停车线的距离
	DistanceToSignal(vehID string) (float64, error)
	// 车辆类型
	VehicleClass(vehID string) (string, error)
	// 车辆的进口方向
	ApproachDirection(vehID string) (Direction, error)
	// 当前仿真时间（秒）
	CurrentTime() float64
	// 当前相位索引
	CurrentPhase(signalID string) (int, error)
	// 当前相位的剩余时间（秒）
	TimeUntilNextSwitch(signalID string) (float64, error)
	// 本tick永久离开路口范围的车辆ID，用于历史记录淘汰
	DepartedVehicles() []string
}

// IActuator 给引擎提供信号灯执行能力的接口
// 说明：黄灯等过渡相位由执行器自行管理，引擎只下发绿灯决策
type IActuator interface {
	// 延长当前相位
	ExtendPhase(signalID string, extraSeconds float64) error
	// 切换到指定方向的绿灯相位
	SwitchToPhaseForDirection(signalID string, direction Direction) error
	// 紧急车辆抢占
	PreemptForEmergency(signalID string, vehID string) error
}

// DecisionKind 相位决策类别
type DecisionKind int32

const (
	DecisionNone    DecisionKind = iota // 本tick无决策
	DecisionExtend                      // 延长当前相位
	DecisionSwitch                      // 切换相位
	DecisionPreempt                     // 紧急抢占
)

// Decision 单个tick的相位决策，随tick产生随tick消费，不保留状态
type Decision struct {
	Kind      DecisionKind
	Direction Direction // 目标方向（Extend/Switch时有效）
	Duration  float64   // 计算出的目标绿灯时长（秒）
	Extend    float64   // 延长量（秒，Extend时有效）
	VehicleID string    // 抢占的车辆ID（Preempt时有效）
}

// EmergencyEvent 一次紧急车辆抢占记录
type EmergencyEvent struct {
	T         float64   // 抢占时刻
	VehicleID string    // 紧急车辆ID
	Direction Direction // 紧急车辆方向
}

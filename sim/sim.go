package sim

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/adaptive-tls-oss/engine"
	"github.com/tsinghua-fib-lab/adaptive-tls-oss/utils/config"
	"github.com/tsinghua-fib-lab/adaptive-tls-oss/utils/randengine"
)

var (
	ErrUnknownSignal   = errors.New("sim: unknown signal id")
	ErrUnknownLane     = errors.New("sim: unknown lane id")
	ErrVehicleNotFound = errors.New("sim: vehicle not found")
)

// commuterRun 一个通勤车辆的到达计划执行状态
type commuterRun struct {
	cfg  config.CommuterItem
	dir  engine.Direction
	next int // 下一次到达的序号
}

// Sim 内置单路口模拟器
// 功能：维护进口车道、车辆运动与信号灯状态，作为引擎的交通数据源与信号执行器
// 说明：引擎视角下这是一个黑盒协作者；Prepare/Update两段式驱动，
// 引擎的读操作落在Prepare产生的快照上，写指令在Update中生效
type Sim struct {
	signalID  string
	cfg       config.Sim
	signal    *signal
	generator *randengine.Engine

	laneIDs    []string
	lanesByDir map[engine.Direction][]string
	lanes      map[string]engine.Direction // 车道ID->方向

	vehicles map[string]*vehicle
	// 本tick驶离的车辆ID；Prepare时换出供引擎消费
	departed    []string
	departedOut []string

	commuters []*commuterRun

	T   float64
	seq int
}

// New 创建模拟器
// 参数：cfg-模拟器配置，signalID-信号灯ID，baseDuration-绿灯相位的默认时长
// 返回：初始化完成的模拟器实例
// 说明：配置缺省项填充默认值，非法的方向字符串直接panic
func New(cfg config.Sim, signalID string, baseDuration float64) *Sim {
	if cfg.LanesPerRoad == 0 {
		cfg.LanesPerRoad = 2
	}
	if cfg.LaneLength == 0 {
		cfg.LaneLength = 200
	}
	if cfg.ApproachSpeed == 0 {
		cfg.ApproachSpeed = 10
	}
	if cfg.Seed == 0 {
		cfg.Seed = 43
	}

	s := &Sim{
		signalID:   signalID,
		cfg:        cfg,
		signal:     newSignal(signalID, baseDuration),
		generator:  randengine.New(cfg.Seed),
		lanesByDir: make(map[engine.Direction][]string),
		lanes:      make(map[string]engine.Direction),
		vehicles:   make(map[string]*vehicle),
	}

	for _, dir := range engine.Directions {
		for i := 0; i < cfg.LanesPerRoad; i++ {
			laneID := fmt.Sprintf("%s_in_%d", dir, i)
			s.laneIDs = append(s.laneIDs, laneID)
			s.lanesByDir[dir] = append(s.lanesByDir[dir], laneID)
			s.lanes[laneID] = dir
		}
	}

	for _, c := range cfg.Commuters {
		dir := parseDirection(c.Direction)
		if !dir.Valid() {
			log.Panicf("bad commuter direction %q for %s", c.Direction, c.ID)
		}
		s.commuters = append(s.commuters, &commuterRun{cfg: c, dir: dir})
	}
	for _, f := range cfg.Flows {
		if !parseDirection(f.Direction).Valid() {
			log.Panicf("bad flow direction %q", f.Direction)
		}
	}

	return s
}

// parseDirection 方向字符串到枚举的转换
func parseDirection(s string) engine.Direction {
	switch s {
	case "NS":
		return engine.DirectionNS
	case "EW":
		return engine.DirectionEW
	default:
		return engine.DirectionUnknown
	}
}

// Prepare 准备阶段
// 功能：产生本tick的信号灯快照，换出上个tick的离开事件供引擎消费
func (s *Sim) Prepare() {
	s.signal.Prepare()
	s.departedOut = s.departed
	s.departed = nil
}

// Update 更新阶段，推进模拟器一个时间步
// 参数：dt-时间步长
// 算法说明：
// 1. 推进仿真时间，按信号灯状态推进车辆位置，收集驶离路口的车辆
// 2. 生成新到达的车辆（背景泊松车流+脚本通勤车辆），本tick不移动
// 3. 推进信号灯相位
func (s *Sim) Update(dt float64) {
	s.T += dt

	for id, v := range s.vehicles {
		if v.update(dt, s.signal.GreenFor(v.dir)) {
			delete(s.vehicles, id)
			if v.permanent {
				s.departed = append(s.departed, id)
			}
		}
	}

	s.spawnFlows(dt)
	s.spawnCommuters()

	s.signal.Update(dt)
}

// spawnFlows 按泊松过程生成背景车流
func (s *Sim) spawnFlows(dt float64) {
	for _, f := range s.cfg.Flows {
		if !s.generator.PTrue(f.Rate * dt / 3600) {
			continue
		}
		dir := parseDirection(f.Direction)
		class := f.Class
		if class == "" {
			class = defaultClass
		}
		id := fmt.Sprintf("veh_%d", s.seq)
		s.seq++
		s.addVehicle(id, class, dir, true)
	}
}

// spawnCommuters 按到达计划生成通勤车辆
// 说明：同一通勤车辆使用固定ID反复出现；只有最后一次行程驶离后才上报离开事件，
// 避免引擎在车辆还会回访时淘汰其历史
func (s *Sim) spawnCommuters() {
	for _, c := range s.commuters {
		if c.next >= c.cfg.Count {
			continue
		}
		arrival := c.cfg.FirstArrival + float64(c.next)*c.cfg.Interval
		if s.T < arrival {
			continue
		}
		if _, ok := s.vehicles[c.cfg.ID]; ok {
			continue // 上一次行程还未结束，推迟本次到达
		}
		c.next++
		class := c.cfg.Class
		if class == "" {
			class = defaultClass
		}
		s.addVehicle(c.cfg.ID, class, c.dir, c.next >= c.cfg.Count)
	}
}

// addVehicle 在指定方向放入新车辆
// 说明：按占用加权随机选择进口车道，车上越少的车道被选中概率越高
func (s *Sim) addVehicle(id, class string, dir engine.Direction, permanent bool) {
	lanes := s.lanesByDir[dir]
	occupancy := make([]int, len(lanes))
	for _, v := range s.vehicles {
		if i := lo.IndexOf(lanes, v.laneID); i >= 0 {
			occupancy[i]++
		}
	}
	weight := lo.Map(occupancy, func(n int, _ int) float64 {
		return 1 / float64(1+n)
	})
	v := &vehicle{
		id:        id,
		class:     class,
		dir:       dir,
		laneID:    lanes[s.generator.DiscreteDistribution(weight)],
		distance:  s.cfg.LaneLength,
		speed:     s.cfg.ApproachSpeed,
		permanent: permanent,
	}
	s.vehicles[id] = v
}

// VehicleCount 当前路网中的车辆数
func (s *Sim) VehicleCount() int {
	return len(s.vehicles)
}

// ControlledLanes 信号灯控制的车道ID列表
func (s *Sim) ControlledLanes(signalID string) ([]string, error) {
	if signalID != s.signalID {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSignal, signalID)
	}
	return s.laneIDs, nil
}

// VehiclesOnLane 车道上的车辆ID，按到停车线距离从近到远排序
func (s *Sim) VehiclesOnLane(laneID string) ([]string, error) {
	if _, ok := s.lanes[laneID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLane, laneID)
	}
	onLane := lo.Filter(lo.Values(s.vehicles), func(v *vehicle, _ int) bool {
		return v.laneID == laneID
	})
	sort.Slice(onLane, func(i, j int) bool {
		if onLane[i].distance != onLane[j].distance {
			return onLane[i].distance < onLane[j].distance
		}
		return onLane[i].id < onLane[j].id
	})
	return lo.Map(onLane, func(v *vehicle, _ int) string {
		return v.id
	}), nil
}

// DistanceToSignal 车辆到停车线的距离
func (s *Sim) DistanceToSignal(vehID string) (float64, error) {
	v, ok := s.vehicles[vehID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrVehicleNotFound, vehID)
	}
	return v.distance, nil
}

// VehicleClass 车辆类型
func (s *Sim) VehicleClass(vehID string) (string, error) {
	v, ok := s.vehicles[vehID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrVehicleNotFound, vehID)
	}
	return v.class, nil
}

// ApproachDirection 车辆的进口方向
func (s *Sim) ApproachDirection(vehID string) (engine.Direction, error) {
	v, ok := s.vehicles[vehID]
	if !ok {
		return engine.DirectionUnknown, fmt.Errorf("%w: %s", ErrVehicleNotFound, vehID)
	}
	return v.dir, nil
}

// CurrentTime 当前仿真时间
func (s *Sim) CurrentTime() float64 {
	return s.T
}

// CurrentPhase 当前相位索引
func (s *Sim) CurrentPhase(signalID string) (int, error) {
	if signalID != s.signalID {
		return 0, fmt.Errorf("%w: %s", ErrUnknownSignal, signalID)
	}
	return s.signal.Step(), nil
}

// TimeUntilNextSwitch 当前相位的剩余时间
func (s *Sim) TimeUntilNextSwitch(signalID string) (float64, error) {
	if signalID != s.signalID {
		return 0, fmt.Errorf("%w: %s", ErrUnknownSignal, signalID)
	}
	return s.signal.RemainingTime(), nil
}

// DepartedVehicles 上个tick永久驶离的车辆ID
func (s *Sim) DepartedVehicles() []string {
	return s.departedOut
}

// ExtendPhase 延长当前相位
func (s *Sim) ExtendPhase(signalID string, extraSeconds float64) error {
	if signalID != s.signalID {
		return fmt.Errorf("%w: %s", ErrUnknownSignal, signalID)
	}
	s.signal.Extend(extraSeconds)
	return nil
}

// SwitchToPhaseForDirection 切换到指定方向的绿灯相位
func (s *Sim) SwitchToPhaseForDirection(signalID string, direction engine.Direction) error {
	if signalID != s.signalID {
		return fmt.Errorf("%w: %s", ErrUnknownSignal, signalID)
	}
	if !direction.Valid() {
		return fmt.Errorf("sim: bad direction %v", direction)
	}
	s.signal.SwitchTo(direction)
	return nil
}

// PreemptForEmergency 紧急车辆抢占
func (s *Sim) PreemptForEmergency(signalID string, vehID string) error {
	if signalID != s.signalID {
		return fmt.Errorf("%w: %s", ErrUnknownSignal, signalID)
	}
	v, ok := s.vehicles[vehID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrVehicleNotFound, vehID)
	}
	log.Debugf("preempting signal %s for emergency vehicle %s (%v)", signalID, vehID, v.dir)
	s.signal.Preempt(v.dir)
	return nil
}

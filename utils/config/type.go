package config

// ControlStep 指定模拟器模拟时间范围和间隔的配置项
// 功能：定义仿真时间控制参数
// 说明：控制仿真的时间范围、步长和精度
type ControlStep struct {
	Start    int32   `yaml:"start"`    // 开始步数
	Total    int32   `yaml:"total"`    // 总步数
	Interval float64 `yaml:"interval"` // 每步的时间间隔
}

// Control 模拟器控制配置
// 功能：定义仿真系统的核心控制参数
type Control struct {
	Step ControlStep `yaml:"step"`
	// 被控制的信号灯ID
	SignalID string `yaml:"signal_id"`
	// 权重日志输出间隔（仿真秒），0表示不输出
	ReportInterval float64 `yaml:"report_interval,omitempty"`
}

// Engine 自适应信控引擎的算法参数
// 功能：定义优先级评分、模式检测、相位控制的全部可调参数
// 说明：所有参数在引擎构造时传入，运行期间不可变，保证测试的确定性。
// 零值（省略）字段在NewRuntimeConfig中替换为默认值，
// 因此density_weight与time_boost_factor无法显式配置为0，
// 需要禁用时写一个极小正数（如1e-9）
type Engine struct {
	// 优先级评分权重（频率/近因/规律性）
	// 说明：三者作为一组配置，全为零才替换为默认值；
	// 显式写出全部三项即可把其中某一项设为0
	FrequencyWeight   float64 `yaml:"frequency_weight,omitempty"`
	RecencyWeight     float64 `yaml:"recency_weight,omitempty"`
	ConsistencyWeight float64 `yaml:"consistency_weight,omitempty"`
	// 方向权重中每辆车的密度加成
	DensityWeight float64 `yaml:"density_weight,omitempty"`
	// 存在到达模式时的全局权重放大系数
	TimeBoostFactor float64 `yaml:"time_boost_factor,omitempty"`
	// 每多少次过街记录触发一次模式检测
	PatternBatchSize int `yaml:"pattern_batch_size,omitempty"`
	// 时间戳聚类的邻域半径（秒）与最小簇规模
	ClusterRadius     float64 `yaml:"cluster_radius,omitempty"`
	ClusterMinSamples int     `yaml:"cluster_min_samples,omitempty"`
	// 规律性得分上限，防止零方差簇的得分发散
	MaxConsistency float64 `yaml:"max_consistency,omitempty"`
	// 车辆检测范围（米）
	DetectionRange float64 `yaml:"detection_range,omitempty"`
	// 绿灯相位时长计算参数：基准、下限、上限（秒）
	BaseDuration float64 `yaml:"base_duration,omitempty"`
	MinDuration  float64 `yaml:"min_duration,omitempty"`
	MaxDuration  float64 `yaml:"max_duration,omitempty"`
	// 车辆历史记录容量上限，超出后按最久未更新淘汰
	HistoryCapacity int `yaml:"history_capacity,omitempty"`
	// 触发抢占的车辆类型
	EmergencyClass string `yaml:"emergency_class,omitempty"`
}

// FlowItem 背景车流配置
// 说明：按泊松过程在指定方向生成车辆
type FlowItem struct {
	Direction string  `yaml:"direction"`       // NS或EW
	Rate      float64 `yaml:"rate"`            // 到达率（辆/小时）
	Class     string  `yaml:"class,omitempty"` // 车辆类型，默认passenger
}

// CommuterItem 通勤车辆配置
// 说明：以固定间隔反复到达的脚本车辆，用于形成可检测的到达模式
type CommuterItem struct {
	ID           string  `yaml:"id"`
	Direction    string  `yaml:"direction"`
	FirstArrival float64 `yaml:"first_arrival"`   // 首次到达时间（秒）
	Interval     float64 `yaml:"interval"`        // 相邻两次到达的间隔（秒）
	Count        int     `yaml:"count"`           // 到达次数
	Class        string  `yaml:"class,omitempty"` // 车辆类型
}

// Sim 内置路口模拟器配置
type Sim struct {
	Seed          uint64         `yaml:"seed,omitempty"`           // 随机数种子
	LanesPerRoad  int            `yaml:"lanes_per_road,omitempty"` // 每个进口道的车道数
	LaneLength    float64        `yaml:"lane_length,omitempty"`    // 进口道长度（米）
	ApproachSpeed float64        `yaml:"approach_speed,omitempty"` // 车辆行驶速度（米/秒）
	Flows         []FlowItem     `yaml:"flows,omitempty"`          // 背景车流
	Commuters     []CommuterItem `yaml:"commuters,omitempty"`      // 通勤车辆
}

// Config YAML配置文件的根结构
type Config struct {
	Control Control `yaml:"control"` // 模拟过程控制
	Engine  Engine  `yaml:"engine"`  // 信控引擎算法参数
	Sim     Sim     `yaml:"sim"`     // 内置模拟器
}

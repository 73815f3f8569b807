package config

// 引擎算法参数默认值，与原始信控模型保持一致
const (
	DefaultFrequencyWeight   = 0.4
	DefaultRecencyWeight     = 0.3
	DefaultConsistencyWeight = 0.3
	DefaultDensityWeight     = 0.3
	DefaultTimeBoostFactor   = 0.5
	DefaultPatternBatchSize  = 5
	DefaultClusterRadius     = 300
	DefaultClusterMinSamples = 3
	DefaultMaxConsistency    = 1e4
	DefaultDetectionRange    = 50
	DefaultBaseDuration      = 30
	DefaultMinDuration       = 15
	DefaultMaxDuration       = 60
	DefaultHistoryCapacity   = 10000
	DefaultEmergencyClass    = "emergency"
)

// RuntimeConfig 运行时配置
// 功能：存储仿真运行时的配置信息，所有缺省项已填充默认值
// 说明：将YAML配置转换为运行时可用的配置对象
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置
	E   Engine  // 引擎参数（默认值已填充）
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：创建运行时配置对象，校验配置并填充引擎参数默认值
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针
// 说明：零值字段视为未指定，替换为默认值；显式配置的非法值由引擎构造时拒绝
func NewRuntimeConfig(config Config) *RuntimeConfig {
	rc := &RuntimeConfig{}

	rc.All = config
	rc.C = config.Control
	rc.E = withEngineDefaults(config.Engine)
	if rc.C.SignalID == "" {
		rc.C.SignalID = "tls0"
	}

	return rc
}

// withEngineDefaults 填充引擎参数默认值
// 说明：零值视为未指定；三个评分权重作为一组判断，
// 只要任一非零就按写出的值使用（允许单项显式为0）
func withEngineDefaults(e Engine) Engine {
	if e.FrequencyWeight == 0 && e.RecencyWeight == 0 && e.ConsistencyWeight == 0 {
		e.FrequencyWeight = DefaultFrequencyWeight
		e.RecencyWeight = DefaultRecencyWeight
		e.ConsistencyWeight = DefaultConsistencyWeight
	}
	if e.DensityWeight == 0 {
		e.DensityWeight = DefaultDensityWeight
	}
	if e.TimeBoostFactor == 0 {
		e.TimeBoostFactor = DefaultTimeBoostFactor
	}
	if e.PatternBatchSize == 0 {
		e.PatternBatchSize = DefaultPatternBatchSize
	}
	if e.ClusterRadius == 0 {
		e.ClusterRadius = DefaultClusterRadius
	}
	if e.ClusterMinSamples == 0 {
		e.ClusterMinSamples = DefaultClusterMinSamples
	}
	if e.MaxConsistency == 0 {
		e.MaxConsistency = DefaultMaxConsistency
	}
	if e.DetectionRange == 0 {
		e.DetectionRange = DefaultDetectionRange
	}
	if e.BaseDuration == 0 {
		e.BaseDuration = DefaultBaseDuration
	}
	if e.MinDuration == 0 {
		e.MinDuration = DefaultMinDuration
	}
	if e.MaxDuration == 0 {
		e.MaxDuration = DefaultMaxDuration
	}
	if e.HistoryCapacity == 0 {
		e.HistoryCapacity = DefaultHistoryCapacity
	}
	if e.EmergencyClass == "" {
		e.EmergencyClass = DefaultEmergencyClass
	}
	return e
}

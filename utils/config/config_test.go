package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/adaptive-tls-oss/utils/config"
	"gopkg.in/yaml.v2"
)

func TestRuntimeConfigDefaults(t *testing.T) {
	rc := config.NewRuntimeConfig(config.Config{})

	assert.Equal(t, "tls0", rc.C.SignalID)
	assert.Equal(t, 0.4, rc.E.FrequencyWeight)
	assert.Equal(t, 0.3, rc.E.RecencyWeight)
	assert.Equal(t, 0.3, rc.E.ConsistencyWeight)
	assert.Equal(t, 0.3, rc.E.DensityWeight)
	assert.Equal(t, 0.5, rc.E.TimeBoostFactor)
	assert.Equal(t, 5, rc.E.PatternBatchSize)
	assert.Equal(t, 300., rc.E.ClusterRadius)
	assert.Equal(t, 3, rc.E.ClusterMinSamples)
	assert.Equal(t, 50., rc.E.DetectionRange)
	assert.Equal(t, 30., rc.E.BaseDuration)
	assert.Equal(t, 15., rc.E.MinDuration)
	assert.Equal(t, 60., rc.E.MaxDuration)
	assert.Equal(t, "emergency", rc.E.EmergencyClass)
}

func TestRuntimeConfigExplicitValues(t *testing.T) {
	rc := config.NewRuntimeConfig(config.Config{
		Control: config.Control{SignalID: "j42"},
		Engine: config.Engine{
			FrequencyWeight:   0.5,
			RecencyWeight:     0.25,
			ConsistencyWeight: 0.25,
			BaseDuration:      40,
		},
	})

	assert.Equal(t, "j42", rc.C.SignalID)
	assert.Equal(t, 0.5, rc.E.FrequencyWeight)
	assert.Equal(t, 0.25, rc.E.RecencyWeight)
	assert.Equal(t, 40., rc.E.BaseDuration)
	// 未显式指定的项仍取默认值
	assert.Equal(t, 5, rc.E.PatternBatchSize)
}

func TestRuntimeConfigZeroValueSemantics(t *testing.T) {
	// 评分权重作为一组：显式写出全部三项时，其中的0不被默认值覆盖
	rc := config.NewRuntimeConfig(config.Config{
		Engine: config.Engine{
			FrequencyWeight:   0.7,
			RecencyWeight:     0.3,
			ConsistencyWeight: 0,
		},
	})
	assert.Equal(t, 0.7, rc.E.FrequencyWeight)
	assert.Equal(t, 0.3, rc.E.RecencyWeight)
	assert.Equal(t, 0., rc.E.ConsistencyWeight)

	// 单独的零值字段视为未指定，替换为默认值；
	// 需要关闭时配置极小正数
	rc = config.NewRuntimeConfig(config.Config{
		Engine: config.Engine{DensityWeight: 0, TimeBoostFactor: 1e-9},
	})
	assert.Equal(t, config.DefaultDensityWeight, rc.E.DensityWeight)
	assert.Equal(t, 1e-9, rc.E.TimeBoostFactor)
}

func TestYamlStrictParse(t *testing.T) {
	data := `
control:
  step:
    start: 0
    total: 3600
    interval: 1
  signal_id: j1
  report_interval: 5
engine:
  detection_range: 80
  time_boost_factor: 0.25
sim:
  seed: 7
  lanes_per_road: 2
  flows:
    - direction: NS
      rate: 400
  commuters:
    - id: c1
      direction: EW
      first_arrival: 600
      interval: 86400
      count: 10
`
	var c config.Config
	require.NoError(t, yaml.UnmarshalStrict([]byte(data), &c))
	assert.Equal(t, int32(3600), c.Control.Step.Total)
	assert.Equal(t, 80., c.Engine.DetectionRange)
	require.Len(t, c.Sim.Flows, 1)
	assert.Equal(t, 400., c.Sim.Flows[0].Rate)
	require.Len(t, c.Sim.Commuters, 1)
	assert.Equal(t, "c1", c.Sim.Commuters[0].ID)

	// 未知字段在严格模式下报错
	var bad config.Config
	assert.Error(t, yaml.UnmarshalStrict([]byte("control:\n  bogus: 1\n"), &bad))
}

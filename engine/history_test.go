package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(capacity int) *historyStore {
	return newHistoryStore(capacity, 5, newTestDetector())
}

func TestRecordCrossingCreatesRecord(t *testing.T) {
	s := newTestStore(100)

	assert.Nil(t, s.Get("v1"))
	s.RecordCrossing("v1", DirectionNS, 10)
	r := s.Get("v1")
	require.NotNil(t, r)
	assert.Len(t, r.crossings, 1)
	assert.Equal(t, DirectionNS, r.crossings[0].Dir)
	assert.Equal(t, 10., r.lastCrossingTime())
	assert.Equal(t, 1, s.Len())
}

func TestPatternDetectionTriggeredOnBatch(t *testing.T) {
	s := newTestStore(100)

	// 第5次过街之前不触发模式检测
	for i, ts := range []float64{0, 300, 600, 900} {
		s.RecordCrossing("v1", DirectionNS, ts)
		assert.Empty(t, s.Get("v1").patterns, "after crossing %d", i+1)
	}
	s.RecordCrossing("v1", DirectionNS, 1200)
	require.Len(t, s.Get("v1").patterns, 1)
	assert.Equal(t, 0., s.Get("v1").patterns[0].PeakStart)
	assert.Equal(t, 1200., s.Get("v1").patterns[0].PeakEnd)

	// 第6~9次记录保留旧模式，第10次整体替换
	for _, ts := range []float64{1500, 1800, 2100, 2400} {
		s.RecordCrossing("v1", DirectionNS, ts)
		assert.Equal(t, 1200., s.Get("v1").patterns[0].PeakEnd)
	}
	s.RecordCrossing("v1", DirectionNS, 2700)
	require.Len(t, s.Get("v1").patterns, 1)
	assert.Equal(t, 2700., s.Get("v1").patterns[0].PeakEnd)
}

func TestEvict(t *testing.T) {
	s := newTestStore(100)

	s.RecordCrossing("v1", DirectionNS, 0)
	s.RecordCrossing("v2", DirectionEW, 1)
	s.Evict("v1")
	assert.Nil(t, s.Get("v1"))
	assert.NotNil(t, s.Get("v2"))
	assert.Equal(t, 1, s.Len())

	// 淘汰不存在的车辆不报错
	s.Evict("v404")
}

func TestCapacityEvictsOldest(t *testing.T) {
	s := newTestStore(3)

	for i := 0; i < 3; i++ {
		s.RecordCrossing(fmt.Sprintf("v%d", i), DirectionNS, float64(i))
	}
	// v0最久未更新，应被淘汰
	s.RecordCrossing("v3", DirectionNS, 100)
	assert.Equal(t, 3, s.Len())
	assert.Nil(t, s.Get("v0"))
	assert.NotNil(t, s.Get("v3"))

	// 更新v1后v2成为最久未更新
	s.RecordCrossing("v1", DirectionNS, 200)
	s.RecordCrossing("v4", DirectionNS, 300)
	assert.Nil(t, s.Get("v2"))
	assert.NotNil(t, s.Get("v1"))
}

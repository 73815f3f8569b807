package engine

import (
	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/samber/lo"
)

// crossing 一次过街事件
type crossing struct {
	T   float64   // 过街时间
	Dir Direction // 过街方向
}

// record 单个车辆的历史记录
// 说明：crossings只追加不修改，顺序即时间顺序；patterns每次检测整体替换
type record struct {
	crossings []crossing
	patterns  []Pattern
	updatedAt float64 // 最近一次记录时间，用于容量淘汰
}

// lastCrossingTime 最近一次过街时间
func (r *record) lastCrossingTime() float64 {
	return r.crossings[len(r.crossings)-1].T
}

// historyStore 车辆历史存储
// 功能：维护车辆ID到历史记录的映射，达到模式检测批次时触发重聚类，
// 容量超限时淘汰最久未更新的记录
type historyStore struct {
	records   map[string]*record
	capacity  int
	batchSize int // 每batchSize次过街触发一次模式检测
	detector  *patternDetector
}

func newHistoryStore(capacity, batchSize int, detector *patternDetector) *historyStore {
	return &historyStore{
		records:   make(map[string]*record),
		capacity:  capacity,
		batchSize: batchSize,
		detector:  detector,
	}
}

// RecordCrossing 记录一次过街事件
// 功能：追加过街记录，首次出现的车辆自动建档；
// 过街次数达到批次整数倍时对该车辆重新做模式检测
// 说明：不保证幂等，同一tick调用两次会记录两次
func (s *historyStore) RecordCrossing(vehID string, dir Direction, t float64) {
	r, ok := s.records[vehID]
	if !ok {
		if len(s.records) >= s.capacity {
			s.evictOldest()
		}
		r = &record{}
		s.records[vehID] = r
	}
	r.crossings = append(r.crossings, crossing{T: t, Dir: dir})
	r.updatedAt = t

	if len(r.crossings)%s.batchSize == 0 {
		times := lo.Map(r.crossings, func(c crossing, _ int) float64 {
			return c.T
		})
		r.patterns = s.detector.Detect(times)
	}
}

// Get 查询车辆历史记录，不存在时返回nil
func (s *historyStore) Get(vehID string) *record {
	return s.records[vehID]
}

// Evict 删除车辆历史记录
// 说明：由数据源的车辆离开事件驱动
func (s *historyStore) Evict(vehID string) {
	delete(s.records, vehID)
}

// Len 当前记录数
func (s *historyStore) Len() int {
	return len(s.records)
}

// evictOldest 淘汰最久未更新的记录
// 说明：容量上限兜底，正常情况下依赖离开事件淘汰
func (s *historyStore) evictOldest() {
	var oldestID string
	oldestT := mathutil.INF
	for id, r := range s.records {
		if r.updatedAt < oldestT {
			oldestT = r.updatedAt
			oldestID = id
		}
	}
	log.Warnf("history store over capacity %d, evicting vehicle %s", s.capacity, oldestID)
	delete(s.records, oldestID)
}

package engine

import (
	"git.fiblab.net/general/common/v2/mathutil"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// 规律性得分中防止零方差发散的平滑项
const consistencyEpsilon = 1e-6

// Pattern 车辆的一个到达模式（时间簇）
// 说明：表示车辆在历史上反复出现的一个到达时间窗
type Pattern struct {
	PeakStart   float64 // 簇内最早时间戳
	PeakEnd     float64 // 簇内最晚时间戳
	Consistency float64 // 规律性得分，簇越紧密得分越高
}

// patternDetector 到达模式检测器
// 功能：对单个车辆的过街时间戳序列做一维密度聚类，提取到达模式
type patternDetector struct {
	radius         float64 // 邻域半径（秒）
	minSamples     int     // 成为核心点所需的邻域点数（含自身）
	maxConsistency float64 // 规律性得分上限
}

// Detect 对时间戳序列做密度聚类并计算各簇的到达模式
// 参数：times-车辆全部过街时间戳（随单调时钟推进，天然有序）
// 返回：检测到的模式列表，无合格簇时返回nil
// 算法说明：
// 1. 密度聚类：邻域半径内点数不少于minSamples的点为核心点，
//    从核心点出发扩展簇，可达的边界点并入，未入簇的点视为噪声丢弃
// 2. 对每个簇：PeakStart取最小值，PeakEnd取最大值，
//    Consistency = 1/(总体标准差+ε)，并截断到maxConsistency
// 说明：数据是一维小规模序列，直接做O(n²)邻域查询即可，无需空间索引
func (d *patternDetector) Detect(times []float64) []Pattern {
	n := len(times)
	if n < d.minSamples {
		return nil
	}

	const noise = -1
	labels := make([]int, n)
	for i := range labels {
		labels[i] = noise
	}

	// 邻域查询
	neighbors := func(i int) []int {
		var result []int
		for j := 0; j < n; j++ {
			if mathutil.Abs(times[i]-times[j]) <= d.radius {
				result = append(result, j)
			}
		}
		return result
	}

	// 从核心点扩展簇
	clusterID := 0
	visited := make([]bool, n)
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		visited[i] = true
		seeds := neighbors(i)
		if len(seeds) < d.minSamples {
			continue // 非核心点，暂记噪声，可能被后续簇吸收为边界点
		}
		labels[i] = clusterID
		for k := 0; k < len(seeds); k++ {
			j := seeds[k]
			if labels[j] == noise {
				labels[j] = clusterID // 边界点并入
			}
			if visited[j] {
				continue
			}
			visited[j] = true
			labels[j] = clusterID
			if next := neighbors(j); len(next) >= d.minSamples {
				seeds = append(seeds, next...)
			}
		}
		clusterID++
	}

	if clusterID == 0 {
		return nil
	}

	clusters := make([][]float64, clusterID)
	for i, label := range labels {
		if label == noise {
			continue
		}
		clusters[label] = append(clusters[label], times[i])
	}

	patterns := make([]Pattern, 0, clusterID)
	for _, cluster := range clusters {
		patterns = append(patterns, Pattern{
			PeakStart:   floats.Min(cluster),
			PeakEnd:     floats.Max(cluster),
			Consistency: d.consistency(cluster),
		})
	}
	return patterns
}

// consistency 计算簇的规律性得分并截断
func (d *patternDetector) consistency(cluster []float64) float64 {
	c := 1 / (stat.PopStdDev(cluster, nil) + consistencyEpsilon)
	if c > d.maxConsistency {
		c = d.maxConsistency
	}
	return c
}

package classify

import "github.com/packagewjx/loadtest-analyzer/pkg/core"

// TrendConfig 负载趋势分析的参数
type TrendConfig struct {
	PlateauVariationPercent float64 // 最后三个负载等级吞吐量的波动小于此值时认为吞吐量已到顶
	DegradationPercent      float64 // 响应时间增长超过此值时认为服务器已饱和
}

const (
	DefaultPlateauVariationPercent = 10
	DefaultDegradationPercent      = 100
)

func DefaultTrendConfig() TrendConfig {
	return TrendConfig{
		PlateauVariationPercent: DefaultPlateauVariationPercent,
		DegradationPercent:      DefaultDegradationPercent,
	}
}

// Trend 吞吐量与响应时间随负载的变化
type Trend struct {
	// 至少两个负载等级且有吞吐量数据时才有值
	MaxThroughput        *float64
	MaxThroughputThreads int

	Plateau          bool
	PlateauVariation *float64

	ResponseTimeIncrease *float64
	Degraded             bool
}

// AnalyzeTrend 分析按线程数升序排列的负载等级
func AnalyzeTrend(levels []*core.LoadLevel, config TrendConfig) *Trend {
	trend := &Trend{}
	if len(levels) < 2 {
		return trend
	}

	for _, l := range levels {
		if l.Throughput == nil || *l.Throughput == 0 {
			continue
		}
		if trend.MaxThroughput == nil || *l.Throughput > *trend.MaxThroughput {
			trend.MaxThroughput = core.Float(*l.Throughput)
			trend.MaxThroughputThreads = l.Threads
		}
	}

	if len(levels) >= 3 {
		last := make([]float64, 0, 3)
		for _, l := range levels[len(levels)-3:] {
			if l.Throughput != nil && *l.Throughput != 0 {
				last = append(last, *l.Throughput)
			}
		}
		if len(last) == 3 {
			min, max := last[0], last[0]
			for _, v := range last[1:] {
				if v < min {
					min = v
				}
				if v > max {
					max = v
				}
			}
			variation := (max - min) / max * 100
			trend.PlateauVariation = &variation
			trend.Plateau = variation < config.PlateauVariationPercent
		}
	}

	var first, last *float64
	for _, l := range levels {
		if l.AvgResponseTime != nil && *l.AvgResponseTime != 0 {
			first = l.AvgResponseTime
			break
		}
	}
	for i := len(levels) - 1; i >= 0; i-- {
		if levels[i].AvgResponseTime != nil && *levels[i].AvgResponseTime != 0 {
			last = levels[i].AvgResponseTime
			break
		}
	}
	if first != nil && last != nil {
		increase := (*last - *first) / *first * 100
		trend.ResponseTimeIncrease = &increase
		trend.Degraded = increase > config.DegradationPercent
	}

	return trend
}

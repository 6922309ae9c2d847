package classify

import "github.com/packagewjx/loadtest-analyzer/pkg/core"

// Insight 负载对比中某项指标最优的负载
type Insight struct {
	Workload string
	Value    float64
	// 效率计算时CPU为0或缺失，使用1作为除数，此时结果没有参考意义
	LowConfidence bool
}

// Insights 负载对比的结论。没有可用数据的项为nil
type Insights struct {
	BestThroughput   *Insight
	BestResponseTime *Insight
	MostEfficient    *Insight
}

// Efficiency 每1% server CPU对应的吞吐量。CPU为0或缺失时除数取1，并返回lowConfidence
func Efficiency(throughput float64, serverCpu *float64) (value float64, lowConfidence bool) {
	if serverCpu == nil || *serverCpu == 0 {
		return throughput, true
	}
	return throughput / *serverCpu, false
}

// FindInsights 找出吞吐量最大、响应时间最短、效率最高的负载。相等时取靠前的行
func FindInsights(rows []*core.WorkloadMetrics) *Insights {
	result := &Insights{}
	for _, row := range rows {
		if row.Throughput != nil {
			if result.BestThroughput == nil || *row.Throughput > result.BestThroughput.Value {
				result.BestThroughput = &Insight{Workload: row.Workload, Value: *row.Throughput}
			}

			eff, low := Efficiency(*row.Throughput, row.ServerCpu)
			if result.MostEfficient == nil || eff > result.MostEfficient.Value {
				result.MostEfficient = &Insight{Workload: row.Workload, Value: eff, LowConfidence: low}
			}
		}
		if row.AvgResponseTime != nil {
			if result.BestResponseTime == nil || *row.AvgResponseTime < result.BestResponseTime.Value {
				result.BestResponseTime = &Insight{Workload: row.Workload, Value: *row.AvgResponseTime}
			}
		}
	}
	return result
}

package store

import (
	"github.com/packagewjx/loadtest-analyzer/pkg/core"
	"gorm.io/gorm"
)

// LoadLevelDO 一个标签下一个负载等级的结果，标签与线程数唯一
type LoadLevelDO struct {
	gorm.Model
	Label              string `gorm:"size:191;uniqueIndex:unique_level"`
	Threads            int    `gorm:"uniqueIndex:unique_level"`
	Duration           *float64
	TotalRequests      *int64
	SuccessfulRequests *int64
	FailedRequests     *int64
	SuccessRate        *float64
	Throughput         *float64
	AvgResponseTime    *float64
	P50                *float64
	P95                *float64
	P99                *float64

	HasResources         bool
	core.ResourceSummary `gorm:"embedded;embeddedPrefix:res_"`
}

// BottleneckDO 一个负载等级上被触发的瓶颈条件
type BottleneckDO struct {
	gorm.Model
	Label     string `gorm:"size:191;index:idx_label_threads"`
	Threads   int    `gorm:"index:idx_label_threads"`
	Condition string
	Value     float64
}

func toLoadLevelDO(label string, l *core.LoadLevel) *LoadLevelDO {
	do := &LoadLevelDO{
		Label:              label,
		Threads:            l.Threads,
		Duration:           l.Duration,
		TotalRequests:      l.TotalRequests,
		SuccessfulRequests: l.SuccessfulRequests,
		FailedRequests:     l.FailedRequests,
		SuccessRate:        l.SuccessRate,
		Throughput:         l.Throughput,
		AvgResponseTime:    l.AvgResponseTime,
		P50:                l.P50,
		P95:                l.P95,
		P99:                l.P99,
	}
	if l.Resources != nil {
		do.HasResources = true
		do.ResourceSummary = *l.Resources
	}
	return do
}

func (do *LoadLevelDO) toLoadLevel() *core.LoadLevel {
	l := &core.LoadLevel{
		RunMetrics: core.RunMetrics{
			Threads:            do.Threads,
			Duration:           do.Duration,
			TotalRequests:      do.TotalRequests,
			SuccessfulRequests: do.SuccessfulRequests,
			FailedRequests:     do.FailedRequests,
			SuccessRate:        do.SuccessRate,
			Throughput:         do.Throughput,
			AvgResponseTime:    do.AvgResponseTime,
			P50:                do.P50,
			P95:                do.P95,
			P99:                do.P99,
		},
	}
	if do.HasResources {
		r := do.ResourceSummary
		l.Resources = &r
	}
	return l
}

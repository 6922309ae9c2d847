package chart

import (
	"fmt"
	"path/filepath"

	"github.com/packagewjx/loadtest-analyzer/internal/classify"
	"github.com/packagewjx/loadtest-analyzer/internal/table"
	"github.com/packagewjx/loadtest-analyzer/pkg/core"
)

const threadsLabel = "Number of Threads (Load)"

// levelSeries 以线程数为X轴生成序列，值为nil的点被忽略
func levelSeries(name string, rows []*core.LoadLevel, get func(l *core.LoadLevel) *float64) *Series {
	s := &Series{Name: name, Points: make([]Point, 0, len(rows))}
	for _, row := range rows {
		if v := get(row); v != nil {
			s.Points = append(s.Points, Point{X: float64(row.Threads), Y: *v})
		}
	}
	return s
}

// resource 从资源数据中取值，没有资源数据时为nil
func resource(get func(r *core.ResourceSummary) float64) func(l *core.LoadLevel) *float64 {
	return func(l *core.LoadLevel) *float64 {
		if l.Resources == nil {
			return nil
		}
		return core.Float(get(l.Resources))
	}
}

// RunCharts 单个负载各负载等级的六张图
func RunCharts(t *table.RunTable) *Document {
	rows := t.Rows
	throughput := func(l *core.LoadLevel) *float64 { return l.Throughput }
	avgRt := func(l *core.LoadLevel) *float64 { return l.AvgResponseTime }
	serverCpu := resource(func(r *core.ResourceSummary) float64 { return r.ServerCpuAvg })
	mysqlCpu := resource(func(r *core.ResourceSummary) float64 { return r.MysqlCpuAvg })

	withSecondary := func(s *Series) *Series {
		s.Secondary = true
		return s
	}

	return &Document{
		Title: fmt.Sprintf("Load Test Analysis: %s", filepath.Base(t.Dir)),
		Charts: []*Spec{
			{
				Title:  "Throughput vs Load",
				Kind:   Line,
				XLabel: threadsLabel,
				YLabel: "Throughput (req/s)",
				Series: []*Series{levelSeries("Throughput", rows, throughput)},
			},
			{
				Title:  "Response Time vs Load",
				Kind:   Line,
				XLabel: threadsLabel,
				YLabel: "Response Time (ms)",
				Series: []*Series{
					levelSeries("Avg Response Time", rows, avgRt),
					levelSeries("P95", rows, func(l *core.LoadLevel) *float64 { return l.P95 }),
				},
			},
			{
				Title:  "CPU Utilization vs Load",
				Kind:   Line,
				XLabel: threadsLabel,
				YLabel: "CPU Usage (%)",
				Series: []*Series{
					levelSeries("Server CPU", rows, serverCpu),
					levelSeries("MySQL CPU", rows, mysqlCpu),
					levelSeries("System CPU", rows, resource(func(r *core.ResourceSummary) float64 { return r.SystemCpuUsedAvg })),
				},
				Threshold: core.Float(100),
			},
			{
				Title:   "Throughput vs Server CPU",
				Kind:    Line,
				XLabel:  threadsLabel,
				YLabel:  "Throughput (req/s)",
				Y2Label: "Server CPU Usage (%)",
				Series: []*Series{
					levelSeries("Throughput", rows, throughput),
					withSecondary(levelSeries("Server CPU", rows, serverCpu)),
				},
			},
			{
				Title:   "Response Time vs MySQL CPU",
				Kind:    Line,
				XLabel:  threadsLabel,
				YLabel:  "Response Time (ms)",
				Y2Label: "MySQL CPU Usage (%)",
				Series: []*Series{
					levelSeries("Avg Response Time", rows, avgRt),
					withSecondary(levelSeries("MySQL CPU", rows, mysqlCpu)),
				},
			},
			{
				Title:  "Disk I/O vs Load",
				Kind:   Line,
				XLabel: threadsLabel,
				YLabel: "Disk I/O (KB/s)",
				Series: []*Series{
					levelSeries("Disk Read", rows, resource(func(r *core.ResourceSummary) float64 { return r.DiskReadAvg })),
					levelSeries("Disk Write", rows, resource(func(r *core.ResourceSummary) float64 { return r.DiskWriteAvg })),
				},
			},
		},
	}
}

const workloadLabel = "Workload Type"

// workloadSeries 以负载序号为X轴生成柱状图序列
func workloadSeries(name string, rows []*core.WorkloadMetrics, get func(w *core.WorkloadMetrics) *float64) *Series {
	s := &Series{Name: name, Points: make([]Point, 0, len(rows))}
	for i, row := range rows {
		if v := get(row); v != nil {
			s.Points = append(s.Points, Point{X: float64(i), Y: *v, Label: row.Workload})
		}
	}
	return s
}

// ComparisonCharts 多负载在最高负载等级下的六张对比图
func ComparisonCharts(t *table.ComparisonTable, th classify.Thresholds) *Document {
	rows := t.Rows

	scatter := &Series{Name: "Workloads", Points: make([]Point, 0, len(rows))}
	efficiency := &Series{Name: "Efficiency", Points: make([]Point, 0, len(rows))}
	for i, row := range rows {
		if row.Throughput == nil {
			continue
		}
		if row.ServerCpu != nil {
			scatter.Points = append(scatter.Points, Point{X: *row.ServerCpu, Y: *row.Throughput, Label: row.Workload})
		}
		eff, _ := classify.Efficiency(*row.Throughput, row.ServerCpu)
		efficiency.Points = append(efficiency.Points, Point{X: float64(i), Y: eff, Label: row.Workload})
	}

	return &Document{
		Title: "Multi-Workload Performance Analysis & Bottleneck Identification",
		Charts: []*Spec{
			{
				Title:  "Throughput Comparison (Max Load)",
				Kind:   Bar,
				XLabel: workloadLabel,
				YLabel: "Throughput (req/s)",
				Series: []*Series{workloadSeries("Throughput", rows, func(w *core.WorkloadMetrics) *float64 { return w.Throughput })},
			},
			{
				Title:  "Response Time Comparison (Max Load)",
				Kind:   Bar,
				XLabel: workloadLabel,
				YLabel: "Avg Response Time (ms)",
				Series: []*Series{workloadSeries("Avg Response Time", rows, func(w *core.WorkloadMetrics) *float64 { return w.AvgResponseTime })},
			},
			{
				Title:  "CPU Utilization Comparison",
				Kind:   Bar,
				XLabel: workloadLabel,
				YLabel: "CPU Usage (%)",
				Series: []*Series{
					workloadSeries("Server CPU", rows, func(w *core.WorkloadMetrics) *float64 { return w.ServerCpu }),
					workloadSeries("MySQL CPU", rows, func(w *core.WorkloadMetrics) *float64 { return w.MysqlCpu }),
					workloadSeries("System CPU", rows, func(w *core.WorkloadMetrics) *float64 { return w.SystemCpu }),
				},
				Threshold: core.Float(th.CpuPercent),
			},
			{
				Title:  "Disk I/O Comparison",
				Kind:   Bar,
				XLabel: workloadLabel,
				YLabel: "Disk I/O (KB/s)",
				Series: []*Series{
					workloadSeries("Disk Read", rows, func(w *core.WorkloadMetrics) *float64 { return w.DiskRead }),
					workloadSeries("Disk Write", rows, func(w *core.WorkloadMetrics) *float64 { return w.DiskWrite }),
				},
				Threshold: core.Float(th.DiskKBps),
			},
			{
				Title:  "Throughput vs CPU (Bottleneck Analysis)",
				Kind:   Scatter,
				XLabel: "Server CPU Usage (%)",
				YLabel: "Throughput (req/s)",
				Series: []*Series{scatter},
			},
			{
				Title:  "Performance Efficiency",
				Kind:   Bar,
				XLabel: workloadLabel,
				YLabel: "Efficiency (req/s per CPU%)",
				Series: []*Series{efficiency},
			},
		},
	}
}

package exporter

import (
	"path/filepath"
	"strconv"

	"github.com/packagewjx/loadtest-analyzer/internal/classify"
	"github.com/packagewjx/loadtest-analyzer/internal/logger"
	"github.com/packagewjx/loadtest-analyzer/internal/table"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const DefaultFileName = "loadtest.prom"

// Exporter 把一组压测结果转换为Prometheus指标，输出为node exporter的textfile格式
type Exporter struct {
	throughput   *prometheus.GaugeVec
	responseTime *prometheus.GaugeVec
	successRate  *prometheus.GaugeVec
	cpu          *prometheus.GaugeVec
	disk         *prometheus.GaugeVec
	bottleneck   *prometheus.GaugeVec

	thresholds classify.Thresholds
	registry   *prometheus.Registry
}

// NewExporter run为结果目录名，作为所有指标的常量标签
func NewExporter(run string, th classify.Thresholds) *Exporter {
	labels := prometheus.Labels{"run": run}
	e := &Exporter{
		throughput: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "loadtest_throughput_requests_per_second",
				Help:        "Average throughput of a load level",
				ConstLabels: labels,
			},
			[]string{"threads"},
		),
		responseTime: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "loadtest_response_time_milliseconds",
				Help:        "Response time of a load level, quantile is avg, 0.5, 0.95 or 0.99",
				ConstLabels: labels,
			},
			[]string{"threads", "quantile"},
		),
		successRate: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "loadtest_success_rate_percent",
				Help:        "Percentage of successful requests",
				ConstLabels: labels,
			},
			[]string{"threads"},
		),
		cpu: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "loadtest_cpu_percent",
				Help:        "CPU usage after the warmup window, process is server, mysql or system",
				ConstLabels: labels,
			},
			[]string{"threads", "process", "stat"},
		),
		disk: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "loadtest_disk_kilobytes_per_second",
				Help:        "Disk throughput after the warmup window",
				ConstLabels: labels,
			},
			[]string{"threads", "direction", "stat"},
		),
		bottleneck: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "loadtest_bottleneck",
				Help:        "1 when the bottleneck condition is triggered at the load level",
				ConstLabels: labels,
			},
			[]string{"threads", "condition"},
		),
		thresholds: th,
		registry:   prometheus.NewRegistry(),
	}

	e.registry.MustRegister(e.throughput, e.responseTime, e.successRate, e.cpu, e.disk, e.bottleneck)
	return e
}

// Observe 设置表格中每个负载等级的指标。没有值的指标不会输出
func (e *Exporter) Observe(t *table.RunTable) {
	for _, row := range t.Rows {
		threads := strconv.Itoa(row.Threads)
		if row.Throughput != nil {
			e.throughput.WithLabelValues(threads).Set(*row.Throughput)
		}
		if row.SuccessRate != nil {
			e.successRate.WithLabelValues(threads).Set(*row.SuccessRate)
		}
		quantiles := []struct {
			quantile string
			value    *float64
		}{
			{"avg", row.AvgResponseTime},
			{"0.5", row.P50},
			{"0.95", row.P95},
			{"0.99", row.P99},
		}
		for _, q := range quantiles {
			if q.value != nil {
				e.responseTime.WithLabelValues(threads, q.quantile).Set(*q.value)
			}
		}

		r := row.Resources
		if r == nil {
			continue
		}
		e.cpu.WithLabelValues(threads, "server", "avg").Set(r.ServerCpuAvg)
		e.cpu.WithLabelValues(threads, "server", "max").Set(r.ServerCpuMax)
		e.cpu.WithLabelValues(threads, "mysql", "avg").Set(r.MysqlCpuAvg)
		e.cpu.WithLabelValues(threads, "mysql", "max").Set(r.MysqlCpuMax)
		e.cpu.WithLabelValues(threads, "system", "avg").Set(r.SystemCpuUsedAvg)
		e.cpu.WithLabelValues(threads, "system", "max").Set(r.SystemCpuUsedMax)
		e.disk.WithLabelValues(threads, "read", "avg").Set(r.DiskReadAvg)
		e.disk.WithLabelValues(threads, "read", "max").Set(r.DiskReadMax)
		e.disk.WithLabelValues(threads, "write", "avg").Set(r.DiskWriteAvg)
		e.disk.WithLabelValues(threads, "write", "max").Set(r.DiskWriteMax)

		for _, c := range classify.Classify(row.Usage(), e.thresholds).Conditions {
			e.bottleneck.WithLabelValues(threads, string(c.Kind)).Set(1)
		}
	}
}

// WriteTextfile 写入textfile格式的文件
func (e *Exporter) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, e.registry); err != nil {
		return errors.Wrap(err, "写入指标文件出错")
	}
	logger.Info("指标文件已写入", zap.String("path", path))
	return nil
}

// Export 将结果目录的表格导出到path
func Export(t *table.RunTable, th classify.Thresholds, path string) error {
	e := NewExporter(filepath.Base(t.Dir), th)
	e.Observe(t)
	return e.WriteTextfile(path)
}

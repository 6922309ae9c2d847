package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/packagewjx/loadtest-analyzer/internal/classify"
	"github.com/packagewjx/loadtest-analyzer/internal/logparse"
	"github.com/packagewjx/loadtest-analyzer/internal/table"
	"github.com/pkg/errors"
)

var SummaryCSVHeader = []string{"threads", "throughput", "avg_response_time", "p50", "p95", "p99", "success_rate"}

// WriteSummaryCSV 每个负载等级一行，按线程数升序
func WriteSummaryCSV(w io.Writer, t *table.RunTable) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(SummaryCSVHeader); err != nil {
		return errors.Wrap(err, "写入表头出错")
	}

	for _, row := range t.Rows {
		record := []string{
			strconv.Itoa(row.Threads),
			csvValue(row.Throughput),
			csvValue(row.AvgResponseTime),
			csvValue(row.P50),
			csvValue(row.P95),
			csvValue(row.P99),
			csvValue(row.SuccessRate),
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, fmt.Sprintf("写入线程数为%d的数据出错", row.Threads))
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteRunSummary 写入summary.txt。格式与logparse.ParseSummary读取的格式一致
func WriteRunSummary(w io.Writer, t *table.RunTable, th classify.Thresholds) error {
	p := &printer{w: w}
	p.line(rule('=', 70))
	p.line("LOAD TEST SUMMARY")
	p.line(rule('=', 70))
	p.line("")

	for _, row := range t.Rows {
		p.printf("\n%s\n", rule('=', 70))
		p.printf("%s %d threads\n", logparse.LoadLevelMarker, row.Threads)
		p.line(rule('=', 70))

		p.line("\nPerformance Metrics:")
		p.printf("  Throughput:         %s\n", value(row.Throughput, "%.2f req/s"))
		p.printf("  Avg Response Time:  %s\n", value(row.AvgResponseTime, "%.2f ms"))
		p.printf("  P50 Response Time:  %s\n", value(row.P50, "%.2f ms"))
		p.printf("  P95 Response Time:  %s\n", value(row.P95, "%.2f ms"))
		p.printf("  P99 Response Time:  %s\n", value(row.P99, "%.2f ms"))
		p.printf("  Success Rate:       %s\n", value(row.SuccessRate, "%.2f%%"))

		if r := row.Resources; r != nil {
			p.line("\nResource Utilization:")
			p.printf("  Server CPU (avg):   %.2f%%\n", r.ServerCpuAvg)
			p.printf("  Server CPU (max):   %.2f%%\n", r.ServerCpuMax)
			p.printf("  MySQL CPU (avg):    %.2f%%\n", r.MysqlCpuAvg)
			p.printf("  MySQL CPU (max):    %.2f%%\n", r.MysqlCpuMax)
			p.printf("  System CPU (avg):   %.2f%%\n", r.SystemCpuUsedAvg)
			p.printf("  Server Memory:      %.2f MB\n", r.ServerMemAvg)
			p.printf("  MySQL Memory:       %.2f MB\n", r.MysqlMemAvg)
			p.printf("  Disk Read (avg):    %.2f KB/s\n", r.DiskReadAvg)
			p.printf("  Disk Write (avg):   %.2f KB/s\n", r.DiskWriteAvg)
		}
	}

	p.printf("\n%s\n", rule('=', 70))
	p.line("BOTTLENECK ANALYSIS")
	p.line(rule('=', 70))
	p.line("")

	highest := t.Highest()
	switch {
	case highest == nil || highest.Resources == nil:
		p.line("Resource data unavailable at highest load")
	default:
		verdict := classify.Classify(highest.Usage(), th)
		if verdict.Balanced() {
			p.printf("%s\n", classify.BalancedLabel)
		} else {
			p.printf("Identified bottlenecks (at %d threads):\n", highest.Threads)
			for _, c := range verdict.Conditions {
				p.printf("  - %s\n", formatCondition(c))
			}
		}
	}

	p.printf("\n%s\n", rule('=', 70))
	return p.err
}

// PrintRunTable 在控制台输出各负载等级的主要指标
func PrintRunTable(w io.Writer, t *table.RunTable) error {
	p := &printer{w: w}
	p.line(rule('=', 100))
	p.printf("Load Test Results Summary - %s\n", filepath.Base(t.Dir))
	p.line(rule('=', 100))
	p.printf("%-10s %-15s %-15s %-12s %-12s %-12s %-12s %-12s\n",
		"Threads", "Throughput", "Avg RT (ms)", "P95 (ms)", "P99 (ms)", "Success %", "Server CPU", "MySQL CPU")
	p.line(rule('-', 100))
	for _, row := range t.Rows {
		serverCpu, mysqlCpu := NotAvailable, NotAvailable
		if row.Resources != nil {
			serverCpu = fmt.Sprintf("%.1f%%", row.Resources.ServerCpuAvg)
			mysqlCpu = fmt.Sprintf("%.1f%%", row.Resources.MysqlCpuAvg)
		}
		p.printf("%-10d %-15s %-15s %-12s %-12s %-12s %-12s %-12s\n",
			row.Threads,
			value(row.Throughput, "%.2f"),
			value(row.AvgResponseTime, "%.2f"),
			value(row.P95, "%.2f"),
			value(row.P99, "%.2f"),
			value(row.SuccessRate, "%.2f"),
			serverCpu,
			mysqlCpu)
	}
	p.line(rule('=', 100))
	return p.err
}

// PrintTrend 输出吞吐量与响应时间的趋势分析
func PrintTrend(w io.Writer, trend *classify.Trend, config classify.TrendConfig) error {
	p := &printer{w: w}
	p.line("Quick Analysis:")
	p.line(rule('-', 100))

	if trend.MaxThroughput == nil && trend.ResponseTimeIncrease == nil {
		p.line("Not enough load levels for trend analysis")
		p.line("")
		return p.err
	}

	if trend.MaxThroughput != nil {
		p.printf("Maximum throughput: %.2f req/s at %d threads\n", *trend.MaxThroughput, trend.MaxThroughputThreads)
	}
	if trend.Plateau {
		p.printf("Throughput appears to be plateauing (variation %.1f%% < %g%%)\n",
			*trend.PlateauVariation, config.PlateauVariationPercent)
		p.printf("Estimated capacity: ~%.2f req/s\n", *trend.MaxThroughput)
	}
	if trend.ResponseTimeIncrease != nil {
		p.printf("Response time increased by %.1f%% from lowest to highest load\n", *trend.ResponseTimeIncrease)
		if trend.Degraded {
			p.line("WARNING: Significant response time degradation detected - server may be saturated")
		}
	}
	p.line("")
	return p.err
}

// WriteRunReports 在结果目录中写入summary.csv与summary.txt
func WriteRunReports(t *table.RunTable, th classify.Thresholds) error {
	err := createFile(filepath.Join(t.Dir, SummaryCSVName), func(w io.Writer) error {
		return WriteSummaryCSV(w, t)
	})
	if err != nil {
		return err
	}
	return createFile(filepath.Join(t.Dir, SummaryTextName), func(w io.Writer) error {
		return WriteRunSummary(w, t, th)
	})
}

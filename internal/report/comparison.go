package report

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/packagewjx/loadtest-analyzer/internal/classify"
	"github.com/packagewjx/loadtest-analyzer/internal/table"
)

func cpuValue(f *float64) string {
	return value(f, "%.1f%%")
}

// WriteBottleneckAnalysis 写入多负载对比的瓶颈分析
func WriteBottleneckAnalysis(w io.Writer, t *table.ComparisonTable, th classify.Thresholds) error {
	p := &printer{w: w}
	p.line(rule('=', 80))
	p.line("MULTI-WORKLOAD BOTTLENECK ANALYSIS")
	p.line(rule('=', 80))
	p.line("")

	p.line("Performance Summary (at maximum load):")
	p.line(rule('-', 80))
	p.printf("%-18s %-15s %-15s %-15s %-15s\n", "Workload", "Throughput", "Resp Time", "Server CPU", "Type")
	p.line(rule('-', 80))
	for _, row := range t.Rows {
		p.printf("%-18s %-15s %-15s %-15s %-15s\n",
			row.Workload,
			value(row.Throughput, "%.2f"),
			value(row.AvgResponseTime, "%.2f"),
			cpuValue(row.ServerCpu),
			classify.WorkloadType(row.Workload))
	}

	p.printf("\n%s\n", rule('=', 80))
	p.line("BOTTLENECK IDENTIFICATION")
	p.line(rule('=', 80))
	p.line("")
	for _, row := range t.Rows {
		p.printf("\n%s:\n", strings.ToUpper(row.Workload))
		verdict := classify.Classify(row.Usage(), th)
		if verdict.Balanced() {
			p.printf("  %s\n", classify.BalancedLabel)
			continue
		}
		for _, c := range verdict.Conditions {
			p.printf("  ! %s\n", formatCondition(c))
		}
		if label := verdict.PrimaryLabel(); label != "" {
			p.printf("  Primary: %s\n", label)
		}
	}

	p.printf("\n%s\n", rule('=', 80))
	p.line("PERFORMANCE INSIGHTS")
	p.line(rule('=', 80))
	p.line("")

	insights := classify.FindInsights(t.Rows)
	if i := insights.BestThroughput; i != nil {
		p.printf("Best Throughput:    %s (%.2f req/s)\n", i.Workload, i.Value)
	}
	if i := insights.BestResponseTime; i != nil {
		p.printf("Best Response Time: %s (%.2f ms)\n", i.Workload, i.Value)
	}
	if i := insights.MostEfficient; i != nil {
		marker := ""
		if i.LowConfidence {
			marker = " (low confidence)"
		}
		p.printf("Most Efficient:     %s (%.2f req/s per CPU%%)%s\n", i.Workload, i.Value, marker)
	}

	p.printf("\n%s\n", rule('=', 80))
	return p.err
}

// PrintComparison 在控制台输出多负载对比，groups不为空时附带资源画像分组
func PrintComparison(w io.Writer, t *table.ComparisonTable, th classify.Thresholds, groups []*classify.Group) error {
	p := &printer{w: w}
	p.printf("\n%s\n", rule('=', 80))
	p.line("WORKLOAD COMPARISON SUMMARY")
	p.line(rule('=', 80))
	p.printf("\n%-18s %-15s %-12s %-12s %-15s\n", "Workload", "Throughput", "Resp Time", "Server CPU", "Bottleneck")
	p.line(rule('-', 80))
	for _, row := range t.Rows {
		verdict := classify.Classify(row.Usage(), th)
		p.printf("%-18s %-15s %-12s %-12s %-15s\n",
			row.Workload,
			value(row.Throughput, "%.2f"),
			value(row.AvgResponseTime, "%.2f"),
			cpuValue(row.ServerCpu),
			string(verdict.Primary))
	}

	if len(groups) > 0 {
		p.line("")
		p.line("Resource profile groups:")
		for _, g := range groups {
			p.printf("  Group %d: %s\n", g.Id, strings.Join(g.Workloads, ", "))
		}
	}
	p.line(rule('=', 80))
	p.line("")
	return p.err
}

// WriteComparisonReports 在对比目录中写入bottleneck_analysis.txt
func WriteComparisonReports(t *table.ComparisonTable, th classify.Thresholds) error {
	return createFile(filepath.Join(t.Dir, AnalysisFileName), func(w io.Writer) error {
		return WriteBottleneckAnalysis(w, t, th)
	})
}

// PrintIssues 输出构建表格时跳过或不完整的输入
func PrintIssues(w io.Writer, issues []*table.Issue) error {
	if len(issues) == 0 {
		return nil
	}
	p := &printer{w: w}
	p.printf("%d input issue(s):\n", len(issues))
	for _, issue := range issues {
		p.printf("  [%s] %s: %s\n", issue.Kind, filepath.Base(issue.Path), issue.Detail)
	}
	p.line("")
	return p.err
}

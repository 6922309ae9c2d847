package report

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/packagewjx/loadtest-analyzer/internal/classify"
	"github.com/packagewjx/loadtest-analyzer/internal/logparse"
	"github.com/packagewjx/loadtest-analyzer/internal/table"
	"github.com/packagewjx/loadtest-analyzer/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resources(serverCpu, mysqlCpu, diskWrite float64) *core.ResourceSummary {
	return &core.ResourceSummary{
		ServerCpuAvg:     serverCpu,
		ServerCpuMax:     serverCpu + 5,
		MysqlCpuAvg:      mysqlCpu,
		MysqlCpuMax:      mysqlCpu + 5,
		SystemCpuUsedAvg: 60,
		SystemCpuUsedMax: 70,
		ServerMemAvg:     512,
		MysqlMemAvg:      1024,
		DiskReadAvg:      100,
		DiskReadMax:      200,
		DiskWriteAvg:     diskWrite,
		DiskWriteMax:     diskWrite * 2,
	}
}

func runTable() *table.RunTable {
	return &table.RunTable{
		Dir: "results_get_all_20240101_120000",
		Rows: []*core.LoadLevel{
			{
				RunMetrics: core.RunMetrics{
					Threads:         4,
					Throughput:      core.Float(200),
					AvgResponseTime: core.Float(10.5),
					P50:             core.Float(9),
					P95:             core.Float(20),
					P99:             core.Float(30),
					SuccessRate:     core.Float(100),
				},
				Resources: resources(30, 20, 500),
			},
			{
				RunMetrics: core.RunMetrics{
					Threads:    8,
					Throughput: core.Float(350.25),
				},
			},
			{
				RunMetrics: core.RunMetrics{
					Threads:         16,
					Throughput:      core.Float(523.45),
					AvgResponseTime: core.Float(30.5),
					P50:             core.Float(28.1),
					P95:             core.Float(55.2),
					P99:             core.Float(80.9),
					SuccessRate:     core.Float(99.98),
				},
				Resources: resources(85, 40, 500),
			},
		},
	}
}

func TestWriteSummaryCSV(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteSummaryCSV(buf, runTable()))

	expected := "threads,throughput,avg_response_time,p50,p95,p99,success_rate\n" +
		"4,200,10.5,9,20,30,100\n" +
		"8,350.25,,,,,\n" +
		"16,523.45,30.5,28.1,55.2,80.9,99.98\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteRunSummary(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteRunSummary(buf, runTable(), classify.DefaultThresholds()))
	s := buf.String()

	assert.Contains(t, s, "LOAD LEVEL: 16 threads")
	assert.Contains(t, s, "  Throughput:         523.45 req/s")
	assert.Contains(t, s, "  Avg Response Time:  N/A")
	assert.Contains(t, s, "Identified bottlenecks (at 16 threads):")
	assert.Contains(t, s, "  - server CPU saturated (85.0%)")
	assert.NotContains(t, s, "database CPU saturated")
	assert.Equal(t, 3, strings.Count(s, logparse.LoadLevelMarker))
}

func TestWriteRunSummaryBalanced(t *testing.T) {
	rt := runTable()
	rt.Rows[2].Resources = resources(50, 40, 500)
	buf := &bytes.Buffer{}
	require.NoError(t, WriteRunSummary(buf, rt, classify.DefaultThresholds()))
	assert.Contains(t, buf.String(), classify.BalancedLabel)

	rt.Rows[2].Resources = nil
	buf.Reset()
	require.NoError(t, WriteRunSummary(buf, rt, classify.DefaultThresholds()))
	assert.Contains(t, buf.String(), "Resource data unavailable at highest load")
}

// summary.txt必须能被对比分析重新读取
func TestRunSummaryRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteRunSummary(buf, runTable(), classify.DefaultThresholds()))

	path := filepath.Join("master", "results_get_all_20240101_120000", "summary.txt")
	m, missing, err := logparse.ParseSummary(path, buf.String())
	require.NoError(t, err)
	assert.Empty(t, missing)
	assert.Equal(t, "get_all", m.Workload)
	assert.Equal(t, 16, *m.Threads)
	assert.Equal(t, 523.45, *m.Throughput)
	assert.Equal(t, 30.5, *m.AvgResponseTime)
	assert.Equal(t, 55.2, *m.P95)
	assert.Equal(t, 85.0, *m.ServerCpu)
	assert.Equal(t, 40.0, *m.MysqlCpu)
	assert.Equal(t, 60.0, *m.SystemCpu)
	assert.Equal(t, 100.0, *m.DiskRead)
	assert.Equal(t, 500.0, *m.DiskWrite)
}

func TestPrintRunTable(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, PrintRunTable(buf, runTable()))
	s := buf.String()
	assert.Contains(t, s, "Load Test Results Summary - results_get_all_20240101_120000")
	assert.Contains(t, s, "85.0%")

	lines := strings.Split(s, "\n")
	var row8 string
	for _, l := range lines {
		if strings.HasPrefix(l, "8 ") {
			row8 = l
		}
	}
	assert.Contains(t, row8, "350.25")
	assert.Contains(t, row8, NotAvailable)
}

func TestPrintTrend(t *testing.T) {
	rt := runTable()
	trend := classify.AnalyzeTrend(rt.Rows, classify.DefaultTrendConfig())
	buf := &bytes.Buffer{}
	require.NoError(t, PrintTrend(buf, trend, classify.DefaultTrendConfig()))
	s := buf.String()
	assert.Contains(t, s, "Maximum throughput: 523.45 req/s at 16 threads")
	assert.Contains(t, s, "Response time increased by 190.5% from lowest to highest load")
	assert.Contains(t, s, "WARNING: Significant response time degradation")
	assert.NotContains(t, s, "plateauing")

	buf.Reset()
	require.NoError(t, PrintTrend(buf, &classify.Trend{}, classify.DefaultTrendConfig()))
	assert.Contains(t, buf.String(), "Not enough load levels")
}

func comparisonTable() *table.ComparisonTable {
	return &table.ComparisonTable{
		Dir: "master",
		Rows: []*core.WorkloadMetrics{
			{Workload: "get_all", Throughput: core.Float(1000), AvgResponseTime: core.Float(30),
				ServerCpu: core.Float(50), MysqlCpu: core.Float(40), DiskRead: core.Float(100), DiskWrite: core.Float(20000)},
			{Workload: "compute_hash", Throughput: core.Float(500), AvgResponseTime: core.Float(60),
				ServerCpu: core.Float(95), MysqlCpu: core.Float(5), DiskRead: core.Float(0), DiskWrite: core.Float(10)},
			{Workload: "mixed", Throughput: core.Float(300), AvgResponseTime: core.Float(20)},
		},
	}
}

func TestWriteBottleneckAnalysis(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteBottleneckAnalysis(buf, comparisonTable(), classify.DefaultThresholds()))
	s := buf.String()

	assert.Contains(t, s, "Disk-bound")
	assert.Contains(t, s, "GET_ALL:\n  ! high disk write I/O (20000.0 KB/s)")
	assert.Contains(t, s, "GET_ALL:\n  ! high disk write I/O (20000.0 KB/s)\n  Primary: high disk write I/O\n")
	assert.Contains(t, s, "COMPUTE_HASH:\n  ! server CPU saturated (95.0%)\n  Primary: server CPU saturated\n")
	assert.Equal(t, 2, strings.Count(s, "  Primary: "))
	assert.Contains(t, s, "MIXED:\n  "+classify.BalancedLabel)
	assert.Contains(t, s, "Best Throughput:    get_all (1000.00 req/s)")
	assert.Contains(t, s, "Best Response Time: mixed (20.00 ms)")
	assert.Contains(t, s, "Most Efficient:     mixed (300.00 req/s per CPU%) (low confidence)")
}

func TestPrintComparison(t *testing.T) {
	groups := []*classify.Group{
		{Id: 1, Workloads: []string{"get_all", "mixed"}},
		{Id: 2, Workloads: []string{"compute_hash"}},
	}
	buf := &bytes.Buffer{}
	require.NoError(t, PrintComparison(buf, comparisonTable(), classify.DefaultThresholds(), groups))
	s := buf.String()

	for _, l := range strings.Split(s, "\n") {
		switch {
		case strings.HasPrefix(l, "get_all "):
			assert.True(t, strings.HasSuffix(strings.TrimSpace(l), "Disk I/O"))
		case strings.HasPrefix(l, "compute_hash "):
			assert.True(t, strings.HasSuffix(strings.TrimSpace(l), "CPU"))
		case strings.HasPrefix(l, "mixed "):
			assert.True(t, strings.HasSuffix(strings.TrimSpace(l), "None"))
		}
	}
	assert.Contains(t, s, "  Group 1: get_all, mixed")
}

func TestWriteReports(t *testing.T) {
	dir := t.TempDir()
	rt := runTable()
	rt.Dir = dir
	require.NoError(t, WriteRunReports(rt, classify.DefaultThresholds()))

	first, err := ioutil.ReadFile(filepath.Join(dir, SummaryTextName))
	require.NoError(t, err)
	require.NoError(t, WriteRunReports(rt, classify.DefaultThresholds()))
	second, err := ioutil.ReadFile(filepath.Join(dir, SummaryTextName))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = ioutil.ReadFile(filepath.Join(dir, SummaryCSVName))
	assert.NoError(t, err)

	ct := comparisonTable()
	ct.Dir = dir
	require.NoError(t, WriteComparisonReports(ct, classify.DefaultThresholds()))
	_, err = ioutil.ReadFile(filepath.Join(dir, AnalysisFileName))
	assert.NoError(t, err)
}

func TestPrintIssues(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, PrintIssues(buf, nil))
	assert.Empty(t, buf.String())

	require.NoError(t, PrintIssues(buf, []*table.Issue{{Path: "/a/resources_8threads.csv", Kind: table.IssueMissingResource, Detail: "x"}}))
	assert.Contains(t, buf.String(), "[missing_resource] resources_8threads.csv: x")
}

package chart

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/packagewjx/loadtest-analyzer/internal/classify"
	"github.com/packagewjx/loadtest-analyzer/internal/table"
	"github.com/packagewjx/loadtest-analyzer/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func runTable() *table.RunTable {
	return &table.RunTable{
		Dir: "/tmp/results_get_all_20240101_120000",
		Rows: []*core.LoadLevel{
			{
				RunMetrics: core.RunMetrics{Threads: 4, Throughput: core.Float(200), AvgResponseTime: core.Float(10)},
				Resources:  &core.ResourceSummary{ServerCpuAvg: 30, MysqlCpuAvg: 20, DiskWriteAvg: 500},
			},
			{
				RunMetrics: core.RunMetrics{Threads: 8, Throughput: core.Float(350)},
			},
		},
	}
}

func TestRunCharts(t *testing.T) {
	doc := RunCharts(runTable())
	assert.Equal(t, "Load Test Analysis: results_get_all_20240101_120000", doc.Title)
	require.Len(t, doc.Charts, 6)

	throughput := doc.Charts[0]
	assert.Equal(t, Line, throughput.Kind)
	assert.Equal(t, []Point{{X: 4, Y: 200}, {X: 8, Y: 350}}, throughput.Series[0].Points)

	// 缺失的数据点被忽略
	rt := doc.Charts[1]
	assert.Equal(t, []Point{{X: 4, Y: 10}}, rt.Series[0].Points)
	assert.Empty(t, rt.Series[1].Points)

	cpu := doc.Charts[3]
	assert.False(t, cpu.Series[0].Secondary)
	assert.True(t, cpu.Series[1].Secondary)
	assert.Equal(t, []Point{{X: 4, Y: 30}}, cpu.Series[1].Points)
}

func comparisonTable() *table.ComparisonTable {
	return &table.ComparisonTable{
		Rows: []*core.WorkloadMetrics{
			{Workload: "get_all", Throughput: core.Float(1000), ServerCpu: core.Float(50)},
			{Workload: "mixed", Throughput: core.Float(300)},
		},
	}
}

func TestComparisonCharts(t *testing.T) {
	doc := ComparisonCharts(comparisonTable(), classify.DefaultThresholds())
	require.Len(t, doc.Charts, 6)

	assert.Equal(t, []Point{{X: 0, Y: 1000, Label: "get_all"}, {X: 1, Y: 300, Label: "mixed"}},
		doc.Charts[0].Series[0].Points)
	assert.Equal(t, 80.0, *doc.Charts[2].Threshold)

	scatter := doc.Charts[4]
	assert.Equal(t, Scatter, scatter.Kind)
	assert.Equal(t, []Point{{X: 50, Y: 1000, Label: "get_all"}}, scatter.Series[0].Points)

	efficiency := doc.Charts[5].Series[0].Points
	assert.Equal(t, []Point{{X: 0, Y: 20, Label: "get_all"}, {X: 1, Y: 300, Label: "mixed"}}, efficiency)
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("charts.JSON")
	assert.NoError(t, err)
	assert.Equal(t, JSON, f)

	f, err = FormatFromPath("charts.yml")
	assert.NoError(t, err)
	assert.Equal(t, YAML, f)

	_, err = FormatFromPath("charts.png")
	assert.Error(t, err)
}

func TestWriteRead(t *testing.T) {
	doc := RunCharts(runTable())
	for _, format := range []Format{JSON, YAML} {
		buf := &bytes.Buffer{}
		require.NoError(t, Write(buf, doc, format))
		read := &Document{}
		if format == JSON {
			require.NoError(t, json.Unmarshal(buf.Bytes(), read))
		} else {
			require.NoError(t, yaml.Unmarshal(buf.Bytes(), read))
		}
		assert.Equal(t, doc.Title, read.Title)
		assert.Len(t, read.Charts, 6)
		assert.Equal(t, doc.Charts[0].Series[0].Points, read.Charts[0].Series[0].Points)
		assert.Equal(t, 100.0, *read.Charts[2].Threshold)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts.yaml")
	require.NoError(t, WriteFile(path, ComparisonCharts(comparisonTable(), classify.DefaultThresholds())))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "title: Throughput Comparison (Max Load)")

	assert.Error(t, WriteFile(filepath.Join(t.TempDir(), "charts.txt"), &Document{}))
}

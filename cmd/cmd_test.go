package cmd

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/packagewjx/loadtest-analyzer/internal/classify"
	"github.com/packagewjx/loadtest-analyzer/internal/report"
	"github.com/packagewjx/loadtest-analyzer/internal/store"
	"github.com/packagewjx/loadtest-analyzer/internal/table"
	"github.com/packagewjx/loadtest-analyzer/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const runLog = `Actual Duration:        60.02 seconds
Total Requests:         31407
Successful Requests:    31400
Failed Requests:        7
Success Rate:           99.98%%
Average Throughput:     %v req/s
Average Response Time:  30.5 ms
P50 (median):           28.1 ms
P95:                    55.2 ms
P99:                    80.9 ms
`

func writeResults(t *testing.T, dir string) {
	for _, threads := range []int{1, 4, 16} {
		log := fmt.Sprintf(runLog, threads*100)
		require.NoError(t, ioutil.WriteFile(filepath.Join(dir, fmt.Sprintf("test_%dthreads.log", threads)), []byte(log), 0644))

		b := strings.Builder{}
		b.WriteString("server_cpu,mysql_cpu,system_cpu_idle,server_mem_mb,mysql_mem_mb,disk_read_kb,disk_write_kb\n")
		for i := 0; i < 10; i++ {
			b.WriteString(fmt.Sprintf("%d,20,50,512,1024,100,200\n", threads*5))
		}
		require.NoError(t, ioutil.WriteFile(filepath.Join(dir, fmt.Sprintf("resources_%dthreads.csv", threads)), []byte(b.String()), 0644))
	}
}

func execute(args ...string) (string, error) {
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	defer func() {
		rootCmd.SetOut(os.Stdout)
		rootCmd.SetErr(os.Stderr)
		resetFlags()
	}()
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags 恢复多次执行之间会保留的参数
func resetFlags() {
	f := rootCmd.PersistentFlags().Lookup(FlagCpuThreshold)
	_ = f.Value.Set(f.DefValue)
	f.Changed = false
	for _, name := range []string{FlagLabel, FlagList, FlagShow, FlagRemove} {
		f = storeCmd.Flags().Lookup(name)
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
}

func TestSummarize(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results_get_all_20240101_120000")
	require.NoError(t, os.Mkdir(dir, 0755))
	writeResults(t, dir)
	charts := filepath.Join(t.TempDir(), "charts.json")

	out, err := execute("summarize", dir, "--charts", charts, "--log-level", "error")
	require.NoError(t, err)
	summarizeCharts = ""

	assert.Contains(t, out, "Maximum throughput: 1600.00 req/s at 16 threads")
	assert.Contains(t, out, "Bottlenecks at 16 threads: no clear bottleneck (balanced resource usage)")
	csv, err := ioutil.ReadFile(filepath.Join(dir, report.SummaryCSVName))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(csv), "threads,throughput,avg_response_time,p50,p95,p99,success_rate\n1,100,"))
	_, err = os.Stat(filepath.Join(dir, report.SummaryTextName))
	assert.NoError(t, err)
	_, err = os.Stat(charts)
	assert.NoError(t, err)

	// summarize生成的summary.txt可以直接用于对比
	out, err = execute("compare", filepath.Dir(dir), "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 workload results")
	assert.Contains(t, out, "get_all")
	_, err = os.Stat(filepath.Join(filepath.Dir(dir), report.AnalysisFileName))
	assert.NoError(t, err)
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	writeResults(t, dir)
	output := filepath.Join(t.TempDir(), "out.prom")

	_, err := execute("export", dir, "-o", output, "--log-level", "error")
	require.NoError(t, err)
	exportOutput = ""

	content, err := ioutil.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(content), "loadtest_throughput_requests_per_second")
}

func TestArguments(t *testing.T) {
	out, err := execute("summarize")
	assert.Error(t, err)
	assert.Contains(t, out, "Usage:")

	_, err = execute("summarize", "a", "b")
	assert.Error(t, err)

	_, err = execute("compare", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	_, err = execute("summarize", t.TempDir(), "--log-level", "error")
	assert.Error(t, err)
}

// memoryDao 保存在内存中的Dao
type memoryDao struct {
	levels      map[string][]*core.LoadLevel
	bottlenecks map[string][]*store.BottleneckDO
}

var _ store.Dao = &memoryDao{}

func (d *memoryDao) DB() *gorm.DB {
	return nil
}

func (d *memoryDao) SaveRunTable(label string, t *table.RunTable, th classify.Thresholds) error {
	d.levels[label] = t.Rows
	d.bottlenecks[label] = nil
	for _, row := range t.Rows {
		for _, c := range classify.Classify(row.Usage(), th).Conditions {
			d.bottlenecks[label] = append(d.bottlenecks[label],
				&store.BottleneckDO{Label: label, Threads: row.Threads, Condition: string(c.Kind), Value: c.Value})
		}
	}
	return nil
}

func (d *memoryDao) RemoveLabel(label string) error {
	delete(d.levels, label)
	delete(d.bottlenecks, label)
	return nil
}

func (d *memoryDao) QueryLoadLevels(label string) ([]*core.LoadLevel, error) {
	return d.levels[label], nil
}

func (d *memoryDao) QueryBottlenecks(label string) ([]*store.BottleneckDO, error) {
	return d.bottlenecks[label], nil
}

func (d *memoryDao) QueryLabels() ([]string, error) {
	labels := make([]string, 0, len(d.levels))
	for label := range d.levels {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels, nil
}

func useMemoryDao(t *testing.T) *memoryDao {
	dao := &memoryDao{
		levels:      map[string][]*core.LoadLevel{},
		bottlenecks: map[string][]*store.BottleneckDO{},
	}
	newDao = func(*store.Config) (store.Dao, error) { return dao, nil }
	t.Cleanup(func() { newDao = store.NewDao })
	return dao
}

func TestStore(t *testing.T) {
	dao := useMemoryDao(t)
	dir := filepath.Join(t.TempDir(), "results_cpu_intensive_20240101_120000")
	require.NoError(t, os.Mkdir(dir, 0755))
	writeResults(t, dir)

	out, err := execute("store", dir, "--log-level", "error", "--cpu-threshold", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved 3 load levels under label results_cpu_intensive_20240101_120000")
	assert.Len(t, dao.levels["results_cpu_intensive_20240101_120000"], 3)

	out, err = execute("store", dir, "--label", "baseline", "--log-level", "error", "--cpu-threshold", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "under label baseline")

	out, err = execute("store", "--list", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "baseline\nresults_cpu_intensive_20240101_120000\n")

	// 16线程时服务器CPU为80%，超过阈值50%
	out, err = execute("store", "--show", "baseline", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Load Test Results Summary - baseline")
	assert.Contains(t, out, "1600.00")
	assert.Contains(t, out, "Stored bottlenecks:\n  16 threads: server_cpu (80.0)\n")

	out, err = execute("store", "--remove", "baseline", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed label baseline")
	assert.NotContains(t, dao.levels, "baseline")

	_, err = execute("store", "--show", "baseline", "--log-level", "error")
	assert.Error(t, err)
}

func TestStoreArguments(t *testing.T) {
	useMemoryDao(t)

	out, err := execute("store", "--log-level", "error")
	assert.Error(t, err)
	assert.Contains(t, out, "Usage:")

	_, err = execute("store", t.TempDir(), "--list", "--log-level", "error")
	assert.Error(t, err)

	_, err = execute("store", "--list", "--remove", "baseline", "--log-level", "error")
	assert.Error(t, err)
}

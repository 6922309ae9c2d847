package datasource

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/packagewjx/loadtest-analyzer/pkg/core"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const header = "timestamp,server_cpu,mysql_cpu,system_cpu_idle,server_mem_mb,mysql_mem_mb,disk_read_kb,disk_write_kb\n"

func buildCsv(serverCpu []float64) string {
	builder := &strings.Builder{}
	builder.WriteString(header)
	for i, cpu := range serverCpu {
		_, _ = fmt.Fprintf(builder, "%d,%g,%d,%d,%d,%d,%d,%d\n", i, cpu, 10+i, 90-i, 100+i, 200, 50*i, 1000*i)
	}
	return builder.String()
}

func TestAggregateCSV(t *testing.T) {
	in := buildCsv([]float64{99, 99, 99, 99, 99, 70, 72, 74, 90, 95})
	summary, err := AggregateCSV(strings.NewReader(in), DefaultWarmupSamples)
	require.NoError(t, err)

	assert.InDelta(t, 80.2, summary.ServerCpuAvg, 1e-9)
	assert.Equal(t, 95.0, summary.ServerCpuMax)
	// mysql_cpu为10+i，i取5..9
	assert.InDelta(t, 17.0, summary.MysqlCpuAvg, 1e-9)
	assert.Equal(t, 19.0, summary.MysqlCpuMax)
	// system_cpu_idle为90-i，平均83，最小81
	assert.InDelta(t, 17.0, summary.SystemCpuUsedAvg, 1e-9)
	assert.InDelta(t, 19.0, summary.SystemCpuUsedMax, 1e-9)
	assert.InDelta(t, 107.0, summary.ServerMemAvg, 1e-9)
	assert.InDelta(t, 200.0, summary.MysqlMemAvg, 1e-9)
	assert.InDelta(t, 350.0, summary.DiskReadAvg, 1e-9)
	assert.Equal(t, 450.0, summary.DiskReadMax)
	assert.InDelta(t, 7000.0, summary.DiskWriteAvg, 1e-9)
	assert.Equal(t, 9000.0, summary.DiskWriteMax)
}

func TestAggregateInsufficientSamples(t *testing.T) {
	for _, n := range []int{0, 4, 5} {
		in := buildCsv(make([]float64, n))
		summary, err := AggregateCSV(strings.NewReader(in), DefaultWarmupSamples)
		assert.Nil(t, summary)
		assert.Equal(t, core.ErrInsufficientSamples, errors.Cause(err), "%d行", n)
	}

	summary, err := AggregateCSV(strings.NewReader(buildCsv(make([]float64, 6))), DefaultWarmupSamples)
	assert.NoError(t, err)
	assert.NotNil(t, summary)
}

func TestAggregateZeroWarmup(t *testing.T) {
	summary, err := AggregateCSV(strings.NewReader(buildCsv([]float64{10, 20})), 0)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, summary.ServerCpuAvg, 1e-9)
}

func TestCSVSampleSourceMalformed(t *testing.T) {
	_, err := NewCSVSampleSource(strings.NewReader(""))
	assert.Equal(t, core.ErrMalformedInput, errors.Cause(err))

	_, err = NewCSVSampleSource(strings.NewReader("server_cpu,mysql_cpu\n1,2\n"))
	assert.Equal(t, core.ErrMalformedInput, errors.Cause(err))

	source, err := NewCSVSampleSource(strings.NewReader(header + "0,abc,1,1,1,1,1,1\n"))
	require.NoError(t, err)
	_, err = source.Load()
	assert.Equal(t, core.ErrMalformedInput, errors.Cause(err))

	source, err = NewCSVSampleSource(strings.NewReader(header + "0,1,2\n"))
	require.NoError(t, err)
	_, err = source.Load()
	assert.Equal(t, core.ErrMalformedInput, errors.Cause(err))
}

func TestCSVSampleSourceColumnOrder(t *testing.T) {
	in := "disk_write_kb,disk_read_kb,mysql_mem_mb,server_mem_mb,system_cpu_idle,mysql_cpu,server_cpu\n7,6,5,4,3,2,1\n"
	source, err := NewCSVSampleSource(strings.NewReader(in))
	require.NoError(t, err)
	sample, err := source.Load()
	require.NoError(t, err)
	assert.Equal(t, &Sample{
		ServerCpu:     1,
		MysqlCpu:      2,
		SystemCpuIdle: 3,
		ServerMemMb:   4,
		MysqlMemMb:    5,
		DiskReadKb:    6,
		DiskWriteKb:   7,
	}, sample)
	_, err = source.Load()
	assert.Equal(t, io.EOF, err)
}

func TestSystemCpuUsedProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		idle := rapid.SliceOfN(rapid.Float64Range(0, 100), DefaultWarmupSamples+1, 200).Draw(t, "idle")

		builder := &strings.Builder{}
		builder.WriteString(header)
		for i, v := range idle {
			_, _ = fmt.Fprintf(builder, "%d,1,1,%v,1,1,1,1\n", i, v)
		}
		summary, err := AggregateCSV(strings.NewReader(builder.String()), DefaultWarmupSamples)
		if err != nil {
			t.Fatalf("聚合失败：%v", err)
		}

		sum := 0.0
		for _, v := range idle[DefaultWarmupSamples:] {
			sum += v
		}
		expected := 100 - sum/float64(len(idle)-DefaultWarmupSamples)
		if diff := summary.SystemCpuUsedAvg - expected; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("期望%v，实际%v", expected, summary.SystemCpuUsedAvg)
		}
	})
}

package datasource

import (
	"fmt"
	"io"

	"github.com/packagewjx/loadtest-analyzer/pkg/core"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// series 去除预热窗口之后的按列采样序列
type series struct {
	serverCpu     []float64
	mysqlCpu      []float64
	systemCpuIdle []float64
	serverMem     []float64
	mysqlMem      []float64
	diskRead      []float64
	diskWrite     []float64
}

func (s *series) add(sample *Sample) {
	s.serverCpu = append(s.serverCpu, sample.ServerCpu)
	s.mysqlCpu = append(s.mysqlCpu, sample.MysqlCpu)
	s.systemCpuIdle = append(s.systemCpuIdle, sample.SystemCpuIdle)
	s.serverMem = append(s.serverMem, sample.ServerMemMb)
	s.mysqlMem = append(s.mysqlMem, sample.MysqlMemMb)
	s.diskRead = append(s.diskRead, sample.DiskReadKb)
	s.diskWrite = append(s.diskWrite, sample.DiskWriteKb)
}

// Aggregate 读取全部采样，丢弃前warmup条之后计算平均值与最大值。
// 系统CPU使用率为100减去空闲率，其最大值对应空闲率的最小值。
// 采样数量不超过warmup时返回ErrInsufficientSamples
func Aggregate(source SampleSource, warmup int) (*core.ResourceSummary, error) {
	if warmup < 0 {
		warmup = 0
	}

	s := &series{}
	total := 0
	var sample *Sample
	var err error
	for sample, err = source.Load(); err == nil; sample, err = source.Load() {
		total++
		if total <= warmup {
			continue
		}
		s.add(sample)
	}
	if err != io.EOF {
		return nil, errors.Wrap(err, "读取资源采样出错")
	}

	if len(s.serverCpu) == 0 {
		return nil, errors.Wrap(core.ErrInsufficientSamples,
			fmt.Sprintf("共%d条采样，不多于预热的%d条", total, warmup))
	}

	return &core.ResourceSummary{
		ServerCpuAvg:     stat.Mean(s.serverCpu, nil),
		ServerCpuMax:     floats.Max(s.serverCpu),
		MysqlCpuAvg:      stat.Mean(s.mysqlCpu, nil),
		MysqlCpuMax:      floats.Max(s.mysqlCpu),
		SystemCpuUsedAvg: 100 - stat.Mean(s.systemCpuIdle, nil),
		SystemCpuUsedMax: 100 - floats.Min(s.systemCpuIdle),
		ServerMemAvg:     stat.Mean(s.serverMem, nil),
		MysqlMemAvg:      stat.Mean(s.mysqlMem, nil),
		DiskReadAvg:      stat.Mean(s.diskRead, nil),
		DiskReadMax:      floats.Max(s.diskRead),
		DiskWriteAvg:     stat.Mean(s.diskWrite, nil),
		DiskWriteMax:     floats.Max(s.diskWrite),
	}, nil
}

// AggregateCSV 从csv中读取采样并聚合
func AggregateCSV(in io.Reader, warmup int) (*core.ResourceSummary, error) {
	source, err := NewCSVSampleSource(in)
	if err != nil {
		return nil, err
	}
	return Aggregate(source, warmup)
}

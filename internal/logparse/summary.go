package logparse

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/packagewjx/loadtest-analyzer/pkg/core"
	"github.com/pkg/errors"
)

// summary.txt中每个负载等级以此标记开始
const LoadLevelMarker = "LOAD LEVEL:"

const SummaryFileName = "summary.txt"

var (
	sectionThreads     = regexp.MustCompile(`^\s*(\d+)\s+threads`)
	workloadDirPattern = regexp.MustCompile(`results_(\w+?)_\d+`)
)

// summary.txt中已聚合的指标
var (
	SummaryThroughput      = newExtractor("throughput", `Throughput:\s+`+number+`\s+req/s`)
	SummaryAvgResponseTime = newExtractor("avg_response_time", `Avg Response Time:\s+`+number+`\s+ms`)
	SummaryP95             = newExtractor("p95_response_time", `P95 Response Time:\s+`+number+`\s+ms`)
	SummaryServerCpu       = newExtractor("server_cpu", `Server CPU \(avg\):\s+`+number+`%`)
	SummaryMysqlCpu        = newExtractor("mysql_cpu", `MySQL CPU \(avg\):\s+`+number+`%`)
	SummarySystemCpu       = newExtractor("system_cpu", `System CPU \(avg\):\s+`+number+`%`)
	SummaryDiskWrite       = newExtractor("disk_write", `Disk Write \(avg\):\s+`+number+`\s+KB/s`)
	SummaryDiskRead        = newExtractor("disk_read", `Disk Read \(avg\):\s+`+number+`\s+KB/s`)
)

// WorkloadName 从summary所在目录名（results_<workload>_<时间戳>）中得到负载名称
func WorkloadName(path string) (string, error) {
	dir := filepath.Base(filepath.Dir(path))
	match := workloadDirPattern.FindStringSubmatch(dir)
	if match == nil {
		return "", errors.Wrap(core.ErrMissingIdentifier, fmt.Sprintf("目录名%s中没有负载名称", dir))
	}
	return match[1], nil
}

// ParseSummary 解析一个负载的summary.txt，只保留最高负载等级的数据。
// 最高负载等级为线程数最大的段；所有段都没有线程数时取最后一段
func ParseSummary(path string, content string) (*core.WorkloadMetrics, []string, error) {
	workload, err := WorkloadName(path)
	if err != nil {
		return nil, nil, err
	}

	sections := strings.Split(content, LoadLevelMarker)
	if len(sections) < 2 {
		return nil, nil, errors.Wrap(core.ErrMalformedInput, fmt.Sprintf("%s中没有%s段", path, LoadLevelMarker))
	}
	sections = sections[1:]

	chosen := len(sections) - 1
	maxThreads := -1
	for i, section := range sections {
		threads, ok := sectionThreadCount(section)
		if ok && threads >= maxThreads {
			maxThreads = threads
			chosen = i
		}
	}

	metrics, missing := parseSection(sections[chosen])
	metrics.Workload = workload
	if maxThreads >= 0 {
		metrics.Threads = core.Int(maxThreads)
	}
	return metrics, missing, nil
}

func sectionThreadCount(section string) (int, bool) {
	match := sectionThreads.FindStringSubmatch(section)
	if match == nil {
		return 0, false
	}
	threads, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return threads, true
}

func parseSection(section string) (*core.WorkloadMetrics, []string) {
	m := &core.WorkloadMetrics{}
	missing := make([]string, 0)
	fields := []struct {
		extractor *Extractor
		dest      **float64
	}{
		{SummaryThroughput, &m.Throughput},
		{SummaryAvgResponseTime, &m.AvgResponseTime},
		{SummaryP95, &m.P95},
		{SummaryServerCpu, &m.ServerCpu},
		{SummaryMysqlCpu, &m.MysqlCpu},
		{SummarySystemCpu, &m.SystemCpu},
		{SummaryDiskWrite, &m.DiskWrite},
		{SummaryDiskRead, &m.DiskRead},
	}
	for _, f := range fields {
		v, err := f.extractor.Float(section)
		if err != nil {
			missing = append(missing, f.extractor.Name)
			continue
		}
		*f.dest = v
	}
	return m, missing
}

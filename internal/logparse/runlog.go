package logparse

import (
	"fmt"
	"io"
	"io/ioutil"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/packagewjx/loadtest-analyzer/pkg/core"
	"github.com/pkg/errors"
)

const number = `(\d+\.?\d*)`

// 每个指标的提取器。日志格式变化时只需修改对应的正则
var (
	Duration           = newExtractor("duration", `Actual Duration:\s+`+number)
	TotalRequests      = newExtractor("total_requests", `Total Requests:\s+(\d+)`)
	SuccessfulRequests = newExtractor("successful_requests", `Successful Requests:\s+(\d+)`)
	FailedRequests     = newExtractor("failed_requests", `Failed Requests:\s+(\d+)`)
	SuccessRate        = newExtractor("success_rate", `Success Rate:\s+`+number+`%`)
	Throughput         = newExtractor("throughput", `Average Throughput:\s+`+number)
	AvgResponseTime    = newExtractor("avg_response_time", `Average Response Time:\s+`+number)
	P50                = newExtractor("p50", `P50(?: \(median\))?:\s+`+number)
	P95                = newExtractor("p95", `P95:\s+`+number)
	P99                = newExtractor("p99", `P99:\s+`+number)
)

var (
	runLogNamePattern   = regexp.MustCompile(`(\d+)threads\.log$`)
	resourceNamePattern = regexp.MustCompile(`(\d+)threads\.csv$`)
)

const (
	RunLogGlob      = "test_*threads.log"
	ResourceCSVGlob = "resources_*threads.csv"
)

// Extractor 从文本中提取一个带标签的数值
type Extractor struct {
	Name    string
	pattern *regexp.Regexp
}

func newExtractor(name, pattern string) *Extractor {
	return &Extractor{Name: name, pattern: regexp.MustCompile(pattern)}
}

// Float 返回标签后第一个出现的数值，找不到时返回ErrMissingField
func (e *Extractor) Float(content string) (*float64, error) {
	match := e.pattern.FindStringSubmatch(content)
	if match == nil {
		return nil, errors.Wrap(core.ErrMissingField, e.Name)
	}
	f, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return nil, errors.Wrap(core.ErrMissingField, fmt.Sprintf("%s的值%s无法解析", e.Name, match[1]))
	}
	return &f, nil
}

func (e *Extractor) Int(content string) (*int64, error) {
	match := e.pattern.FindStringSubmatch(content)
	if match == nil {
		return nil, errors.Wrap(core.ErrMissingField, e.Name)
	}
	i, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return nil, errors.Wrap(core.ErrMissingField, fmt.Sprintf("%s的值%s无法解析", e.Name, match[1]))
	}
	return &i, nil
}

// ParseResult 解析结果。Missing记录了日志中找不到的指标名称
type ParseResult struct {
	Metrics *core.RunMetrics
	Missing []string
}

// ParseRunLog 解析一次压测的日志。name为日志文件名，线程数从文件名中获得
func ParseRunLog(name string, content string) (*ParseResult, error) {
	key, err := IdentifyArtifact(name)
	if err != nil {
		return nil, err
	}
	if key.Kind != core.KindRunLog {
		return nil, errors.Wrap(core.ErrMissingIdentifier, fmt.Sprintf("%s不是压测日志", name))
	}

	result := &ParseResult{
		Metrics: &core.RunMetrics{Threads: key.Threads},
		Missing: make([]string, 0),
	}
	m := result.Metrics

	floats := []struct {
		extractor *Extractor
		dest      **float64
	}{
		{Duration, &m.Duration},
		{SuccessRate, &m.SuccessRate},
		{Throughput, &m.Throughput},
		{AvgResponseTime, &m.AvgResponseTime},
		{P50, &m.P50},
		{P95, &m.P95},
		{P99, &m.P99},
	}
	for _, f := range floats {
		v, err := f.extractor.Float(content)
		if err != nil {
			result.Missing = append(result.Missing, f.extractor.Name)
			continue
		}
		*f.dest = v
	}

	ints := []struct {
		extractor *Extractor
		dest      **int64
	}{
		{TotalRequests, &m.TotalRequests},
		{SuccessfulRequests, &m.SuccessfulRequests},
		{FailedRequests, &m.FailedRequests},
	}
	for _, i := range ints {
		v, err := i.extractor.Int(content)
		if err != nil {
			result.Missing = append(result.Missing, i.extractor.Name)
			continue
		}
		*i.dest = v
	}

	return result, nil
}

// ReadRunLog 读取并解析日志
func ReadRunLog(name string, in io.Reader) (*ParseResult, error) {
	content, err := ioutil.ReadAll(in)
	if err != nil {
		return nil, errors.Wrap(core.ErrMalformedInput, fmt.Sprintf("读取%s失败：%v", name, err))
	}
	return ParseRunLog(name, string(content))
}

// IdentifyArtifact 根据文件名得到线程数与文件类型
func IdentifyArtifact(path string) (core.ArtifactKey, error) {
	base := filepath.Base(path)
	kind := core.KindRunLog
	match := runLogNamePattern.FindStringSubmatch(base)
	if match == nil {
		kind = core.KindResourceCSV
		match = resourceNamePattern.FindStringSubmatch(base)
	}
	if match == nil {
		return core.ArtifactKey{}, errors.Wrap(core.ErrMissingIdentifier, fmt.Sprintf("文件名%s中没有线程数", base))
	}

	threads, err := strconv.Atoi(match[1])
	if err != nil || threads <= 0 {
		return core.ArtifactKey{}, errors.Wrap(core.ErrMissingIdentifier, fmt.Sprintf("文件名%s中的线程数无效", base))
	}
	return core.ArtifactKey{Threads: threads, Kind: kind}, nil
}

// ResourceFileName 返回与线程数对应的资源采样文件名
func ResourceFileName(threads int) string {
	return fmt.Sprintf("resources_%dthreads.csv", threads)
}

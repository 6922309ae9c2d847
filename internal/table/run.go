package table

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/packagewjx/loadtest-analyzer/internal/datasource"
	"github.com/packagewjx/loadtest-analyzer/internal/logger"
	"github.com/packagewjx/loadtest-analyzer/internal/logparse"
	"github.com/packagewjx/loadtest-analyzer/pkg/core"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Options struct {
	Warmup int
}

func DefaultOptions() *Options {
	return &Options{Warmup: datasource.DefaultWarmupSamples}
}

// BuildRunTable 读取dir下的压测日志与资源采样文件，按线程数连接。
// 没有资源数据的行仍然保留，只是Resources为nil。dir中没有任何日志时返回ErrNoInputFound
func BuildRunTable(dir string, opts *Options) (*RunTable, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	logs, err := filepath.Glob(filepath.Join(dir, logparse.RunLogGlob))
	if err != nil {
		return nil, errors.Wrap(err, "查找压测日志出错")
	}
	if len(logs) == 0 {
		return nil, errors.Wrap(core.ErrNoInputFound, fmt.Sprintf("%s中没有%s", dir, logparse.RunLogGlob))
	}
	logger.Debug("找到压测日志", zap.String("dir", dir), zap.Int("count", len(logs)))

	recorder := &issueRecorder{}
	rows := make([]*core.LoadLevel, 0, len(logs))
	seen := make(map[core.ArtifactKey]string)
	for _, path := range logs {
		key, err := logparse.IdentifyArtifact(path)
		if err != nil {
			recorder.addError(path, err)
			continue
		}
		if first, ok := seen[key]; ok {
			recorder.add(path, IssueDuplicate, fmt.Sprintf("线程数%d已由%s提供", key.Threads, filepath.Base(first)))
			continue
		}

		result, err := readRunLog(path)
		if err != nil {
			recorder.addError(path, err)
			continue
		}
		seen[key] = path
		if len(result.Missing) > 0 {
			recorder.add(path, IssueMissingField, strings.Join(result.Missing, ","))
		}

		row := &core.LoadLevel{RunMetrics: *result.Metrics}
		row.Resources = readResources(dir, key.Threads, opts.Warmup, recorder)
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Threads < rows[j].Threads
	})

	return &RunTable{
		Dir:    dir,
		Rows:   rows,
		Issues: recorder.issues,
	}, nil
}

func readRunLog(path string) (*logparse.ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(core.ErrMalformedInput, fmt.Sprintf("打开%s失败：%v", path, err))
	}
	defer f.Close()
	return logparse.ReadRunLog(filepath.Base(path), f)
}

func readResources(dir string, threads int, warmup int, recorder *issueRecorder) *core.ResourceSummary {
	path := filepath.Join(dir, logparse.ResourceFileName(threads))
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		recorder.add(path, IssueMissingResource, fmt.Sprintf("线程数%d没有资源采样文件", threads))
		return nil
	} else if err != nil {
		recorder.add(path, IssueMalformedInput, err.Error())
		return nil
	}
	defer f.Close()

	summary, err := datasource.AggregateCSV(f, warmup)
	if err != nil {
		recorder.addError(path, err)
		return nil
	}
	return summary
}

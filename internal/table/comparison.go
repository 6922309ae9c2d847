package table

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"sort"
	"strings"

	"github.com/packagewjx/loadtest-analyzer/internal/logger"
	"github.com/packagewjx/loadtest-analyzer/internal/logparse"
	"github.com/packagewjx/loadtest-analyzer/pkg/core"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const ResultDirGlob = "results_*"

// BuildComparisonTable 读取masterDir下各负载结果目录中的summary.txt，每个负载保留最高负载等级。
// 同一负载有多个结果目录时，目录名排序靠后（时间较新）的结果覆盖之前的结果
func BuildComparisonTable(masterDir string) (*ComparisonTable, error) {
	summaries, err := filepath.Glob(filepath.Join(masterDir, ResultDirGlob, logparse.SummaryFileName))
	if err != nil {
		return nil, errors.Wrap(err, "查找summary出错")
	}
	logger.Debug("找到负载结果", zap.String("dir", masterDir), zap.Int("count", len(summaries)))

	recorder := &issueRecorder{}
	rows := make([]*core.WorkloadMetrics, 0, len(summaries))
	index := make(map[string]int)
	for _, path := range summaries {
		content, err := ioutil.ReadFile(path)
		if err != nil {
			recorder.add(path, IssueMalformedInput, err.Error())
			continue
		}

		row, missing, err := logparse.ParseSummary(path, string(content))
		if err != nil {
			recorder.addError(path, err)
			continue
		}
		if len(missing) > 0 {
			recorder.add(path, IssueMissingField, strings.Join(missing, ","))
		}

		if i, ok := index[row.Workload]; ok {
			recorder.add(path, IssueDuplicate, fmt.Sprintf("负载%s的结果覆盖了之前的结果", row.Workload))
			rows[i] = row
			continue
		}
		index[row.Workload] = len(rows)
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, errors.Wrap(core.ErrNoInputFound, fmt.Sprintf("%s中没有可用的%s",
			masterDir, filepath.Join(ResultDirGlob, logparse.SummaryFileName)))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return core.WorkloadRank(rows[i].Workload) < core.WorkloadRank(rows[j].Workload)
	})

	return &ComparisonTable{
		Dir:    masterDir,
		Rows:   rows,
		Issues: recorder.issues,
	}, nil
}

package table

import (
	"github.com/packagewjx/loadtest-analyzer/internal/logger"
	"github.com/packagewjx/loadtest-analyzer/pkg/core"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type IssueKind string

const (
	IssueMissingResource     = IssueKind("missing_resource")
	IssueInsufficientSamples = IssueKind("insufficient_samples")
	IssueMalformedInput      = IssueKind("malformed_input")
	IssueMissingIdentifier   = IssueKind("missing_identifier")
	IssueMissingField        = IssueKind("missing_field")
	IssueDuplicate           = IssueKind("duplicate")
)

// Issue 构建表格时遇到的非致命问题
type Issue struct {
	Path   string
	Kind   IssueKind
	Detail string
}

// RunTable 一组压测结果按线程数升序连接后的表格
type RunTable struct {
	Dir    string
	Rows   []*core.LoadLevel
	Issues []*Issue
}

// Highest 返回线程数最大的一行，表格为空时返回nil
func (t *RunTable) Highest() *core.LoadLevel {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[len(t.Rows)-1]
}

// ComparisonTable 各负载在最高负载等级下的对比表格，按负载的固定顺序排列
type ComparisonTable struct {
	Dir    string
	Rows   []*core.WorkloadMetrics
	Issues []*Issue
}

type issueRecorder struct {
	issues []*Issue
}

func (r *issueRecorder) add(path string, kind IssueKind, detail string) {
	logger.Warn("跳过有问题的输入", zap.String("path", path), zap.String("kind", string(kind)),
		zap.String("detail", detail))
	r.issues = append(r.issues, &Issue{Path: path, Kind: kind, Detail: detail})
}

// addError 根据错误的根因记录问题
func (r *issueRecorder) addError(path string, err error) {
	kind := IssueMalformedInput
	switch errors.Cause(err) {
	case core.ErrInsufficientSamples:
		kind = IssueInsufficientSamples
	case core.ErrMissingIdentifier:
		kind = IssueMissingIdentifier
	case core.ErrMissingField:
		kind = IssueMissingField
	}
	r.add(path, kind, err.Error())
}

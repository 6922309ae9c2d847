package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/packagewjx/loadtest-analyzer/internal/classify"
	"github.com/pkg/errors"
)

// 输出文件名
const (
	SummaryCSVName   = "summary.csv"
	SummaryTextName  = "summary.txt"
	AnalysisFileName = "bottleneck_analysis.txt"
)

const NotAvailable = "N/A"

// printer 记录第一次写入错误，之后的写入全部忽略
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) line(s string) {
	p.printf("%s\n", s)
}

func rule(c byte, n int) string {
	return strings.Repeat(string(c), n)
}

// value 按format格式化数值，nil时返回N/A
func value(f *float64, format string) string {
	if f == nil {
		return NotAvailable
	}
	return fmt.Sprintf(format, *f)
}

// csvValue 最短的可还原表示，nil时为空
func csvValue(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

var conditionUnits = map[classify.ConditionKind]string{
	classify.ServerCpuSaturated: "%",
	classify.MysqlCpuSaturated:  "%",
	classify.HighDiskWrite:      " KB/s",
	classify.HighDiskRead:       " KB/s",
}

func formatCondition(c classify.Condition) string {
	return fmt.Sprintf("%s (%.1f%s)", c.Label(), c.Value, conditionUnits[c.Kind])
}

// createFile 创建文件并调用write写入内容
func createFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("创建%s出错", path))
	}
	if err = write(f); err != nil {
		_ = f.Close()
		return errors.Wrap(err, fmt.Sprintf("写入%s出错", path))
	}
	return f.Close()
}

package datasource

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/packagewjx/loadtest-analyzer/pkg/core"
	"github.com/pkg/errors"
)

// NewCSVSampleSource 创建读取资源采样csv的数据源。第一行必须是表头，列的顺序不限，多余的列将被忽略
func NewCSVSampleSource(in io.Reader) (SampleSource, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.Wrap(core.ErrMalformedInput, "资源采样文件为空")
	} else if err != nil {
		return nil, errors.Wrap(core.ErrMalformedInput, fmt.Sprintf("读取表头出错：%v", err))
	}

	index := make(map[string]int)
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	columns := make([]int, len(Columns))
	for i, name := range Columns {
		idx, ok := index[name]
		if !ok {
			return nil, errors.Wrap(core.ErrMalformedInput, fmt.Sprintf("缺少%s列", name))
		}
		columns[i] = idx
	}

	return &csvSampleSource{reader: reader, columns: columns}, nil
}

type csvSampleSource struct {
	reader  *csv.Reader
	columns []int
	line    int
}

func (c *csvSampleSource) Load() (*Sample, error) {
	record, err := c.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	} else if err != nil {
		return nil, errors.Wrap(core.ErrMalformedInput, fmt.Sprintf("读取采样数据出错：%v", err))
	}
	c.line++

	values := make([]float64, len(c.columns))
	for i, idx := range c.columns {
		if idx >= len(record) {
			return nil, errors.Wrap(core.ErrMalformedInput, fmt.Sprintf("第%d行数据缺少%s列", c.line, Columns[i]))
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(record[idx]), 64)
		if err != nil {
			return nil, errors.Wrap(core.ErrMalformedInput,
				fmt.Sprintf("第%d行%s列数据有误，数据为[%s]", c.line, Columns[i], record[idx]))
		}
		values[i] = f
	}

	return &Sample{
		ServerCpu:     values[0],
		MysqlCpu:      values[1],
		SystemCpuIdle: values[2],
		ServerMemMb:   values[3],
		MysqlMemMb:    values[4],
		DiskReadKb:    values[5],
		DiskWriteKb:   values[6],
	}, nil
}

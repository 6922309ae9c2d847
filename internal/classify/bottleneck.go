package classify

import (
	"fmt"

	"github.com/packagewjx/loadtest-analyzer/pkg/core"
)

// Thresholds 瓶颈判定的阈值。判定使用严格大于
type Thresholds struct {
	CpuPercent float64 // 进程CPU平均使用率阈值，单位%
	DiskKBps   float64 // 磁盘平均读写速率阈值，单位KB/s
}

const (
	DefaultCpuThreshold  = 80
	DefaultDiskThreshold = 10000
)

func DefaultThresholds() Thresholds {
	return Thresholds{
		CpuPercent: DefaultCpuThreshold,
		DiskKBps:   DefaultDiskThreshold,
	}
}

type ConditionKind string

const (
	ServerCpuSaturated = ConditionKind("server_cpu")
	MysqlCpuSaturated  = ConditionKind("mysql_cpu")
	HighDiskWrite      = ConditionKind("disk_write")
	HighDiskRead       = ConditionKind("disk_read")
)

var conditionLabels = map[ConditionKind]string{
	ServerCpuSaturated: "server CPU saturated",
	MysqlCpuSaturated:  "database CPU saturated",
	HighDiskWrite:      "high disk write I/O",
	HighDiskRead:       "high disk read I/O",
}

// Label 返回条件的描述
func (k ConditionKind) Label() string {
	return conditionLabels[k]
}

// Condition 一个被触发的瓶颈条件
type Condition struct {
	Kind  ConditionKind
	Value float64
}

func (c Condition) Label() string {
	return c.Kind.Label()
}

// Primary 汇总展示时使用的主要瓶颈
type Primary string

const (
	PrimaryCpu   = Primary("CPU")
	PrimaryDisk  = Primary("Disk I/O")
	PrimaryMysql = Primary("MySQL")
	PrimaryNone  = Primary("None")
)

// 主要瓶颈按此顺序取第一个被触发的条件。只有磁盘读被触发时没有主要瓶颈
var primaryPriority = []struct {
	kind    ConditionKind
	primary Primary
}{
	{ServerCpuSaturated, PrimaryCpu},
	{HighDiskWrite, PrimaryDisk},
	{MysqlCpuSaturated, PrimaryMysql},
}

const BalancedLabel = "no clear bottleneck (balanced resource usage)"

// Verdict 一行数据的瓶颈判定结果
type Verdict struct {
	Conditions []Condition
	Primary    Primary
}

// Has 判断某个条件是否被触发
func (v *Verdict) Has(kind ConditionKind) bool {
	for _, c := range v.Conditions {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

func (v *Verdict) Balanced() bool {
	return len(v.Conditions) == 0
}

// PrimaryLabel 主要瓶颈的条件描述。没有主要瓶颈时，若没有条件被触发返回BalancedLabel，否则返回空字符串
func (v *Verdict) PrimaryLabel() string {
	for _, p := range primaryPriority {
		if p.primary == v.Primary {
			return p.kind.Label()
		}
	}
	if v.Balanced() {
		return BalancedLabel
	}
	return ""
}

func (v *Verdict) String() string {
	if v.Balanced() {
		return BalancedLabel
	}
	s := ""
	for i, c := range v.Conditions {
		if i > 0 {
			s += "; "
		}
		s += fmt.Sprintf("%s (%.1f)", c.Label(), c.Value)
	}
	return s
}

// Classify 判定资源使用情况的瓶颈。值为nil的指标不会触发任何条件
func Classify(usage core.Usage, th Thresholds) *Verdict {
	verdict := &Verdict{
		Conditions: make([]Condition, 0, 4),
		Primary:    PrimaryNone,
	}

	check := func(kind ConditionKind, value *float64, threshold float64) {
		if value != nil && *value > threshold {
			verdict.Conditions = append(verdict.Conditions, Condition{Kind: kind, Value: *value})
		}
	}
	check(ServerCpuSaturated, usage.ServerCpu, th.CpuPercent)
	check(MysqlCpuSaturated, usage.MysqlCpu, th.CpuPercent)
	check(HighDiskWrite, usage.DiskWrite, th.DiskKBps)
	check(HighDiskRead, usage.DiskRead, th.DiskKBps)

	for _, p := range primaryPriority {
		if verdict.Has(p.kind) {
			verdict.Primary = p.primary
			break
		}
	}

	return verdict
}

// 负载类型的静态分类
var workloadTypes = map[string]string{
	"get_all":       "Disk-bound",
	"put_all":       "Disk-bound",
	"get_popular":   "Cache-bound",
	"mixed":         "Mixed",
	"compute_prime": "CPU-bound",
	"compute_hash":  "CPU-bound",
	"compute_mixed": "CPU-bound",
}

const UnknownWorkloadType = "Unknown"

// WorkloadType 返回负载预期的瓶颈类型
func WorkloadType(workload string) string {
	if t, ok := workloadTypes[workload]; ok {
		return t
	}
	return UnknownWorkloadType
}

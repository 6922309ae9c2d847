package core

// RunMetrics 一次压测（固定并发线程数）从日志中提取出的性能指标。
// 除Threads外的字段都可能在日志中找不到，此时为nil，不能用0代替，因为0是有效的测量值。
type RunMetrics struct {
	Threads            int      `json:"threads"`
	Duration           *float64 `json:"duration,omitempty"`
	TotalRequests      *int64   `json:"totalRequests,omitempty"`
	SuccessfulRequests *int64   `json:"successfulRequests,omitempty"`
	FailedRequests     *int64   `json:"failedRequests,omitempty"`
	SuccessRate        *float64 `json:"successRate,omitempty"`
	Throughput         *float64 `json:"throughput,omitempty"`
	AvgResponseTime    *float64 `json:"avgResponseTime,omitempty"`
	P50                *float64 `json:"p50,omitempty"`
	P95                *float64 `json:"p95,omitempty"`
	P99                *float64 `json:"p99,omitempty"`
}

// ResourceSummary 一次压测期间资源采样的聚合结果。CPU与系统CPU为百分比，内存为MB，磁盘为KB/s
type ResourceSummary struct {
	ServerCpuAvg     float64 `json:"serverCpuAvg"`
	ServerCpuMax     float64 `json:"serverCpuMax"`
	MysqlCpuAvg      float64 `json:"mysqlCpuAvg"`
	MysqlCpuMax      float64 `json:"mysqlCpuMax"`
	SystemCpuUsedAvg float64 `json:"systemCpuUsedAvg"`
	SystemCpuUsedMax float64 `json:"systemCpuUsedMax"`
	ServerMemAvg     float64 `json:"serverMemAvg"`
	MysqlMemAvg      float64 `json:"mysqlMemAvg"`
	DiskReadAvg      float64 `json:"diskReadAvg"`
	DiskReadMax      float64 `json:"diskReadMax"`
	DiskWriteAvg     float64 `json:"diskWriteAvg"`
	DiskWriteMax     float64 `json:"diskWriteMax"`
}

// LoadLevel 按线程数连接后的一行数据。Resources为nil表示没有可用的资源数据
type LoadLevel struct {
	RunMetrics
	Resources *ResourceSummary `json:"resources,omitempty"`
}

// WorkloadMetrics 一种负载在其最高负载等级下的结果，数据来自该负载的summary.txt
type WorkloadMetrics struct {
	Workload        string   `json:"workload"`
	Threads         *int     `json:"threads,omitempty"`
	Throughput      *float64 `json:"throughput,omitempty"`
	AvgResponseTime *float64 `json:"avgResponseTime,omitempty"`
	P95             *float64 `json:"p95,omitempty"`
	ServerCpu       *float64 `json:"serverCpu,omitempty"`
	MysqlCpu        *float64 `json:"mysqlCpu,omitempty"`
	SystemCpu       *float64 `json:"systemCpu,omitempty"`
	DiskRead        *float64 `json:"diskRead,omitempty"`
	DiskWrite       *float64 `json:"diskWrite,omitempty"`
}

// Usage 资源使用情况，分类器的输入。单次压测和负载对比都转换为此结构
type Usage struct {
	ServerCpu *float64
	MysqlCpu  *float64
	DiskRead  *float64
	DiskWrite *float64
}

// Usage 返回本负载等级的资源使用情况。没有资源数据时全部为nil
func (l *LoadLevel) Usage() Usage {
	if l.Resources == nil {
		return Usage{}
	}
	r := l.Resources
	return Usage{
		ServerCpu: Float(r.ServerCpuAvg),
		MysqlCpu:  Float(r.MysqlCpuAvg),
		DiskRead:  Float(r.DiskReadAvg),
		DiskWrite: Float(r.DiskWriteAvg),
	}
}

func (w *WorkloadMetrics) Usage() Usage {
	return Usage{
		ServerCpu: w.ServerCpu,
		MysqlCpu:  w.MysqlCpu,
		DiskRead:  w.DiskRead,
		DiskWrite: w.DiskWrite,
	}
}

// 负载类型的固定顺序，仅用于展示排序
var WorkloadOrder = []string{
	"get_all",
	"put_all",
	"get_popular",
	"mixed",
	"compute_prime",
	"compute_hash",
	"compute_mixed",
}

// WorkloadRank 返回负载在WorkloadOrder中的位置。未知负载排在最后
func WorkloadRank(workload string) int {
	for i, w := range WorkloadOrder {
		if w == workload {
			return i
		}
	}
	return len(WorkloadOrder)
}

type ArtifactKind string

const (
	KindRunLog      = ArtifactKind("log")
	KindResourceCSV = ArtifactKind("resources")
)

// ArtifactKey 输入文件的标识。日志与资源文件通过Threads连接
type ArtifactKey struct {
	Threads int
	Kind    ArtifactKind
}

func Float(f float64) *float64 {
	return &f
}

func Int64(i int64) *int64 {
	return &i
}

func Int(i int) *int {
	return &i
}

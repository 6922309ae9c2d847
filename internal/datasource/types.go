package datasource

// SampleSource 资源采样数据源
type SampleSource interface {
	// 读取一条采样数据。若读取完毕，则error设置为io.EOF。error为其他时表示读取出错
	Load() (*Sample, error)
}

// Sample 一个采样周期内两个被监控进程与整个系统的资源使用情况
type Sample struct {
	ServerCpu     float64
	MysqlCpu      float64
	SystemCpuIdle float64
	ServerMemMb   float64
	MysqlMemMb    float64
	DiskReadKb    float64
	DiskWriteKb   float64
}

// 资源采样csv的列名
const (
	ColumnServerCpu     = "server_cpu"
	ColumnMysqlCpu      = "mysql_cpu"
	ColumnSystemCpuIdle = "system_cpu_idle"
	ColumnServerMem     = "server_mem_mb"
	ColumnMysqlMem      = "mysql_mem_mb"
	ColumnDiskRead      = "disk_read_kb"
	ColumnDiskWrite     = "disk_write_kb"
)

var Columns = []string{
	ColumnServerCpu,
	ColumnMysqlCpu,
	ColumnSystemCpuIdle,
	ColumnServerMem,
	ColumnMysqlMem,
	ColumnDiskRead,
	ColumnDiskWrite,
}

// 默认丢弃的预热采样数量
const DefaultWarmupSamples = 5

package classify

import (
	"math"

	"github.com/packagewjx/loadtest-analyzer/internal/preprocess"
	"github.com/packagewjx/loadtest-analyzer/pkg/core"
)

// ProfileFeatures 资源画像使用的特征
var ProfileFeatures = []string{"server_cpu", "mysql_cpu", "disk_read", "disk_write"}

// Group 资源使用相近的一组负载
type Group struct {
	Id        int
	Workloads []string
	Center    []float32 // 标准化后的中心，顺序与ProfileFeatures一致
}

// ProfileMatrix 将负载的资源使用转换为特征矩阵。缺失值为NaN
func ProfileMatrix(rows []*core.WorkloadMetrics) [][]float32 {
	value := func(f *float64) float32 {
		if f == nil {
			return float32(math.NaN())
		}
		return float32(*f)
	}

	data := make([][]float32, len(rows))
	for i, row := range rows {
		data[i] = []float32{
			value(row.ServerCpu),
			value(row.MysqlCpu),
			value(row.DiskRead),
			value(row.DiskWrite),
		}
	}
	return data
}

// GroupWorkloads 按资源画像对负载聚类。numGroups不超过负载数量，为0时不聚类。
// 返回的组按第一个负载在rows中的位置排序
func GroupWorkloads(rows []*core.WorkloadMetrics, numGroups int, round int) []*Group {
	if numGroups <= 0 || len(rows) == 0 {
		return nil
	}
	if numGroups > len(rows) {
		numGroups = len(rows)
	}

	data := ProfileMatrix(rows)
	preprocess.Default().Preprocess(data)

	var centers [][]float32
	var class []int
	if numGroups == 1 {
		class = make([]int, len(rows))
		centers = [][]float32{mean(data)}
	} else {
		centers, class = GetAlgorithm(KMeans).Run(data, numGroups, &KMeansContext{Round: round})
	}

	byClass := make(map[int]*Group)
	result := make([]*Group, 0, numGroups)
	for i, c := range class {
		g, ok := byClass[c]
		if !ok {
			g = &Group{Workloads: make([]string, 0, 1)}
			if c >= 0 && c < len(centers) {
				g.Center = centers[c]
			}
			byClass[c] = g
			result = append(result, g)
		}
		g.Workloads = append(g.Workloads, rows[i].Workload)
	}

	for i, g := range result {
		g.Id = i + 1
	}
	return result
}

func mean(data [][]float32) []float32 {
	result := make([]float32, len(data[0]))
	for _, row := range data {
		for i, v := range row {
			result[i] += v
		}
	}
	for i := range result {
		result[i] /= float32(len(data))
	}
	return result
}

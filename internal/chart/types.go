package chart

type Kind string

const (
	Line    = Kind("line")
	Bar     = Kind("bar")
	Scatter = Kind("scatter")
)

// Point 一个数据点。柱状图的X为类别序号，Label为类别名称
type Point struct {
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	Label string  `json:"label,omitempty" yaml:"label,omitempty"`
}

// Series 一条数据序列。Secondary为true时使用右侧Y轴
type Series struct {
	Name      string  `json:"name" yaml:"name"`
	Secondary bool    `json:"secondary,omitempty" yaml:"secondary,omitempty"`
	Points    []Point `json:"points" yaml:"points"`
}

// Spec 交给外部绘图工具的图表描述，不包含样式
type Spec struct {
	Title     string    `json:"title" yaml:"title"`
	Kind      Kind      `json:"kind" yaml:"kind"`
	XLabel    string    `json:"xLabel" yaml:"xLabel"`
	YLabel    string    `json:"yLabel" yaml:"yLabel"`
	Y2Label   string    `json:"y2Label,omitempty" yaml:"y2Label,omitempty"`
	Series    []*Series `json:"series" yaml:"series"`
	Threshold *float64  `json:"threshold,omitempty" yaml:"threshold,omitempty"`
}

// Document 一组图表
type Document struct {
	Title  string  `json:"title" yaml:"title"`
	Charts []*Spec `json:"charts" yaml:"charts"`
}

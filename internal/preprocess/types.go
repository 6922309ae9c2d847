package preprocess

// Preprocessor 对特征矩阵进行原地处理。每行为一个样本，每列为一个特征
type Preprocessor interface {
	Preprocess(data [][]float32)
}

type defaultPreprocess struct {
	chain []Preprocessor
}

func (d *defaultPreprocess) Preprocess(data [][]float32) {
	for _, processor := range d.chain {
		processor.Preprocess(data)
	}
}

func Default() Preprocessor {
	return &defaultPreprocess{chain: []Preprocessor{Impute(), Normalize()}}
}

package preprocess

func Normalize() Preprocessor {
	return &normalize{}
}

type normalize struct {
}

// Preprocess 每列除以本列的最大值，使各特征处于[0, 1]区间。最大值为0的列不处理
func (n normalize) Preprocess(data [][]float32) {
	if len(data) == 0 {
		return
	}

	for fi := 0; fi < len(data[0]); fi++ {
		max := float32(0)
		for _, row := range data {
			if max < row[fi] {
				max = row[fi]
			}
		}
		if max == 0 {
			continue
		}

		for _, row := range data {
			row[fi] /= max
		}
	}
}

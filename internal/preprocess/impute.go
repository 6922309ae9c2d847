package preprocess

import "math"

func Impute() Preprocessor {
	return &imputePreProcessor{}
}

type imputePreProcessor struct {
}

// Preprocess 使用本列有效值的平均值填充NaN。整列都是NaN时填充0
func (i imputePreProcessor) Preprocess(data [][]float32) {
	if len(data) == 0 {
		return
	}

	for fi := 0; fi < len(data[0]); fi++ {
		sum := float32(0)
		cnt := 0
		for _, row := range data {
			if !math.IsNaN(float64(row[fi])) {
				sum += row[fi]
				cnt++
			}
		}

		fill := float32(0)
		if cnt != 0 {
			fill = sum / float32(cnt)
		}
		for _, row := range data {
			if math.IsNaN(float64(row[fi])) {
				row[fi] = fill
			}
		}
	}
}

package classify

import (
	"github.com/packagewjx/kmeanspp"
	"github.com/packagewjx/loadtest-analyzer/internal/logger"
	"go.uber.org/zap"
)

// Algorithm 资源画像的聚类算法
type Algorithm interface {
	// Run 将data的每一行分到numClass类之一。data由ProfileMatrix生成并经过预处理，
	// 每行为一个负载的[服务器CPU, MySQL CPU, 磁盘读, 磁盘写]，不含NaN且各列已缩放到[0, 1]。
	// 返回的class与data按行对应，取值为[0, numClass)。context为算法参数，可以为nil
	Run(data [][]float32, numClass int, context interface{}) (centers [][]float32, class []int)
}

type AlgorithmType string

const (
	KMeans = AlgorithmType("kmeans")
)

func GetAlgorithm(algorithmType AlgorithmType) Algorithm {
	switch algorithmType {
	case KMeans:
		return &kMeansRunner{}
	default:
		return nil
	}
}

// KMeansContext k-means++的参数。Round不大于0时使用KMeansDefaultRound
type KMeansContext struct {
	Round int
}

const (
	KMeansDefaultRound = 30
)

type kMeansRunner struct {
}

func (k *kMeansRunner) Run(data [][]float32, numClass int, context interface{}) (centers [][]float32, class []int) {
	round := KMeansDefaultRound

	if context != nil {
		ctx, ok := context.(*KMeansContext)
		if !ok {
			logger.Warn("输入的context不是KMeansContext类型，将使用默认参数", zap.Any("context", context))
		} else if ctx.Round > 0 {
			round = ctx.Round
		}
	}

	logger.Debug("对资源画像进行聚类", zap.Int("workloads", len(data)), zap.Int("groups", numClass), zap.Int("round", round))
	return kmeanspp.KMeansPP(numClass, round, data)
}

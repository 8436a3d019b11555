package services

import "pipecrm/internal/repositories"

// Этап валидируется на входе (закрытый набор), но агрегатор терпим к
// неожиданным значениям, уже оказавшимся в данных.
var stageSet = func() map[string]bool {
	m := make(map[string]bool, len(repositories.PipelineStages))
	for _, s := range repositories.PipelineStages {
		m[s] = true
	}
	return m
}()

const (
	DefaultStage              = "prospect"
	DefaultConvertProbability = 10
)

func IsValidStage(stage string) bool {
	return stageSet[stage]
}

// ClampProbability приводит вероятность к диапазону [0, 100].
func ClampProbability(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

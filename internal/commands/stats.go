package commands

// Statistics 数字数组的统计信息
type Statistics struct {
	Sum     float64 `json:"sum"`
	Average float64 `json:"average"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
}

// ProcessNumbers 计算 sum/average/max/min。空输入约定返回全零，而不是 NaN。
func ProcessNumbers(numbers []float64) Statistics {
	if len(numbers) == 0 {
		return Statistics{}
	}

	stats := Statistics{
		Max: numbers[0],
		Min: numbers[0],
	}
	for _, n := range numbers {
		stats.Sum += n
		stats.Max = max(stats.Max, n)
		stats.Min = min(stats.Min, n)
	}
	stats.Average = stats.Sum / float64(len(numbers))

	return stats
}

package ta

// Last 取序列倒数第 position+1 个值
func Last(s []float64, position int) float64 {
	return s[len(s)-1-position]
}

// LastValues 取序列最后 size 个值
func LastValues(s []float64, size int) []float64 {
	if l := len(s); l > size {
		return s[l-size:]
	}
	return s
}

// Lowest 最近 period 个值中的最小值
func Lowest(low []float64, period int) float64 {
	arr := LastValues(low, period)
	minVal := arr[0]
	for _, value := range arr {
		if value < minVal {
			minVal = value
		}
	}
	return minVal
}

// Highest 最近 period 个值中的最大值
func Highest(high []float64, period int) float64 {
	arr := LastValues(high, period)
	maxVal := arr[0]
	for _, value := range arr {
		if value > maxVal {
			maxVal = value
		}
	}
	return maxVal
}

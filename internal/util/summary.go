package util

import (
	"math"
	"sort"
)

type Summary struct {
	Samples int     `json:"samples"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Median  float64 `json:"median"`
}

// Summarize sorts a copy of values and reports their spread. StdDev is the
// population standard deviation.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))
	sq := 0.0
	for _, v := range sorted {
		sq += (v - mean) * (v - mean)
	}

	median := sorted[len(sorted)/2]
	if len(sorted)%2 == 0 {
		median = (sorted[len(sorted)/2-1] + median) / 2
	}
	return Summary{
		Samples: len(sorted),
		Mean:    mean,
		StdDev:  math.Sqrt(sq / float64(len(sorted))),
		Min:     sorted[0],
		Max:     sorted[len(sorted)-1],
		Median:  median,
	}
}
